// Package report builds the summary views: comparative period spend,
// the month-to-date cumulative spend curve, and the monthly history.
// All boundary arithmetic happens on "local midnight expressed in UTC"
// anchors so periods line up with the user's calendar, not the
// server's.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/clock"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
	"github.com/spendings-app/spendings-backend/internal/usecase/timezone"
)

// Summer is the slice of the aggregator the report service consumes.
type Summer interface {
	Sum(ctx context.Context, userID uuid.UUID, kind aggregate.Kind, start, end time.Time, opts aggregate.Options) (decimal.Decimal, error)
}

// ExpenseDates exposes the anchor the monthly history iterates from.
// domain.ExpenseRepository satisfies it.
type ExpenseDates interface {
	FirstExpenseDate(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}

// Service handles summary computations. Every method takes "now" from
// the injected Clock; nothing here reads the wall clock directly.
type Service struct {
	Agg      Summer
	Expenses ExpenseDates
	Zones    *timezone.Resolver
	Clock    clock.Clock
}

// NewService creates a new report Service instance.
func NewService(agg Summer, expenses ExpenseDates, zones *timezone.Resolver, clk clock.Clock) *Service {
	return &Service{
		Agg:      agg,
		Expenses: expenses,
		Zones:    zones,
		Clock:    clk,
	}
}

// addMonthsClamped shifts t by a number of calendar months, clamping
// the day to the last valid day of the target month (March 31 minus
// one month is February 28, not March 3). The clock time is preserved.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	h, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}
