package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
)

// SpendGraph holds parallel day-indexed series for the current month:
// cumulative actual spend through today (flat afterwards) and a linear
// run-rate projection through day 31. The projection is deliberately
// not calendar-aware: short months still emit entries for days 29-31.
type SpendGraph struct {
	Days      []int
	Actual    []decimal.Decimal
	Predicted []decimal.Decimal
}

// Graph sums each elapsed day of the current local month and folds the
// per-day totals into a SpendGraph.
func (s *Service) Graph(ctx context.Context, user *domain.User) (SpendGraph, error) {
	now := s.Clock.Now()
	today := s.Zones.LocalMidnightUTC(user, now)
	todayDay := s.Zones.LocalDate(user, now).Day()

	daily := make([]decimal.Decimal, 0, todayDay)
	for i := 1; i <= todayDay; i++ {
		start := today.AddDate(0, 0, -(todayDay - i))
		end := start.AddDate(0, 0, 1)
		amount, err := s.Agg.Sum(ctx, user.ID, aggregate.KindExpense, start, end, aggregate.Options{})
		if err != nil {
			return SpendGraph{}, fmt.Errorf("day %d total: %w", i, err)
		}
		daily = append(daily, amount)
	}

	return buildGraph(daily), nil
}

// buildGraph is the pure fold from per-day totals (days 1..today) into
// the 31-entry graph. Actuals accumulate through the last supplied day
// and stay flat after it; Predicted[i] = perDay * i for every day,
// where perDay is the final cumulative actual divided by the number of
// elapsed days.
func buildGraph(daily []decimal.Decimal) SpendGraph {
	const monthDays = 31

	g := SpendGraph{
		Days:      make([]int, 0, monthDays),
		Actual:    make([]decimal.Decimal, 0, monthDays),
		Predicted: make([]decimal.Decimal, 0, monthDays),
	}

	running := decimal.Zero
	for i := 1; i <= monthDays; i++ {
		g.Days = append(g.Days, i)
		if i <= len(daily) {
			running = running.Add(daily[i-1])
		}
		g.Actual = append(g.Actual, running)
	}

	perDay := decimal.Zero
	if len(daily) > 0 {
		perDay = running.Div(decimal.NewFromInt(int64(len(daily))))
	}
	for _, day := range g.Days {
		g.Predicted = append(g.Predicted, perDay.Mul(decimal.NewFromInt(int64(day))))
	}

	return g
}
