package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
)

// AmountVsPrevious holds a period's expense total and its percentage
// change against the comparable prior period. A prior-period total of
// zero yields a change of zero, never a division error.
type AmountVsPrevious struct {
	Current   decimal.Decimal
	ChangePct decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// percentChange computes (current - previous) / previous * 100, with
// previous == 0 defined as zero change.
func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Daily compares today's spend against the same weekday one week
// earlier: [midnight, midnight+1d] vs [midnight-7d, midnight-6d].
func (s *Service) Daily(ctx context.Context, user *domain.User) (AmountVsPrevious, error) {
	today := s.Zones.LocalMidnightUTC(user, s.Clock.Now())

	return s.compare(ctx, user.ID,
		today, today.AddDate(0, 0, 1),
		today.AddDate(0, 0, -7), today.AddDate(0, 0, -6))
}

// Weekly compares the week-to-date (Monday through today) against the
// prior calendar week. Weeks start on Monday; when today is a Sunday
// the most recent Monday is six days back.
func (s *Service) Weekly(ctx context.Context, user *domain.User) (AmountVsPrevious, error) {
	now := s.Clock.Now()
	today := s.Zones.LocalMidnightUTC(user, now)
	local := s.Zones.LocalDate(user, now)

	daysToMonday := int(local.Weekday()) - 1
	if local.Weekday() == time.Sunday {
		daysToMonday = 6
	}

	return s.compare(ctx, user.ID,
		today.AddDate(0, 0, -daysToMonday), today.AddDate(0, 0, 1),
		today.AddDate(0, 0, -(daysToMonday+7)), today.AddDate(0, 0, -7+1))
}

// Monthly compares the month-to-date against the same span one
// calendar month earlier (not "30 days"); see addMonthsClamped for the
// month-end clamping rule.
func (s *Service) Monthly(ctx context.Context, user *domain.User) (AmountVsPrevious, error) {
	now := s.Clock.Now()
	today := s.Zones.LocalMidnightUTC(user, now)
	local := s.Zones.LocalDate(user, now)

	daysToFirst := local.Day() - 1
	monthAgo := addMonthsClamped(today, -1)

	return s.compare(ctx, user.ID,
		today.AddDate(0, 0, -daysToFirst), today.AddDate(0, 0, 1),
		monthAgo.AddDate(0, 0, -daysToFirst), monthAgo.AddDate(0, 0, 1))
}

// compare totals expenses in the current and prior windows and derives
// the percentage change. Aggregation failures surface as errors; the
// transport layer decides whether to degrade to zeros.
func (s *Service) compare(ctx context.Context, userID uuid.UUID, curStart, curEnd, prevStart, prevEnd time.Time) (AmountVsPrevious, error) {
	current, err := s.Agg.Sum(ctx, userID, aggregate.KindExpense, curStart, curEnd, aggregate.Options{})
	if err != nil {
		return AmountVsPrevious{}, fmt.Errorf("current period total: %w", err)
	}

	previous, err := s.Agg.Sum(ctx, userID, aggregate.KindExpense, prevStart, prevEnd, aggregate.Options{})
	if err != nil {
		return AmountVsPrevious{}, fmt.Errorf("prior period total: %w", err)
	}

	return AmountVsPrevious{
		Current:   current,
		ChangePct: percentChange(current, previous),
	}, nil
}
