package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/domain"
	"github.com/spendings-app/spendings-backend/internal/usecase/aggregate"
)

// MonthlySummary totals one calendar month, in the user's locale, of
// expenses, income, and bills due by the proration cutoff.
type MonthlySummary struct {
	Year          int
	Month         time.Month
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalBills    decimal.Decimal
}

// MonthlySummaries walks every calendar month from the user's first
// recorded expense up to and including the current (partial) month.
// The bill cutoff is today's local day-of-month for the current month
// and 31 for fully elapsed months. A user with no expenses yields an
// empty list.
func (s *Service) MonthlySummaries(ctx context.Context, user *domain.User) ([]MonthlySummary, error) {
	first, err := s.Expenses.FirstExpenseDate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("first expense date: %w", err)
	}
	if first == nil {
		return []MonthlySummary{}, nil
	}

	loc := s.Zones.Resolve(user)
	todayLocal := s.Clock.Now().In(loc)
	ty, tm, td := todayLocal.Date()
	todayDate := time.Date(ty, tm, td, 0, 0, 0, 0, loc)

	firstLocal := first.In(loc)
	monthStart := time.Date(firstLocal.Year(), firstLocal.Month(), 1, 0, 0, 0, 0, loc)

	summaries := []MonthlySummary{}
	for monthStart.Before(todayDate) {
		// The window runs to the next local month start so late-month
		// days are never dropped when the zone offset shifts the UTC
		// date backwards.
		startUTC := monthStart.UTC()
		endUTC := monthStart.AddDate(0, 1, 0).UTC()

		cutoff := 31
		if monthStart.Year() == ty && monthStart.Month() == tm {
			cutoff = td
		}

		expenses, err := s.Agg.Sum(ctx, user.ID, aggregate.KindExpense, startUTC, endUTC, aggregate.Options{})
		if err != nil {
			return nil, fmt.Errorf("month %04d-%02d expenses: %w", monthStart.Year(), monthStart.Month(), err)
		}
		income, err := s.Agg.Sum(ctx, user.ID, aggregate.KindIncome, startUTC, endUTC, aggregate.Options{})
		if err != nil {
			return nil, fmt.Errorf("month %04d-%02d income: %w", monthStart.Year(), monthStart.Month(), err)
		}
		bills, err := s.Agg.Sum(ctx, user.ID, aggregate.KindBill, startUTC, endUTC, aggregate.Options{BillCutoffDay: cutoff})
		if err != nil {
			return nil, fmt.Errorf("month %04d-%02d bills: %w", monthStart.Year(), monthStart.Month(), err)
		}

		summaries = append(summaries, MonthlySummary{
			Year:          monthStart.Year(),
			Month:         monthStart.Month(),
			TotalExpenses: expenses,
			TotalIncome:   income,
			TotalBills:    bills,
		})

		monthStart = monthStart.AddDate(0, 1, 0)
	}

	return summaries, nil
}
