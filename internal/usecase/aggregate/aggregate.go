// Package aggregate sums transaction amounts within a time window,
// scoped to one user. It is the single read path the report builders
// use; repositories own the actual filter predicates.
package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendings-app/spendings-backend/internal/domain"
)

// Kind selects which entity a Sum runs over.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	KindBill    Kind = "bill"
)

// Options narrows a Sum beyond user and window.
type Options struct {
	// CategoryID restricts expense sums to one category. Ignored for
	// other kinds.
	CategoryID *uuid.UUID

	// BillCutoffDay is the proration cutoff for bill sums: only bills
	// with day_of_month_debited <= cutoff are counted. Required for
	// KindBill, ignored otherwise.
	BillCutoffDay int
}

// Service dispatches window sums to the per-entity repositories.
type Service struct {
	ExpenseRepo domain.ExpenseRepository
	IncomeRepo  domain.IncomeRepository
	BillRepo    domain.BillRepository
}

// NewService creates a new aggregation Service instance.
func NewService(
	expenseRepo domain.ExpenseRepository,
	incomeRepo domain.IncomeRepository,
	billRepo domain.BillRepository,
) *Service {
	return &Service{
		ExpenseRepo: expenseRepo,
		IncomeRepo:  incomeRepo,
		BillRepo:    billRepo,
	}
}

// Sum totals amounts of the given kind for one user within
// [start, end], inclusive on both ends. A window with no matching rows
// yields zero, not an error.
func (s *Service) Sum(ctx context.Context, userID uuid.UUID, kind Kind, start, end time.Time, opts Options) (decimal.Decimal, error) {
	switch kind {
	case KindExpense:
		if opts.CategoryID != nil {
			return s.ExpenseRepo.SumByCategory(ctx, userID, *opts.CategoryID, &start, &end)
		}
		return s.ExpenseRepo.SumByUser(ctx, userID, start, end)
	case KindIncome:
		return s.IncomeRepo.SumByUser(ctx, userID, start, end)
	case KindBill:
		return s.BillRepo.SumDueByUser(ctx, userID, start, end, opts.BillCutoffDay)
	default:
		return decimal.Zero, fmt.Errorf("unknown entity kind %q", kind)
	}
}

// CategoryTotal sums one category's expenses, optionally bounded by
// date. Nil bounds are open, so a category's all-time total is
// CategoryTotal(ctx, userID, categoryID, nil, nil).
func (s *Service) CategoryTotal(ctx context.Context, userID, categoryID uuid.UUID, from, to *time.Time) (decimal.Decimal, error) {
	return s.ExpenseRepo.SumByCategory(ctx, userID, categoryID, from, to)
}
