package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// ExpenseRepository defines the interface for expense persistence and
// aggregation operations. All reads are scoped to one owning user.
// Sum bounds are inclusive on BOTH ends: an expense dated exactly at
// start or at end is counted.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List retrieves a user's expenses, optionally bounded by date.
	// Nil bounds are open.
	List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Expense, error)

	// SumByUser totals expense amounts dated within [start, end].
	// No matching rows yields zero, not an error.
	SumByUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (decimal.Decimal, error)

	// SumByCategory totals expense amounts in one category, optionally
	// bounded by date. Nil bounds are open.
	SumByCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to *time.Time) (decimal.Decimal, error)

	// FirstExpenseDate returns the UTC timestamp of the user's
	// chronologically-first expense, or nil when the user has none.
	FirstExpenseDate(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}

// IncomeRepository defines the interface for income persistence and
// aggregation operations.
type IncomeRepository interface {
	Create(ctx context.Context, income *Income) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Income, error)
	Update(ctx context.Context, income *Income) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Income, error)

	// SumByUser totals income amounts received within [start, end],
	// inclusive on both ends.
	SumByUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (decimal.Decimal, error)
}

// BillRepository defines the interface for bill persistence and
// aggregation operations.
type BillRepository interface {
	Create(ctx context.Context, bill *Bill) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, bill *Bill) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]*Bill, error)

	// SumDueByUser totals bills that fall due within [start, end]:
	// billing_start <= end, billing_end absent or >= start, and
	// day_of_month_debited <= cutoffDay.
	SumDueByUser(ctx context.Context, userID uuid.UUID, start, end time.Time, cutoffDay int) (decimal.Decimal, error)
}

// CategoryRepository defines the interface for category persistence
// operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	List(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// RefreshTokenRepository defines the interface for refresh token
// persistence operations.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error

	// ListActiveByUser returns the user's tokens expiring after now.
	ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*RefreshToken, error)

	// DeleteExpired removes tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) error
}
