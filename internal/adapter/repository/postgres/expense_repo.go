package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendings-app/spendings-backend/internal/domain"
)

// expenseRepository implements domain.ExpenseRepository
type expenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB) domain.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, category_id, amount, date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.UserID,
		nullUUID(expense.CategoryID),
		expense.Amount.String(),
		expense.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (r *expenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount, date
		FROM expenses
		WHERE user_id = $1 AND id = $2
	`
	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	query := `
		UPDATE expenses
		SET category_id = $3, amount = $4, date = $5
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		expense.UserID,
		expense.ID,
		nullUUID(expense.CategoryID),
		expense.Amount.String(),
		expense.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRow(res)
}

func (r *expenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(res)
}

func (r *expenseRepository) List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Expense, error) {
	query := `
		SELECT id, user_id, category_id, amount, date
		FROM expenses
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// SumByUser totals a user's expenses within [start, end], inclusive on
// both ends.
func (r *expenseRepository) SumByUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`
	return scanSum(r.db.QueryRowContext(ctx, query, userID, start, end))
}

func (r *expenseRepository) SumByCategory(ctx context.Context, userID, categoryID uuid.UUID, from, to *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND category_id = $2
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
	`
	return scanSum(r.db.QueryRowContext(ctx, query, userID, categoryID, nullTime(from), nullTime(to)))
}

func (r *expenseRepository) FirstExpenseDate(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	query := `
		SELECT date
		FROM expenses
		WHERE user_id = $1
		ORDER BY date ASC
		LIMIT 1
	`
	var date time.Time
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first expense date: %w", err)
	}
	return &date, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		expense    domain.Expense
		categoryID uuid.NullUUID
		amount     string
	)
	if err := row.Scan(&expense.ID, &expense.UserID, &categoryID, &amount, &expense.Date); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		expense.CategoryID = &categoryID.UUID
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	expense.Amount = parsed
	return &expense, nil
}

// scanSum reads a single aggregate value as a decimal.
func scanSum(row rowScanner) (decimal.Decimal, error) {
	var amount string
	if err := row.Scan(&amount); err != nil {
		return decimal.Zero, fmt.Errorf("failed to scan sum: %w", err)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum %q: %w", amount, err)
	}
	return parsed, nil
}

// requireRow maps a zero-row write to domain.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
