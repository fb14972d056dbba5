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

// incomeRepository implements domain.IncomeRepository
type incomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new income repository
func NewIncomeRepository(db *DB) domain.IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *domain.Income) error {
	query := `
		INSERT INTO incomes (id, user_id, amount, date_received, employer)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		income.ID,
		income.UserID,
		income.Amount.String(),
		income.DateReceived,
		income.Employer,
	)
	if err != nil {
		return fmt.Errorf("failed to insert income: %w", err)
	}
	return nil
}

func (r *incomeRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Income, error) {
	query := `
		SELECT id, user_id, amount, date_received, employer
		FROM incomes
		WHERE user_id = $1 AND id = $2
	`
	income, err := scanIncome(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	return income, nil
}

func (r *incomeRepository) Update(ctx context.Context, income *domain.Income) error {
	query := `
		UPDATE incomes
		SET amount = $3, date_received = $4, employer = $5
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		income.UserID,
		income.ID,
		income.Amount.String(),
		income.DateReceived,
		income.Employer,
	)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	return requireRow(res)
}

func (r *incomeRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return requireRow(res)
}

func (r *incomeRepository) List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*domain.Income, error) {
	query := `
		SELECT id, user_id, amount, date_received, employer
		FROM incomes
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date_received >= $2)
		  AND ($3::timestamptz IS NULL OR date_received <= $3)
		ORDER BY date_received DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID, nullTime(from), nullTime(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*domain.Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// SumByUser totals a user's income received within [start, end],
// inclusive on both ends.
func (r *incomeRepository) SumByUser(ctx context.Context, userID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM incomes
		WHERE user_id = $1 AND date_received >= $2 AND date_received <= $3
	`
	return scanSum(r.db.QueryRowContext(ctx, query, userID, start, end))
}

func scanIncome(row rowScanner) (*domain.Income, error) {
	var (
		income domain.Income
		amount string
	)
	if err := row.Scan(&income.ID, &income.UserID, &amount, &income.DateReceived, &income.Employer); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	income.Amount = parsed
	return &income, nil
}
