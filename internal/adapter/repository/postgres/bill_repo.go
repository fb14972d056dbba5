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

// billRepository implements domain.BillRepository
type billRepository struct {
	db *DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *DB) domain.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *domain.Bill) error {
	query := `
		INSERT INTO bills (id, user_id, name, amount, billing_start, billing_end, day_of_month_debited, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		bill.ID,
		bill.UserID,
		bill.Name,
		bill.Amount.String(),
		bill.BillingStart,
		nullTime(bill.BillingEnd),
		bill.DayOfMonthDebited,
		bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

func (r *billRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Bill, error) {
	query := `
		SELECT id, user_id, name, amount, billing_start, billing_end, day_of_month_debited, created_at
		FROM bills
		WHERE user_id = $1 AND id = $2
	`
	bill, err := scanBill(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

func (r *billRepository) Update(ctx context.Context, bill *domain.Bill) error {
	query := `
		UPDATE bills
		SET name = $3, amount = $4, billing_start = $5, billing_end = $6, day_of_month_debited = $7
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		bill.UserID,
		bill.ID,
		bill.Name,
		bill.Amount.String(),
		bill.BillingStart,
		nullTime(bill.BillingEnd),
		bill.DayOfMonthDebited,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	return requireRow(res)
}

func (r *billRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireRow(res)
}

func (r *billRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.Bill, error) {
	query := `
		SELECT id, user_id, name, amount, billing_start, billing_end, day_of_month_debited, created_at
		FROM bills
		WHERE user_id = $1
		ORDER BY day_of_month_debited ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// SumDueByUser totals bills falling due within [start, end]. A bill
// counts when its billing period overlaps the window and its debit day
// does not exceed cutoffDay.
func (r *billRepository) SumDueByUser(ctx context.Context, userID uuid.UUID, start, end time.Time, cutoffDay int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM bills
		WHERE user_id = $1
		  AND billing_start <= $3
		  AND (billing_end IS NULL OR billing_end >= $2)
		  AND day_of_month_debited <= $4
	`
	return scanSum(r.db.QueryRowContext(ctx, query, userID, start, end, cutoffDay))
}

func scanBill(row rowScanner) (*domain.Bill, error) {
	var (
		bill   domain.Bill
		amount string
		end    sql.NullTime
	)
	err := row.Scan(
		&bill.ID,
		&bill.UserID,
		&bill.Name,
		&amount,
		&bill.BillingStart,
		&end,
		&bill.DayOfMonthDebited,
		&bill.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	bill.Amount = parsed
	if end.Valid {
		t := end.Time
		bill.BillingEnd = &t
	}
	return &bill, nil
}
