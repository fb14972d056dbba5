package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill represents a recurring monthly debit. It is active from
// BillingStart until BillingEnd (nil means open-ended) and is debited
// on DayOfMonthDebited each month. A bill counts toward a period only
// once its debit day has passed within that period; the cutoff day is
// supplied by the aggregation caller.
type Bill struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	Amount            decimal.Decimal
	BillingStart      time.Time
	BillingEnd        *time.Time
	DayOfMonthDebited int
	CreatedAt         time.Time
}

// Validate ensures the bill adheres to domain rules.
func (b *Bill) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("bill must belong to a user")
	}
	if b.Name == "" {
		return errors.New("bill name is required")
	}
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("bill amount must be positive")
	}
	if b.DayOfMonthDebited < 1 || b.DayOfMonthDebited > 31 {
		return errors.New("bill day of month debited must be between 1 and 31")
	}
	if b.BillingStart.IsZero() {
		return errors.New("bill billing start is required")
	}
	if b.BillingEnd != nil && b.BillingEnd.Before(b.BillingStart) {
		return errors.New("bill billing end must not precede billing start")
	}
	return nil
}
