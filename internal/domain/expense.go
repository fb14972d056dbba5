package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a single spend record in the domain layer.
// Date is a UTC instant; period boundaries are derived from it in the
// owner's local time zone. CategoryID may be nil until an edit assigns
// one. Amounts may be negative (refunds).
type Expense struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID *uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
}

// Validate ensures the expense adheres to domain rules.
func (e *Expense) Validate() error {
	if e.UserID == uuid.Nil {
		return errors.New("expense must belong to a user")
	}
	if e.Date.IsZero() {
		return errors.New("expense date is required")
	}
	return nil
}
