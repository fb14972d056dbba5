package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income represents money received. DateReceived is a UTC instant.
// Employer is a free-text label.
type Income struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Amount       decimal.Decimal
	DateReceived time.Time
	Employer     string
}

// Validate ensures the income adheres to domain rules.
func (i *Income) Validate() error {
	if i.UserID == uuid.Nil {
		return errors.New("income must belong to a user")
	}
	if i.DateReceived.IsZero() {
		return errors.New("income date received is required")
	}
	if i.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("income amount must be positive")
	}
	return nil
}
