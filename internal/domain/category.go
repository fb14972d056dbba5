package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category labels expenses. Names are unique per user, not globally.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	DateAdded time.Time
}

// Validate ensures the category adheres to domain rules.
func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("category must belong to a user")
	}
	if c.Name == "" {
		return errors.New("category name is required")
	}
	return nil
}
