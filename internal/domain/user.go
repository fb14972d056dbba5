package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder. TimeZoneID is the IANA identifier
// the user registered with; it may be empty or invalid, in which case
// aggregation falls back to a default zone rather than failing.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Surname      string
	TimeZoneID   string
	CreatedAt    time.Time
}

// RefreshToken stores one issued refresh token, bcrypt-hashed at rest.
// A user may hold several concurrently (one per device/session).
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}
