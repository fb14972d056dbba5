package timezone

import (
	"time"

	"github.com/spendings-app/spendings-backend/internal/domain"
)

// Default fallback: Australian Eastern Standard Time as a fixed UTC+10
// offset with no daylight-saving adjustment.
const (
	defaultZoneName   = "AEST"
	defaultZoneOffset = 10 * 60 * 60
)

// Resolver maps a user's stored time-zone identifier to an effective
// *time.Location. An empty, malformed, or unknown identifier silently
// falls back to the default zone so aggregation is always computable.
type Resolver struct {
	fallback *time.Location
}

// NewResolver creates a Resolver with the standard AEST fallback.
func NewResolver() *Resolver {
	return &Resolver{fallback: time.FixedZone(defaultZoneName, defaultZoneOffset)}
}

// Resolve returns the user's effective time zone. It never fails.
func (r *Resolver) Resolve(user *domain.User) *time.Location {
	// time.LoadLocation("") means UTC, which is not the agreed fallback.
	if user.TimeZoneID == "" {
		return r.fallback
	}
	loc, err := time.LoadLocation(user.TimeZoneID)
	if err != nil {
		return r.fallback
	}
	return loc
}

// LocalMidnightUTC converts instant into the user's zone, truncates to
// that zone's calendar midnight, and expresses the result back in UTC.
// This instant anchors all day/week/month boundary arithmetic.
func (r *Resolver) LocalMidnightUTC(user *domain.User, instant time.Time) time.Time {
	loc := r.Resolve(user)
	y, m, d := instant.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

// LocalDate returns the user's civil date for instant, encoded as a
// midnight-UTC value so callers can read Day, Month, and Weekday
// without carrying the zone around.
func (r *Resolver) LocalDate(user *domain.User, instant time.Time) time.Time {
	loc := r.Resolve(user)
	y, m, d := instant.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
