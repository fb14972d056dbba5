// Package clock provides a deterministic clock abstraction. Services
// that need "now" take a Clock instead of calling time.Now directly, so
// tests can pin computations to fixed instants.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the actual system time. Use at application entry points.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same time. Use for deterministic testing.
type Fixed struct {
	T time.Time
}

// Now returns the fixed time.
func (c Fixed) Now() time.Time {
	return c.T
}
