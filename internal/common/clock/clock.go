package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/robalobadob/numeros/internal/common/clock Clock
type Clock interface {
	Now() time.Time
}

// DefaultClock implements Clock using the system clock in UTC.
type DefaultClock struct{}

// Now returns the current time.
func (c *DefaultClock) Now() time.Time {
	return time.Now().UTC()
}
