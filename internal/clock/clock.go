// Package clock provides the time source used to decide what "today" is.
package clock

import (
	"time"

	"github.com/nekogravitycat/campsite-booking-backend/internal/calendar"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock and reports dates in the configured location.
type System struct {
	Location *time.Location
}

// NewSystem returns a System clock. A nil location means UTC.
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{Location: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant. Useful in tests.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Today returns the calendar date of c.Now() in the clock's own location.
func Today(c Clock) time.Time {
	return calendar.Truncate(c.Now())
}
