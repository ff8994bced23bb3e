package timeutil

import (
	"fmt"
	"time"
)

var defaultLocation = time.UTC

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ResolveLocation returns the configured location with UTC fallback.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// Clock supplies the current time. Normalizers take one so tests can pin "today".
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = defaultLocation
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t. Useful in tests and in the CLI.
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// CombineDateTime joins a YYYY-MM-DD date and an HH:MM clock value into an instant in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = defaultLocation
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse %q %q: %w", date, clock, err)
	}
	return t, nil
}
