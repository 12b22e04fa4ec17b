// Package sydtime interprets the platform's civil event times. Event start
// times are stored as wall-clock strings in Sydney local time, not as UTC
// instants; conversion to an instant happens here, at read time, using the
// named timezone's offset rules so daylight-saving transitions resolve
// correctly.
package sydtime

import (
	"fmt"
	"time"
)

// Layout is the stored wall-clock format, e.g. "2025-08-15T10:00".
const Layout = "2006-01-02T15:04"

var sydney = mustLocation()

func mustLocation() *time.Location {
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		panic(fmt.Sprintf("sydtime: load Australia/Sydney: %v", err))
	}
	return loc
}

// Parse converts a stored civil time string to the instant it denotes under
// Sydney's current offset rules.
func Parse(value string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, sydney)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event time %q: %w", value, err)
	}
	return t, nil
}

// Format renders an instant as a Sydney civil time string.
func Format(t time.Time) string {
	return t.In(sydney).Format(Layout)
}

// Now returns the current time in the Sydney location.
func Now() time.Time {
	return time.Now().In(sydney)
}

// HasStarted reports whether an event with the given civil start time has
// started as of now.
func HasStarted(startTime string, now time.Time) (bool, error) {
	start, err := Parse(startTime)
	if err != nil {
		return false, err
	}
	return !now.Before(start), nil
}

// HasExpired reports whether an event has ended: now >= startTime + duration.
func HasExpired(startTime string, durationMinutes int, now time.Time) (bool, error) {
	start, err := Parse(startTime)
	if err != nil {
		return false, err
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return !now.Before(end), nil
}
