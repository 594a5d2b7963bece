// Package timezone provides timezone utilities for schedsense.
//
// Every instant produced by the scheduling core carries an explicit
// location; this package centralizes parsing and day-boundary math so the
// rest of the code never reasons about naive times.
package timezone

import (
	"fmt"
	"time"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "Asia/Kolkata").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for constants that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" || tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	d := t.In(tz)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, tz)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the given timezone.
func EndOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	d := t.In(tz)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999999, tz)
}

// FormatRange formats a start/end pair for display.
// Same-day ranges collapse the second date: "2026-08-28 14:00 - 14:30".
func FormatRange(start, end time.Time, tz *time.Location) string {
	if tz == nil {
		tz = UTC
	}
	s := start.In(tz)
	e := end.In(tz)

	if s.Year() == e.Year() && s.YearDay() == e.YearDay() {
		return fmt.Sprintf("%s - %s", s.Format("2006-01-02 15:04"), e.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", s.Format("2006-01-02 15:04"), e.Format("2006-01-02 15:04"))
}
