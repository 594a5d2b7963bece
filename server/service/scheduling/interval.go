// Package scheduling implements the scheduling core: resolving natural
// language time phrases into absolute instants, detecting conflicts against
// busy calendar intervals, and searching for the nearest free slot.
//
// Every function here is a pure computation over its arguments. The only
// I/O happens behind the CalendarBackend interface consumed by the
// Orchestrator, so the whole package is safe to call concurrently and
// trivial to test with fakes.
package scheduling

import (
	"fmt"
	"time"

	serrors "github.com/hrygo/schedsense/internal/errors"
)

// DefaultMeetingDuration is used when a request does not specify one.
const DefaultMeetingDuration = 30 * time.Minute

// Interval is a half-open time range [Start, End).
// Invariant: End is strictly after Start.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds an interval, enforcing End > Start.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, serrors.InvalidArgument(
			fmt.Sprintf("interval end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)))
	}
	return Interval{Start: start, End: end}, nil
}

// IntervalFrom builds an interval from a start time and a duration.
func IntervalFrom(start time.Time, d time.Duration) (Interval, error) {
	if d <= 0 {
		return Interval{}, serrors.InvalidArgument(fmt.Sprintf("meeting duration must be positive, got %s", d))
	}
	return Interval{Start: start, End: start.Add(d)}, nil
}

// Overlaps reports whether the two half-open intervals intersect.
// Back-to-back intervals (a.End == b.Start) never overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Shift translates both endpoints by delta, preserving the duration exactly.
func (i Interval) Shift(delta time.Duration) Interval {
	return Interval{Start: i.Start.Add(delta), End: i.End.Add(delta)}
}

// Duration returns the span of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsZero reports whether the interval is the zero value.
func (i Interval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// Equal compares both endpoints by instant (ignoring location).
func (i Interval) Equal(other Interval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// BusyEvent is an occupied interval on the calendar, owned by the calendar
// backend. The core only reads it, never mutates it.
type BusyEvent struct {
	ID       string   `json:"id"`
	Summary  string   `json:"summary"`
	Interval Interval `json:"interval"`
}

// MeetingRequest is the user's intent for one scheduling attempt.
// Constructed once per attempt, immutable thereafter.
type MeetingRequest struct {
	Summary  string
	Interval Interval
}

// ConflictReport lists the busy events overlapping a requested interval,
// ordered by start time ascending. Produced fresh per scan.
type ConflictReport struct {
	HasConflict bool        `json:"has_conflict"`
	Conflicting []BusyEvent `json:"conflicting,omitempty"`
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At anchors the wall-clock time onto the given date in loc.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
