package scheduling

import (
	"time"
)

// SearchPolicy configures the free-slot search.
type SearchPolicy struct {
	// Step is the probe granularity between candidate start times.
	Step time.Duration
	// Horizon bounds the lookahead from the requested start.
	Horizon time.Duration
	// BusinessOpen/BusinessClose bound acceptable slots within a day.
	BusinessOpen  TimeOfDay
	BusinessClose TimeOfDay
	// BusinessDaysOnly excludes Saturday and Sunday when true.
	BusinessDaysOnly bool
}

// DefaultSearchPolicy returns the stock policy: 30-minute probes over a
// 7-day horizon, 09:00-17:00, weekdays only.
func DefaultSearchPolicy() SearchPolicy {
	return SearchPolicy{
		Step:             30 * time.Minute,
		Horizon:          7 * 24 * time.Hour,
		BusinessOpen:     TimeOfDay{Hour: 9},
		BusinessClose:    TimeOfDay{Hour: 17},
		BusinessDaysOnly: true,
	}
}

// normalized fills zero fields with defaults so a partially configured
// policy behaves sensibly.
func (p SearchPolicy) normalized() SearchPolicy {
	def := DefaultSearchPolicy()
	if p.Step <= 0 {
		p.Step = def.Step
	}
	if p.Horizon <= 0 {
		p.Horizon = def.Horizon
	}
	if p.BusinessOpen == (TimeOfDay{}) && p.BusinessClose == (TimeOfDay{}) {
		p.BusinessOpen = def.BusinessOpen
		p.BusinessClose = def.BusinessClose
	}
	return p
}

// FindNextSlot searches forward from the requested interval for the
// nearest free slot of the same duration.
//
// Candidates start at requested.Start+Step and advance by Step. A
// candidate is accepted iff it lies fully inside business hours on its
// calendar day, falls on a business day when required, and overlaps no
// busy event. The first acceptable candidate wins: greedy-nearest, not
// cost-optimal, but deterministic. Returns false once the probe cursor
// passes requested.Start+Horizon.
//
// The busy set is re-scanned linearly per candidate; for calendars large
// enough to make that matter, pre-sort and merge-scan instead. That is a
// performance refinement, not a behavior change.
func FindNextSlot(requested Interval, busy []BusyEvent, policy SearchPolicy) (Interval, bool) {
	policy = policy.normalized()
	duration := requested.Duration()
	deadline := requested.Start.Add(policy.Horizon)
	loc := requested.Start.Location()

	for cursor := requested.Start.Add(policy.Step); !cursor.After(deadline); cursor = cursor.Add(policy.Step) {
		candidate := Interval{Start: cursor, End: cursor.Add(duration)}

		if policy.BusinessDaysOnly && isWeekend(candidate.Start) {
			continue
		}
		if !withinBusinessHours(candidate, policy, loc) {
			continue
		}
		if overlapsAny(candidate, busy) {
			continue
		}
		return candidate, true
	}

	return Interval{}, false
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// withinBusinessHours requires both endpoints inside the business window
// of the candidate's own calendar day, which also rejects slots spanning
// midnight.
func withinBusinessHours(candidate Interval, policy SearchPolicy, loc *time.Location) bool {
	open := policy.BusinessOpen.At(candidate.Start, loc)
	close := policy.BusinessClose.At(candidate.Start, loc)

	if candidate.Start.Before(open) {
		return false
	}
	if candidate.End.After(close) {
		return false
	}
	return true
}

func overlapsAny(candidate Interval, busy []BusyEvent) bool {
	for _, event := range busy {
		if candidate.Overlaps(event.Interval) {
			return true
		}
	}
	return false
}
