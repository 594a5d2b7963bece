package scheduling

import (
	"sort"
)

// Scan collects every busy event overlapping the requested interval and
// returns them sorted by start time ascending. The sort is stable, which
// fixes the suggestion order downstream. Pure function of its inputs.
func Scan(requested Interval, busy []BusyEvent) ConflictReport {
	var conflicting []BusyEvent
	for _, event := range busy {
		if requested.Overlaps(event.Interval) {
			conflicting = append(conflicting, event)
		}
	}

	sort.SliceStable(conflicting, func(i, j int) bool {
		return conflicting[i].Interval.Start.Before(conflicting[j].Interval.Start)
	})

	return ConflictReport{
		HasConflict: len(conflicting) > 0,
		Conflicting: conflicting,
	}
}
