package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNextSlot_NearestAfterConflict(t *testing.T) {
	// Tuesday. Busy 13:00-14:00, requesting 13:30-14:00.
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	busy := []BusyEvent{
		busyAt("standup", day.Add(13*time.Hour), time.Hour),
	}
	requested := Interval{
		Start: day.Add(13*time.Hour + 30*time.Minute),
		End:   day.Add(14 * time.Hour),
	}

	slot, ok := FindNextSlot(requested, busy, DefaultSearchPolicy())
	require.True(t, ok)

	// 14:00-14:30 is back-to-back with the busy block and therefore free.
	assert.True(t, slot.Start.Equal(day.Add(14*time.Hour)))
	assert.True(t, slot.End.Equal(day.Add(14*time.Hour+30*time.Minute)))
}

func TestFindNextSlot_EarliestAcceptableWins(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	requested := Interval{
		Start: day.Add(10 * time.Hour),
		End:   day.Add(10*time.Hour + 30*time.Minute),
	}
	// Occupy 10:00-11:30 so the candidates at 10:30 and 11:00 are taken.
	busy := []BusyEvent{
		busyAt("block", day.Add(10*time.Hour), 90*time.Minute),
	}

	slot, ok := FindNextSlot(requested, busy, DefaultSearchPolicy())
	require.True(t, ok)
	assert.True(t, slot.Start.Equal(day.Add(11*time.Hour+30*time.Minute)),
		"first free probe must win, not a later one")
}

func TestFindNextSlot_RespectsBusinessHours(t *testing.T) {
	// Friday 16:30-17:00 requested but busy; the 17:00 probe falls outside
	// business close, so the search rolls to Monday morning.
	friday := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Friday, friday.Weekday())

	requested := Interval{
		Start: friday.Add(16*time.Hour + 30*time.Minute),
		End:   friday.Add(17 * time.Hour),
	}
	busy := []BusyEvent{
		busyAt("retro", friday.Add(16*time.Hour), time.Hour),
	}

	slot, ok := FindNextSlot(requested, busy, DefaultSearchPolicy())
	require.True(t, ok)

	monday := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, slot.Start.Weekday())
	assert.True(t, slot.Start.Equal(monday), "want %s, got %s", monday, slot.Start)
}

func TestFindNextSlot_SkipsWeekends(t *testing.T) {
	saturday := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())

	requested := Interval{Start: saturday, End: saturday.Add(30 * time.Minute)}

	slot, ok := FindNextSlot(requested, nil, DefaultSearchPolicy())
	require.True(t, ok)
	assert.Equal(t, time.Monday, slot.Start.Weekday())

	// With weekends allowed the Saturday probe is acceptable.
	policy := DefaultSearchPolicy()
	policy.BusinessDaysOnly = false
	slot, ok = FindNextSlot(requested, nil, policy)
	require.True(t, ok)
	assert.Equal(t, time.Saturday, slot.Start.Weekday())
}

func TestFindNextSlot_SaturatedHorizon(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	requested := Interval{Start: day, End: day.Add(30 * time.Minute)}

	// One busy block covering the whole short horizon.
	policy := DefaultSearchPolicy()
	policy.Horizon = 4 * time.Hour
	busy := []BusyEvent{
		busyAt("offsite", day, 8*time.Hour),
	}

	_, ok := FindNextSlot(requested, busy, policy)
	assert.False(t, ok, "no slot must be reported when the horizon is saturated")
}

func TestFindNextSlot_RejectsSpanPastClose(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// A 2-hour meeting requested at 15:30: the 16:00 probe would end at
	// 18:00, past close, so the next acceptable start is next morning.
	requested := Interval{
		Start: day.Add(15*time.Hour + 30*time.Minute),
		End:   day.Add(17*time.Hour + 30*time.Minute),
	}
	busy := []BusyEvent{
		busyAt("block", day.Add(15*time.Hour+30*time.Minute), 30*time.Minute),
	}

	slot, ok := FindNextSlot(requested, busy, DefaultSearchPolicy())
	require.True(t, ok)
	assert.True(t, slot.Start.Equal(day.Add(24*time.Hour+9*time.Hour)),
		"a slot ending after business close must be rejected")
	assert.Equal(t, 2*time.Hour, slot.Duration())
}
