package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, start time.Time, d time.Duration) Interval {
	t.Helper()
	interval, err := IntervalFrom(start, d)
	require.NoError(t, err)
	return interval
}

func TestNewInterval_RejectsEmptyAndInverted(t *testing.T) {
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	_, err := NewInterval(now, now)
	assert.Error(t, err, "zero-length interval must be rejected")

	_, err = NewInterval(now, now.Add(-time.Hour))
	assert.Error(t, err, "inverted interval must be rejected")

	_, err = IntervalFrom(now, 0)
	assert.Error(t, err)
	_, err = IntervalFrom(now, -30*time.Minute)
	assert.Error(t, err)
}

func TestInterval_OverlapsIsSymmetric(t *testing.T) {
	base := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		a, b    Interval
		overlap bool
	}{
		{
			name:    "identical",
			a:       Interval{Start: base, End: base.Add(time.Hour)},
			b:       Interval{Start: base, End: base.Add(time.Hour)},
			overlap: true,
		},
		{
			name:    "partial overlap",
			a:       Interval{Start: base, End: base.Add(time.Hour)},
			b:       Interval{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)},
			overlap: true,
		},
		{
			name:    "containment",
			a:       Interval{Start: base, End: base.Add(2 * time.Hour)},
			b:       Interval{Start: base.Add(30 * time.Minute), End: base.Add(time.Hour)},
			overlap: true,
		},
		{
			name:    "back to back",
			a:       Interval{Start: base, End: base.Add(time.Hour)},
			b:       Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)},
			overlap: false,
		},
		{
			name:    "disjoint",
			a:       Interval{Start: base, End: base.Add(time.Hour)},
			b:       Interval{Start: base.Add(3 * time.Hour), End: base.Add(4 * time.Hour)},
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestInterval_ShiftPreservesDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	interval := mustInterval(t, start, 45*time.Minute)

	shifted := interval.Shift(90 * time.Minute)
	assert.Equal(t, interval.Duration(), shifted.Duration())
	assert.True(t, shifted.Start.Equal(start.Add(90*time.Minute)))

	// Round trip restores the original endpoints.
	back := shifted.Shift(-90 * time.Minute)
	assert.True(t, interval.Equal(back))
}

func TestTimeOfDay_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	date := time.Date(2026, 3, 10, 23, 59, 0, 0, loc)
	anchored := TimeOfDay{Hour: 9, Minute: 30}.At(date, loc)

	assert.Equal(t, 9, anchored.Hour())
	assert.Equal(t, 30, anchored.Minute())
	assert.Equal(t, date.Day(), anchored.Day())
	assert.Equal(t, loc, anchored.Location())
}
