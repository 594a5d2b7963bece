package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	loc, err := ParseTimezone("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	loc, err = ParseTimezone("")
	require.NoError(t, err)
	assert.Equal(t, UTC, loc)

	loc, err = ParseTimezone("Not/AZone")
	assert.Error(t, err)
	assert.Equal(t, UTC, loc, "invalid timezone falls back to UTC")
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("Europe/Berlin"))
	assert.True(t, IsValidTimezone(""))
	assert.False(t, IsValidTimezone("Mars/OlympusMons"))
}

func TestDayBoundaries(t *testing.T) {
	loc := MustParseTimezone("Asia/Kolkata")
	instant := time.Date(2026, 8, 28, 3, 15, 0, 0, time.UTC) // 08:45 IST

	start := StartOfDay(instant, loc)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 28, start.Day())

	end := EndOfDay(instant, loc)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 28, end.Day())
	assert.True(t, end.After(start))
}

func TestFormatRange(t *testing.T) {
	loc := MustParseTimezone("UTC")
	start := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

	sameDay := FormatRange(start, start.Add(30*time.Minute), loc)
	assert.Equal(t, "2026-08-28 14:00 - 14:30", sameDay)

	crossDay := FormatRange(start, start.Add(24*time.Hour), loc)
	assert.Equal(t, "2026-08-28 14:00 - 2026-08-29 14:00", crossDay)
}
