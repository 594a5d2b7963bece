package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/hrygo/schedsense/internal/errors"
)

// Reference instant for all resolver tests: Tuesday 2026-03-10, 09:00 UTC.
var resolverRef = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

var defaultMorning = TimeOfDay{Hour: 9}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name   string
		phrase string
		want   time.Time
	}{
		{
			name:   "tomorrow with clock",
			phrase: "tomorrow at 10 AM",
			want:   time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "today with 24h clock",
			phrase: "today at 17:30",
			want:   time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC),
		},
		{
			name:   "day after tomorrow default time",
			phrase: "day after tomorrow",
			want:   time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "bare weekday is nearest strictly future",
			phrase: "wednesday at 2 PM",
			want:   time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
		},
		{
			// Ref is a Tuesday, so the bare name already skips to next week.
			name:   "same weekday skips a week",
			phrase: "tuesday at 10 AM",
			want:   time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "next weekday skips one more week",
			phrase: "next tuesday at 10 AM",
			want:   time.Date(2026, 3, 24, 10, 0, 0, 0, time.UTC),
		},
		{
			name:   "next weekday from different day",
			phrase: "next friday",
			want:   time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "offset in days uses default time",
			phrase: "in 3 days",
			want:   time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "offset in hours is absolute",
			phrase: "in 2 hours",
			want:   resolverRef.Add(2 * time.Hour),
		},
		{
			name:   "offset in minutes is absolute",
			phrase: "in 90 minutes",
			want:   resolverRef.Add(90 * time.Minute),
		},
		{
			name:   "clock only later today",
			phrase: "at 3 PM",
			want:   time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		},
		{
			name:   "clock only already passed rolls to tomorrow",
			phrase: "at 8 AM",
			want:   time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			name:   "12-hour with minutes",
			phrase: "tomorrow at 10:45 pm",
			want:   time.Date(2026, 3, 11, 22, 45, 0, 0, time.UTC),
		},
		{
			name:   "noon is 12 pm",
			phrase: "tomorrow at 12 pm",
			want:   time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "midnight is 12 am",
			phrase: "tomorrow at 12 am",
			want:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.phrase, resolverRef, defaultMorning)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolver_Resolve_Failures(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name   string
		phrase string
	}{
		{name: "empty phrase", phrase: ""},
		{name: "vague phrase", phrase: "sometime good"},
		{name: "unrelated text", phrase: "schedule a meeting please"},
		{name: "offset combined with clock", phrase: "in 2 hours at 5 pm"},
		{name: "out of range clock", phrase: "today at 25:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.phrase, resolverRef, defaultMorning)
			require.Error(t, err)
			assert.Equal(t, serrors.ErrCodeParseFailure, serrors.GetCodeFromError(err, ""),
				"vague input must fail with a parse failure, never guess")
		})
	}
}

func TestResolver_Resolve_NeverReadsSystemClock(t *testing.T) {
	r := NewResolver(time.UTC)

	// Resolving against a reference far in the past stays anchored there.
	ref := time.Date(2020, 1, 6, 9, 0, 0, 0, time.UTC) // a Monday
	got, err := r.Resolve("tomorrow at 10 AM", ref, defaultMorning)
	require.NoError(t, err)
	assert.True(t, time.Date(2020, 1, 7, 10, 0, 0, 0, time.UTC).Equal(got))
}

func TestResolver_Resolve_TimezoneAnchoring(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	r := NewResolver(loc)

	// 2026-03-07 is the Saturday before the US DST switch (Mar 8).
	ref := time.Date(2026, 3, 7, 9, 0, 0, 0, loc)
	got, err := r.Resolve("tomorrow at 10 AM", ref, defaultMorning)
	require.NoError(t, err)

	// 10:00 wall clock on the target date, in the target date's offset.
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 8, got.Day())
	assert.Equal(t, loc, got.Location())
}

func TestResolver_ResolveDuration(t *testing.T) {
	r := NewResolver(time.UTC)

	tests := []struct {
		name   string
		phrase string
		want   time.Duration
	}{
		{name: "empty defaults to 30 minutes", phrase: "", want: 30 * time.Minute},
		{name: "one hour", phrase: "1 hour", want: time.Hour},
		{name: "an hour", phrase: "for an hour", want: time.Hour},
		{name: "half an hour", phrase: "half an hour", want: 30 * time.Minute},
		{name: "minutes", phrase: "45 minutes", want: 45 * time.Minute},
		{name: "mixed", phrase: "1 hour 30 minutes", want: 90 * time.Minute},
		{name: "short units", phrase: "2 hrs", want: 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveDuration(tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.ResolveDuration("a while")
	require.Error(t, err)
	assert.Equal(t, serrors.ErrCodeParseFailure, serrors.GetCodeFromError(err, ""))
}
