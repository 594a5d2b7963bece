package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/schedsense/server/calendar"
	"github.com/hrygo/schedsense/server/service/scheduling"
)

// Fixed reference: Tuesday 2026-03-10, 09:00 UTC.
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newToolFixture(t *testing.T) (*scheduling.Orchestrator, *calendar.MockBackend) {
	t.Helper()
	backend := calendar.NewMockBackend(nil)
	resolver := scheduling.NewResolver(time.UTC)
	return scheduling.NewOrchestrator(backend, resolver, true, nil), backend
}

func TestCurrentTimeTool(t *testing.T) {
	tool := NewCurrentTimeTool(fixedClock, time.UTC)

	out, err := tool.Run(context.Background(), "{}")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-10T09:00:00Z")
	assert.Contains(t, out, "Tuesday")
}

func TestParseDatetimeTool(t *testing.T) {
	resolver := scheduling.NewResolver(time.UTC)
	tool := NewParseDatetimeTool(resolver, fixedClock, scheduling.TimeOfDay{Hour: 9})

	out, err := tool.Run(context.Background(), `{"phrase":"tomorrow at 10 AM"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-11T10:00:00Z")

	_, err = tool.Run(context.Background(), `{"phrase":"sometime good"}`)
	assert.Error(t, err, "vague phrases must error, not guess")

	_, err = tool.Run(context.Background(), `{}`)
	assert.Error(t, err)
}

func TestScheduleMeetingTool_BooksAndSuggests(t *testing.T) {
	ctx := context.Background()
	orchestrator, backend := newToolFixture(t)
	tool := NewScheduleMeetingTool(orchestrator, fixedClock, scheduling.TimeOfDay{Hour: 9}, scheduling.DefaultSearchPolicy())

	// Empty calendar: booked, with the mock provenance spelled out.
	out, err := tool.Run(ctx, `{"summary":"Design review","when":"tomorrow at 10 AM","duration":"1 hour"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Booked")
	assert.Contains(t, out, "MOCK calendar data")
	require.Len(t, backend.Events(), 1)

	// Same time again: conflict, suggestion, nothing booked.
	out, err = tool.Run(ctx, `{"summary":"Second try","when":"tomorrow at 10 AM","duration":"1 hour"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "conflicts")
	assert.Contains(t, out, "Nearest free slot")
	assert.Contains(t, out, "Not booked")
	assert.Len(t, backend.Events(), 1, "suggestion must not create an event")
}

func TestScheduleMeetingTool_ParseFailure(t *testing.T) {
	orchestrator, _ := newToolFixture(t)
	tool := NewScheduleMeetingTool(orchestrator, fixedClock, scheduling.TimeOfDay{Hour: 9}, scheduling.DefaultSearchPolicy())

	out, err := tool.Run(context.Background(), `{"summary":"Sync","when":"whenever works"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Could not schedule")
	assert.Contains(t, out, "rephrase")
}

func TestListEventsTool(t *testing.T) {
	ctx := context.Background()
	_, backend := newToolFixture(t)
	tool := NewListEventsTool(backend)

	out, err := tool.Run(ctx, `{"start_time":"2026-03-10T00:00:00Z","end_time":"2026-03-11T00:00:00Z"}`)
	require.NoError(t, err)
	assert.Equal(t, "No events in this range.", out)

	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	_, err = backend.CreateEvent(ctx, scheduling.Interval{Start: start, End: start.Add(time.Hour)}, "Standup")
	require.NoError(t, err)

	out, err = tool.Run(ctx, `{"start_time":"2026-03-10T00:00:00Z","end_time":"2026-03-11T00:00:00Z"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 event(s)")
	assert.Contains(t, out, "Standup")

	_, err = tool.Run(ctx, `{"start_time":"not-a-time","end_time":"2026-03-11T00:00:00Z"}`)
	assert.Error(t, err)
}
