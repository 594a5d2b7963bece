package calendar

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/schedsense/server/service/scheduling"
)

func TestMockBackend_CreateAndFetch(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend(nil)

	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	interval := scheduling.Interval{Start: start, End: start.Add(time.Hour)}

	id, err := m.CreateEvent(ctx, interval, "Team sync")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	window := scheduling.Interval{Start: start.Add(-time.Hour), End: start.Add(2 * time.Hour)}
	busy, err := m.FetchBusy(ctx, window)
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, id, busy[0].ID)
	assert.Equal(t, "Team sync", busy[0].Summary)

	// A disjoint window sees nothing.
	disjoint := scheduling.Interval{Start: start.Add(3 * time.Hour), End: start.Add(4 * time.Hour)}
	busy, err = m.FetchBusy(ctx, disjoint)
	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestMockBackend_SeededWeek(t *testing.T) {
	ctx := context.Background()
	// Monday morning.
	ref := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	m := NewSeededMockBackend(ref, nil)

	window := scheduling.Interval{Start: ref, End: ref.AddDate(0, 0, 7)}
	busy, err := m.FetchBusy(ctx, window)
	require.NoError(t, err)
	assert.NotEmpty(t, busy, "seeded calendar must contain events")

	for _, ev := range busy {
		wd := ev.Interval.Start.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestMockBackend_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMockBackend(nil)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			interval := scheduling.Interval{
				Start: start.Add(time.Duration(n) * time.Hour),
				End:   start.Add(time.Duration(n)*time.Hour + 30*time.Minute),
			}
			_, err := m.CreateEvent(ctx, interval, "load")
			assert.NoError(t, err)
			_, err = m.FetchBusy(ctx, interval)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.Events(), 20)
}

func TestMockBackend_ContextCancellation(t *testing.T) {
	m := NewMockBackend(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	interval := scheduling.Interval{Start: start, End: start.Add(time.Hour)}

	_, err := m.FetchBusy(ctx, interval)
	assert.Error(t, err)
	_, err = m.CreateEvent(ctx, interval, "x")
	assert.Error(t, err)
}
