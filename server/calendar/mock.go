package calendar

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/schedsense/internal/util"
	"github.com/hrygo/schedsense/server/service/scheduling"
)

// MockBackend is an in-memory calendar for development and tests. It is
// selected only by explicit configuration; outcomes produced against it
// carry the mock-data flag so they are never mistaken for real bookings.
type MockBackend struct {
	mu     sync.RWMutex
	events []scheduling.BusyEvent
	logger *slog.Logger
}

// NewMockBackend creates an empty in-memory calendar.
func NewMockBackend(logger *slog.Logger) *MockBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockBackend{logger: logger}
}

// NewSeededMockBackend pre-populates a plausible work week around ref:
// a daily standup and a couple of longer blocks, weekdays only. Useful
// for demos where an empty calendar would make every attempt succeed.
func NewSeededMockBackend(ref time.Time, logger *slog.Logger) *MockBackend {
	m := NewMockBackend(logger)
	loc := ref.Location()

	for day := 0; day < 5; day++ {
		date := ref.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		standup := time.Date(date.Year(), date.Month(), date.Day(), 9, 30, 0, 0, loc)
		m.add("Daily standup", scheduling.Interval{Start: standup, End: standup.Add(15 * time.Minute)})

		if day%2 == 0 {
			sync := time.Date(date.Year(), date.Month(), date.Day(), 13, 0, 0, 0, loc)
			m.add("Team sync", scheduling.Interval{Start: sync, End: sync.Add(time.Hour)})
		}
	}
	return m
}

func (m *MockBackend) add(summary string, interval scheduling.Interval) {
	m.events = append(m.events, scheduling.BusyEvent{
		ID:       util.GenShortUID(),
		Summary:  summary,
		Interval: interval,
	})
}

// FetchBusy returns the stored events overlapping the window.
func (m *MockBackend) FetchBusy(ctx context.Context, window scheduling.Interval) ([]scheduling.BusyEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var busy []scheduling.BusyEvent
	for _, event := range m.events {
		if window.Overlaps(event.Interval) {
			busy = append(busy, event)
		}
	}
	return busy, nil
}

// CreateEvent stores the event in memory and returns a generated ID.
func (m *MockBackend) CreateEvent(ctx context.Context, interval scheduling.Interval, summary string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := util.GenShortUID()
	m.events = append(m.events, scheduling.BusyEvent{
		ID:       id,
		Summary:  summary,
		Interval: interval,
	})

	m.logger.Info("mock event created",
		"event_id", id,
		"summary", summary,
		"interval", interval.String())
	return id, nil
}

// Events returns a snapshot of all stored events, for tests and the
// list_events tool.
func (m *MockBackend) Events() []scheduling.BusyEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]scheduling.BusyEvent, len(m.events))
	copy(out, m.events)
	return out
}
