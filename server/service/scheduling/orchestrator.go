package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	serrors "github.com/hrygo/schedsense/internal/errors"
)

// OutcomeKind tags the result of a scheduling attempt.
type OutcomeKind string

const (
	// OutcomeBooked means the requested interval was free and the event was created.
	OutcomeBooked OutcomeKind = "BOOKED"
	// OutcomeSuggested means the requested interval conflicted and a free
	// alternative was found. The alternative is never booked automatically.
	OutcomeSuggested OutcomeKind = "SUGGESTED"
	// OutcomeNoSlotFound means no free slot exists within the horizon.
	OutcomeNoSlotFound OutcomeKind = "NO_SLOT_FOUND"
	// OutcomeParseFailure means the time phrase could not be resolved, or
	// the calendar backend failed before a decision could be made.
	OutcomeParseFailure OutcomeKind = "PARSE_FAILURE"
)

// SchedulingOutcome is the single, fully populated result of one attempt.
// Exactly one kind applies; the interval is set for Booked and Suggested,
// EventID only for Booked, Reason only for ParseFailure.
type SchedulingOutcome struct {
	Kind     OutcomeKind `json:"kind"`
	Interval Interval    `json:"interval,omitempty"`
	EventID  string      `json:"event_id,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	// Conflicting carries the scan result for Suggested/NoSlotFound so the
	// caller can explain why the requested time did not work.
	Conflicting []BusyEvent `json:"conflicting,omitempty"`
	// UsingMockData is true when the attempt ran against the mock calendar
	// backend. Surfaced on every outcome so a mock booking is never
	// mistaken for a real one.
	UsingMockData bool `json:"using_mock_data,omitempty"`
}

// CalendarBackend is the external collaborator owning busy events.
// Implementations live in server/calendar; the orchestrator performs no
// retries and treats every failure as opaque.
type CalendarBackend interface {
	// FetchBusy returns the busy events overlapping the window, ordered by
	// start time ascending.
	FetchBusy(ctx context.Context, window Interval) ([]BusyEvent, error)
	// CreateEvent books the interval and returns the backend's event ID.
	CreateEvent(ctx context.Context, interval Interval, summary string) (string, error)
}

// TemporalContext carries the caller-supplied notion of "now". The core
// never reads the system clock, which keeps every attempt reproducible.
type TemporalContext struct {
	Now              time.Time
	Location         *time.Location
	DefaultTimeOfDay TimeOfDay
}

// Orchestrator composes the resolver, scanner and slot search into the
// single operation "try to book, else propose". It is stateless across
// calls; busy events are re-fetched on every attempt to avoid staleness.
type Orchestrator struct {
	backend  CalendarBackend
	resolver *Resolver
	mock     bool
	logger   *slog.Logger
}

// NewOrchestrator wires the orchestrator with an explicit backend. mock
// must reflect whether backend serves fabricated data; it is echoed on
// every outcome.
func NewOrchestrator(backend CalendarBackend, resolver *Resolver, mock bool, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		backend:  backend,
		resolver: resolver,
		mock:     mock,
		logger:   logger,
	}
}

// Resolver exposes the orchestrator's resolver for callers that parse
// phrases ahead of building a MeetingRequest.
func (o *Orchestrator) Resolver() *Resolver {
	return o.resolver
}

// UsingMockData reports whether outcomes are backed by mock calendar data.
func (o *Orchestrator) UsingMockData() bool {
	return o.mock
}

// Schedule resolves the phrase pair into a MeetingRequest and runs one
// attempt. A resolver failure short-circuits: no busy fetch, no scan.
func (o *Orchestrator) Schedule(ctx context.Context, summary, whenPhrase, durationPhrase string, tc TemporalContext, policy SearchPolicy) SchedulingOutcome {
	duration, err := o.resolver.ResolveDuration(durationPhrase)
	if err != nil {
		return o.parseFailure(err)
	}

	start, err := o.resolver.Resolve(whenPhrase, tc.Now, tc.DefaultTimeOfDay)
	if err != nil {
		return o.parseFailure(err)
	}

	interval, err := IntervalFrom(start, duration)
	if err != nil {
		return o.parseFailure(err)
	}

	return o.Attempt(ctx, MeetingRequest{Summary: summary, Interval: interval}, policy)
}

// Attempt runs one single-pass scheduling attempt:
// Scanning -> {Booking | Searching} -> terminal outcome.
func (o *Orchestrator) Attempt(ctx context.Context, req MeetingRequest, policy SearchPolicy) SchedulingOutcome {
	policy = policy.normalized()

	// Fetch enough of the calendar to cover both the conflict scan and the
	// full slot-search horizon. Always fresh, never cached.
	window := Interval{
		Start: req.Interval.Start,
		End:   req.Interval.Start.Add(policy.Horizon + req.Interval.Duration()),
	}
	busy, err := o.backend.FetchBusy(ctx, window)
	if err != nil {
		o.logger.Error("busy fetch failed",
			"summary", req.Summary,
			"error", err)
		return o.backendFailure(err)
	}

	report := Scan(req.Interval, busy)
	if !report.HasConflict {
		eventID, err := o.backend.CreateEvent(ctx, req.Interval, req.Summary)
		if err != nil {
			o.logger.Error("event creation failed",
				"summary", req.Summary,
				"interval", req.Interval.String(),
				"error", err)
			return o.backendFailure(err)
		}
		o.logger.Info("meeting booked",
			"summary", req.Summary,
			"interval", req.Interval.String(),
			"event_id", eventID)
		return SchedulingOutcome{
			Kind:          OutcomeBooked,
			Interval:      req.Interval,
			EventID:       eventID,
			UsingMockData: o.mock,
		}
	}

	o.logger.Info("conflicts detected",
		"summary", req.Summary,
		"requested", req.Interval.String(),
		"conflict_count", len(report.Conflicting))

	if slot, ok := FindNextSlot(req.Interval, busy, policy); ok {
		// Suggested, never auto-booked: rescheduling requires an explicit
		// user confirmation through a fresh attempt.
		return SchedulingOutcome{
			Kind:          OutcomeSuggested,
			Interval:      slot,
			Conflicting:   report.Conflicting,
			UsingMockData: o.mock,
		}
	}

	return SchedulingOutcome{
		Kind:          OutcomeNoSlotFound,
		Conflicting:   report.Conflicting,
		UsingMockData: o.mock,
	}
}

func (o *Orchestrator) parseFailure(err error) SchedulingOutcome {
	return SchedulingOutcome{
		Kind:          OutcomeParseFailure,
		Reason:        err.Error(),
		UsingMockData: o.mock,
	}
}

// backendFailure maps a calendar backend failure onto the outcome. The
// failure kinds are not distinguished here beyond "fetch/booking failed";
// the typed code survives in the reason for callers that care.
func (o *Orchestrator) backendFailure(err error) SchedulingOutcome {
	code := serrors.GetCodeFromError(err, serrors.ErrCodeCalendarUnavailable)
	return SchedulingOutcome{
		Kind:          OutcomeParseFailure,
		Reason:        fmt.Sprintf("calendar backend failure (%s): %v", code, err),
		UsingMockData: o.mock,
	}
}
