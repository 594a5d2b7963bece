// Package tools implements the agent tools that expose the scheduling
// core to the LLM.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hrygo/schedsense/server/service/scheduling"
)

const (
	// maxSummaryLengthForLog bounds summaries echoed into tool output.
	maxSummaryLengthForLog = 80
)

// Clock supplies the reference instant for all tools. Injected so agent
// runs are reproducible in tests.
type Clock func() time.Time

// CurrentTimeTool reports the current date and time in the assistant's
// timezone. The LLM needs it to ground relative phrases.
type CurrentTimeTool struct {
	clock Clock
	loc   *time.Location
}

func NewCurrentTimeTool(clock Clock, loc *time.Location) *CurrentTimeTool {
	return &CurrentTimeTool{clock: clock, loc: loc}
}

func (t *CurrentTimeTool) Name() string {
	return "current_time"
}

func (t *CurrentTimeTool) Description() string {
	return `Get the current date, time, weekday and timezone.
Call this before interpreting any relative time expression ("tomorrow", "next friday").`
}

func (t *CurrentTimeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *CurrentTimeTool) Run(ctx context.Context, inputJSON string) (string, error) {
	now := t.clock().In(t.loc)
	return fmt.Sprintf("Current time: %s (%s, timezone %s)",
		now.Format(time.RFC3339), now.Weekday(), t.loc.String()), nil
}

// ParseDatetimeTool resolves a natural-language time phrase into an
// absolute instant without touching the calendar.
type ParseDatetimeTool struct {
	resolver   *scheduling.Resolver
	clock      Clock
	defaultTOD scheduling.TimeOfDay
}

func NewParseDatetimeTool(resolver *scheduling.Resolver, clock Clock, defaultTOD scheduling.TimeOfDay) *ParseDatetimeTool {
	return &ParseDatetimeTool{resolver: resolver, clock: clock, defaultTOD: defaultTOD}
}

func (t *ParseDatetimeTool) Name() string {
	return "parse_datetime"
}

func (t *ParseDatetimeTool) Description() string {
	return `Resolve a natural-language time phrase (e.g. "tomorrow at 10 AM", "next tuesday") into an absolute ISO8601 time.
Returns an error for vague phrases; ask the user to rephrase instead of guessing.`
}

func (t *ParseDatetimeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"phrase": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language time phrase to resolve",
			},
		},
		"required": []string{"phrase"},
	}
}

func (t *ParseDatetimeTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Phrase string `json:"phrase"`
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	if input.Phrase == "" {
		return "", fmt.Errorf("phrase is required")
	}

	resolved, err := t.resolver.Resolve(input.Phrase, t.clock(), t.defaultTOD)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Resolved %q to %s (%s)", input.Phrase, resolved.Format(time.RFC3339), resolved.Weekday()), nil
}

// ScheduleMeetingTool runs one full scheduling attempt: resolve, scan,
// book if free, otherwise propose the nearest free slot.
type ScheduleMeetingTool struct {
	orchestrator *scheduling.Orchestrator
	clock        Clock
	defaultTOD   scheduling.TimeOfDay
	policy       scheduling.SearchPolicy
}

func NewScheduleMeetingTool(orchestrator *scheduling.Orchestrator, clock Clock, defaultTOD scheduling.TimeOfDay, policy scheduling.SearchPolicy) *ScheduleMeetingTool {
	return &ScheduleMeetingTool{
		orchestrator: orchestrator,
		clock:        clock,
		defaultTOD:   defaultTOD,
		policy:       policy,
	}
}

func (t *ScheduleMeetingTool) Name() string {
	return "schedule_meeting"
}

func (t *ScheduleMeetingTool) Description() string {
	return `Try to schedule a meeting at the requested time.
If the time is free the meeting is booked. If it conflicts, the nearest free slot is suggested but NOT booked; relay the suggestion to the user and call this tool again only after they confirm.`
}

func (t *ScheduleMeetingTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Meeting title, e.g. \"Sync with Alex\"",
			},
			"when": map[string]interface{}{
				"type":        "string",
				"description": "Natural-language start time, e.g. \"tomorrow at 10 AM\"",
			},
			"duration": map[string]interface{}{
				"type":        "string",
				"description": "Meeting length, e.g. \"1 hour\". Defaults to 30 minutes",
			},
		},
		"required": []string{"summary", "when"},
	}
}

func (t *ScheduleMeetingTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		Summary  string `json:"summary"`
		When     string `json:"when"`
		Duration string `json:"duration"`
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	if input.Summary == "" {
		return "", fmt.Errorf("summary is required")
	}
	if input.When == "" {
		return "", fmt.Errorf("when is required")
	}

	tc := scheduling.TemporalContext{
		Now:              t.clock(),
		DefaultTimeOfDay: t.defaultTOD,
	}
	outcome := t.orchestrator.Schedule(ctx, input.Summary, input.When, input.Duration, tc, t.policy)
	return formatOutcome(input.Summary, outcome), nil
}

// formatOutcome renders a scheduling outcome as text for the LLM.
func formatOutcome(summary string, outcome scheduling.SchedulingOutcome) string {
	var b strings.Builder

	switch outcome.Kind {
	case scheduling.OutcomeBooked:
		fmt.Fprintf(&b, "Booked %q at %s (event %s).", truncate(summary), outcome.Interval.String(), outcome.EventID)
	case scheduling.OutcomeSuggested:
		fmt.Fprintf(&b, "Requested time conflicts with %d event(s):", len(outcome.Conflicting))
		for _, ev := range outcome.Conflicting {
			fmt.Fprintf(&b, "\n- %s at %s", truncate(ev.Summary), ev.Interval.String())
		}
		fmt.Fprintf(&b, "\nNearest free slot: %s. Not booked; ask the user to confirm.", outcome.Interval.String())
	case scheduling.OutcomeNoSlotFound:
		fmt.Fprintf(&b, "Requested time conflicts and no free slot was found within the search horizon.")
	case scheduling.OutcomeParseFailure:
		fmt.Fprintf(&b, "Could not schedule: %s. Ask the user to rephrase.", outcome.Reason)
	}

	if outcome.UsingMockData {
		b.WriteString("\nNote: this ran against MOCK calendar data, not a real calendar.")
	}
	return b.String()
}

// ListEventsTool lists busy events within a time range.
type ListEventsTool struct {
	backend scheduling.CalendarBackend
}

func NewListEventsTool(backend scheduling.CalendarBackend) *ListEventsTool {
	return &ListEventsTool{backend: backend}
}

func (t *ListEventsTool) Name() string {
	return "list_events"
}

func (t *ListEventsTool) Description() string {
	return `List calendar events within a specific time range.
Inputs must be ISO8601 format time strings (e.g., "2026-08-28T09:00:00Z").
Returns the existing events with their titles and times.`
}

func (t *ListEventsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "ISO8601 time string (e.g., 2026-08-28T09:00:00Z)",
			},
			"end_time": map[string]interface{}{
				"type":        "string",
				"description": "ISO8601 time string",
			},
		},
		"required": []string{"start_time", "end_time"},
	}
}

func (t *ListEventsTool) Run(ctx context.Context, inputJSON string) (string, error) {
	var input struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.Unmarshal([]byte(inputJSON), &input); err != nil {
		return "", fmt.Errorf("invalid JSON input: %w", err)
	}
	if input.StartTime == "" {
		return "", fmt.Errorf("start_time is required")
	}
	if input.EndTime == "" {
		return "", fmt.Errorf("end_time is required")
	}

	startTime, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return "", fmt.Errorf("invalid start_time format: %w. Please use ISO8601 format (e.g., 2026-08-28T09:00:00Z)", err)
	}
	endTime, err := time.Parse(time.RFC3339, input.EndTime)
	if err != nil {
		return "", fmt.Errorf("invalid end_time format: %w. Please use ISO8601 format (e.g., 2026-08-28T09:00:00Z)", err)
	}

	window, err := scheduling.NewInterval(startTime, endTime)
	if err != nil {
		return "", err
	}

	events, err := t.backend.FetchBusy(ctx, window)
	if err != nil {
		return "", fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		return "No events in this range.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d event(s):", len(events))
	for _, ev := range events {
		fmt.Fprintf(&b, "\n- %s at %s", truncate(ev.Summary), ev.Interval.String())
	}
	return b.String(), nil
}

func truncate(s string) string {
	if len(s) <= maxSummaryLengthForLog {
		return s
	}
	return s[:maxSummaryLengthForLog] + "..."
}
