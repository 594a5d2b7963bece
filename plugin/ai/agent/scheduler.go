package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hrygo/schedsense/plugin/ai"
	localtools "github.com/hrygo/schedsense/plugin/ai/agent/tools"
	"github.com/hrygo/schedsense/server/service/scheduling"
)

// SchedulerAgent is the assistant agent for meeting scheduling. It wires
// the scheduling core into the tool-calling loop so every booking
// decision runs through the deterministic core, never the LLM.
type SchedulerAgent struct {
	agent       *Agent
	llm         ai.LLMService
	timezone    string
	timezoneLoc *time.Location
}

// SchedulerAgentOptions configures a new SchedulerAgent.
type SchedulerAgentOptions struct {
	Orchestrator *scheduling.Orchestrator
	Backend      scheduling.CalendarBackend
	Timezone     string
	DefaultTOD   scheduling.TimeOfDay
	Policy       scheduling.SearchPolicy
	// Clock defaults to time.Now; tests inject a fixed instant.
	Clock localtools.Clock
}

// NewSchedulerAgent creates a new scheduler agent.
func NewSchedulerAgent(llm ai.LLMService, opts SchedulerAgentOptions) (*SchedulerAgent, error) {
	if llm == nil {
		return nil, fmt.Errorf("LLM service is required")
	}
	if opts.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("calendar backend is required")
	}

	if opts.Timezone == "" {
		opts.Timezone = "UTC"
	}
	timezoneLoc, err := time.LoadLocation(opts.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", opts.Timezone, err)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	tools := []Tool{
		localtools.NewCurrentTimeTool(opts.Clock, timezoneLoc),
		localtools.NewParseDatetimeTool(opts.Orchestrator.Resolver(), opts.Clock, opts.DefaultTOD),
		localtools.NewScheduleMeetingTool(opts.Orchestrator, opts.Clock, opts.DefaultTOD, opts.Policy),
		localtools.NewListEventsTool(opts.Backend),
	}

	inner := NewAgent(llm, AgentConfig{
		Name:          "scheduler",
		SystemPrompt:  buildSchedulerSystemPrompt(opts.Timezone, opts.Orchestrator.UsingMockData()),
		MaxIterations: 10,
	}, tools)

	return &SchedulerAgent{
		agent:       inner,
		llm:         llm,
		timezone:    opts.Timezone,
		timezoneLoc: timezoneLoc,
	}, nil
}

// Process handles one user message and returns the assistant's reply.
func (s *SchedulerAgent) Process(ctx context.Context, input string) (string, error) {
	return s.agent.Run(ctx, input)
}

// ProcessWithCallback handles one user message with event callbacks.
func (s *SchedulerAgent) ProcessWithCallback(ctx context.Context, input string, callback Callback) (string, error) {
	return s.agent.RunWithCallback(ctx, input, callback)
}

// buildSchedulerSystemPrompt builds the system prompt for the scheduler.
func buildSchedulerSystemPrompt(timezone string, mock bool) string {
	prompt := fmt.Sprintf(`You are a meeting scheduling assistant. Timezone: %s.

Rules:
- Always call current_time first to ground relative expressions like "tomorrow" or "next friday".
- Use schedule_meeting to book; it books only when the requested time is free.
- When schedule_meeting suggests an alternative slot, relay it to the user and wait for their confirmation. Never book a different time than the user asked for without confirmation.
- If a time phrase cannot be resolved, ask the user to rephrase. Do not guess.
- Keep replies short and state times explicitly, e.g. "Thursday, 14:00-14:30".`, timezone)

	if mock {
		prompt += "\n- You are running against MOCK calendar data. Mention this when confirming a booking."
	}
	return prompt
}
