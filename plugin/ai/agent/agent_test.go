package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/schedsense/plugin/ai"
)

// scriptedLLM replays a fixed sequence of responses.
type scriptedLLM struct {
	responses []*ai.ChatResponse
	calls     int
	seenTools [][]ai.ToolDescriptor
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	return "", fmt.Errorf("not used")
}

func (s *scriptedLLM) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.ToolDescriptor) (*ai.ChatResponse, error) {
	s.seenTools = append(s.seenTools, tools)
	if s.calls >= len(s.responses) {
		return nil, fmt.Errorf("unexpected call %d", s.calls)
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

func echoTool(t *testing.T) Tool {
	t.Helper()
	return NewNativeTool(
		"echo",
		"Echoes the input back.",
		func(ctx context.Context, input string) (string, error) {
			var in struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal([]byte(input), &in); err != nil {
				return "", err
			}
			return "echo: " + in.Text, nil
		},
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{"type": "string"},
			},
			"required": []string{"text"},
		},
	)
}

func TestAgent_DirectAnswer(t *testing.T) {
	llm := &scriptedLLM{responses: []*ai.ChatResponse{
		{Content: "hello there"},
	}}
	a := NewAgent(llm, AgentConfig{Name: "test", SystemPrompt: "be brief"}, []Tool{echoTool(t)})

	out, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, 1, llm.calls)

	// The tool schema must be offered on every call.
	require.Len(t, llm.seenTools, 1)
	require.Len(t, llm.seenTools[0], 1)
	assert.Equal(t, "echo", llm.seenTools[0][0].Name)
	assert.Contains(t, llm.seenTools[0][0].Parameters, `"text"`)
}

func TestAgent_ToolRoundTrip(t *testing.T) {
	llm := &scriptedLLM{responses: []*ai.ChatResponse{
		{ToolCalls: []ai.ToolCall{{
			ID:       "call-1",
			Function: ai.ToolCallFunction{Name: "echo", Arguments: `{"text":"ping"}`},
		}}},
		{Content: "done"},
	}}
	a := NewAgent(llm, AgentConfig{Name: "test"}, []Tool{echoTool(t)})

	var events []string
	out, err := a.RunWithCallback(context.Background(), "call the tool", func(event, data string) {
		events = append(events, event+"="+data)
	})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, llm.calls)

	require.Len(t, events, 3)
	assert.Equal(t, `tool_use=echo:{"text":"ping"}`, events[0])
	assert.Equal(t, "tool_result=echo: ping", events[1])
	assert.Equal(t, "answer=done", events[2])
}

func TestAgent_UnknownToolReportedToLLM(t *testing.T) {
	llm := &scriptedLLM{responses: []*ai.ChatResponse{
		{ToolCalls: []ai.ToolCall{{
			Function: ai.ToolCallFunction{Name: "missing", Arguments: `{}`},
		}}},
		{Content: "recovered"},
	}}
	a := NewAgent(llm, AgentConfig{Name: "test"}, []Tool{echoTool(t)})

	var toolResults []string
	out, err := a.RunWithCallback(context.Background(), "x", func(event, data string) {
		if event == EventToolResult {
			toolResults = append(toolResults, data)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	require.Len(t, toolResults, 1)
	assert.Contains(t, toolResults[0], "unknown tool")
}

func TestAgent_MaxIterations(t *testing.T) {
	loop := &ai.ChatResponse{ToolCalls: []ai.ToolCall{{
		Function: ai.ToolCallFunction{Name: "echo", Arguments: `{"text":"again"}`},
	}}}
	llm := &scriptedLLM{responses: []*ai.ChatResponse{loop, loop, loop}}
	a := NewAgent(llm, AgentConfig{Name: "test", MaxIterations: 3}, []Tool{echoTool(t)})

	_, err := a.Run(context.Background(), "loop forever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations")
}
