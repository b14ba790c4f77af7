package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/voocel/toolgate/llm"
	"github.com/voocel/toolgate/schema"
)

// scriptedGen replays a fixed response sequence and records every request.
type scriptedGen struct {
	responses []*llm.Response
	requests  []*llm.Request
}

func (g *scriptedGen) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	g.requests = append(g.requests, req)
	if len(g.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

func (g *scriptedGen) GenerateStream(ctx context.Context, req *llm.Request) (<-chan schema.StreamEvent, error) {
	return nil, errors.New("streaming not scripted")
}

func TestToolsRegistersBoth(t *testing.T) {
	toolSet, err := Tools()
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	if len(toolSet) != 2 {
		t.Fatalf("Tools() count = %d, want 2", len(toolSet))
	}
	if toolSet[0].Name() != "calculate" || toolSet[1].Name() != "search" {
		t.Fatalf("tool names = %s, %s", toolSet[0].Name(), toolSet[1].Name())
	}
}

func TestRunWithoutToolCalls(t *testing.T) {
	gen := &scriptedGen{responses: []*llm.Response{{Text: "done"}}}
	result, err := Run(context.Background(), gen, "say done", "openai/gpt-5-nano")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Text != "done" {
		t.Fatalf("result text = %q, want done", result.Text)
	}
	if len(result.Steps) != 0 {
		t.Fatalf("steps = %v, want none", result.Steps)
	}
	if len(gen.requests) != 1 {
		t.Fatalf("generate calls = %d, want 1", len(gen.requests))
	}
	if len(gen.requests[0].Tools) != 2 {
		t.Fatalf("tool defs = %d, want 2", len(gen.requests[0].Tools))
	}
}

func TestRunExecutesToolCalls(t *testing.T) {
	gen := &scriptedGen{responses: []*llm.Response{
		{ToolCalls: []schema.ToolCall{{
			ID:   "call-1",
			Name: "calculate",
			Args: json.RawMessage(`{"expression":"6*7"}`),
		}}},
		{Text: "The answer is 42."},
	}}

	result, err := Run(context.Background(), gen, "what is 6*7", "openai/gpt-5-nano")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Text != "The answer is 42." {
		t.Fatalf("result text = %q", result.Text)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(result.Steps))
	}
	step := result.Steps[0]
	if step.Tool != "calculate" {
		t.Fatalf("step tool = %q, want calculate", step.Tool)
	}
	if !strings.Contains(step.Output, "42") {
		t.Fatalf("step output = %q, want result 42", step.Output)
	}

	// The second turn must carry the assistant tool call and its result back.
	second := gen.requests[1]
	if len(second.Messages) != 3 {
		t.Fatalf("second turn messages = %d, want 3", len(second.Messages))
	}
	if second.Messages[1].Role != schema.RoleAssistant || !second.Messages[1].HasToolCalls() {
		t.Fatalf("message 1 = %+v, want assistant with tool calls", second.Messages[1])
	}
	toolMsg := second.Messages[2]
	if toolMsg.Role != schema.RoleTool {
		t.Fatalf("message 2 role = %s, want tool", toolMsg.Role)
	}
	if id, _ := toolMsg.GetMetadata("tool_call_id"); id != "call-1" {
		t.Fatalf("tool_call_id = %v, want call-1", id)
	}
}

func TestRunInvalidExpressionBecomesResult(t *testing.T) {
	gen := &scriptedGen{responses: []*llm.Response{
		{ToolCalls: []schema.ToolCall{{
			ID:   "call-1",
			Name: "calculate",
			Args: json.RawMessage(`{"expression":"not math"}`),
		}}},
		{Text: "Could not compute."},
	}}

	result, err := Run(context.Background(), gen, "compute nonsense", "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Steps) != 1 {
		t.Fatalf("steps = %d, want 1", len(result.Steps))
	}
	if !strings.Contains(result.Steps[0].Output, "Invalid expression") {
		t.Fatalf("step output = %q, want invalid-expression marker", result.Steps[0].Output)
	}
}

func TestRunUnknownToolBecomesResult(t *testing.T) {
	gen := &scriptedGen{responses: []*llm.Response{
		{ToolCalls: []schema.ToolCall{{
			ID:   "call-1",
			Name: "launch_rocket",
			Args: json.RawMessage(`{}`),
		}}},
		{Text: "ok"},
	}}

	result, err := Run(context.Background(), gen, "do something", "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(result.Steps[0].Output, "error") {
		t.Fatalf("step output = %q, want error payload", result.Steps[0].Output)
	}
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	call := schema.ToolCall{ID: "call-1", Name: "search", Args: json.RawMessage(`{"query":"go"}`)}
	responses := make([]*llm.Response, 0, maxSteps)
	for i := 0; i < maxSteps; i++ {
		responses = append(responses, &llm.Response{Text: "searching", ToolCalls: []schema.ToolCall{call}})
	}
	gen := &scriptedGen{responses: responses}

	result, err := Run(context.Background(), gen, "loop forever", "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(gen.requests) != maxSteps {
		t.Fatalf("generate calls = %d, want %d", len(gen.requests), maxSteps)
	}
	if len(result.Steps) != maxSteps {
		t.Fatalf("steps = %d, want %d", len(result.Steps), maxSteps)
	}
	if result.Text != "searching" {
		t.Fatalf("result text = %q, want last assistant text", result.Text)
	}
}
