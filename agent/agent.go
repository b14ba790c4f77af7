// Package agent runs one task through the model gateway with two ad-hoc
// tools attached: a calculator and a simulated search.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voocel/toolgate/llm"
	"github.com/voocel/toolgate/schema"
	"github.com/voocel/toolgate/tool"
)

const maxSteps = 5

// Step records one tool invocation made by the model.
type Step struct {
	Tool   string          `json:"tool"`
	Input  json.RawMessage `json:"input"`
	Output string          `json:"output"`
}

// Result is the outcome of one agent run.
type Result struct {
	Text  string `json:"text"`
	Steps []Step `json:"steps"`
}

// Tools returns the agent's tool set.
func Tools() ([]tool.Tool, error) {
	registry := tool.NewRegistry()
	for _, t := range []tool.Tool{calculateTool(), searchTool()} {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry.List(), nil
}

func calculateTool() tool.Tool {
	s := &tool.Schema{
		Type: "object",
		Properties: map[string]*tool.PropertySchema{
			"expression": tool.StringProperty("Arithmetic expression to evaluate"),
		},
		Required: []string{"expression"},
	}
	return tool.New("calculate", "Perform calculations", s, func(ctx context.Context, params map[string]any) (any, error) {
		expression, _ := params["expression"].(string)
		value, err := EvalExpression(expression)
		if err != nil {
			return map[string]any{"error": "Invalid expression"}, nil
		}
		return map[string]any{"result": value}, nil
	})
}

func searchTool() tool.Tool {
	s := &tool.Schema{
		Type: "object",
		Properties: map[string]*tool.PropertySchema{
			"query": tool.StringProperty("Search query"),
		},
		Required: []string{"query"},
	}
	return tool.New("search", "Search for information", s, func(ctx context.Context, params map[string]any) (any, error) {
		query, _ := params["query"].(string)
		return map[string]any{"results": fmt.Sprintf("Simulated search: %s", query)}, nil
	})
}

// Run executes the task. If the model requests tool calls, they are executed
// and their results fed back, up to maxSteps generation turns.
func Run(ctx context.Context, gen llm.Generator, task, model string) (*Result, error) {
	toolSet, err := Tools()
	if err != nil {
		return nil, err
	}

	defs := make([]llm.ToolDef, 0, len(toolSet))
	for _, t := range toolSet {
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema().AsMap(),
		})
	}

	messages := []schema.Message{{Role: schema.RoleUser, Content: task}}
	steps := make([]Step, 0)
	lastText := ""

	for turn := 0; turn < maxSteps; turn++ {
		resp, err := gen.Generate(ctx, &llm.Request{
			Model:    model,
			Messages: messages,
			Tools:    defs,
		})
		if err != nil {
			return nil, err
		}
		lastText = resp.Text

		if len(resp.ToolCalls) == 0 {
			return &Result{Text: resp.Text, Steps: steps}, nil
		}

		messages = append(messages, schema.Message{
			Role:      schema.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			output := execToolCall(ctx, toolSet, call)
			steps = append(steps, Step{Tool: call.Name, Input: call.Args, Output: output})

			toolMsg := schema.Message{Role: schema.RoleTool, Content: output}
			toolMsg.SetMetadata("tool_call_id", call.ID)
			messages = append(messages, toolMsg)
		}
	}

	return &Result{Text: lastText, Steps: steps}, nil
}

// execToolCall runs one tool call. Failures become result text; they never
// abort the run.
func execToolCall(ctx context.Context, toolSet []tool.Tool, call schema.ToolCall) string {
	var selected tool.Tool
	for _, t := range toolSet {
		if t.Name() == call.Name {
			selected = t
			break
		}
	}
	if selected == nil {
		return fmt.Sprintf(`{"error":%q}`, schema.ErrToolNotFound.Error())
	}

	var raw map[string]any
	if len(call.Args) > 0 {
		if err := json.Unmarshal(call.Args, &raw); err != nil {
			return fmt.Sprintf(`{"error":"malformed arguments: %v"}`, err)
		}
	}
	params, err := tool.Validate(selected.Schema(), raw)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}

	result, err := selected.Execute(ctx, params)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error":"unencodable result: %v"}`, err)
	}
	return string(data)
}
