// Package service implements the five operations once, as pure functions of
// validated input. The MCP endpoint and the dashboard API are thin adapters
// over this package.
package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/voocel/toolgate/agent"
	"github.com/voocel/toolgate/llm"
	"github.com/voocel/toolgate/sandbox"
	"github.com/voocel/toolgate/schema"
	"github.com/voocel/toolgate/tool"
)

// WeatherConditions is the fixed condition set for simulated weather.
var WeatherConditions = []string{"sunny", "cloudy", "rainy", "stormy", "snowy"}

const sandboxFileName = "code.mjs"

// Service holds the delegation adapters and the immutable tool registry.
// It keeps no state across requests.
type Service struct {
	gen      llm.Generator
	sandbox  sandbox.Client
	registry *tool.Registry
	catalog  []llm.Model
}

// New wires a service. Duplicate tool names are a configuration error.
func New(gen llm.Generator, sb sandbox.Client) (*Service, error) {
	s := &Service{
		gen:     gen,
		sandbox: sb,
		catalog: llm.Catalog(),
	}
	registry := tool.NewRegistry()
	for _, t := range s.buildTools() {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	s.registry = registry
	return s, nil
}

// Registry returns the tool registry.
func (s *Service) Registry() *tool.Registry { return s.registry }

// ToolNames returns the registered tool names in registration order.
func (s *Service) ToolNames() []string { return s.registry.Names() }

// Models returns the static model catalog.
func (s *Service) Models() []llm.Model { return s.catalog }

// RollDice returns a uniformly random roll of a dice with the given number
// of sides. Input is validated by the callers' schema layer.
func (s *Service) RollDice(sides int) string {
	value := 1 + rand.IntN(sides)
	return fmt.Sprintf("You rolled a %d!", value)
}

// Weather returns simulated weather for a location: a uniform pick from the
// fixed condition set and a temperature in [-5, 34].
func (s *Service) Weather(location string) string {
	condition := WeatherConditions[rand.IntN(len(WeatherConditions))]
	temp := rand.IntN(40) - 5
	return fmt.Sprintf("Weather in %s: %s, %d°C", location, condition, temp)
}

// Generate delegates one prompt to the model gateway with no tools attached.
func (s *Service) Generate(ctx context.Context, prompt, model string) (*llm.Response, error) {
	return s.gen.Generate(ctx, &llm.Request{
		Model:    model,
		Messages: []schema.Message{{Role: schema.RoleUser, Content: prompt}},
	})
}

// Chat delegates a message sequence to the model gateway.
func (s *Service) Chat(ctx context.Context, messages []schema.Message, model string) (*llm.Response, error) {
	return s.gen.Generate(ctx, &llm.Request{Model: model, Messages: messages})
}

// ChatStream delegates a message sequence and relays the gateway's fragments
// in production order.
func (s *Service) ChatStream(ctx context.Context, messages []schema.Message, model string) (<-chan schema.StreamEvent, error) {
	return s.gen.GenerateStream(ctx, &llm.Request{Model: model, Messages: messages})
}

// ExecResult is the captured outcome of one sandbox execution.
type ExecResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// Text renders the result the way the tool surface reports it.
func (r *ExecResult) Text() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	if r.Stderr != "" {
		return r.Stderr
	}
	return "No output"
}

// ExecuteCode provisions a sandbox, writes the submitted code as one file,
// runs it with the interpreter chosen by runtime prefix and collects output.
// The session is released on every exit path.
func (s *Service) ExecuteCode(ctx context.Context, code, runtime string, timeoutMS int) (*ExecResult, error) {
	var out *ExecResult
	err := sandbox.Exec(ctx, s.sandbox, sandbox.CreateRequest{Runtime: runtime, TimeoutMS: timeoutMS}, func(ctx context.Context, sess sandbox.Session) error {
		if err := sess.WriteFile(ctx, sandboxFileName, []byte(code)); err != nil {
			return err
		}
		result, err := sess.Run(ctx, sandbox.CommandFor(runtime), sandboxFileName)
		if err != nil {
			return err
		}
		out = &ExecResult{
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			ExitCode: result.ExitCode,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunAgent runs one task with the calculator and search tools attached.
func (s *Service) RunAgent(ctx context.Context, task, model string) (*agent.Result, error) {
	return agent.Run(ctx, s.gen, task, model)
}
