package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/voocel/toolgate/llm"
	"github.com/voocel/toolgate/sandbox"
	"github.com/voocel/toolgate/tool"
)

// buildTools declares the five exposed tools. Handlers receive validated,
// defaulted parameters and never propagate delegation failures uncaught.
func (s *Service) buildTools() []tool.Tool {
	return []tool.Tool{
		tool.New(
			"roll_dice",
			"Roll a dice with a specified number of sides",
			&tool.Schema{
				Type: "object",
				Properties: map[string]*tool.PropertySchema{
					"sides": tool.IntegerProperty("Number of sides on the dice").WithRange(2, 100),
				},
				Required: []string{"sides"},
			},
			func(ctx context.Context, params map[string]any) (any, error) {
				return s.RollDice(params["sides"].(int)), nil
			},
		),

		tool.New(
			"get_weather",
			"Get simulated weather for a location",
			&tool.Schema{
				Type: "object",
				Properties: map[string]*tool.PropertySchema{
					"location": tool.StringProperty("City or location name"),
				},
				Required: []string{"location"},
			},
			func(ctx context.Context, params map[string]any) (any, error) {
				return s.Weather(params["location"].(string)), nil
			},
		),

		tool.New(
			"ai_generate",
			"Generate text using the AI gateway with a specified model",
			&tool.Schema{
				Type: "object",
				Properties: map[string]*tool.PropertySchema{
					"prompt": tool.StringProperty("The prompt to send to the AI"),
					"model":  tool.StringProperty("Model ID (e.g., openai/gpt-5-nano, anthropic/claude-sonnet-4.5)").WithDefault(llm.DefaultModel),
				},
				Required: []string{"prompt"},
			},
			func(ctx context.Context, params map[string]any) (any, error) {
				resp, err := s.Generate(ctx, params["prompt"].(string), params["model"].(string))
				if err != nil {
					return nil, fmt.Errorf("Error: %v", err)
				}
				return resp.Text, nil
			},
		),

		tool.New(
			"sandbox_execute",
			"Execute JavaScript code safely in a remote sandbox",
			&tool.Schema{
				Type: "object",
				Properties: map[string]*tool.PropertySchema{
					"code":    tool.StringProperty("JavaScript code to execute"),
					"timeout": tool.IntegerProperty("Timeout in milliseconds").WithDefault(sandbox.DefaultTimeoutMS),
				},
				Required: []string{"code"},
			},
			func(ctx context.Context, params map[string]any) (any, error) {
				result, err := s.ExecuteCode(ctx, params["code"].(string), sandbox.DefaultRuntime, params["timeout"].(int))
				if err != nil {
					return nil, fmt.Errorf("Sandbox error: %v", err)
				}
				return result.Text(), nil
			},
		),

		tool.New(
			"list_models",
			"List available AI models through the gateway",
			nil,
			func(ctx context.Context, params map[string]any) (any, error) {
				var b strings.Builder
				b.WriteString("Available models:")
				for _, m := range s.catalog {
					b.WriteString(fmt.Sprintf("\n- %s (%s by %s)", m.ID, m.Name, m.Provider))
				}
				return b.String(), nil
			},
		),
	}
}
