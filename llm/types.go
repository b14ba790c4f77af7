package llm

import (
	"context"

	"github.com/voocel/toolgate/schema"
)

// Generator is the delegation surface for model generation. All inference is
// performed by the external gateway; implementations only marshal the call.
type Generator interface {
	// Generate sends one completion request
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GenerateStream sends one completion request and relays content
	// fragments in the order the gateway produces them
	GenerateStream(ctx context.Context, req *Request) (<-chan schema.StreamEvent, error)
}

// Request represents a single generation request.
type Request struct {
	Model    string           `json:"model,omitempty"`
	Messages []schema.Message `json:"messages"`
	Tools    []ToolDef        `json:"tools,omitempty"`
}

// Response represents a generation response.
type Response struct {
	Text      string            `json:"text"`
	ToolCalls []schema.ToolCall `json:"tool_calls,omitempty"`
	Usage     Usage             `json:"usage"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToolDef describes a callable tool the model may invoke mid-generation.
type ToolDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
