package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/voocel/litellm"

	"github.com/voocel/toolgate/schema"
)

// Gateway implements Generator over an OpenAI-compatible model gateway using
// the litellm client. Model identifiers of the form "provider/model-name"
// pass through to the gateway unchanged.
type Gateway struct {
	client       *litellm.Client
	defaultModel string
}

// NewGateway creates a gateway adapter for the given credentials.
func NewGateway(apiKey, baseURL string) *Gateway {
	var client *litellm.Client
	if baseURL != "" {
		client = litellm.New(litellm.WithOpenAI(apiKey, baseURL))
	} else {
		client = litellm.New(litellm.WithOpenAI(apiKey))
	}
	return &Gateway{
		client:       client,
		defaultModel: DefaultModel,
	}
}

// Generate sends one completion request to the gateway.
func (g *Gateway) Generate(ctx context.Context, req *Request) (*Response, error) {
	resp, err := g.client.Complete(ctx, g.convertRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrModelAPIError, err)
	}

	out := &Response{
		Text: resp.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.PromptTokens + resp.Usage.CompletionTokens,
		},
	}
	for _, tc := range resp.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

// GenerateStream sends one completion request and relays content chunks as
// stream events. Fragments are forwarded one at a time in arrival order; the
// end event carries the concatenated full text.
func (g *Gateway) GenerateStream(ctx context.Context, req *Request) (<-chan schema.StreamEvent, error) {
	stream, err := g.client.Stream(ctx, g.convertRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrModelAPIError, err)
	}

	ch := make(chan schema.StreamEvent, 1)
	go func() {
		defer close(ch)
		defer stream.Close()

		ch <- schema.NewStreamEvent(schema.EventStart, nil)

		var full strings.Builder
		for {
			chunk, err := stream.Read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				ch <- schema.NewErrorEvent(fmt.Errorf("%w: %v", schema.ErrModelAPIError, err))
				return
			}
			if chunk == nil || chunk.Done {
				break
			}
			if chunk.Type == litellm.ChunkTypeContent && chunk.Content != "" {
				full.WriteString(chunk.Content)
				ch <- schema.NewTokenEvent(full.String(), chunk.Content)
			}
		}

		ch <- schema.NewStreamEvent(schema.EventEnd, schema.Message{
			Role:    schema.RoleAssistant,
			Content: full.String(),
		})
	}()
	return ch, nil
}

// convertRequest converts our request format to litellm format.
func (g *Gateway) convertRequest(req *Request) *litellm.Request {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	out := &litellm.Request{
		Model:    model,
		Messages: make([]litellm.Message, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		lm := litellm.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
		for _, tc := range msg.ToolCalls {
			lm.ToolCalls = append(lm.ToolCalls, litellm.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: litellm.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Args),
				},
			})
		}
		if id, ok := msg.GetMetadata("tool_call_id"); ok {
			if s, ok := id.(string); ok {
				lm.ToolCallID = s
			}
		}
		out.Messages = append(out.Messages, lm)
	}
	for _, t := range req.Tools {
		out.Tools = append(out.Tools, litellm.Tool{
			Type: "function",
			Function: litellm.FunctionSchema{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}
