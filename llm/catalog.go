package llm

import "regexp"

// DefaultModel is the model used when a request does not name one.
const DefaultModel = "openai/gpt-5-nano"

// ModelIDPattern constrains catalog identifiers: lowercase provider, then a
// model name of alphanumerics, dot, dash and underscore.
var ModelIDPattern = regexp.MustCompile(`^[a-z]+/[A-Za-z0-9._-]+$`)

// Model describes one catalog entry. The catalog is compiled in and never
// fetched from the gateway.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Type     string `json:"type"`
}

// Catalog returns the static model catalog.
func Catalog() []Model {
	return []Model{
		{ID: "openai/gpt-5", Name: "GPT-5", Provider: "OpenAI", Type: "chat"},
		{ID: "openai/gpt-5-nano", Name: "GPT-5 Nano", Provider: "OpenAI", Type: "chat"},
		{ID: "openai/gpt-5-mini", Name: "GPT-5 Mini", Provider: "OpenAI", Type: "chat"},
		{ID: "anthropic/claude-sonnet-4.5", Name: "Claude Sonnet 4.5", Provider: "Anthropic", Type: "chat"},
		{ID: "anthropic/claude-opus-4.5", Name: "Claude Opus 4.5", Provider: "Anthropic", Type: "chat"},
		{ID: "xai/grok-4", Name: "Grok 4", Provider: "xAI", Type: "chat"},
		{ID: "xai/grok-4.1-fast-non-reasoning", Name: "Grok 4.1 Fast", Provider: "xAI", Type: "chat"},
		{ID: "google/gemini-3-flash", Name: "Gemini 3 Flash", Provider: "Google", Type: "chat"},
		{ID: "google/gemini-3-pro", Name: "Gemini 3 Pro", Provider: "Google", Type: "chat"},
	}
}
