package tool

import "context"

// Tool represents a named, schema-described unit of server-side behavior.
type Tool interface {
	// Name returns the tool's name
	Name() string

	// Description returns what the tool does
	Description() string

	// Execute runs the tool with validated parameters
	Execute(ctx context.Context, params map[string]any) (any, error)

	// Schema returns the JSON schema for the tool's parameters
	Schema() *Schema
}

// Schema defines the parameter schema for a tool.
type Schema struct {
	Type        string                     `json:"type"`
	Properties  map[string]*PropertySchema `json:"properties"`
	Required    []string                   `json:"required"`
	Description string                     `json:"description,omitempty"`
}

// PropertySchema defines a property in the tool schema.
type PropertySchema struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// WithRange constrains a numeric property to [min, max] inclusive.
func (p *PropertySchema) WithRange(min, max float64) *PropertySchema {
	p.Minimum = &min
	p.Maximum = &max
	return p
}

// WithDefault sets the literal default applied when the parameter is absent.
func (p *PropertySchema) WithDefault(v any) *PropertySchema {
	p.Default = v
	return p
}

// Executor is a function that executes a tool.
type Executor func(ctx context.Context, params map[string]any) (any, error)

// BaseTool provides a basic implementation of the Tool interface.
type BaseTool struct {
	name        string
	description string
	schema      *Schema
	executor    Executor
}

// New creates a new tool with the given configuration.
func New(name, description string, schema *Schema, executor Executor) Tool {
	if schema == nil {
		schema = &Schema{
			Type:       "object",
			Properties: make(map[string]*PropertySchema),
			Required:   []string{},
		}
	}
	if schema.Type == "" {
		schema.Type = "object"
	}
	return &BaseTool{
		name:        name,
		description: description,
		schema:      schema,
		executor:    executor,
	}
}

// Name returns the tool's name.
func (t *BaseTool) Name() string {
	return t.name
}

// Description returns the tool's description.
func (t *BaseTool) Description() string {
	return t.description
}

// Execute runs the tool with the given parameters.
func (t *BaseTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.executor(ctx, params)
}

// Schema returns the tool's parameter schema.
func (t *BaseTool) Schema() *Schema {
	return t.schema
}

// Helper functions for creating common property schemas

// StringProperty creates a string property schema.
func StringProperty(description string) *PropertySchema {
	return &PropertySchema{
		Type:        "string",
		Description: description,
	}
}

// NumberProperty creates a number property schema.
func NumberProperty(description string) *PropertySchema {
	return &PropertySchema{
		Type:        "number",
		Description: description,
	}
}

// IntegerProperty creates an integer property schema.
func IntegerProperty(description string) *PropertySchema {
	return &PropertySchema{
		Type:        "integer",
		Description: description,
	}
}

// BooleanProperty creates a boolean property schema.
func BooleanProperty(description string) *PropertySchema {
	return &PropertySchema{
		Type:        "boolean",
		Description: description,
	}
}

// EnumProperty creates an enum property schema.
func EnumProperty(description string, values []string) *PropertySchema {
	return &PropertySchema{
		Type:        "string",
		Description: description,
		Enum:        values,
	}
}
