package tool

import (
	"context"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*PropertySchema{
			"sides":    IntegerProperty("Number of sides").WithRange(2, 100),
			"location": StringProperty("Location name"),
			"ratio":    NumberProperty("Ratio"),
			"verbose":  BooleanProperty("Verbose output"),
			"mode":     EnumProperty("Mode", []string{"fast", "slow"}),
			"model":    StringProperty("Model").WithDefault("openai/gpt-5-nano"),
		},
		Required: []string{"sides"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		wantErr bool
		field   string
	}{
		{"valid minimal", map[string]any{"sides": 6}, false, ""},
		{"missing required", map[string]any{}, true, "sides"},
		{"required nil", map[string]any{"sides": nil}, true, "sides"},
		{"integer as float64", map[string]any{"sides": float64(20)}, false, ""},
		{"fractional integer", map[string]any{"sides": 6.5}, true, "sides"},
		{"integer below minimum", map[string]any{"sides": 1}, true, "sides"},
		{"integer above maximum", map[string]any{"sides": 101}, true, "sides"},
		{"integer at bounds", map[string]any{"sides": 100}, false, ""},
		{"wrong string type", map[string]any{"sides": 6, "location": 42}, true, "location"},
		{"wrong number type", map[string]any{"sides": 6, "ratio": "high"}, true, "ratio"},
		{"wrong boolean type", map[string]any{"sides": 6, "verbose": "yes"}, true, "verbose"},
		{"enum accepted", map[string]any{"sides": 6, "mode": "fast"}, false, ""},
		{"enum rejected", map[string]any{"sides": 6, "mode": "medium"}, true, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Validate(testSchema(), tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() = %v, want error", out)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error type = %T, want *ValidationError", err)
				}
				if verr.Field != tt.field {
					t.Fatalf("error field = %q, want %q", verr.Field, tt.field)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateTypes(t *testing.T) {
	out, err := Validate(testSchema(), map[string]any{
		"sides": float64(8),
		"ratio": 2,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if v, ok := out["sides"].(int); !ok || v != 8 {
		t.Fatalf("sides = %v (%T), want int 8", out["sides"], out["sides"])
	}
	if v, ok := out["ratio"].(float64); !ok || v != 2 {
		t.Fatalf("ratio = %v (%T), want float64 2", out["ratio"], out["ratio"])
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	out, err := Validate(testSchema(), map[string]any{"sides": 6})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if out["model"] != "openai/gpt-5-nano" {
		t.Fatalf("model default = %v, want openai/gpt-5-nano", out["model"])
	}
	if _, present := out["location"]; present {
		t.Fatal("absent optional without default should not appear in output")
	}
}

func TestValidateDefaultNotOverridden(t *testing.T) {
	out, err := Validate(testSchema(), map[string]any{"sides": 6, "model": "xai/grok-4"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if out["model"] != "xai/grok-4" {
		t.Fatalf("model = %v, want explicit value to win over default", out["model"])
	}
}

func TestSchemaAsMap(t *testing.T) {
	m := testSchema().AsMap()
	if m["type"] != "object" {
		t.Fatalf("type = %v, want object", m["type"])
	}
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties type = %T, want map", m["properties"])
	}
	sides, ok := props["sides"].(map[string]any)
	if !ok {
		t.Fatalf("sides property missing: %v", props)
	}
	if sides["type"] != "integer" {
		t.Fatalf("sides type = %v, want integer", sides["type"])
	}
	if sides["minimum"] != float64(2) || sides["maximum"] != float64(100) {
		t.Fatalf("sides range = [%v, %v], want [2, 100]", sides["minimum"], sides["maximum"])
	}
}

func TestNewNilSchema(t *testing.T) {
	tl := New("noop", "does nothing", nil, func(ctx context.Context, params map[string]any) (any, error) {
		return "ok", nil
	})
	s := tl.Schema()
	if s == nil || s.Type != "object" {
		t.Fatalf("nil schema should normalize to empty object schema, got %+v", s)
	}
	if len(s.Required) != 0 {
		t.Fatalf("empty schema should require nothing, got %v", s.Required)
	}
	params, err := Validate(s, map[string]any{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(params) != 0 {
		t.Fatalf("params = %v, want empty", params)
	}
}
