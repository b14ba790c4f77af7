package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// ValidationError reports a rejected parameter. Field names the offending
// parameter so callers can surface it verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// Validate checks raw input against the schema and returns a fully typed,
// defaulted parameter set. It must run before any delegation call; a failure
// here never reaches an external service.
func Validate(s *Schema, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		value, present := raw[name]
		if !present || value == nil {
			if slices.Contains(s.Required, name) {
				return nil, &ValidationError{Field: name, Reason: "required"}
			}
			if prop.Default != nil {
				typed, err := checkValue(name, prop, prop.Default)
				if err != nil {
					return nil, err
				}
				out[name] = typed
			}
			continue
		}
		typed, err := checkValue(name, prop, value)
		if err != nil {
			return nil, err
		}
		out[name] = typed
	}
	return out, nil
}

func checkValue(name string, prop *PropertySchema, value any) (any, error) {
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "must be a string"}
		}
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, s) {
			return nil, &ValidationError{Field: name, Reason: fmt.Sprintf("must be one of %v", prop.Enum)}
		}
		return s, nil

	case "integer":
		f, ok := toFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, &ValidationError{Field: name, Reason: "must be an integer"}
		}
		if err := checkRange(name, prop, f); err != nil {
			return nil, err
		}
		return int(f), nil

	case "number":
		f, ok := toFloat(value)
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "must be a number"}
		}
		if err := checkRange(name, prop, f); err != nil {
			return nil, err
		}
		return f, nil

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "must be a boolean"}
		}
		return b, nil

	default:
		return value, nil
	}
}

func checkRange(name string, prop *PropertySchema, f float64) error {
	if prop.Minimum != nil && f < *prop.Minimum {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("must be >= %g", *prop.Minimum)}
	}
	if prop.Maximum != nil && f > *prop.Maximum {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("must be <= %g", *prop.Maximum)}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AsMap renders the schema as a generic JSON-schema map, the shape expected
// by function-calling APIs.
func (s *Schema) AsMap() map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	return out
}
