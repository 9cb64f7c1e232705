package mcp

import (
	"fmt"
)

// ValidationError reports an argument payload that does not satisfy the
// tool's declared input schema. It is raised before a session is resolved,
// so it surfaces as a protocol-level rejection rather than a tool result.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
}

// validateArgs checks a raw argument payload against a tool's declared
// schema: required fields must be present and declared primitive types must
// match what the JSON decoder produced.
func validateArgs(schema map[string]interface{}, args map[string]interface{}) error {
	for _, field := range requiredFields(schema) {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required argument: %s", field)
		}
	}

	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}
	for name, raw := range props {
		val, present := args[name]
		if !present {
			continue
		}
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		declared, ok := prop["type"].(string)
		if !ok {
			continue
		}
		if err := checkType(name, declared, val); err != nil {
			return err
		}
	}
	return nil
}

func requiredFields(schema map[string]interface{}) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []interface{}:
		fields := make([]string, 0, len(req))
		for _, f := range req {
			if s, ok := f.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	default:
		return nil
	}
}

func checkType(name, declared string, val interface{}) error {
	switch declared {
	case "string":
		if _, ok := val.(string); !ok {
			return fmt.Errorf("argument %s must be a string", name)
		}
	case "number", "integer":
		switch val.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("argument %s must be a number", name)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("argument %s must be a boolean", name)
		}
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return fmt.Errorf("argument %s must be an object", name)
		}
	case "array":
		if _, ok := val.([]interface{}); !ok {
			return fmt.Errorf("argument %s must be an array", name)
		}
	}
	return nil
}
