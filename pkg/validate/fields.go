package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qwacko/skroutes/pkg/template"
)

// uuidRe matches canonical UUID text.
var uuidRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Fields returns a Validator for flat key→value objects from declarative
// per-key type specs. Path captures arrive as strings, so every spec coerces
// string input into the declared type.
//
// Supported types: "string", "int" (alias "number"), "float", "bool",
// "uuid". A "?" prefix marks the key optional; otherwise a missing key is a
// validation failure. Keys present in the input but not in the spec pass
// through unchanged.
//
//	v := validate.Fields(map[string]string{
//	    "id":   "int",
//	    "slug": "?string",
//	})
func Fields(spec map[string]string) Validator {
	return Func(func(raw any) Outcome {
		input, ok := asObject(raw)
		if !ok {
			return Invalidf(nil, "expected an object, got %T", raw)
		}

		out := make(map[string]any, len(input))
		for k, v := range input {
			out[k] = v
		}

		var issues []Issue
		for key, typ := range spec {
			optional := strings.HasPrefix(typ, "?")
			typ = strings.TrimPrefix(typ, "?")

			v, present := input[key]
			if !present || v == nil {
				if !optional {
					issues = append(issues, Issue{Path: []string{key}, Message: "required"})
				}
				continue
			}

			coerced, err := coerce(v, typ)
			if err != nil {
				issues = append(issues, Issue{Path: []string{key}, Message: err.Error()})
				continue
			}
			out[key] = coerced
		}

		if len(issues) > 0 {
			return Invalid(issues...)
		}
		return Valid(out)
	})
}

// coerce converts v to the declared field type. String input is parsed;
// already-typed input is normalized.
func coerce(v any, typ string) (any, error) {
	switch typ {
	case "string", "":
		return template.Stringify(v), nil

	case "int", "number":
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case float64:
			if x != float64(int(x)) {
				return nil, fmt.Errorf("invalid integer: %v", x)
			}
			return int(x), nil
		case string:
			n, err := strconv.Atoi(x)
			if err != nil {
				return nil, fmt.Errorf("invalid integer: %s", x)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("invalid integer: %v", v)
		}

	case "float":
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid float: %s", x)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("invalid float: %v", v)
		}

	case "bool":
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(x)
			if err != nil {
				return nil, fmt.Errorf("invalid boolean: %s", x)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("invalid boolean: %v", v)
		}

	case "uuid":
		s, ok := v.(string)
		if !ok || !uuidRe.MatchString(s) {
			return nil, fmt.Errorf("invalid UUID: %v", v)
		}
		return s, nil

	default:
		// Unknown type names are documentary; accept the value as-is.
		return v, nil
	}
}

// asObject normalizes the two raw object shapes the engine produces: query
// decoding yields map[string]any, path captures yield map[string]string.
func asObject(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case nil:
		return map[string]any{}, true
	default:
		return nil, false
	}
}
