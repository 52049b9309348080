// Package search encodes query objects to canonical query strings and
// decodes query strings back to untyped objects.
//
// Encoding and decoding are deliberately not a pure round trip: every
// decoded value is first offered to the JSON parser, so the literal string
// "123" rehydrates as the number 123 and "true" as a boolean. Callers rely
// on numeric and boolean query values coming back as native types; do not
// "fix" this asymmetry.
package search

import (
	"encoding/json"
	"net/url"

	"github.com/qwacko/skroutes/pkg/template"
)

// Encode serializes a query object into a canonical (sorted-key,
// percent-escaped) query string without the leading "?".
//
// String, numeric and boolean values are stringified directly; any other
// value (maps, slices, structs) is JSON-serialized. Keys holding nil at any
// depth are pruned before encoding; slices are inserted as-is, never
// recursed into.
func Encode(values map[string]any) string {
	pruned := prune(values)
	if len(pruned) == 0 {
		return ""
	}

	q := url.Values{}
	for k, v := range pruned {
		q.Set(k, encodeValue(v))
	}
	return q.Encode()
}

// encodeValue returns the wire form of one query value.
func encodeValue(v any) string {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return template.Stringify(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			// Unmarshalable values (channels, funcs) degrade to their
			// fmt form rather than failing the whole query.
			return template.Stringify(v)
		}
		return string(data)
	}
}

// prune returns a copy of values with nil-valued keys removed recursively.
// Arrays and slices are kept whole.
func prune(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if v == nil {
			continue
		}
		if m, ok := v.(map[string]any); ok {
			out[k] = prune(m)
			continue
		}
		out[k] = v
	}
	return out
}

// Decode parses a query string (with or without a leading "?") into a
// key→value object. Each value is offered to the JSON parser first; values
// that parse keep their parsed structure, everything else stays a raw
// string. Repeated keys keep the first occurrence.
func Decode(query string) map[string]any {
	if len(query) > 0 && query[0] == '?' {
		query = query[1:]
	}

	out := make(map[string]any)
	// ParseQuery reports bad escapes but still returns the pairs it could
	// parse; keep those.
	parsed, _ := url.ParseQuery(query)

	for k, vs := range parsed {
		if len(vs) == 0 {
			continue
		}
		out[k] = decodeValue(vs[0])
	}
	return out
}

// decodeValue rehydrates one raw query value.
func decodeValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
