package search

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Run("Primitives", func(t *testing.T) {
		got := Encode(map[string]any{"q": "go", "page": 2, "active": true})
		if want := "active=true&page=2&q=go"; got != want {
			t.Errorf("Encode = %q, want %q", got, want)
		}
	})

	t.Run("NestedObjectJSONSerialized", func(t *testing.T) {
		got := Encode(map[string]any{
			"filter":      "active",
			"otherConfig": map[string]any{"item1": "this", "item2": 24},
		})
		want := "otherConfig=%7B%22item1%22%3A%22this%22%2C%22item2%22%3A24%7D"
		if !strings.Contains(got, want) {
			t.Errorf("Encode = %q, want substring %q", got, want)
		}
		if !strings.Contains(got, "filter=active") {
			t.Errorf("Encode = %q, want substring %q", got, "filter=active")
		}
	})

	t.Run("NilKeysPruned", func(t *testing.T) {
		got := Encode(map[string]any{
			"keep": "x",
			"drop": nil,
			"nested": map[string]any{
				"inner": nil,
				"kept":  1,
			},
		})
		if strings.Contains(got, "drop") || strings.Contains(got, "inner") {
			t.Errorf("Encode = %q, nil keys should be pruned", got)
		}
		if !strings.Contains(got, "keep=x") {
			t.Errorf("Encode = %q, want keep=x", got)
		}
	})

	t.Run("SlicesInsertedWhole", func(t *testing.T) {
		got := Encode(map[string]any{"tags": []any{"a", nil, "b"}})
		// %5B%22a%22%2Cnull%2C%22b%22%5D is ["a",null,"b"]: the nil
		// element survives because slices are never pruned.
		if want := "tags=%5B%22a%22%2Cnull%2C%22b%22%5D"; got != want {
			t.Errorf("Encode = %q, want %q", got, want)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := Encode(nil); got != "" {
			t.Errorf("Encode(nil) = %q, want empty", got)
		}
		if got := Encode(map[string]any{"only": nil}); got != "" {
			t.Errorf("Encode = %q, want empty after pruning", got)
		}
	})
}

func TestDecode(t *testing.T) {
	t.Run("RoundTripStructured", func(t *testing.T) {
		encoded := Encode(map[string]any{
			"filter":      "active",
			"otherConfig": map[string]any{"item1": "this", "item2": 24},
		})
		got := Decode(encoded)
		want := map[string]any{
			"filter":      "active",
			"otherConfig": map[string]any{"item1": "this", "item2": float64(24)},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Decode = %#v, want %#v", got, want)
		}
	})

	t.Run("LeadingQuestionMark", func(t *testing.T) {
		got := Decode("?a=b")
		if got["a"] != "b" {
			t.Errorf("Decode = %#v, want a=b", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := Decode(""); len(got) != 0 {
			t.Errorf("Decode(\"\") = %#v, want empty", got)
		}
	})
}

// The decode side runs every value through the JSON parser first, so
// JSON-parseable primitive strings do NOT round trip as strings. This is
// intentional: callers rely on numeric and boolean query values coming back
// as native types.
func TestDecodeJSONPrimitiveAsymmetry(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"123", float64(123)},
		{"true", true},
		{`"quoted"`, "quoted"},
		{"null", nil},
		{"plain-string", "plain-string"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Decode(Encode(map[string]any{"v": tt.raw}))
			if !reflect.DeepEqual(got["v"], tt.want) {
				t.Errorf("Decode(Encode(%q)) = %#v, want %#v", tt.raw, got["v"], tt.want)
			}
		})
	}
}
