package template

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCompileParams(t *testing.T) {
	tmpl, err := Compile("/users/[id]/files/[...path]/[kind=number]/[[slug]]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []Placeholder{
		{Name: "id", Kind: KindSimple},
		{Name: "path", Kind: KindRest},
		{Name: "kind", Type: "number", Kind: KindTyped},
		{Name: "slug", Kind: KindOptional},
	}
	if got := tmpl.Params(); !reflect.DeepEqual(got, want) {
		t.Errorf("Params = %+v, want %+v", got, want)
	}
}

func TestCompileErrors(t *testing.T) {
	t.Run("Unterminated", func(t *testing.T) {
		_, err := Compile("/users/[id")
		if !errors.Is(err, ErrStrayBracket) {
			t.Errorf("err = %v, want ErrStrayBracket", err)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := Compile("/users/[]")
		if !errors.Is(err, ErrStrayBracket) {
			t.Errorf("err = %v, want ErrStrayBracket", err)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := Compile("/a/[id]/b/[id]")
		if !errors.Is(err, ErrDuplicateParam) {
			t.Errorf("err = %v, want ErrDuplicateParam", err)
		}
	})
}

func TestFill(t *testing.T) {
	tests := []struct {
		name    string
		address string
		params  map[string]any
		want    string
	}{
		{
			name:    "Simple",
			address: "/users/[id]",
			params:  map[string]any{"id": "42"},
			want:    "/users/42",
		},
		{
			name:    "SimpleNumeric",
			address: "/users/[id]",
			params:  map[string]any{"id": 42},
			want:    "/users/42",
		},
		{
			name:    "Rest",
			address: "/restParams/[...rest]/data",
			params:  map[string]any{"rest": "a/b"},
			want:    "/restParams/a/b/data",
		},
		{
			name:    "TypedStripsSuffix",
			address: "/orders/[id=number]",
			params:  map[string]any{"id": 7},
			want:    "/orders/7",
		},
		{
			name:    "OptionalAbsent",
			address: "/optional/[[slug]]/[item]/detail",
			params:  map[string]any{"item": "x"},
			want:    "/optional/x/detail",
		},
		{
			name:    "OptionalPresent",
			address: "/optional/[[slug]]/[item]/detail",
			params:  map[string]any{"slug": "s", "item": "x"},
			want:    "/optional/s/x/detail",
		},
		{
			name:    "GroupRemoved",
			address: "/(admin)/settings/[tab]",
			params:  map[string]any{"tab": "general"},
			want:    "/settings/general",
		},
		{
			name:    "MissingKeyLeftVerbatim",
			address: "/users/[id]",
			params:  map[string]any{"other": "x"},
			want:    "/users/[id]",
		},
		{
			name:    "NilValueCountsAsAbsent",
			address: "/users/[id]",
			params:  map[string]any{"id": nil},
			want:    "/users/[id]",
		},
		{
			name:    "MixedKinds",
			address: "/a/[x]/(group)/[[opt]]/[...rest]",
			params:  map[string]any{"x": "1", "opt": "o", "rest": "r/s"},
			want:    "/a/1/o/r/s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Compile(tt.address)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.address, err)
			}
			if got := tmpl.Fill(tt.params); got != tt.want {
				t.Errorf("Fill = %q, want %q", got, tt.want)
			}
		})
	}
}

// Well-formed templates filled with every placeholder key present produce
// paths with no bracket or group residue.
func TestFillLeavesNoResidue(t *testing.T) {
	addresses := []string{
		"/users/[id]",
		"/files/[...path]/meta",
		"/orders/[id=number]/items/[item=string]",
		"/optional/[[slug]]/[item]/detail",
		"/(marketing)/pricing/[plan]",
	}
	params := map[string]any{
		"id": "1", "path": "a/b", "item": "i", "slug": "s", "plan": "pro",
	}

	for _, addr := range addresses {
		tmpl, err := Compile(addr)
		if err != nil {
			t.Fatalf("Compile(%q): %v", addr, err)
		}
		got := tmpl.Fill(params)
		if strings.ContainsAny(got, "[]()") {
			t.Errorf("Fill(%q) = %q, contains residue", addr, got)
		}
	}
}

func TestUnresolved(t *testing.T) {
	tmpl := MustCompile("/a/[x]/[y]/[[opt]]")

	got := tmpl.Unresolved(map[string]any{"x": "1"})
	if want := []string{"y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved = %v, want %v", got, want)
	}

	if got := tmpl.Unresolved(map[string]any{"x": "1", "y": "2"}); got != nil {
		t.Errorf("Unresolved = %v, want nil", got)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{42, "42"},
		{int64(7), "7"},
		{uint(3), "3"},
		{1.5, "1.5"},
		{float64(5), "5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
