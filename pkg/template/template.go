// Package template compiles address templates into fillable path builders.
//
// An address template is a path pattern containing typed placeholders:
//
//	/users/[id]                  simple
//	/files/[...path]             rest (value may span segments)
//	/orders/[id=number]          typed (suffix is documentation for validators)
//	/optional/[[slug]]/detail    optional (whole /[[slug]] span collapses when absent)
//	/(admin)/settings            group (organizational, always removed)
//
// Templates are compiled once and filled many times. Filling never percent
// escapes values; escaping is the caller's concern.
package template

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Template compilation errors.
var (
	// ErrStrayBracket indicates a [ or ] outside a well-formed placeholder,
	// including nested or unterminated placeholders.
	ErrStrayBracket = errors.New("stray bracket in address template")

	// ErrDuplicateParam indicates the same placeholder name appears twice.
	ErrDuplicateParam = errors.New("duplicate placeholder name")
)

// Kind identifies a placeholder variant.
type Kind int

const (
	// KindSimple is a [name] placeholder.
	KindSimple Kind = iota

	// KindRest is a [...name] placeholder whose value may contain "/".
	KindRest

	// KindTyped is a [name=type] placeholder; the type suffix carries no
	// runtime behavior here, it documents the expected validator coercion.
	KindTyped

	// KindOptional is a [[name]] placeholder; the surrounding "/" span is
	// removed entirely when the value is absent.
	KindOptional
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindRest:
		return "rest"
	case KindTyped:
		return "typed"
	case KindOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// Placeholder describes one placeholder discovered during compilation.
type Placeholder struct {
	// Name is the parameter key the placeholder reads.
	Name string

	// Type is the documentary type suffix for KindTyped ("" otherwise).
	Type string

	// Kind is the placeholder variant.
	Kind Kind
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenParam             // simple, rest or typed; fills from params[name]
	tokenOptional
	tokenGroup
)

// token is one compiled unit of a template. For tokenParam, text holds the
// original source span so a missing key can leave it verbatim.
type token struct {
	kind tokenKind
	text string
	name string
}

// Template is a compiled address template. It is immutable and safe for
// concurrent use.
type Template struct {
	address string
	tokens  []token
	params  []Placeholder
}

// tokenRe matches, in order of preference: an optional placeholder with its
// leading slash, an optional placeholder at the start of the template, a rest
// placeholder, a typed placeholder, a simple placeholder, and a group segment
// with its leading slash.
var tokenRe = regexp.MustCompile(
	`/\[\[(\w+)\]\]` + // 1: optional with leading slash
		`|\[\[(\w+)\]\]` + // 2: optional without slash
		`|\[\.\.\.(\w+)\]` + // 3: rest
		`|\[(\w+)=(\w+)\]` + // 4,5: typed
		`|\[(\w+)\]` + // 6: simple
		`|/\(([^()/]+)\)`, // 7: group
)

// Compile parses an address template into a Template.
// It returns an error for stray brackets (unterminated, nested or empty
// placeholders) and for duplicate placeholder names.
func Compile(address string) (*Template, error) {
	t := &Template{address: address}
	seen := make(map[string]bool)

	addParam := func(p Placeholder) error {
		if seen[p.Name] {
			return fmt.Errorf("compile %q: %w: %s", address, ErrDuplicateParam, p.Name)
		}
		seen[p.Name] = true
		t.params = append(t.params, p)
		return nil
	}

	last := 0
	for _, m := range tokenRe.FindAllStringSubmatchIndex(address, -1) {
		if m[0] > last {
			lit := address[last:m[0]]
			if strings.ContainsAny(lit, "[]") {
				return nil, fmt.Errorf("compile %q: %w near %q", address, ErrStrayBracket, lit)
			}
			t.tokens = append(t.tokens, token{kind: tokenLiteral, text: lit})
		}
		src := address[m[0]:m[1]]

		switch {
		case m[2] >= 0 || m[4] >= 0: // optional, with or without slash
			name := groupText(address, m, 1)
			if name == "" {
				name = groupText(address, m, 2)
			}
			if err := addParam(Placeholder{Name: name, Kind: KindOptional}); err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token{kind: tokenOptional, text: src, name: name})

		case m[6] >= 0: // rest
			name := groupText(address, m, 3)
			if err := addParam(Placeholder{Name: name, Kind: KindRest}); err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token{kind: tokenParam, text: src, name: name})

		case m[8] >= 0: // typed
			name := groupText(address, m, 4)
			typ := groupText(address, m, 5)
			if err := addParam(Placeholder{Name: name, Type: typ, Kind: KindTyped}); err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token{kind: tokenParam, text: src, name: name})

		case m[12] >= 0: // simple
			name := groupText(address, m, 6)
			if err := addParam(Placeholder{Name: name, Kind: KindSimple}); err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token{kind: tokenParam, text: src, name: name})

		case m[14] >= 0: // group
			t.tokens = append(t.tokens, token{kind: tokenGroup, text: src})
		}
		last = m[1]
	}

	if last < len(address) {
		lit := address[last:]
		if strings.ContainsAny(lit, "[]") {
			return nil, fmt.Errorf("compile %q: %w near %q", address, ErrStrayBracket, lit)
		}
		t.tokens = append(t.tokens, token{kind: tokenLiteral, text: lit})
	}

	return t, nil
}

// MustCompile is Compile that panics on error. Intended for statically
// declared templates.
func MustCompile(address string) *Template {
	t, err := Compile(address)
	if err != nil {
		panic(err)
	}
	return t
}

// groupText returns the text of capture group n, or "" if it did not match.
func groupText(s string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}

// Address returns the original template string.
func (t *Template) Address() string {
	return t.address
}

// Params returns the placeholders in template order.
func (t *Template) Params() []Placeholder {
	out := make([]Placeholder, len(t.params))
	copy(out, t.params)
	return out
}

// Fill substitutes params into the template and returns the concrete path.
//
// Simple, rest and typed placeholders substitute the string form of
// params[name] when the key is present (a nil value counts as absent); a
// missing key leaves the placeholder text in the output verbatim, which the
// caller is expected to surface as a validation failure upstream. Optional
// spans collapse to nothing when absent. Group segments never appear in the
// output.
func (t *Template) Fill(params map[string]any) string {
	var b strings.Builder
	for _, tok := range t.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.text)
		case tokenParam:
			if v, ok := params[tok.name]; ok && v != nil {
				b.WriteString(Stringify(v))
			} else {
				b.WriteString(tok.text)
			}
		case tokenOptional:
			if v, ok := params[tok.name]; ok && v != nil {
				b.WriteString("/")
				b.WriteString(Stringify(v))
			}
		case tokenGroup:
			// Removed unconditionally.
		}
	}
	return b.String()
}

// Unresolved reports the placeholder names that Fill would leave in the
// output for the given params. Optional placeholders are never unresolved.
func (t *Template) Unresolved(params map[string]any) []string {
	var missing []string
	for _, tok := range t.tokens {
		if tok.kind != tokenParam {
			continue
		}
		if v, ok := params[tok.name]; !ok || v == nil {
			missing = append(missing, tok.name)
		}
	}
	return missing
}

// Fill compiles address and fills it in one step. Prefer compiling once for
// templates used repeatedly.
func Fill(address string, params map[string]any) (string, error) {
	t, err := Compile(address)
	if err != nil {
		return "", err
	}
	return t.Fill(params), nil
}

// Stringify converts a placeholder or query value to its direct string form.
// No escaping is applied.
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
