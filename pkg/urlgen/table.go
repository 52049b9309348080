package urlgen

import (
	"errors"
	"fmt"
	"sort"

	"github.com/qwacko/skroutes/pkg/template"
	"github.com/qwacko/skroutes/pkg/validate"
)

// Route table construction errors.
var (
	ErrEmptyAddress     = errors.New("urlgen: empty address")
	ErrDuplicateAddress = errors.New("urlgen: duplicate address")
)

// Recovery is a failure handler's answer when validation fails. Exactly one
// of Value or Redirect should be set: Value substitutes a validated value
// and generation continues; Redirect short-circuits generation with the
// given URL.
type Recovery struct {
	Value    map[string]any
	Redirect string
}

// RecoverFunc is consulted when params or search validation fails, before
// the generic error path. Returning nil declares the failure unrecoverable.
type RecoverFunc func(issues []validate.Issue, raw any) *Recovery

// RouteEntry declares one route: its address template, optional validators
// and optional failure handlers.
type RouteEntry struct {
	// Address is the route's template, e.g. "/users/[id]".
	Address string

	// Params validates the path parameter object. Nil means the raw value
	// passes through unchanged.
	Params validate.Validator

	// Search validates the query object. Nil means pass-through.
	Search validate.Validator

	// OnParamsError, if set, gets first refusal on params validation
	// failures.
	OnParamsError RecoverFunc

	// OnSearchError, if set, gets first refusal on search validation
	// failures.
	OnSearchError RecoverFunc
}

// RouteTable maps addresses to their entries. Tables are built once, with
// every template compiled and checked up front, and are read-only
// afterwards: any number of Generate calls may share one table.
type RouteTable struct {
	entries   map[string]RouteEntry
	templates map[string]*template.Template
}

// NewRouteTable builds a table from route entries. Malformed templates and
// duplicate addresses are construction-time errors: the table is the static
// registry the rest of the process trusts, so it fails loudly here rather
// than at generation time.
func NewRouteTable(entries ...RouteEntry) (*RouteTable, error) {
	t := &RouteTable{
		entries:   make(map[string]RouteEntry, len(entries)),
		templates: make(map[string]*template.Template, len(entries)),
	}
	for _, e := range entries {
		if err := t.add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNewRouteTable is NewRouteTable that panics on error. Intended for
// statically declared registries (generated code uses this form).
func MustNewRouteTable(entries ...RouteEntry) *RouteTable {
	t, err := NewRouteTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *RouteTable) add(e RouteEntry) error {
	if e.Address == "" {
		return ErrEmptyAddress
	}
	if _, exists := t.entries[e.Address]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAddress, e.Address)
	}
	tmpl, err := template.Compile(e.Address)
	if err != nil {
		return err
	}
	t.entries[e.Address] = e
	t.templates[e.Address] = tmpl
	return nil
}

// MergeTables combines tables into a new one. Duplicate addresses across
// tables are an error. The inputs are not modified; merging is a
// construction-time operation only.
func MergeTables(tables ...*RouteTable) (*RouteTable, error) {
	merged := &RouteTable{
		entries:   make(map[string]RouteEntry),
		templates: make(map[string]*template.Template),
	}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for addr, e := range t.entries {
			if _, exists := merged.entries[addr]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAddress, addr)
			}
			merged.entries[addr] = e
			merged.templates[addr] = t.templates[addr]
		}
	}
	return merged, nil
}

// Lookup returns the entry and compiled template for an address.
func (t *RouteTable) Lookup(address string) (RouteEntry, *template.Template, bool) {
	e, ok := t.entries[address]
	if !ok {
		return RouteEntry{}, nil, false
	}
	return e, t.templates[address], true
}

// Len returns the number of routes in the table.
func (t *RouteTable) Len() int {
	return len(t.entries)
}

// Addresses returns every address in the table, sorted.
func (t *RouteTable) Addresses() []string {
	out := make([]string, 0, len(t.entries))
	for addr := range t.entries {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}
