// Package urlgen turns an address template plus parameter values into a
// concrete URL, running each route's validators on the way.
//
// A Generator is pure and allocation-only: it never mutates its RouteTable
// and is safe to call from any number of goroutines. Every failure mode —
// unknown address, validation failure, an async validator — converts at the
// generator boundary into a uniform error Result pointing at the configured
// error URL; no fault escapes to the caller.
package urlgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"github.com/qwacko/skroutes/pkg/merge"
	"github.com/qwacko/skroutes/pkg/search"
	"github.com/qwacko/skroutes/pkg/validate"
)

// DefaultErrorURL is the fallback error address when none is configured.
const DefaultErrorURL = "/"

// errorMessage is the fixed literal attached to every error URL.
const errorMessage = "Error generating URL"

// Result is the outcome of one generation. Results are produced fresh on
// every call and never mutated afterwards, so they are safe to share.
type Result struct {
	// Address is the requested address template.
	Address string

	// URL is the generated URL, or the error URL when Error is true.
	URL string

	// Error reports whether generation failed.
	Error bool

	// Params is the validated (or passed-through) parameter object. Empty
	// map on error.
	Params any

	// SearchParams is the validated (or passed-through) query object.
	// Empty map on error.
	SearchParams any
}

// Update is a partial parameter update for MergeAndGenerate. Use
// merge.Delete as a value to remove a key.
type Update struct {
	Params map[string]any
	Search map[string]any
}

// Generator generates URLs against one read-only RouteTable.
type Generator struct {
	table      *RouteTable
	errorURL   string
	metrics    *Metrics
	tracerName string
}

// Option configures a Generator.
type Option func(*Generator)

// WithErrorURL sets the address every failed generation redirects to. The
// error URL is used verbatim; it is not itself looked up or validated.
func WithErrorURL(u string) Option {
	return func(g *Generator) {
		g.errorURL = u
	}
}

// WithMetrics attaches Prometheus instrumentation to the generator.
func WithMetrics(m *Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithTracer enables OpenTelemetry spans around each generation, using the
// named tracer.
func WithTracer(name string) Option {
	return func(g *Generator) {
		g.tracerName = name
	}
}

// New creates a Generator for the given table.
func New(table *RouteTable, opts ...Option) *Generator {
	g := &Generator{
		table:    table,
		errorURL: DefaultErrorURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Table returns the generator's route table.
func (g *Generator) Table() *RouteTable {
	return g.table
}

// Generate produces the URL for address from raw parameter and query
// values.
//
// Steps: look up the route, validate params (when a validator exists and a
// value was supplied), validate search the same way, fill the template,
// encode the query. A failure handler on the route gets first refusal —
// it may substitute a value or redirect — before any failure collapses into
// the uniform error Result.
func (g *Generator) Generate(ctx context.Context, address string, params, searchParams any) (res Result) {
	start := time.Now()
	finish := g.startSpan(ctx, address)

	defer func() {
		// Async validation panics at the adapter; convert it here so no
		// fault crosses the generator boundary.
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, validate.ErrAsyncValidation) {
				res = g.fail(address)
			} else {
				panic(r)
			}
		}
		g.record(address, res.Error, time.Since(start))
		finish(res.Error)
	}()

	entry, tmpl, ok := g.table.Lookup(address)
	if !ok {
		return g.fail(address)
	}

	validParams, redirect, ok := g.runValidator(entry.Params, entry.OnParamsError, params, address, "params")
	if !ok {
		return g.fail(address)
	}
	if redirect != "" {
		return Result{
			Address:      address,
			URL:          redirect,
			Params:       map[string]any{},
			SearchParams: map[string]any{},
		}
	}

	validSearch, redirect, ok := g.runValidator(entry.Search, entry.OnSearchError, searchParams, address, "search")
	if !ok {
		return g.fail(address)
	}
	if redirect != "" {
		return Result{
			Address:      address,
			URL:          redirect,
			Params:       map[string]any{},
			SearchParams: map[string]any{},
		}
	}

	path := tmpl.Fill(toObject(validParams))
	query := search.Encode(toObject(validSearch))
	u := path
	if query != "" {
		u += "?" + query
	}

	return Result{
		Address:      address,
		URL:          u,
		Params:       orEmpty(validParams),
		SearchParams: orEmpty(validSearch),
	}
}

// MergeAndGenerate merges a partial update into the current raw state and
// generates from the merged values. The bases are the raw, unvalidated
// values — path captures and the raw query string — so deletions and
// partial edits compose before validation runs once over the result.
func (g *Generator) MergeAndGenerate(ctx context.Context, address string, currentParams map[string]any, currentQuery string, update Update) Result {
	mergedParams := merge.Merge(currentParams, update.Params)
	mergedSearch := merge.Merge(search.Decode(currentQuery), update.Search)
	return g.Generate(ctx, address, mergedParams, mergedSearch)
}

// runValidator applies a route validator to a raw value. It reports the
// validated value, a redirect URL when a failure handler chose one, and
// whether generation may continue.
func (g *Generator) runValidator(v validate.Validator, onError RecoverFunc, raw any, address, kind string) (value any, redirect string, ok bool) {
	// Per contract, validation runs only when a validator exists AND a
	// value was supplied; otherwise the raw value passes through.
	if v == nil || raw == nil {
		return raw, "", true
	}

	out := validate.Run(v, raw)
	if out.OK() {
		return out.Value, "", true
	}

	g.countValidationFailure(address, kind)

	if onError != nil {
		if rec := onError(out.Issues, raw); rec != nil {
			if rec.Redirect != "" {
				return nil, rec.Redirect, true
			}
			return rec.Value, "", true
		}
	}
	return nil, "", false
}

// fail builds the uniform error Result.
func (g *Generator) fail(address string) Result {
	return Result{
		Address:      address,
		URL:          g.errorURL + "?message=" + url.QueryEscape(errorMessage),
		Error:        true,
		Params:       map[string]any{},
		SearchParams: map[string]any{},
	}
}

// toObject normalizes a validated value into the map form the template and
// query encoders consume. Typed structs (from struct validators) go through
// a JSON round trip.
func toObject(v any) map[string]any {
	switch m := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
		var out map[string]any
		if err := json.Unmarshal(data, &out); err != nil {
			return map[string]any{}
		}
		return out
	}
}

// orEmpty substitutes an empty object for nil so Result fields are always
// present.
func orEmpty(v any) any {
	if v == nil {
		return map[string]any{}
	}
	return v
}
