// Package binding keeps client-held parameter state in sync with an
// external location source and a navigation sink.
//
// A Binding runs two reconciliation directions. Sync-in (SyncIn) adopts the
// externally-owned location state unless a local edit is pending, so a stale
// external read never clobbers an in-flight update. Sync-out fires whenever
// a local update changes the current state: the URL is regenerated and a
// cancellable timer (debounce, default immediate) propagates it to the
// navigation sink. A new update supersedes any pending timer, so rapid
// updates settle into at most one propagation.
//
// All state is exclusively owned by one Binding; share the Generator, not
// the Binding.
package binding

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/qwacko/skroutes/pkg/routepath"
	"github.com/qwacko/skroutes/pkg/search"
	"github.com/qwacko/skroutes/pkg/urlgen"
)

// Action tells the navigation sink what kind of propagation is requested.
type Action int

const (
	// ActionNavigate requests a real navigation to the new URL.
	ActionNavigate Action = iota

	// ActionStateOnly requests a history/state update without navigation.
	ActionStateOnly
)

func (a Action) String() string {
	if a == ActionStateOnly {
		return "state-only"
	}
	return "navigate"
}

// NavigateFunc is the external propagation sink. It receives the final URL
// and the requested action; the binding never performs navigation itself.
type NavigateFunc func(url string, action Action)

// Option configures a Binding.
type Option func(*Binding)

// WithDelay sets the propagation debounce delay. Zero (the default)
// propagates immediately.
func WithDelay(d time.Duration) Option {
	return func(b *Binding) {
		b.delay = d
	}
}

// WithAction sets the action requested from the navigation sink.
// Default: ActionNavigate.
func WithAction(a Action) Option {
	return func(b *Binding) {
		b.action = a
	}
}

// Binding synchronizes one route's parameter state between an external
// location source and a navigation sink.
type Binding struct {
	gen      *urlgen.Generator
	address  string
	navigate NavigateFunc
	delay    time.Duration
	action   Action

	mu sync.Mutex

	// Raw external base values; local updates merge against these, never
	// against the validated current values.
	rawParams map[string]any
	rawQuery  string

	// Current state and its last-synced snapshot. current != previous
	// only while a local edit is being applied.
	currentParams  map[string]any
	currentSearch  map[string]any
	previousParams map[string]any
	previousSearch map[string]any

	url    string
	timer  *time.Timer
	closed bool
}

// New creates a Binding for one address. The navigate sink receives every
// propagated URL.
func New(gen *urlgen.Generator, address string, navigate NavigateFunc, opts ...Option) *Binding {
	b := &Binding{
		gen:      gen,
		address:  address,
		navigate: navigate,
		action:   ActionNavigate,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SyncIn feeds the binding the externally-owned location state: the raw
// path captures and the raw query string.
//
// The recomputed value is adopted only when it differs from the current
// value AND no local edit is pending (the current value still equals its
// last-synced snapshot and no propagation timer is armed). Adoption updates
// both current and snapshot, so externally-driven changes never echo back
// out through the sink.
func (b *Binding) SyncIn(rawParams map[string]any, rawQuery string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.rawParams = rawParams
	b.rawQuery = rawQuery

	res := b.gen.Generate(context.Background(), b.address, rawParams, search.Decode(rawQuery))
	newParams := asMap(res.Params)
	newSearch := asMap(res.SearchParams)

	changed := !reflect.DeepEqual(newParams, b.currentParams) ||
		!reflect.DeepEqual(newSearch, b.currentSearch)
	pendingEdit := b.timer != nil ||
		!reflect.DeepEqual(b.currentParams, b.previousParams) ||
		!reflect.DeepEqual(b.currentSearch, b.previousSearch)

	if changed && !pendingEdit {
		b.currentParams = newParams
		b.currentSearch = newSearch
		b.previousParams = newParams
		b.previousSearch = newSearch
		b.url = res.URL
	}
}

// UpdateParams merges a partial update against the raw external base
// values, regenerates, stores the result as the current state and schedules
// propagation. The generation result is returned so callers can inspect
// validation failures.
func (b *Binding) UpdateParams(update urlgen.Update) urlgen.Result {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		return urlgen.Result{Address: b.address}
	}

	res := b.gen.MergeAndGenerate(context.Background(), b.address, b.rawParams, b.rawQuery, update)

	b.currentParams = asMap(res.Params)
	b.currentSearch = asMap(res.SearchParams)

	// Sync-out: snapshot the new state, supersede any pending timer and
	// schedule propagation of the regenerated URL.
	b.previousParams = b.currentParams
	b.previousSearch = b.currentSearch
	b.url = res.URL

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	url := b.url
	if b.delay > 0 {
		var t *time.Timer
		t = time.AfterFunc(b.delay, func() {
			b.fireTimer(t, url)
		})
		b.timer = t
		b.mu.Unlock()
		return res
	}

	b.mu.Unlock()
	b.propagate(url)
	return res
}

// fireTimer runs when a debounce timer elapses. A timer that has been
// superseded or cancelled by Close drops its propagation.
func (b *Binding) fireTimer(t *time.Timer, url string) {
	b.mu.Lock()
	if b.closed || b.timer != t {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.mu.Unlock()

	b.propagate(url)
}

// propagate hands a URL to the navigation sink.
func (b *Binding) propagate(url string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	sink := b.navigate
	action := b.action
	b.mu.Unlock()

	if sink == nil {
		return
	}
	// Refuse to hand absolute or root-escaping URLs to the sink.
	safe, err := routepath.ValidateNavURL(url)
	if err != nil {
		return
	}
	sink(safe, action)
}

// Current returns the current parameter and search state.
func (b *Binding) Current() (params, searchParams map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentParams, b.currentSearch
}

// URL returns the most recently generated URL.
func (b *Binding) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url
}

// Close detaches the binding: any pending propagation timer is cancelled
// and no propagation fires afterwards. Close is idempotent.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// asMap narrows a generation result field to the map form the binding
// stores. Typed validated values keep their map projection here; the typed
// value remains available on the returned Result.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
