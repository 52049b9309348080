// Package validate defines the validator protocol the URL engine depends
// on, plus adapters for common validation styles.
//
// A Validator is a single-operation capability: it receives a raw value and
// returns either a validated (possibly coerced) value or a list of issues.
// The engine is agnostic to which library sits behind that operation; see
// Fields for declarative per-key specs and Struct for tag-based struct
// validation.
//
// Validation is synchronous by contract. A validator that advertises or
// produces a deferred outcome is a programming error, not a recoverable
// failure, and makes Run panic.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAsyncValidation is the panic value raised when a validator attempts
// asynchronous validation.
var ErrAsyncValidation = errors.New("validate: asynchronous validation is not supported")

// Issue describes one validation failure.
type Issue struct {
	// Path locates the failing value within the input (empty for the root).
	Path []string

	// Message is a human-readable description of the failure.
	Message string
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return strings.Join(i.Path, ".") + ": " + i.Message
}

// Outcome is the result of running a validator: either a value or issues,
// never both.
type Outcome struct {
	// Value is the validated value when Issues is empty.
	Value any

	// Issues is non-empty when validation failed.
	Issues []Issue
}

// OK reports whether the outcome carries a validated value.
func (o Outcome) OK() bool {
	return len(o.Issues) == 0
}

// Valid builds a success outcome.
func Valid(value any) Outcome {
	return Outcome{Value: value}
}

// Invalid builds a failure outcome.
func Invalid(issues ...Issue) Outcome {
	return Outcome{Issues: issues}
}

// Invalidf builds a failure outcome with a single formatted issue at path.
func Invalidf(path []string, format string, args ...any) Outcome {
	return Invalid(Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validator is the sole contract the engine requires from a validation
// library.
type Validator interface {
	// Validate checks raw input and returns the outcome synchronously.
	Validate(input any) Outcome
}

// Func adapts a plain function to the Validator interface.
type Func func(input any) Outcome

// Validate implements Validator.
func (f Func) Validate(input any) Outcome {
	return f(input)
}

// AsyncValidator marks a validator that resolves outcomes asynchronously.
// The engine does not support these; Run panics when it encounters one so
// the misuse is caught during development rather than silently dropped.
type AsyncValidator interface {
	ValidateAsync(input any) <-chan Outcome
}

// Run applies v to raw. A nil validator passes the raw value through
// unchanged. Run panics with ErrAsyncValidation if v is an AsyncValidator
// or its outcome carries a deferred value.
func Run(v Validator, raw any) Outcome {
	if v == nil {
		return Valid(raw)
	}
	if _, ok := v.(AsyncValidator); ok {
		panic(ErrAsyncValidation)
	}

	out := v.Validate(raw)
	switch out.Value.(type) {
	case <-chan Outcome, chan Outcome:
		panic(ErrAsyncValidation)
	}
	return out
}
