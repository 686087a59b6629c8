// Package report provides the error taxonomy used by the editing engine.
//
// Engine operations never return these errors to the interaction path; they
// are handed to a Handler and the editing surface stays usable.
package report

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfiguration indicates a source or callback name that could not be resolved.
	KindConfiguration
	// KindType indicates an item type that cannot be constructed.
	KindType
	// KindRejected indicates a guard predicate refused the operation.
	KindRejected
	// KindBackend indicates the proxy refused a mutation its guards allowed.
	KindBackend
	// KindInvariant indicates the collection count disagrees with the mutation just performed.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindType:
		return "type"
	case KindRejected:
		return "rejected"
	case KindBackend:
		return "backend"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

var (
	// ErrUnresolved is returned when no resolver strategy matches a name.
	ErrUnresolved = errors.New("source could not be resolved")
	// ErrNotCreatable is returned when an item type has no usable zero value.
	ErrNotCreatable = errors.New("type is not creatable")
	// ErrAddFailed is reported when AddItem returns false.
	ErrAddFailed = errors.New("add rejected by backend")
	// ErrCountMismatch is reported when a mutation leaves an unexpected count.
	ErrCountMismatch = errors.New("item count does not match mutation")
)

// Error is a structured engine error.
type Error struct {
	// Op is the operation that failed (e.g. "field.Add").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Field names the editing field, if known.
	Field string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s [%s] field=%s: %v", e.Op, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error.
func New(op string, kind Kind, field string, err error) *Error {
	return &Error{Op: op, Kind: kind, Field: field, Err: err}
}

// Configuration wraps a resolution failure for a named source.
func Configuration(op, field, name string, err error) *Error {
	return New(op, KindConfiguration, field, fmt.Errorf("%q: %w", name, err))
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
