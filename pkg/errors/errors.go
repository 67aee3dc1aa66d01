// Package errors provides structured error handling for the list engine.
package errors

import (
	"fmt"
	"time"

	"github.com/go-drift/listkit/pkg/geometry"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindAdapter indicates a data source failure for a range. Retryable:
	// the range reverts to unloaded and is retried on the next visibility
	// pass.
	KindAdapter
	// KindConfig indicates an invalid configuration. Fatal at construction.
	KindConfig
	// KindIndex indicates a negative index or an index beyond a known
	// total, rejected synchronously with no state mutation.
	KindIndex
	// KindStale indicates a response for an abandoned or
	// generation-mismatched range. Discarded, reported for diagnostics only.
	KindStale
	// KindLifecycle indicates a method call on a destroyed engine.
	KindLifecycle
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindAdapter:
		return "adapter"
	case KindConfig:
		return "config"
	case KindIndex:
		return "index"
	case KindStale:
		return "stale"
	case KindLifecycle:
		return "lifecycle"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ListError represents a structured error in the list engine.
type ListError struct {
	// Op is the operation that failed (e.g. "loader.EnsureLoaded").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Range is the index range involved, if applicable.
	Range geometry.Range
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ListError) Error() string {
	if !e.Range.Empty() {
		return fmt.Sprintf("%s [%s] range=[%d,%d): %v", e.Op, e.Kind, e.Range.Start, e.Range.End, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// E builds a ListError for an operation.
func E(op string, kind Kind, err error) *ListError {
	return &ListError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// ERange builds a ListError carrying the affected index range.
func ERange(op string, kind Kind, err error, r geometry.Range) *ListError {
	return &ListError{Op: op, Kind: kind, Err: err, Range: r, Timestamp: time.Now()}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g. "engine.renderPass").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the list engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ListError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
