package continuation

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("continuation: invalid configuration")

// ErrorKind identifies the failure class carried by a [ContinuationError].
type ErrorKind string

const (
	// KindProviderError wraps a failure reported by the Provider collaborator.
	// These always propagate to the caller: there is no content to degrade to.
	KindProviderError ErrorKind = "provider_error"

	// KindMergeFailed indicates the selected merger could not produce a fully
	// valid document. Only surfaced as an error when [OnFailureRaiseError]
	// is configured; otherwise the partial result is returned with error
	// metadata instead.
	KindMergeFailed ErrorKind = "merge_failed"

	// KindFallbackExhausted indicates every fallback level failed. This can
	// only happen when the session accumulated no non-empty content.
	KindFallbackExhausted ErrorKind = "fallback_exhausted"
)

// ContinuationError is the structured error surfaced by this package.
//
// It carries enough context to diagnose which chunk, format, and merge
// strategy were in play when the failure occurred.
type ContinuationError struct {
	// Kind is the failure class.
	Kind ErrorKind

	// ChunkIndex is the 0-based index of the chunk involved in the failure,
	// or -1 when no chunk is implicated.
	ChunkIndex int

	// Format is the output format that was attempted.
	Format OutputFormat

	// Strategy is the merge strategy that was in use, if any.
	Strategy string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ContinuationError) Error() string {
	msg := fmt.Sprintf("continuation: %s", e.Kind)
	if e.Strategy != "" {
		msg += fmt.Sprintf(" (strategy=%s)", e.Strategy)
	}
	if e.ChunkIndex >= 0 {
		msg += fmt.Sprintf(" (chunk=%d)", e.ChunkIndex)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContinuationError) Unwrap() error {
	return e.Err
}
