package merge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFallbackExhausted is returned when every fallback level failed,
// which only happens when the session accumulated no chunks at all.
var ErrFallbackExhausted = errors.New("merge: all fallback levels failed")

// Chain runs the three-level degrade path:
//
//	level 0: the format-specific merger itself
//	level 1: naive concatenation of all chunks' raw text
//	level 2: first chunk only
//
// The first level that succeeds wins. Results produced by a fallback
// level keep Success false and carry the original merge failure in Err,
// so callers can tell degraded output from a clean merge. The onFallback
// callback, when non-nil, is invoked with the level that produced output
// and the error that caused degradation.
//
// Chain returns an error only when all three levels fail.
func Chain(merger Merger, chunks []string, onFallback func(level int, cause error)) (*Result, error) {
	result, err := merger.Merge(chunks)
	if err == nil {
		return result, nil
	}
	cause := err

	// Level 1: concatenation, if it yields any content.
	if content := strings.Join(chunks, ""); content != "" {
		if onFallback != nil {
			onFallback(LevelConcat, cause)
		}
		return &Result{
			Content:       content,
			Success:       false,
			FallbackLevel: LevelConcat,
			Err:           asMergeError(cause, chunks),
		}, nil
	}

	// Level 2: first chunk, even an empty one, as long as a chunk exists.
	if len(chunks) > 0 {
		if onFallback != nil {
			onFallback(LevelFirstChunk, cause)
		}
		return &Result{
			Content:       chunks[0],
			Success:       false,
			FallbackLevel: LevelFirstChunk,
			Err:           asMergeError(cause, chunks),
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrFallbackExhausted, cause)
}

// asMergeError coerces a merger failure into a structured [Error].
func asMergeError(err error, chunks []string) *Error {
	var mergeErr *Error
	if errors.As(err, &mergeErr) {
		return mergeErr
	}
	index := len(chunks) - 1
	if index < 0 {
		index = 0
	}
	return &Error{ChunkIndex: index, Message: err.Error()}
}
