package merge

import (
	"errors"
	"fmt"

	"github.com/raaf-ai/raaf-sub009/format"
)

// ErrNoContent is returned when there is nothing to merge: no chunks, or
// every chunk empty.
var ErrNoContent = errors.New("merge: no content to merge")

// Strategy identifies a merger variant. The set is closed: every valid
// strategy has an entry in the static dispatch table, and selection never
// falls through to a default on an unrecognized name.
type Strategy string

const (
	StrategyTabular Strategy = "tabular"
	StrategyMarkup  Strategy = "markup"
	StrategyJSON    Strategy = "json"

	// StrategyConcat is the generic merger: plain concatenation, no
	// structural validation.
	StrategyConcat Strategy = "concat"
)

// Fallback levels recorded on a [Result].
const (
	// LevelFormat means the format-specific merger produced the content.
	LevelFormat = 0

	// LevelConcat means naive concatenation produced the content.
	LevelConcat = 1

	// LevelFirstChunk means only the first chunk was kept.
	LevelFirstChunk = 2
)

// Error is a structured merge failure: what went wrong and at which chunk.
type Error struct {
	// ChunkIndex is the 0-based index of the chunk where assembly stopped.
	ChunkIndex int

	// Message describes the failure.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("merge: %s (chunk %d)", e.Message, e.ChunkIndex)
}

// Result is the outcome of a merge.
type Result struct {
	// Content is the assembled document. Possibly partial, never dropped
	// below what was merged before a failure point.
	Content string

	// Success is true when the merger produced a fully valid document.
	Success bool

	// FallbackLevel records which level produced Content: [LevelFormat],
	// [LevelConcat], or [LevelFirstChunk].
	FallbackLevel int

	// Err describes the failure when Success is false.
	Err *Error
}

// Merger stitches ordered chunks into one document.
//
// Merge returns a [Result] even on partial success (Success false,
// already-merged content kept). It returns a non-nil error only on hard
// failure, which callers degrade through [Chain].
type Merger interface {
	// Strategy returns the merger's dispatch identity.
	Strategy() Strategy

	// Merge assembles the chunks in order.
	Merge(chunks []string) (*Result, error)
}

// dispatch is the closed strategy table. Adding a format means adding a
// Strategy constant and an explicit entry here.
var dispatch = map[Strategy]func() Merger{
	StrategyTabular: func() Merger { return NewTabular() },
	StrategyMarkup:  func() Merger { return NewMarkup() },
	StrategyJSON:    func() Merger { return NewJSON() },
	StrategyConcat:  func() Merger { return Concat{} },
}

// ForStrategy returns a fresh merger for the strategy. ok is false for
// unknown strategies; there is no silent fallback.
func ForStrategy(strategy Strategy) (Merger, bool) {
	constructor, ok := dispatch[strategy]
	if !ok {
		return nil, false
	}
	return constructor(), true
}

// FromFormat maps a detected format to its merge strategy.
// [format.FormatGeneric] maps to [StrategyConcat].
func FromFormat(f format.Format) Strategy {
	switch f {
	case format.FormatJSON:
		return StrategyJSON
	case format.FormatTabular:
		return StrategyTabular
	case format.FormatMarkup:
		return StrategyMarkup
	default:
		return StrategyConcat
	}
}

// Select is the merger factory. An explicit strategy wins unconditionally.
// Otherwise the content is run through format detection and the matching
// merger is selected; below the detection threshold the generic
// concatenation merger is used. The returned Detection records what the
// detector saw (zero-valued when detection was skipped), for diagnostics.
func Select(explicit Strategy, content string) (Merger, format.Detection, error) {
	if explicit != "" {
		merger, ok := ForStrategy(explicit)
		if !ok {
			return nil, format.Detection{}, fmt.Errorf("merge: unknown strategy %q", explicit)
		}
		return merger, format.Detection{}, nil
	}

	detection := format.Detect(content)
	merger, _ := ForStrategy(FromFormat(detection.Format))
	return merger, detection, nil
}
