package merge

import "strings"

// Concat is the generic merger: it joins the chunks' raw text in order
// with no structural validation. It is selected directly when format
// detection yields no confident match, and serves as fallback level 1
// when a format merger fails.
type Concat struct{}

// Strategy implements [Merger].
func (Concat) Strategy() Strategy {
	return StrategyConcat
}

// Merge implements [Merger]. Fails only when every chunk is empty.
func (Concat) Merge(chunks []string) (*Result, error) {
	content := strings.Join(chunks, "")
	if content == "" {
		return nil, ErrNoContent
	}
	return &Result{
		Content:       content,
		Success:       true,
		FallbackLevel: LevelConcat,
	}, nil
}

// FirstChunk is the maximal-safety best-effort: only the first chunk is
// kept. It cannot fail on non-empty input.
func FirstChunk(chunks []string) (*Result, error) {
	if len(chunks) == 0 {
		return nil, ErrNoContent
	}
	return &Result{
		Content:       chunks[0],
		Success:       true,
		FallbackLevel: LevelFirstChunk,
	}, nil
}
