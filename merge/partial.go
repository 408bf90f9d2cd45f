package merge

// BuildPartial finalizes a merge outcome into the result handed to the
// caller. The returned result always has the best available content:
// content already merged before a failure point is never dropped, and a
// failed result with no content at all degrades to the first chunk.
//
// The failing chunk index on Err is preserved so callers can annotate
// where assembly stopped.
func BuildPartial(result *Result, chunks []string) *Result {
	if result == nil {
		first, err := FirstChunk(chunks)
		if err != nil {
			return &Result{
				Success:       false,
				FallbackLevel: LevelFirstChunk,
				Err:           &Error{ChunkIndex: 0, Message: "no content accumulated"},
			}
		}
		first.Success = false
		first.Err = &Error{ChunkIndex: 0, Message: "no merge result produced"}
		return first
	}

	if result.Content == "" && !result.Success {
		if first, err := FirstChunk(chunks); err == nil && first.Content != "" {
			return &Result{
				Content:       first.Content,
				Success:       false,
				FallbackLevel: LevelFirstChunk,
				Err:           result.Err,
			}
		}
	}
	return result
}
