package continuation

import "strings"

// Chunk is one ordered fragment of raw text produced by a single
// completion call. Chunks are never mutated after creation.
type Chunk struct {
	// Index is the 0-based arrival order within the session.
	Index int

	// Content is the raw generated text.
	Content string

	// StopReason is the provider-reported stop reason for this fragment.
	StopReason StopReason

	// Classification is the handling category assigned to StopReason.
	Classification Classification

	// Usage contains normalized token counts for the call that produced
	// this chunk.
	Usage Usage

	// ByteSize is len(Content) in bytes.
	ByteSize int
}

// State is the controller's position in the continuation state machine.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateClassifying State = "classifying"
	StateContinuing  State = "continuing"

	// StateDone is terminal: the loop ended with a non-truncated chunk.
	StateDone State = "done"

	// StateExhausted is terminal: the attempt bound was reached while the
	// last chunk was still length-truncated. Not itself an error; the
	// merge step decides success based on assembled validity.
	StateExhausted State = "exhausted"

	// StateFailed is terminal: the provider reported an error.
	StateFailed State = "failed"
)

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateDone || s == StateExhausted || s == StateFailed
}

// Session owns the ordered chunk list, the attempt count, and the
// provider-issued continuation token for one logical request. A session is
// created when a request begins and discarded once a merge result is
// produced.
//
// Sessions share no state with each other; concurrent sessions are fully
// independent. Within a session, execution is sequential: each
// continuation depends on the previous response's token.
type Session struct {
	chunks   []Chunk
	attempts int
	token    string
	state    State
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Chunks returns the accumulated chunks in arrival order. The returned
// slice is a copy; the session's own list is append-only.
func (s *Session) Chunks() []Chunk {
	out := make([]Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// ChunkContents returns just the raw text of each chunk, in order.
func (s *Session) ChunkContents() []string {
	out := make([]string, len(s.chunks))
	for i, chunk := range s.chunks {
		out[i] = chunk.Content
	}
	return out
}

// Content returns the raw accumulated text of all chunks, concatenated in
// arrival order with no reconciliation. Used for format detection and
// continuation prompt construction, not as merge output.
func (s *Session) Content() string {
	var sb strings.Builder
	for _, chunk := range s.chunks {
		sb.WriteString(chunk.Content)
	}
	return sb.String()
}

// Attempts returns the number of completion requests issued so far.
func (s *Session) Attempts() int {
	return s.attempts
}

// ContinuationCount returns the number of follow-up requests issued after
// the initial one.
func (s *Session) ContinuationCount() int {
	if len(s.chunks) == 0 {
		return 0
	}
	return len(s.chunks) - 1
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// ContinuationToken returns the most recent provider-issued token, if any.
func (s *Session) ContinuationToken() string {
	return s.token
}

// append records a completed call. Returns the new chunk.
func (s *Session) append(resp *CompletionResponse) Chunk {
	chunk := Chunk{
		Index:          len(s.chunks),
		Content:        resp.Content,
		StopReason:     resp.StopReason,
		Classification: Classify(resp.StopReason),
		Usage:          resp.Usage,
		ByteSize:       len(resp.Content),
	}
	s.chunks = append(s.chunks, chunk)
	s.token = resp.ContinuationToken
	return chunk
}
