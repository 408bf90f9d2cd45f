package continuation

// -----------------------------------------------------------------------------
// Diagnostic Events
// -----------------------------------------------------------------------------

// Event is a marker interface for all diagnostic events emitted during a
// session. Events carry observability data only; they never influence
// control flow.
type Event interface {
	continuationEvent()
}

// EventSink receives diagnostic events. Sinks are passed explicitly into
// components rather than installed globally, so sessions remain
// independently testable. Emit is called from a single goroutine per
// session.
type EventSink interface {
	Emit(event Event)
}

// NopSink discards all events. Used when no sink is configured.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// -----------------------------------------------------------------------------
// Controller Events
// -----------------------------------------------------------------------------

// RequestIssuedEvent is emitted before each completion request.
type RequestIssuedEvent struct {
	// Attempt is the 1-based attempt number within the session.
	Attempt int

	// Continuation is true for follow-up requests (attempt > 1).
	Continuation bool

	// UsingToken is true when the request carries a provider continuation
	// token instead of replayed conversation history.
	UsingToken bool
}

func (RequestIssuedEvent) continuationEvent() {}

// ChunkReceivedEvent is emitted after each completed call.
type ChunkReceivedEvent struct {
	// Index is the chunk's 0-based arrival index.
	Index int

	// ByteSize is the chunk's content size in bytes.
	ByteSize int

	// StopReason is the provider-reported stop reason.
	StopReason StopReason

	// OutputTokens is the call's output token count.
	OutputTokens int
}

func (ChunkReceivedEvent) continuationEvent() {}

// ClassifiedEvent is emitted after a chunk's stop reason is classified.
type ClassifiedEvent struct {
	// Index is the chunk's 0-based arrival index.
	Index int

	// Classification is the assigned handling category.
	Classification Classification
}

func (ClassifiedEvent) continuationEvent() {}

// WarningEvent is emitted for warning-level classifications
// (content_filter, incomplete).
type WarningEvent struct {
	// Index is the chunk's 0-based arrival index.
	Index int

	// Classification is the warning classification.
	Classification Classification

	// Message is a human-readable diagnostic.
	Message string
}

func (WarningEvent) continuationEvent() {}

// ExhaustedEvent is emitted when the attempt bound is reached while the
// last chunk is still length-truncated.
type ExhaustedEvent struct {
	// Attempts is the number of requests issued.
	Attempts int
}

func (ExhaustedEvent) continuationEvent() {}

// -----------------------------------------------------------------------------
// Merge Events
// -----------------------------------------------------------------------------

// MergeSelectedEvent is emitted when a merge strategy is chosen.
type MergeSelectedEvent struct {
	// Strategy is the selected merge strategy name.
	Strategy string

	// Explicit is true when the strategy came from configuration rather
	// than detection.
	Explicit bool

	// DetectedFormat is the detector's verdict (empty when detection was
	// skipped).
	DetectedFormat string

	// Confidence is the detector's confidence in [0,1] (0 when detection
	// was skipped).
	Confidence float64
}

func (MergeSelectedEvent) continuationEvent() {}

// FallbackEvent is emitted when a merger fails and a fallback level is
// invoked.
type FallbackEvent struct {
	// Level is the fallback level that produced output (1 = concatenation,
	// 2 = first chunk only).
	Level int

	// Cause is the merge error that triggered degradation.
	Cause error
}

func (FallbackEvent) continuationEvent() {}
