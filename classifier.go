package continuation

// StopReason is a provider-reported stop reason as it appears on the wire.
// Providers normalize their native finish reasons to these values.
type StopReason string

const (
	// StopReasonStop means the model finished naturally.
	StopReasonStop StopReason = "stop"

	// StopReasonLength means generation hit the maximum output length and
	// was cut off mid-content.
	StopReasonLength StopReason = "length"

	// StopReasonToolCalls means the model stopped to request tool calls.
	StopReasonToolCalls StopReason = "tool_calls"

	// StopReasonContentFilter means the provider's content filter ended
	// the generation.
	StopReasonContentFilter StopReason = "content_filter"

	// StopReasonIncomplete means the provider reported an incomplete
	// response that may be resumable via the continuation token.
	StopReasonIncomplete StopReason = "incomplete"

	// StopReasonError means the provider reported a generation error.
	StopReasonError StopReason = "error"

	// StopReasonUnset is the absence of a stop reason. Treated as a
	// best-effort completion but recorded distinctly for observability.
	StopReasonUnset StopReason = ""
)

// Classification is the handling category assigned to a chunk's stop
// reason. Exactly one classification is assigned per chunk.
type Classification int

const (
	// Complete ends the loop successfully.
	Complete Classification = iota

	// LengthTruncated triggers a continuation request if attempts remain.
	// This is the only classification that causes the controller to loop.
	LengthTruncated

	// ToolCallPending ends the loop; tool-call handling belongs to the
	// caller's orchestration layer, not this package.
	ToolCallPending

	// ContentFiltered ends the loop with a warning diagnostic; the content
	// is treated as complete-with-caveat.
	ContentFiltered

	// Incomplete ends the loop with a warning diagnostic recommending a
	// retry that carries the continuation token.
	Incomplete

	// ProviderError ends the loop and surfaces as a [ContinuationError].
	ProviderError

	// Unknown is an absent stop reason: treated as Complete, but recorded
	// distinctly in metadata.
	Unknown
)

var classificationNames = map[Classification]string{
	Complete:        "complete",
	LengthTruncated: "length_truncated",
	ToolCallPending: "tool_call_pending",
	ContentFiltered: "content_filtered",
	Incomplete:      "incomplete",
	ProviderError:   "provider_error",
	Unknown:         "unknown",
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "invalid"
}

// NeedsContinuation reports whether this classification causes the
// controller to issue another request (attempts permitting).
func (c Classification) NeedsContinuation() bool {
	return c == LengthTruncated
}

// IsWarning reports whether this classification emits a warning-level
// diagnostic while still ending the loop as complete-with-caveat.
func (c Classification) IsWarning() bool {
	return c == ContentFiltered || c == Incomplete
}

// IsError reports whether this classification is terminal with an error.
func (c Classification) IsError() bool {
	return c == ProviderError
}

// Classify maps a provider stop reason to its handling category.
// Unrecognized non-empty reasons classify as Unknown, the same best-effort
// handling as an absent reason.
func Classify(reason StopReason) Classification {
	switch reason {
	case StopReasonStop:
		return Complete
	case StopReasonLength:
		return LengthTruncated
	case StopReasonToolCalls:
		return ToolCallPending
	case StopReasonContentFilter:
		return ContentFiltered
	case StopReasonIncomplete:
		return Incomplete
	case StopReasonError:
		return ProviderError
	default:
		return Unknown
	}
}
