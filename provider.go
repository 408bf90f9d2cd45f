package continuation

import "context"

// Provider is the single external collaborator this package consumes: it
// issues one completion request and returns a structured response.
//
// Implementations wrap an HTTP provider client (OpenAI/Anthropic-style) or
// a local model. See the models subpackage for a LangChainGo-backed
// implementation.
//
// Timeouts and retries on individual calls are the Provider's
// responsibility; failures surface to the controller as an error and are
// classified as provider errors (non-retryable by this package).
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is one completion call.
type CompletionRequest struct {
	// Model is the model identifier (see pricing.go for known models).
	Model string

	// Prompt is the prompt text. On continuation calls this is a
	// continuation-specific prompt containing only trailing context, not
	// the full accumulated content.
	Prompt string

	// ContinuationToken, when non-empty, references the provider-side state
	// of the previous response so prior conversation turns need not be
	// resent. Providers without continuation support ignore it.
	ContinuationToken string
}

// CompletionResponse is the structured result of one completion call.
type CompletionResponse struct {
	// Content is the raw generated text.
	Content string

	// StopReason is the provider-reported reason generation stopped.
	StopReason StopReason

	// ContinuationToken is the provider-issued handle for requesting a
	// follow-up without resending prior messages. Empty when the provider
	// does not support stateful continuation.
	ContinuationToken string

	// Usage contains normalized token counts for this call.
	Usage Usage
}

// Usage contains token counts normalized across providers, the same way
// different provider wire fields (PromptTokens/InputTokens/input_tokens,
// CompletionTokens/OutputTokens/output_tokens) are folded into one shape.
type Usage struct {
	// InputTokens is the number of input/prompt tokens used.
	InputTokens int

	// OutputTokens is the number of output/completion tokens generated.
	OutputTokens int

	// TotalTokens is the total token count. Computed as input + output
	// when the provider does not report it directly.
	TotalTokens int
}
