// Package models provides Provider implementations backed by real LLM
// client libraries.
package models

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"

	continuation "github.com/raaf-ai/raaf-sub009"
)

// LCGProvider adapts a LangChainGo llms.Model to the
// [continuation.Provider] contract. It normalizes token usage across
// providers and maps native finish reasons to the wire stop reasons this
// package classifies.
//
// LangChainGo models are stateless per call, so each continuation request
// is sent as a standalone prompt; the continuation token is carried
// through unchanged for backends that expose one in their generation
// info, and ignored otherwise.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	provider := models.NewLCGProvider(llm)
//	result, err := continuation.Run(ctx, provider, config, req)
type LCGProvider struct {
	model llms.Model
}

// NewLCGProvider creates an LCGProvider wrapping the given llms.Model.
func NewLCGProvider(model llms.Model) *LCGProvider {
	return &LCGProvider{model: model}
}

// Unwrap returns the underlying llms.Model.
func (p *LCGProvider) Unwrap() llms.Model {
	return p.model
}

// Complete implements [continuation.Provider].
func (p *LCGProvider) Complete(
	ctx context.Context,
	req *continuation.CompletionRequest,
) (*continuation.CompletionResponse, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	var options []llms.CallOption
	if req.Model != "" {
		options = append(options, llms.WithModel(req.Model))
	}

	lcgResponse, err := p.model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return nil, err
	}
	if len(lcgResponse.Choices) == 0 {
		return &continuation.CompletionResponse{
			StopReason: continuation.StopReasonUnset,
		}, nil
	}

	choice := lcgResponse.Choices[0]
	response := &continuation.CompletionResponse{
		Content:    choice.Content,
		StopReason: normalizeStopReason(choice.StopReason),
	}

	if choice.GenerationInfo != nil {
		info := choice.GenerationInfo
		response.Usage = continuation.Usage{
			InputTokens:  extractInputTokens(info),
			OutputTokens: extractOutputTokens(info),
		}
		response.Usage.TotalTokens = extractTotalTokens(
			info, response.Usage.InputTokens, response.Usage.OutputTokens)
		if id, ok := info["ResponseID"].(string); ok {
			response.ContinuationToken = id
		}
	}
	return response, nil
}

// normalizeStopReason folds provider-native finish reasons into the wire
// stop reasons. OpenAI-compatible backends already use the wire values;
// Anthropic-style reasons are mapped.
func normalizeStopReason(reason string) continuation.StopReason {
	switch strings.ToLower(reason) {
	case "stop", "end_turn", "stop_sequence":
		return continuation.StopReasonStop
	case "length", "max_tokens":
		return continuation.StopReasonLength
	case "tool_calls", "tool_use", "function_call":
		return continuation.StopReasonToolCalls
	case "content_filter":
		return continuation.StopReasonContentFilter
	case "incomplete":
		return continuation.StopReasonIncomplete
	case "error":
		return continuation.StopReasonError
	case "":
		return continuation.StopReasonUnset
	default:
		return continuation.StopReason(reason)
	}
}

// extractInputTokens extracts input/prompt token count from
// GenerationInfo. Different providers report under different keys.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	return getIntFromMap(info, "input_tokens")
}

// extractOutputTokens extracts output/completion token count from
// GenerationInfo.
func extractOutputTokens(info map[string]any) int {
	// OpenAI / Ollama
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	return getIntFromMap(info, "output_tokens")
}

// extractTotalTokens extracts total token count or computes it.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

// getIntFromMap extracts an int value from a map, handling the numeric
// types providers put there.
func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}
