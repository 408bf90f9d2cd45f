package tt

import (
	"context"
	"fmt"

	continuation "github.com/raaf-ai/raaf-sub009"
)

// -----------------------------------------------------------------------------
// ScriptedProvider - implements continuation.Provider
// -----------------------------------------------------------------------------

// ScriptedProvider is a configurable mock that implements
// continuation.Provider. Responses are returned in the order queued.
type ScriptedProvider struct {
	responses []*continuation.CompletionResponse
	errors    []error
	callCount int

	// CapturedRequests stores a copy of every request passed to
	// Complete. Populated automatically on every call.
	CapturedRequests []continuation.CompletionRequest
}

// NewScriptedProvider creates a new ScriptedProvider with no queued
// responses. A call past the end of the queue returns an error.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{}
}

// AddChunk queues a response with the given content and stop reason and
// a fixed 10/5 token usage.
func (p *ScriptedProvider) AddChunk(
	content string,
	stopReason continuation.StopReason,
) *ScriptedProvider {
	return p.AddResponse(&continuation.CompletionResponse{
		Content:    content,
		StopReason: stopReason,
		Usage: continuation.Usage{
			InputTokens:  10,
			OutputTokens: 5,
			TotalTokens:  15,
		},
	})
}

// AddResponse queues a raw CompletionResponse. Use this when you need
// full control over usage or the continuation token.
func (p *ScriptedProvider) AddResponse(
	resp *continuation.CompletionResponse,
) *ScriptedProvider {
	p.responses = append(p.responses, resp)
	return p
}

// AddError queues an error for the next call.
func (p *ScriptedProvider) AddError(err error) *ScriptedProvider {
	for len(p.responses) <= len(p.errors) {
		p.responses = append(p.responses, nil)
	}
	p.errors = append(p.errors, err)
	return p
}

// CallCount returns the number of times Complete has been called.
func (p *ScriptedProvider) CallCount() int {
	return p.callCount
}

// Complete implements continuation.Provider.
func (p *ScriptedProvider) Complete(
	_ context.Context,
	req *continuation.CompletionRequest,
) (*continuation.CompletionResponse, error) {
	idx := p.callCount
	p.callCount++
	p.CapturedRequests = append(p.CapturedRequests, *req)

	if idx < len(p.errors) && p.errors[idx] != nil {
		return nil, p.errors[idx]
	}
	if idx >= len(p.responses) || p.responses[idx] == nil {
		return nil, fmt.Errorf("scripted provider: no response queued for call %d", idx)
	}
	return p.responses[idx], nil
}
