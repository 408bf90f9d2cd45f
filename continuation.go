// Package continuation detects length-truncated LLM completions,
// transparently re-requests the remaining content in bounded increments,
// and reassembles the accumulated fragments into one syntactically valid
// document in the caller's target format.
//
// # Overview
//
// A single logical request flows through four stages:
//
//  1. [Controller] issues the initial completion via the [Provider]
//     collaborator and classifies the response's stop reason.
//  2. While the response is length-truncated and attempts remain, the
//     controller sends a format-aware continuation prompt, carrying the
//     provider-issued continuation token instead of replaying history.
//  3. The accumulated chunks go to the merge package: a format-specific
//     merger stitches them into one document, degrading through a
//     fallback chain when that fails.
//  4. A [Metadata] record with per-chunk statistics is returned alongside
//     the merged content.
//
// [Run] drives all four stages in one call:
//
//	config := continuation.DefaultConfig()
//	config.OutputFormat = continuation.FormatTabular
//
//	result, err := continuation.Run(ctx, provider, config, &continuation.CompletionRequest{
//	    Model:  "gpt-4o",
//	    Prompt: "List all orders as CSV.",
//	})
//
// # Failure Behavior
//
// Provider-level failures always propagate as a [ContinuationError]:
// there is no content to degrade to. Merge-level failures are recovered
// locally through the fallback chain; whether the degraded result is
// returned or raised is governed by [Config.OnFailure]. With
// [OnFailureReturnPartial] (the default) callers never receive an error
// for merge failures; the Metadata's ErrorClass and MergeError fields
// signal degradation instead.
package continuation

import (
	"context"
	"errors"

	"github.com/raaf-ai/raaf-sub009/format"
	"github.com/raaf-ai/raaf-sub009/merge"
)

// Result is the final outcome of one logical request.
type Result struct {
	// Content is the merged document. Possibly partial, never empty when
	// the session produced any content.
	Content string

	// Metadata is the derived statistics record.
	Metadata *Metadata

	// Session is the completed continuation session, for callers that
	// need chunk-level access.
	Session *Session
}

// Run executes one logical request end to end: continuation loop, merger
// selection, merge with fallback, and metadata assembly.
//
// The config is validated before any request is issued. An optional
// EventSink can be supplied as the final argument; pass nothing for no
// diagnostics.
func Run(ctx context.Context, provider Provider, config Config, req *CompletionRequest, sinks ...EventSink) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var sink EventSink = NopSink{}
	if len(sinks) > 0 && sinks[0] != nil {
		sink = sinks[0]
	}

	session, err := NewController(provider, config).WithSink(sink).Run(ctx, req)
	if err != nil {
		// Provider errors always propagate; there is no content to
		// degrade to.
		return nil, err
	}

	recorder := NewRecorder(req.Model)
	for _, chunk := range session.Chunks() {
		recorder.Observe(chunk)
	}

	strategy, detection := resolveStrategy(config, session.Content())
	merger, ok := merge.ForStrategy(strategy)
	if !ok {
		// Unreachable for validated configs; kept as a guard for direct
		// misuse.
		merger, _ = merge.ForStrategy(merge.StrategyConcat)
		strategy = merge.StrategyConcat
	}
	sink.Emit(&MergeSelectedEvent{
		Strategy:       string(strategy),
		Explicit:       detection.Format == "",
		DetectedFormat: string(detection.Format),
		Confidence:     detection.Confidence,
	})

	mergeResult, err := merge.Chain(merger, session.ChunkContents(), func(level int, cause error) {
		sink.Emit(&FallbackEvent{Level: level, Cause: cause})
	})
	if err != nil {
		if errors.Is(err, merge.ErrFallbackExhausted) || errors.Is(err, merge.ErrNoContent) {
			return nil, &ContinuationError{
				Kind:       KindFallbackExhausted,
				ChunkIndex: -1,
				Format:     config.OutputFormat,
				Strategy:   string(strategy),
				Err:        err,
			}
		}
		return nil, err
	}
	mergeResult = merge.BuildPartial(mergeResult, session.ChunkContents())

	metadata := recorder.Finalize(config.OutputFormat, strategy, mergeResult)
	result := &Result{
		Content:  mergeResult.Content,
		Metadata: metadata,
		Session:  session,
	}

	if !mergeResult.Success && config.OnFailure == OnFailureRaiseError {
		chunkIndex := -1
		if mergeResult.Err != nil {
			chunkIndex = mergeResult.Err.ChunkIndex
		}
		return result, &ContinuationError{
			Kind:       KindMergeFailed,
			ChunkIndex: chunkIndex,
			Format:     config.OutputFormat,
			Strategy:   string(strategy),
			Err:        mergeResult.Err,
		}
	}
	return result, nil
}

// resolveStrategy picks the merge strategy: an explicit MergeStrategy
// override wins, then an explicit (non-auto) OutputFormat, then format
// detection on the accumulated content. The returned detection is
// zero-valued when detection was skipped.
func resolveStrategy(config Config, content string) (merge.Strategy, format.Detection) {
	if config.MergeStrategy != "" {
		return merge.Strategy(config.MergeStrategy), format.Detection{}
	}
	switch config.OutputFormat {
	case FormatTabular:
		return merge.StrategyTabular, format.Detection{}
	case FormatMarkup:
		return merge.StrategyMarkup, format.Detection{}
	case FormatJSON:
		return merge.StrategyJSON, format.Detection{}
	}

	merger, detection, _ := merge.Select("", content)
	return merger.Strategy(), detection
}
