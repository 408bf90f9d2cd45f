package continuation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	continuation "github.com/raaf-ai/raaf-sub009"
	"github.com/raaf-ai/raaf-sub009/internal/tt"
)

func TestRun_TabularEndToEnd(t *testing.T) {
	provider := tt.NewScriptedProvider().
		AddChunk("id,name\n1,Al", continuation.StopReasonLength).
		AddChunk("ice\n2,Bob\n", continuation.StopReasonStop)
	sink := tt.NewCollectorSink()

	config := continuation.DefaultConfig()
	config.OutputFormat = continuation.FormatTabular

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "list orders"}, sink)

	require.NoError(t, err)
	tt.AssertTextEqual(t, "id,name\n1,Alice\n2,Bob\n", result.Content)

	meta := result.Metadata
	assert.True(t, meta.WasContinued)
	assert.Equal(t, 1, meta.ContinuationCount)
	assert.Equal(t, []int{12, 10}, meta.ChunkSizes)
	assert.Equal(t, []string{"length", "stop"}, meta.StopReasons)
	assert.Equal(t, "tabular", meta.MergeStrategyUsed)
	assert.True(t, meta.MergeSuccess)
	assert.Greater(t, meta.TotalCostEstimate, 0.0)

	counts := tt.CountEventTypes(sink.Events())
	assert.Equal(t, 2, counts["RequestIssuedEvent"])
	assert.Equal(t, 1, counts["MergeSelectedEvent"])
	assert.Zero(t, counts["FallbackEvent"])
}

func TestRun_AutoDetectionSelectsJSON(t *testing.T) {
	provider := tt.NewScriptedProvider().
		AddChunk(`[{"id": 1}, {"id`, continuation.StopReasonLength).
		AddChunk(`": 2}]`, continuation.StopReasonStop)
	sink := tt.NewCollectorSink()

	result, err := continuation.Run(context.Background(), provider,
		continuation.DefaultConfig(),
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"}, sink)

	require.NoError(t, err)
	assert.Equal(t, `[{"id": 1}, {"id": 2}]`, result.Content)
	assert.Equal(t, "json", result.Metadata.MergeStrategyUsed)
	assert.Equal(t, "auto", result.Metadata.OutputFormat)

	var selected *continuation.MergeSelectedEvent
	for _, event := range sink.Events() {
		if e, ok := event.(*continuation.MergeSelectedEvent); ok {
			selected = e
		}
	}
	require.NotNil(t, selected)
	assert.False(t, selected.Explicit)
	assert.Equal(t, "json", selected.DetectedFormat)
	assert.GreaterOrEqual(t, selected.Confidence, 0.9)
}

func TestRun_SingleAttemptNoContinuation(t *testing.T) {
	provider := tt.NewScriptedProvider().
		AddChunk("complete prose answer", continuation.StopReasonStop)

	result, err := continuation.Run(context.Background(), provider,
		continuation.DefaultConfig(),
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	require.NoError(t, err)
	assert.Equal(t, "complete prose answer", result.Content)
	assert.False(t, result.Metadata.WasContinued)
	assert.Equal(t, 0, result.Metadata.ContinuationCount)
	assert.Empty(t, result.Metadata.TruncationPoints)
}

func TestRun_ExhaustionMergesWhatArrived(t *testing.T) {
	provider := tt.NewScriptedProvider().
		AddChunk("id,name\n1,Alice\n", continuation.StopReasonLength).
		AddChunk("2,Bob\n", continuation.StopReasonLength)

	config := continuation.DefaultConfig()
	config.MaxAttempts = 2
	config.OutputFormat = continuation.FormatTabular

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	require.NoError(t, err, "exhaustion is not an error when the merge succeeds")
	assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", result.Content)
	assert.Equal(t, continuation.StateExhausted, result.Session.State())
	assert.Equal(t, []int{16, 22}, result.Metadata.TruncationPoints)
	assert.True(t, result.Metadata.MergeSuccess)
}

func TestRun_MergeStrategyOverride(t *testing.T) {
	config := continuation.DefaultConfig()
	config.MergeStrategy = "concat"

	provider := tt.NewScriptedProvider().
		AddChunk(`{"looks": "like json"}`, continuation.StopReasonStop)

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	require.NoError(t, err)
	assert.Equal(t, "concat", result.Metadata.MergeStrategyUsed)
}

func TestRun_ReturnPartialOnMergeFailure(t *testing.T) {
	// The second chunk restarts the table with a different column count,
	// which the tabular merger reports as a partial success.
	provider := tt.NewScriptedProvider().
		AddChunk("id,name\n1,Alice\n", continuation.StopReasonLength).
		AddChunk("2,Bob,extra\n", continuation.StopReasonStop)

	config := continuation.DefaultConfig()
	config.OutputFormat = continuation.FormatTabular

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	require.NoError(t, err, "return_partial never surfaces merge failures as errors")
	assert.Equal(t, "id,name\n1,Alice\n", result.Content)
	assert.False(t, result.Metadata.MergeSuccess)
	assert.Equal(t, "merge_failed", result.Metadata.ErrorClass)
	require.NotNil(t, result.Metadata.IncompleteAfter)
	assert.Equal(t, 1, *result.Metadata.IncompleteAfter)
}

func TestRun_RaiseErrorOnMergeFailure(t *testing.T) {
	provider := tt.NewScriptedProvider().
		AddChunk("id,name\n1,Alice\n", continuation.StopReasonLength).
		AddChunk("2,Bob,extra\n", continuation.StopReasonStop)

	config := continuation.DefaultConfig()
	config.OutputFormat = continuation.FormatTabular
	config.OnFailure = continuation.OnFailureRaiseError

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	require.Error(t, err)
	var contErr *continuation.ContinuationError
	require.ErrorAs(t, err, &contErr)
	assert.Equal(t, continuation.KindMergeFailed, contErr.Kind)
	assert.Equal(t, 1, contErr.ChunkIndex)

	// The partial result is still returned alongside the error.
	require.NotNil(t, result)
	assert.Equal(t, "id,name\n1,Alice\n", result.Content)
}

func TestRun_FallbackToConcat(t *testing.T) {
	// Content forced through the JSON merger that is not JSON at all
	// fails hard and degrades to concatenation.
	provider := tt.NewScriptedProvider().
		AddChunk("not json ", continuation.StopReasonLength).
		AddChunk("at all", continuation.StopReasonStop)
	sink := tt.NewCollectorSink()

	config := continuation.DefaultConfig()
	config.OutputFormat = continuation.FormatJSON

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"}, sink)

	require.NoError(t, err)
	assert.Equal(t, "not json at all", result.Content)
	assert.False(t, result.Metadata.MergeSuccess)

	counts := tt.CountEventTypes(sink.Events())
	assert.Equal(t, 1, counts["FallbackEvent"])
}

func TestRun_ProviderErrorPropagates(t *testing.T) {
	transportErr := errors.New("boom")
	provider := tt.NewScriptedProvider().AddError(transportErr)

	result, err := continuation.Run(context.Background(), provider,
		continuation.DefaultConfig(),
		&continuation.CompletionRequest{Model: "gpt-4o", Prompt: "go"})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
}

func TestRun_InvalidConfigRejectedBeforeAnyRequest(t *testing.T) {
	provider := tt.NewScriptedProvider()

	config := continuation.DefaultConfig()
	config.MaxAttempts = 0

	result, err := continuation.Run(context.Background(), provider, config,
		&continuation.CompletionRequest{Prompt: "go"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, continuation.ErrInvalidConfig)
	assert.Zero(t, provider.CallCount())
}
