package continuation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raaf-ai/raaf-sub009/merge"
)

func observeAll(r *Recorder, chunks []Chunk) {
	for _, chunk := range chunks {
		r.Observe(chunk)
	}
}

func TestRecorder_Finalize(t *testing.T) {
	chunks := []Chunk{
		{
			Index: 0, Content: "id,name\n1,Al", ByteSize: 12,
			StopReason: StopReasonLength, Classification: LengthTruncated,
			Usage: Usage{InputTokens: 100, OutputTokens: 50},
		},
		{
			Index: 1, Content: "ice\n2,Bob\n", ByteSize: 10,
			StopReason: StopReasonStop, Classification: Complete,
			Usage: Usage{InputTokens: 120, OutputTokens: 30},
		},
	}

	recorder := NewRecorder("gpt-4o")
	observeAll(recorder, chunks)
	meta := recorder.Finalize(FormatTabular, merge.StrategyTabular, &merge.Result{
		Content: "id,name\n1,Alice\n2,Bob\n",
		Success: true,
	})

	assert.True(t, meta.WasContinued)
	assert.Equal(t, 1, meta.ContinuationCount)
	assert.Equal(t, "tabular", meta.OutputFormat)
	assert.Equal(t, []int{12, 10}, meta.ChunkSizes)
	assert.Equal(t, []int{12}, meta.TruncationPoints, "cumulative offset of the cut")
	assert.Equal(t, []string{"length", "stop"}, meta.StopReasons)
	assert.Equal(t, "tabular", meta.MergeStrategyUsed)
	assert.True(t, meta.MergeSuccess)
	assert.Equal(t, 80, meta.TotalOutputTokens)
	assert.Greater(t, meta.TotalCostEstimate, 0.0)

	// The structural invariant linking the per-chunk slices.
	assert.Len(t, meta.ChunkSizes, meta.ContinuationCount+1)
	assert.Len(t, meta.StopReasons, meta.ContinuationCount+1)
	assert.Empty(t, meta.ErrorClass)
	assert.Nil(t, meta.IncompleteAfter)
}

func TestRecorder_Finalize_MergeFailure(t *testing.T) {
	recorder := NewRecorder("test-model")
	observeAll(recorder, []Chunk{
		{Index: 0, Content: "abc", ByteSize: 3, StopReason: StopReasonLength, Classification: LengthTruncated},
		{Index: 1, Content: "def", ByteSize: 3, StopReason: StopReasonStop, Classification: Complete},
	})

	meta := recorder.Finalize(FormatJSON, merge.StrategyJSON, &merge.Result{
		Content: "abc",
		Success: false,
		Err:     &merge.Error{ChunkIndex: 1, Message: "strict parse failed"},
	})

	assert.False(t, meta.MergeSuccess)
	assert.Equal(t, "merge_failed", meta.ErrorClass)
	assert.Equal(t, "strict parse failed", meta.MergeError)
	require.NotNil(t, meta.IncompleteAfter)
	assert.Equal(t, 1, *meta.IncompleteAfter)
}

func TestRecorder_UnsetStopReasonRecordedAsUnknown(t *testing.T) {
	recorder := NewRecorder("test-model")
	recorder.Observe(Chunk{Index: 0, Content: "x", ByteSize: 1, StopReason: StopReasonUnset, Classification: Unknown})

	meta := recorder.Finalize(FormatAuto, merge.StrategyConcat, &merge.Result{Content: "x", Success: true})
	assert.Equal(t, []string{"unknown"}, meta.StopReasons)
	assert.False(t, meta.WasContinued)
	assert.Equal(t, 0, meta.ContinuationCount)
}

func TestMetadata_JSONShape(t *testing.T) {
	recorder := NewRecorder("test-model")
	recorder.Observe(Chunk{Index: 0, Content: "x", ByteSize: 1, StopReason: StopReasonStop, Classification: Complete})
	meta := recorder.Finalize(FormatAuto, merge.StrategyConcat, &merge.Result{Content: "x", Success: true})

	raw, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"was_continued", "continuation_count", "output_format",
		"chunk_sizes", "truncation_points", "stop_reasons",
		"merge_strategy_used", "merge_success",
		"total_output_tokens", "total_cost_estimate",
	} {
		assert.Contains(t, decoded, key)
	}
	// Failure-only fields stay absent on success.
	assert.NotContains(t, decoded, "error_class")
	assert.NotContains(t, decoded, "merge_error")
	assert.NotContains(t, decoded, "incomplete_after")
}
