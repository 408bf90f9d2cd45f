package continuation

import "github.com/raaf-ai/raaf-sub009/merge"

// Metadata is the read-only record attached to a final response. It is
// derived from the session's chunks and the merge outcome; the invariant
// len(ChunkSizes) == len(StopReasons) == ContinuationCount+1 always holds
// for a session that produced at least one chunk.
type Metadata struct {
	// WasContinued is true when at least one follow-up request was issued.
	WasContinued bool `json:"was_continued"`

	// ContinuationCount is the number of follow-up requests issued after
	// the initial one.
	ContinuationCount int `json:"continuation_count"`

	// OutputFormat echoes the configured output format ("tabular",
	// "markup", "json", or "auto"). For auto sessions the strategy the
	// detector resolved to is in MergeStrategyUsed.
	OutputFormat string `json:"output_format"`

	// ChunkSizes holds each chunk's content size in bytes, arrival order.
	ChunkSizes []int `json:"chunk_sizes"`

	// TruncationPoints holds the cumulative byte offsets at which
	// generation was cut off, one per length-truncated chunk.
	TruncationPoints []int `json:"truncation_points"`

	// StopReasons holds each chunk's stop reason, arrival order. An
	// absent reason is recorded as "unknown" rather than silently folded
	// into "stop".
	StopReasons []string `json:"stop_reasons"`

	// MergeStrategyUsed is the strategy of the merger that ran.
	MergeStrategyUsed string `json:"merge_strategy_used"`

	// MergeSuccess is true when the merger produced a fully valid
	// document without degradation.
	MergeSuccess bool `json:"merge_success"`

	// TotalOutputTokens sums output tokens across all chunks.
	TotalOutputTokens int `json:"total_output_tokens"`

	// TotalCostEstimate is the estimated USD cost of the whole session,
	// summed per chunk against the static pricing table.
	TotalCostEstimate float64 `json:"total_cost_estimate"`

	// ErrorClass, MergeError, and IncompleteAfter are set only when
	// MergeSuccess is false.
	ErrorClass      string `json:"error_class,omitempty"`
	MergeError      string `json:"merge_error,omitempty"`
	IncompleteAfter *int   `json:"incomplete_after,omitempty"`
}

// Recorder accumulates per-chunk statistics into a single [Metadata]
// record. One recorder serves one session.
type Recorder struct {
	model            string
	chunkSizes       []int
	truncationPoints []int
	stopReasons      []string
	totalOutput      int
	totalCost        float64
	cumulativeBytes  int
}

// NewRecorder creates a recorder. The model name keys the pricing table
// for cost estimation.
func NewRecorder(model string) *Recorder {
	return &Recorder{model: model}
}

// Observe records one chunk's statistics.
func (r *Recorder) Observe(chunk Chunk) {
	r.chunkSizes = append(r.chunkSizes, chunk.ByteSize)
	r.cumulativeBytes += chunk.ByteSize

	reason := string(chunk.StopReason)
	if chunk.StopReason == StopReasonUnset {
		reason = "unknown"
	}
	r.stopReasons = append(r.stopReasons, reason)

	if chunk.Classification == LengthTruncated {
		r.truncationPoints = append(r.truncationPoints, r.cumulativeBytes)
	}

	r.totalOutput += chunk.Usage.OutputTokens
	r.totalCost += EstimateCost(r.model, chunk.Usage)
}

// Finalize builds the metadata record from the observed chunks and the
// merge outcome. outputFormat is the format that drove merging.
func (r *Recorder) Finalize(outputFormat OutputFormat, strategy merge.Strategy, result *merge.Result) *Metadata {
	meta := &Metadata{
		WasContinued:      len(r.chunkSizes) > 1,
		ContinuationCount: max(len(r.chunkSizes)-1, 0),
		OutputFormat:      string(outputFormat),
		ChunkSizes:        r.chunkSizes,
		TruncationPoints:  r.truncationPoints,
		StopReasons:       r.stopReasons,
		MergeStrategyUsed: string(strategy),
		TotalOutputTokens: r.totalOutput,
		TotalCostEstimate: r.totalCost,
	}

	if result == nil {
		return meta
	}

	meta.MergeSuccess = result.Success
	if !result.Success {
		meta.ErrorClass = string(KindMergeFailed)
		if result.Err != nil {
			meta.MergeError = result.Err.Message
			index := result.Err.ChunkIndex
			meta.IncompleteAfter = &index
		}
	}
	return meta
}
