// Package format detects the structural format of accumulated LLM output.
//
// # Overview
//
// [Detect] scores content against three candidate formats and returns the
// best match with a confidence value in [0,1]:
//
//   - [FormatJSON]: content opening with { or [; confidence scales with
//     bracket balance
//   - [FormatTabular]: delimiter-separated lines (comma or pipe) with a
//     consistent column count; confidence scales with the fraction of
//     lines matching the dominant count
//   - [FormatMarkup]: markdown markers (headers, fenced code blocks,
//     pipe tables, lists); confidence scales with marker density
//
// Candidates are evaluated independently and compared. Below the
// [MinConfidence] threshold the result is [FormatGeneric] with confidence
// 0, which callers treat as "merge by plain concatenation".
//
// # Tie-Breaking
//
// When two formats score equally, the deterministic preference order is
// json > tabular > markup. The order is fixed so that selection never
// depends on map iteration or unstated heuristics.
package format
