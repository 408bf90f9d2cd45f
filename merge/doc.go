// Package merge reassembles the ordered chunks of a continuation session
// into one syntactically valid document.
//
// # Overview
//
// A [Merger] implements one format-specific stitching algorithm:
//
//   - [Tabular]: delimiter-separated rows, reconciling rows split across
//     chunk boundaries and stripping repeated header rows
//   - [Markup]: markdown, carrying code-fence state, table column counts,
//     and list numbering across chunk boundaries
//   - [JSON]: bracket-aware concatenation with a tolerant repair pass and
//     one final strict parse
//   - [Concat]: plain concatenation with no structural validation
//
// Mergers form a closed set: [Select] and [ForStrategy] dispatch through
// a static table keyed by [Strategy], so adding a format requires an
// explicit new case rather than silently falling back on a typo.
//
// # Failure Handling
//
// A merger distinguishes two failure shapes. Partial success (some rows
// or sections merged before an irrecoverable boundary) returns a
// [Result] with Success false and the already-merged content intact.
// A hard failure (nothing mergeable at all) returns an error, which
// [Chain] degrades through the fallback levels: raw concatenation, then
// first chunk only.
package merge
