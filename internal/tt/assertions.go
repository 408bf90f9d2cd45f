package tt

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	continuation "github.com/raaf-ai/raaf-sub009"
)

// -----------------------------------------------------------------------------
// Text Assertions
// -----------------------------------------------------------------------------

// AssertTextEqual compares merged output against the expected text and
// prints a unified diff on mismatch. Plain assert.Equal is unreadable
// for multi-line tabular or markup output.
func AssertTextEqual(t *testing.T, expected, actual string, msgAndArgs ...any) bool {
	t.Helper()
	if expected == actual {
		return true
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return assert.Equal(t, expected, actual, msgAndArgs...)
	}
	t.Errorf("text mismatch:\n%s", diff)
	return false
}

// AssertChunkInvariants checks the structural invariants every finished
// session must hold regardless of outcome.
func AssertChunkInvariants(t *testing.T, session *continuation.Session, maxAttempts int) {
	t.Helper()
	chunks := session.Chunks()
	assert.LessOrEqual(t, session.Attempts(), maxAttempts,
		"attempt count must never exceed the configured maximum")
	assert.LessOrEqual(t, len(chunks), session.Attempts(),
		"each chunk corresponds to an attempt that returned a response")
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index, "chunk indices must be sequential")
		assert.Equal(t, len(chunk.Content), chunk.ByteSize)
	}
}
