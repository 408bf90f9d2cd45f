package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkup_Merge(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		expected string
	}{
		{
			name: "table split across chunks without duplicate header",
			chunks: []string{
				"| id | name |\n|---|---|\n| 1 | Alice |\n",
				"| id | name |\n|---|---|\n| 2 | Bob |\n",
			},
			expected: "| id | name |\n|---|---|\n| 1 | Alice |\n| 2 | Bob |\n",
		},
		{
			name: "ordered list renumbered across restart",
			chunks: []string{
				"1. first\n2. second\n",
				"1. third\n2. fourth\n",
			},
			expected: "1. first\n2. second\n3. third\n4. fourth\n",
		},
		{
			name: "open code fence passes lines through verbatim",
			chunks: []string{
				"```go\nfunc main() {\n",
				"| not | a | table |\n}\n```\n",
			},
			expected: "```go\nfunc main() {\n| not | a | table |\n}\n```\n",
		},
		{
			name: "line split mid word is rejoined",
			chunks: []string{
				"# Repo",
				"rt\n\nDone.\n",
			},
			expected: "# Report\n\nDone.\n",
		},
		{
			name: "blank line ends table but not ordered list",
			chunks: []string{
				"1. first\n\n",
				"2. second\n",
			},
			expected: "1. first\n\n2. second\n",
		},
		{
			name: "headers and prose pass through",
			chunks: []string{
				"# Title\n\nSome prose.\n",
				"More prose.\n",
			},
			expected: "# Title\n\nSome prose.\nMore prose.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewMarkup().Merge(tt.chunks)
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, tt.expected, result.Content)
		})
	}
}

func TestMarkup_Merge_TableColumnMismatch(t *testing.T) {
	chunks := []string{
		"| id | name |\n|---|---|\n| 1 | Alice |\n",
		"| 2 | Bob | extra |\n",
	}

	result, err := NewMarkup().Merge(chunks)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Err)
	assert.Equal(t, 1, result.Err.ChunkIndex)
	assert.Equal(t, "| id | name |\n|---|---|\n| 1 | Alice |\n", result.Content)
}

func TestMarkup_Merge_RenumberingContinuesAfterHeader(t *testing.T) {
	// A restarted list after intervening prose starts a fresh sequence.
	chunks := []string{
		"1. alpha\n2. beta\n\nInterlude.\n\n1. gamma\n",
	}

	result, err := NewMarkup().Merge(chunks)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "1. alpha\n2. beta\n\nInterlude.\n\n1. gamma\n", result.Content)
}

func TestMarkup_Merge_NoContent(t *testing.T) {
	result, err := NewMarkup().Merge([]string{"", ""})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoContent)
}
