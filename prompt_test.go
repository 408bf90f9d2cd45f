package continuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinuationPrompt_Tabular(t *testing.T) {
	t.Run("interrupted row quoted back", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatTabular, "id,name\n1,Alice\n2,Bo")
		assert.Contains(t, prompt, "cut off mid-way")
		assert.Contains(t, prompt, "2,Bo")
		assert.Contains(t, prompt, "Do not repeat the header row")
	})

	t.Run("clean break names the last complete row", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatTabular, "id,name\n1,Alice\n")
		assert.Contains(t, prompt, "last complete row")
		assert.Contains(t, prompt, "1,Alice")
	})

	t.Run("open quoted field counts as interrupted", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatTabular, "id,notes\n1,\"half a note")
		assert.Contains(t, prompt, "cut off mid-way")
	})

	t.Run("trailing delimiter counts as interrupted", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatTabular, "id,name\n2,\n")
		assert.Contains(t, prompt, "cut off mid-way")
	})
}

func TestContinuationPrompt_Markup(t *testing.T) {
	accumulated := "# Title\n\nline one\nline two\nline three\nline four\nline five\nline six"
	prompt := ContinuationPrompt(FormatMarkup, accumulated)

	// Only the trailing context is carried, never the whole document.
	assert.NotContains(t, prompt, "# Title")
	assert.Contains(t, prompt, "line six")
	assert.Contains(t, prompt, "open table")
}

func TestContinuationPrompt_JSON(t *testing.T) {
	t.Run("open path reported", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatJSON, `{"results": [{"id": 1}, {"id": 2}, {"na`)
		assert.Contains(t, prompt, `$["results"][2]`)
		assert.Contains(t, prompt, "no opening bracket")
	})

	t.Run("closed document omits path", func(t *testing.T) {
		prompt := ContinuationPrompt(FormatJSON, `{"done": true}`)
		assert.NotContains(t, prompt, "$[")
	})
}

func TestContinuationPrompt_AutoResolvesFormat(t *testing.T) {
	tabular := ContinuationPrompt(FormatAuto, "id,name\n1,Alice\n2,Bo")
	assert.Contains(t, tabular, "Do not repeat the header row")

	jsonPrompt := ContinuationPrompt(FormatAuto, `{"items": [1, 2,`)
	assert.Contains(t, jsonPrompt, "JSON")

	prose := ContinuationPrompt(FormatAuto, "Some plain prose that goes on.")
	assert.Contains(t, prose, "Continue from exactly that point")
}

func TestJSONOpenPath(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "nested object key",
			content:  `{"a": {"b": [1, 2`,
			expected: `$["a"]["b"][1]`,
		},
		{
			name:     "array of objects",
			content:  `[{"x": 1}, {"y"`,
			expected: `$[1]`,
		},
		{
			name:     "string value is not a key",
			content:  `{"tags": ["red", "gre`,
			expected: `$["tags"][1]`,
		},
		{
			name:     "balanced document",
			content:  `{"a": 1}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, jsonOpenPath(tt.content))
		})
	}
}

func TestTabularTail(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		fragment   string
		incomplete bool
	}{
		{
			name:       "mid row cut",
			content:    "id,name\n2,Bo",
			fragment:   "2,Bo",
			incomplete: true,
		},
		{
			name:       "clean newline",
			content:    "id,name\n1,Alice\n",
			fragment:   "1,Alice",
			incomplete: false,
		},
		{
			name:       "open quote spans newline",
			content:    "id,notes\n1,\"line one\nline t",
			fragment:   "1,\"line one\nline t",
			incomplete: true,
		},
		{
			name:       "empty content",
			content:    "",
			fragment:   "",
			incomplete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragment, incomplete := tabularTail(tt.content)
			assert.Equal(t, tt.fragment, fragment)
			assert.Equal(t, tt.incomplete, incomplete)
		})
	}
}
