package continuation

import (
	"fmt"
	"strings"

	"github.com/raaf-ai/raaf-sub009/format"
)

// markupTailLines is how many trailing lines of context a markup
// continuation prompt carries.
const markupTailLines = 5

// ContinuationPrompt builds the follow-up prompt for a truncated
// generation. The prompt is format-aware and carries only the trailing
// context needed to resume correctly, never the full accumulated text:
// per-request payload size stays independent of total accumulated length.
//
// Every prompt instructs the model to resume raw content only: no restated
// headers, no wrapper commentary.
func ContinuationPrompt(outputFormat OutputFormat, accumulated string) string {
	resolved := outputFormat
	if resolved == FormatAuto {
		switch format.Detect(accumulated).Format {
		case format.FormatJSON:
			resolved = FormatJSON
		case format.FormatTabular:
			resolved = FormatTabular
		case format.FormatMarkup:
			resolved = FormatMarkup
		default:
			// Plain text: last-lines context is the best we can do.
			resolved = FormatMarkup
		}
	}

	switch resolved {
	case FormatTabular:
		return tabularContinuationPrompt(accumulated)
	case FormatJSON:
		return jsonContinuationPrompt(accumulated)
	default:
		return markupContinuationPrompt(accumulated)
	}
}

func tabularContinuationPrompt(accumulated string) string {
	var sb strings.Builder
	sb.WriteString("Your previous response was cut off before the table was complete.\n")

	fragment, incomplete := tabularTail(accumulated)
	if incomplete && fragment != "" {
		fmt.Fprintf(&sb,
			"The last row was cut off mid-way. It currently reads:\n%s\n"+
				"Continue from exactly that point, finishing the interrupted row first.\n",
			fragment)
	} else if fragment != "" {
		fmt.Fprintf(&sb,
			"The last complete row was:\n%s\n"+
				"Continue with the next row.\n",
			fragment)
	}

	sb.WriteString(
		"Output raw rows only. Do not repeat the header row, " +
			"do not add commentary, do not restart the table.")
	return sb.String()
}

func markupContinuationPrompt(accumulated string) string {
	var sb strings.Builder
	sb.WriteString("Your previous response was cut off before it was complete.\n")

	tail := lastLines(accumulated, markupTailLines)
	if tail != "" {
		fmt.Fprintf(&sb,
			"It currently ends with:\n%s\n"+
				"Continue from exactly that point, preserving any open table, "+
				"list numbering, or code fence.\n",
			tail)
	}

	sb.WriteString(
		"Output raw continuation content only. Do not repeat headings or " +
			"table headers, do not add commentary.")
	return sb.String()
}

func jsonContinuationPrompt(accumulated string) string {
	var sb strings.Builder
	sb.WriteString("Your previous JSON response was cut off before it was complete.\n")

	if path := jsonOpenPath(accumulated); path != "" {
		fmt.Fprintf(&sb,
			"Generation stopped inside the structure at path %s.\n", path)
	}

	sb.WriteString(
		"Continue the JSON from exactly where it stopped. Output raw JSON " +
			"continuation only: no opening bracket, no markdown fences, no " +
			"commentary. The continuation will be appended verbatim to the " +
			"previous output.")
	return sb.String()
}

// tabularTail returns the trailing (possibly incomplete) row of
// delimiter-separated content. incomplete is true when the row was cut off
// mid-way: unbalanced quotes, no terminating newline, or a trailing field
// separator with no following value.
func tabularTail(content string) (fragment string, incomplete bool) {
	if content == "" {
		return "", false
	}

	// Find the start of the trailing row: the last newline at which quote
	// state is balanced. A newline inside an open quoted field belongs to
	// the row, not between rows.
	inQuotes := false
	rowStart := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				rowStart = i + 1
			}
		}
	}

	fragment = strings.TrimRight(content[rowStart:], "\r")
	if inQuotes {
		return fragment, true
	}
	if fragment != "" {
		// No terminating newline: the row may have been cut off anywhere.
		return fragment, true
	}

	// Content ends with a clean newline. Report the last complete row as
	// resume context.
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	last := lines[len(lines)-1]
	if strings.HasSuffix(last, ",") || strings.HasSuffix(last, "|") {
		return last, true
	}
	return last, false
}

// lastLines returns up to n trailing lines of content.
func lastLines(content string, n int) string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// nextStructuralByte returns the first non-whitespace byte at or after
// pos, or 0 when none remains.
func nextStructuralByte(s string, pos int) byte {
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

// jsonOpenPath returns the deepest open bracket/brace path of the
// accumulated JSON, rendered like $["results"][3]. Empty when the content
// is structurally closed.
func jsonOpenPath(content string) string {
	type frame struct {
		object bool
		key    string
		index  int
	}

	var stack []frame
	inString := false
	escaped := false
	var literal strings.Builder
	pendingKey := ""

	for i := 0; i < len(content); i++ {
		c := content[i]
		if inString {
			if escaped {
				escaped = false
				literal.WriteByte(c)
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
				// Only a string followed by ':' is an object key.
				if nextStructuralByte(content, i+1) == ':' {
					pendingKey = literal.String()
				}
			default:
				literal.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			literal.Reset()
		case '{':
			stack = append(stack, frame{object: true, key: pendingKey})
			pendingKey = ""
		case '[':
			stack = append(stack, frame{object: false, key: pendingKey})
			pendingKey = ""
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 && !stack[len(stack)-1].object {
				stack[len(stack)-1].index++
			}
		}
	}

	if len(stack) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteByte('$')
	for _, f := range stack {
		if f.key != "" {
			fmt.Fprintf(&sb, "[%q]", f.key)
		}
		if !f.object {
			fmt.Fprintf(&sb, "[%d]", f.index)
		}
	}
	return sb.String()
}
