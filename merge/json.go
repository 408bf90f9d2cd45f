package merge

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// JSON merges a JSON document (array or object) split at arbitrary
// character offsets.
//
// Chunks are concatenated in order; because a truncated generation is cut
// mid-stream, the boundary between two chunks is usually the middle of a
// token and plain concatenation restores it. After concatenation a
// tolerant repair pass trims any dangling token at the very end back to
// the last safe structural boundary, removes the trailing comma that
// leaves behind, and balances unclosed brackets and braces. One final
// strict parse decides success; intermediate chunk validation is
// deliberately relaxed.
type JSON struct {
	schema *jsonschema.Schema
}

// NewJSON creates a JSON merger.
func NewJSON() *JSON {
	return &JSON{}
}

// WithSchema adds schema validation of the merged document after the
// final strict parse. A document that parses but fails validation is a
// partial success: the content is kept, Success is false.
// Returns the merger for chaining.
func (j *JSON) WithSchema(schema *jsonschema.Schema) *JSON {
	j.schema = schema
	return j
}

// Strategy implements [Merger].
func (*JSON) Strategy() Strategy {
	return StrategyJSON
}

// Merge implements [Merger]. A hard error is returned when the content
// does not open with { or [, or when even the repaired document fails the
// strict parse.
func (j *JSON) Merge(chunks []string) (*Result, error) {
	raw := strings.TrimSpace(stripFences(strings.Join(chunks, "")))
	if raw == "" {
		return nil, ErrNoContent
	}
	if raw[0] != '{' && raw[0] != '[' {
		return nil, &Error{ChunkIndex: 0, Message: "content does not open a JSON object or array"}
	}

	repaired := repairJSON(raw)

	var value any
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, &Error{
			ChunkIndex: len(chunks) - 1,
			Message:    "strict parse failed after repair: " + err.Error(),
		}
	}

	if j.schema != nil {
		if err := j.schema.Validate(value); err != nil {
			return &Result{
				Content:       repaired,
				Success:       false,
				FallbackLevel: LevelFormat,
				Err: &Error{
					ChunkIndex: len(chunks) - 1,
					Message:    "merged document failed schema validation: " + err.Error(),
				},
			}, nil
		}
	}

	return &Result{
		Content:       repaired,
		Success:       true,
		FallbackLevel: LevelFormat,
	}, nil
}

// stripFences removes a markdown code fence wrapping the document, a
// common decoration on model output.
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	body := trimmed
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		return s
	}
	body = strings.TrimSuffix(strings.TrimRight(body, " \t\n"), "```")
	return body
}

// repairJSON makes the accumulated text structurally parseable: it trims
// a dangling token at the end back to the last safe structural boundary,
// drops the separators and half-written key that may leave, and closes
// any brackets still open. Trailing commas before closers elsewhere in
// the document are removed as well.
func repairJSON(raw string) string {
	cleaned := removeTrailingCommas(raw)

	inString := false
	escaped := false
	lastSafe := 0

	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				lastSafe = i + 1
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[', '}', ']':
			lastSafe = i + 1
		case ',':
			// The value before a comma was complete; cut before the comma
			// so no dangling separator survives trimming.
			lastSafe = i
		case ':', ' ', '\t', '\n', '\r':
		default:
			// Inside a number/true/false/null literal. The literal is
			// only known complete once a structural char follows, so
			// lastSafe stays where it is.
		}
	}

	repaired := cleaned
	if inString || danglingLiteral(cleaned, lastSafe) {
		repaired = cleaned[:lastSafe]
	}
	repaired = trimDanglingTail(repaired)

	for _, closer := range openClosers(repaired) {
		repaired += string(closer)
	}
	return repaired
}

// danglingLiteral reports whether the text after the last safe boundary
// ends in an unterminated bare literal (number, true, false, null). A
// truncated number cannot be told apart from a complete one ("12" may be
// "123"), so a trailing number inside an open structure is always
// trimmed: the element can be re-requested, a corrupted element cannot be
// detected. Complete keywords are safe and kept.
func danglingLiteral(s string, lastSafe int) bool {
	tail := strings.TrimLeft(s[lastSafe:], ",: \t\n\r")
	tail = strings.TrimRight(tail, " \t\n\r")
	if tail == "" {
		return false
	}
	if len(openClosers(s)) == 0 {
		// Balanced document ending in a literal: a complete scalar.
		return false
	}
	switch tail {
	case "true", "false", "null":
		return false
	}
	return true
}

// trimDanglingTail normalizes the cut end: removes a trailing colon and
// the half-written object key before it, a bare key left without its
// colon, and any trailing comma, so that appending closers yields valid
// syntax.
func trimDanglingTail(s string) string {
	for {
		s = strings.TrimRight(s, " \t\n\r")
		if s == "" {
			return s
		}

		if strings.HasSuffix(s, ":") {
			s = trimTrailingString(strings.TrimRight(s[:len(s)-1], " \t\n\r"))
			continue
		}

		closers := openClosers(s)
		if strings.HasSuffix(s, `"`) && len(closers) > 0 && closers[0] == '}' {
			// A string at the cut end of an open object: a key is only a
			// key when no colon precedes the string, otherwise it is a
			// complete member value and must stay.
			before := strings.TrimRight(trimTrailingString(s), " \t\n\r")
			if !strings.HasSuffix(before, ":") {
				s = before
				continue
			}
		}

		if strings.HasSuffix(s, ",") {
			s = s[:len(s)-1]
			continue
		}
		return s
	}
}

// trimTrailingString removes a complete string literal from the end of s.
// Returns s unchanged when it does not end with one.
func trimTrailingString(s string) string {
	if !strings.HasSuffix(s, `"`) {
		return s
	}
	// Forward scan to find where the final string token starts; backward
	// scanning cannot handle escape sequences reliably.
	inString := false
	escaped := false
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
				if i == len(s)-1 {
					return s[:start]
				}
			}
			continue
		}
		if c == '"' {
			inString = true
			start = i
		}
	}
	return s
}

// openClosers returns the closing brackets needed to balance s, innermost
// last.
func openClosers(s string) []byte {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}
	// Close innermost first.
	reversed := make([]byte, len(stack))
	for i, c := range stack {
		reversed[len(stack)-1-i] = c
	}
	return reversed
}

// removeTrailingCommas drops commas that directly precede a closing
// bracket or brace, outside string literals.
func removeTrailingCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inString := false
	escaped := false

	// A comma and the whitespace after it are held back until the next
	// structural byte decides whether they survive.
	held := ""

	flush := func() {
		sb.WriteString(held)
		held = ""
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			sb.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			flush()
			sb.WriteByte(c)
		case ',':
			flush()
			held = ","
		case ' ', '\t', '\n', '\r':
			if held != "" {
				held += string(c)
			} else {
				sb.WriteByte(c)
			}
		case '}', ']':
			held = ""
			sb.WriteByte(c)
		default:
			flush()
			sb.WriteByte(c)
		}
	}
	flush()
	return sb.String()
}
