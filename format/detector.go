package format

import "strings"

// Format identifies a detected content format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatTabular Format = "tabular"
	FormatMarkup  Format = "markup"

	// FormatGeneric means no candidate reached the confidence threshold.
	FormatGeneric Format = "generic"
)

// MinConfidence is the threshold below which detection yields
// [FormatGeneric].
const MinConfidence = 0.5

// Detection is the result of format detection.
type Detection struct {
	// Format is the best-matching format, or [FormatGeneric].
	Format Format

	// Confidence is the strength of the match in [0,1]. Zero for
	// [FormatGeneric].
	Confidence float64
}

// Detect scores content against the candidate formats and returns the
// highest-scoring one above [MinConfidence]. Ties break deterministically
// in the order json > tabular > markup: candidates are compared with
// strict >, so an earlier format wins an exact tie.
func Detect(content string) Detection {
	best := Detection{Format: FormatGeneric, Confidence: 0}

	candidates := []Detection{
		{Format: FormatJSON, Confidence: scoreJSON(content)},
		{Format: FormatTabular, Confidence: scoreTabular(content)},
		{Format: FormatMarkup, Confidence: scoreMarkup(content)},
	}
	for _, candidate := range candidates {
		if candidate.Confidence > best.Confidence {
			best = candidate
		}
	}

	if best.Confidence < MinConfidence {
		return Detection{Format: FormatGeneric, Confidence: 0}
	}
	return best
}

// scoreJSON scores content that opens (after whitespace) with { or [.
// Balanced brackets give 1.0; partial or broken brackets reduce the score
// proportionally to bracket balance, bottoming out at the 0.9 base that
// an opening bracket alone earns.
func scoreJSON(content string) float64 {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return 0
	}

	opened, closed := 0, 0
	inString := false
	escaped := false
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
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
		case '{', '[':
			opened++
		case '}', ']':
			closed++
		}
	}

	balance := 0.0
	if opened > 0 {
		balance = float64(closed) / float64(opened)
		if balance > 1 {
			balance = 1
		}
	}
	return 0.9 + 0.1*balance
}

// scoreTabular scores delimiter-consistent content: it picks the
// delimiter (comma or pipe) producing the most consistent multi-field
// line structure, and returns the fraction of lines matching the dominant
// column count. Requires at least two lines and two columns, so a header
// row can be inferred.
func scoreTabular(content string) float64 {
	lines := nonEmptyLines(content)
	if len(lines) < 2 {
		return 0
	}

	best := 0.0
	for _, delimiter := range []string{",", "|"} {
		counts := make(map[int]int)
		for _, line := range lines {
			fields := strings.Count(line, delimiter) + 1
			counts[fields]++
		}

		dominant, dominantLines := 0, 0
		for fields, n := range counts {
			if n > dominantLines || (n == dominantLines && fields > dominant) {
				dominant, dominantLines = fields, n
			}
		}
		if dominant < 2 {
			continue
		}
		// Header inference: the first line must share the dominant count.
		if strings.Count(lines[0], delimiter)+1 != dominant {
			continue
		}

		fraction := float64(dominantLines) / float64(len(lines))
		if fraction > best {
			best = fraction
		}
	}
	return best
}

// scoreMarkup scores markdown marker density: headers, fenced code
// blocks, pipe-delimited table rows, and list items.
func scoreMarkup(content string) float64 {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return 0
	}

	markers := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "```"),
			strings.HasPrefix(trimmed, "|"),
			strings.HasPrefix(trimmed, "- "),
			strings.HasPrefix(trimmed, "* "),
			isOrderedListItem(trimmed):
			markers++
		}
	}

	density := float64(markers) / float64(len(lines))
	score := density * 1.5
	if score > 1 {
		score = 1
	}
	return score
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isOrderedListItem(line string) bool {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' '
}
