package merge

import (
	"fmt"
	"strconv"
	"strings"
)

// Markup merges markdown content by carrying three pieces of structural
// state across chunk boundaries: open code-fence parity, the active
// table's header and column count, and the active ordered list's last
// emitted index.
//
// While a fence is open, lines pass through verbatim and are never
// reinterpreted as markdown. A non-first chunk whose first row restates
// the active table's header has the duplicate dropped (separator row
// included). Table continuation rows must match the active column count;
// a mismatch terminates the confident-merge region, keeping everything
// merged before it. Ordered list items are renumbered to continue from
// the last emitted index instead of restarting.
type Markup struct{}

// NewMarkup creates a Markup merger.
func NewMarkup() *Markup {
	return &Markup{}
}

// Strategy implements [Merger].
func (*Markup) Strategy() Strategy {
	return StrategyMarkup
}

// markupState is the structural state carried across chunk boundaries.
type markupState struct {
	fenceOpen   bool
	tableActive bool
	tableHeader string
	tableCols   int
	listActive  bool
	listIndex   int

	// chunkStart marks the first content line of a new chunk, where a
	// restated table header may appear.
	chunkStart bool

	// skipSeparator drops the separator row following a dropped duplicate
	// header.
	skipSeparator bool

	out     []string
	failure *Error
}

// Merge implements [Merger]. Empty chunks are skipped. Lines split across
// chunk boundaries are rejoined before interpretation.
func (m *Markup) Merge(chunks []string) (*Result, error) {
	state := &markupState{}
	carry := ""
	sawContent := false
	endsWithNewline := false

	for chunkIndex, chunk := range chunks {
		if state.failure != nil {
			break
		}
		if chunk == "" {
			continue
		}
		sawContent = true
		endsWithNewline = strings.HasSuffix(chunk, "\n")

		text := carry + chunk
		carry = ""
		lines := strings.Split(text, "\n")
		if !endsWithNewline {
			carry = lines[len(lines)-1]
			lines = lines[:len(lines)-1]
		} else {
			// Split leaves a trailing empty element after the final \n.
			lines = lines[:len(lines)-1]
		}

		state.chunkStart = true
		for _, line := range lines {
			if state.failure != nil {
				break
			}
			state.processLine(line, chunkIndex)
		}
	}

	// Flush the final partial line.
	if state.failure == nil && carry != "" {
		state.chunkStart = false
		state.processLine(carry, len(chunks)-1)
		endsWithNewline = false
	}

	if !sawContent {
		return nil, ErrNoContent
	}

	content := strings.Join(state.out, "\n")
	if endsWithNewline && content != "" {
		content += "\n"
	}

	return &Result{
		Content:       content,
		Success:       state.failure == nil,
		FallbackLevel: LevelFormat,
		Err:           state.failure,
	}, nil
}

func (s *markupState) processLine(line string, chunkIndex int) {
	trimmed := strings.TrimSpace(line)
	isContent := trimmed != ""

	// Inside an open fence nothing is markdown until the fence closes.
	if s.fenceOpen {
		s.out = append(s.out, line)
		if strings.HasPrefix(trimmed, "```") {
			s.fenceOpen = false
		}
		if isContent {
			s.chunkStart = false
		}
		return
	}

	switch {
	case strings.HasPrefix(trimmed, "```"):
		s.fenceOpen = true
		s.tableActive = false
		s.listActive = false
		s.out = append(s.out, line)

	case isTableRow(trimmed):
		s.processTableRow(line, trimmed, chunkIndex)

	case isOrderedItem(trimmed):
		s.tableActive = false
		s.out = append(s.out, s.renumberItem(line))

	case trimmed == "":
		// Blank: ends a table, an ordered list survives it.
		s.tableActive = false
		s.out = append(s.out, line)
		return

	default:
		// Plain text, headers, unordered lists: ends table and list.
		s.tableActive = false
		s.listActive = false
		s.out = append(s.out, line)
	}

	if isContent {
		s.chunkStart = false
	}
}

func (s *markupState) processTableRow(line, trimmed string, chunkIndex int) {
	s.listActive = false
	cols := tableColumns(trimmed)

	if isSeparatorRow(trimmed) {
		if s.skipSeparator {
			s.skipSeparator = false
			return
		}
		s.out = append(s.out, line)
		return
	}

	if !s.tableActive {
		s.tableActive = true
		s.tableHeader = trimmed
		s.tableCols = cols
		s.out = append(s.out, line)
		return
	}

	if s.chunkStart && trimmed == s.tableHeader {
		// Restated header at a chunk boundary: drop it and its separator.
		s.skipSeparator = true
		return
	}

	if cols != s.tableCols {
		s.failure = &Error{
			ChunkIndex: chunkIndex,
			Message: fmt.Sprintf(
				"table row has %d columns, table has %d", cols, s.tableCols),
		}
		return
	}
	s.out = append(s.out, line)
}

// renumberItem rewrites an ordered list item so numbering continues from
// the last emitted index.
func (s *markupState) renumberItem(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	rest := strings.TrimLeft(line, " \t")

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	written, _ := strconv.Atoi(rest[:digits])

	if !s.listActive {
		s.listActive = true
		s.listIndex = written
		return line
	}
	s.listIndex++
	return indent + strconv.Itoa(s.listIndex) + rest[digits:]
}

func isTableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// isSeparatorRow matches a table header separator like |---|:---:|.
func isSeparatorRow(trimmed string) bool {
	if !isTableRow(trimmed) {
		return false
	}
	sawDash := false
	for _, r := range trimmed {
		switch r {
		case '|', ':', ' ', '\t':
		case '-':
			sawDash = true
		default:
			return false
		}
	}
	return sawDash
}

// tableColumns counts the cells of a pipe-delimited row.
func tableColumns(trimmed string) int {
	inner := strings.TrimPrefix(trimmed, "|")
	inner = strings.TrimSuffix(inner, "|")
	return len(strings.Split(inner, "|"))
}

func isOrderedItem(trimmed string) bool {
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	return i > 0 && i < len(trimmed) && trimmed[i] == '.' &&
		(i+1 == len(trimmed) || trimmed[i+1] == ' ')
}
