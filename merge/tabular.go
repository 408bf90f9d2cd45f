package merge

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Tabular merges delimiter-separated tabular text (comma or pipe).
//
// The first chunk establishes the header row and column count. Rows split
// across chunk boundaries are reconciled by quote parity: a chunk ending
// inside a quoted field, or without a terminating newline, carries its
// trailing fragment into the next chunk before that row is parsed.
// Header rows repeated in non-first chunks are stripped. A row that still
// cannot be parsed after reconciliation stops the merge at the last good
// position: already-merged rows are kept and the result reports partial
// success.
//
// Output keeps each reconciled row's original text byte for byte,
// quoting included. CSV parsing is used only to validate rows and compare
// headers, never to re-serialize them, so splitting a well-formed table
// at any row boundary merges back to the unsplit table.
type Tabular struct{}

// NewTabular creates a Tabular merger.
func NewTabular() *Tabular {
	return &Tabular{}
}

// Strategy implements [Merger].
func (*Tabular) Strategy() Strategy {
	return StrategyTabular
}

// Merge implements [Merger]. Empty chunks are skipped without error. A
// hard error is returned only when no header row can be established.
func (t *Tabular) Merge(chunks []string) (*Result, error) {
	delimiter := tabularDelimiter(chunks)
	if delimiter == 0 {
		return nil, ErrNoContent
	}

	var (
		header  []string
		rows    []string
		carry   string
		failure *Error
	)

	appendRow := func(raw string, chunkIndex int, firstChunk bool) {
		fields, err := parseRow(raw, delimiter)
		if err != nil {
			failure = &Error{ChunkIndex: chunkIndex, Message: err.Error()}
			return
		}
		if fields == nil {
			// Blank line between rows.
			return
		}
		if header == nil {
			header = fields
			rows = append(rows, raw)
			return
		}
		if !firstChunk && equalFields(fields, header) {
			// Repeated header restated by the model.
			return
		}
		if len(fields) != len(header) {
			failure = &Error{
				ChunkIndex: chunkIndex,
				Message: fmt.Sprintf(
					"row has %d columns, table has %d", len(fields), len(header)),
			}
			return
		}
		rows = append(rows, raw)
	}

	firstChunk := true
	for chunkIndex, chunk := range chunks {
		if failure != nil {
			break
		}
		if chunk == "" {
			continue
		}

		text := carry + chunk
		complete, remainder := splitCompleteRows(text)
		carry = remainder

		for _, raw := range splitRows(complete) {
			if failure != nil {
				break
			}
			appendRow(raw, chunkIndex, firstChunk)
		}
		firstChunk = false
	}

	// A trailing fragment with balanced quotes is the final row.
	if failure == nil && strings.TrimSpace(carry) != "" {
		appendRow(strings.TrimSuffix(carry, "\r"), len(chunks)-1, false)
	}

	if header == nil {
		return nil, ErrNoContent
	}

	result := &Result{
		Content:       strings.Join(rows, "\n") + "\n",
		Success:       failure == nil,
		FallbackLevel: LevelFormat,
		Err:           failure,
	}
	return result, nil
}

// tabularDelimiter picks the delimiter from the first non-empty chunk's
// first line: pipe when pipes outnumber commas, comma otherwise. Returns
// 0 when every chunk is empty.
func tabularDelimiter(chunks []string) rune {
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		firstLine := chunk
		if i := strings.IndexByte(chunk, '\n'); i >= 0 {
			firstLine = chunk[:i]
		}
		if strings.Count(firstLine, "|") > strings.Count(firstLine, ",") {
			return '|'
		}
		return ','
	}
	return 0
}

// splitCompleteRows splits text into the newline-terminated rows whose
// quotes are balanced, and the trailing fragment (a row cut off mid-field
// or missing its newline). Newlines inside an open quoted field belong to
// the row.
func splitCompleteRows(text string) (complete, remainder string) {
	inQuotes := false
	lastRowEnd := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				lastRowEnd = i
			}
		}
	}
	if lastRowEnd < 0 {
		return "", text
	}
	return text[:lastRowEnd+1], text[lastRowEnd+1:]
}

// splitRows splits reconciled text into individual raw rows at the
// newlines that sit outside quoted fields. Row terminators are dropped;
// embedded newlines inside quoted fields are kept.
func splitRows(complete string) []string {
	var rows []string
	inQuotes := false
	start := 0
	for i := 0; i < len(complete); i++ {
		switch complete[i] {
		case '"':
			inQuotes = !inQuotes
		case '\n':
			if !inQuotes {
				rows = append(rows, strings.TrimSuffix(complete[start:i], "\r"))
				start = i + 1
			}
		}
	}
	return rows
}

// parseRow parses one raw row into its fields for validation. Returns
// nil fields for a blank line.
func parseRow(raw string, delimiter rune) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	reader := csv.NewReader(strings.NewReader(raw + "\n"))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
