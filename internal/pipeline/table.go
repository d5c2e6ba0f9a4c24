package pipeline

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// RawTable is the decoded input file as strings, still unmapped
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the raw value for a header on one row, "" when absent
func (t *RawTable) Cell(row int, header string) string {
	for i, h := range t.Headers {
		if h == header {
			if i < len(t.Rows[row]) {
				return t.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}

// ParseTable reads delimiter-separated text into a RawTable. When delimiter
// is zero it is sniffed from the header line (semicolon wins over comma,
// matching the export format of the survey tools feeding this pipeline).
func ParseTable(text string, delimiter rune) (*RawTable, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if delimiter == 0 {
		delimiter = sniffDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // exports frequently have ragged rows
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(rec))
		for i, cell := range rec {
			row[i] = strings.TrimSpace(cell)
		}
		rows = append(rows, row)
	}

	return &RawTable{Headers: headers, Rows: rows}, nil
}

func sniffDelimiter(text string) rune {
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}
	if strings.Count(firstLine, ";") >= strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}
