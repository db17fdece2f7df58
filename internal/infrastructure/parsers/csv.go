package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVParser parses claim records from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed records.
// Expected columns: fingerprint, claim_text, verdict, explanation,
// timestamp, is_time_dependent, dependency_duration_days, user_feedback
func (p *CSVParser) Parse(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"claim_text", "verdict"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawRecords.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawRecord, error) {
	var records []RawRecord
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		record := RawRecord{
			Fingerprint:  field(row, colIndex, "fingerprint"),
			ClaimText:    field(row, colIndex, "claim_text"),
			Verdict:      field(row, colIndex, "verdict"),
			Explanation:  field(row, colIndex, "explanation"),
			CreatedAt:    field(row, colIndex, "timestamp"),
			UserFeedback: field(row, colIndex, "user_feedback"),
			LineNum:      lineNum,
		}

		if raw := field(row, colIndex, "is_time_dependent"); raw != "" {
			dependent, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid is_time_dependent %q", lineNum, raw)
			}
			record.TimeDependency.IsTimeDependent = dependent
		}

		if raw := field(row, colIndex, "dependency_duration_days"); raw != "" {
			days, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid dependency_duration_days %q", lineNum, raw)
			}
			record.TimeDependency.DurationDays = days
		}

		records = append(records, record)
	}

	return records, nil
}

// field returns the named column from a row, or empty when the column
// is absent or the row is short.
func field(row []string, colIndex map[string]int, name string) string {
	idx, ok := colIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
