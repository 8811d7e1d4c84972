package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"zoo-assistant/models"
)

const utf8BOM = "\uFEFF"

// CSVRecord is one data row keyed by header column. Columns absent from a
// short row read as "".
type CSVRecord map[string]string

// Get returns the trimmed value of column, or "" when missing.
func (r CSVRecord) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// ReadCSVRecords loads every data row of a headed CSV file from disk.
func ReadCSVRecords(filePath string) ([]CSVRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file %q: %w", models.ErrDataSourceUnavailable, filePath, err)
	}
	defer f.Close()

	records, err := ParseCSVRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%w: file %q: %w", models.ErrDataSourceUnavailable, filePath, err)
	}
	return records, nil
}

// ParseCSVRecords reads a headed CSV stream. Rows with a wrong field count
// are kept; missing trailing columns read as "".
func ParseCSVRecords(r io.Reader) ([]CSVRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []CSVRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rec := make(CSVRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadTextDocument loads a whole UTF-8 text file from disk.
func ReadTextDocument(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read file %q: %w", models.ErrDataSourceUnavailable, filePath, err)
	}
	return strings.TrimPrefix(string(data), utf8BOM), nil
}
