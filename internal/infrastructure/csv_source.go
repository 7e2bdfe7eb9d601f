package infrastructure

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"adwise/internal/domain"
)

// CSVSource adapts an uploaded CSV stream to the row contract the ingest
// validator consumes. Parsing the raw bytes is this adapter's whole job; the
// engine core never touches the file format.
type CSVSource struct {
	reader  io.Reader
	maxRows int
}

func NewCSVSource(r io.Reader, maxRows int) *CSVSource {
	return &CSVSource{reader: r, maxRows: maxRows}
}

// Rows reads the header and maps every record to named fields. Short records
// leave trailing fields empty; the validator decides what that means.
func (s *CSVSource) Rows() ([]domain.Row, error) {
	reader := csv.NewReader(s.reader)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows []domain.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(rows)+1, err)
		}

		if s.maxRows > 0 && len(rows) >= s.maxRows {
			return nil, fmt.Errorf("file exceeds row limit of %d", s.maxRows)
		}

		row := make(domain.Row, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
