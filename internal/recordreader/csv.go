package recordreader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
)

// =============================================================================
// CSV READER
// =============================================================================

// CSVReader streams records from one column of a delimited file, as
// exported by spreadsheet and reporting tools.
type CSVReader struct {
	reader   *csv.Reader
	settings config.CSVSettings
	closer   io.Closer
	current  types.Record
	row      int
	err      error
}

// OpenCSV opens a delimited file for reading.
func OpenCSV(filePath string, settings config.CSVSettings) (*CSVReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := NewCSVReader(file, settings)
	reader.closer = file
	return reader, nil
}

// NewCSVReader reads records from r. The caller keeps ownership of r.
func NewCSVReader(r io.Reader, settings config.CSVSettings) *CSVReader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter(settings.Delimiter)

	// Rows may have any number of fields; short rows are skipped.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// Leading spaces belong to the record.
	reader.TrimLeadingSpace = false

	return &CSVReader{reader: reader, settings: settings}
}

// delimiter maps the configured delimiter name to a rune.
func delimiter(name string) rune {
	switch name {
	case "\\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	default:
		if len(name) > 0 {
			return rune(name[0])
		}
		return ','
	}
}

// Next advances to the next record. Header rows, rows without the record
// column and empty cells are skipped.
func (r *CSVReader) Next() bool {
	if r.err != nil {
		return false
	}

	for {
		fields, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			r.err = fmt.Errorf("failed to read CSV: %w", err)
			return false
		}

		r.row++
		if r.row <= r.settings.HeaderRows || r.settings.Column >= len(fields) {
			continue
		}

		text := fields[r.settings.Column]
		if text == "" {
			continue
		}

		line, _ := r.reader.FieldPos(r.settings.Column)
		r.current = types.Record{Number: line, Text: text}
		return true
	}
}

// Record returns the current record.
func (r *CSVReader) Record() types.Record {
	return r.current
}

// Err returns any error that occurred during reading.
func (r *CSVReader) Err() error {
	return r.err
}

// Close closes the underlying file, if the reader owns one.
func (r *CSVReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
