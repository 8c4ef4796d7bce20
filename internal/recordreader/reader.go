// =============================================================================
// MILSTRIP Validator - Record Reader Module
// =============================================================================
//
// This module reads MILSTRIP records from input sources. Three source kinds
// are supported:
//   - Text files: one fixed-width record per line (.txt, .dat, anything
//     without a structured extension)
//   - Workbooks: one record per row in a configurable column (.xlsx)
//   - Delimited files: one record per row in a configurable column (.csv)
//
// FEATURES:
//   - Memory-efficient streaming for large text files
//   - Line and row numbers kept for error reporting
//   - Records are passed through untouched: only the line terminator is
//     removed, so leading, trailing and embedded spaces reach the validator
//
// =============================================================================

package recordreader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
)

// ErrUnsupportedFormat is returned for input a source cannot read.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// maxLineLength bounds a single input line. MILSTRIP records are 80
// characters; longer lines are still read so they can be reported.
const maxLineLength = 1024 * 1024

// =============================================================================
// SOURCE INTERFACE
// =============================================================================

// Settings locates records inside structured input files.
type Settings struct {
	Workbook config.WorkbookSettings
	CSV      config.CSVSettings
}

// Source yields records one at a time.
//
// USAGE:
//   src, err := recordreader.Open(path, settings)
//   if err != nil {
//       return err
//   }
//   defer src.Close()
//
//   for src.Next() {
//       record := src.Record()
//       // Validate the record...
//   }
//
//   if err := src.Err(); err != nil {
//       return err
//   }
type Source interface {
	Next() bool
	Record() types.Record
	Err() error
	Close() error
}

// Open opens the file at path and returns the matching source.
//
// PARAMETERS:
//   - filePath: The path to the input file.
//   - settings: Where records live inside workbooks and CSV files.
//
// RETURNS:
//   - A Source positioned before the first record.
//   - An error if the file cannot be opened.
func Open(filePath string, settings Settings) (Source, error) {
	// Legacy binary workbooks cannot be read by excelize.
	if strings.EqualFold(filepath.Ext(filePath), ".xls") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(filePath))
	}

	if IsWorkbook(filePath) {
		return OpenWorkbook(filePath, settings.Workbook)
	}
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		return OpenCSV(filePath, settings.CSV)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := NewTextReader(file)
	reader.closer = file
	return reader, nil
}

// IsWorkbook reports whether path names a workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// ReadAll drains src and returns every record.
func ReadAll(src Source) ([]types.Record, error) {
	var records []types.Record
	for src.Next() {
		records = append(records, src.Record())
	}
	if err := src.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// =============================================================================
// TEXT READER
// =============================================================================

// TextReader streams line-oriented records.
type TextReader struct {
	scanner    *bufio.Scanner
	closer     io.Closer
	current    types.Record
	lineNumber int
	err        error
}

// NewTextReader reads records from r, one per line. Empty lines are
// skipped. The caller keeps ownership of r.
func NewTextReader(r io.Reader) *TextReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	return &TextReader{scanner: scanner}
}

// Next advances to the next record. Returns false when there are no more
// records or reading failed.
func (r *TextReader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.lineNumber++

		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if line == "" {
			continue
		}

		r.current = types.Record{Number: r.lineNumber, Text: line}
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("error reading line %d: %w", r.lineNumber+1, err)
	}
	return false
}

// Record returns the current record.
func (r *TextReader) Record() types.Record {
	return r.current
}

// Err returns any error that occurred during reading.
func (r *TextReader) Err() error {
	return r.err
}

// Close closes the underlying file, if the reader owns one.
func (r *TextReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
