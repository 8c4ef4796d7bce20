// =============================================================================
// MILSTRIP Validator - Workbook Source
// =============================================================================
//
// Records exported to spreadsheets are read from a single column of one
// sheet, one record per row:
//
//   | Column A                                                   |
//   |------------------------------------------------------------|
//   | A0AW12...  (80-character record)                           |
//   | A0AW12...                                                  |
//
// The sheet, the column and the number of leading header rows are set in
// the workbook section of config.yaml.
//
// =============================================================================

package recordreader

import (
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when a workbook has no sheet to read.
var ErrNoSheets = errors.New("workbook has no sheets")

// WorkbookReader iterates over the records of one sheet.
type WorkbookReader struct {
	records []types.Record
	index   int
}

// OpenWorkbook reads the records of the workbook at filePath.
func OpenWorkbook(filePath string, settings config.WorkbookSettings) (*WorkbookReader, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, settings)
}

// NewWorkbookReader reads the records of a workbook streamed from r.
func NewWorkbookReader(r io.Reader, settings config.WorkbookSettings) (*WorkbookReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f, settings)
}

// readWorkbook loads every non-empty cell of the record column.
func readWorkbook(f *excelize.File, settings config.WorkbookSettings) (*WorkbookReader, error) {
	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, ErrNoSheets
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	reader := &WorkbookReader{index: -1}
	for i := settings.HeaderRows; i < len(rows); i++ {
		row := rows[i]
		if settings.Column >= len(row) || row[settings.Column] == "" {
			continue
		}

		reader.records = append(reader.records, types.Record{
			Number: i + 1,
			Text:   row[settings.Column],
		})
	}

	return reader, nil
}

// Next advances to the next record.
func (r *WorkbookReader) Next() bool {
	if r.index+1 >= len(r.records) {
		return false
	}
	r.index++
	return true
}

// Record returns the current record.
func (r *WorkbookReader) Record() types.Record {
	if r.index < 0 {
		return types.Record{}
	}
	return r.records[r.index]
}

// Err always returns nil; the workbook is read eagerly on open.
func (r *WorkbookReader) Err() error {
	return nil
}

// Close releases nothing; the workbook is closed after it is read.
func (r *WorkbookReader) Close() error {
	return nil
}
