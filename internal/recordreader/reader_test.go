package recordreader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var record = strings.Repeat("_", 80)

func TestTextReader(t *testing.T) {
	input := "first\r\n\n  spaced record  \nlast"

	records, err := ReadAll(NewTextReader(strings.NewReader(input)))
	require.NoError(t, err)

	assert.Equal(t, []types.Record{
		{Number: 1, Text: "first"},
		{Number: 3, Text: "  spaced record  "},
		{Number: 4, Text: "last"},
	}, records)
}

func TestTextReader_Empty(t *testing.T) {
	records, err := ReadAll(NewTextReader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTextReader_LineTooLong(t *testing.T) {
	input := strings.Repeat("x", maxLineLength+1)

	reader := NewTextReader(strings.NewReader(input))
	assert.False(t, reader.Next())
	assert.Error(t, reader.Err())
	assert.False(t, reader.Next())
}

func TestOpen_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqs.txt")
	require.NoError(t, os.WriteFile(path, []byte(record+"\n"+record+"\n"), 0644))

	src, err := Open(path, Settings{})
	require.NoError(t, err)
	defer src.Close()

	records, err := ReadAll(src)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, record, records[1].Text)
	assert.Equal(t, 2, records[1].Number)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.txt"), Settings{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(filepath.Join(dir, "legacy.xls"), Settings{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func writeWorkbook(t *testing.T, cells map[string]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for cell, value := range cells {
		require.NoError(t, f.SetCellStr("Sheet1", cell, value))
	}

	path := filepath.Join(t.TempDir(), "reqs.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpen_Workbook(t *testing.T) {
	path := writeWorkbook(t, map[string]string{
		"A1": "Record",
		"A2": record,
		"A4": "D" + record[1:],
		"B2": "ignored",
	})

	src, err := Open(path, Settings{Workbook: config.WorkbookSettings{HeaderRows: 1}})
	require.NoError(t, err)
	defer src.Close()

	records, err := ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{Number: 2, Text: record},
		{Number: 4, Text: "D" + record[1:]},
	}, records)
}

func TestOpenWorkbook_Column(t *testing.T) {
	path := writeWorkbook(t, map[string]string{
		"A1": "note",
		"B1": record,
	})

	reader, err := OpenWorkbook(path, config.WorkbookSettings{Column: 1})
	require.NoError(t, err)

	assert.Equal(t, types.Record{}, reader.Record())
	require.True(t, reader.Next())
	assert.Equal(t, types.Record{Number: 1, Text: record}, reader.Record())
	assert.False(t, reader.Next())
	assert.NoError(t, reader.Err())
}

func TestOpenWorkbook_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string]string{"A1": record})

	_, err := OpenWorkbook(path, config.WorkbookSettings{Sheet: "Nope"})
	assert.Error(t, err)
}

func TestNewWorkbookReader(t *testing.T) {
	path := writeWorkbook(t, map[string]string{"A1": record})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader, err := NewWorkbookReader(bytes.NewReader(data), config.WorkbookSettings{})
	require.NoError(t, err)

	records, err := ReadAll(reader)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = NewWorkbookReader(strings.NewReader("not a workbook"), config.WorkbookSettings{})
	assert.Error(t, err)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("a.xlsx"))
	assert.True(t, IsWorkbook("A.XLSX"))
	assert.False(t, IsWorkbook("a.txt"))
}

func TestCSVReader(t *testing.T) {
	input := "id;record\n" +
		"1;" + record + "\n" +
		"2;\n" +
		"3\n" +
		"4;\" quoted; with delimiter\"\n" +
		"5;  spaced\n"

	settings := config.CSVSettings{Delimiter: "semicolon", Column: 1, HeaderRows: 1}
	records, err := ReadAll(NewCSVReader(strings.NewReader(input), settings))
	require.NoError(t, err)

	assert.Equal(t, []types.Record{
		{Number: 2, Text: record},
		{Number: 5, Text: " quoted; with delimiter"},
		{Number: 6, Text: "  spaced"},
	}, records)
}

func TestOpen_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqs.CSV")
	require.NoError(t, os.WriteFile(path, []byte(record+",note\n"), 0644))

	src, err := Open(path, Settings{})
	require.NoError(t, err)
	defer src.Close()

	records, err := ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, []types.Record{{Number: 1, Text: record}}, records)
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ',', delimiter(""))
	assert.Equal(t, '\t', delimiter("tab"))
	assert.Equal(t, '|', delimiter("pipe"))
	assert.Equal(t, ';', delimiter(";"))
	assert.Equal(t, '#', delimiter("#"))
}
