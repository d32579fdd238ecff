package helpers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/chartkit/dataset"
)

func text(t *testing.T, ds *dataset.Dataset, row int, col string) string {
	t.Helper()
	s, ok := ds.Value(row, col).Text()
	if !ok {
		return "<null>"
	}
	return s
}

// ============================================================================
// CSV
// ============================================================================

func TestParseCSV(t *testing.T) {
	data := "Region, Sales ,Units\n" +
		"North, 100 ,1\n" +
		"South,,2\n" +
		"broken,row\n" +
		"East,abc,3,extra\n" +
		"\"West, Coast\",40,4\n"

	ds, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Region", "Sales", "Units"}, ds.Columns())
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "100", text(t, ds, 0, "Sales"))
	assert.Equal(t, dataset.KindString, ds.Value(0, "Sales").Kind())
	assert.True(t, ds.Value(1, "Sales").IsNull())
	assert.Equal(t, "West, Coast", text(t, ds, 2, "Region"))
}

func TestParseCSVSkipsQuoteErrors(t *testing.T) {
	data := "a,b\n" +
		"1,\"open\n" +
		"2,3\n"

	ds, err := ParseCSV(strings.NewReader("a,b\nx\"y,1\n2,3\n"))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "2", text(t, ds, 0, "a"))

	_, err = ParseCSV(strings.NewReader(data))
	assert.NoError(t, err)
}

// brokenReader serves head once and then fails on every read.
type brokenReader struct {
	head string
	err  error
	done bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.head), nil
	}
	return 0, r.err
}

func TestParseCSVReadError(t *testing.T) {
	errDisk := errors.New("disk on fire")
	_, err := ParseCSV(&brokenReader{head: "a,b\n1,2\n", err: errDisk})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDisk)
	assert.ErrorContains(t, err, "failed to read CSV line")
}

func TestParseCSVEmpty(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ds.Columns())
	assert.True(t, ds.Empty())
}

func TestParseCSVDuplicateHeader(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a,a\n1,2\n"))
	assert.ErrorContains(t, err, "duplicate column")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, [][]string{{"a", "b"}, {"x,y", "1"}}))
	assert.Equal(t, "a,b\n\"x,y\",1\n", buf.String())
}

// ============================================================================
// JSON
// ============================================================================

func TestParseJSONKeepsFirstObjectKeyOrder(t *testing.T) {
	data := `[
		{"zone": "b", "amount": 10, "active": true, "note": null},
		{"amount": "12.5", "zone": "a", "extra": 1},
		{"zone": "c", "amount": {"nested": 1}}
	]`

	ds, err := ParseJSON(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"zone", "amount", "active", "note"}, ds.Columns())
	require.Equal(t, 3, ds.Len())

	assert.Equal(t, dataset.KindNumber, ds.Value(0, "amount").Kind())
	assert.Equal(t, "true", text(t, ds, 0, "active"))
	assert.True(t, ds.Value(0, "note").IsNull())
	assert.Equal(t, "12.5", text(t, ds, 1, "amount"))
	assert.False(t, ds.HasColumn("extra"))
	assert.True(t, ds.Value(1, "active").IsNull())
	assert.Equal(t, `{"nested":1}`, text(t, ds, 2, "amount"))
}

func TestParseJSONErrors(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"a": 1}`))
	assert.Error(t, err)

	_, err = ParseJSON(strings.NewReader(`[1, 2]`))
	assert.ErrorContains(t, err, "expected an object")

	ds, err := ParseJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

// ============================================================================
// XLSX
// ============================================================================

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "Region"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Sales"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "Note"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "North"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 100))
	require.NoError(t, f.SetCellValue(sheet, "C2", "first"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "South"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 20.5))

	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "Only"))

	path := filepath.Join(dir, "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseXLSX(t *testing.T) {
	path := writeWorkbook(t, t.TempDir())
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	ds, err := ParseXLSX(bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Sales", "Note"}, ds.Columns())
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "100", text(t, ds, 0, "Sales"))
	assert.Equal(t, "20.5", text(t, ds, 1, "Sales"))
	assert.True(t, ds.Value(1, "Note").IsNull())

	other, err := ParseXLSX(bytes.NewReader(data), "Other")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, other.Columns())

	names, err := SheetNames(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Other"}, names)
}

// ============================================================================
// LOAD FILE
// ============================================================================

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "data.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\na,1\n"), 0o644))
	ds, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	jsonPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"x":"a","y":1}]`), 0o644))
	ds, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ds.Columns())

	ds, err = LoadFile(writeWorkbook(t, dir))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoadSheet(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir)

	ds, err := LoadSheet(path, "Other")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, ds.Columns())

	_, err = LoadSheet(path, "Missing")
	assert.ErrorContains(t, err, "Missing")

	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\na,1\n"), 0o644))
	_, err = LoadSheet(csvPath, "Sheet1")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, FormatCSV, loadErr.Format)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "bad.json (json)")
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/A.XlSx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
