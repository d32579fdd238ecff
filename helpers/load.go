// Package helpers loads tabular files into datasets.
package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/internal/log"
)

// Format is a supported input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for files whose extension is not
// .csv, .json or .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// LoadError reports a file that could not be turned into a dataset.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatFromPath picks the format by file extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadFile reads the file at path, choosing the parser by extension.
func LoadFile(path string) (*dataset.Dataset, error) {
	return loadFile(path, "")
}

// LoadSheet reads one worksheet of the XLSX workbook at path.
func LoadSheet(path, sheet string) (*dataset.Dataset, error) {
	return loadFile(path, sheet)
}

func loadFile(path, sheet string) (*dataset.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if sheet != "" && format != FormatXLSX {
		return nil, &LoadError{Path: path, Format: format,
			Err: fmt.Errorf("%w: sheet %q requires xlsx input", ErrUnsupportedFormat, sheet)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Err: err}
	}
	defer f.Close()

	var ds *dataset.Dataset
	if format == FormatXLSX {
		ds, err = ParseXLSX(f, sheet)
	} else {
		ds, err = Load(f, format)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Format: format, Err: err}
	}

	log.Info("loaded dataset",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Columns())))
	return ds, nil
}

// Load parses r in the given format. XLSX input reads the first sheet.
func Load(r io.Reader, format Format) (*dataset.Dataset, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatXLSX:
		return ParseXLSX(r, "")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}
