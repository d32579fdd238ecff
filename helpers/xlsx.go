package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/internal/log"
)

// ============================================================================
// XLSX HELPER — Reads one worksheet into a dataset.Dataset
// ============================================================================
// The first row is the header. Trailing blank cells are trimmed by excelize,
// so short rows are padded with nulls; rows wider than the header are
// skipped.
// ============================================================================

// ParseXLSX reads sheet from an XLSX workbook. An empty sheet name selects
// the first sheet.
func ParseXLSX(r io.Reader, sheet string) (*dataset.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataset.New(nil, nil)
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = strings.TrimSpace(h)
	}

	out := make([]dataset.Row, 0, len(rows)-1)
	skipped := 0
	for i, cells := range rows[1:] {
		if len(cells) > len(columns) {
			log.Debug("xlsx: skipping row wider than header",
				zap.String("sheet", sheet),
				zap.Int("row", i+2),
				zap.Int("cells", len(cells)))
			skipped++
			continue
		}
		out = append(out, textRow(columns, cells))
	}

	if skipped > 0 {
		log.Warn("xlsx: rows skipped", zap.String("sheet", sheet), zap.Int("skipped", skipped))
	}
	return dataset.New(columns, out)
}

// SheetNames lists the worksheets of an XLSX workbook.
func SheetNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
