package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/internal/log"
)

// ============================================================================
// CSV HELPER — Parses CSV data into a dataset.Dataset
// ============================================================================
// First record is the header. Cells are trimmed; empty cells become null.
// Numeric-looking cells stay strings: the engine coerces them on demand.
// Records whose field count differs from the header are skipped.
// ============================================================================

// ParseCSV reads CSV data from r.
func ParseCSV(r io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return dataset.New(nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []dataset.Row
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Debug("csv: skipping malformed record", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if len(record) != len(columns) {
			log.Debug("csv: skipping record with wrong field count",
				zap.Int("line", line),
				zap.Int("fields", len(record)),
				zap.Int("want", len(columns)))
			skipped++
			continue
		}
		rows = append(rows, textRow(columns, record))
	}

	if skipped > 0 {
		log.Warn("csv: records skipped", zap.Int("skipped", skipped), zap.Int("kept", len(rows)))
	}
	return dataset.New(columns, rows)
}

// textRow maps cells onto columns. Blank cells are left out, which reads as null.
func textRow(columns, cells []string) dataset.Row {
	row := make(dataset.Row, len(columns))
	for i, c := range cells {
		if i >= len(columns) {
			break
		}
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		row[columns[i]] = dataset.String(c)
	}
	return row
}

// WriteCSV writes records (header first) as CSV.
func WriteCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write CSV: %w", err)
	}
	return nil
}
