// Package dataset holds the immutable in-memory table a chart is drawn from.
package dataset

import (
	"fmt"
	"iter"
	"strings"
)

// ============================================================================
// DATASET — Immutable table of named columns and rows
// ============================================================================
// Built once by a loader (see helpers), never mutated afterwards. All inputs
// are copied on construction and all slices handed out are copies, so no
// caller can reach into the table.
// ============================================================================

// Row is one record: a mapping from column name to Value. Columns with no
// entry read as null.
type Row map[string]Value

// Dataset is an ordered set of unique column names plus ordered rows.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New builds a Dataset. Column names must be non-empty and unique, and every
// row key must be one of the columns.
func New(columns []string, rows []Row) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0, len(rows)),
	}

	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("column %d has an empty name", len(ds.columns)+1)
		}
		if _, dup := ds.index[c]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c)
		}
		ds.index[c] = len(ds.columns)
		ds.columns = append(ds.columns, c)
	}

	for i, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			if _, ok := ds.index[k]; !ok {
				return nil, fmt.Errorf("row %d: unknown column %q", i+1, k)
			}
			cp[k] = v
		}
		ds.rows = append(ds.rows, cp)
	}

	return ds, nil
}

// MustNew is New for fixtures; it panics on error.
func MustNew(columns []string, rows []Row) *Dataset {
	ds, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return ds
}

// Columns returns a copy of the column names in order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether name is a column of the dataset.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[name]
	return ok
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Empty reports whether the dataset is nil or has no rows.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// Value returns the cell at row i, column col. Out-of-range rows and missing
// keys read as null.
func (d *Dataset) Value(i int, col string) Value {
	if d == nil || i < 0 || i >= len(d.rows) {
		return Null()
	}
	return d.rows[i][col]
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Row {
	if d == nil || i < 0 || i >= len(d.rows) {
		return nil
	}
	cp := make(Row, len(d.rows[i]))
	for k, v := range d.rows[i] {
		cp[k] = v
	}
	return cp
}

// Column returns the values of one column in row order, or nil when the
// column does not exist.
func (d *Dataset) Column(name string) []Value {
	if !d.HasColumn(name) {
		return nil
	}
	out := make([]Value, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[name]
	}
	return out
}

// Values iterates over (row index, value) pairs of one column.
func (d *Dataset) Values(col string) iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if d == nil {
			return
		}
		for i, r := range d.rows {
			if !yield(i, r[col]) {
				return
			}
		}
	}
}
