package engine

import (
	"errors"
	"fmt"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// ENGINE TYPES — Aggregation results, diagnostics, failures
// ============================================================================
// The engine never owns the dataset. It reads rows through dataset.Dataset
// and returns freshly built series that the caller owns.
// ============================================================================

// ============================================================================
// RESULT — Render-ready output of Aggregate
// ============================================================================

// Result is the output of one aggregation call.
type Result struct {
	Type    chart.Type `json:"chartType"`
	XColumn string     `json:"xColumn"`

	// YColumns lists the value columns that were actually aggregated,
	// in request order.
	YColumns []string `json:"yColumns"`

	// Series holds one entry per Y column with at least one surviving
	// point (bar/line), or a single series of slices (pie).
	Series []chart.Series `json:"series"`

	// Total is the sum of all emitted slice values (pie only).
	Total float64 `json:"total,omitempty"`

	// Diagnostics are data-shape problems that were skipped over.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Empty reports whether no series were produced.
func (r *Result) Empty() bool {
	return r == nil || len(r.Series) == 0
}

// SkippedRows counts diagnostics that excluded a row from a series.
func (r *Result) SkippedRows() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == DiagNonNumeric || d.Kind == DiagMissingValue {
			n++
		}
	}
	return n
}

// ============================================================================
// DIAGNOSTICS — non-fatal data-shape problems
// ============================================================================

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind string

const (
	DiagNonNumeric      DiagnosticKind = "non_numeric"      // Y cell failed float parsing
	DiagMissingValue    DiagnosticKind = "missing_value"    // Y cell absent or blank
	DiagNegativeSlice   DiagnosticKind = "negative_slice"   // pie category summed below zero
	DiagOverflow        DiagnosticKind = "overflow"         // category sum is not finite
	DiagUnknownColumn   DiagnosticKind = "unknown_column"   // requested Y column not in dataset
	DiagDuplicateColumn DiagnosticKind = "duplicate_column" // Y column requested twice
	DiagEmptySeries     DiagnosticKind = "empty_series"     // Y column produced no points
	DiagIgnoredColumn   DiagnosticKind = "ignored_column"   // extra Y column on a pie chart
)

// Diagnostic records one skipped cell, category or column.
// Row is the zero-based dataset row, or -1 when not row-specific.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Column   string         `json:"column"`
	Row      int            `json:"row"`
	Category string         `json:"category,omitempty"`
	Value    string         `json:"value,omitempty"`
	Message  string         `json:"message"`
}

// ============================================================================
// FAILURES — structural problems that block chart production
// ============================================================================

var (
	// ErrUnsupportedChartType is returned for chart types other than bar, line and pie.
	ErrUnsupportedChartType = errors.New("unsupported chart type")

	// ErrNoData is returned when there is nothing to aggregate: no dataset,
	// no rows, an X column outside the dataset, or no usable Y column.
	ErrNoData = errors.New("no data to chart")

	// ErrNoPositiveData is returned for pie charts whose categories all sum to zero or less.
	ErrNoPositiveData = errors.New("no positive data for pie chart")
)

// AggregationError describes why Aggregate refused to produce a chart.
type AggregationError struct {
	Err       error
	ChartType chart.Type
	Column    string
	Detail    string
}

func (e *AggregationError) Error() string {
	msg := fmt.Sprintf("aggregate %s chart: %v", e.ChartType, e.Err)
	if e.Column != "" {
		msg += fmt.Sprintf(" (column %q)", e.Column)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

func newAggregationError(err error, t chart.Type, column, detail string) *AggregationError {
	return &AggregationError{Err: err, ChartType: t, Column: column, Detail: detail}
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a category-by-series grid built from a Result.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}
