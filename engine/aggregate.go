package engine

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
)

// ============================================================================
// AGGREGATE — Dataset + axis selection → chart-ready series
// ============================================================================
// Entry point: Aggregate(ds, chartType, x, ys, opts...)
//
// Pipeline:
//   1. Check chart type and dataset shape (structural failures)
//   2. Resolve the requested Y columns against the dataset
//   3. Group rows by X category, summing parsed Y values
//   4. Bar/Line: one series per Y column
//      Pie: one series of positive slices with percentages
//
// Cells that cannot be used are recorded as diagnostics and skipped.
// ============================================================================

// Aggregate converts rows of ds into series for the given chart type.
func Aggregate(ds *dataset.Dataset, t chart.Type, x string, ys []string, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if !t.Valid() {
		return nil, newAggregationError(ErrUnsupportedChartType, t, "", "")
	}
	if ds == nil {
		return nil, newAggregationError(ErrNoData, t, "", "no dataset loaded")
	}
	if ds.Empty() {
		return nil, newAggregationError(ErrNoData, t, "", "dataset has no rows")
	}
	if !ds.HasColumn(x) {
		return nil, newAggregationError(ErrNoData, t, x, "x column is not in the dataset")
	}

	res := &Result{Type: t, XColumn: x}
	res.YColumns = resolveColumns(ds, ys, res)
	if len(res.YColumns) == 0 {
		cfg.Logger.Debug("aggregate: no usable y columns",
			zap.Stringer("type", t), zap.String("x", x), zap.Strings("requested", ys))
		return nil, newAggregationError(ErrNoData, t, "", "no requested y column is in the dataset")
	}

	cfg.Logger.Debug("aggregate",
		zap.Stringer("type", t),
		zap.String("x", x),
		zap.Strings("y", res.YColumns),
		zap.Int("rows", ds.Len()))

	var err error
	switch t {
	case chart.Pie:
		err = aggregatePie(ds, res, cfg)
	default:
		aggregateSeries(ds, res, cfg)
	}
	logDiagnostics(cfg, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// resolveColumns keeps requested Y columns that exist in ds, dropping
// unknown and repeated names with a diagnostic.
func resolveColumns(ds *dataset.Dataset, ys []string, res *Result) []string {
	seen := make(map[string]bool, len(ys))
	kept := make([]string, 0, len(ys))
	for _, y := range ys {
		switch {
		case !ds.HasColumn(y):
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    DiagUnknownColumn,
				Column:  y,
				Row:     -1,
				Message: fmt.Sprintf("column %q is not in the dataset", y),
			})
		case seen[y]:
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    DiagDuplicateColumn,
				Column:  y,
				Row:     -1,
				Message: fmt.Sprintf("column %q requested more than once", y),
			})
		default:
			seen[y] = true
			kept = append(kept, y)
		}
	}
	return kept
}

// ============================================================================
// BAR / LINE
// ============================================================================

func aggregateSeries(ds *dataset.Dataset, res *Result, cfg *config) {
	for _, y := range res.YColumns {
		groups := groupColumn(ds, res, y, cfg)
		if groups.Len() == 0 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    DiagEmptySeries,
				Column:  y,
				Row:     -1,
				Message: fmt.Sprintf("column %q has no numeric values", y),
			})
			continue
		}

		points := make([]chart.Point, 0, groups.Len())
		for _, g := range groups.groups {
			points = append(points, chart.Point{Label: g.Label, Value: g.Value})
		}
		res.Series = append(res.Series, chart.Series{Name: y, Data: points})
	}
}

// groupColumn walks ds in row order and sums column y per X category.
func groupColumn(ds *dataset.Dataset, res *Result, y string, cfg *config) *groupSet {
	groups := newGroupSet()
	for i, cell := range ds.Values(y) {
		category := categoryOf(ds.Value(i, res.XColumn), cfg.Placeholder)
		v, kind, ok := numericOf(cell)
		if !ok {
			text, _ := cell.Text()
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     kind,
				Column:   y,
				Row:      i,
				Category: category,
				Value:    text,
				Message:  skipMessage(kind, y, i),
			})
			continue
		}
		groups.add(category, i, v)
	}

	for _, g := range groups.dropNonFinite() {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:     DiagOverflow,
			Column:   y,
			Row:      -1,
			Category: g.Label,
			Message:  fmt.Sprintf("category %q overflows when summing %q", g.Label, y),
		})
	}
	return groups
}

func skipMessage(kind DiagnosticKind, column string, row int) string {
	if kind == DiagMissingValue {
		return fmt.Sprintf("row %d: %q is empty", row+1, column)
	}
	return fmt.Sprintf("row %d: %q is not a number", row+1, column)
}

// ============================================================================
// PIE
// ============================================================================

func aggregatePie(ds *dataset.Dataset, res *Result, cfg *config) error {
	y := res.YColumns[0]
	for _, extra := range res.YColumns[1:] {
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    DiagIgnoredColumn,
			Column:  extra,
			Row:     -1,
			Message: fmt.Sprintf("pie charts use only %q; %q ignored", y, extra),
		})
	}
	res.YColumns = res.YColumns[:1]

	groups := groupColumn(ds, res, y, cfg)

	slices := make([]group, 0, groups.Len())
	var total float64
	for _, g := range groups.groups {
		switch {
		case g.Value < 0:
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagNegativeSlice,
				Column:   y,
				Row:      -1,
				Category: g.Label,
				Value:    FormatNumber(g.Value),
				Message:  fmt.Sprintf("category %q sums to a negative value", g.Label),
			})
		case g.Value == 0:
			// zero-width slice
		default:
			slices = append(slices, g)
			total += g.Value
		}
	}

	if len(slices) == 0 || total <= 0 {
		return newAggregationError(ErrNoPositiveData, chart.Pie, y, "")
	}

	shares := percentages(slices, total)
	points := make([]chart.Point, 0, len(slices))
	for i, g := range slices {
		pct := shares[i]
		points = append(points, chart.Point{
			Label:      g.Label,
			Value:      g.Value,
			Percent:    pct,
			Annotation: FormatPercent(pct),
		})
	}

	res.Series = []chart.Series{{Name: y, Data: points}}
	res.Total = total
	return nil
}

// percentages returns each slice's share of total. When the total itself
// overflows, shares are taken over values scaled by the largest slice.
func percentages(slices []group, total float64) []float64 {
	out := make([]float64, len(slices))
	if !math.IsInf(total, 0) {
		for i, g := range slices {
			out[i] = g.Value / total * 100
		}
		return out
	}

	var largest float64
	for _, g := range slices {
		largest = math.Max(largest, g.Value)
	}
	var scaled float64
	for _, g := range slices {
		scaled += g.Value / largest
	}
	for i, g := range slices {
		out[i] = g.Value / largest / scaled * 100
	}
	return out
}

// ============================================================================
// LOGGING
// ============================================================================

func logDiagnostics(cfg *config, res *Result) {
	if len(res.Diagnostics) == 0 {
		return
	}
	for _, d := range res.Diagnostics {
		cfg.Logger.Debug("aggregate: skipped",
			zap.String("kind", string(d.Kind)),
			zap.String("column", d.Column),
			zap.Int("row", d.Row),
			zap.String("category", d.Category),
			zap.String("value", d.Value))
	}
	cfg.Logger.Debug("aggregate: diagnostics",
		zap.Int("count", len(res.Diagnostics)),
		zap.Int("skippedRows", res.SkippedRows()))
}
