package engine

import (
	"strconv"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from an aggregation Result
// ============================================================================
// One row per category (first-seen order across all series), one value
// column per series. Categories missing from a series leave an empty cell.
// Pie results gain a percent column.
// ============================================================================

// BuildTable produces a TableData grid from an aggregation result.
func BuildTable(res *Result, title string) *TableData {
	if res.Empty() {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := []Column{{
		Key:   res.XColumn,
		Label: LabelForColumn(res.XColumn),
		Type:  "text",
		Align: "left",
	}}
	for _, s := range res.Series {
		columns = append(columns, Column{
			Key:   s.Name,
			Label: LabelForColumn(s.Name),
			Type:  "number",
			Align: "right",
		})
	}
	if res.Type == chart.Pie {
		columns = append(columns, Column{Key: "percent", Label: "Percent", Type: "percent", Align: "right"})
	}

	cfg := chart.Config{Series: res.Series}
	categories := cfg.Categories()

	lookup := make([]map[string]chart.Point, len(res.Series))
	totals := make([]float64, len(res.Series))
	for i, s := range res.Series {
		lookup[i] = make(map[string]chart.Point, len(s.Data))
		for _, p := range s.Data {
			lookup[i][p.Label] = p
			totals[i] += p.Value
		}
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		row := make([]string, 0, len(columns))
		row = append(row, c)
		for i := range res.Series {
			if p, ok := lookup[i][c]; ok {
				row = append(row, formatCell(p.Value))
			} else {
				row = append(row, "")
			}
		}
		if res.Type == chart.Pie {
			row = append(row, lookup[0][c].Annotation)
		}
		rows = append(rows, row)
	}

	summary := &Summary{
		Label:  "Total (" + FormatInt(len(categories)) + " categories)",
		Values: make(map[string]string, len(res.Series)),
	}
	for i, s := range res.Series {
		summary.Values[s.Name] = formatCell(totals[i])
	}
	if res.Type == chart.Pie {
		summary.Values["percent"] = FormatPercent(100)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: summary,
	}
}

// formatCell writes a machine-readable number: whole numbers without
// decimals, everything else to two places.
func formatCell(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Records returns the table as CSV-ready records: the header row, the data
// rows and, when present, a trailing summary row.
func (t *TableData) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+2)
	out = append(out, t.Headers())
	for _, r := range t.Rows {
		out = append(out, append([]string(nil), r...))
	}
	if t.Summary != nil && len(t.Columns) > 0 {
		row := make([]string, len(t.Columns))
		row[0] = t.Summary.Label
		for i, c := range t.Columns[1:] {
			row[i+1] = t.Summary.Values[c.Key]
		}
		out = append(out, row)
	}
	return out
}
