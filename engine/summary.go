package engine

import (
	"fmt"
	"strings"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// SUMMARY — One-line text description of an aggregation Result
// ============================================================================

// Summarize describes a result in one line, e.g.
// "bar chart of Sales by Region: 3 categories, total sales 1,250.50".
func Summarize(res *Result) string {
	if res.Empty() {
		return "No data available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s chart of %s by %s: ", res.Type, yLabel(res), LabelForColumn(res.XColumn))

	cfg := chart.Config{Series: res.Series}
	categories := len(cfg.Categories())
	if categories == 1 {
		b.WriteString("1 category")
	} else {
		fmt.Fprintf(&b, "%s categories", FormatInt(categories))
	}

	if res.Type == chart.Pie {
		top := largestSlice(res.Series[0])
		fmt.Fprintf(&b, ", total %s, largest %s", FormatNumber(res.Total), top.DisplayLabel())
	} else {
		totals := make([]string, 0, len(res.Series))
		for _, s := range res.Series {
			var sum float64
			for _, p := range s.Data {
				sum += p.Value
			}
			totals = append(totals, fmt.Sprintf("%s %s", s.Name, FormatNumber(sum)))
		}
		b.WriteString(", total ")
		b.WriteString(strings.Join(totals, ", "))
	}

	if n := res.SkippedRows(); n > 0 {
		fmt.Fprintf(&b, " (%s skipped)", plural(n, "cell"))
	}
	return b.String()
}

func largestSlice(s chart.Series) chart.Point {
	var top chart.Point
	for i, p := range s.Data {
		if i == 0 || p.Value > top.Value {
			top = p
		}
	}
	return top
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return FormatInt(n) + " " + noun + "s"
}
