package engine

import (
	"strings"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// CHART BUILDER — Produces chart.Config from an aggregation Result
// ============================================================================

// Default color palette for chart series and pie slices.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartOptions carries the labels a renderer shows around the plot.
// Empty fields are derived from the Result.
type ChartOptions struct {
	Title  string
	XLabel string
	YLabel string
}

// BuildChart produces a chart.Config from an aggregation result.
// It returns nil for an empty result.
func BuildChart(res *Result, opts ChartOptions) *chart.Config {
	if res.Empty() {
		return nil
	}

	cfg := &chart.Config{
		Type:       res.Type,
		Title:      opts.Title,
		XAxis:      opts.XLabel,
		YAxis:      opts.YLabel,
		ShowLegend: true,
		ShowGrid:   res.Type != chart.Pie,
	}

	if cfg.XAxis == "" {
		cfg.XAxis = LabelForColumn(res.XColumn)
	}
	if cfg.YAxis == "" {
		cfg.YAxis = yLabel(res)
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle(res, cfg.XAxis, cfg.YAxis)
	}

	cfg.Series = copySeries(res.Series)
	if res.Type == chart.Pie {
		// one colour per slice
		cfg.Colors = assignColors(len(cfg.Series[0].Data))
		cfg.Series[0].Color = cfg.Colors[0]
	} else {
		cfg.Colors = assignColors(len(cfg.Series))
		for i := range cfg.Series {
			cfg.Series[i].Color = cfg.Colors[i]
		}
	}
	return cfg
}

func yLabel(res *Result) string {
	labels := make([]string, 0, len(res.Series))
	for _, s := range res.Series {
		labels = append(labels, LabelForColumn(s.Name))
	}
	return strings.Join(labels, ", ")
}

func defaultTitle(res *Result, x, y string) string {
	if res.Type == chart.Pie {
		return "Share of " + y + " by " + x
	}
	return y + " by " + x
}

func copySeries(in []chart.Series) []chart.Series {
	out := make([]chart.Series, len(in))
	for i, s := range in {
		out[i] = chart.Series{
			Name:  s.Name,
			Data:  append([]chart.Point(nil), s.Data...),
			Color: s.Color,
		}
	}
	return out
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
