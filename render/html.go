package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spektr-org/chartkit/chart"
)

// HTMLRenderer writes a standalone interactive page with go-echarts.
type HTMLRenderer struct {
	width  int
	height int
	theme  string
}

// Format reports FormatHTML.
func (r *HTMLRenderer) Format() Format {
	return FormatHTML
}

// Render writes cfg as an HTML page.
func (r *HTMLRenderer) Render(w io.Writer, cfg *chart.Config) error {
	if !hasData(cfg) {
		return ErrNothingToRender
	}

	var err error
	switch cfg.Type {
	case chart.Bar:
		err = r.bar(cfg).Render(w)
	case chart.Line:
		err = r.line(cfg).Render(w)
	case chart.Pie:
		err = r.pie(cfg).Render(w)
	default:
		return fmt.Errorf("%w: chart type %v", ErrUnsupportedFormat, cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("render %s page: %w", cfg.Type, err)
	}
	return nil
}

func (r *HTMLRenderer) globals(cfg *chart.Config, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: cfg.Title,
			Theme:     r.theme,
			Width:     strconv.Itoa(r.width) + "px",
			Height:    strconv.Itoa(r.height) + "px",
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(cfg.ShowLegend), Bottom: "0"}),
	}
}

func (r *HTMLRenderer) bar(cfg *chart.Config) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globals(cfg, "axis")...)
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis}),
	)

	categories := cfg.Categories()
	lookup := seriesLookup(cfg.Series)
	bar.SetXAxis(categories)
	for i, s := range cfg.Series {
		data := make([]opts.BarData, len(categories))
		for j, c := range categories {
			if v, ok := lookup[i][c]; ok {
				data[j] = opts.BarData{Value: v}
			} else {
				data[j] = opts.BarData{Value: "-"}
			}
		}
		bar.AddSeries(s.Name, data, itemColor(s.Color)...)
	}
	return bar
}

func (r *HTMLRenderer) line(cfg *chart.Config) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globals(cfg, "axis")...)
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis}),
	)

	categories := cfg.Categories()
	lookup := seriesLookup(cfg.Series)
	line.SetXAxis(categories)
	for i, s := range cfg.Series {
		data := make([]opts.LineData, len(categories))
		for j, c := range categories {
			if v, ok := lookup[i][c]; ok {
				data[j] = opts.LineData{Value: v}
			} else {
				data[j] = opts.LineData{Value: "-"}
			}
		}
		seriesOpts := itemColor(s.Color)
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}))
		}
		line.AddSeries(s.Name, data, seriesOpts...)
	}
	return line
}

func (r *HTMLRenderer) pie(cfg *chart.Config) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globals(cfg, "item")...)
	if len(cfg.Colors) > 0 {
		pie.SetGlobalOptions(charts.WithColorsOpts(opts.Colors(cfg.Colors)))
	}

	s := cfg.Series[0]
	data := make([]opts.PieData, len(s.Data))
	for i, p := range s.Data {
		data[i] = opts.PieData{Name: p.DisplayLabel(), Value: p.Value}
	}
	pie.AddSeries(s.Name, data)
	return pie
}

func itemColor(c string) []charts.SeriesOpts {
	if c == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: c})}
}
