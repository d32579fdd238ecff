package render

import (
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/chartkit/chart"
)

// ImageRenderer draws PNG or SVG images with go-chart.
//
// go-chart has no grouped bars, so a bar chart with several series is drawn
// as one bar per category and series, in category order, coloured by
// series.
type ImageRenderer struct {
	format Format
	width  int
	height int
}

// Format reports FormatPNG or FormatSVG.
func (r *ImageRenderer) Format() Format {
	return r.format
}

// Render writes cfg as an image.
func (r *ImageRenderer) Render(w io.Writer, cfg *chart.Config) error {
	if !hasData(cfg) {
		return ErrNothingToRender
	}

	provider := gochart.PNG
	if r.format == FormatSVG {
		provider = gochart.SVG
	}

	var err error
	switch cfg.Type {
	case chart.Bar:
		err = r.bar(cfg).Render(provider, w)
	case chart.Line:
		graph := r.line(cfg)
		err = graph.Render(provider, w)
	case chart.Pie:
		err = r.pie(cfg).Render(provider, w)
	default:
		return fmt.Errorf("%w: chart type %v", ErrUnsupportedFormat, cfg.Type)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", cfg.Type, err)
	}
	return nil
}

// ============================================================================
// CHART BUILDERS
// ============================================================================

func (r *ImageRenderer) bar(cfg *chart.Config) gochart.BarChart {
	categories := cfg.Categories()
	lookup := seriesLookup(cfg.Series)

	var bars []gochart.Value
	var values []float64
	for _, c := range categories {
		for i, s := range cfg.Series {
			v, ok := lookup[i][c]
			if !ok {
				continue
			}
			label := c
			if len(cfg.Series) > 1 {
				label = c + "\n" + s.Name
			}
			bars = append(bars, gochart.Value{
				Label: label,
				Value: v,
				Style: gochart.Style{
					FillColor:   color(s.Color),
					StrokeColor: color(s.Color),
					StrokeWidth: 1,
				},
			})
			values = append(values, v)
		}
	}

	lo, hi := valueRange(values, true)
	return gochart.BarChart{
		Title:      cfg.Title,
		TitleStyle: titleStyle(),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  r.width,
		Height: r.height,
		XAxis:  gochart.Style{FontSize: 9},
		YAxis: gochart.YAxis{
			Name:  cfg.YAxis,
			Style: gochart.Style{FontSize: 10},
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
}

func (r *ImageRenderer) line(cfg *chart.Config) *gochart.Chart {
	categories := cfg.Categories()
	index := make(map[string]float64, len(categories))

	// padding ticks keep a single category from collapsing the x range
	ticks := []gochart.Tick{{Value: -0.5}}
	for i, c := range categories {
		index[c] = float64(i)
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: c})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(len(categories)) - 0.5})

	graph := &gochart.Chart{
		Title:      cfg.Title,
		TitleStyle: titleStyle(),
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Width:  r.width,
		Height: r.height,
		XAxis: gochart.XAxis{
			Name:  cfg.XAxis,
			Style: gochart.Style{FontSize: 9},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  cfg.YAxis,
			Style: gochart.Style{FontSize: 10},
		},
	}

	var all []float64
	for _, s := range cfg.Series {
		xs := make([]float64, 0, len(s.Data))
		ys := make([]float64, 0, len(s.Data))
		for _, p := range s.Data {
			xs = append(xs, index[p.Label])
			ys = append(ys, p.Value)
		}
		all = append(all, ys...)
		graph.Series = append(graph.Series, gochart.ContinuousSeries{
			Name: s.Name,
			Style: gochart.Style{
				StrokeColor: color(s.Color),
				StrokeWidth: 2,
				DotColor:    color(s.Color),
				DotWidth:    4,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	if flat(all) {
		lo, hi := valueRange(all, false)
		graph.YAxis.Range = &gochart.ContinuousRange{Min: lo, Max: hi}
	}
	if cfg.ShowGrid {
		graph.YAxis.GridMajorStyle = gochart.Style{
			StrokeColor: drawing.Color{R: 222, G: 226, B: 230, A: 255},
			StrokeWidth: 1,
		}
	}
	if cfg.ShowLegend && len(cfg.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(graph)}
	}
	return graph
}

func (r *ImageRenderer) pie(cfg *chart.Config) gochart.PieChart {
	s := cfg.Series[0]
	values := make([]gochart.Value, 0, len(s.Data))
	for i, p := range s.Data {
		c := s.Color
		if i < len(cfg.Colors) {
			c = cfg.Colors[i]
		}
		values = append(values, gochart.Value{
			Label: p.DisplayLabel(),
			Value: p.Value,
			Style: gochart.Style{FillColor: color(c)},
		})
	}
	return gochart.PieChart{
		Title:      cfg.Title,
		TitleStyle: titleStyle(),
		Width:      r.width,
		Height:     r.height,
		Values:     values,
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func titleStyle() gochart.Style {
	return gochart.Style{
		FontSize:  16,
		FontColor: drawing.ColorBlack,
	}
}

func color(hex string) drawing.Color {
	if hex == "" {
		return drawing.Color{R: 51, G: 102, B: 204, A: 255}
	}
	return drawing.ColorFromHex(hex)
}

// seriesLookup maps each series index to its label → value table.
func seriesLookup(series []chart.Series) []map[string]float64 {
	out := make([]map[string]float64, len(series))
	for i, s := range series {
		out[i] = make(map[string]float64, len(s.Data))
		for _, p := range s.Data {
			out[i][p.Label] = p.Value
		}
	}
	return out
}

// valueRange returns a y range covering values. With zeroBased the range
// always includes zero. A flat set of values is widened by one either side.
func valueRange(values []float64, zeroBased bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 0
	}
	if zeroBased {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

func flat(values []float64) bool {
	for _, v := range values {
		if v != values[0] {
			return false
		}
	}
	return true
}
