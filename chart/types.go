// Package chart holds the chart vocabulary shared by the engine, the state
// model and the renderers.
package chart

import (
	"fmt"
	"strings"
)

// ============================================================================
// CHART TYPE
// ============================================================================

// Type is one of the built-in chart kinds.
type Type int

const (
	Bar Type = iota
	Line
	Pie
)

// Default is the chart type used on load and reset.
const Default = Bar

// Types lists the supported chart types in menu order.
var Types = []Type{Bar, Line, Pie}

// String returns the lower-case name of the chart type.
func (t Type) String() string {
	switch t {
	case Bar:
		return "bar"
	case Line:
		return "line"
	case Pie:
		return "pie"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Valid reports whether t is one of the built-in chart types.
func (t Type) Valid() bool {
	return t == Bar || t == Line || t == Pie
}

// ParseType converts "bar", "line" or "pie" (any case) into a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bar":
		return Bar, nil
	case "line":
		return Line, nil
	case "pie":
		return Pie, nil
	}
	return Bar, fmt.Errorf("unsupported chart type %q (must be bar, line, or pie)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unsupported chart type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ============================================================================
// SERIES
// ============================================================================

// Series is a named, ordered sequence of category points.
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
}

// Point is a single category value. Percent and Annotation are only set on
// pie slices.
type Point struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percent    float64 `json:"percent,omitempty"`
	Annotation string  `json:"annotation,omitempty"`
}

// Labels returns the point labels of a series in order.
func (s Series) Labels() []string {
	labels := make([]string, len(s.Data))
	for i, p := range s.Data {
		labels[i] = p.Label
	}
	return labels
}

// Values returns the point values of a series in order.
func (s Series) Values() []float64 {
	values := make([]float64, len(s.Data))
	for i, p := range s.Data {
		values[i] = p.Value
	}
	return values
}

// DisplayLabel returns the label with its annotation, e.g. "North (42.9%)".
func (p Point) DisplayLabel() string {
	if p.Annotation == "" {
		return p.Label
	}
	return p.Label + " (" + p.Annotation + ")"
}

// ============================================================================
// CONFIG
// ============================================================================

// Config is everything a renderer needs to draw one chart.
type Config struct {
	Type       Type     `json:"chartType"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors,omitempty"`
	ShowLegend bool     `json:"showLegend"`
	ShowGrid   bool     `json:"showGrid"`
}

// Categories returns the union of point labels across all series in
// first-seen order.
func (c *Config) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.Series {
		for _, p := range s.Data {
			if !seen[p.Label] {
				seen[p.Label] = true
				out = append(out, p.Label)
			}
		}
	}
	return out
}
