// Package state holds the active chart configuration and notifies
// subscribers whenever it changes.
package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// SELECTION — optional column name
// ============================================================================

// Selection is an optional column name.
type Selection struct {
	name string
	ok   bool
}

// NoSelection returns the empty selection.
func NoSelection() Selection { return Selection{} }

// Selected returns a selection of name. An empty name is no selection.
func Selected(name string) Selection {
	if name == "" {
		return Selection{}
	}
	return Selection{name: name, ok: true}
}

// Get returns the selected column and whether one is set.
func (s Selection) Get() (string, bool) { return s.name, s.ok }

// IsSet reports whether a column is selected.
func (s Selection) IsSet() bool { return s.ok }

// Name returns the selected column, or "" when none is set.
func (s Selection) Name() string { return s.name }

func (s Selection) String() string {
	if !s.ok {
		return "<none>"
	}
	return s.name
}

// ============================================================================
// COLUMNS — immutable ordered unique column list
// ============================================================================

// Columns is an immutable ordered list of unique column names.
type Columns struct {
	names []string
}

// NewColumns copies names, dropping empty and repeated entries.
func NewColumns(names ...string) Columns {
	if len(names) == 0 {
		return Columns{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return Columns{names: out}
}

// Len returns the number of columns.
func (c Columns) Len() int { return len(c.names) }

// Empty reports whether the list is empty.
func (c Columns) Empty() bool { return len(c.names) == 0 }

// At returns the i-th column.
func (c Columns) At(i int) string { return c.names[i] }

// First returns the first column, if any.
func (c Columns) First() (string, bool) {
	if len(c.names) == 0 {
		return "", false
	}
	return c.names[0], true
}

// Contains reports whether name is in the list.
func (c Columns) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Slice returns a fresh copy of the names.
func (c Columns) Slice() []string {
	return slices.Clone(c.names)
}

// Without returns the list minus the given names.
func (c Columns) Without(names ...string) Columns {
	out := make([]string, 0, len(c.names))
	for _, n := range c.names {
		if !slices.Contains(names, n) {
			out = append(out, n)
		}
	}
	return Columns{names: out}
}

// With returns the list with names appended, skipping ones already present.
func (c Columns) With(names ...string) Columns {
	return NewColumns(append(slices.Clone(c.names), names...)...)
}

// Equal compares two lists by value and order.
func (c Columns) Equal(o Columns) bool {
	return slices.Equal(c.names, o.names)
}

func (c Columns) String() string {
	return "[" + strings.Join(c.names, ", ") + "]"
}

// ============================================================================
// CHART STATE
// ============================================================================

// ChartState is the active visualization configuration. It is a value:
// copies never share mutable data.
type ChartState struct {
	Type chart.Type
	X    Selection
	Y    Columns
}

// Default returns the state used on load and reset: bar, no X, no Y.
func Default() ChartState {
	return ChartState{Type: chart.Default}
}

// New builds a state from plain values. An empty x means no selection.
func New(t chart.Type, x string, ys ...string) ChartState {
	return ChartState{Type: t, X: Selected(x), Y: NewColumns(ys...)}
}

// Equal compares two states by value.
func (s ChartState) Equal(o ChartState) bool {
	return s.Type == o.Type && s.X == o.X && s.Y.Equal(o.Y)
}

// Complete reports whether both axes are set.
func (s ChartState) Complete() bool {
	return s.X.IsSet() && !s.Y.Empty()
}

// WithType returns a copy with a different chart type.
func (s ChartState) WithType(t chart.Type) ChartState {
	s.Type = t
	return s
}

func (s ChartState) String() string {
	return fmt.Sprintf("%s x=%s y=%s", s.Type, s.X, s.Y)
}
