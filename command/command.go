// Package command implements reversible chart-state edits and the
// undo/redo history that drives them.
package command

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/state"
)

// ============================================================================
// COMMAND — Tagged union of reversible edits
// ============================================================================
// Every variant carries plain values only. The state a command moves the
// model to is computed by the variant's dispatcher for a direction.
// ============================================================================

// Kind tags a command variant.
type Kind int

const (
	KindUpdateChartState Kind = iota + 1
	KindChangeChartType
	KindHideColumns
	KindShowColumns
)

func (k Kind) String() string {
	switch k {
	case KindUpdateChartState:
		return "update_chart_state"
	case KindChangeChartType:
		return "change_chart_type"
	case KindHideColumns:
		return "hide_columns"
	case KindShowColumns:
		return "show_columns"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Direction selects execute (Forward) or undo (Backward).
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Command is an immutable reversible edit.
type Command struct {
	id          uuid.UUID
	kind        Kind
	description string

	before state.ChartState
	after  state.ChartState

	chartType chart.Type    // ChangeChartType
	columns   state.Columns // HideColumns, ShowColumns
}

// ID returns the unique command id.
func (c Command) ID() uuid.UUID { return c.id }

// Kind returns the variant tag.
func (c Command) Kind() Kind { return c.kind }

// Description is a short human-readable summary, e.g. "hide units".
func (c Command) Description() string { return c.description }

// Before returns the state the command was built against.
func (c Command) Before() state.ChartState { return c.before }

// After returns the state the command moves to.
func (c Command) After() state.ChartState { return c.after }

// Columns returns the columns a hide/show command acts on.
func (c Command) Columns() state.Columns { return c.columns }

// Changes reports whether executing the command alters the state.
func (c Command) Changes() bool { return !c.before.Equal(c.after) }

// IsZero reports whether c was not built by a constructor.
func (c Command) IsZero() bool { return c.kind == 0 }

// Target returns the state the command moves to in direction d.
func (c Command) Target(d Direction) (state.ChartState, error) {
	fn, ok := dispatch[c.kind]
	if !ok {
		return state.ChartState{}, fmt.Errorf("%w: %s", ErrUnknownKind, c.kind)
	}
	return fn(c, d), nil
}

func (c Command) String() string {
	return fmt.Sprintf("%s %s", c.kind, c.description)
}

// ============================================================================
// CONSTRUCTORS
// ============================================================================

// NewUpdateChartState replaces the whole state.
func NewUpdateChartState(before, after state.ChartState) Command {
	return Command{
		id:          uuid.New(),
		kind:        KindUpdateChartState,
		description: fmt.Sprintf("set %s", after),
		before:      before,
		after:       after,
	}
}

// NewChangeChartType switches the chart type and keeps both axes.
func NewChangeChartType(before state.ChartState, t chart.Type) Command {
	c := Command{
		id:          uuid.New(),
		kind:        KindChangeChartType,
		description: fmt.Sprintf("chart type %s → %s", before.Type, t),
		before:      before,
		chartType:   t,
	}
	c.after = changeChartType(c, Forward)
	return c
}

// NewHideColumns removes cols from the Y columns.
func NewHideColumns(before state.ChartState, cols ...string) Command {
	hidden := make([]string, 0, len(cols))
	for _, col := range cols {
		if before.Y.Contains(col) {
			hidden = append(hidden, col)
		}
	}
	c := Command{
		id:          uuid.New(),
		kind:        KindHideColumns,
		description: "hide " + strings.Join(hidden, ", "),
		before:      before,
		columns:     state.NewColumns(hidden...),
	}
	c.after = hideColumns(c, Forward)
	return c
}

// NewShowColumns appends cols to the Y columns. Columns not in available,
// equal to X or already shown are skipped.
func NewShowColumns(before state.ChartState, cols []string, available []string) Command {
	known := make(map[string]bool, len(available))
	for _, a := range available {
		known[a] = true
	}

	shown := make([]string, 0, len(cols))
	for _, col := range cols {
		if !known[col] || col == before.X.Name() || before.Y.Contains(col) {
			continue
		}
		shown = append(shown, col)
	}
	c := Command{
		id:          uuid.New(),
		kind:        KindShowColumns,
		description: "show " + strings.Join(shown, ", "),
		before:      before,
		columns:     state.NewColumns(shown...),
	}
	c.after = showColumns(c, Forward)
	return c
}

// ============================================================================
// DISPATCH — one function per variant
// ============================================================================

var dispatch = map[Kind]func(Command, Direction) state.ChartState{
	KindUpdateChartState: updateChartState,
	KindChangeChartType:  changeChartType,
	KindHideColumns:      hideColumns,
	KindShowColumns:      showColumns,
}

func updateChartState(c Command, d Direction) state.ChartState {
	if d == Backward {
		return c.before
	}
	return c.after
}

func changeChartType(c Command, d Direction) state.ChartState {
	if d == Backward {
		return c.before
	}
	return c.before.WithType(c.chartType)
}

func hideColumns(c Command, d Direction) state.ChartState {
	if d == Backward {
		return c.before
	}
	next := c.before
	next.Y = c.before.Y.Without(c.columns.Slice()...)
	return next
}

func showColumns(c Command, d Direction) state.ChartState {
	if d == Backward {
		return c.before
	}
	next := c.before
	next.Y = c.before.Y.With(c.columns.Slice()...)
	return next
}
