package command

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/state"
)

func newManager(t *testing.T) (*Manager, *state.Model) {
	t.Helper()
	model := state.NewModel()
	m, err := NewManager(model)
	require.NoError(t, err)
	return m, model
}

// ============================================================================
// VARIANTS
// ============================================================================

func TestCommandVariants(t *testing.T) {
	before := state.New(chart.Bar, "region", "sales", "units")

	tests := []struct {
		name  string
		cmd   Command
		kind  Kind
		after state.ChartState
	}{
		{
			name:  "update",
			cmd:   NewUpdateChartState(before, state.New(chart.Line, "month", "sales")),
			kind:  KindUpdateChartState,
			after: state.New(chart.Line, "month", "sales"),
		},
		{
			name:  "change type",
			cmd:   NewChangeChartType(before, chart.Pie),
			kind:  KindChangeChartType,
			after: state.New(chart.Pie, "region", "sales", "units"),
		},
		{
			name:  "hide",
			cmd:   NewHideColumns(before, "sales", "ghost"),
			kind:  KindHideColumns,
			after: state.New(chart.Bar, "region", "units"),
		},
		{
			name:  "show",
			cmd:   NewShowColumns(before, []string{"region", "units", "cost", "ghost"}, []string{"region", "sales", "units", "cost"}),
			kind:  KindShowColumns,
			after: state.New(chart.Bar, "region", "sales", "units", "cost"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.cmd.Kind())
			assert.NotEqual(t, uuid.Nil, tt.cmd.ID())
			assert.True(t, tt.cmd.Before().Equal(before))
			assert.True(t, tt.cmd.After().Equal(tt.after), "after = %s", tt.cmd.After())
			assert.True(t, tt.cmd.Changes())

			fwd, err := tt.cmd.Target(Forward)
			require.NoError(t, err)
			assert.True(t, fwd.Equal(tt.after))

			back, err := tt.cmd.Target(Backward)
			require.NoError(t, err)
			assert.True(t, back.Equal(before))
		})
	}
}

func TestCommandDescriptions(t *testing.T) {
	before := state.New(chart.Bar, "region", "sales", "units")
	assert.Equal(t, "hide sales", NewHideColumns(before, "sales").Description())
	assert.Equal(t, "show cost", NewShowColumns(before, []string{"cost"}, []string{"cost"}).Description())
	assert.Equal(t, "chart type bar → pie", NewChangeChartType(before, chart.Pie).Description())
}

func TestShowColumnsWithNothingNewIsNoChange(t *testing.T) {
	before := state.New(chart.Bar, "region", "sales")
	cmd := NewShowColumns(before, []string{"sales", "region"}, []string{"region", "sales"})
	assert.False(t, cmd.Changes())
	assert.True(t, cmd.Columns().Empty())
}

func TestCommandIDsAreUnique(t *testing.T) {
	s := state.Default()
	a := NewUpdateChartState(s, s)
	b := NewUpdateChartState(s, s)
	assert.NotEqual(t, a.ID(), b.ID())
}

// ============================================================================
// MANAGER
// ============================================================================

func TestNewManagerRejectsNilTarget(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrNilTarget)
}

func TestExecuteUndoRedoRoundTrip(t *testing.T) {
	m, model := newManager(t)
	s0 := model.State()
	s1 := state.New(chart.Bar, "region", "sales")
	s2 := state.New(chart.Line, "region", "sales")

	require.NoError(t, m.Execute(NewUpdateChartState(s0, s1)))
	require.NoError(t, m.Execute(NewChangeChartType(s1, chart.Line)))
	assert.True(t, model.State().Equal(s2))

	ok, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, model.State().Equal(s1))

	ok, err = m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, model.State().Equal(s0))

	ok, err = m.Undo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, model.State().Equal(s0))

	ok, err = m.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, model.State().Equal(s1))

	ok, err = m.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, model.State().Equal(s2))

	ok, err = m.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExecuteClearsRedoStack(t *testing.T) {
	m, model := newManager(t)
	s1 := state.New(chart.Bar, "region", "sales")

	require.NoError(t, m.Execute(NewUpdateChartState(model.State(), s1)))
	_, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, m.CanRedo())

	require.NoError(t, m.Execute(NewUpdateChartState(model.State(), state.New(chart.Pie, "region", "sales"))))
	assert.False(t, m.CanRedo())

	ok, err := m.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, m.History(), 1)
}

func TestClearDropsHistoryWithoutApplying(t *testing.T) {
	m, model := newManager(t)
	s1 := state.New(chart.Bar, "region", "sales")
	require.NoError(t, m.Execute(NewUpdateChartState(model.State(), s1)))

	calls := 0
	model.Subscribe(func(state.Event) { calls++ })
	m.Clear()

	assert.Equal(t, 0, calls)
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.True(t, model.State().Equal(s1))
}

func TestReentrantCallsAreRejected(t *testing.T) {
	m, model := newManager(t)
	s1 := state.New(chart.Bar, "region", "sales")

	var nestedExec, nestedUndo, nestedRedo error
	model.Subscribe(func(state.Event) {
		nestedExec = m.Execute(NewChangeChartType(s1, chart.Pie))
		_, nestedUndo = m.Undo()
		_, nestedRedo = m.Redo()
	})

	require.NoError(t, m.Execute(NewUpdateChartState(model.State(), s1)))
	assert.ErrorIs(t, nestedExec, ErrReentrant)
	assert.ErrorIs(t, nestedUndo, ErrReentrant)
	assert.ErrorIs(t, nestedRedo, ErrReentrant)

	assert.True(t, model.State().Equal(s1))
	assert.Len(t, m.History(), 1)
}

func TestExecuteRejectsZeroCommand(t *testing.T) {
	m, _ := newManager(t)
	assert.ErrorIs(t, m.Execute(Command{}), ErrZeroCommand)

	_, err := Command{kind: Kind(99)}.Target(Forward)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

// randomCommand builds one edit against cur from a small column pool.
func randomCommand(rng *rand.Rand, cur state.ChartState) Command {
	columns := []string{"region", "month", "sales", "units", "cost"}
	types := []chart.Type{chart.Bar, chart.Line, chart.Pie}
	pick := func() string { return columns[rng.IntN(len(columns))] }

	switch rng.IntN(5) {
	case 0:
		x := pick()
		var ys []string
		for range rng.IntN(3) + 1 {
			if y := pick(); y != x {
				ys = append(ys, y)
			}
		}
		return NewUpdateChartState(cur, state.New(types[rng.IntN(len(types))], x, ys...))
	case 1:
		return NewChangeChartType(cur, types[rng.IntN(len(types))])
	case 2:
		// swap: first Y becomes X, old X leads the Y list
		y, ok := cur.Y.First()
		if !ok || !cur.X.IsSet() {
			return NewChangeChartType(cur, cur.Type)
		}
		ys := append([]string{cur.X.Name()}, cur.Y.Without(y).Slice()...)
		return NewUpdateChartState(cur, state.New(cur.Type, y, ys...))
	case 3:
		return NewHideColumns(cur, pick(), pick())
	default:
		return NewShowColumns(cur, []string{pick(), pick()}, columns)
	}
}

func TestRandomHistoriesUndoToStart(t *testing.T) {
	rng := rand.New(rand.NewPCG(20261019, 7))

	for trial := range 200 {
		m, model := newManager(t)
		start := state.New(chart.Bar, "region", "sales")
		model.Apply(start)

		// past mirrors the executed stack: the state before each command
		var past, future []state.ChartState
		for step := range 40 {
			cur := model.State()
			switch op := rng.IntN(10); {
			case op < 6:
				require.NoError(t, m.Execute(randomCommand(rng, cur)))
				past = append(past, cur)
				future = nil
			case op < 8:
				ok, err := m.Undo()
				require.NoError(t, err)
				require.Equal(t, len(past) > 0, ok)
				if ok {
					want := past[len(past)-1]
					past = past[:len(past)-1]
					future = append(future, cur)
					require.True(t, model.State().Equal(want), "trial %d step %d: undo gave %s, want %s", trial, step, model.State(), want)
				}
			default:
				ok, err := m.Redo()
				require.NoError(t, err)
				require.Equal(t, len(future) > 0, ok)
				if ok {
					want := future[len(future)-1]
					future = future[:len(future)-1]
					past = append(past, cur)
					require.True(t, model.State().Equal(want), "trial %d step %d: redo gave %s, want %s", trial, step, model.State(), want)
				}
			}
		}

		for m.CanUndo() {
			_, err := m.Undo()
			require.NoError(t, err)
		}
		require.True(t, model.State().Equal(start), "trial %d ended at %s", trial, model.State())
	}
}
