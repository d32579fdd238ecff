// Package session wires the validator, the command history and the state
// model together. It is the entry point for UI input: every edit is
// validated, shown on the error board, and only then turned into a command.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/command"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/internal/log"
	"github.com/spektr-org/chartkit/state"
	"github.com/spektr-org/chartkit/validate"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrInvalid is wrapped by every InvalidRequestError.
	ErrInvalid = errors.New("invalid chart request")

	ErrNilModel   = errors.New("session: nil state model")
	ErrNilHistory = errors.New("session: nil command manager")
)

// InvalidRequestError carries the validation result that blocked an edit.
type InvalidRequestError struct {
	Op     string
	Result *validate.Result
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrInvalid, e.Result.Error())
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalid
}

// ============================================================================
// SESSION
// ============================================================================

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngineOptions sets the options passed to engine.Aggregate.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Session) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// Session is one interactive charting session. Not safe for concurrent use.
type Session struct {
	model   *state.Model
	history *command.Manager
	board   *validate.Board

	engineOpts []engine.Option
	logger     *zap.Logger
}

// New returns a session driving model through history.
func New(model *state.Model, history *command.Manager, opts ...Option) (*Session, error) {
	if model == nil {
		log.Error("session: cannot start", zap.Error(ErrNilModel))
		return nil, ErrNilModel
	}
	if history == nil {
		log.Error("session: cannot start", zap.Error(ErrNilHistory))
		return nil, ErrNilHistory
	}

	s := &Session{
		model:   model,
		history: history,
		board:   validate.NewBoard(),
		logger:  log.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start builds a fresh model and history and returns a session over them.
func Start(opts ...Option) *Session {
	model := state.NewModel()
	history, _ := command.NewManager(model)
	s, _ := New(model, history, opts...)
	return s
}

// Model returns the state model, for subscribing renderers.
func (s *Session) Model() *state.Model { return s.model }

// History returns the command manager.
func (s *Session) History() *command.Manager { return s.history }

// Board returns the error display.
func (s *Session) Board() *validate.Board { return s.board }

// State returns the current chart state.
func (s *Session) State() state.ChartState { return s.model.State() }

// Dataset returns the loaded dataset, or nil.
func (s *Session) Dataset() *dataset.Dataset { return s.model.Dataset() }

// ============================================================================
// DATASET LIFECYCLE
// ============================================================================

// Load replaces the dataset, resets the chart state and forgets the edit
// history and any shown errors. A nil dataset is the same as Close.
func (s *Session) Load(ds *dataset.Dataset) {
	s.history.Clear()
	s.board.Clear()
	s.model.SetDataset(ds)
	if ds != nil {
		s.logger.Info("session: dataset loaded",
			zap.Int("rows", ds.Len()),
			zap.Strings("columns", ds.Columns()))
	}
}

// Close drops the dataset, the chart state, the history and shown errors.
func (s *Session) Close() {
	s.history.Clear()
	s.board.Clear()
	s.model.ResetState()
	s.logger.Info("session: closed")
}

// ============================================================================
// EDITS
// ============================================================================

// Update requests a whole new configuration.
func (s *Session) Update(t chart.Type, x string, ys ...string) error {
	res := validate.Validate(s.model.Dataset(), t, x, ys)
	if err := s.check("update", res); err != nil {
		return err
	}
	cur := s.model.State()
	return s.execute(command.NewUpdateChartState(cur, state.New(t, x, res.YColumns...)))
}

// SetChartType switches the chart type. When both axes are set the whole
// configuration is validated; otherwise only the type and dataset are.
func (s *Session) SetChartType(t chart.Type) error {
	cur := s.model.State()
	var res *validate.Result
	if cur.Complete() {
		res = validate.Validate(s.model.Dataset(), t, cur.X.Name(), cur.Y.Slice())
	} else {
		res = validate.Validate(s.model.Dataset(), t, "", nil)
		res = onlyErrors(res, validate.CodeNoDataLoaded, validate.CodeUnknownChartType)
	}
	if err := s.check("set chart type", res); err != nil {
		return err
	}
	return s.execute(command.NewChangeChartType(cur, t))
}

// SetX selects the X column, keeping type and Y columns.
func (s *Session) SetX(x string) error {
	cur := s.model.State()
	return s.Update(cur.Type, x, cur.Y.Slice()...)
}

// SetY selects the Y columns, keeping type and X column.
func (s *Session) SetY(ys ...string) error {
	cur := s.model.State()
	return s.Update(cur.Type, cur.X.Name(), ys...)
}

// Swap trades the X column with the first Y column. The old X becomes the
// first Y column; remaining Y columns stay in place.
func (s *Session) Swap() error {
	cur := s.model.State()
	first, _ := cur.Y.First()
	res := validate.ValidateSwap(s.model.Dataset(), cur.X.Name(), first)
	if err := s.check("swap", res); err != nil {
		return err
	}

	ys := append([]string{cur.X.Name()}, cur.Y.Without(first).Slice()...)
	next := state.New(cur.Type, first, ys...)
	return s.execute(command.NewUpdateChartState(cur, next))
}

// SwapSelection applies a swap of panel selections x and y: the chart
// becomes X=y, Y=[x] with the current type.
func (s *Session) SwapSelection(x, y string) error {
	res := validate.ValidateSwap(s.model.Dataset(), x, y)
	if err := s.check("swap", res); err != nil {
		return err
	}
	return s.Update(s.model.State().Type, y, x)
}

// Hide removes columns from the Y axis. Hiding every Y column is rejected.
func (s *Session) Hide(cols ...string) error {
	cur := s.model.State()
	cmd := command.NewHideColumns(cur, cols...)
	after := cmd.After()
	res := validate.Validate(s.model.Dataset(), after.Type, after.X.Name(), after.Y.Slice())
	if err := s.check("hide", res); err != nil {
		return err
	}
	return s.execute(cmd)
}

// Show adds dataset columns to the Y axis.
func (s *Session) Show(cols ...string) error {
	cur := s.model.State()
	cmd := command.NewShowColumns(cur, cols, s.model.Dataset().Columns())
	after := cmd.After()
	res := validate.Validate(s.model.Dataset(), after.Type, after.X.Name(), after.Y.Slice())
	if err := s.check("show", res); err != nil {
		return err
	}
	return s.execute(cmd)
}

// Undo reverts the last edit. It reports false when there was nothing to undo.
func (s *Session) Undo() (bool, error) {
	ok, err := s.history.Undo()
	if ok {
		s.board.Clear()
	}
	return ok, err
}

// Redo re-applies the last undone edit. It reports false when there was
// nothing to redo.
func (s *Session) Redo() (bool, error) {
	ok, err := s.history.Redo()
	if ok {
		s.board.Clear()
	}
	return ok, err
}

// Aggregate runs the aggregation for the current state.
func (s *Session) Aggregate() (*engine.Result, error) {
	st := s.model.State()
	return engine.Aggregate(s.model.Dataset(), st.Type, st.X.Name(), st.Y.Slice(), s.engineOpts...)
}

// ============================================================================
// INTERNALS
// ============================================================================

// check shows res on the board and converts errors into an InvalidRequestError.
func (s *Session) check(op string, res *validate.Result) error {
	s.board.Show(res)
	for _, w := range res.Warnings {
		s.logger.Warn("session: column ignored",
			zap.String("op", op),
			zap.String("column", w.Column),
			zap.String("reason", w.Message))
	}
	if res.Valid() {
		return nil
	}
	s.logger.Debug("session: request rejected", zap.String("op", op), zap.String("errors", res.Error()))
	return &InvalidRequestError{Op: op, Result: res}
}

// execute runs cmd unless it would leave the state unchanged.
func (s *Session) execute(cmd command.Command) error {
	if !cmd.Changes() {
		return nil
	}
	if err := s.history.Execute(cmd); err != nil {
		return fmt.Errorf("execute %s: %w", cmd.Kind(), err)
	}
	return nil
}

// onlyErrors keeps the errors of res whose code is one of codes.
func onlyErrors(res *validate.Result, codes ...validate.Code) *validate.Result {
	out := &validate.Result{Warnings: res.Warnings, YColumns: res.YColumns}
	for _, e := range res.Errors {
		for _, c := range codes {
			if e.Code == c {
				out.Errors = append(out.Errors, e)
				break
			}
		}
	}
	return out
}
