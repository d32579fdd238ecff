package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/render"
	"github.com/spektr-org/chartkit/session"
	"github.com/spektr-org/chartkit/validate"
)

// ============================================================================
// STEP RUNNER — One edit against a session
// ============================================================================
// Shared by `replay` (steps from a YAML script) and `shell` (steps typed one
// per line). Rejected edits leave the chart unchanged and report the
// per-field messages from the session board.
// ============================================================================

// Step is one edit.
type Step struct {
	Op      string   `yaml:"op"`
	Type    string   `yaml:"type,omitempty"`
	X       string   `yaml:"x,omitempty"`
	Y       []string `yaml:"y,omitempty"`
	Columns []string `yaml:"columns,omitempty"`
}

func (s Step) String() string {
	parts := []string{s.Op}
	if s.Type != "" {
		parts = append(parts, s.Type)
	}
	if s.X != "" {
		parts = append(parts, "x="+s.X)
	}
	if len(s.Y) > 0 {
		parts = append(parts, "y="+strings.Join(s.Y, ","))
	}
	if len(s.Columns) > 0 {
		parts = append(parts, strings.Join(s.Columns, ","))
	}
	return strings.Join(parts, " ")
}

// errInvalidStep marks steps that never reached the session.
var errInvalidStep = errors.New("invalid step")

// runner applies steps to a session and reports on out.
type runner struct {
	sess *session.Session
	view *render.View
	out  io.Writer
	log  *zap.Logger
}

func newRunner(sess *session.Session, out io.Writer, logger *zap.Logger, opts ...render.ViewOption) *runner {
	return &runner{
		sess: sess,
		view: render.NewView(sess.Model(), opts...),
		out:  out,
		log:  logger,
	}
}

// apply runs one step. A rejected edit returns an *session.InvalidRequestError
// after printing the board.
func (r *runner) apply(step Step) error {
	var err error
	switch op := strings.ToLower(step.Op); op {
	case "update", "type":
		t, perr := chart.ParseType(step.Type)
		if perr != nil {
			return fmt.Errorf("%w: %v", errInvalidStep, perr)
		}
		if op == "update" {
			err = r.sess.Update(t, step.X, step.Y...)
		} else {
			err = r.sess.SetChartType(t)
		}
	case "x":
		err = r.sess.SetX(step.X)
	case "y":
		err = r.sess.SetY(step.Y...)
	case "swap":
		if step.X != "" || len(step.Y) > 0 {
			err = r.sess.SwapSelection(step.X, first(step.Y))
		} else {
			err = r.sess.Swap()
		}
	case "hide":
		err = r.sess.Hide(step.Columns...)
	case "show":
		err = r.sess.Show(step.Columns...)
	case "undo":
		return r.history("undo", r.sess.Undo)
	case "redo":
		return r.history("redo", r.sess.Redo)
	default:
		return fmt.Errorf("%w: unknown operation %q", errInvalidStep, step.Op)
	}

	if err != nil {
		r.log.Debug("step rejected", zap.Stringer("step", step), zap.Error(err))
		r.printBoard()
		return err
	}
	r.printState()
	return nil
}

func (r *runner) history(op string, fn func() (bool, error)) error {
	ok, err := fn()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		fmt.Fprintf(r.out, "nothing to %s\n", op)
		return nil
	}
	r.printState()
	return nil
}

func (r *runner) printState() {
	fmt.Fprintf(r.out, "state: %s\n", r.sess.State())
	frame := r.view.Frame()
	if frame.Empty() {
		fmt.Fprintf(r.out, "chart: %s\n", frame.Prompt)
		return
	}
	fmt.Fprintf(r.out, "chart: %s\n", frame.Summary)
}

func (r *runner) printBoard() {
	board := r.sess.Board()
	for _, f := range board.Fields() {
		for _, msg := range board.Field(f) {
			fmt.Fprintf(r.out, "  %s: %s\n", fieldLabel(f), msg)
		}
	}
}

func (r *runner) printHistory() {
	done := r.sess.History().History()
	if len(done) == 0 {
		fmt.Fprintln(r.out, "history: empty")
	}
	for i, cmd := range done {
		fmt.Fprintf(r.out, "%3d  %s\n", i+1, cmd)
	}
	if undone := r.sess.History().Undone(); len(undone) > 0 {
		fmt.Fprintf(r.out, "     (%d undone)\n", len(undone))
	}
}

// table writes the current frame as CSV.
func (r *runner) table(w io.Writer) error {
	frame := r.view.Frame()
	if frame.Empty() {
		return &render.PromptError{Prompt: frame.Prompt}
	}
	return writeTable(w, frame.Result, frame.Config.Title)
}

func fieldLabel(f validate.Field) string {
	switch f {
	case validate.FieldX:
		return "X-Axis"
	case validate.FieldY:
		return "Y-Axis"
	}
	return "Chart"
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// placeholderOption returns the engine option for a configured placeholder.
func placeholderOption(label string) []engine.Option {
	if label == "" {
		return nil
	}
	return []engine.Option{engine.WithPlaceholder(label)}
}
