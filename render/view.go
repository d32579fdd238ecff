package render

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/internal/log"
	"github.com/spektr-org/chartkit/state"
)

// ============================================================================
// VIEW — Live chart frame for a state model
// ============================================================================
// A View subscribes to a model and rebuilds its frame on every change.
// When no chart can be produced the frame carries a prompt instead, so a
// stale chart is never shown.
// ============================================================================

// Prompts shown in place of a chart.
const (
	PromptNoData     = "No data available"
	PromptSelectAxes = "Select X and Y columns"
)

// Frame is what a view currently shows: a chart or a prompt.
type Frame struct {
	State   state.ChartState
	Config  *chart.Config
	Result  *engine.Result
	Summary string
	Prompt  string
}

// Empty reports whether the frame shows a prompt rather than a chart.
func (f Frame) Empty() bool {
	return f.Config == nil
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithEngineOptions sets the options passed to engine.Aggregate.
func WithEngineOptions(opts ...engine.Option) ViewOption {
	return func(v *View) {
		v.engineOpts = append(v.engineOpts, opts...)
	}
}

// WithChartOptions overrides titles and axis labels.
func WithChartOptions(opts engine.ChartOptions) ViewOption {
	return func(v *View) {
		v.chartOpts = opts
	}
}

// OnFrame registers fn to be called with every new frame.
func OnFrame(fn func(Frame)) ViewOption {
	return func(v *View) {
		v.onFrame = fn
	}
}

// WithViewLogger sets the logger for frame changes.
func WithViewLogger(l *zap.Logger) ViewOption {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// View keeps a frame in sync with a model.
type View struct {
	model *state.Model
	sub   state.Subscription

	engineOpts []engine.Option
	chartOpts  engine.ChartOptions
	onFrame    func(Frame)
	logger     *zap.Logger

	frame  Frame
	frames int
}

// NewView subscribes to model and builds the first frame.
func NewView(model *state.Model, opts ...ViewOption) *View {
	v := &View{
		model:  model,
		logger: log.Logger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.sub = model.Subscribe(v.update)
	v.update(state.Event{State: model.State(), Dataset: model.Dataset()})
	return v
}

// Frame returns the current frame.
func (v *View) Frame() Frame {
	return v.frame
}

// Frames returns how many frames have been built.
func (v *View) Frames() int {
	return v.frames
}

// Close stops following the model. The last frame stays readable.
func (v *View) Close() {
	v.model.Unsubscribe(v.sub)
}

// Render draws the current frame with r. An empty frame yields
// ErrNothingToRender wrapped with its prompt.
func (v *View) Render(w io.Writer, r Renderer) error {
	if v.frame.Empty() {
		return &PromptError{Prompt: v.frame.Prompt}
	}
	return r.Render(w, v.frame.Config)
}

// PromptError reports that the view has no chart to draw.
type PromptError struct {
	Prompt string
}

func (e *PromptError) Error() string {
	return "render: " + e.Prompt
}

func (e *PromptError) Unwrap() error {
	return ErrNothingToRender
}

func (v *View) update(ev state.Event) {
	v.frame = v.build(ev.State, ev.Dataset)
	v.frames++

	if v.frame.Empty() {
		v.logger.Debug("view: prompt", zap.String("prompt", v.frame.Prompt), zap.Stringer("state", ev.State))
	} else {
		v.logger.Debug("view: chart", zap.String("summary", v.frame.Summary))
	}
	if v.onFrame != nil {
		v.onFrame(v.frame)
	}
}

func (v *View) build(st state.ChartState, ds *dataset.Dataset) Frame {
	f := Frame{State: st}
	if ds == nil || ds.Empty() {
		f.Prompt = PromptNoData
		return f
	}
	if !st.Complete() {
		f.Prompt = PromptSelectAxes
		return f
	}

	res, err := engine.Aggregate(ds, st.Type, st.X.Name(), st.Y.Slice(), v.engineOpts...)
	if err != nil {
		f.Prompt = prompt(err)
		return f
	}
	if res.Empty() {
		f.Prompt = PromptNoData
		return f
	}

	f.Result = res
	f.Config = engine.BuildChart(res, v.chartOpts)
	f.Summary = engine.Summarize(res)
	return f
}

func prompt(err error) string {
	if errors.Is(err, engine.ErrNoData) {
		return PromptNoData
	}
	return err.Error()
}
