package state

import (
	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/internal/log"
)

// ============================================================================
// MODEL — ChartState + Dataset with synchronous change notification
// ============================================================================
// The model does not validate. Callers (the session) validate first and
// hand the model only legal states.
//
// Not safe for concurrent use. Mutations issued by a listener while a
// notification round is running are queued and applied, each with its own
// notification, after the round completes.
// ============================================================================

// Event is delivered to listeners after every mutation.
type Event struct {
	State   ChartState
	Dataset *dataset.Dataset

	// DatasetChanged is set when the mutation replaced or cleared the dataset.
	DatasetChanged bool
}

// Listener receives model change events.
type Listener func(Event)

// Subscription identifies a registered listener.
type Subscription struct {
	id uint64
}

type subscriber struct {
	id     uint64
	fn     Listener
	active bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for re-entrancy warnings.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// Model holds the current chart state and dataset.
type Model struct {
	state   ChartState
	dataset *dataset.Dataset

	subs   []*subscriber
	nextID uint64

	notifying bool
	pending   []mutation

	logger *zap.Logger
}

type mutation struct {
	op    string
	apply func() bool // reports whether the dataset changed
}

// NewModel returns a model with the default state and no dataset.
func NewModel(opts ...Option) *Model {
	m := &Model{
		state:  Default(),
		logger: log.Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the current chart state.
func (m *Model) State() ChartState {
	return m.state
}

// Dataset returns the loaded dataset, or nil.
func (m *Model) Dataset() *dataset.Dataset {
	return m.dataset
}

// ============================================================================
// MUTATIONS
// ============================================================================

// UpdateState replaces the chart state and notifies listeners.
func (m *Model) UpdateState(t chart.Type, x string, ys ...string) {
	m.Apply(New(t, x, ys...))
}

// Apply replaces the chart state with s and notifies listeners.
func (m *Model) Apply(s ChartState) {
	m.mutate("apply", func() bool {
		m.state = s
		return false
	})
}

// SetDataset replaces the dataset and resets the chart state in one step,
// followed by a single notification. A nil dataset is the same as ResetState.
func (m *Model) SetDataset(ds *dataset.Dataset) {
	if ds == nil {
		m.ResetState()
		return
	}
	m.mutate("set_dataset", func() bool {
		m.dataset = ds
		m.state = Default()
		return true
	})
}

// ResetState restores the default state, clears the dataset and notifies.
func (m *Model) ResetState() {
	m.mutate("reset", func() bool {
		changed := m.dataset != nil
		m.dataset = nil
		m.state = Default()
		return changed
	})
}

func (m *Model) mutate(op string, apply func() bool) {
	if m.notifying {
		m.logger.Warn("state: update during notification queued",
			zap.String("op", op),
			zap.Int("pending", len(m.pending)+1))
		m.pending = append(m.pending, mutation{op: op, apply: apply})
		return
	}

	m.notify(apply())
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		m.notify(next.apply())
	}
}

// ============================================================================
// SUBSCRIPTIONS
// ============================================================================

// Subscribe registers fn. Listeners are called in subscription order.
func (m *Model) Subscribe(fn Listener) Subscription {
	m.nextID++
	m.subs = append(m.subs, &subscriber{id: m.nextID, fn: fn, active: true})
	return Subscription{id: m.nextID}
}

// Unsubscribe removes a listener. A listener removed during a notification
// round is not called for the rest of that round. It reports whether the
// subscription was registered.
func (m *Model) Unsubscribe(sub Subscription) bool {
	for i, s := range m.subs {
		if s.id == sub.id {
			s.active = false
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Listeners returns the number of registered listeners.
func (m *Model) Listeners() int {
	return len(m.subs)
}

func (m *Model) notify(datasetChanged bool) {
	ev := Event{State: m.state, Dataset: m.dataset, DatasetChanged: datasetChanged}
	snapshot := append([]*subscriber(nil), m.subs...)

	m.notifying = true
	defer func() { m.notifying = false }()

	for _, s := range snapshot {
		if s.active {
			s.fn(ev)
		}
	}
}
