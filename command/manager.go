package command

import (
	"errors"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/internal/log"
	"github.com/spektr-org/chartkit/state"
)

var (
	// ErrReentrant is returned when Execute, Undo or Redo is called while a
	// previous call is still notifying listeners.
	ErrReentrant = errors.New("command: history changed during notification")

	// ErrNilTarget is returned by NewManager for a nil target.
	ErrNilTarget = errors.New("command: nil target")

	// ErrZeroCommand is returned by Execute for a command not built by a constructor.
	ErrZeroCommand = errors.New("command: zero command")

	// ErrUnknownKind is returned for a command with an unknown variant tag.
	ErrUnknownKind = errors.New("command: unknown kind")
)

// Target is the state holder commands act on. *state.Model implements it.
type Target interface {
	Apply(state.ChartState)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager keeps the executed and undone stacks. Executing a new command
// discards everything that was undone.
type Manager struct {
	target Target
	done   []Command
	undone []Command
	busy   bool
	logger *zap.Logger
}

// NewManager returns a manager applying commands to target.
func NewManager(target Target, opts ...Option) (*Manager, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	m := &Manager{target: target, logger: log.Logger()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Execute applies cmd, pushes it on the history and clears the redo stack.
func (m *Manager) Execute(cmd Command) error {
	if cmd.IsZero() {
		return ErrZeroCommand
	}
	if err := m.apply(cmd, Forward); err != nil {
		return err
	}
	m.done = append(m.done, cmd)
	m.undone = m.undone[:0]
	m.logger.Debug("command: execute",
		zap.String("id", cmd.ID().String()),
		zap.Stringer("kind", cmd.Kind()),
		zap.String("description", cmd.Description()))
	return nil
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (m *Manager) Undo() (bool, error) {
	if m.busy {
		return false, ErrReentrant
	}
	if len(m.done) == 0 {
		return false, nil
	}
	cmd := m.done[len(m.done)-1]
	if err := m.apply(cmd, Backward); err != nil {
		return false, err
	}
	m.done = m.done[:len(m.done)-1]
	m.undone = append(m.undone, cmd)
	m.logger.Debug("command: undo", zap.String("id", cmd.ID().String()), zap.Stringer("kind", cmd.Kind()))
	return true, nil
}

// Redo re-applies the most recently undone command. It reports false when
// there is nothing to redo.
func (m *Manager) Redo() (bool, error) {
	if m.busy {
		return false, ErrReentrant
	}
	if len(m.undone) == 0 {
		return false, nil
	}
	cmd := m.undone[len(m.undone)-1]
	if err := m.apply(cmd, Forward); err != nil {
		return false, err
	}
	m.undone = m.undone[:len(m.undone)-1]
	m.done = append(m.done, cmd)
	m.logger.Debug("command: redo", zap.String("id", cmd.ID().String()), zap.Stringer("kind", cmd.Kind()))
	return true, nil
}

// Clear empties both stacks without running any command.
func (m *Manager) Clear() {
	m.done = nil
	m.undone = nil
}

// CanUndo reports whether Undo would do something.
func (m *Manager) CanUndo() bool { return len(m.done) > 0 }

// CanRedo reports whether Redo would do something.
func (m *Manager) CanRedo() bool { return len(m.undone) > 0 }

// History returns the executed commands, oldest first.
func (m *Manager) History() []Command {
	return append([]Command(nil), m.done...)
}

// Undone returns the commands available to Redo, next-to-redo last.
func (m *Manager) Undone() []Command {
	return append([]Command(nil), m.undone...)
}

func (m *Manager) apply(cmd Command, d Direction) error {
	if m.busy {
		m.logger.Warn("command: rejected re-entrant call", zap.Stringer("kind", cmd.Kind()))
		return ErrReentrant
	}
	target, err := cmd.Target(d)
	if err != nil {
		return err
	}

	m.busy = true
	defer func() { m.busy = false }()
	m.target.Apply(target)
	return nil
}
