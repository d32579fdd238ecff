package engine

import (
	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/internal/log"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Aggregate()
// ============================================================================

// DefaultPlaceholder is the category used for rows whose X value is absent.
const DefaultPlaceholder = "N/A"

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Placeholder string // category for absent X values
	Logger      *zap.Logger
}

// WithPlaceholder sets the category label used for absent X values.
// An empty label keeps the default "N/A".
func WithPlaceholder(label string) Option {
	return func(c *config) {
		if label != "" {
			c.Placeholder = label
		}
	}
}

// WithLogger routes diagnostics to l instead of the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Placeholder: DefaultPlaceholder,
		Logger:      log.Logger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
