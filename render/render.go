// Package render draws chart configurations and keeps a live view of a
// state model.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/chartkit/chart"
)

// ============================================================================
// RENDERERS — chart.Config → bytes
// ============================================================================
// PNG and SVG go through go-chart, HTML through go-echarts. Both consume the
// same chart.Config produced by engine.BuildChart.
// ============================================================================

// Format is an output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatHTML Format = "html"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
	DefaultTheme  = "westeros"
)

var (
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("render: unsupported format")

	// ErrNothingToRender is returned for a nil config or one without data.
	ErrNothingToRender = errors.New("render: nothing to render")
)

// Renderer writes one chart.
type Renderer interface {
	Render(w io.Writer, cfg *chart.Config) error
	Format() Format
}

// Options sizes and themes the output. Zero fields take the defaults.
type Options struct {
	Width  int
	Height int
	Theme  string // HTML only
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	return o
}

// ParseFormat accepts "png", "svg" or "html", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// New returns the renderer for format.
func New(format Format, opts Options) (Renderer, error) {
	opts = opts.withDefaults()
	switch format {
	case FormatPNG, FormatSVG:
		return &ImageRenderer{format: format, width: opts.Width, height: opts.Height}, nil
	case FormatHTML:
		return &HTMLRenderer{width: opts.Width, height: opts.Height, theme: opts.Theme}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// WriteFile renders cfg to path with r. The file is removed again when
// rendering fails.
func WriteFile(r Renderer, path string, cfg *chart.Config) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("render: close %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := r.Render(f, cfg); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

func hasData(cfg *chart.Config) bool {
	if cfg == nil {
		return false
	}
	for _, s := range cfg.Series {
		if len(s.Data) > 0 {
			return true
		}
	}
	return false
}
