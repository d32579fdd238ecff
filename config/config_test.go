package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/render"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 480, cfg.Render.Height)
	assert.Equal(t, "png", cfg.Render.Format)
	assert.Equal(t, "westeros", cfg.Render.Theme)
	assert.Equal(t, "N/A", cfg.Aggregation.Placeholder)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "chartkit.yaml", `
render:
  width: 1024
  format: svg
aggregation:
  placeholder: "(blank)"
logging:
  level: debug
`)
	t.Setenv("CHARTKIT_RENDER_HEIGHT", "600")
	t.Setenv("CHARTKIT_LOGGING_FORMAT", "json")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Render.Width)
	assert.Equal(t, 600, cfg.Render.Height)
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, "(blank)", cfg.Aggregation.Placeholder)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.Equal(t, render.Options{Width: 1024, Height: 600, Theme: "westeros"}, cfg.Render.Options())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")

	bad := writeFile(t, dir, "bad.yaml", "render: [unclosed")
	_, err = Load(viper.New(), bad)
	assert.Error(t, err)

	invalid := writeFile(t, dir, "invalid.yaml", "render:\n  width: 0\n  format: gif\nlogging:\n  format: xml\n")
	_, err = Load(viper.New(), invalid)
	require.Error(t, err)
	assert.ErrorContains(t, err, "render size must be positive")
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)
	assert.ErrorContains(t, err, "logging format")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "CHARTKIT_TEST_THEME=dark\n")

	t.Setenv("CHARTKIT_TEST_THEME", "")
	require.NoError(t, os.Unsetenv("CHARTKIT_TEST_THEME"))
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "dark", os.Getenv("CHARTKIT_TEST_THEME"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "nope.env")))
}
