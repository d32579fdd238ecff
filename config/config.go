// Package config loads chartkit settings from defaults, a config file,
// the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/spektr-org/chartkit/render"
)

const (
	// DefaultConfigFileName is the config file name without extension.
	DefaultConfigFileName = "chartkit"

	// EnvPrefix prefixes environment overrides, e.g. CHARTKIT_RENDER_WIDTH.
	EnvPrefix = "CHARTKIT"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all chartkit settings.
// Priority: CLI flags > environment > config file > defaults
type Config struct {
	Render      RenderConfig      `mapstructure:"render"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// RenderConfig sizes and formats chart output.
type RenderConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Format string `mapstructure:"format"` // png, svg, html
	Theme  string `mapstructure:"theme"`  // go-echarts theme for html output
}

// AggregationConfig tunes the aggregation engine.
type AggregationConfig struct {
	// Placeholder is the category used for rows with no X value.
	Placeholder string `mapstructure:"placeholder"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Options returns the render options for this config.
func (c RenderConfig) Options() render.Options {
	return render.Options{Width: c.Width, Height: c.Height, Theme: c.Theme}
}

// Validate checks values that cannot be fixed up silently.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height))
	}
	if _, err := render.ParseFormat(c.Render.Format); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging format must be text or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("render.width", render.DefaultWidth)
	v.SetDefault("render.height", render.DefaultHeight)
	v.SetDefault("render.format", string(render.FormatPNG))
	v.SetDefault("render.theme", render.DefaultTheme)

	v.SetDefault("aggregation.placeholder", "N/A")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads configuration into v, which may already carry bound flags.
// With an empty cfgFile it searches for chartkit.yaml in the working
// directory and in $HOME/.chartkit; a missing file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".chartkit"))
		}
		v.SetConfigName(DefaultConfigFileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
