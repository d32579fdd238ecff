package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/config"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/helpers"
	"github.com/spektr-org/chartkit/internal/log"
	"github.com/spektr-org/chartkit/render"
	"github.com/spektr-org/chartkit/session"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgFile string
	envFile string
	sheet   string

	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "chartkit",
		Short: "Chart tabular data from the command line",
		Long: `chartkit loads CSV, JSON or XLSX files and turns column selections into
bar, line and pie charts (PNG, SVG, HTML) or aggregated CSV tables.

Edits can be scripted (replay) or made interactively (shell), with undo and redo.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./chartkit.yaml or $HOME/.chartkit/chartkit.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	flags.StringVar(&a.sheet, "sheet", "", "worksheet to read from XLSX input (default: first sheet)")

	flags.Int("width", render.DefaultWidth, "chart width in pixels")
	flags.Int("height", render.DefaultHeight, "chart height in pixels")
	flags.String("theme", render.DefaultTheme, "HTML chart theme")
	flags.String("placeholder", engine.DefaultPlaceholder, "category label for rows without an X value")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	_ = a.v.BindPFlag("render.width", flags.Lookup("width"))
	_ = a.v.BindPFlag("render.height", flags.Lookup("height"))
	_ = a.v.BindPFlag("render.theme", flags.Lookup("theme"))
	_ = a.v.BindPFlag("aggregation.placeholder", flags.Lookup("placeholder"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	root.AddCommand(
		newColumnsCmd(a),
		newRenderCmd(a),
		newReplayCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init() error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := log.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	log.SetLogger(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// load reads a data file, honouring --sheet for workbooks.
func (a *app) load(path string) (*dataset.Dataset, error) {
	if a.sheet == "" {
		return helpers.LoadFile(path)
	}
	return helpers.LoadSheet(path, a.sheet)
}

func (a *app) engineOptions() []engine.Option {
	return append(placeholderOption(a.cfg.Aggregation.Placeholder), engine.WithLogger(a.logger))
}

// newSession starts a session over ds.
func (a *app) newSession(ds *dataset.Dataset) *session.Session {
	s := session.Start(
		session.WithLogger(a.logger),
		session.WithEngineOptions(a.engineOptions()...),
	)
	s.Load(ds)
	return s
}

func (a *app) viewOptions() []render.ViewOption {
	return []render.ViewOption{
		render.WithEngineOptions(a.engineOptions()...),
		render.WithViewLogger(a.logger),
	}
}
