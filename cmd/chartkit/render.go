package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/engine"
	"github.com/spektr-org/chartkit/helpers"
	"github.com/spektr-org/chartkit/render"
	"github.com/spektr-org/chartkit/schema"
)

const formatCSV = "csv"

type renderFlags struct {
	chartType string
	x         string
	y         []string
	out       string
	format    string
	title     string
	summary   bool
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw one chart from a data file",
		Long: `Draw one chart from a data file.

Rows are grouped by the X column and each Y column is summed per group.
Missing axes are filled from the column profile (see 'chartkit columns').
The output format follows --format, then the --out extension, then the
render.format setting. Formats: png, svg, html, csv (aggregated table).

Examples:
  chartkit render sales.csv --x region --y sales,cost --out sales.png
  chartkit render sales.csv --type pie --x region --y sales --out share.html
  chartkit render jira.csv --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load(args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, ds, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.chartType, "type", "t", "", "chart type: bar, line or pie (default: suggested)")
	flags.StringVar(&f.x, "x", "", "X column (default: suggested)")
	flags.StringSliceVar(&f.y, "y", nil, "Y columns, comma separated (default: suggested)")
	flags.StringVarP(&f.out, "out", "o", "", "output file (default: stdout)")
	flags.StringVarP(&f.format, "format", "f", "", "output format: png, svg, html or csv")
	flags.StringVar(&f.title, "title", "", "chart title (default: derived from the axes)")
	flags.BoolVar(&f.summary, "summary", false, "print a one-line summary to stderr")
	return cmd
}

func (a *app) render(cmd *cobra.Command, ds *dataset.Dataset, f *renderFlags) error {
	sel, err := a.initialSelection(ds, f)
	if err != nil {
		return err
	}

	sess := a.newSession(ds)
	opts := append(a.viewOptions(), render.WithChartOptions(engine.ChartOptions{Title: f.title}))
	r := newRunner(sess, cmd.ErrOrStderr(), a.logger, opts...)
	defer r.view.Close()

	if err := r.sess.Update(sel.typ, sel.x, sel.y...); err != nil {
		r.printBoard()
		return err
	}

	frame := r.view.Frame()
	if frame.Empty() {
		return &render.PromptError{Prompt: frame.Prompt}
	}
	if f.summary {
		fmt.Fprintln(cmd.ErrOrStderr(), frame.Summary)
	}

	format, err := a.outputFormat(f.format, f.out)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.out, err)
		}
		defer file.Close()
		w = file
	}

	if format == formatCSV {
		err = writeTable(w, frame.Result, frame.Config.Title)
	} else {
		var rr render.Renderer
		if rr, err = render.New(render.Format(format), a.cfg.Render.Options()); err == nil {
			err = r.view.Render(w, rr)
		}
	}
	if err != nil {
		if f.out != "" {
			os.Remove(f.out)
		}
		return err
	}

	if f.out != "" {
		a.logger.Info("chart written",
			zap.String("path", f.out),
			zap.String("format", format),
			zap.Stringer("state", sess.State()))
	}
	return nil
}

type selection struct {
	typ chart.Type
	x   string
	y   []string
}

// initialSelection fills unset axes and type from the column profile.
func (a *app) initialSelection(ds *dataset.Dataset, f *renderFlags) (selection, error) {
	sel := selection{typ: chart.Default, x: f.x, y: f.y}

	if f.x == "" || len(f.y) == 0 {
		p, err := schema.Discover(ds)
		if err != nil {
			return sel, err
		}
		s, ok := schema.Suggest(p, 1)
		if !ok {
			return sel, fmt.Errorf("no chartable columns in dataset; pass --x and --y")
		}
		if sel.x == "" {
			sel.x = s.X
			sel.typ = s.Type
		}
		if len(sel.y) == 0 {
			sel.y = s.Y
		}
		a.logger.Debug("render: suggested axes", zap.String("x", sel.x), zap.Strings("y", sel.y))
	}

	if f.chartType != "" {
		t, err := chart.ParseType(f.chartType)
		if err != nil {
			return sel, err
		}
		sel.typ = t
	}
	return sel, nil
}

// outputFormat resolves the format from the flag, the output path and the
// configured default, in that order.
func (a *app) outputFormat(flag, out string) (string, error) {
	candidate := flag
	if candidate == "" && out != "" {
		candidate = strings.TrimPrefix(filepath.Ext(out), ".")
	}
	if candidate == "" {
		candidate = a.cfg.Render.Format
	}
	if strings.EqualFold(candidate, formatCSV) {
		return formatCSV, nil
	}
	f, err := render.ParseFormat(candidate)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

// writeTable writes res as an aggregated CSV table.
func writeTable(w io.Writer, res *engine.Result, title string) error {
	return helpers.WriteCSV(w, engine.BuildTable(res, title).Records())
}
