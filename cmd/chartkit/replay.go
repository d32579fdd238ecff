package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/chartkit/render"
	"github.com/spektr-org/chartkit/session"
)

// Script is a recorded editing session.
//
//	input: sales.csv
//	steps:
//	  - {op: update, type: bar, x: region, y: [sales, cost]}
//	  - {op: hide, columns: [cost]}
//	  - {op: type, type: pie}
//	  - {op: undo}
//	output: sales.svg
type Script struct {
	Input  string `yaml:"input,omitempty"`
	Steps  []Step `yaml:"steps"`
	Output string `yaml:"output,omitempty"`
}

// ParseScript decodes a script, rejecting unknown keys.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("script is empty")
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return nil, fmt.Errorf("step %d: missing op", i+1)
		}
	}
	return &s, nil
}

func loadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// paths inside the script are relative to it
	dir := filepath.Dir(path)
	if s.Input != "" && !filepath.IsAbs(s.Input) {
		s.Input = filepath.Join(dir, s.Input)
	}
	if s.Output != "" && !filepath.IsAbs(s.Output) {
		s.Output = filepath.Join(dir, s.Output)
	}
	return s, nil
}

func newReplayCmd(a *app) *cobra.Command {
	var (
		out    string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "replay <script.yaml> [file]",
		Short: "Apply a scripted sequence of chart edits",
		Long: `Apply a YAML script of chart edits to a data file, printing the chart
state after every step. Rejected edits are reported and skipped unless
--strict is set.

Operations: update, type, x, y, swap, hide, show, undo, redo.

Examples:
  chartkit replay edits.yaml sales.csv
  chartkit replay edits.yaml --out final.png --strict`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := loadScript(args[0])
			if err != nil {
				return err
			}
			input := script.Input
			if len(args) == 2 {
				input = args[1]
			}
			if input == "" {
				return fmt.Errorf("no data file: pass one or set input in the script")
			}
			if out == "" {
				out = script.Output
			}

			ds, err := a.load(input)
			if err != nil {
				return err
			}
			r := newRunner(a.newSession(ds), cmd.OutOrStdout(), a.logger, a.viewOptions()...)
			defer r.view.Close()

			if err := a.replay(r, script.Steps, strict); err != nil {
				return err
			}
			r.printHistory()

			if out == "" {
				return nil
			}
			return a.writeFrame(r, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the final chart to this file (png, svg, html or csv)")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first rejected step")
	return cmd
}

func (a *app) replay(r *runner, steps []Step, strict bool) error {
	rejected := 0
	for i, step := range steps {
		fmt.Fprintf(r.out, "[%d] %s\n", i+1, step)
		err := r.apply(step)
		if err == nil {
			continue
		}

		var invalid *session.InvalidRequestError
		if !errors.As(err, &invalid) && !errors.Is(err, errInvalidStep) {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		rejected++
		fmt.Fprintf(r.out, "    rejected: %v\n", err)
		if strict {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	if rejected > 0 {
		a.logger.Warn("replay: steps rejected", zap.Int("rejected", rejected), zap.Int("steps", len(steps)))
	}
	return nil
}

// writeFrame writes the current frame to path in the format of its extension.
func (a *app) writeFrame(r *runner, path string) error {
	format, err := a.outputFormat("", path)
	if err != nil {
		return err
	}

	if format == formatCSV {
		err = writeCSVFile(r, path)
	} else {
		var rr render.Renderer
		if rr, err = render.New(render.Format(format), a.cfg.Render.Options()); err == nil {
			err = writeChartFile(r, rr, path)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s\n", path)
	return nil
}

func writeChartFile(r *runner, rr render.Renderer, path string) error {
	frame := r.view.Frame()
	if frame.Empty() {
		return &render.PromptError{Prompt: frame.Prompt}
	}
	return render.WriteFile(rr, path, frame.Config)
}

func writeCSVFile(r *runner, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.table(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
