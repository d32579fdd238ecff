package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/chartkit/schema"
	"github.com/spektr-org/chartkit/session"
)

const shellHelp = `commands:
  load <file>                 replace the dataset (clears history)
  columns                     profile the loaded columns
  update <type> <x> <y>...    set the whole chart
  type <bar|line|pie>         change the chart type
  x <column>                  set the X column
  y <column>...               set the Y columns
  swap [<x> <y>]              swap the axes
  hide <column>...            remove Y columns
  show <column>...            add Y columns back
  undo | redo                 step through the history
  state | history             show the current state or the edit history
  table                       print the aggregated table as CSV
  render <file>               write the chart (png, svg, html or csv)
  help | quit
Quote column names that contain spaces: y "Story Points"`

var errQuit = errors.New("quit")

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [file]",
		Short: "Edit a chart interactively",
		Long: `Start an interactive session. Each line is one command; type 'help' for
the list. Rejected edits show the problem per axis and leave the chart as
it was.

Examples:
  chartkit shell sales.csv
  echo "x region" | chartkit shell sales.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{app: a, out: cmd.OutOrStdout()}
			sess := a.newSession(nil)
			sh.runner = newRunner(sess, sh.out, a.logger, a.viewOptions()...)
			defer sh.runner.view.Close()

			if len(args) == 1 {
				if err := sh.exec([]string{"load", args[0]}); err != nil {
					return err
				}
			}
			return sh.run(cmd.InOrStdin())
		},
	}
}

type shell struct {
	app    *app
	runner *runner
	out    io.Writer
}

func (sh *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "chartkit> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		args, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		err = sh.exec(args)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			var invalid *session.InvalidRequestError
			if !errors.As(err, &invalid) {
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
		}
	}
}

func (sh *shell) exec(args []string) error {
	r := sh.runner
	op, rest := strings.ToLower(args[0]), args[1:]

	switch op {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "load":
		if len(rest) != 1 {
			return fmt.Errorf("usage: load <file>")
		}
		ds, err := sh.app.load(rest[0])
		if err != nil {
			return err
		}
		r.sess.Load(ds)
		fmt.Fprintf(sh.out, "loaded %d rows: %s\n", ds.Len(), strings.Join(ds.Columns(), ", "))
		return nil
	case "columns":
		p, err := schema.Discover(r.sess.Dataset())
		if err != nil {
			return err
		}
		return printProfile(sh.out, p)
	case "state":
		r.printState()
		return nil
	case "history":
		r.printHistory()
		return nil
	case "table":
		return r.table(sh.out)
	case "render":
		if len(rest) != 1 {
			return fmt.Errorf("usage: render <file>")
		}
		return sh.app.writeFrame(r, rest[0])
	}

	step, err := parseStep(op, rest)
	if err != nil {
		return err
	}
	return r.apply(step)
}

// parseStep turns a command line into an edit step.
func parseStep(op string, args []string) (Step, error) {
	step := Step{Op: op}
	switch op {
	case "update":
		if len(args) < 3 {
			return step, fmt.Errorf("usage: update <type> <x> <y>...")
		}
		step.Type, step.X, step.Y = args[0], args[1], splitColumns(args[2:])
	case "type":
		if len(args) != 1 {
			return step, fmt.Errorf("usage: type <bar|line|pie>")
		}
		step.Type = args[0]
	case "x":
		if len(args) > 1 {
			return step, fmt.Errorf("usage: x <column>")
		}
		step.X = first(args)
	case "y":
		step.Y = splitColumns(args)
	case "swap":
		switch len(args) {
		case 0:
		case 2:
			step.X, step.Y = args[0], []string{args[1]}
		default:
			return step, fmt.Errorf("usage: swap [<x> <y>]")
		}
	case "hide", "show":
		if len(args) == 0 {
			return step, fmt.Errorf("usage: %s <column>...", op)
		}
		step.Columns = splitColumns(args)
	case "undo", "redo":
	default:
		return step, fmt.Errorf("%w: unknown command %q (try help)", errInvalidStep, op)
	}
	return step, nil
}

// splitColumns accepts both "a b" and "a,b".
func splitColumns(args []string) []string {
	var out []string
	for _, a := range args {
		for _, c := range strings.Split(a, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// splitArgs splits a line on spaces, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
