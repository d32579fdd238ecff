package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/chartkit/schema"
)

func newColumnsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "columns <file>",
		Short: "Profile the columns of a data file",
		Long: `Profile every column of a data file: detected type, role (category,
value or skipped), distinct values, empty cells and samples. Ends with the
chart chartkit would draw by default.

Examples:
  chartkit columns sales.csv
  chartkit columns jira.xlsx --sheet Issues --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.load(args[0])
			if err != nil {
				return err
			}
			p, err := schema.Discover(ds)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profile as JSON")
	return cmd
}

func printProfile(w io.Writer, p *schema.Profile) error {
	fmt.Fprintf(w, "%d rows, %d columns\n\n", p.Rows, len(p.Columns))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tROLE\tUNIQUE\tEMPTY\tSAMPLE")
	for _, c := range p.Columns {
		role := string(c.Role)
		if c.SkipReason != "" {
			role += " (" + c.SkipReason + ")"
		}
		typ := string(c.Type)
		if c.IsTemporal && c.TemporalFormat != "" {
			typ += " " + c.TemporalFormat
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			c.Name, typ, role, c.Unique, c.Nulls, sample(c.Sample, 3))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if s, ok := schema.Suggest(p, 1); ok {
		fmt.Fprintf(w, "\nsuggested: %s x=%s y=%s\n", s.Type, s.X, strings.Join(s.Y, ","))
	} else {
		fmt.Fprintln(w, "\nsuggested: none (no chartable column pair)")
	}
	return nil
}

func sample(values []string, n int) string {
	if len(values) > n {
		return strings.Join(values[:n], ", ") + ", ..."
	}
	return strings.Join(values, ", ")
}
