// Command chartkit charts tabular data files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ============================================================================
// CHARTKIT CLI — Datasets in, charts out
// ============================================================================

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chartkit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chartkit %s\n", version)
		},
	}
}
