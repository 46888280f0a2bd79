// Package cli provides the researchd command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "researchd",
	Short: "Research execution engine for catalog set decomposition",
	Long: `researchd runs the asynchronous research-execution engine: it spawns an
external reasoning-agent process per research request, parses its structured
event stream, extracts the terminal JSON result, and republishes events to
HTTP clients over SSE.

Running 'researchd' without a subcommand is equivalent to 'researchd serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
