// Package commands provides the CLI commands for the go-dataflow-query tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gdq",
	Short: "go-dataflow-query - Dataflow analysis over source code",
	Long: `go-dataflow-query runs worklist dataflow analyses over functions in
Python and PHP source files.

Commands:
  cfg         Dump the control flow graph of a function
  reaching    Possibly-reaching definitions for each variable occurrence
  refs        Possibly-reachable references for each variable occurrence
  analyze     Run all analyses at once, with result caching
  scan        List analyzable source files under a directory
  init        Initialize gdq configuration interactively

Use "gdq [command] --help" for more information about a command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.Default().SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
