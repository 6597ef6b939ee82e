package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/pkg/dataflow"
)

// reachingCmd represents the reaching command
var reachingCmd = &cobra.Command{
	Use:   "reaching <file> <function>",
	Short: "Possibly-reaching definitions for each variable occurrence",
	Long: `Runs the forward reaching-definitions analysis over one function.
For every variable occurrence the "in" set lists the definitions of that
scope's variables that may still be live when control arrives there.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := buildGraph(args[0], args[1])
		if err != nil {
			return err
		}

		res, err := dataflow.Run(g, dataflow.ReachingDefinitions{})
		if err != nil {
			return fmt.Errorf("running analysis: %w", err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printResult(g, res)
		return nil
	},
}

func init() {
	reachingCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(reachingCmd)
}
