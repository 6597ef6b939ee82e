package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/pkg/dataflow"
)

// refsCmd represents the refs command
var refsCmd = &cobra.Command{
	Use:   "refs <file> <function>",
	Short: "Possibly-reachable references for each variable occurrence",
	Long: `Runs the backward reachable-references analysis over one function.
For every variable occurrence the "out" set lists the later references that
may observe the value held there.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, _, err := buildGraph(args[0], args[1])
		if err != nil {
			return err
		}

		res, err := dataflow.Run(g, dataflow.ReachableReferences{})
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
	refsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(refsCmd)
}
