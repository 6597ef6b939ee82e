package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/internal/scanner"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "List analyzable source files under a directory",
	Long: `Walks a directory tree and lists every Python and PHP source file
the analyses can run over. Hidden entries, common build directories, and
patterns from a .gdqignore file at the root are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		files, err := scanner.Scan(root)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", root, err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(files, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		for _, f := range files {
			fmt.Printf("%s\t%s\t%d bytes\n", f.Path, f.Language, f.Size)
		}
		fmt.Printf("%d files\n", len(files))
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	RootCmd.AddCommand(scanCmd)
}
