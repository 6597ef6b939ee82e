package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/internal/config"
	"github.com/l3aro/go-dataflow-query/internal/log"
	"github.com/l3aro/go-dataflow-query/pkg/cache"
	"github.com/l3aro/go-dataflow-query/pkg/dataflow"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file> <function>",
	Short: "Run all analyses at once, with result caching",
	Long: `Runs every built-in analysis over one function in parallel. Results
are cached on disk keyed by file content, so re-running over an unchanged
file skips the solver.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		functionName := args[1]
		logger := log.Default()

		cfgFile, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
			cfgFile.NoCache = true
		}

		g, content, err := buildGraph(filePath, functionName)
		if err != nil {
			return err
		}

		var (
			results map[string]*dataflow.Result
			store   *cache.ResultCache
			key     string
		)

		if !cfgFile.NoCache {
			store = cache.New(cfgFile.CacheMaxEntries)
			if err := store.LoadFile(cfgFile.CachePath); err != nil {
				logger.Warn("could not load result cache", "path", cfgFile.CachePath, "error", err)
			}
			key = cache.Key(filePath, functionName, content)
			if cached, found := store.Get(key); found {
				logger.Debug("cache hit", "key", key)
				results = cached
			}
		}

		if results == nil {
			results, err = dataflow.RunAll(cmd.Context(), g)
			if err != nil {
				return fmt.Errorf("running analyses: %w", err)
			}
			if store != nil {
				store.Set(key, results)
				if err := store.SaveFile(cfgFile.CachePath); err != nil {
					logger.Warn("could not save result cache", "path", cfgFile.CachePath, "error", err)
				}
			}
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput || cfgFile.JSONOutput {
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printResult(g, results[name])
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	analyzeCmd.Flags().Bool("no-cache", false, "Bypass the result cache")
	RootCmd.AddCommand(analyzeCmd)
}
