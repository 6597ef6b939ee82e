package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow-query/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gdq configuration interactively",
	Long: `Guides you through setting up gdq configuration step by step.
Creates a config file with result cache and output settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()

	// === SECTION 1: Result cache ===
	var useCache bool = true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Result Cache - Reuse analysis results between runs").
				Description("Enable the on-disk result cache?").
				Affirmative("Yes, cache results").
				Negative("No, always recompute").
				Value(&useCache),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}
	cfg.NoCache = !useCache

	if useCache {
		cachePath := cfg.CachePath
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cache file path").
					Placeholder(cfg.CachePath).
					Value(&cachePath),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if cachePath != "" {
			cfg.CachePath = cachePath
		}

		maxEntries := strconv.Itoa(cfg.CacheMaxEntries)
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Maximum cache entries (0 = unlimited)").
					Placeholder(maxEntries).
					Validate(func(s string) error {
						if s == "" {
							return nil
						}
						n, err := strconv.Atoi(s)
						if err != nil || n < 0 {
							return fmt.Errorf("enter a non-negative number")
						}
						return nil
					}).
					Value(&maxEntries),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if n, err := strconv.Atoi(maxEntries); err == nil {
			cfg.CacheMaxEntries = n
		}
	}

	// === SECTION 2: Output ===
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Output Format").
				Description("Emit JSON by default?").
				Affirmative("JSON").
				Negative("Human-readable").
				Value(&cfg.JSONOutput),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 3: Config location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.gdq/config.yaml)", "global"),
					huh.NewOption("Project (./.gdq/config.yaml)", "project"),
				).
				Value(&saveLocationChoice),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	configPath := ".gdq/config.yaml"
	if saveLocationChoice == "global" {
		configPath = config.GlobalPath()
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// Show config preview
	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	if cfg.NoCache {
		fmt.Println("Result cache: disabled")
	} else {
		fmt.Printf("Cache path: %s\n", cfg.CachePath)
		fmt.Printf("Cache max entries: %d\n", cfg.CacheMaxEntries)
	}
	if cfg.JSONOutput {
		fmt.Println("Default output: JSON")
	} else {
		fmt.Println("Default output: human-readable")
	}
	fmt.Println("================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
