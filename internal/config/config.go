// Package config loads and persists gdq configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for go-dataflow-query
type Config struct {
	// CachePath is where analysis results are persisted between runs.
	CachePath string `yaml:"cache_path" env:"GDQ_CACHE_PATH"`

	// CacheMaxEntries caps the in-memory result cache; 0 disables the cap.
	CacheMaxEntries int `yaml:"cache_max_entries" env:"GDQ_CACHE_MAX_ENTRIES"`

	// NoCache disables reading and writing the result cache.
	NoCache bool `yaml:"no_cache" env:"GDQ_NO_CACHE"`

	// JSONOutput makes commands emit JSON by default.
	JSONOutput bool `yaml:"json_output" env:"GDQ_JSON_OUTPUT"`

	// Logging
	Verbose bool `yaml:"verbose" env:"GDQ_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CachePath:       defaultCachePath(),
		CacheMaxEntries: 256,
		NoCache:         false,
		JSONOutput:      false,
		Verbose:         false,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gdq/results.cache"
	}
	return filepath.Join(home, ".gdq", "results.cache")
}

// globalConfigFilePath returns the global config file path (~/.gdq/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gdq/config.yaml"
	}
	return filepath.Join(home, ".gdq", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.gdq/config.yaml)
func projectConfigFilePath() string {
	return ".gdq/config.yaml"
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.gdq/config.yaml)
// 3. Global config (~/.gdq/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// GlobalPath returns the default path init writes to.
func GlobalPath() string {
	return globalConfigFilePath()
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GDQ_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("GDQ_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheMaxEntries = n
		}
	}
	if v := os.Getenv("GDQ_NO_CACHE"); v != "" {
		cfg.NoCache = parseBool(v)
	}
	if v := os.Getenv("GDQ_JSON_OUTPUT"); v != "" {
		cfg.JSONOutput = parseBool(v)
	}
	if v := os.Getenv("GDQ_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
