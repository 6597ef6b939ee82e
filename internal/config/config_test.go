package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 256, cfg.CacheMaxEntries)
	assert.False(t, cfg.NoCache)
	assert.False(t, cfg.JSONOutput)
	assert.False(t, cfg.Verbose)
	assert.NotEmpty(t, cfg.CachePath)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`cache_path: /tmp/gdq-test.cache
cache_max_entries: 32
no_cache: true
verbose: true
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/gdq-test.cache", cfg.CachePath)
	assert.Equal(t, 32, cfg.CacheMaxEntries)
	assert.True(t, cfg.NoCache)
	assert.True(t, cfg.Verbose)
	// Fields absent from the file keep their defaults
	assert.False(t, cfg.JSONOutput)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_max_entries: [not a number"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GDQ_CACHE_PATH", "/override/results.cache")
	t.Setenv("GDQ_CACHE_MAX_ENTRIES", "8")
	t.Setenv("GDQ_NO_CACHE", "true")
	t.Setenv("GDQ_JSON_OUTPUT", "1")
	t.Setenv("GDQ_VERBOSE", "true")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "/override/results.cache", cfg.CachePath)
	assert.Equal(t, 8, cfg.CacheMaxEntries)
	assert.True(t, cfg.NoCache)
	assert.True(t, cfg.JSONOutput)
	assert.True(t, cfg.Verbose)
}

func TestEnvOverridesIgnoreInvalid(t *testing.T) {
	t.Setenv("GDQ_CACHE_MAX_ENTRIES", "not-a-number")
	t.Setenv("GDQ_NO_CACHE", "maybe")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 256, cfg.CacheMaxEntries)
	assert.False(t, cfg.NoCache)
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.CachePath = "/tmp/roundtrip.cache"
	cfg.CacheMaxEntries = 64
	cfg.JSONOutput = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.CachePath, loaded.CachePath)
	assert.Equal(t, cfg.CacheMaxEntries, loaded.CacheMaxEntries)
	assert.True(t, loaded.JSONOutput)
}
