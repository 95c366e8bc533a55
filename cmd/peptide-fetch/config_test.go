package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/peptide-fetch/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPipelineConfig(), cfg)
	assert.Equal(t, 60, cfg.Search.MaxLength)
	assert.Equal(t, 50, cfg.Search.ResultSize)
	assert.False(t, cfg.Search.IncludeUnreviewed)
	assert.Equal(t, "output", cfg.Fetch.OutputDir)
	assert.Equal(t, types.FormatPDB, cfg.Fetch.StructureFormat)
}

func TestLoadConfig_Overrides(t *testing.T) {
	resetViper(t)
	viper.Set("search.max_length", 30)
	viper.Set("search.size", 10)
	viper.Set("search.reviewed", false)
	viper.Set("fetch.output_dir", "peptides")
	viper.Set("fetch.structure_format", "cif")
	viper.Set("timeout", "5s")
	viper.Set("user_agent", "lab-mirror/2")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Search.MaxLength)
	assert.Equal(t, 10, cfg.Search.ResultSize)
	assert.True(t, cfg.Search.IncludeUnreviewed)
	assert.Equal(t, "peptides", cfg.Fetch.OutputDir)
	assert.Equal(t, types.FormatMMCIF, cfg.Fetch.StructureFormat)
	for _, h := range []types.HTTPConfig{cfg.Search.HTTPConfig, cfg.Resolve.HTTPConfig, cfg.Fetch.HTTPConfig} {
		assert.Equal(t, 5*time.Second, h.Timeout)
		assert.Equal(t, "lab-mirror/2", h.UserAgent)
	}
}

func TestLoadConfig_ReviewedTrueKeepsFilter(t *testing.T) {
	resetViper(t)
	viper.Set("search.reviewed", true)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Search.IncludeUnreviewed)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"negative length", "search.max_length", -1},
		{"negative size", "search.size", -5},
		{"unknown format", "fetch.structure_format", "mmtf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.val)
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestInitConfig_FindsHomeConfig(t *testing.T) {
	resetViper(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "peptide-fetch")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "peptide-fetch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  max_length: 42\n"), 0o644))

	initConfig()
	assert.Equal(t, path, viper.ConfigFileUsed())
	assert.Equal(t, 42, viper.GetInt("search.max_length"))

	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "~/.config/peptide-fetch/peptide-fetch.yaml")
}

func TestNewHTTPClient(t *testing.T) {
	assert.Equal(t, types.DefaultTimeout, newHTTPClient(0).Timeout)
	assert.Equal(t, 3*time.Second, newHTTPClient(3*time.Second).Timeout)
}

func TestNewStages_ShareClient(t *testing.T) {
	client := newHTTPClient(0)
	s, r, f := newStages(client, types.DefaultPipelineConfig(), nil)
	assert.Same(t, client, s.HTTP)
	assert.Same(t, client, r.HTTP)
	assert.Same(t, client, f.HTTP)
	assert.Equal(t, "output", f.Config.OutputDir)
}
