package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvSetMappingsFile, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvOutputFormat, "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "{}\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "set-mappings.csv", cfg.SetMappingsFile)
	assert.Equal(t, OutputTSV, cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, DefaultLabels(), cfg.Labels)
	assert.Equal(t, "TCGPlayer_Orders_{date}.{ext}", cfg.OutputNameFormat)
}

func TestLoadMainConfig_Overrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
set_mappings_file: sets.xlsx
output_format: CSV
max_concurrency: 2
lint:
  strict: true
labels:
  payment: Checking
  peer_store: MP
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sets.xlsx", cfg.SetMappingsFile)
	assert.Equal(t, OutputCSV, cfg.OutputFormat)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "Checking", cfg.Labels.Payment)
	assert.Equal(t, "MP", cfg.Labels.PeerStore)
	assert.Equal(t, "100%", cfg.Labels.Expense)
	assert.True(t, cfg.Lint.Strict)
	assert.False(t, cfg.Lint.SkipDateFormat)
}

func TestLoadMainConfig_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSetMappingsFile, "env-sets.csv")
	t.Setenv(EnvOutputFormat, "xlsx")
	path := writeConfig(t, "set_mappings_file: yaml-sets.csv\noutput_format: csv\n")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-sets.csv", cfg.SetMappingsFile)
	assert.Equal(t, OutputXLSX, cfg.OutputFormat)
}

func TestLoadMainConfig_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "output_format: [\n"},
		{"bad output format", "output_format: pdf\n"},
		{"bad log format", "log_format: xml\n"},
		{"negative concurrency", "max_concurrency: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMainConfig_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, OutputTSV, cfg.OutputFormat)
	assert.Equal(t, "Direct TCGplayer", cfg.Labels.DirectStore)
}
