// =============================================================================
// TCG Order Processor - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Everything in the configuration has a sensible default, so
// the tool runs without a config file at all.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. Main Config (config.yaml)
//   3. Environment variables, optionally loaded from a .env file
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the config file used when --config is not given.
const DefaultConfigPath = "config.yaml"

// Environment variables that override the YAML configuration.
const (
	EnvSetMappingsFile = "TCGORDERS_SET_MAPPINGS_FILE"
	EnvLogLevel        = "TCGORDERS_LOG_LEVEL"
	EnvOutputFormat    = "TCGORDERS_OUTPUT_FORMAT"
)

// Supported output formats.
const (
	OutputTSV  = "tsv"
	OutputCSV  = "csv"
	OutputXLSX = "xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// SetMappingsFile is the set-name to set-code table.
	// Files ending in .xlsx are read with excelize, anything else as CSV.
	// Default: "set-mappings.csv"
	SetMappingsFile string `yaml:"set_mappings_file"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where export files are written when no explicit
	// output path is given.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat names generated export files.
	// Placeholders:
	//   {date}      - Current date (YYYY-MM-DD)
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	//   {ext}       - Extension of the output format
	// Default: "TCGPlayer_Orders_{date}.{ext}"
	OutputNameFormat string `yaml:"output_name_format"`

	// OutputFormat is one of "tsv", "csv" or "xlsx".
	// Default: "tsv" (the spreadsheet paste format)
	OutputFormat string `yaml:"output_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogFile is an optional path logs are written to instead of stderr.
	LogFile string `yaml:"log_file"`

	// MetricsFile is an optional prometheus textfile written after each run.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of input files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// Labels are the constant values written into every order record.
	Labels Labels `yaml:"labels"`

	// Lint controls the record checks run after extraction.
	Lint LintConfig `yaml:"lint"`
}

// LintConfig holds the record linting settings.
type LintConfig struct {
	// Strict turns every finding into an error. An input with errors is
	// reported as failed and no output is written for it.
	// Default: false
	Strict bool `yaml:"strict"`

	// SkipDateFormat disables the M/D/YYYY date check.
	// Default: false
	SkipDateFormat bool `yaml:"skip_date_format"`
}

// Labels holds the constant column values of an order record.
type Labels struct {
	Type             string `yaml:"type"`
	Expense          string `yaml:"expense"`
	Payment          string `yaml:"payment"`
	PeerStore        string `yaml:"peer_store"`
	ConsignmentStore string `yaml:"consignment_store"`
	DirectStore      string `yaml:"direct_store"`
}

// DefaultLabels returns the labels used by the original spreadsheet layout.
func DefaultLabels() Labels {
	return Labels{
		Type:             "Singles",
		Expense:          "100%",
		Payment:          "Fidelity Magic",
		PeerStore:        "Manapool",
		ConsignmentStore: "TCGplayer",
		DirectStore:      "Direct TCGplayer",
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
//
// A missing file at DefaultConfigPath is not an error; the defaults are used.
// A missing file at any other path is.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == DefaultConfigPath:
		// Running without a config file.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A missing .env is fine; it only supplies overrides.
	_ = godotenv.Load()
	applyEnvOverrides(&config)

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies any set environment overrides into the config.
func applyEnvOverrides(config *MainConfig) {
	if v := os.Getenv(EnvSetMappingsFile); v != "" {
		config.SetMappingsFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		config.OutputFormat = v
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.SetMappingsFile == "" {
		config.SetMappingsFile = "set-mappings.csv"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "TCGPlayer_Orders_{date}.{ext}"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = OutputTSV
	}
	config.OutputFormat = strings.ToLower(config.OutputFormat)
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	defaults := DefaultLabels()
	if config.Labels.Type == "" {
		config.Labels.Type = defaults.Type
	}
	if config.Labels.Expense == "" {
		config.Labels.Expense = defaults.Expense
	}
	if config.Labels.Payment == "" {
		config.Labels.Payment = defaults.Payment
	}
	if config.Labels.PeerStore == "" {
		config.Labels.PeerStore = defaults.PeerStore
	}
	if config.Labels.ConsignmentStore == "" {
		config.Labels.ConsignmentStore = defaults.ConsignmentStore
	}
	if config.Labels.DirectStore == "" {
		config.Labels.DirectStore = defaults.DirectStore
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.OutputFormat {
	case OutputTSV, OutputCSV, OutputXLSX:
	default:
		return fmt.Errorf("unsupported output_format %q (want tsv, csv or xlsx)", config.OutputFormat)
	}

	switch config.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (want console or json)", config.LogFormat)
	}

	if config.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", config.MaxConcurrency)
	}

	return nil
}
