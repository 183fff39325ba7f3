// =============================================================================
// TCG Order Processor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tcgorders)
//   ├── processCmd (tcgorders process)
//   ├── urlsCmd    (tcgorders urls)
//   ├── setsCmd    (tcgorders sets)
//   └── versionCmd (tcgorders version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration for the chosen subcommand
//   3. Setting up logging and metrics
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/tcg-order-processor/internal/classifier"
	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/converter"
	"github.com/ginjaninja78/tcg-order-processor/internal/logging"
	"github.com/ginjaninja78/tcg-order-processor/internal/metrics"
	"github.com/ginjaninja78/tcg-order-processor/internal/setmap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug-level console logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "tcgorders",
	Short: "TCG Order Processor - Turn marketplace order exports into spreadsheet rows",
	Long: `TCG Order Processor reads order exports pasted from the TCGplayer seller
portal or from Manapool and turns them into normalized bookkeeping rows.

Key Features:
  - Automatic detection of the export format
  - Card and product line items condensed into one description per order
  - Set codes resolved from a configurable set mapping table
  - TSV (spreadsheet paste), CSV and XLSX output
  - Order URL generation from bare order numbers

Example Usage:
  tcgorders process orders.tsv            # Convert one export
  pbpaste | tcgorders process -o -        # Convert the clipboard to stdout
  tcgorders urls numbers.txt              # Build order URLs
  tcgorders sets                          # Show the set mapping table`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", userMessage(err))
		os.Exit(1)
	}
}

// userMessage renders err the way the CLI reports it to the user.
func userMessage(err error) string {
	var fatal *converter.FatalError
	switch {
	case errors.Is(err, converter.ErrEmptyInput):
		return "Please paste data to process"
	case errors.Is(err, classifier.ErrEmptyInput):
		return "Please paste order numbers to process"
	case errors.As(err, &fatal):
		return fmt.Sprintf("Processing error: %v", fatal.Cause)
	}
	return err.Error()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigPath,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED COMMAND ENVIRONMENT
// =============================================================================

// environment bundles what every subcommand needs.
type environment struct {
	config  *config.MainConfig
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// setup loads the configuration and builds the logger and metrics recorder.
func setup() (*environment, error) {
	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	logConfig := logging.Config{
		Level:      mainConfig.LogLevel,
		Format:     mainConfig.LogFormat,
		OutputPath: mainConfig.LogFile,
	}
	if verbose {
		logConfig.Level = "debug"
		logConfig.Format = "console"
	}

	logger, err := logging.New(logConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &environment{
		config:  mainConfig,
		logger:  logger,
		metrics: metrics.NewRecorder(),
	}, nil
}

// loadSetTable reads the set mapping table. When strict is false a missing
// or empty table is logged and processing continues with no mappings, so
// every set resolves to "Unknown".
func (env *environment) loadSetTable(path string, strict bool) (*setmap.Table, error) {
	table, err := setmap.LoadFile(path)
	if err == nil {
		env.logger.Debug("Loaded set mappings",
			zap.String("file", path),
			zap.Int("entries", table.Len()),
		)
		return table, nil
	}

	if strict {
		return nil, err
	}

	if errors.Is(err, setmap.ErrNoMappings) {
		env.logger.Warn("Set mapping file has no entries", zap.String("file", path))
	} else {
		env.logger.Warn("Failed to load set mappings. Using empty mappings.",
			zap.String("file", path),
			zap.Error(err),
		)
	}
	return setmap.New(nil), nil
}

// close writes the metrics textfile, if configured, and flushes the logger.
func (env *environment) close() {
	if env.config.MetricsFile != "" {
		if err := env.metrics.WriteTextfile(env.config.MetricsFile); err != nil {
			env.logger.Warn("Failed to write metrics file",
				zap.String("file", env.config.MetricsFile),
				zap.Error(err),
			)
		}
	}
	_ = env.logger.Sync()
}
