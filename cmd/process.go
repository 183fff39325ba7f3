// =============================================================================
// TCG Order Processor - Process Command
// =============================================================================
//
// This file defines the 'process' command, which converts order exports into
// spreadsheet rows.
//
// COMMAND USAGE:
//   tcgorders process [files...] [flags]
//
//   Inputs may be files, directories (their .tsv and .txt files), glob
//   patterns or "-" for stdin. With no inputs, stdin is read.
//
// FLAGS:
//   --format, -f : Output format (tsv, csv, xlsx); overrides output_format
//   --output, -o : Output path, or "-" for stdout (single input only)
//   --sets       : Set mapping file; overrides set_mappings_file
//   --summary    : Write a processing summary file to the output directory
//   --lint-log   : Write every lint finding of the run to a file
//
// PROCESSING PIPELINE:
//   1. Load configuration and the set mapping table
//   2. Resolve the input list
//   3. For each input (concurrently, up to max_concurrency at once):
//      a. Read the pasted export
//      b. Run the batch pipeline
//      c. Write the records in the chosen format
//   4. Print the per-file results and run totals
//   5. Optionally write the summary and lint logs
//
// OUTPUT NAMES:
//   With several inputs, "_{original}" is added to output_name_format and
//   any name already used in the run gets a numeric suffix, so no input
//   overwrites another.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/converter"
	"github.com/ginjaninja78/tcg-order-processor/internal/sheetwriter"
	"github.com/ginjaninja78/tcg-order-processor/internal/validation"
	"github.com/ginjaninja78/tcg-order-processor/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the process command flags.
type processOptions struct {
	format   string
	output   string
	setsFile string
	summary  bool
	lintLog  string
}

var processFlags processOptions

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Convert order exports into spreadsheet rows",
	Long: `The process command reads TCGplayer or Manapool order exports, detects the
format of each one, and writes one normalized row per order.

Each input is an independent batch. Inputs are processed concurrently, and a
failure in one input does not affect the others.

Records are linted for fields that fell back to defaults. With lint.strict
set in the configuration, an input with findings fails and writes no output.

Output formats:
  tsv   Tab-separated rows without a header, ready to paste into a sheet
  csv   Header row plus fully quoted rows
  xlsx  Workbook with an "Orders" sheet`,

	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		_, err = runProcess(env, processFlags, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processFlags.format, "format", "f", "",
		"Output format: tsv, csv or xlsx (default from config)")
	processCmd.Flags().StringVarP(&processFlags.output, "output", "o", "",
		`Output path, or "-" for stdout (single input only)`)
	processCmd.Flags().StringVar(&processFlags.setsFile, "sets", "",
		"Set mapping file (default from config)")
	processCmd.Flags().BoolVar(&processFlags.summary, "summary", false,
		"Write a processing summary file to the output directory")
	processCmd.Flags().StringVar(&processFlags.lintLog, "lint-log", "",
		"Write every lint finding of the run to this file")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileResult is the outcome of processing one input.
type fileResult struct {
	input   string
	output  string
	result  *converter.Result
	err     error
	elapsed time.Duration
}

// runProcess converts every input and returns the run summary. Per-input
// failures are reported and counted but do not fail the run; an error is
// returned only when the run cannot start or every input failed.
func runProcess(env *environment, opts processOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) (utils.ProcessingSummary, error) {
	summary := utils.ProcessingSummary{StartTime: time.Now()}

	// =========================================================================
	// STEP 1: RESOLVE SETTINGS
	// =========================================================================

	format := strings.ToLower(opts.format)
	if format == "" {
		format = env.config.OutputFormat
	}
	switch format {
	case config.OutputTSV, config.OutputCSV, config.OutputXLSX:
	default:
		return summary, fmt.Errorf("unsupported output format: %s", format)
	}

	setsFile := opts.setsFile
	if setsFile == "" {
		setsFile = env.config.SetMappingsFile
	}
	table, err := env.loadSetTable(setsFile, opts.setsFile != "")
	if err != nil {
		return summary, fmt.Errorf("failed to load set mappings: %w", err)
	}

	fm := utils.NewFileManager(env.config.OutputDir)
	fm.Stdin = stdin

	// =========================================================================
	// STEP 2: RESOLVE INPUTS
	// =========================================================================

	inputs, err := fm.ResolveInputs(args)
	if err != nil {
		return summary, err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(stderr, "No input files found.")
		return summary, nil
	}
	if opts.output != "" && len(inputs) > 1 {
		return summary, fmt.Errorf("--output accepts a single input, got %d", len(inputs))
	}
	summary.TotalFiles = len(inputs)

	out := outputTarget{
		fm:         fm,
		format:     format,
		nameFormat: env.config.OutputNameFormat,
		names:      utils.NewOutputNames(),
		output:     opts.output,
		stdout:     stdout,
	}
	if len(inputs) > 1 {
		out.nameFormat = utils.PerInputNameFormat(out.nameFormat)
	}

	validator := validation.NewValidatorWithOptions(validation.ValidationOptions{
		TreatWarningsAsErrors: env.config.Lint.Strict,
		SkipDateFormat:        env.config.Lint.SkipDateFormat,
	})

	conv := converter.New(table, env.config.Labels,
		converter.WithLogger(env.logger),
		converter.WithMetrics(env.metrics),
		converter.WithValidator(validator),
	)

	env.logger.Debug("Processing inputs",
		zap.Int("inputs", len(inputs)),
		zap.String("format", format),
		zap.Int("max_concurrency", env.config.MaxConcurrency),
	)

	// =========================================================================
	// STEP 3: PROCESS INPUTS CONCURRENTLY
	// =========================================================================

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputs))
	slots := make(chan struct{}, max(env.config.MaxConcurrency, 1))

	for _, input := range inputs {
		wg.Add(1)

		go func(input string) {
			defer wg.Done()

			slots <- struct{}{}
			defer func() { <-slots }()

			results <- processInput(conv, out, input)
		}(input)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 4: COLLECT RESULTS
	// =========================================================================

	var findings []*validation.ValidationError

	for res := range results {
		if res.result != nil {
			for _, finding := range res.result.Findings {
				finding.Source = res.input
			}
			findings = append(findings, res.result.Findings...)
		}

		if res.err != nil {
			summary.Fail(res.input, res.err)
			env.logger.Error("Input failed", zap.String("input", res.input), zap.Error(res.err))
			fmt.Fprintf(stderr, "  ✗ %s: %s\n", res.input, userMessage(res.err))
			continue
		}

		r := res.result
		summary.Add(utils.ProcessedFileInfo{
			InputFile:   res.input,
			OutputFile:  res.output,
			Format:      r.Format.String(),
			Orders:      r.Summary.TotalOrders,
			Skipped:     r.Stats.RowsSkipped,
			Findings:    len(r.Findings),
			TotalNet:    r.Summary.TotalNet,
			AllDirect:   r.Summary.AllDirect,
			DateRange:   r.Summary.DateRange,
			ProcessTime: res.elapsed,
		})

		fmt.Fprintf(stderr, "  ✓ %s -> %s (%s, %d orders, $%s)\n",
			res.input, res.output, r.Format, r.Summary.TotalOrders, r.Summary.TotalNet.StringFixed(2))

		if len(r.Findings) > 0 {
			env.logger.Info("Records with default values",
				zap.String("input", res.input),
				zap.Int("findings", len(r.Findings)),
			)
			env.logger.Debug(validation.FormatErrors(r.Findings))
		}
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(stderr, "\n=== Processing Complete ===")
	fmt.Fprintf(stderr, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(stderr, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(stderr, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(stderr, "Total orders:    %d\n", summary.TotalOrders)
	fmt.Fprintf(stderr, "Total net:       $%s\n", summary.TotalNet.StringFixed(2))
	if len(summary.ProcessedFiles) == 1 {
		pf := summary.ProcessedFiles[0]
		fmt.Fprintf(stderr, "All direct:      %t\n", pf.AllDirect)
		fmt.Fprintf(stderr, "Date:            %s\n", pf.DateRange)
	}
	fmt.Fprintf(stderr, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if opts.summary {
		path, err := utils.WriteSummaryLog(summary, env.config.OutputDir)
		if err != nil {
			return summary, err
		}
		fmt.Fprintf(stderr, "Summary written to %s\n", path)
	}

	if opts.lintLog != "" {
		if err := validation.WriteErrorLog(findings, opts.lintLog); err != nil {
			return summary, err
		}
		fmt.Fprintf(stderr, "Lint findings written to %s\n", opts.lintLog)
	}

	if summary.SuccessfulFiles == 0 {
		return summary, fmt.Errorf("all %d input(s) failed", summary.FailedFiles)
	}
	return summary, nil
}

// outputTarget says where and how each batch is written.
type outputTarget struct {
	fm         *utils.FileManager
	format     string
	nameFormat string
	names      *utils.OutputNames

	// output is an explicit path, "-" for stdout, or "" for a generated
	// name in the output directory.
	output string
	stdout io.Writer
}

// processInput runs one input through the pipeline and writes its output.
// A batch that fails strict linting keeps its result, so its findings still
// reach the lint log, but nothing is written for it.
func processInput(conv *converter.Converter, out outputTarget, input string) fileResult {
	start := time.Now()
	res := fileResult{input: input}

	raw, err := out.fm.ReadInput(input)
	if err != nil {
		res.err = err
		return res
	}

	result, err := conv.Run(raw)
	if err != nil {
		res.err = err
		return res
	}
	res.result = result

	if !result.Valid {
		res.err = fmt.Errorf("%d record(s) failed strict linting", len(result.Findings))
		return res
	}

	res.output, res.err = writeRecords(out, result, input)
	res.elapsed = time.Since(start)
	return res
}

// writeRecords writes the batch to stdout, an explicit path, or a generated
// name in the output directory, and returns where it went.
func writeRecords(out outputTarget, result *converter.Result, input string) (string, error) {
	if out.output == utils.StdinArg {
		if err := sheetwriter.Write(out.stdout, out.format, result.Records); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		if out.format != config.OutputXLSX {
			fmt.Fprintln(out.stdout)
		}
		return "stdout", nil
	}

	var file *os.File
	var path string
	var err error

	if out.output != "" {
		path = out.output
		file, err = os.Create(out.output)
		if err != nil {
			err = fmt.Errorf("failed to create output file: %w", err)
		}
	} else {
		name := utils.GenerateOutputFileName(out.nameFormat, sheetwriter.Extension(out.format), input, time.Now())
		file, path, err = out.fm.Create(out.names.Claim(name))
	}
	if err != nil {
		return "", err
	}

	if err := sheetwriter.Write(file, out.format, result.Records); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close output: %w", err)
	}
	return path, nil
}
