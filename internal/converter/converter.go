// =============================================================================
// TCG Order Processor - Converter Module
// =============================================================================
//
// This module contains the core batch pipeline. It turns one pasted order
// export into OrderRecords and a batch summary.
//
// CONVERSION PIPELINE:
//   1. Reject blank input
//   2. Split off the header and detect the source format from the first
//      data line
//   3. Group physical lines into record blocks
//   4. Tokenize each block into columns
//   5. Extract an OrderRecord per row (short rows are skipped)
//   6. Lint the records for fields that fell back to defaults
//   7. Compute the batch summary
//
// ERROR HANDLING:
//   A batch either succeeds with all of its records or fails with exactly one
//   error and no records. Panics raised anywhere in steps 2-7 are recovered
//   and reported as a *FatalError.
//
// CONCURRENCY:
//   A Converter holds only read-only state, so one instance may run several
//   batches concurrently.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/extractor"
	"github.com/ginjaninja78/tcg-order-processor/internal/metrics"
	"github.com/ginjaninja78/tcg-order-processor/internal/setmap"
	"github.com/ginjaninja78/tcg-order-processor/internal/tsvparser"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/ginjaninja78/tcg-order-processor/internal/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ModeOrders is the metrics mode label for order batches.
const ModeOrders = "orders"

// ErrEmptyInput is returned when the pasted batch is blank.
var ErrEmptyInput = errors.New("empty order batch")

// FatalError aborts a whole batch.
type FatalError struct {
	// Cause is the underlying error, or the recovered panic value wrapped
	// as an error.
	Cause error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("processing error: %v", e.Cause)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single batch.
type Result struct {
	// Format is the detected source format.
	Format types.Format

	// Records are the extracted orders, in input order.
	Records []types.OrderRecord

	// Summary holds the batch totals.
	Summary types.Summary

	// Findings are lint findings for records that fell back to defaults.
	Findings []*validation.ValidationError

	// Valid is false when linting reported findings of severity "error".
	Valid bool

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// InputLength is the pasted text length in characters.
	InputLength int

	// LineCount is the number of physical lines in the pasted text.
	LineCount int

	// BlocksFound is the number of record blocks after splitting.
	BlocksFound int

	// RowsSkipped is the number of blocks with too few columns.
	RowsSkipped int

	// ProcessingTime is the time taken to process the batch.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs order batches against a set mapping table.
type Converter struct {
	table     *setmap.Table
	labels    config.Labels
	validator *validation.Validator
	logger    *zap.Logger
	metrics   *metrics.Recorder

	// build is extractor.Build; tests swap it out.
	build func(extractor.Extractor, tsvparser.TokenRow, *setmap.Table, config.Labels) (extractor.Result, bool)
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records batch outcomes on recorder.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(c *Converter) {
		c.metrics = recorder
	}
}

// WithValidator replaces the default record linter, for example with one
// built from the lint settings in the configuration.
func WithValidator(validator *validation.Validator) Option {
	return func(c *Converter) {
		if validator != nil {
			c.validator = validator
		}
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter.
//
// PARAMETERS:
//   - table: The set mapping table used to resolve set codes. A nil table
//     resolves every line item to "Unknown".
//   - labels: The constant column values written on every record.
//   - opts: Optional logger, metrics recorder and validator.
//
// RETURNS:
//   - A new Converter instance.
func New(table *setmap.Table, labels config.Labels, opts ...Option) *Converter {
	c := &Converter{
		table:     table,
		labels:    labels,
		validator: validation.NewValidator(),
		logger:    zap.NewNop(),
		build:     extractor.Build,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the batch pipeline over raw.
//
// RETURNS:
//   - The records, summary and lint findings of the batch.
//   - ErrEmptyInput for blank input, or a *FatalError when the batch could
//     not be processed. The Result is nil whenever the error is non-nil.
func (c *Converter) Run(raw string) (result *Result, err error) {
	startTime := time.Now()

	if strings.TrimSpace(raw) == "" {
		c.recordBatch(metrics.StatusEmpty)
		return nil, ErrEmptyInput
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &FatalError{Cause: panicError(r)}
			c.logger.Error("Batch aborted", zap.Error(err))
			c.recordBatch(metrics.StatusFatal)
		}
	}()

	result = &Result{
		Stats: ProcessingStats{
			InputLength: utf8.RuneCountInString(raw),
			LineCount:   strings.Count(raw, "\n") + 1,
		},
	}

	c.logger.Debug("Processing batch",
		zap.Int("input_length", result.Stats.InputLength),
		zap.Int("line_count", result.Stats.LineCount),
	)

	// =========================================================================
	// STEP 1: DETECT FORMAT AND SPLIT RECORDS
	// =========================================================================

	_, lines := tsvparser.Lines(raw)

	firstDataLine := ""
	if len(lines) > 0 {
		firstDataLine = lines[0]
	}
	result.Format = extractor.Detect(firstDataLine)

	blocks := tsvparser.Split(lines)
	result.Stats.BlocksFound = len(blocks)

	c.logger.Debug("Split batch into record blocks",
		zap.Stringer("format", result.Format),
		zap.Int("blocks", len(blocks)),
	)

	// =========================================================================
	// STEP 2: EXTRACT RECORDS
	// =========================================================================

	ext := extractor.For(result.Format, c.labels)
	subjects := make([]validation.Subject, 0, len(blocks))

	total := decimal.Zero
	directCount := 0

	for i, block := range blocks {
		row := tsvparser.Tokenize(block)

		extracted, ok := c.build(ext, row, c.table, c.labels)
		if !ok {
			result.Stats.RowsSkipped++
			c.logger.Debug("Skipping record with too few columns",
				zap.Int("block", i),
				zap.Int("columns", len(row)),
				zap.Int("required", ext.MinColumns()),
			)
			continue
		}

		result.Records = append(result.Records, extracted.Record)
		subjects = append(subjects, validation.Subject{
			Record:      extracted.Record,
			AmountFound: extracted.Amounts.NetFound,
		})

		total = total.Add(extracted.Amounts.Net)
		if extracted.Amounts.Direct {
			directCount++
		}
	}

	// =========================================================================
	// STEP 3: LINT RECORDS
	// =========================================================================

	lint := c.validator.ValidateAll(subjects)
	result.Findings = lint.Errors
	result.Valid = lint.IsValid

	for _, finding := range lint.Errors {
		c.logger.Debug("Field fell back to default",
			zap.String("field", finding.Field),
			zap.String("rule", finding.Rule),
			zap.Int("record", finding.RecordIndex),
			zap.String("order", finding.OrderID),
		)
	}

	// =========================================================================
	// STEP 4: SUMMARIZE
	// =========================================================================

	result.Summary = Summarize(result.Records, total, directCount)
	result.Stats.ProcessingTime = time.Since(startTime)

	c.recordResult(result, lint)

	c.logger.Info("Processed batch",
		zap.Stringer("format", result.Format),
		zap.Int("orders", result.Summary.TotalOrders),
		zap.Int("skipped", result.Stats.RowsSkipped),
		zap.String("total_net", result.Summary.TotalNet.StringFixed(2)),
		zap.Bool("all_direct", result.Summary.AllDirect),
		zap.Int("findings", len(result.Findings)),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	return result, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Summarize builds the batch summary. An empty batch counts as all-direct,
// and the date range is the first record's date.
func Summarize(records []types.OrderRecord, total decimal.Decimal, directCount int) types.Summary {
	summary := types.Summary{
		TotalOrders: len(records),
		TotalNet:    total,
		AllDirect:   directCount == len(records),
	}
	if len(records) > 0 {
		summary.DateRange = records[0].Date
	}
	return summary
}

func (c *Converter) recordBatch(status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.BatchesTotal.WithLabelValues(ModeOrders, status).Inc()
}

func (c *Converter) recordResult(result *Result, lint *validation.ValidationResult) {
	if c.metrics == nil {
		return
	}

	format := result.Format.String()
	for _, record := range result.Records {
		c.metrics.OrdersTotal.WithLabelValues(format, record.Store).Inc()
	}
	if result.Stats.RowsSkipped > 0 {
		c.metrics.SkippedRecords.WithLabelValues(format).Add(float64(result.Stats.RowsSkipped))
	}
	for field, n := range lint.CountByField() {
		c.metrics.SoftFailuresTotal.WithLabelValues(field).Add(float64(n))
	}
	c.metrics.NetAmountTotal.Add(result.Summary.TotalNet.InexactFloat64())
	c.recordBatch(metrics.StatusSuccess)
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
