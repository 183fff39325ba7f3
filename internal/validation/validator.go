// =============================================================================
// TCG Order Processor - Record Linting
// =============================================================================
//
// This module checks extracted OrderRecords for fields that fell back to
// their default value during extraction. Extraction never fails on a single
// field, so linting is how those silent fallbacks become visible:
//   - Missing order date, order number or description
//   - Dates that are present but not in M/D/YYYY form
//   - Set codes that could not be resolved
//   - Sale amounts that could not be parsed
//
// ERROR HANDLING:
//   - Findings are collected, never returned as a Go error
//   - Every finding carries the record index and order number
//   - Findings are warnings by default; strict linting promotes them to
//     errors so the caller can reject the batch
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ginjaninja78/tcg-order-processor/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleRequired   = "required"
	RuleDateFormat = "date_format"
	RuleSetCode    = "set_unresolved"
	RuleAmount     = "amount_unparsed"
)

// dateLayouts are the order date layouts both marketplaces emit.
var dateLayouts = []string{"1/2/2006", "01/02/2006"}

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single lint finding.
type ValidationError struct {
	// Severity is "error" or "warning".
	Severity string

	// Source names the input the record came from. Empty for a single paste.
	Source string

	// Field is the OrderRecord field that was checked.
	Field string

	// Value is the field value that triggered the finding.
	Value string

	// Rule is the lint rule that fired.
	Rule string

	// Message is a human-readable description.
	Message string

	// RecordIndex is the zero-based position of the record in its batch.
	RecordIndex int

	// OrderID is the record's order number, if one was extracted.
	OrderID string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	order := e.OrderID
	if order == "" {
		order = "?"
	}
	source := ""
	if e.Source != "" {
		source = e.Source + ": "
	}
	return fmt.Sprintf("[%s] %sRecord %d (order %s), Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		source,
		e.RecordIndex,
		order,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the findings for a batch.
type ValidationResult struct {
	// IsValid is true if there are no findings of severity "error".
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

// CountByField tallies findings per field.
func (r *ValidationResult) CountByField() map[string]int {
	counts := make(map[string]int)
	for _, err := range r.Errors {
		counts[err.Field]++
	}
	return counts
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Subject is one record to lint together with extraction facts that are not
// visible on the record itself.
type Subject struct {
	Record types.OrderRecord

	// AmountFound is false when the net amount pattern did not match.
	AmountFound bool
}

// ValidationOptions contains options for linting.
type ValidationOptions struct {
	// TreatWarningsAsErrors reports every finding with severity "error",
	// which marks the result invalid.
	TreatWarningsAsErrors bool

	// SkipDateFormat disables the date layout check.
	SkipDateFormat bool
}

// Validator lints OrderRecords.
type Validator struct {
	options ValidationOptions
}

// DefaultValidationOptions returns the default options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// NewValidator creates a Validator with default options.
func NewValidator() *Validator {
	return &Validator{options: DefaultValidationOptions()}
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateAll lints every subject and returns a detailed result.
func (v *Validator) ValidateAll(subjects []Subject) *ValidationResult {
	result := &ValidationResult{
		IsValid:          true,
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(subjects),
	}

	for i := range subjects {
		for _, err := range v.ValidateRecord(i, subjects[i]) {
			result.Errors = append(result.Errors, err)

			if err.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
			}
		}
	}

	return result
}

// ValidateRecord lints a single record.
//
// PARAMETERS:
//   - index: The record's position in its batch.
//   - subject: The record and its extraction facts.
//
// RETURNS:
//   - The findings for this record, nil when it is clean.
func (v *Validator) ValidateRecord(index int, subject Subject) []*ValidationError {
	record := subject.Record
	var findings []*ValidationError

	severity := SeverityWarning
	if v.options.TreatWarningsAsErrors {
		severity = SeverityError
	}

	add := func(field, value, rule, message string) {
		findings = append(findings, &ValidationError{
			Severity:    severity,
			Field:       field,
			Value:       value,
			Rule:        rule,
			Message:     message,
			RecordIndex: index,
			OrderID:     record.Notes,
		})
	}

	// =========================================================================
	// REQUIRED FIELDS
	// =========================================================================

	if record.Date == "" {
		add(types.FieldDate, "", RuleRequired, "Order date was not found")
	} else if !v.options.SkipDateFormat && !isDate(record.Date) {
		add(types.FieldDate, record.Date, RuleDateFormat, "Order date is not in M/D/YYYY form")
	}

	if record.Notes == "" {
		add(types.FieldNotes, "", RuleRequired, "Order number was not found")
	}

	if record.Description == "" {
		add(types.FieldDescription, "", RuleRequired, "No line items were parsed")
	}

	// =========================================================================
	// DERIVED FIELDS
	// =========================================================================

	if record.Set == types.SetUnknown {
		add(types.FieldSet, record.Set, RuleSetCode, "No set mapping matched any line item")
	}

	if !subject.AmountFound {
		add(types.FieldSellDollars, record.SellDollars, RuleAmount, "Net amount could not be parsed")
	}

	return findings
}

func isDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes findings to filePath, replacing any existing file.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatErrors(errors)); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return writer.Flush()
}
