package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanRecord() types.OrderRecord {
	return types.OrderRecord{
		Date:        "3/7/2025",
		Description: "1x Bloomburrow: Opt - #1 - NM",
		Set:         "BLB",
		SellDollars: "$ 1.00",
		Notes:       "8B5DCE37-050272-E8FFC",
	}
}

func TestValidateRecord_Clean(t *testing.T) {
	findings := NewValidator().ValidateRecord(0, Subject{Record: cleanRecord(), AmountFound: true})
	assert.Empty(t, findings)
}

func TestValidateRecord_SoftFailures(t *testing.T) {
	record := types.OrderRecord{Set: types.SetUnknown}

	findings := NewValidator().ValidateRecord(4, Subject{Record: record})

	rules := make(map[string]string)
	for _, f := range findings {
		rules[f.Field] = f.Rule
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.Equal(t, 4, f.RecordIndex)
	}

	assert.Equal(t, map[string]string{
		types.FieldDate:        RuleRequired,
		types.FieldNotes:       RuleRequired,
		types.FieldDescription: RuleRequired,
		types.FieldSet:         RuleSetCode,
		types.FieldSellDollars: RuleAmount,
	}, rules)
}

func TestValidateRecord_DateFormat(t *testing.T) {
	record := cleanRecord()
	record.Date = "Ordered yesterday"

	findings := NewValidator().ValidateRecord(0, Subject{Record: record, AmountFound: true})
	require.Len(t, findings, 1)
	assert.Equal(t, RuleDateFormat, findings[0].Rule)

	skip := NewValidatorWithOptions(ValidationOptions{SkipDateFormat: true})
	assert.Empty(t, skip.ValidateRecord(0, Subject{Record: record, AmountFound: true}))
}

func TestValidateRecord_PaddedDate(t *testing.T) {
	record := cleanRecord()
	record.Date = "02/14/2025"
	assert.Empty(t, NewValidator().ValidateRecord(0, Subject{Record: record, AmountFound: true}))
}

func TestValidateRecord_CanceledIsClean(t *testing.T) {
	record := cleanRecord()
	record.Description = types.DescriptionCanceled
	record.Set = types.SetNotApplicable
	record.SellDollars = ""

	assert.Empty(t, NewValidator().ValidateRecord(0, Subject{Record: record, AmountFound: true}))
}

func TestValidateAll(t *testing.T) {
	subjects := []Subject{
		{Record: cleanRecord(), AmountFound: true},
		{Record: types.OrderRecord{Date: "1/1/2025", Description: "x", Set: types.SetUnknown, Notes: "A"}, AmountFound: true},
	}

	result := NewValidator().ValidateAll(subjects)
	assert.True(t, result.IsValid)
	assert.Equal(t, 2, result.RecordsValidated)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, map[string]int{types.FieldSet: 1}, result.CountByField())

	strict := NewValidatorWithOptions(ValidationOptions{TreatWarningsAsErrors: true}).ValidateAll(subjects)
	assert.False(t, strict.IsValid)
	assert.Equal(t, 1, strict.ErrorCount)
	assert.Zero(t, strict.WarningCount)
	require.Len(t, strict.Errors, 1)
	assert.Equal(t, SeverityError, strict.Errors[0].Severity)
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{{
		Severity: SeverityWarning,
		Field:    types.FieldSet,
		Value:    "Unknown",
		Message:  "No set mapping matched any line item",
	}})
	assert.Contains(t, out, "1 finding(s)")
	assert.Contains(t, out, "[WARNING] Record 0 (order ?), Field 'Set'")
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	findings := NewValidator().ValidateAll([]Subject{{Record: types.OrderRecord{Set: "BLB", Date: "1/1/2025", Description: "x"}, AmountFound: true}}).Errors
	findings[0].Source = "march.tsv"

	require.NoError(t, WriteErrorLog(findings, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARNING] march.tsv: Record 0 (order ?), Field 'Notes': Order number was not found")
}
