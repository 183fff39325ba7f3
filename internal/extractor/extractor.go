// =============================================================================
// TCG Order Processor - Field Extractors
// =============================================================================
//
// This module turns a tokenized record into an OrderRecord. Each marketplace
// lays out its columns differently, so every format implements the Extractor
// interface with one method per extraction step; Build runs the steps in a
// fixed order and applies the rules shared by both formats:
//
//   1. Check the row has enough columns for the format
//   2. Pull the order identifier, date, amounts and raw audit text
//   3. Parse the product/card description
//   4. Resolve the set code (or mark the order canceled)
//
// Field-level failures never abort a record: an unmatched pattern yields the
// documented default (empty string, zero, "Unknown").
//
// =============================================================================

package extractor

import (
	"strings"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/setmap"
	"github.com/ginjaninja78/tcg-order-processor/internal/tsvparser"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/shopspring/decimal"
)

// PeerMarker is the substring that identifies a Manapool export.
const PeerMarker = "manapool.com"

// =============================================================================
// FORMAT DETECTION
// =============================================================================

// Detect chooses the source format of a batch from its first data line (the
// line right after the header). Batches are assumed not to mix formats.
func Detect(firstDataLine string) types.Format {
	if strings.Contains(firstDataLine, PeerMarker) {
		return types.PeerFormat
	}
	return types.ConsignmentFormat
}

// =============================================================================
// EXTRACTOR INTERFACE
// =============================================================================

// Amounts holds the monetary fields of one order.
type Amounts struct {
	// Net is the absolute sale amount added to the batch total.
	Net decimal.Decimal

	// NetFound is false when the amount field could not be parsed.
	NetFound bool

	// Fee is the direct-fulfillment fee, zero when not direct.
	Fee decimal.Decimal

	// Direct marks a direct-fulfillment order.
	Direct bool

	// Canceled marks an order whose net amount is exactly zero.
	Canceled bool
}

// Extractor pulls the fields of one format out of a TokenRow.
type Extractor interface {
	// Format identifies the source format.
	Format() types.Format

	// MinColumns is the number of columns a row needs to be extracted.
	MinColumns() int

	// OrderID returns the marketplace order identifier, or "".
	OrderID(row tsvparser.TokenRow) string

	// OrderDate returns the order date as found in the export, or "".
	OrderDate(row tsvparser.TokenRow) string

	// Amounts extracts sale amounts and fulfillment details.
	Amounts(row tsvparser.TokenRow) Amounts

	// Description returns the comma-joined line items.
	Description(row tsvparser.TokenRow) string

	// Store returns the store label for the order.
	Store(amounts Amounts) string

	// RawData returns the contributing columns flattened for auditing.
	RawData(row tsvparser.TokenRow) string
}

// For returns the extractor for a format.
func For(format types.Format, labels config.Labels) Extractor {
	if format == types.PeerFormat {
		return &Peer{Labels: labels}
	}
	return &Consignment{Labels: labels}
}

// =============================================================================
// RECORD ASSEMBLY
// =============================================================================

// Result is the outcome of extracting one row.
type Result struct {
	Record  types.OrderRecord
	Amounts Amounts
}

// Build extracts one OrderRecord from row. It returns false when the row has
// too few columns for the extractor's format.
func Build(e Extractor, row tsvparser.TokenRow, table *setmap.Table, labels config.Labels) (Result, bool) {
	if len(row) < e.MinColumns() {
		return Result{}, false
	}

	amounts := e.Amounts(row)

	record := types.OrderRecord{
		Date:        e.OrderDate(row),
		Description: e.Description(row),
		Type:        labels.Type,
		Set:         types.SetUnknown,
		Store:       e.Store(amounts),
		Expense:     labels.Expense,
		Payment:     labels.Payment,
		SellDollars: FormatCurrency(amounts.Net),
		Notes:       e.OrderID(row),
		RawData:     e.RawData(row),
	}

	if amounts.Direct {
		record.Direct = FormatCurrency(amounts.Fee)
	}

	switch {
	case amounts.Canceled:
		record.Description = types.DescriptionCanceled
		record.Set = types.SetNotApplicable
	case record.Description != "":
		record.Set = table.ResolveDescription(record.Description)
	}

	return Result{Record: record, Amounts: amounts}, true
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// FormatCurrency renders an amount as "$ 12.34". Zero renders as "".
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return "$ " + amount.StringFixed(2)
}

// flattenRaw joins audit columns with blank lines, then puts the result on a
// single line: newlines become " | " and tabs become spaces.
func flattenRaw(columns ...string) string {
	joined := strings.Join(columns, "\n\n")
	joined = strings.ReplaceAll(joined, "\n", " | ")
	return strings.ReplaceAll(joined, "\t", " ")
}

// parseAmount parses a decimal, reporting false for malformed input.
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
