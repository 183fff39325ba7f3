// =============================================================================
// TCG Order Processor - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extractor
//   - converter
//   - validation
//   - sheetwriter
//
// =============================================================================

package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SOURCE FORMATS
// =============================================================================

// Format identifies which marketplace export a batch was pasted from.
// It is decided once per batch by the format detector.
type Format int

const (
	// ConsignmentFormat is the TCGplayer seller portal order export.
	// It is also the fallback for empty or ambiguous input.
	ConsignmentFormat Format = iota

	// PeerFormat is the Manapool seller order export.
	PeerFormat
)

// String returns a short lowercase name suitable for logs and metric labels.
func (f Format) String() string {
	switch f {
	case PeerFormat:
		return "manapool"
	case ConsignmentFormat:
		return "tcgplayer"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// =============================================================================
// SET RESOLUTION VALUES
// =============================================================================

const (
	// SetUnknown is used when no line item matched a set mapping.
	SetUnknown = "Unknown"

	// SetVarious is used when line items resolved to more than one set code.
	SetVarious = "Various"

	// SetNotApplicable is used for canceled orders.
	SetNotApplicable = "N/A"

	// DescriptionCanceled replaces the description of a zero-net order.
	DescriptionCanceled = "Canceled"
)

// =============================================================================
// ORDER RECORD
// =============================================================================

// Field names of an OrderRecord, in export order.
const (
	FieldDate         = "Date"
	FieldDescription  = "Description"
	FieldType         = "Type"
	FieldSet          = "Set"
	FieldStore        = "Store"
	FieldExpense      = "Expense"
	FieldPayment      = "Payment"
	FieldBuyDollars   = "Buy Dollars"
	FieldSellDollars  = "Sell Dollars"
	FieldGroupingCode = "Grouping Code"
	FieldDirect       = "Direct"
	FieldNotes        = "Notes"
	FieldRawData      = "Raw Data"
)

// Headers lists the 13 OrderRecord fields in the order they are exported.
var Headers = []string{
	FieldDate,
	FieldDescription,
	FieldType,
	FieldSet,
	FieldStore,
	FieldExpense,
	FieldPayment,
	FieldBuyDollars,
	FieldSellDollars,
	FieldGroupingCode,
	FieldDirect,
	FieldNotes,
	FieldRawData,
}

// OrderRecord is one normalized order, ready to be pasted into a spreadsheet.
type OrderRecord struct {
	// Date is the order date exactly as it was found in the export.
	Date string

	// Description is the comma-joined list of normalized line items,
	// or "Canceled" for zero-net orders.
	Description string

	// Type is always "Singles" with the default configuration.
	Type string

	// Set is Unknown, Various, N/A or a concrete set code.
	Set string

	// Store is the marketplace label (Manapool, TCGplayer, Direct TCGplayer).
	Store string

	// Expense and Payment are configured constants.
	Expense string
	Payment string

	// BuyDollars and GroupingCode are always empty.
	BuyDollars   string
	GroupingCode string

	// SellDollars is the formatted sale amount ("$ 12.34") or empty.
	SellDollars string

	// Direct is the formatted direct-fulfillment fee or empty.
	Direct string

	// Notes holds the marketplace order identifier.
	Notes string

	// RawData is the source columns flattened onto one line for auditing.
	RawData string
}

// Values returns the record's fields in Headers order.
func (r OrderRecord) Values() []string {
	return []string{
		r.Date,
		r.Description,
		r.Type,
		r.Set,
		r.Store,
		r.Expense,
		r.Payment,
		r.BuyDollars,
		r.SellDollars,
		r.GroupingCode,
		r.Direct,
		r.Notes,
		r.RawData,
	}
}

// =============================================================================
// CARD LINE ITEM
// =============================================================================

// CardLineItem is one card parsed out of a multi-line card description.
type CardLineItem struct {
	Quantity         int
	CardName         string
	SetName          string
	CollectorNumber  string
	Condition        string
	SpecialAttribute string
}

// String renders the item the way it appears inside an OrderRecord description:
//
//	2x Set Name: Card Name - #123 - NM Foil
func (c CardLineItem) String() string {
	suffix := ""
	if c.SpecialAttribute != "" {
		suffix = " " + c.SpecialAttribute
	}
	return fmt.Sprintf("%dx %s: %s - #%s - %s%s",
		c.Quantity, c.SetName, c.CardName, c.CollectorNumber, c.Condition, suffix)
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary describes a processed batch. It is always recomputed from the
// records or URLs it summarizes.
type Summary struct {
	TotalOrders int
	TotalNet    decimal.Decimal
	AllDirect   bool
	DateRange   string
}
