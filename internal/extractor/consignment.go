// =============================================================================
// TCG Order Processor - TCGplayer Extractor
// =============================================================================
//
// This module reads TCGplayer seller portal order rows. The portal export has
// nine or more columns; the product list, transaction block, order number,
// date and fulfillment type are the ones used.
//
// CANCELED ORDERS:
//   A net amount of exactly 0.00 marks the order canceled. Build then
//   replaces the description and set with "Canceled" and "N/A".
//
// =============================================================================

package extractor

import (
	"regexp"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/description"
	"github.com/ginjaninja78/tcg-order-processor/internal/tsvparser"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/shopspring/decimal"
)

// TCGplayer columns. Columns 0, 5 and 8+ are not used.
const (
	consColProducts    = 1
	consColTransaction = 2
	consColGeneral     = 3
	consColOrderNumber = 4
	consColDate        = 6
	consColFulfillment = 7
)

// FulfillmentDirect is the fulfillment column value of a direct order.
const FulfillmentDirect = "Direct"

var (
	consFee       = regexp.MustCompile(`Fee Amount\s+\(\$?(\d+\.\d{2})\)`)
	consDirectFee = regexp.MustCompile(`Direct Program Fee\s+\(\$?(\d+\.\d{2})\)`)
	consNet       = regexp.MustCompile(`Net Amount\s+\$?(-?\d+\.\d{2})`)
	consDate      = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`)
)

// Consignment extracts TCGplayer seller portal order rows.
type Consignment struct {
	Labels config.Labels
}

// Format returns types.ConsignmentFormat.
func (c *Consignment) Format() types.Format { return types.ConsignmentFormat }

// MinColumns is 9, the width of the portal export.
func (c *Consignment) MinColumns() int { return 9 }

// OrderID returns the order number column verbatim.
func (c *Consignment) OrderID(row tsvparser.TokenRow) string {
	return row.Column(consColOrderNumber)
}

// OrderDate returns the first D/D/YYYY date in the date column, or the
// column unchanged when it holds none.
func (c *Consignment) OrderDate(row tsvparser.TokenRow) string {
	return ParseDate(row.Column(consColDate))
}

// Amounts reads the net amount and, for direct orders, the fee.
//
// FEE PRECEDENCE:
//  1. "Direct Program Fee ($x.xx)" when strictly positive
//  2. "Fee Amount ($x.xx)"
//  3. zero
func (c *Consignment) Amounts(row tsvparser.TokenRow) Amounts {
	transaction := row.Column(consColTransaction)
	amounts := Amounts{
		Direct: row.Column(consColFulfillment) == FulfillmentDirect,
	}

	if amounts.Direct {
		amounts.Fee = directFee(transaction)
	}

	if m := consNet.FindStringSubmatch(transaction); m != nil {
		if net, ok := parseAmount(m[1]); ok {
			amounts.Net = net.Abs()
			amounts.NetFound = true
			amounts.Canceled = net.IsZero()
		}
	}

	return amounts
}

// Description condenses the product list into comma-joined line items.
func (c *Consignment) Description(row tsvparser.TokenRow) string {
	return description.ProductDescription(row.Column(consColProducts))
}

// Store returns the direct store label for direct orders and the
// consignment store label otherwise.
func (c *Consignment) Store(amounts Amounts) string {
	if amounts.Direct {
		return c.Labels.DirectStore
	}
	return c.Labels.ConsignmentStore
}

// RawData flattens the product, transaction and general columns.
func (c *Consignment) RawData(row tsvparser.TokenRow) string {
	return flattenRaw(row.Column(consColProducts), row.Column(consColTransaction), row.Column(consColGeneral))
}

// ParseDate returns the first D/D/YYYY substring of s, or s unchanged.
func ParseDate(s string) string {
	if m := consDate.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// directFee applies the fee precedence documented on Amounts.
func directFee(transaction string) decimal.Decimal {
	if m := consDirectFee.FindStringSubmatch(transaction); m != nil {
		if fee, ok := parseAmount(m[1]); ok && fee.IsPositive() {
			return fee
		}
	}
	if m := consFee.FindStringSubmatch(transaction); m != nil {
		if fee, ok := parseAmount(m[1]); ok {
			return fee
		}
	}
	return decimal.Zero
}
