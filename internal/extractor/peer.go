// =============================================================================
// TCG Order Processor - Manapool Extractor
// =============================================================================
//
// This module reads Manapool seller order rows. A row carries the order link,
// a details column with the order date, the seller earnings and a multi-line
// card list.
//
// AMOUNTS:
//   Earnings are rounded to cents when extracted, so the batch total always
//   equals the sum of the rendered Sell Dollars column.
//
// =============================================================================

package extractor

import (
	"regexp"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/description"
	"github.com/ginjaninja78/tcg-order-processor/internal/tsvparser"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/google/uuid"
)

// Manapool columns.
const (
	peerColURL      = 0
	peerColDetails  = 1
	peerColEarnings = 2
	peerColCards    = 3
)

var (
	peerOrderID  = regexp.MustCompile(`(?i)([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`)
	peerDate     = regexp.MustCompile(`Order placed on (\d{2}/\d{2}/\d{4})`)
	peerEarnings = regexp.MustCompile(`Earnings\s+\$?([\d.]+)`)

	// leadingDecimal trims captures such as "12.34." to a parseable prefix.
	leadingDecimal = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// Peer extracts Manapool order rows:
//
//	col 0: order link        https://manapool.com/seller/orders/<uuid>
//	col 1: order details     "Order placed on 01/02/2025 ..."
//	col 2: earnings          "Earnings $12.34"
//	col 3: card list         multi-line, see description.ParseCards
type Peer struct {
	Labels config.Labels
}

// Format returns types.PeerFormat.
func (p *Peer) Format() types.Format { return types.PeerFormat }

// MinColumns is 4: link, details, earnings and cards.
func (p *Peer) MinColumns() int { return 4 }

// OrderID returns the order UUID from the order link, lowercased.
func (p *Peer) OrderID(row tsvparser.TokenRow) string {
	m := peerOrderID.FindString(row.Column(peerColURL))
	if m == "" {
		return ""
	}
	id, err := uuid.Parse(m)
	if err != nil {
		return ""
	}
	return id.String()
}

// OrderDate returns the MM/DD/YYYY date after "Order placed on", or "".
func (p *Peer) OrderDate(row tsvparser.TokenRow) string {
	m := peerDate.FindStringSubmatch(row.Column(peerColDetails))
	if m == nil {
		return ""
	}
	return m[1]
}

// Amounts reads the seller earnings, rounded to cents. Manapool orders are
// never direct and are never marked canceled, even with zero earnings.
func (p *Peer) Amounts(row tsvparser.TokenRow) Amounts {
	m := peerEarnings.FindStringSubmatch(row.Column(peerColEarnings))
	if m == nil {
		return Amounts{}
	}
	earnings, ok := parseAmount(leadingDecimal.FindString(m[1]))
	return Amounts{Net: earnings.Abs().Round(2), NetFound: ok}
}

// Description condenses the card list into comma-joined line items.
func (p *Peer) Description(row tsvparser.TokenRow) string {
	return description.CardDescription(row.Column(peerColCards))
}

// Store always returns the peer store label.
func (p *Peer) Store(Amounts) string { return p.Labels.PeerStore }

// RawData flattens the details, earnings and card columns.
func (p *Peer) RawData(row tsvparser.TokenRow) string {
	return flattenRaw(row.Column(peerColDetails), row.Column(peerColEarnings), row.Column(peerColCards))
}
