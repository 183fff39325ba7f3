package extractor

import (
	"testing"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/setmap"
	"github.com/ginjaninja78/tcg-order-processor/internal/tsvparser"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTable = setmap.New([]setmap.Entry{
	{Name: "Bloomburrow", Code: "BLB"},
	{Name: "Duskmourn", Code: "DSK"},
	{Name: "Magic 2010", Code: "M10"},
})

func consignmentRow(products, transaction, fulfillment string) tsvparser.TokenRow {
	return tsvparser.TokenRow{
		"https://sellerportal.tcgplayer.com/orders/8B5DCE37-050272-E8FFC",
		products,
		transaction,
		"Buyer Name\nShipping: Standard",
		"8B5DCE37-050272-E8FFC",
		"Processing",
		"Ordered on 3/7/2025 at 10:15 AM",
		fulfillment,
		"",
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, types.PeerFormat, Detect("https://manapool.com/seller/orders/abc\tx"))
	assert.Equal(t, types.ConsignmentFormat, Detect("https://sellerportal.tcgplayer.com/orders/X"))
	assert.Equal(t, types.ConsignmentFormat, Detect(""))
}

func TestFor(t *testing.T) {
	labels := config.DefaultLabels()
	assert.Equal(t, types.PeerFormat, For(types.PeerFormat, labels).Format())
	assert.Equal(t, types.ConsignmentFormat, For(types.ConsignmentFormat, labels).Format())
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$ 3.00", FormatCurrency(decimal.NewFromInt(3)))
	assert.Equal(t, "$ 12.35", FormatCurrency(decimal.RequireFromString("12.345")))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, "3/7/2025", ParseDate("Ordered on 3/7/2025 at 10:15 AM"))
	assert.Equal(t, "12/31/2024", ParseDate("12/31/2024"))
	assert.Equal(t, "yesterday", ParseDate("yesterday"))
}

func TestConsignment_FeePrecedence(t *testing.T) {
	tests := []struct {
		name        string
		transaction string
		want        string
	}{
		{"direct fee wins", "Fee Amount ($5.00)\nDirect Program Fee ($3.00)\nNet Amount $10.00", "$ 3.00"},
		{"fee only", "Fee Amount ($5.00)\nNet Amount $10.00", "$ 5.00"},
		{"zero direct fee loses", "Direct Program Fee ($0.00)\nFee Amount ($5.00)\nNet Amount $10.00", "$ 5.00"},
		{"no fees", "Net Amount $10.00", ""},
	}

	labels := config.DefaultLabels()
	e := For(types.ConsignmentFormat, labels)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := consignmentRow("", tt.transaction, FulfillmentDirect)

			result, ok := Build(e, row, testTable, labels)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Record.Direct)
			assert.Equal(t, "Direct TCGplayer", result.Record.Store)
		})
	}
}

func TestConsignment_NotDirectIgnoresFees(t *testing.T) {
	labels := config.DefaultLabels()
	row := consignmentRow("", "Fee Amount ($5.00)\nNet Amount $10.00", "Seller")

	result, ok := Build(For(types.ConsignmentFormat, labels), row, testTable, labels)
	require.True(t, ok)

	assert.Equal(t, "", result.Record.Direct)
	assert.Equal(t, "TCGplayer", result.Record.Store)
	assert.False(t, result.Amounts.Direct)
}

func TestConsignment_Record(t *testing.T) {
	products := "Magic - Bloomburrow: Lightning Strike - #150 - Near Mint Foil\t\n$0.50\n\t2\t$1.00\n" +
		"Magic - Duskmourn: Opt - #65 - Lightly Played\t\n$0.25\n\t1\t$0.25"
	labels := config.DefaultLabels()
	row := consignmentRow(products, "Net Amount -1.25", "Seller")

	result, ok := Build(For(types.ConsignmentFormat, labels), row, testTable, labels)
	require.True(t, ok)

	r := result.Record
	assert.Equal(t, "3/7/2025", r.Date)
	assert.Equal(t, "2x Bloomburrow: Lightning Strike - #150 - Near Mint Foil, 1x Duskmourn: Opt - #65 - Lightly Played", r.Description)
	assert.Equal(t, "Various", r.Set)
	assert.Equal(t, "Singles", r.Type)
	assert.Equal(t, "100%", r.Expense)
	assert.Equal(t, "Fidelity Magic", r.Payment)
	assert.Equal(t, "", r.BuyDollars)
	assert.Equal(t, "", r.GroupingCode)
	assert.Equal(t, "8B5DCE37-050272-E8FFC", r.Notes)
	assert.NotContains(t, r.RawData, "\n")
	assert.NotContains(t, r.RawData, "\t")
	assert.Contains(t, r.RawData, " | ")
	assert.True(t, result.Amounts.Net.Equal(decimal.RequireFromString("1.25")))
}

func TestConsignment_NegativeNetIsAbsolute(t *testing.T) {
	labels := config.DefaultLabels()
	row := consignmentRow("", "Sale Price $5.00\nNet Amount -4.50", "Seller")

	result, ok := Build(For(types.ConsignmentFormat, labels), row, testTable, labels)
	require.True(t, ok)
	assert.Equal(t, "$ 4.50", result.Record.SellDollars)
	assert.False(t, result.Amounts.Canceled)
}

func TestConsignment_ZeroNetIsCanceled(t *testing.T) {
	labels := config.DefaultLabels()
	products := "Magic - Bloomburrow: Lightning Strike - #150 - Near Mint\t\n$0.50\n\t1\t$0.50"
	row := consignmentRow(products, "Net Amount $0.00", "Seller")

	result, ok := Build(For(types.ConsignmentFormat, labels), row, testTable, labels)
	require.True(t, ok)

	assert.Equal(t, "Canceled", result.Record.Description)
	assert.Equal(t, "N/A", result.Record.Set)
	assert.Equal(t, "", result.Record.SellDollars)
	assert.True(t, result.Amounts.Canceled)
	assert.True(t, result.Amounts.Net.IsZero())
}

func TestConsignment_MissingNet(t *testing.T) {
	labels := config.DefaultLabels()
	row := consignmentRow("", "nothing useful", "Seller")

	result, ok := Build(For(types.ConsignmentFormat, labels), row, testTable, labels)
	require.True(t, ok)

	assert.False(t, result.Amounts.NetFound)
	assert.Equal(t, "", result.Record.SellDollars)
	assert.Equal(t, "Unknown", result.Record.Set)
}

func TestConsignment_TooFewColumns(t *testing.T) {
	labels := config.DefaultLabels()
	_, ok := Build(For(types.ConsignmentFormat, labels), tsvparser.TokenRow{"a", "b"}, testTable, labels)
	assert.False(t, ok)
}

func TestPeer_Record(t *testing.T) {
	labels := config.DefaultLabels()
	row := tsvparser.TokenRow{
		"https://manapool.com/seller/orders/1CCCA6E6-7D39-4E03-889A-5B0AA24EEE34",
		"Order placed on 02/14/2025\nShipped",
		"Subtotal $5.00\nEarnings $4.25",
		"Lightning Bolt\nMagic 2010 • #146\nNM\nFoil\n2x\n$2.50",
	}

	result, ok := Build(For(types.PeerFormat, labels), row, testTable, labels)
	require.True(t, ok)

	r := result.Record
	assert.Equal(t, "1ccca6e6-7d39-4e03-889a-5b0aa24eee34", r.Notes)
	assert.Equal(t, "02/14/2025", r.Date)
	assert.Equal(t, "$ 4.25", r.SellDollars)
	assert.Equal(t, "", r.Direct)
	assert.Equal(t, "Manapool", r.Store)
	assert.Equal(t, "2x Magic 2010: Lightning Bolt - #146 - NM Foil", r.Description)
	assert.Equal(t, "M10", r.Set)
	assert.Equal(t, "Order placed on 02/14/2025 | Shipped |  | Subtotal $5.00 | Earnings $4.25 |  | Lightning Bolt | Magic 2010 • #146 | NM | Foil | 2x | $2.50", r.RawData)
}

func TestPeer_SoftFailures(t *testing.T) {
	labels := config.DefaultLabels()
	row := tsvparser.TokenRow{"no link", "no date", "no money", ""}

	result, ok := Build(For(types.PeerFormat, labels), row, testTable, labels)
	require.True(t, ok)

	r := result.Record
	assert.Equal(t, "", r.Notes)
	assert.Equal(t, "", r.Date)
	assert.Equal(t, "", r.SellDollars)
	assert.Equal(t, "", r.Description)
	assert.Equal(t, "Unknown", r.Set)
	assert.False(t, result.Amounts.NetFound)
}

func TestPeer_EarningsTrailingPeriod(t *testing.T) {
	e := &Peer{Labels: config.DefaultLabels()}
	amounts := e.Amounts(tsvparser.TokenRow{"", "", "Earnings $7.50.", ""})
	assert.True(t, amounts.NetFound)
	assert.Equal(t, "7.5", amounts.Net.String())
}

func TestPeer_EarningsRoundedToCents(t *testing.T) {
	e := &Peer{Labels: config.DefaultLabels()}
	row := tsvparser.TokenRow{
		"https://manapool.com/seller/orders/1ccca6e6-7d39-4e03-889a-5b0aa24eee34",
		"Order placed on 02/14/2025",
		"Earnings $4.255",
		"Opt\nIxalan • #65\nNM\n1x",
	}

	result, ok := Build(e, row, testTable, config.DefaultLabels())
	require.True(t, ok)

	assert.Equal(t, "4.26", result.Amounts.Net.String())
	assert.Equal(t, "$ 4.26", result.Record.SellDollars)
}
