// =============================================================================
// TCG Order Processor - Product Description Parser (TCGplayer)
// =============================================================================
//
// The TCGplayer products cell repeats a three-line pattern per product:
//
//   Line i:   Magic - Set Name: Card Name - #123 - Near Mint Foil[TAB]
//   Line i+1: $1.50
//   Line i+2: [TAB]2[TAB]$3.00
//
// Only lines containing the product marker start a product; the quantity is
// read from the second line after it. Older exports have no colon between the
// set and the card ("Magic - Set Name Card Name - #123 - Near Mint"), in which
// case set and card stay together.
//
// =============================================================================

package description

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// ProductMarker identifies a product line.
	ProductMarker = "Magic -"

	// productPrefix is what gets stripped from the front of a product line.
	productPrefix = "Magic - "

	// foilMarker in a condition is moved to a suffix.
	foilMarker = "Foil"

	// detailSeparator separates card name, collector number and condition.
	detailSeparator = " - "
)

var (
	// quantityLine matches "[TAB]2[TAB]$3.00".
	quantityLine = regexp.MustCompile(`^\s*(\d+)\s*\t`)

	// trailingTabs is the cell padding after a product line.
	trailingTabs = regexp.MustCompile(`\t+$`)
)

// ParseProducts parses a TCGplayer products cell into formatted line items.
// Product lines with fewer than three " - " separated parts are skipped.
func ParseProducts(text string) []string {
	lines := strings.Split(text, "\n")
	var items []string

	for i, line := range lines {
		if !strings.Contains(line, ProductMarker) {
			continue
		}

		info := strings.Replace(line, productPrefix, "", 1)
		info = strings.TrimSpace(trailingTabs.ReplaceAllString(info, ""))

		quantity := 1
		if i+2 < len(lines) {
			quantity = parseProductQuantity(lines[i+2])
		}

		if item, ok := formatProduct(info, quantity); ok {
			items = append(items, item)
		}
	}

	return items
}

// ProductDescription parses a products cell and joins the items with ", ".
func ProductDescription(text string) string {
	return strings.Join(ParseProducts(text), ", ")
}

// formatProduct renders one product line. The colon layout yields
// "{q}x {set}: {card} - #{n} - {condition}"; the legacy layout yields
// "{q}x {set and card} - #{n} - {condition}".
func formatProduct(info string, quantity int) (string, bool) {
	prefix := ""
	details := info

	// A colon at position 0 is not a set separator.
	if colon := strings.Index(info, ":"); colon > 0 {
		prefix = strings.TrimSpace(info[:colon]) + ": "
		details = strings.TrimSpace(info[colon+1:])
	}

	parts := strings.Split(details, detailSeparator)
	if len(parts) < 3 {
		return "", false
	}

	name := strings.Join(parts[:len(parts)-2], detailSeparator)
	collector := strings.Replace(parts[len(parts)-2], "#", "", 1)
	condition := parts[len(parts)-1]

	suffix := ""
	if strings.Contains(condition, foilMarker) {
		suffix = " " + foilMarker
	}
	condition = strings.Replace(condition, " "+foilMarker, "", 1)

	return strconv.Itoa(quantity) + "x " + prefix + name + " - #" + collector + " - " + condition + suffix, true
}

// parseProductQuantity reads the quantity from the line two below a product,
// defaulting to 1.
func parseProductQuantity(line string) int {
	m := quantityLine.FindStringSubmatch(line)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return 1
	}
	return n
}
