// =============================================================================
// TCG Order Processor - Card Description Parser (Manapool)
// =============================================================================
//
// Manapool order pages list each card as a short run of lines:
//
//   Lightning Bolt          <- card name
//   Magic 2010 • #146       <- set name and collector number
//   Near Mint               <- condition
//   Foil                    <- optional special attribute
//   2x                      <- optional quantity
//   $1.50                   <- optional price (discarded)
//
// Because several lines are optional and nothing marks where a card ends, the
// parser is a cursor-based state machine. Each state consumes at most one line
// and never looks back, so whether a line is taken as a special attribute
// decides how every later line of the card is read.
//
// =============================================================================

package description

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/tcg-order-processor/internal/types"
)

// Separator between set name and collector number on the set line.
const setSeparator = "•"

// DefaultCondition is used when a card's condition line is missing.
const DefaultCondition = "NM"

var (
	// leadingFloat matches inputs a lenient float parser would accept.
	leadingFloat = regexp.MustCompile(`^\s*[+-]?(Infinity|\d+\.?\d*|\.\d+)`)

	// leadingInt captures the integer a lenient int parser would read.
	leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// cardState is a position in the per-card state machine.
type cardState int

const (
	expectName cardState = iota
	expectSetLine
	expectCondition
	expectOptionalAttr
	expectQuantity
	expectOptionalPrice
	cardDone
)

// cardParser walks the non-blank, trimmed lines of a card blob.
type cardParser struct {
	lines  []string
	cursor int
}

// peek returns the line under the cursor and whether one exists.
func (p *cardParser) peek() (string, bool) {
	if p.cursor >= len(p.lines) {
		return "", false
	}
	return p.lines[p.cursor], true
}

// next parses one card starting at the cursor.
func (p *cardParser) next() types.CardLineItem {
	item := types.CardLineItem{Quantity: 1}

	for state := expectName; state != cardDone; {
		line, ok := p.peek()

		switch state {
		case expectName:
			item.CardName = line
			p.cursor++
			state = expectSetLine

		case expectSetLine:
			// The set line is consumed whether or not it is well formed.
			if ok && strings.Contains(line, setSeparator) {
				item.SetName, item.CollectorNumber = splitSetLine(line)
			}
			p.cursor++
			state = expectCondition

		case expectCondition:
			item.Condition = DefaultCondition
			if ok {
				item.Condition = line
			}
			p.cursor++
			state = expectOptionalAttr

		case expectOptionalAttr:
			if ok && isSpecialAttribute(line) {
				item.SpecialAttribute = line
				p.cursor++
			}
			state = expectQuantity

		case expectQuantity:
			if ok && isQuantity(line) {
				item.Quantity = parseQuantity(line)
				p.cursor++
			}
			state = expectOptionalPrice

		case expectOptionalPrice:
			if ok && strings.HasPrefix(line, "$") {
				p.cursor++
			}
			state = cardDone
		}
	}

	return item
}

// =============================================================================
// PUBLIC API
// =============================================================================

// ParseCards parses a Manapool card blob into line items, in input order.
// Blank lines are ignored and surrounding whitespace is trimmed.
func ParseCards(text string) []types.CardLineItem {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	p := &cardParser{lines: lines}
	var items []types.CardLineItem
	for p.cursor < len(p.lines) {
		items = append(items, p.next())
	}
	return items
}

// CardDescription parses a Manapool card blob and joins the formatted items
// with ", ".
func CardDescription(text string) string {
	items := ParseCards(text)
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// LINE CLASSIFIERS
// =============================================================================

// splitSetLine splits "Set Name • #123" into its set name and collector
// number. A collector number without the leading '#' is ignored.
func splitSetLine(line string) (setName, collector string) {
	parts := strings.Split(line, setSeparator)
	setName = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		if number := strings.TrimSpace(parts[1]); strings.HasPrefix(number, "#") {
			collector = number[1:]
		}
	}
	return setName, collector
}

// isSpecialAttribute reports whether line is a finish/attribute marker such
// as "Foil": non-empty, without an 'x', and not starting with a number.
func isSpecialAttribute(line string) bool {
	return line != "" && !strings.Contains(line, "x") && !leadingFloat.MatchString(line)
}

// isQuantity reports whether line looks like a quantity ("2x", "x2", "3").
func isQuantity(line string) bool {
	return strings.Contains(line, "x") || leadingInt.MatchString(line)
}

// parseQuantity reads the integer out of a quantity line, defaulting to 1.
func parseQuantity(line string) int {
	m := leadingInt.FindStringSubmatch(strings.Replace(line, "x", "", 1))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}
