// Package classifier turns pasted order identifiers into order-page URLs.
//
// Each non-blank line is classified by shape and expanded with the matching
// URL template:
//
//	https://...                    kept as is
//	1ccca6e6-7d39-4e03-...         Manapool order (UUID)
//	8B5DCE37-050272-E8FFC          TCGplayer order (8-6-5 hex)
//	anything else                  TCGplayer order template
package classifier

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrEmptyInput is returned when the identifier list is blank.
var ErrEmptyInput = errors.New("no order numbers given")

// URL templates.
const (
	URLPrefix         = "https://"
	ManapoolOrderURL  = "https://manapool.com/seller/orders/"
	TCGplayerOrderURL = "https://sellerportal.tcgplayer.com/orders/"
)

// Kind is the identifier shape a line was classified as.
type Kind string

const (
	KindURL          Kind = "url"
	KindManapool     Kind = "manapool"
	KindTCGplayer    Kind = "tcgplayer"
	KindUnrecognized Kind = "unrecognized"
)

var tcgOrderNumber = regexp.MustCompile(`(?i)^[a-f0-9]{8}-[a-f0-9]{6}-[a-f0-9]{5}$`)

// Link is one generated URL and where it came from.
type Link struct {
	Input string
	Kind  Kind
	URL   string
}

// Classify reports the shape of a single trimmed identifier.
func Classify(id string) Kind {
	switch {
	case strings.HasPrefix(id, URLPrefix):
		return KindURL
	case isUUID(id):
		return KindManapool
	case tcgOrderNumber.MatchString(id):
		return KindTCGplayer
	default:
		return KindUnrecognized
	}
}

// URL builds the order URL for id. The identifier is used verbatim.
func URL(id string) (string, Kind) {
	kind := Classify(id)
	switch kind {
	case KindURL:
		return id, kind
	case KindManapool:
		return ManapoolOrderURL + id, kind
	default:
		return TCGplayerOrderURL + id, kind
	}
}

// Generate classifies every non-blank line of raw, preserving input order.
func Generate(raw string) ([]Link, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	var links []Link
	for _, line := range strings.Split(trimmed, "\n") {
		id := strings.TrimSpace(line)
		if id == "" {
			continue
		}
		url, kind := URL(id)
		links = append(links, Link{Input: id, Kind: kind, URL: url})
	}
	return links, nil
}

// GenerateURLs returns the URL list and its summary: the URL count, a zero
// total, not all-direct and no date range.
func GenerateURLs(raw string) ([]string, types.Summary, error) {
	links, err := Generate(raw)
	if err != nil {
		return nil, types.Summary{}, err
	}

	urls := make([]string, len(links))
	for i, link := range links {
		urls[i] = link.URL
	}

	return urls, types.Summary{
		TotalOrders: len(urls),
		TotalNet:    decimal.Zero,
	}, nil
}

// isUUID matches the hyphenated 8-4-4-4-12 form only; uuid.Parse alone also
// accepts braces, urn prefixes and the bare 32 digit form.
func isUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
