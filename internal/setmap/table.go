// =============================================================================
// TCG Order Processor - Set Mapping Table
// =============================================================================
//
// This module maps line-item text to trading card set codes. The mapping is an
// ordered list of (set name, set code) pairs; a line item resolves to the code
// of the FIRST entry whose set name appears anywhere in the item.
//
// OWNERSHIP:
//   A Table is immutable once built. Callers load it once and pass it to
//   every resolver call; nothing in this package caches or mutates it, so a
//   single Table can be shared between concurrently processed batches.
//
// =============================================================================

package setmap

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/tcg-order-processor/internal/types"
)

// ErrNoMappings is returned by loaders when a source contains no usable rows.
var ErrNoMappings = errors.New("no set mappings found")

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// Entry is one row of the mapping table.
type Entry struct {
	// Name is matched as a substring of each line item.
	Name string

	// Code is the set code reported for a match.
	Code string
}

// Table is an ordered, immutable set-name to set-code mapping.
type Table struct {
	entries []Entry
}

// New builds a Table from entries in precedence order.
// Entries with an empty name are dropped, since an empty name would match
// every item. When a name occurs more than once the first occurrence wins.
func New(entries []Entry) *Table {
	seen := make(map[string]bool, len(entries))
	kept := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		kept = append(kept, e)
	}

	return &Table{entries: kept}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in precedence order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve returns the set code for a single line item, or "Unknown".
func (t *Table) Resolve(item string) string {
	if t == nil {
		return types.SetUnknown
	}
	for _, e := range t.entries {
		if strings.Contains(item, e.Name) {
			return e.Code
		}
	}
	return types.SetUnknown
}

// ResolveDescription resolves every comma-separated item of a description
// and aggregates the result:
//   - no item matched      -> "Unknown"
//   - one distinct code    -> that code
//   - several distinct codes -> "Various"
func (t *Table) ResolveDescription(description string) string {
	codes := make(map[string]struct{})
	var first string

	for _, item := range strings.Split(description, ",") {
		code := t.Resolve(strings.TrimSpace(item))
		if code == types.SetUnknown {
			continue
		}
		if len(codes) == 0 {
			first = code
		}
		codes[code] = struct{}{}
	}

	switch len(codes) {
	case 0:
		return types.SetUnknown
	case 1:
		return first
	default:
		return types.SetVarious
	}
}
