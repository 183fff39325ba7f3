// =============================================================================
// TCG Order Processor - Pasted Text Parser
// =============================================================================
//
// This module turns text pasted from a marketplace order page into rows of
// columns. Pasted order exports are tab-delimited, but they are NOT one row
// per line: a single order can span many physical lines (card lists, address
// blocks, quoted multi-line cells).
//
// PARSING PROCESS:
//   1. Lines() trims the paste and splits it into physical lines, separating
//      the header line from the data lines
//   2. Split() regroups the data lines into RecordBlocks. A block starts at
//      every line beginning with the order link scheme ("https://"); any other
//      line is a continuation of the block being built
//   3. Tokenize() splits each block into a TokenRow on tabs, ignoring tabs and
//      newlines that appear inside double quotes
//
// Encoding/csv is not used here because quotes in these pastes are not
// RFC 4180 quoting: they toggle state anywhere in a cell and are never
// escaped, and the records themselves are delimited by the link prefix rather
// than by newlines.
//
// =============================================================================

package tsvparser

import (
	"strings"
)

// RecordPrefix marks the first line of a new record.
const RecordPrefix = "https://"

const quote = '"'

// =============================================================================
// DATA STRUCTURES
// =============================================================================

// RecordBlock is the raw multi-line text of one logical order.
type RecordBlock string

// TokenRow is the ordered list of columns of one RecordBlock.
type TokenRow []string

// Column returns column i, or "" if the row is too short.
func (r TokenRow) Column(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Lines trims the pasted text and splits it into a header line and the data
// lines that follow it. An empty paste yields an empty header and no lines.
func Lines(raw string) (header string, data []string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	lines := strings.Split(trimmed, "\n")
	return lines[0], lines[1:]
}

// Split groups physical data lines into record blocks.
//
// SPLITTING RULES:
//   - A line starting with RecordPrefix flushes the block in progress (if it
//     is non-empty) and starts a new one
//   - Any other line is appended to the block in progress, preceded by "\n".
//     This holds even when no block has been started yet, so a paste whose
//     first data line lacks the prefix yields a block with a leading newline
//   - The final block is always flushed
func Split(lines []string) []RecordBlock {
	var blocks []RecordBlock
	var current strings.Builder

	for _, line := range lines {
		if strings.HasPrefix(line, RecordPrefix) {
			if current.Len() > 0 {
				blocks = append(blocks, RecordBlock(current.String()))
			}
			current.Reset()
			current.WriteString(line)
			continue
		}

		current.WriteByte('\n')
		current.WriteString(line)
	}

	if current.Len() > 0 {
		blocks = append(blocks, RecordBlock(current.String()))
	}

	return blocks
}

// Tokenize splits a record block into columns.
//
// TOKENIZING RULES:
//   - A double quote toggles the "inside quotes" state and is not emitted
//   - A tab outside quotes ends the current column
//   - Every other character (tabs and newlines inside quotes included) is
//     appended to the current column
//   - The last column is emitted only if it is non-empty, so a trailing tab
//     does not produce an extra empty column
func Tokenize(block RecordBlock) TokenRow {
	var columns TokenRow
	var current strings.Builder
	inQuotes := false

	for _, ch := range string(block) {
		switch {
		case ch == quote:
			inQuotes = !inQuotes
		case ch == '\t' && !inQuotes:
			columns = append(columns, stripQuotes(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		columns = append(columns, stripQuotes(current.String()))
	}

	return columns
}

// stripQuotes removes one leading and one trailing double quote.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, string(quote))
	return strings.TrimSuffix(s, string(quote))
}
