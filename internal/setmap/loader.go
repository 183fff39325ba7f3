// =============================================================================
// TCG Order Processor - Set Mapping Loaders
// =============================================================================
//
// Set mappings are maintained as a small spreadsheet:
//
//   | Set Name                  | Set Code |
//   |---------------------------|----------|
//   | Duskmourn: House of Horror| DSK      |
//   | Bloomburrow               | BLB      |
//
// The first row is always a header and is skipped. Only the first two
// columns are read; any further columns are ignored. The table can be kept as
// CSV (the usual case) or as an XLSX workbook, in which case the first sheet
// is used.
//
// =============================================================================

package setmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadFile loads a mapping table from path, choosing the reader by extension.
func LoadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open set mappings: %w", err)
	}
	defer file.Close()

	return LoadCSV(file)
}

// LoadCSV reads a comma-delimited mapping table.
//
// PARSING RULES:
//   - Row 0 is a header and is skipped
//   - Rows with fewer than two fields are skipped
//   - Fields are trimmed of surrounding whitespace
func LoadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read set mappings: %w", err)
	}

	return fromRows(rows)
}

// LoadXLSX reads a mapping table from the first sheet of a workbook.
func LoadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open set mappings workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("set mappings workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return fromRows(rows)
}

// fromRows converts raw rows (header included) into a Table.
func fromRows(rows [][]string) (*Table, error) {
	if len(rows) <= 1 {
		return nil, ErrNoMappings
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		entries = append(entries, Entry{
			Name: strings.TrimSpace(row[0]),
			Code: strings.TrimSpace(row[1]),
		})
	}

	table := New(entries)
	if table.Len() == 0 {
		return nil, ErrNoMappings
	}
	return table, nil
}
