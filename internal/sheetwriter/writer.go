// =============================================================================
// TCG Order Processor - Sheet Writer Module
// =============================================================================
//
// This module renders OrderRecords in the layouts a bookkeeping spreadsheet
// accepts:
//
//   TSV   One tab-separated row per record, no header. This is the clipboard
//         layout: pasting it into a sheet fills the 13 columns directly.
//         Sell Dollars and Direct lose their "$" prefix so the sheet reads
//         them as numbers, and Raw Data is flattened and quoted.
//
//   CSV   Header row followed by one row per record, every field quoted with
//         embedded quotes doubled, rows separated by "\n".
//
//   XLSX  A workbook with a single "Orders" sheet, header row in bold.
//
// URL lists from the classifier are written one URL per line.
//
// =============================================================================

package sheetwriter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ginjaninja78/tcg-order-processor/internal/config"
	"github.com/ginjaninja78/tcg-order-processor/internal/types"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Orders"

var currencyPrefix = regexp.MustCompile(`^\$\s*`)

// =============================================================================
// FORMAT DISPATCH
// =============================================================================

// Extension returns the file extension for an output format.
func Extension(format string) string {
	switch format {
	case config.OutputCSV:
		return "csv"
	case config.OutputXLSX:
		return "xlsx"
	default:
		return "tsv"
	}
}

// Write renders records to w in the given output format.
//
// PARAMETERS:
//   - w: The destination.
//   - format: One of config.OutputTSV, config.OutputCSV or config.OutputXLSX.
//   - records: The records to write, in order.
//
// RETURNS:
//   - An error if the format is unknown or writing fails.
func Write(w io.Writer, format string, records []types.OrderRecord) error {
	switch format {
	case config.OutputTSV, "":
		return WriteTSV(w, records)
	case config.OutputCSV:
		return WriteCSV(w, records)
	case config.OutputXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// =============================================================================
// TSV (CLIPBOARD)
// =============================================================================

// TSV renders records as header-less tab-separated rows joined by "\n".
func TSV(records []types.OrderRecord) string {
	rows := make([]string, len(records))
	for i, record := range records {
		values := record.Values()
		for j, header := range types.Headers {
			values[j] = tsvCell(header, values[j])
		}
		rows[i] = strings.Join(values, "\t")
	}
	return strings.Join(rows, "\n")
}

// WriteTSV writes TSV(records) to w.
func WriteTSV(w io.Writer, records []types.OrderRecord) error {
	_, err := io.WriteString(w, TSV(records))
	return err
}

func tsvCell(header, value string) string {
	switch header {
	case types.FieldSellDollars, types.FieldDirect:
		return currencyPrefix.ReplaceAllString(value, "")
	case types.FieldRawData:
		value = strings.ReplaceAll(value, "\r\n", " | ")
		value = strings.ReplaceAll(value, "\n", " | ")
		value = strings.ReplaceAll(value, "\t", " ")
		return quote(value)
	default:
		return value
	}
}

// =============================================================================
// CSV (DOWNLOAD)
// =============================================================================

// CSV renders a header row and one fully quoted row per record.
func CSV(records []types.OrderRecord) string {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, strings.Join(types.Headers, ","))

	for _, record := range records {
		values := record.Values()
		for i, value := range values {
			values[i] = quote(value)
		}
		rows = append(rows, strings.Join(values, ","))
	}
	return strings.Join(rows, "\n")
}

// WriteCSV writes CSV(records) to w.
func WriteCSV(w io.Writer, records []types.OrderRecord) error {
	_, err := io.WriteString(w, CSV(records))
	return err
}

// quote wraps s in double quotes, doubling any it contains.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// =============================================================================
// XLSX
// =============================================================================

// WriteXLSX writes records as a workbook with a single "Orders" sheet.
func WriteXLSX(w io.Writer, records []types.OrderRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := append([]string(nil), types.Headers...)
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := record.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// =============================================================================
// URL LISTS
// =============================================================================

// WriteURLs writes one URL per line, without a trailing newline.
func WriteURLs(w io.Writer, urls []string) error {
	_, err := io.WriteString(w, strings.Join(urls, "\n"))
	return err
}
