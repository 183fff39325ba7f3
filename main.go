// =============================================================================
// TCG Order Processor - Main Entry Point
// =============================================================================
//
// USAGE:
//   tcgorders process   - Convert order exports into spreadsheet rows
//   tcgorders urls      - Generate order URLs from order numbers
//   tcgorders sets      - List the set mapping table
//   tcgorders version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, extraction and export logic
//   - pkg/           : File handling utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/tcg-order-processor/cmd"
)

func main() {
	cmd.Execute()
}
