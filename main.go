// =============================================================================
// Floor Plan Filler - Main Entry Point
// =============================================================================
//
// floorplan copies the hourly sales table of a point-of-sale PDF report into
// the floor plan spreadsheet template, and optionally exports the result as
// a PDF through LibreOffice.
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Extraction, merging, spreadsheet and conversion logic
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/floorplan-filler/cmd"
)

func main() {
	cmd.Execute()
}
