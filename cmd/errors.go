// =============================================================================
// Floor Plan Filler - Error Reporting
// =============================================================================
//
// Failures of the three user-facing kinds (reading the report, writing the
// spreadsheet, converting to PDF) are shown in a framed message so they stand
// out from the log lines around them. Anything else is printed as a plain
// "Error:" line.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/floorplan-filler/internal/officeconv"
	"github.com/ginjaninja78/floorplan-filler/internal/pdfextract"
	"github.com/ginjaninja78/floorplan-filler/internal/pipeline"
	"github.com/ginjaninja78/floorplan-filler/internal/spreadsheet"
)

// errorTitle picks the heading of the framed message.
func errorTitle(err error) string {
	var extractErr *pdfextract.ExtractionError
	var writeErr *spreadsheet.WriteError
	var convErr *officeconv.ConversionError

	switch {
	case errors.As(err, &extractErr):
		return "Could not read the sales report"
	case errors.As(err, &writeErr):
		return "Could not save the spreadsheet"
	case errors.As(err, &convErr):
		if convErr.Timeout() {
			return "PDF conversion timed out"
		}
		return "Could not convert to PDF"
	}
	return "PDF output unavailable"
}

// reportError prints err for the user.
func reportError(w io.Writer, err error) {
	if !pipeline.IsUserError(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	title := errorTitle(err)
	lines := strings.Split(err.Error(), "\n")
	if errors.Is(err, officeconv.ErrConverterNotFound) {
		lines = append(lines, "", "Install LibreOffice from:", officeconv.DownloadURL,
			"or point --soffice / converter.path at soffice.")
	}
	printBox(w, title, lines)
}

// printBox frames a title and message lines.
func printBox(w io.Writer, title string, lines []string) {
	width := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > width {
			width = n
		}
	}

	border := "+" + strings.Repeat("-", width+2) + "+"
	fmt.Fprintln(w, border)
	fmt.Fprintf(w, "| %s |\n", pad(title, width))
	fmt.Fprintln(w, border)
	for _, line := range lines {
		fmt.Fprintf(w, "| %s |\n", pad(line, width))
	}
	fmt.Fprintln(w, border)
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
}
