// =============================================================================
// Floor Plan Filler - PDF Sales Report Extractor
// =============================================================================
//
// This module reads the hourly sales table out of a sales report PDF. The
// report has one fixed layout: the table starts right after the literal
// marker "ACUMU" (the accumulated column header) and ends right before the
// first "Total" that follows it. Between the two markers the text is a run
// of "HH:MM <count> <amount>" triples mixed with noise.
//
// EXTRACTION STEPS:
//   1. Rebuild each page's text row by row, then concatenate the pages in
//      page order with no separator (a row split across pages is not
//      reassembled)
//   2. Cut the data region between the two anchors
//   3. Split the region on whitespace
//   4. Slide over the tokens looking for time/count/amount triples
//
// =============================================================================

package pdfextract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ledongthuc/pdf"
)

// Anchor substrings delimiting the data region.
const (
	StartAnchor = "ACUMU"
	EndAnchor   = "Total"
)

// ErrAnchorNotFound is wrapped by an ExtractionError when the data region
// cannot be located.
var ErrAnchorNotFound = errors.New("anchor not found")

var hourTokenPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// =============================================================================
// ERROR TYPE
// =============================================================================

// ExtractionError reports a report that could not be read or does not have
// the expected layout. It is terminal for the run.
type ExtractionError struct {
	// Path is the report file, empty for in-memory text.
	Path string

	// Reason is a short description of what failed.
	Reason string

	// Err is the underlying cause.
	Err error
}

func (e *ExtractionError) Error() string {
	msg := "failed to read sales report"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// =============================================================================
// EXTRACTION FUNCTIONS
// =============================================================================

// ExtractFile reads a sales report PDF and returns the records found in its
// data region, in the order they appear.
//
// PARAMETERS:
//   - path: The path to the PDF report.
//
// RETURNS:
//   - The extracted records (possibly empty when the region has no triples).
//   - An *ExtractionError if the file cannot be read or the anchors are
//     missing. No partial result is returned in that case.
func ExtractFile(path string) ([]types.SalesRecord, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}

	records, err := ParseText(text)
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) {
			extErr.Path = path
		}
		return nil, err
	}

	return records, nil
}

// ReadText returns the text of every page of the PDF concatenated in page
// order, with no separator between pages.
func ReadText(path string) (text string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Reason: "cannot open PDF", Err: err}
	}
	defer f.Close()

	// The PDF reader panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Path: path, Reason: "malformed PDF", Err: fmt.Errorf("%v", rec)}
		}
	}()

	var sb strings.Builder

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return "", &ExtractionError{Path: path, Reason: fmt.Sprintf("cannot read page %d", i), Err: err}
		}
		sb.WriteString(pageText(rows))
	}

	return sb.String(), nil
}

// pageText rebuilds the text of one page from its rows, top to bottom. The
// words of a row are joined with a space and rows end with a newline, so
// table cells positioned one by one still come out as separate tokens.
func pageText(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			if word.S != "" {
				words = append(words, word.S)
			}
		}
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// ParseText locates the data region in already extracted report text and
// parses the records inside it.
func ParseText(text string) ([]types.SalesRecord, error) {
	region, err := DataRegion(text)
	if err != nil {
		return nil, err
	}
	return ParseRegion(region), nil
}

// DataRegion returns the text between the end of the first StartAnchor and
// the first EndAnchor after it.
func DataRegion(text string) (string, error) {
	start := strings.Index(text, StartAnchor)
	if start < 0 {
		return "", &ExtractionError{
			Reason: fmt.Sprintf("marker %q not found", StartAnchor),
			Err:    ErrAnchorNotFound,
		}
	}
	start += len(StartAnchor)

	end := strings.Index(text[start:], EndAnchor)
	if end < 0 {
		return "", &ExtractionError{
			Reason: fmt.Sprintf("marker %q not found after %q", EndAnchor, StartAnchor),
			Err:    ErrAnchorNotFound,
		}
	}

	return text[start : start+end], nil
}

// ParseRegion scans the whitespace separated tokens of a data region for
// "HH:MM count amount" triples.
//
// A time token followed by a valid integer and a valid number consumes all
// three tokens. Anything else advances by a single token, so a time label
// inside a malformed sequence can still start the next triple.
func ParseRegion(region string) []types.SalesRecord {
	tokens := strings.Fields(region)
	records := make([]types.SalesRecord, 0, len(tokens)/3)

	for i := 0; i < len(tokens); {
		if record, ok := parseTriple(tokens, i); ok {
			records = append(records, record)
			i += 3
			continue
		}
		i++
	}

	return records
}

// parseTriple tries to read a record starting at tokens[i].
func parseTriple(tokens []string, i int) (types.SalesRecord, bool) {
	if i+2 >= len(tokens) || !hourTokenPattern.MatchString(tokens[i]) {
		return types.SalesRecord{}, false
	}

	count, err := strconv.Atoi(tokens[i+1])
	if err != nil {
		return types.SalesRecord{}, false
	}
	amount, err := strconv.ParseFloat(tokens[i+2], 64)
	if err != nil {
		return types.SalesRecord{}, false
	}

	return types.SalesRecord{Hour: tokens[i], Count: count, Amount: amount}, true
}
