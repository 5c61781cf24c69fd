// =============================================================================
// Floor Plan Filler - Records CSV
// =============================================================================
//
// Extracted records can be exported to CSV, corrected in any spreadsheet or
// text editor, and imported back for the fill step. The file has one header
// line (hour,count,amount) and one line per record, in list order.
//
// Import accepts "," or ";" as the delimiter and "," as a decimal separator
// in amounts, since that is what a spreadsheet saved in a pt-BR locale
// produces. Values go through the same parsers as interactive edits.
//
// =============================================================================

package recordsio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/internal/validation"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// recordRow is the CSV shape of a SalesRecord. Fields stay strings so
// malformed cells are reported per row instead of failing the whole file.
type recordRow struct {
	Hour   string `csv:"hour"`
	Count  string `csv:"count"`
	Amount string `csv:"amount"`
}

// =============================================================================
// EXPORT
// =============================================================================

// Write encodes records as CSV.
func Write(w io.Writer, records []types.SalesRecord) error {
	rows := make([]*recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &recordRow{
			Hour:   r.Hour,
			Count:  strconv.Itoa(r.Count),
			Amount: decimal.NewFromFloat(r.Amount).String(),
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write records CSV: %w", err)
	}
	return nil
}

// WriteFile exports records to a CSV file.
func WriteFile(path string, records []types.SalesRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close records file: %w", cerr)
		}
	}()

	return Write(f, records)
}

// =============================================================================
// IMPORT
// =============================================================================

// Read decodes records from CSV.
//
// RETURNS:
//   - The records that parsed, in file order.
//   - Every *validation.ValidationError found, joined. Rows with an error are
//     left out of the result, so callers must not write a partial list
//     without telling the user.
func Read(r io.Reader) ([]types.SalesRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.TrimLeadingSpace = true

	var rows []*recordRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []types.SalesRecord{}, nil
		}
		return nil, fmt.Errorf("failed to parse records CSV: %w", err)
	}

	records := make([]types.SalesRecord, 0, len(rows))
	var errs []error

	for i, row := range rows {
		record, err := parseRow(row, i+1)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, record)
	}

	return records, errors.Join(errs...)
}

// ReadFile imports records from a CSV file.
func ReadFile(path string) ([]types.SalesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// parseRow converts one CSV row. Empty count and amount cells mean zero.
func parseRow(row *recordRow, n int) (types.SalesRecord, error) {
	var errs []error
	var record types.SalesRecord

	hour, err := validation.ParseHour(row.Hour)
	if err != nil {
		errs = append(errs, atRow(err, n))
	}
	record.Hour = hour

	if strings.TrimSpace(row.Count) != "" {
		count, err := validation.ParseCount(row.Count)
		if err != nil {
			errs = append(errs, atRow(err, n))
		}
		record.Count = count
	}

	if strings.TrimSpace(row.Amount) != "" {
		amount, err := validation.ParseAmount(row.Amount)
		if err != nil {
			errs = append(errs, atRow(err, n))
		}
		record.Amount = amount
	}

	return record, errors.Join(errs...)
}

func atRow(err error, n int) error {
	var ve *validation.ValidationError
	if errors.As(err, &ve) {
		ve.Row = n
	}
	return err
}

// sniffDelimiter picks ";" when the header line has semicolons and no
// commas, "," otherwise.
func sniffDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return ','
	}
	header := scanner.Text()
	if strings.Contains(header, ";") && !strings.Contains(header, ",") {
		return ';'
	}
	return ','
}
