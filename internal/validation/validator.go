// =============================================================================
// Floor Plan Filler - Record Validation
// =============================================================================
//
// This module validates sales records at the two places where values enter
// the tool from outside the report parser:
//   1. Field edits (interactive review, --set flags, imported CSV files)
//   2. The record list as a whole, just before it is merged and written
//
// ERROR HANDLING:
//   - Field edits are all-or-nothing: a value that does not parse is
//     rejected with a ValidationError and the record keeps its prior value
//   - Record list checks only produce warnings; they never block a write
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/shopspring/decimal"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

var hourPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is "error" for rejected edits and "warning" for record list
	// findings.
	Severity string

	// Row is the 1-based position of the record in the list, 0 when the
	// problem is not tied to one record.
	Row int

	// Field is the record field involved.
	Field string

	// Value is the offending input.
	Value string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", strings.ToUpper(e.Severity))
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d,", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field '%s':", e.Field)
	}
	fmt.Fprintf(&b, " %s", e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult collects the findings for a record list.
type ValidationResult struct {
	// Errors contains all findings.
	Errors []*ValidationError

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
	}
}

// =============================================================================
// FIELD PARSERS
// =============================================================================

// ParseHour accepts a label in strict HH:MM form.
func ParseHour(input string) (string, error) {
	value := strings.TrimSpace(input)
	if !hourPattern.MatchString(value) {
		return "", &ValidationError{
			Severity: SeverityError,
			Field:    types.FieldHour,
			Value:    input,
			Message:  "hour must be in HH:MM form",
		}
	}
	return value, nil
}

// ParseCount accepts an integer transaction count.
func ParseCount(input string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, &ValidationError{
			Severity: SeverityError,
			Field:    types.FieldCount,
			Value:    input,
			Message:  "count must be an integer",
		}
	}
	return count, nil
}

// ParseAmount accepts a decimal amount, with either "." or "," as the
// decimal separator.
func ParseAmount(input string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, &ValidationError{
			Severity: SeverityError,
			Field:    types.FieldAmount,
			Value:    input,
			Message:  "amount must be a number",
		}
	}

	amount, _ := d.Float64()
	return amount, nil
}

// =============================================================================
// EDITS
// =============================================================================

// ApplyEdit sets one field of one record from user input.
//
// PARAMETERS:
//   - records: The record list, edited in place.
//   - row: The 1-based record position.
//   - field: "hour", "count" or "amount".
//   - input: The raw user input.
//
// RETURNS:
//   - A *ValidationError when the row, field or value is invalid. The record
//     is left untouched in that case.
func ApplyEdit(records []types.SalesRecord, row int, field, input string) error {
	if row < 1 || row > len(records) {
		return &ValidationError{
			Severity: SeverityError,
			Row:      row,
			Message:  fmt.Sprintf("row must be between 1 and %d", len(records)),
		}
	}
	record := &records[row-1]

	switch strings.ToLower(strings.TrimSpace(field)) {
	case types.FieldHour:
		hour, err := ParseHour(input)
		if err != nil {
			return withRow(err, row)
		}
		record.Hour = hour
	case types.FieldCount:
		count, err := ParseCount(input)
		if err != nil {
			return withRow(err, row)
		}
		record.Count = count
	case types.FieldAmount:
		amount, err := ParseAmount(input)
		if err != nil {
			return withRow(err, row)
		}
		record.Amount = amount
	default:
		return &ValidationError{
			Severity: SeverityError,
			Row:      row,
			Field:    field,
			Message:  "unknown field, expected hour, count or amount",
		}
	}

	return nil
}

// Assignment is one parsed "N.field=value" edit.
type Assignment struct {
	Row   int
	Field string
	Value string
}

// ParseAssignment parses an edit given on the command line, for example
// "3.amount=150,50". The value is not checked here; ApplyEdit does that.
func ParseAssignment(input string) (Assignment, error) {
	target, value, ok := strings.Cut(input, "=")
	if !ok {
		return Assignment{}, &ValidationError{
			Severity: SeverityError,
			Value:    input,
			Message:  "edit must look like N.field=value",
		}
	}

	rowText, field, ok := strings.Cut(strings.TrimSpace(target), ".")
	row, err := strconv.Atoi(rowText)
	if !ok || err != nil || field == "" {
		return Assignment{}, &ValidationError{
			Severity: SeverityError,
			Value:    input,
			Message:  "edit must look like N.field=value",
		}
	}

	return Assignment{Row: row, Field: strings.ToLower(field), Value: value}, nil
}

func withRow(err error, row int) error {
	if ve, ok := err.(*ValidationError); ok {
		ve.Row = row
	}
	return err
}

// =============================================================================
// RECORD LIST CHECKS
// =============================================================================

// ValidateRecords reports conditions that will change what gets written:
// negative values, repeated hour labels (only the last one is kept) and
// labels that are not configured slots (they are dropped).
func ValidateRecords(records []types.SalesRecord, slots config.HourSlotMap) *ValidationResult {
	result := &ValidationResult{
		Errors:           make([]*ValidationError, 0),
		RecordsValidated: len(records),
	}

	lastRow := make(map[string]int, len(records))
	for i, record := range records {
		lastRow[record.Hour] = i + 1
	}

	for i, record := range records {
		row := i + 1

		if !hourPattern.MatchString(record.Hour) {
			result.add(&ValidationError{
				Severity: SeverityWarning, Row: row, Field: types.FieldHour, Value: record.Hour,
				Message: "hour is not in HH:MM form",
			})
		}
		if record.Count < 0 {
			result.add(&ValidationError{
				Severity: SeverityWarning, Row: row, Field: types.FieldCount, Value: strconv.Itoa(record.Count),
				Message: "count is negative",
			})
		}
		if record.Amount < 0 {
			result.add(&ValidationError{
				Severity: SeverityWarning, Row: row, Field: types.FieldAmount,
				Value:   strconv.FormatFloat(record.Amount, 'f', 2, 64),
				Message: "amount is negative",
			})
		}
		if last := lastRow[record.Hour]; last != row {
			result.add(&ValidationError{
				Severity: SeverityWarning, Row: row, Field: types.FieldHour, Value: record.Hour,
				Message: fmt.Sprintf("hour repeats; row %d replaces this one", last),
			})
		}
		if _, ok := slots.Column(record.Hour); !ok {
			result.add(&ValidationError{
				Severity: SeverityWarning, Row: row, Field: types.FieldHour, Value: record.Hour,
				Message: "hour is not a configured slot and will not be written",
			})
		}
	}

	return result
}

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
