// =============================================================================
// Floor Plan Filler - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - pdfextract
//   - merger
//   - validation
//   - spreadsheet
//   - recordsio
//   - review
//
// =============================================================================

package types

// =============================================================================
// RECORD TYPES
// =============================================================================

// SalesRecord is one observation for a clock-time slot as read from the
// sales report. Hour labels are not unique in a raw extraction.
type SalesRecord struct {
	// Hour is the slot label in HH:MM form.
	Hour string

	// Count is the number of transactions in the slot.
	Count int

	// Amount is the sales total for the slot.
	Amount float64
}

// CanonicalRecord is the merged, gap-filled record for one configured hour
// slot. Exactly one exists per slot after a merge.
type CanonicalRecord struct {
	// Hour is the configured slot label.
	Hour string

	// Column is the spreadsheet column the slot is written to.
	Column string

	// Count is the transaction count, zero when the report had no row.
	Count int

	// Amount is the sales total, zero when the report had no row.
	Amount float64

	// Filled reports whether the values came from the report.
	Filled bool
}

// Field names accepted by the edit surface.
const (
	FieldHour   = "hour"
	FieldCount  = "count"
	FieldAmount = "amount"
)
