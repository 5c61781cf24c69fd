// =============================================================================
// Floor Plan Filler - Hour Slot Merger
// =============================================================================
//
// This module turns the raw records read from a report into the canonical
// list the spreadsheet expects: exactly one record per configured hour slot,
// in hour-of-day order, with zeros where the report had nothing.
//
// ORDERING:
//   Slots are ordered by their hour value modulo 24, so "24:00" sorts as
//   hour 0 and comes first. Labels with the same key keep the order in which
//   they were configured.
//
// DUPLICATES:
//   When the report lists the same label more than once the last occurrence
//   is used.
//
// =============================================================================

package merger

import (
	"sort"
	"strconv"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
)

// Merge builds the canonical record list for a slot map.
//
// PARAMETERS:
//   - records: The raw records, in extraction order.
//   - slots: The configured hour slots.
//
// RETURNS:
//   - len(slots) records sorted by SortKey, never an error.
func Merge(records []types.SalesRecord, slots config.HourSlotMap) []types.CanonicalRecord {
	byHour := make(map[string]types.SalesRecord, len(records))
	for _, record := range records {
		byHour[record.Hour] = record
	}

	sorted := Sorted(slots)
	merged := make([]types.CanonicalRecord, 0, len(sorted))

	for _, slot := range sorted {
		canonical := types.CanonicalRecord{Hour: slot.Hour, Column: slot.Column}
		if record, ok := byHour[slot.Hour]; ok {
			canonical.Count = record.Count
			canonical.Amount = record.Amount
			canonical.Filled = true
		}
		merged = append(merged, canonical)
	}

	return merged
}

// Sorted returns a copy of the slot map in canonical order.
func Sorted(slots config.HourSlotMap) config.HourSlotMap {
	sorted := make(config.HourSlotMap, len(slots))
	copy(sorted, slots)

	sort.SliceStable(sorted, func(i, j int) bool {
		return SortKey(sorted[i].Hour) < SortKey(sorted[j].Hour)
	})

	return sorted
}

// SortKey returns the hour of day of an "HH:MM" label, taken modulo 24.
// Labels without a numeric hour sort last.
func SortKey(hour string) int {
	if len(hour) < 2 {
		return 24
	}
	h, err := strconv.Atoi(hour[:2])
	if err != nil || h < 0 {
		return 24
	}
	return h % 24
}

// Unmatched returns the raw records whose label is not a configured slot.
// They are dropped by Merge.
func Unmatched(records []types.SalesRecord, slots config.HourSlotMap) []types.SalesRecord {
	var dropped []types.SalesRecord
	for _, record := range records {
		if _, ok := slots.Column(record.Hour); !ok {
			dropped = append(dropped, record)
		}
	}
	return dropped
}
