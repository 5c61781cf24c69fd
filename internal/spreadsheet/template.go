// =============================================================================
// Floor Plan Filler - Template Inspection
// =============================================================================
//
// Read-side helpers for floor plan workbooks:
//   - InspectTemplate checks that a template can receive the configured
//     slots and lists the target cells with their current contents
//   - ReadBack reads the designated cells of a filled workbook back into
//     canonical records
//
// =============================================================================

package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/merger"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/xuri/excelize/v2"
)

// TemplateInfo describes where a template will receive values.
type TemplateInfo struct {
	// Path is the inspected workbook.
	Path string

	// Sheet is the worksheet that will be written.
	Sheet string

	// Sheets lists every worksheet in the workbook.
	Sheets []string

	// Cells lists the target cells, one entry per slot in canonical order.
	Cells []SlotCells
}

// SlotCells holds the two target cells of one hour slot.
type SlotCells struct {
	Hour       string
	Column     string
	AmountCell string
	CountCell  string

	// AmountValue and CountValue are the formatted current contents.
	AmountValue string
	CountValue  string
}

// InspectTemplate opens a template and resolves the target cells.
//
// PARAMETERS:
//   - templatePath: The template workbook.
//   - slots: The hour slot map.
//   - layout: The sheet and rows receiving the values.
//
// RETURNS:
//   - The resolved TemplateInfo.
//   - A *WriteError if the workbook or sheet cannot be opened.
func InspectTemplate(templatePath string, slots config.HourSlotMap, layout config.Layout) (*TemplateInfo, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, &WriteError{Op: "open template", Path: templatePath, Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, layout.Sheet)
	if err != nil {
		return nil, &WriteError{Op: "open template", Path: templatePath, Err: err}
	}

	info := &TemplateInfo{
		Path:   templatePath,
		Sheet:  sheet,
		Sheets: f.GetSheetList(),
		Cells:  make([]SlotCells, 0, len(slots)),
	}

	for _, slot := range merger.Sorted(slots) {
		amountCell, countCell, err := slotCells(slot.Column, layout)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: templatePath, Err: fmt.Errorf("slot %s: %w", slot.Hour, err)}
		}

		amountValue, err := f.GetCellValue(sheet, amountCell)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: templatePath, Err: err}
		}
		countValue, err := f.GetCellValue(sheet, countCell)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: templatePath, Err: err}
		}

		info.Cells = append(info.Cells, SlotCells{
			Hour:        slot.Hour,
			Column:      slot.Column,
			AmountCell:  amountCell,
			CountCell:   countCell,
			AmountValue: amountValue,
			CountValue:  countValue,
		})
	}

	return info, nil
}

// ReadBack reads the designated cells of a filled workbook. Empty cells read
// as zero; a cell holding something that is not a number is an error.
func ReadBack(path string, slots config.HourSlotMap, layout config.Layout) ([]types.CanonicalRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &WriteError{Op: "open workbook", Path: path, Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, layout.Sheet)
	if err != nil {
		return nil, &WriteError{Op: "open workbook", Path: path, Err: err}
	}

	raw := excelize.Options{RawCellValue: true}
	records := make([]types.CanonicalRecord, 0, len(slots))

	for _, slot := range merger.Sorted(slots) {
		amountCell, countCell, err := slotCells(slot.Column, layout)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: path, Err: err}
		}

		amountValue, err := f.GetCellValue(sheet, amountCell, raw)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: path, Err: err}
		}
		countValue, err := f.GetCellValue(sheet, countCell, raw)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: path, Err: err}
		}

		amount, err := parseCellNumber(amountValue)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: path, Err: fmt.Errorf("%s: %w", amountCell, err)}
		}
		count, err := parseCellNumber(countValue)
		if err != nil {
			return nil, &WriteError{Op: "read cell", Path: path, Err: fmt.Errorf("%s: %w", countCell, err)}
		}

		records = append(records, types.CanonicalRecord{
			Hour:   slot.Hour,
			Column: slot.Column,
			Count:  int(count),
			Amount: amount,
			Filled: amountValue != "" || countValue != "",
		})
	}

	return records, nil
}

func parseCellNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
