// =============================================================================
// Floor Plan Filler - Spreadsheet Writer
// =============================================================================
//
// This module fills the floor plan template with the canonical records. The
// template is a pre-formatted workbook with one column per hour slot; two
// rows of that column receive the values:
//
//   | Row        | Column C | Column D | ... |
//   |------------|----------|----------|-----|
//   | amount_row | 150.50   | 80.00    | ... |
//   | count_row  | 12       | 5        | ... |
//
// Everything else in the template is preserved. The written cells keep
// their template style with shrink-to-fit, centered alignment merged in so
// large values stay inside the printed cell.
//
// =============================================================================

package spreadsheet

import (
	"fmt"
	"path/filepath"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// WriteError reports a failure to read the template or save the output.
type WriteError struct {
	// Op is the step that failed ("open template", "write cell", "save").
	Op string

	// Path is the file involved.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// =============================================================================
// WRITER
// =============================================================================

// Write fills a copy of the template with the records and saves it.
//
// PARAMETERS:
//   - records: The canonical records (usually the output of merger.Merge).
//   - slots: The hour slot map giving each label its column.
//   - layout: The sheet and rows receiving the values.
//   - templatePath: The template workbook. It is never modified.
//   - outputPath: Where the filled workbook is saved.
//
// RETURNS:
//   - A *WriteError if the template cannot be opened, a cell cannot be
//     written or the output cannot be saved.
func Write(records []types.CanonicalRecord, slots config.HourSlotMap, layout config.Layout, templatePath, outputPath string) error {
	if samePath(templatePath, outputPath) {
		return &WriteError{Op: "save", Path: outputPath, Err: fmt.Errorf("output would overwrite the template")}
	}

	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return &WriteError{Op: "open template", Path: templatePath, Err: err}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, layout.Sheet)
	if err != nil {
		return &WriteError{Op: "open template", Path: templatePath, Err: err}
	}

	byHour := make(map[string]types.CanonicalRecord, len(records))
	for _, record := range records {
		byHour[record.Hour] = record
	}

	styler := newAlignmentStyler(f, sheet)

	for _, slot := range slots {
		record := byHour[slot.Hour]

		amountCell, countCell, err := slotCells(slot.Column, layout)
		if err != nil {
			return &WriteError{Op: "write cell", Path: templatePath, Err: fmt.Errorf("slot %s: %w", slot.Hour, err)}
		}

		if err := f.SetCellValue(sheet, amountCell, record.Amount); err != nil {
			return &WriteError{Op: "write cell", Path: templatePath, Err: fmt.Errorf("%s: %w", amountCell, err)}
		}
		if err := f.SetCellValue(sheet, countCell, record.Count); err != nil {
			return &WriteError{Op: "write cell", Path: templatePath, Err: fmt.Errorf("%s: %w", countCell, err)}
		}

		for _, cell := range []string{amountCell, countCell} {
			if err := styler.apply(cell); err != nil {
				return &WriteError{Op: "style cell", Path: templatePath, Err: fmt.Errorf("%s: %w", cell, err)}
			}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return &WriteError{Op: "save", Path: outputPath, Err: err}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveSheet returns the configured sheet, or the active one when none is
// configured.
func resolveSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		name = f.GetSheetName(f.GetActiveSheetIndex())
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		return "", fmt.Errorf("sheet %q not found", name)
	}
	return name, nil
}

// slotCells returns the amount and count cell names for a column.
func slotCells(column string, layout config.Layout) (string, string, error) {
	amountCell, err := excelize.JoinCellName(column, layout.AmountRow)
	if err != nil {
		return "", "", err
	}
	countCell, err := excelize.JoinCellName(column, layout.CountRow)
	if err != nil {
		return "", "", err
	}
	return amountCell, countCell, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// alignmentStyler merges the shrink-to-fit alignment into existing cell
// styles, creating one derived style per distinct template style.
type alignmentStyler struct {
	f       *excelize.File
	sheet   string
	derived map[int]int
}

func newAlignmentStyler(f *excelize.File, sheet string) *alignmentStyler {
	return &alignmentStyler{f: f, sheet: sheet, derived: make(map[int]int)}
}

func (s *alignmentStyler) apply(cell string) error {
	base, err := s.f.GetCellStyle(s.sheet, cell)
	if err != nil {
		return err
	}

	id, ok := s.derived[base]
	if !ok {
		style, err := s.f.GetStyle(base)
		if err != nil {
			return err
		}
		if style.Alignment == nil {
			style.Alignment = &excelize.Alignment{}
		}
		style.Alignment.ShrinkToFit = true
		style.Alignment.WrapText = false
		style.Alignment.Horizontal = "center"
		style.Alignment.Vertical = "center"

		id, err = s.f.NewStyle(style)
		if err != nil {
			return err
		}
		s.derived[base] = id
	}

	return s.f.SetCellStyle(s.sheet, cell, cell, id)
}
