package spreadsheet_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/merger"
	"github.com/ginjaninja78/floorplan-filler/internal/spreadsheet"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testSlots = config.HourSlotMap{
	{Hour: "08:00", Column: "C"},
	{Hour: "09:00", Column: "D"},
	{Hour: "24:00", Column: "E"},
}

var testLayout = config.Layout{AmountRow: 10, CountRow: 11}

// newTemplate saves a small floor plan template with a title, a bold style
// on one target cell and a value that must survive the write.
func newTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Plano de Chao"))
	require.NoError(t, f.SetCellValue("Sheet1", "A10", "Vendas"))
	require.NoError(t, f.SetCellValue("Sheet1", "A11", "TCs"))

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "C10", "C10", bold))

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWriteRoundTrip(t *testing.T) {
	template := newTemplate(t)
	output := filepath.Join(t.TempDir(), "plan.xlsx")

	merged := merger.Merge([]types.SalesRecord{
		{Hour: "08:00", Count: 12, Amount: 150.50},
		{Hour: "09:00", Count: 5, Amount: 80.0},
	}, testSlots)

	require.NoError(t, spreadsheet.Write(merged, testSlots, testLayout, template, output))

	got, err := spreadsheet.ReadBack(output, testSlots, testLayout)
	require.NoError(t, err)
	require.Len(t, got, len(merged))

	for i := range merged {
		assert.Equal(t, merged[i].Hour, got[i].Hour)
		assert.Equal(t, merged[i].Count, got[i].Count)
		assert.InDelta(t, merged[i].Amount, got[i].Amount, 1e-9)
	}
}

func TestWritePreservesTemplate(t *testing.T) {
	template := newTemplate(t)
	output := filepath.Join(t.TempDir(), "plan.xlsx")

	merged := merger.Merge([]types.SalesRecord{{Hour: "08:00", Count: 1, Amount: 2}}, testSlots)
	require.NoError(t, spreadsheet.Write(merged, testSlots, testLayout, template, output))

	out, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer out.Close()

	title, err := out.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Plano de Chao", title)

	styleID, err := out.GetCellStyle("Sheet1", "C10")
	require.NoError(t, err)
	style, err := out.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold, "template font is kept")
	require.NotNil(t, style.Alignment)
	assert.True(t, style.Alignment.ShrinkToFit)
	assert.Equal(t, "center", style.Alignment.Horizontal)

	// The template itself is untouched.
	in, err := excelize.OpenFile(template)
	require.NoError(t, err)
	defer in.Close()
	value, err := in.GetCellValue("Sheet1", "C10")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestWriteErrors(t *testing.T) {
	template := newTemplate(t)
	dir := t.TempDir()

	tests := []struct {
		name     string
		template string
		output   string
		layout   config.Layout
		op       string
	}{
		{"missing template", filepath.Join(dir, "none.xlsx"), filepath.Join(dir, "a.xlsx"), testLayout, "open template"},
		{"missing sheet", template, filepath.Join(dir, "b.xlsx"), config.Layout{Sheet: "Plano", AmountRow: 10, CountRow: 11}, "open template"},
		{"unwritable destination", template, filepath.Join(dir, "no", "such", "dir", "c.xlsx"), testLayout, "save"},
		{"overwrite template", template, template, testLayout, "save"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := spreadsheet.Write(merger.Merge(nil, testSlots), testSlots, tt.layout, tt.template, tt.output)

			var we *spreadsheet.WriteError
			require.True(t, errors.As(err, &we), "got %v", err)
			assert.Equal(t, tt.op, we.Op)
		})
	}
}

func TestInspectTemplate(t *testing.T) {
	info, err := spreadsheet.InspectTemplate(newTemplate(t), testSlots, testLayout)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", info.Sheet)
	assert.Equal(t, []string{"Sheet1"}, info.Sheets)
	require.Len(t, info.Cells, 3)
	assert.Equal(t, spreadsheet.SlotCells{Hour: "24:00", Column: "E", AmountCell: "E10", CountCell: "E11"}, info.Cells[0])
	assert.Equal(t, "C10", info.Cells[1].AmountCell)
	assert.Equal(t, "C11", info.Cells[1].CountCell)
}
