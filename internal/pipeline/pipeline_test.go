package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/officeconv"
	"github.com/ginjaninja78/floorplan-filler/internal/pipeline"
	"github.com/ginjaninja78/floorplan-filler/internal/spreadsheet"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeConverter writes a PDF next to the spreadsheet, or fails.
type fakeConverter struct {
	err   error
	calls []string
}

func (c *fakeConverter) Convert(_ context.Context, xlsxPath string) (string, error) {
	c.calls = append(c.calls, xlsxPath)
	if c.err != nil {
		return "", c.err
	}
	pdfPath := officeconv.PDFPath(xlsxPath)
	return pdfPath, os.WriteFile(pdfPath, []byte("%PDF-1.4\n"), 0o644)
}

func testConfig(t *testing.T) *config.MainConfig {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Plano"))
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))

	cfg := config.Default()
	cfg.Template = path
	cfg.HourSlots = config.HourSlotMap{{Hour: "08:00", Column: "C"}, {Hour: "09:00", Column: "D"}}
	return cfg
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var records = []types.SalesRecord{
	{Hour: "08:00", Count: 12, Amount: 150.5},
	{Hour: "03:00", Count: 1, Amount: 1},
}

func TestSaveSpreadsheet(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t)
	p := pipeline.New(cfg, nil, newLogger(&logs))
	output := filepath.Join(t.TempDir(), "plan.xlsx")

	result := p.SaveSpreadsheet(records, output)

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, output, result.OutputFile)
	assert.Equal(t, pipeline.Stats{Records: 2, Slots: 2, FilledSlots: 1, Dropped: 1, Elapsed: result.Stats.Elapsed}, result.Stats)
	assert.Contains(t, logs.String(), "hour=03:00")

	got, err := spreadsheet.ReadBack(output, cfg.HourSlots, cfg.Layout())
	require.NoError(t, err)
	assert.Equal(t, 12, got[0].Count)
	assert.Equal(t, 0, got[1].Count)
}

func TestSaveSpreadsheetFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Template = filepath.Join(t.TempDir(), "missing.xlsx")
	p := pipeline.New(cfg, nil, newLogger(&bytes.Buffer{}))

	result := p.SaveSpreadsheet(records, filepath.Join(t.TempDir(), "plan.xlsx"))

	assert.False(t, result.Success)
	assert.Empty(t, result.OutputFile)
	var we *spreadsheet.WriteError
	assert.True(t, errors.As(result.Err, &we))
	assert.True(t, pipeline.IsUserError(result.Err))
}

func TestSavePDFReplacesTarget(t *testing.T) {
	conv := &fakeConverter{}
	p := pipeline.New(testConfig(t), conv, newLogger(&bytes.Buffer{}))
	dir := t.TempDir()
	output := filepath.Join(dir, "plan.pdf")
	require.NoError(t, os.WriteFile(output, []byte("old"), 0o644))

	result := p.SavePDF(context.Background(), records, output)

	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\n", string(data))

	require.Len(t, conv.calls, 1)
	assert.Equal(t, dir, filepath.Dir(conv.calls[0]))
	assert.Regexp(t, `^plan_temp_[0-9a-f]{8}\.xlsx$`, filepath.Base(conv.calls[0]))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files are removed")
}

func TestSavePDFConversionFailure(t *testing.T) {
	convErr := &officeconv.ConversionError{Path: "x.xlsx", Reason: "converter exited with status 1"}
	p := pipeline.New(testConfig(t), &fakeConverter{err: convErr}, newLogger(&bytes.Buffer{}))
	dir := t.TempDir()
	output := filepath.Join(dir, "plan.pdf")
	require.NoError(t, os.WriteFile(output, []byte("old"), 0o644))

	result := p.SavePDF(context.Background(), records, output)

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, convErr)
	assert.True(t, pipeline.IsUserError(result.Err))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data), "target is untouched on failure")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSavePDFUnavailable(t *testing.T) {
	p := pipeline.New(testConfig(t), nil, newLogger(&bytes.Buffer{}))
	assert.False(t, p.PDFAvailable())

	result := p.SavePDF(context.Background(), records, filepath.Join(t.TempDir(), "plan.pdf"))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, pipeline.ErrPDFUnavailable)
	assert.ErrorIs(t, result.Err, officeconv.ErrConverterNotFound)
}

func TestExtractFailure(t *testing.T) {
	var logs bytes.Buffer
	p := pipeline.New(testConfig(t), nil, newLogger(&logs))

	_, err := p.Extract(filepath.Join(t.TempDir(), "missing.pdf"))

	assert.True(t, pipeline.IsUserError(err))
	assert.Contains(t, logs.String(), "extraction failed")
	assert.False(t, pipeline.IsUserError(errors.New("other")))
}
