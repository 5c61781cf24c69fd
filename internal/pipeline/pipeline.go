// =============================================================================
// Floor Plan Filler - Pipeline Module
// =============================================================================
//
// This module orchestrates the save operations, from the record list the
// user accepted to the file on disk.
//
// SPREADSHEET PIPELINE:
//   1. Merge the records onto the configured hour slots
//   2. Log records whose hour is not a slot (they are dropped)
//   3. Write the template copy with the merged values
//
// PDF PIPELINE:
//   1. Write the spreadsheet to a temporary file next to the target
//   2. Run the office suite to convert it
//   3. Replace the target with the produced PDF
//   4. Remove the temporary spreadsheet, and the converter output on failure
//
// Cleanup failures are logged and never change the outcome.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/merger"
	"github.com/ginjaninja78/floorplan-filler/internal/officeconv"
	"github.com/ginjaninja78/floorplan-filler/internal/pdfextract"
	"github.com/ginjaninja78/floorplan-filler/internal/spreadsheet"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/pkg/utils"
)

// Operation names used in Result.
const (
	OpExtract     = "extract"
	OpSpreadsheet = "save spreadsheet"
	OpPDF         = "save pdf"
)

// ErrPDFUnavailable is returned by SavePDF when no converter is configured.
var ErrPDFUnavailable = fmt.Errorf("PDF output unavailable: %w", officeconv.ErrConverterNotFound)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one save operation.
type Result struct {
	// Operation is one of the Op constants.
	Operation string

	// OutputFile is the path written. Empty if the operation failed.
	OutputFile string

	// Success indicates whether the operation was successful.
	Success bool

	// Err contains the error if the operation failed.
	Err error

	// Stats contains processing statistics.
	Stats Stats
}

// Stats contains statistics about a save.
type Stats struct {
	// Records is the number of records handed in.
	Records int

	// Slots is the number of configured hour slots written.
	Slots int

	// FilledSlots is the number of slots that received a record.
	FilledSlots int

	// Dropped is the number of records whose hour is not a slot.
	Dropped int

	// Elapsed is the time taken by the operation.
	Elapsed time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Logger is an interface for logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// PDFConverter turns a spreadsheet into a PDF next to it and returns the
// PDF's path. *officeconv.Converter satisfies it.
type PDFConverter interface {
	Convert(ctx context.Context, xlsxPath string) (string, error)
}

// Pipeline runs extraction and saves with one configuration.
type Pipeline struct {
	slots     config.HourSlotMap
	layout    config.Layout
	template  string
	converter PDFConverter
	logger    Logger
}

// New creates a Pipeline.
//
// PARAMETERS:
//   - cfg: The loaded configuration. cfg.Template is the template used.
//   - converter: The PDF converter, or nil when none was found.
//   - logger: Receives progress and cleanup messages.
//
// RETURNS:
//   - A new Pipeline instance.
func New(cfg *config.MainConfig, converter PDFConverter, logger Logger) *Pipeline {
	return &Pipeline{
		slots:     cfg.HourSlots,
		layout:    cfg.Layout(),
		template:  cfg.Template,
		converter: converter,
		logger:    logger,
	}
}

// PDFAvailable reports whether SavePDF can work.
func (p *Pipeline) PDFAvailable() bool {
	return p.converter != nil
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract reads the sales records from a report.
func (p *Pipeline) Extract(reportPath string) ([]types.SalesRecord, error) {
	start := time.Now()
	p.logger.Info("extracting sales report", "path", reportPath)

	records, err := pdfextract.ExtractFile(reportPath)
	if err != nil {
		p.logger.Error("extraction failed", "path", reportPath, "error", err)
		return nil, err
	}

	if len(records) == 0 {
		p.logger.Warn("no hourly rows found between the report anchors", "path", reportPath)
	}
	p.logger.Info("extraction complete", "records", len(records), "elapsed", time.Since(start))
	return records, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// SaveSpreadsheet merges the records and writes a filled copy of the
// template to outputPath.
func (p *Pipeline) SaveSpreadsheet(records []types.SalesRecord, outputPath string) Result {
	start := time.Now()
	result := Result{Operation: OpSpreadsheet}

	p.logger.Info("saving spreadsheet", "output", outputPath, "template", p.template)

	merged, stats := p.merge(records)
	result.Stats = stats

	if err := spreadsheet.Write(merged, p.slots, p.layout, p.template, outputPath); err != nil {
		p.logger.Error("spreadsheet save failed", "output", outputPath, "error", err)
		result.Err = err
		result.Stats.Elapsed = time.Since(start)
		return result
	}

	result.OutputFile = outputPath
	result.Success = true
	result.Stats.Elapsed = time.Since(start)
	p.logger.Info("spreadsheet saved", "output", outputPath, "filled_slots", stats.FilledSlots, "slots", stats.Slots)
	return result
}

// SavePDF writes the records through a temporary spreadsheet and converts
// it to outputPath. An existing file at outputPath is replaced.
func (p *Pipeline) SavePDF(ctx context.Context, records []types.SalesRecord, outputPath string) Result {
	start := time.Now()
	result := Result{Operation: OpPDF}

	if p.converter == nil {
		result.Err = ErrPDFUnavailable
		return result
	}

	p.logger.Info("saving PDF", "output", outputPath)

	tempXLSX := utils.TempSibling(outputPath, ".xlsx")
	strayPDF := officeconv.PDFPath(tempXLSX)
	succeeded := false
	defer func() {
		p.cleanup(tempXLSX)
		if !succeeded {
			p.cleanup(strayPDF)
		}
	}()

	merged, stats := p.merge(records)
	result.Stats = stats

	if err := spreadsheet.Write(merged, p.slots, p.layout, p.template, tempXLSX); err != nil {
		result.Err = err
		result.Stats.Elapsed = time.Since(start)
		p.logger.Error("PDF save failed", "output", outputPath, "error", err)
		return result
	}
	p.logger.Debug("wrote temporary spreadsheet", "path", tempXLSX)

	producedPDF, err := p.converter.Convert(ctx, tempXLSX)
	if err != nil {
		result.Err = err
		result.Stats.Elapsed = time.Since(start)
		p.logger.Error("PDF conversion failed", "output", outputPath, "error", err)
		return result
	}

	if err := utils.ReplaceFile(producedPDF, outputPath); err != nil {
		result.Err = fmt.Errorf("failed to move converted PDF into place: %w", err)
		result.Stats.Elapsed = time.Since(start)
		p.logger.Error("PDF save failed", "output", outputPath, "error", err)
		return result
	}

	succeeded = true
	result.OutputFile = outputPath
	result.Success = true
	result.Stats.Elapsed = time.Since(start)
	p.logger.Info("PDF saved", "output", outputPath, "elapsed", result.Stats.Elapsed)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (p *Pipeline) merge(records []types.SalesRecord) ([]types.CanonicalRecord, Stats) {
	merged := merger.Merge(records, p.slots)
	dropped := merger.Unmatched(records, p.slots)

	for _, r := range dropped {
		p.logger.Warn("record hour is not a configured slot, skipping", "hour", r.Hour, "count", r.Count, "amount", r.Amount)
	}

	stats := Stats{
		Records: len(records),
		Slots:   len(merged),
		Dropped: len(dropped),
	}
	for _, r := range merged {
		if r.Filled {
			stats.FilledSlots++
		}
	}
	return merged, stats
}

func (p *Pipeline) cleanup(path string) {
	if err := utils.RemoveIfExists(path); err != nil {
		p.logger.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}

// IsUserError reports whether err is one of the failures shown to the user
// as a message box rather than a bare error line.
func IsUserError(err error) bool {
	var extractErr *pdfextract.ExtractionError
	var writeErr *spreadsheet.WriteError
	var convErr *officeconv.ConversionError
	return errors.As(err, &extractErr) ||
		errors.As(err, &writeErr) ||
		errors.As(err, &convErr) ||
		errors.Is(err, officeconv.ErrConverterNotFound)
}
