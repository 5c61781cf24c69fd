// =============================================================================
// Floor Plan Filler - Fill Command
// =============================================================================
//
// This file defines the 'fill' command, the main command of the tool. It
// takes the records from a report (or from an edited CSV), applies any
// corrections, and writes the filled floor plan as a spreadsheet, a PDF, or
// both.
//
// COMMAND USAGE:
//   floorplan fill [report.pdf] [flags]
//
// FLAGS:
//   --out       : Spreadsheet output (default <report>_plano.xlsx)
//   --pdf       : PDF output
//   --template  : Template workbook, overrides the configuration
//   --records   : Read records from this CSV instead of a report
//   --set       : Edit a record before saving, N.field=value (repeatable)
//   --review    : Review and correct the records interactively
//   --soffice   : Office suite executable for PDF output
//
// PROCESSING PIPELINE:
//   1. Extract the report, or import the records CSV
//   2. Apply --set edits, then the interactive review if asked for
//   3. Merge the records onto the hour slots
//   4. Write the spreadsheet and/or the PDF
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/pipeline"
	"github.com/ginjaninja78/floorplan-filler/internal/recordsio"
	"github.com/ginjaninja78/floorplan-filler/internal/review"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/internal/validation"
	"github.com/ginjaninja78/floorplan-filler/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	fillOut     string
	fillPDF     string
	fillRecords string
	fillSets    []string
	fillReview  bool
)

// templatePath overrides the configured template. Shared with 'inspect'.
var templatePath string

// sofficePath overrides the configured converter. Shared with 'convert' and
// 'locate'.
var sofficePath string

// =============================================================================
// FILL COMMAND DEFINITION
// =============================================================================

// fillCmd represents the 'fill' command.
var fillCmd = &cobra.Command{
	Use:   "fill [report.pdf]",
	Short: "Fill the floor plan template from a sales report",
	Long: `The fill command writes the hourly sales into a copy of the floor plan
template. Every configured hour slot is written: slots without a record get
zeros, records whose hour is not a slot are skipped with a warning, and when
an hour appears twice the later record wins.

Records come from the report, or from a CSV saved with 'extract --csv'.
Corrections can be given with --set or made interactively with --review.

The template itself is never modified. PDF output needs LibreOffice; when it
cannot be found the spreadsheet is still written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reportPath string
		if len(args) == 1 {
			reportPath = args[0]
		}
		return runFill(cmd, reportPath)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(fillCmd)

	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Spreadsheet output path (default <report>_plano.xlsx)")
	fillCmd.Flags().StringVar(&fillPDF, "pdf", "", "Also save the filled floor plan as this PDF")
	fillCmd.Flags().StringVar(&templatePath, "template", "", "Template workbook (overrides the configuration)")
	fillCmd.Flags().StringVar(&fillRecords, "records", "", "Read records from this CSV instead of a report")
	fillCmd.Flags().StringArrayVar(&fillSets, "set", nil, "Edit a record before saving, as N.field=value (repeatable)")
	fillCmd.Flags().BoolVar(&fillReview, "review", false, "Review and correct the records before saving")
	fillCmd.Flags().StringVar(&sofficePath, "soffice", "", "Office suite executable used for --pdf")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runFill(cmd *cobra.Command, reportPath string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if reportPath == "" && fillRecords == "" {
		return errors.New("give a report to extract or --records")
	}
	if reportPath != "" && fillRecords != "" {
		return errors.New("give either a report or --records, not both")
	}
	if templatePath != "" {
		mainConfig.Template = templatePath
	}
	if mainConfig.Template == "" {
		return fmt.Errorf("no template configured: use --template, the template key or %s", config.EnvTemplate)
	}

	// =========================================================================
	// STEP 1: DETERMINE OUTPUTS
	// =========================================================================

	spreadsheetOut := fillOut
	if spreadsheetOut == "" && fillPDF == "" {
		source := reportPath
		if source == "" {
			source = fillRecords
		}
		spreadsheetOut = utils.GenerateOutputFileName(source, "_plano", ".xlsx")
	}

	p := pipeline.New(mainConfig, nil, logger)
	if fillPDF != "" {
		conv, err := resolveConverter(sofficePath)
		if err != nil {
			if spreadsheetOut == "" {
				return err
			}
			// Spreadsheet output still works without the office suite.
			reportError(cmd.ErrOrStderr(), err)
		} else {
			p = pipeline.New(mainConfig, conv, logger)
		}
	}

	// =========================================================================
	// STEP 2: LOAD RECORDS
	// =========================================================================

	records, err := loadRecords(ctx, p, reportPath)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: APPLY EDITS
	// =========================================================================

	for _, set := range fillSets {
		a, err := validation.ParseAssignment(set)
		if err != nil {
			return err
		}
		if err := validation.ApplyEdit(records, a.Row, a.Field, a.Value); err != nil {
			return err
		}
		logger.Debug("applied edit", "row", a.Row, "field", a.Field, "value", a.Value)
	}

	if fillReview {
		if err := reviewRecords(cmd.InOrStdin(), out, records); err != nil {
			if errors.Is(err, review.ErrAborted) {
				fmt.Fprintln(out, "Review cancelled, nothing was written.")
				return nil
			}
			return err
		}
	}

	logWarnings(records)

	// =========================================================================
	// STEP 4: SAVE
	// =========================================================================

	var results []pipeline.Result

	if spreadsheetOut != "" {
		result, err := saveSpreadsheet(ctx, p, records, spreadsheetOut)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	if fillPDF != "" && p.PDFAvailable() {
		result, err := savePDF(ctx, p, records, fillPDF)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	return summarize(out, cmd.ErrOrStderr(), results)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadRecords extracts the report or imports the records CSV.
func loadRecords(ctx context.Context, p *pipeline.Pipeline, reportPath string) ([]types.SalesRecord, error) {
	if reportPath != "" {
		return extractRecords(ctx, p, reportPath)
	}

	records, err := recordsio.ReadFile(fillRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", fillRecords, err)
	}
	logger.Info("imported records", "path", fillRecords, "records", len(records))
	return records, nil
}

// reviewRecords runs the interactive review. The prompt is only shown when
// stdin is a terminal.
func reviewRecords(in io.Reader, out io.Writer, records []types.SalesRecord) error {
	session := review.NewSession(in, out, records, mainConfig.HourSlots, mainConfig.Currency)
	if f, ok := in.(*os.File); ok && review.IsTerminal(f) {
		session.Prompt = "> "
	}
	return session.Run()
}

// saveSpreadsheet runs the spreadsheet save on the background runner.
func saveSpreadsheet(ctx context.Context, p *pipeline.Pipeline, records []types.SalesRecord, output string) (pipeline.Result, error) {
	task, err := runner.Run(ctx, pipeline.OpSpreadsheet, func(context.Context) (any, error) {
		return p.SaveSpreadsheet(records, output), nil
	})
	if err != nil {
		return pipeline.Result{}, err
	}
	return taskValue[pipeline.Result](task)
}

// savePDF runs the PDF save on the background runner.
func savePDF(ctx context.Context, p *pipeline.Pipeline, records []types.SalesRecord, output string) (pipeline.Result, error) {
	task, err := runner.Run(ctx, pipeline.OpPDF, func(ctx context.Context) (any, error) {
		return p.SavePDF(ctx, records, output), nil
	})
	if err != nil {
		return pipeline.Result{}, err
	}
	return taskValue[pipeline.Result](task)
}

// summarize prints one line per result and returns the first failure. Later
// failures are reported to errOut.
func summarize(out, errOut io.Writer, results []pipeline.Result) error {
	var firstErr error
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(out, "  ✓ %s -> %s (%d of %d slots filled)\n", r.Operation, r.OutputFile, r.Stats.FilledSlots, r.Stats.Slots)
			continue
		}
		fmt.Fprintf(out, "  ✗ %s failed\n", r.Operation)
		if firstErr == nil {
			firstErr = r.Err
		} else {
			reportError(errOut, r.Err)
		}
	}
	return firstErr
}
