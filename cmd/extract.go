// =============================================================================
// Floor Plan Filler - Extract Command
// =============================================================================
//
// This file defines the 'extract' command, which reads the hourly sales
// table from a report and prints it. The records can be exported to CSV,
// corrected, and passed back to 'fill' with --records.
//
// COMMAND USAGE:
//   floorplan extract <report.pdf> [flags]
//
// FLAGS:
//   --csv   : Also write the records to this CSV file
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/floorplan-filler/internal/pipeline"
	"github.com/ginjaninja78/floorplan-filler/internal/recordsio"
	"github.com/ginjaninja78/floorplan-filler/internal/review"
	"github.com/ginjaninja78/floorplan-filler/internal/tasks"
	"github.com/ginjaninja78/floorplan-filler/internal/types"
	"github.com/ginjaninja78/floorplan-filler/internal/validation"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// extractCSV is the optional CSV export path.
var extractCSV string

// =============================================================================
// EXTRACT COMMAND DEFINITION
// =============================================================================

// extractCmd represents the 'extract' command.
var extractCmd = &cobra.Command{
	Use:   "extract <report.pdf>",
	Short: "Extract the hourly sales records from a report",
	Long: `The extract command reads the sales report, finds the hourly table between
the "ACUMU" and "Total" markers and prints one record per row found, in
report order. Nothing is merged or dropped at this stage.

Use --csv to save the records for editing; 'fill --records' reads them back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(
		&extractCSV,
		"csv",
		"",
		"Write the extracted records to this CSV file",
	)
}

// =============================================================================
// COMMAND FUNCTIONS
// =============================================================================

func runExtract(cmd *cobra.Command, reportPath string) error {
	p := pipeline.New(mainConfig, nil, logger)

	records, err := extractRecords(cmd.Context(), p, reportPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := review.RenderTable(out, records, mainConfig.Currency); err != nil {
		return err
	}
	logWarnings(records)

	if extractCSV != "" {
		if err := recordsio.WriteFile(extractCSV, records); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRecords written to %s\n", extractCSV)
	}

	return nil
}

// extractRecords runs the extraction on the background runner.
func extractRecords(ctx context.Context, p *pipeline.Pipeline, reportPath string) ([]types.SalesRecord, error) {
	result, err := runner.Run(ctx, pipeline.OpExtract, func(context.Context) (any, error) {
		return p.Extract(reportPath)
	})
	if err != nil {
		return nil, err
	}
	return taskValue[[]types.SalesRecord](result)
}

// taskValue unpacks a task result.
func taskValue[T any](result tasks.Result) (T, error) {
	var zero T
	if result.Err != nil {
		return zero, result.Err
	}
	value, ok := result.Value.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned %T", result.Name, result.Value)
	}
	return value, nil
}

// logWarnings logs what the merge will drop or replace.
func logWarnings(records []types.SalesRecord) {
	result := validation.ValidateRecords(records, mainConfig.HourSlots)
	for _, finding := range result.Errors {
		logger.Warn(finding.Message, "row", finding.Row, "field", finding.Field, "value", finding.Value)
	}
}
