// =============================================================================
// Floor Plan Filler - Inspect and Validate Commands
// =============================================================================
//
// 'validate' loads the configuration and reports the hour slot map without
// touching any file. 'inspect' also opens the template and shows the cells
// each slot will be written to, with their current contents.
//
// COMMAND USAGE:
//   floorplan validate
//   floorplan inspect [--template t.xlsx]
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/floorplan-filler/internal/merger"
	"github.com/ginjaninja78/floorplan-filler/internal/spreadsheet"
	"github.com/spf13/cobra"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without processing",
	Long: `Load the configuration file, .env overrides and environment, check every
hour slot and print the resulting slot map in write order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Configuration is valid.")
		fmt.Fprintf(out, "Template:    %s\n", valueOr(mainConfig.Template, "(not set)"))
		fmt.Fprintf(out, "Sheet:       %s\n", valueOr(mainConfig.Sheet, "(active sheet)"))
		fmt.Fprintf(out, "Amount row:  %d\n", mainConfig.AmountRow)
		fmt.Fprintf(out, "Count row:   %d\n", mainConfig.CountRow)
		fmt.Fprintf(out, "Currency:    %s\n", mainConfig.Currency)
		fmt.Fprintf(out, "Converter:   %s (timeout %s)\n", valueOr(mainConfig.Converter.Path, "(search)"), mainConfig.Converter.Timeout)
		fmt.Fprintf(out, "Hour slots:  %d (%s)\n\n", len(mainConfig.HourSlots), strings.Join(mainConfig.HourSlots.Hours(), ", "))

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "HOUR\tCOLUMN")
		for _, slot := range merger.Sorted(mainConfig.HourSlots) {
			fmt.Fprintf(tw, "%s\t%s\n", slot.Hour, slot.Column)
		}
		return tw.Flush()
	},
}

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the template cells each hour slot is written to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if templatePath != "" {
			mainConfig.Template = templatePath
		}
		if mainConfig.Template == "" {
			return errors.New("no template configured: use --template or the template key")
		}

		info, err := spreadsheet.InspectTemplate(mainConfig.Template, mainConfig.HourSlots, mainConfig.Layout())
		if err != nil {
			return err
		}
		return printTemplateInfo(cmd.OutOrStdout(), info)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&templatePath, "template", "", "Template workbook (overrides the configuration)")
}

func printTemplateInfo(w io.Writer, info *spreadsheet.TemplateInfo) error {
	fmt.Fprintf(w, "Template: %s\n", info.Path)
	fmt.Fprintf(w, "Sheet:    %s (of %d)\n\n", info.Sheet, len(info.Sheets))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOUR\tAMOUNT CELL\tCURRENT\tCOUNT CELL\tCURRENT")
	for _, c := range info.Cells {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Hour, c.AmountCell, valueOr(c.AmountValue, "-"), c.CountCell, valueOr(c.CountValue, "-"))
	}
	return tw.Flush()
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
