// =============================================================================
// Floor Plan Filler - Convert and Locate Commands
// =============================================================================
//
// 'convert' turns an already filled spreadsheet into a PDF with the office
// suite. 'locate' shows which office suite executable would be used.
//
// COMMAND USAGE:
//   floorplan convert <plan.xlsx> [--out plan.pdf] [--soffice path]
//   floorplan locate [--soffice path]
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/floorplan-filler/internal/officeconv"
	"github.com/ginjaninja78/floorplan-filler/pkg/utils"
	"github.com/spf13/cobra"
)

// convertOut is the PDF destination for 'convert'.
var convertOut string

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert <plan.xlsx>",
	Short: "Convert a spreadsheet to PDF with LibreOffice",
	Long: `The convert command runs LibreOffice headless to turn a spreadsheet into a
PDF. By default the PDF is written next to the spreadsheet with the same name;
--out moves it elsewhere, replacing any existing file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0])
	},
}

// locateCmd represents the 'locate' command.
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show which LibreOffice executable will be used for PDF output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		path, err := locator.Resolve(converterOverride(sofficePath))
		if err != nil {
			fmt.Fprintln(out, "LibreOffice was not found. PDF output is unavailable.")
			fmt.Fprintf(out, "Download it from %s\n", officeconv.DownloadURL)
			fmt.Fprintln(out, "or set converter.path in the configuration.")
			logger.Debug("converter lookup failed", "error", err)
			return nil
		}

		fmt.Fprintln(out, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(locateCmd)

	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "PDF output path (default next to the spreadsheet)")
	convertCmd.Flags().StringVar(&sofficePath, "soffice", "", "Office suite executable")
	locateCmd.Flags().StringVar(&sofficePath, "soffice", "", "Check this executable instead of searching")
}

func runConvert(cmd *cobra.Command, xlsxPath string) error {
	conv, err := resolveConverter(sofficePath)
	if err != nil {
		return err
	}

	task, err := runner.Run(cmd.Context(), "convert", func(ctx context.Context) (any, error) {
		return conv.Convert(ctx, xlsxPath)
	})
	if err != nil {
		return err
	}
	pdfPath, err := taskValue[string](task)
	if err != nil {
		return err
	}

	if convertOut != "" && convertOut != pdfPath {
		if err := utils.ReplaceFile(pdfPath, convertOut); err != nil {
			return err
		}
		pdfPath = convertOut
	}

	logger.Info("converted", "input", xlsxPath, "output", pdfPath, "elapsed", task.Elapsed)
	fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s -> %s\n", xlsxPath, pdfPath)
	return nil
}

// converterOverride prefers the flag over the configured path.
func converterOverride(flag string) string {
	if flag != "" {
		return flag
	}
	return mainConfig.Converter.Path
}

// resolveConverter finds the office suite and returns a converter for it.
func resolveConverter(flag string) (*officeconv.Converter, error) {
	path, err := locator.Resolve(converterOverride(flag))
	if err != nil {
		return nil, err
	}
	logger.Debug("using converter", "path", path)
	return officeconv.New(path, mainConfig.Converter.Timeout), nil
}
