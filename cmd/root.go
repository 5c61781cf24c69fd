// =============================================================================
// Floor Plan Filler - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (floorplan)
//   ├── extractCmd  (floorplan extract)
//   ├── fillCmd     (floorplan fill)
//   ├── convertCmd  (floorplan convert)
//   ├── locateCmd   (floorplan locate)
//   ├── inspectCmd  (floorplan inspect)
//   ├── validateCmd (floorplan validate)
//   └── versionCmd  (floorplan version)
//
// The root command loads the configuration and builds the logger before any
// subcommand runs.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/ginjaninja78/floorplan-filler/internal/logging"
	"github.com/ginjaninja78/floorplan-filler/internal/officeconv"
	"github.com/ginjaninja78/floorplan-filler/internal/tasks"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig is loaded in PersistentPreRunE.
var mainConfig *config.MainConfig

// logger is built in PersistentPreRunE.
var logger = logging.Discard()

// closeLog closes the log file, if one is open.
var closeLog = func() error { return nil }

// runner runs the long operations, one at a time.
var runner = tasks.NewRunner()

// locator finds the office suite and remembers the last hit.
var locator = officeconv.NewLocator()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "floorplan",
	Short: "Floor Plan Filler - Copy hourly sales from a PDF report into the floor plan spreadsheet",
	Long: `Floor Plan Filler reads the hourly sales table from a point-of-sale PDF
report and writes it into the floor plan spreadsheet template, one column per
hour slot. The filled spreadsheet can also be saved as a PDF through an
installed LibreOffice.

Example Usage:
  floorplan extract vendas.pdf --csv vendas.csv   # Extract and export for editing
  floorplan fill vendas.pdf --out plano.xlsx      # Extract and fill the template
  floorplan fill --records vendas.csv --pdf plano.pdf
  floorplan fill vendas.pdf --review              # Correct values before saving
  floorplan inspect                               # Show the target cells
  floorplan locate                                # Find the office suite`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Interrupts cancel the running operation.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: The configuration file. A missing default file is not
	// an error; built-in defaults are used.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initialize loads the configuration and sets up logging.
func initialize(cmd *cobra.Command) error {
	mustExist := cmd.Flags().Changed("config")

	cfg, err := config.LoadMainConfig(cfgFile, mustExist)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	l, closeFn, err := logging.New(logging.Options{Level: level, File: cfg.LogFile})
	if err != nil {
		return err
	}

	mainConfig = cfg
	logger = l
	closeLog = closeFn
	logger.Debug("configuration loaded", "path", cfgFile, "slots", len(cfg.HourSlots), "template", cfg.Template)
	return nil
}
