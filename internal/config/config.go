// =============================================================================
// Floor Plan Filler - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. The configuration holds everything the tool needs that is
// not chosen per run:
//   - The hour slot map (hour label -> spreadsheet column)
//   - The template layout (sheet, amount row, count row)
//   - The external converter settings
//   - Logging settings
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML file given with --config (default config.yaml)
//   3. Environment variables, optionally loaded from a .env file
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvTemplate = "FLOORPLAN_TEMPLATE"
	EnvSoffice  = "FLOORPLAN_SOFFICE"
	EnvLogLevel = "FLOORPLAN_LOG_LEVEL"
)

// DefaultConverterTimeout bounds a single spreadsheet to PDF conversion.
const DefaultConverterTimeout = 60 * time.Second

var hourLabelPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// TEMPLATE SETTINGS
	// =========================================================================

	// Template is the default template spreadsheet. Can be overridden per
	// run with --template.
	Template string `yaml:"template"`

	// Sheet is the worksheet to write to. Empty means the workbook's active
	// sheet.
	Sheet string `yaml:"sheet"`

	// AmountRow is the row receiving the sales amount of each slot.
	// Default: 10
	AmountRow int `yaml:"amount_row"`

	// CountRow is the row receiving the transaction count of each slot.
	// Default: 11
	CountRow int `yaml:"count_row"`

	// Currency is the ISO-4217 code used when displaying totals.
	// Default: "BRL"
	Currency string `yaml:"currency"`

	// =========================================================================
	// CONVERTER SETTINGS
	// =========================================================================

	// Converter configures the external office suite used for PDF output.
	Converter ConverterConfig `yaml:"converter"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional file receiving a copy of the status log.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// HOUR SLOTS
	// =========================================================================

	// HourSlots maps every hour label the output contains to the column it
	// is written to. Declaration order is preserved.
	HourSlots HourSlotMap `yaml:"hour_slots"`
}

// ConverterConfig holds the external converter settings.
type ConverterConfig struct {
	// Path is a manual override for the converter executable. Empty means
	// search the host.
	Path string `yaml:"path"`

	// Timeout bounds one conversion.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// Layout returns the cell layout the spreadsheet writer needs.
func (c *MainConfig) Layout() Layout {
	return Layout{
		Sheet:     c.Sheet,
		AmountRow: c.AmountRow,
		CountRow:  c.CountRow,
	}
}

// Layout locates the cells of a template that receive slot values.
type Layout struct {
	// Sheet is the worksheet name, empty for the active sheet.
	Sheet string

	// AmountRow is the 1-based row for amounts.
	AmountRow int

	// CountRow is the 1-based row for counts.
	CountRow int
}

// =============================================================================
// HOUR SLOT MAP
// =============================================================================

// HourSlot binds one hour label to one spreadsheet column.
type HourSlot struct {
	Hour   string
	Column string
}

// HourSlotMap is an ordered mapping from hour label to column letter. It is
// decoded from a YAML mapping and keeps the declaration order, which is the
// tie-break order when two labels share an hour of day.
type HourSlotMap []HourSlot

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (m *HourSlotMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: hour_slots must be a mapping of hour to column", value.Line)
	}

	slots := make(HourSlotMap, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: hour_slots entries must be scalar", key.Line)
		}
		slots = append(slots, HourSlot{Hour: key.Value, Column: val.Value})
	}

	*m = slots
	return nil
}

// Column returns the column configured for an hour label.
func (m HourSlotMap) Column(hour string) (string, bool) {
	for _, slot := range m {
		if slot.Hour == hour {
			return slot.Column, true
		}
	}
	return "", false
}

// Hours returns the configured labels in declaration order.
func (m HourSlotMap) Hours() []string {
	hours := make([]string, len(m))
	for i, slot := range m {
		hours[i] = slot.Hour
	}
	return hours
}

// DefaultHourSlots is the slot map used when the configuration file does not
// define one: one column per opening hour, C through T.
func DefaultHourSlots() HourSlotMap {
	return HourSlotMap{
		{Hour: "07:00", Column: "C"},
		{Hour: "08:00", Column: "D"},
		{Hour: "09:00", Column: "E"},
		{Hour: "10:00", Column: "F"},
		{Hour: "11:00", Column: "G"},
		{Hour: "12:00", Column: "H"},
		{Hour: "13:00", Column: "I"},
		{Hour: "14:00", Column: "J"},
		{Hour: "15:00", Column: "K"},
		{Hour: "16:00", Column: "L"},
		{Hour: "17:00", Column: "M"},
		{Hour: "18:00", Column: "N"},
		{Hour: "19:00", Column: "O"},
		{Hour: "20:00", Column: "P"},
		{Hour: "21:00", Column: "Q"},
		{Hour: "22:00", Column: "R"},
		{Hour: "23:00", Column: "S"},
		{Hour: "24:00", Column: "T"},
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration made only of built-in defaults.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//   - mustExist: When false a missing file falls back to the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, mustExist bool) (*MainConfig, error) {
	// Pick up a .env file next to the working directory if there is one.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !mustExist:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyMainConfigDefaults(&config)
	applyEnvOverrides(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.AmountRow == 0 {
		config.AmountRow = 10
	}
	if config.CountRow == 0 {
		config.CountRow = 11
	}
	if config.Currency == "" {
		config.Currency = "BRL"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Converter.Timeout == 0 {
		config.Converter.Timeout = DefaultConverterTimeout
	}
	if len(config.HourSlots) == 0 {
		config.HourSlots = DefaultHourSlots()
	}
}

// applyEnvOverrides applies the FLOORPLAN_* environment variables.
func applyEnvOverrides(config *MainConfig) {
	if v := os.Getenv(EnvTemplate); v != "" {
		config.Template = v
	}
	if v := os.Getenv(EnvSoffice); v != "" {
		config.Converter.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
}

// Validate checks the configuration for values the rest of the tool cannot
// work with.
func (c *MainConfig) Validate() error {
	var errs []error

	if c.AmountRow < 1 || c.CountRow < 1 {
		errs = append(errs, fmt.Errorf("amount_row and count_row must be positive (got %d and %d)", c.AmountRow, c.CountRow))
	}
	if c.AmountRow == c.CountRow {
		errs = append(errs, fmt.Errorf("amount_row and count_row must differ (both %d)", c.AmountRow))
	}
	if c.Converter.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("converter.timeout must be positive"))
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if err := ValidateHourSlots(c.HourSlots); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateHourSlots checks labels and columns of a slot map.
func ValidateHourSlots(slots HourSlotMap) error {
	if len(slots) == 0 {
		return fmt.Errorf("hour_slots is empty")
	}

	var errs []error
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		if !hourLabelPattern.MatchString(slot.Hour) {
			errs = append(errs, fmt.Errorf("hour slot %q is not in HH:MM form", slot.Hour))
		}
		if seen[slot.Hour] {
			errs = append(errs, fmt.Errorf("hour slot %q is defined twice", slot.Hour))
		}
		seen[slot.Hour] = true
		if _, err := excelize.ColumnNameToNumber(slot.Column); err != nil {
			errs = append(errs, fmt.Errorf("hour slot %q: invalid column %q: %w", slot.Hour, slot.Column, err))
		}
	}

	return errors.Join(errs...)
}
