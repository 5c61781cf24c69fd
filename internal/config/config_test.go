package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ginjaninja78/floorplan-filler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfigKeepsSlotOrder(t *testing.T) {
	path := writeConfig(t, `
template: plan.xlsx
amount_row: 4
count_row: 5
converter:
  timeout: 90s
hour_slots:
  "24:00": Z
  "08:00": C
  "00:00": B
`)

	cfg, err := config.LoadMainConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "plan.xlsx", cfg.Template)
	assert.Equal(t, 4, cfg.AmountRow)
	assert.Equal(t, 5, cfg.CountRow)
	assert.Equal(t, 90*time.Second, cfg.Converter.Timeout)
	assert.Equal(t, []string{"24:00", "08:00", "00:00"}, cfg.HourSlots.Hours())

	col, ok := cfg.HourSlots.Column("08:00")
	assert.True(t, ok)
	assert.Equal(t, "C", col)
}

func TestLoadMainConfigDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := config.LoadMainConfig(missing, false)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.AmountRow)
	assert.Equal(t, 11, cfg.CountRow)
	assert.Equal(t, "BRL", cfg.Currency)
	assert.Equal(t, config.DefaultConverterTimeout, cfg.Converter.Timeout)
	assert.Equal(t, config.DefaultHourSlots(), cfg.HourSlots)

	_, err = config.LoadMainConfig(missing, true)
	assert.Error(t, err)
}

func TestLoadMainConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvSoffice, "/opt/office/soffice")
	t.Setenv(config.EnvLogLevel, "debug")

	cfg, err := config.LoadMainConfig(writeConfig(t, "converter:\n  path: /usr/bin/soffice\n"), true)
	require.NoError(t, err)

	assert.Equal(t, "/opt/office/soffice", cfg.Converter.Path)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMainConfigRejectsBadSlots(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad label", "hour_slots:\n  \"8:00\": C\n"},
		{"bad column", "hour_slots:\n  \"08:00\": \"1A\"\n"},
		{"duplicate", "hour_slots:\n  \"08:00\": C\n  \"08:00\": D\n"},
		{"not a mapping", "hour_slots:\n  - \"08:00\"\n"},
		{"same rows", "amount_row: 3\ncount_row: 3\n"},
		{"unknown currency", "currency: XXY\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadMainConfig(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}

func TestLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Sheet = "Plano"

	assert.Equal(t, config.Layout{Sheet: "Plano", AmountRow: 10, CountRow: 11}, cfg.Layout())
}
