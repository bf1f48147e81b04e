package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "beneficiary name", cfg.Sheet.NameColumn)
	assert.Equal(t, "lattitude", cfg.Sheet.LatitudeColumn)
	assert.Equal(t, []string{"standard meals", "vegetarian meals"}, cfg.Sheet.MealColumns)
	assert.Equal(t, []int{40, 40}, cfg.Fleet.Capacity)
	assert.InDelta(t, 0.9, cfg.Sheet.Threshold, 1e-9)
	assert.Equal(t, 0, cfg.Sheet.ShingleSize)
	assert.True(t, cfg.Clients.Nominatim.Enabled)
	assert.Empty(t, cfg.Infrastructure.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SHEET_MEAL_COLUMNS", "lunch,dinner,snack")
	t.Setenv("FLEET_CAPACITY", "10,20,30")
	t.Setenv("SHEET_MATCH_THRESHOLD", "0.75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"lunch", "dinner", "snack"}, cfg.Sheet.MealColumns)
	assert.Equal(t, []int{10, 20, 30}, cfg.Fleet.Capacity)
	assert.InDelta(t, 0.75, cfg.Sheet.Threshold, 1e-9)
}

func TestLoad_RejectsInvalidThreshold(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SHEET_MATCH_THRESHOLD", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestLoad_RejectsCapacityMismatch(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("FLEET_CAPACITY", "10")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity")
}

func TestConfig_LogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &Config{App: App{LogLevel: tt.in}}
			assert.Equal(t, tt.want, cfg.LogLevel())
		})
	}
}
