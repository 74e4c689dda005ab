package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("ORBITAL_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, quantum.DefaultGridResolution, cfg.Grid.Resolution)
	assert.Equal(t, 160, cfg.Grid.MaxResolution)
	assert.Equal(t, 0, cfg.Grid.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Grid.CacheTTL)
	assert.Equal(t, "@hourly", cfg.Grid.CacheCleanup)
	assert.Equal(t, quantum.DefaultIsoFractions(), cfg.Grid.IsoFractions)
	assert.Equal(t, 0.5, cfg.Grid.MemoryBudget)
	assert.Equal(t, 48, cfg.Verify.Points)
	assert.Equal(t, 256, cfg.Verify.MaxPoints)
	assert.Equal(t, 2, cfg.Verify.MaxConcurrent)
	assert.Equal(t, 6*time.Hour, cfg.Verify.Retention)
	assert.Equal(t, filepath.Join(dir, "grid_cache.db"), cfg.GridCachePath())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORBITAL_DATA_DIR", t.TempDir())
	t.Setenv("ORBITAL_PORT", "9100")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRID_RESOLUTION", "48")
	t.Setenv("GRID_WORKERS", "3")
	t.Setenv("GRID_CACHE_TTL_HOURS", "2")
	t.Setenv("ISO_FRACTIONS", "0.5, 0.25")
	t.Setenv("VERIFY_POINTS", "32")
	t.Setenv("GRID_MEMORY_FRACTION", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 48, cfg.Grid.Resolution)
	assert.Equal(t, 3, cfg.Grid.Workers)
	assert.Equal(t, 2*time.Hour, cfg.Grid.CacheTTL)
	assert.Equal(t, []float64{0.5, 0.25}, cfg.Grid.IsoFractions)
	assert.Equal(t, 32, cfg.Verify.Points)
	assert.Equal(t, 0.25, cfg.Grid.MemoryBudget)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"fractions not numbers", "ISO_FRACTIONS", "0.1,abc"},
		{"fraction out of range", "ISO_FRACTIONS", "0.1,1.5"},
		{"resolution above max", "GRID_RESOLUTION", "500"},
		{"resolution too small", "GRID_RESOLUTION", "1"},
		{"negative workers", "GRID_WORKERS", "-1"},
		{"zero ttl", "GRID_CACHE_TTL_HOURS", "0"},
		{"port", "ORBITAL_PORT", "70000"},
		{"verify points", "VERIFY_POINTS", "0"},
		{"verify max below default", "VERIFY_MAX_POINTS", "16"},
		{"verify concurrency", "VERIFY_MAX_CONCURRENT", "0"},
		{"memory fraction", "GRID_MEMORY_FRACTION", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ORBITAL_DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnparseableIntFallsBack(t *testing.T) {
	t.Setenv("ORBITAL_DATA_DIR", t.TempDir())
	t.Setenv("ORBITAL_PORT", "eighty")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.Port)
}
