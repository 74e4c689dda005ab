// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Directory for the grid cache database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Grid     GridConfig
	Verify   VerifyConfig
}

// GridConfig controls density sampling and the persistent grid cache.
type GridConfig struct {
	Resolution    int // Default points per axis
	MaxResolution int // Upper bound accepted from requests
	Workers       int // Sampling goroutines, 0 = one per CPU
	CacheTTL      time.Duration
	CacheCleanup  string // Cron schedule for the expired-grid cleanup
	IsoFractions  []float64
	MemoryBudget  float64 // Fraction of available memory one lattice may use
}

// VerifyConfig controls background verification jobs.
type VerifyConfig struct {
	Points        int           // Gauss-Legendre order per axis
	MaxPoints     int           // Largest order a request may ask for
	MaxConcurrent int           // Jobs integrating at once
	Retention     time.Duration // How long finished jobs are kept
}

// Load reads .env (if present) and then environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("ORBITAL_DATA_DIR", "data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fractions := quantum.DefaultIsoFractions()
	if raw := os.Getenv("ISO_FRACTIONS"); raw != "" {
		fractions, err = utils.ParseFloatCSV(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ISO_FRACTIONS: %w", err)
		}
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("ORBITAL_PORT", 8090),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Grid: GridConfig{
			Resolution:    getEnvAsInt("GRID_RESOLUTION", quantum.DefaultGridResolution),
			MaxResolution: getEnvAsInt("GRID_MAX_RESOLUTION", 160),
			Workers:       getEnvAsInt("GRID_WORKERS", 0),
			CacheTTL:      time.Duration(getEnvAsInt("GRID_CACHE_TTL_HOURS", 24)) * time.Hour,
			CacheCleanup:  getEnv("GRID_CACHE_CLEANUP", "@hourly"),
			IsoFractions:  fractions,
			MemoryBudget:  getEnvAsFloat("GRID_MEMORY_FRACTION", 0.5),
		},
		Verify: VerifyConfig{
			Points:        getEnvAsInt("VERIFY_POINTS", 48),
			MaxPoints:     getEnvAsInt("VERIFY_MAX_POINTS", 256),
			MaxConcurrent: getEnvAsInt("VERIFY_MAX_CONCURRENT", 2),
			Retention:     time.Duration(getEnvAsInt("VERIFY_RETENTION_HOURS", 6)) * time.Hour,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GridCachePath is the location of the grid cache database.
func (c *Config) GridCachePath() string {
	return filepath.Join(c.DataDir, "grid_cache.db")
}

// Validate checks ranges of the numeric settings.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("ORBITAL_PORT must be in 1..65535, got %d", c.Port)
	}
	if c.Grid.MaxResolution < 2 {
		return fmt.Errorf("GRID_MAX_RESOLUTION must be at least 2, got %d", c.Grid.MaxResolution)
	}
	if c.Grid.Resolution < 2 || c.Grid.Resolution > c.Grid.MaxResolution {
		return fmt.Errorf("GRID_RESOLUTION must be in 2..%d, got %d", c.Grid.MaxResolution, c.Grid.Resolution)
	}
	if c.Grid.Workers < 0 {
		return fmt.Errorf("GRID_WORKERS must not be negative, got %d", c.Grid.Workers)
	}
	if c.Grid.CacheTTL <= 0 {
		return fmt.Errorf("GRID_CACHE_TTL_HOURS must be positive")
	}
	if c.Grid.CacheCleanup == "" {
		return fmt.Errorf("GRID_CACHE_CLEANUP must not be empty")
	}
	if len(c.Grid.IsoFractions) == 0 {
		return fmt.Errorf("ISO_FRACTIONS must list at least one fraction")
	}
	for _, f := range c.Grid.IsoFractions {
		if !(f > 0 && f < 1) {
			return fmt.Errorf("ISO_FRACTIONS values must be in (0, 1), got %g", f)
		}
	}
	if !(c.Grid.MemoryBudget > 0 && c.Grid.MemoryBudget <= 1) {
		return fmt.Errorf("GRID_MEMORY_FRACTION must be in (0, 1], got %g", c.Grid.MemoryBudget)
	}
	if c.Verify.Points < 1 {
		return fmt.Errorf("VERIFY_POINTS must be positive, got %d", c.Verify.Points)
	}
	if c.Verify.MaxPoints < c.Verify.Points {
		return fmt.Errorf("VERIFY_MAX_POINTS (%d) must be at least VERIFY_POINTS (%d)", c.Verify.MaxPoints, c.Verify.Points)
	}
	if c.Verify.MaxConcurrent < 1 {
		return fmt.Errorf("VERIFY_MAX_CONCURRENT must be positive, got %d", c.Verify.MaxConcurrent)
	}
	if c.Verify.Retention <= 0 {
		return fmt.Errorf("VERIFY_RETENTION_HOURS must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
