// Package reliability provides database maintenance jobs.
package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/jappenzeller/SYSTEM/internal/database"
)

// Disk space thresholds for the data directory.
const (
	criticalFreeBytes = 500 << 20 // below this maintenance fails
	lowFreeBytes      = 5 << 30   // below this a warning is logged
)

const integrityTimeout = 30 * time.Second

// WeeklyMaintenanceJob checks the integrity of each database, checks free
// disk space and VACUUMs the databases to reclaim pages freed by cache
// cleanup.
type WeeklyMaintenanceJob struct {
	databases []*database.DB
	dataDir   string
	freeBytes func(path string) (uint64, error)
	log       zerolog.Logger
}

// NewWeeklyMaintenanceJob creates a new weekly maintenance job
func NewWeeklyMaintenanceJob(dataDir string, log zerolog.Logger, databases ...*database.DB) *WeeklyMaintenanceJob {
	return &WeeklyMaintenanceJob{
		databases: databases,
		dataDir:   dataDir,
		freeBytes: func(path string) (uint64, error) {
			usage, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return usage.Free, nil
		},
		log: log.With().Str("job", "weekly_maintenance").Logger(),
	}
}

// Run executes the weekly maintenance job
func (j *WeeklyMaintenanceJob) Run() error {
	j.log.Info().Msg("Starting weekly maintenance")
	startTime := time.Now()

	// Step 1: Check disk space
	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	for _, db := range j.databases {
		// Step 2: Integrity check; a corrupt cache is not vacuumed
		ctx, cancel := context.WithTimeout(context.Background(), integrityTimeout)
		err := db.HealthCheck(ctx)
		cancel()
		if err != nil {
			j.log.Error().
				Str("database", db.Name()).
				Err(err).
				Msg("Integrity check failed")
			continue
		}

		// Step 3: VACUUM
		if err := j.vacuumDatabase(db); err != nil {
			j.log.Error().
				Str("database", db.Name()).
				Err(err).
				Msg("VACUUM failed")
			// Continue with other databases
		}
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Weekly maintenance completed successfully")

	return nil
}

// Name returns the job name for scheduler
func (j *WeeklyMaintenanceJob) Name() string {
	return "weekly_maintenance"
}

// checkDiskSpace verifies sufficient disk space is available
func (j *WeeklyMaintenanceJob) checkDiskSpace() error {
	free, err := j.freeBytes(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	availableGB := float64(free) / 1e9
	j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")

	if free < criticalFreeBytes {
		j.log.Error().
			Float64("available_gb", availableGB).
			Msg("Insufficient disk space, skipping maintenance")
		return fmt.Errorf("only %.2f GB free in %s", availableGB, j.dataDir)
	}
	if free < lowFreeBytes {
		j.log.Warn().
			Float64("available_gb", availableGB).
			Msg("Disk space running low")
	}
	return nil
}

// vacuumDatabase performs VACUUM on a database and logs the reclaimed space
func (j *WeeklyMaintenanceJob) vacuumDatabase(db *database.DB) error {
	before, err := db.GetStats()
	if err != nil {
		return err
	}
	if err := db.Vacuum(); err != nil {
		return err
	}
	after, err := db.GetStats()
	if err != nil {
		return err
	}

	sizeBefore := float64(before.PageCount*before.PageSize) / 1024 / 1024
	sizeAfter := float64(after.PageCount*after.PageSize) / 1024 / 1024
	j.log.Info().
		Str("database", db.Name()).
		Float64("size_before_mb", sizeBefore).
		Float64("size_after_mb", sizeAfter).
		Float64("space_reclaimed_mb", sizeBefore-sizeAfter).
		Msg("VACUUM completed")

	return nil
}
