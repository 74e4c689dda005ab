// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/config"
	"github.com/jappenzeller/SYSTEM/internal/gridcache"
	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
	"github.com/jappenzeller/SYSTEM/internal/reliability"
	"github.com/jappenzeller/SYSTEM/internal/scheduler"
)

// Maintenance schedules that are not configurable.
const (
	verificationPruneSchedule = "@every 10m"
	walCheckpointSchedule     = "@hourly"
	weeklyMaintenanceSchedule = "0 4 * * 0" // Sunday 04:00
)

// RegisterJobs creates the scheduler and registers the maintenance jobs.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	instances := &JobInstances{
		GridCacheCleanup:  gridcache.NewCleanupJob(container.GridCacheRepo, log),
		VerificationPrune: verification.NewPruneJob(container.Runner, cfg.Verify.Retention, log),
		WALCheckpoints:    scheduler.NewCheckWALCheckpointsJob(log, container.GridCacheDB),
		WeeklyMaintenance: reliability.NewWeeklyMaintenanceJob(cfg.DataDir, log, container.GridCacheDB),
	}

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{cfg.Grid.CacheCleanup, instances.GridCacheCleanup},
		{verificationPruneSchedule, instances.VerificationPrune},
		{walCheckpointSchedule, instances.WALCheckpoints},
		{weeklyMaintenanceSchedule, instances.WeeklyMaintenance},
	}
	for _, reg := range registrations {
		if err := sched.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", reg.job.Name(), err)
		}
	}

	container.Scheduler = sched
	return instances, nil
}
