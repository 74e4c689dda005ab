/**
 * Package di provides dependency injection type definitions.
 *
 * The Container holds every long-lived dependency of the orbital service and
 * is the single source of truth for them.
 */
package di

import (
	"github.com/jappenzeller/SYSTEM/internal/database"
	"github.com/jappenzeller/SYSTEM/internal/gridcache"
	quantumhandlers "github.com/jappenzeller/SYSTEM/internal/modules/quantum/handlers"
	"github.com/jappenzeller/SYSTEM/internal/modules/shells"
	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
	"github.com/jappenzeller/SYSTEM/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	GridCacheDB *database.DB

	// Repositories
	GridCacheRepo *gridcache.Repository

	// Services
	Sampler        *wavefunction.Sampler
	GridCache      *gridcache.Cache
	ShellBuilder   *shells.Builder
	Runner         *verification.Runner
	QuantumHandler *quantumhandlers.Handler

	// Background
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered maintenance jobs for manual triggering
type JobInstances struct {
	GridCacheCleanup  scheduler.Job
	VerificationPrune scheduler.Job
	WALCheckpoints    scheduler.Job
	WeeklyMaintenance scheduler.Job
}

// Close releases the databases. Safe on a partially built container.
func (c *Container) Close() error {
	if c == nil || c.GridCacheDB == nil {
		return nil
	}
	return c.GridCacheDB.Close()
}
