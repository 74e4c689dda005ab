package di

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/jappenzeller/SYSTEM/internal/config"
	"github.com/jappenzeller/SYSTEM/internal/gridcache"
	quantumhandlers "github.com/jappenzeller/SYSTEM/internal/modules/quantum/handlers"
	"github.com/jappenzeller/SYSTEM/internal/modules/shells"
	"github.com/jappenzeller/SYSTEM/internal/modules/verification"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// InitializeRepositories creates the repositories over the opened databases
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil || container.GridCacheDB == nil {
		return fmt.Errorf("grid cache database not initialized")
	}
	container.GridCacheRepo = gridcache.NewRepository(container.GridCacheDB.Conn(), log)
	return nil
}

// InitializeServices builds the sampling, caching and verification services
// and the HTTP handler over them. guard may be nil.
func InitializeServices(container *Container, cfg *config.Config, guard quantumhandlers.ResolutionGuard, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	workers := cfg.Grid.Workers
	if workers == 0 {
		// Default to physical cores
		if cores, err := cpu.Counts(false); err == nil && cores > 0 {
			workers = cores
		}
	}
	container.Sampler = wavefunction.NewSampler(workers)
	container.GridCache = gridcache.NewCache(container.GridCacheRepo, cfg.Grid.CacheTTL, log)
	container.ShellBuilder = shells.NewBuilder(nil, container.Sampler, log)
	container.Runner = verification.NewRunner(cfg.Verify.Points, log,
		verification.WithMaxPoints(cfg.Verify.MaxPoints),
		verification.WithMaxConcurrent(cfg.Verify.MaxConcurrent),
	)

	container.QuantumHandler = quantumhandlers.NewHandler(
		container.GridCache,
		container.Runner,
		container.ShellBuilder,
		container.Sampler,
		quantumhandlers.Limits{
			DefaultResolution: cfg.Grid.Resolution,
			MaxResolution:     cfg.Grid.MaxResolution,
			IsoFractions:      cfg.Grid.IsoFractions,
		},
		guard,
		log,
	)

	log.Info().
		Int("workers", container.Sampler.Workers()).
		Int("resolution", cfg.Grid.Resolution).
		Int("max_resolution", cfg.Grid.MaxResolution).
		Msg("Services initialized")
	return nil
}
