package server

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum/handlers"
)

// bytesPerPoint covers the density grid, its normalized copy and the
// extractor's working set, all float64.
const bytesPerPoint = 4 * 8

// EstimateGridBytes returns the approximate peak memory needed to sample and
// mesh a resolution³ lattice.
func EstimateGridBytes(resolution int) uint64 {
	r := uint64(resolution)
	return r * r * r * bytesPerPoint
}

// MemoryGuard refuses lattices whose estimated footprint exceeds fraction of
// the currently available memory. When memory cannot be read every lattice is
// allowed.
func MemoryGuard(fraction float64, log zerolog.Logger) handlers.ResolutionGuard {
	return memoryGuard(fraction, func() (uint64, error) {
		v, err := mem.VirtualMemory()
		if err != nil {
			return 0, err
		}
		return v.Available, nil
	}, log)
}

func memoryGuard(fraction float64, available func() (uint64, error), log zerolog.Logger) handlers.ResolutionGuard {
	log = log.With().Str("component", "memory_guard").Logger()
	return func(resolution int) error {
		avail, err := available()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read available memory, allowing request")
			return nil
		}
		need := EstimateGridBytes(resolution)
		budget := uint64(float64(avail) * fraction)
		if need > budget {
			log.Warn().
				Int("resolution", resolution).
				Uint64("need_bytes", need).
				Uint64("budget_bytes", budget).
				Msg("Refusing lattice")
			return fmt.Errorf("%w: resolution %d needs ~%d MB, %d MB allowed",
				handlers.ErrResolutionTooLarge, resolution, need>>20, budget>>20)
		}
		return nil
	}
}
