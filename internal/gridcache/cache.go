package gridcache

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
)

// Cache fronts State sampling with the repository. Storage failures are
// logged and never fail the request: the grid can always be recomputed.
type Cache struct {
	repo *Repository
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCache creates a cache. A nil repository disables persistence and
// ttl <= 0 uses DefaultTTL.
func NewCache(repo *Repository, ttl time.Duration, log zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		repo: repo,
		ttl:  ttl,
		log:  log.With().Str("component", "grid_cache").Logger(),
	}
}

// KeyFor builds the key of the grid the state would sample for opts.
func KeyFor(s *orbitalstate.State, opts orbitalstate.GridOptions) Key {
	gk := s.ResolveGrid(opts)
	return Key{
		Basis:      s.Basis(),
		Theta:      s.Theta(),
		Phi:        s.Phi(),
		Resolution: gk.Resolution,
		Extent:     gk.Extent,
	}
}

// DensityGrid returns the stored grid for the state when fresh, otherwise it
// samples the state and stores the result. hit reports whether the grid came
// from storage.
func (c *Cache) DensityGrid(s *orbitalstate.State, opts orbitalstate.GridOptions) (grid *wavefunction.DensityGrid, hit bool, err error) {
	key := KeyFor(s, opts)

	if c.repo != nil && opts.UseCache {
		grid, err := c.repo.GetIfFresh(key)
		if err != nil {
			c.log.Warn().Err(err).Msg("Grid cache read failed, resampling")
		} else if grid != nil {
			return grid, true, nil
		}
	}

	grid, err = s.CalculateDensityGrid(opts)
	if err != nil {
		return nil, false, err
	}

	if c.repo != nil {
		if err := c.repo.Store(key, grid, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("Grid cache write failed")
		}
	}
	return grid, false, nil
}

// Stats returns repository stats, or zero stats when persistence is disabled.
func (c *Cache) Stats() (Stats, error) {
	if c.repo == nil {
		return Stats{}, nil
	}
	return c.repo.Stats()
}
