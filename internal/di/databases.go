// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jappenzeller/SYSTEM/internal/config"
	"github.com/jappenzeller/SYSTEM/internal/database"
)

// InitializeDatabases opens the grid cache database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// grid_cache.db - sampled density grids, safe to delete at any time
	gridCacheDB, err := database.New(database.Config{
		Path:    cfg.GridCachePath(),
		Profile: database.ProfileCache,
		Name:    "grid_cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize grid cache database: %w", err)
	}
	if err := gridCacheDB.Migrate(); err != nil {
		gridCacheDB.Close()
		return nil, fmt.Errorf("failed to migrate grid cache database: %w", err)
	}
	container.GridCacheDB = gridCacheDB

	log.Info().
		Str("path", gridCacheDB.Path()).
		Msg("Grid cache database initialized")

	return container, nil
}
