// Package gridcache persists sampled density grids in SQLite so repeated
// shell requests for the same state and lattice skip resampling.
// Grids are stored as msgpack blobs with an expiration timestamp.
package gridcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
	"github.com/jappenzeller/SYSTEM/internal/utils"
)

// DefaultTTL is how long a stored grid stays fresh.
const DefaultTTL = 24 * time.Hour

// keyPrecision is the rounding step applied to angles and extents before hashing.
const keyPrecision = 1e-9

// Key identifies a grid by the state and lattice that produced it.
type Key struct {
	Basis      quantum.Basis
	Theta      float64
	Phi        float64
	Resolution int
	Extent     float64
}

func round(v float64) float64 {
	return math.Round(v/keyPrecision) * keyPrecision
}

// Hash returns the hex sha256 of the rounded key fields.
func (k Key) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s",
		k.Basis,
		strconv.FormatFloat(round(k.Theta), 'g', -1, 64),
		strconv.FormatFloat(round(k.Phi), 'g', -1, 64),
		k.Resolution,
		strconv.FormatFloat(round(k.Extent), 'g', -1, 64),
	)
	return hex.EncodeToString(h.Sum(nil))
}

// payload is the msgpack body of a stored grid.
type payload struct {
	Resolution int       `msgpack:"r"`
	Extent     float64   `msgpack:"e"`
	Values     []float64 `msgpack:"v"`
}

// Stats summarizes the stored grids.
type Stats struct {
	Entries    int64 `json:"entries"`
	Expired    int64 `json:"expired"`
	TotalBytes int64 `json:"total_bytes"`
	Hits       int64 `json:"hits"`
}

// Repository stores density grids in the density_grids table.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewRepository creates a grid repository on a migrated grid_cache database.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "grid_cache").Logger(),
		now: time.Now,
	}
}

// Store saves the grid with expiration = now + ttl, replacing any previous row.
func (r *Repository) Store(key Key, grid *wavefunction.DensityGrid, ttl time.Duration) error {
	if grid == nil {
		return errors.New("cannot store nil grid")
	}
	if grid.Resolution != key.Resolution {
		return fmt.Errorf("grid resolution %d does not match key resolution %d", grid.Resolution, key.Resolution)
	}

	blob, err := msgpack.Marshal(payload{
		Resolution: grid.Resolution,
		Extent:     grid.Extent,
		Values:     grid.Values,
	})
	if err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}

	now := r.now()
	_, err = r.db.Exec(`INSERT OR REPLACE INTO density_grids
		(cache_key, basis, theta, phi, resolution, extent, payload, size_bytes, created_at, expires_at, hits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		key.Hash(), string(key.Basis), key.Theta, key.Phi, key.Resolution, key.Extent,
		blob, len(blob), now.Unix(), now.Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store grid: %w", err)
	}

	r.log.Debug().
		Str("basis", string(key.Basis)).
		Int("resolution", key.Resolution).
		Int("size_bytes", len(blob)).
		Msg("Stored density grid")
	return nil
}

// GetIfFresh returns the grid only if it has not expired. It returns nil, nil
// when the key is missing or stale.
func (r *Repository) GetIfFresh(key Key) (*wavefunction.DensityGrid, error) {
	hash := key.Hash()

	var blob []byte
	err := r.db.QueryRow(
		"SELECT payload FROM density_grids WHERE cache_key = ? AND expires_at > ?",
		hash, r.now().Unix(),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grid: %w", err)
	}

	grid, err := decode(blob)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec("UPDATE density_grids SET hits = hits + 1 WHERE cache_key = ?", hash); err != nil {
		r.log.Warn().Err(err).Msg("Failed to record grid cache hit")
	}
	return grid, nil
}

func decode(blob []byte) (*wavefunction.DensityGrid, error) {
	var p payload
	if err := msgpack.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("failed to decode grid: %w", err)
	}
	lattice, err := wavefunction.NewLattice(p.Resolution, p.Extent)
	if err != nil {
		return nil, fmt.Errorf("stored grid has invalid lattice: %w", err)
	}
	if len(p.Values) != lattice.Len() {
		return nil, fmt.Errorf("stored grid has %d values, lattice needs %d", len(p.Values), lattice.Len())
	}
	return &wavefunction.DensityGrid{Lattice: lattice, Values: p.Values}, nil
}

// Delete removes a specific entry.
func (r *Repository) Delete(key Key) error {
	if _, err := r.db.Exec("DELETE FROM density_grids WHERE cache_key = ?", key.Hash()); err != nil {
		return fmt.Errorf("failed to delete grid: %w", err)
	}
	return nil
}

// DeleteExpired removes all rows whose expiration has passed and returns how
// many were deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	done := utils.MeasureDBQuery("delete_expired_grids", r.log)

	result, err := r.db.Exec("DELETE FROM density_grids WHERE expires_at <= ?", r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired grids: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	done(deleted)
	return deleted, nil
}

// Stats returns entry counts, total payload size and accumulated hits.
func (r *Repository) Stats() (Stats, error) {
	var s Stats
	err := r.db.QueryRow(`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(size_bytes), 0),
			COALESCE(SUM(hits), 0)
		FROM density_grids`, r.now().Unix()).Scan(&s.Entries, &s.Expired, &s.TotalBytes, &s.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get grid cache stats: %w", err)
	}
	return s, nil
}
