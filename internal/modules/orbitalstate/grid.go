package orbitalstate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/bloch"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
	"github.com/jappenzeller/SYSTEM/internal/utils"
)

// GridKey identifies a sampled lattice. A cached grid is reused only when the
// key matches exactly.
type GridKey struct {
	Resolution int
	Extent     float64
}

// GridOptions controls density sampling. Zero Resolution or Extent means the
// state's default.
type GridOptions struct {
	Resolution int
	Extent     float64
	UseCache   bool
}

// DefaultGridOptions uses the default resolution and the extent of the
// highest principal number among the current orbitals.
func (s *State) DefaultGridOptions() GridOptions {
	return GridOptions{
		Resolution: quantum.DefaultGridResolution,
		Extent:     quantum.OrbitalExtent(s.coeffs.MaxN()),
		UseCache:   true,
	}
}

// ResolveGrid fills zero fields of opts with the state's defaults.
func (s *State) ResolveGrid(opts GridOptions) GridKey {
	def := s.DefaultGridOptions()
	key := GridKey{Resolution: opts.Resolution, Extent: opts.Extent}
	if key.Resolution == 0 {
		key.Resolution = def.Resolution
	}
	if key.Extent == 0 {
		key.Extent = def.Extent
	}
	return key
}

// CachedGridKey reports the key of the cached grid, if any.
func (s *State) CachedGridKey() (GridKey, bool) {
	return s.cacheKey, s.cacheGrid != nil
}

// CalculateDensityGrid samples |Σ cᵢψᵢ|² on a lattice. The cached grid is
// returned when opts.UseCache is set and the resolved key matches; otherwise
// the lattice is resampled and the cache replaced.
func (s *State) CalculateDensityGrid(opts GridOptions) (*wavefunction.DensityGrid, error) {
	key := s.ResolveGrid(opts)
	if opts.UseCache && s.cacheGrid != nil && s.cacheKey == key {
		return s.cacheGrid, nil
	}

	lattice, err := wavefunction.NewLattice(key.Resolution, key.Extent)
	if err != nil {
		return nil, err
	}
	sup, err := bloch.NewSuperposition(s.coeffs)
	if err != nil {
		return nil, err
	}

	timer := utils.NewTimer("sample_density_grid", s.log)
	grid := s.sampler.Density(lattice, sup.Density)
	timer.StopWithContext(map[string]interface{}{
		"resolution": key.Resolution,
		"extent":     key.Extent,
		"basis":      string(s.basis),
		"workers":    s.sampler.Workers(),
	})

	s.cacheKey, s.cacheGrid = key, grid
	return grid, nil
}

// Slice is a 2D density cross-section. Density[i][j] is sampled at
// (Axis[i], Axis[j]) in the plane's two coordinates.
type Slice struct {
	Plane    quantum.Plane
	Position float64
	Axis     []float64
	Density  [][]float64
}

// Max returns the largest density in the slice.
func (sl *Slice) Max() float64 {
	m := 0.0
	for _, row := range sl.Density {
		for _, v := range row {
			m = math.Max(m, v)
		}
	}
	return m
}

// CalculateSlice samples the density on a plane held at position along the
// remaining axis. UseCache is ignored.
func (s *State) CalculateSlice(plane quantum.Plane, position float64, opts GridOptions) (*Slice, error) {
	var point func(u, v float64) r3.Vec
	switch plane {
	case quantum.PlaneXY:
		point = func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: v, Z: position} }
	case quantum.PlaneXZ:
		point = func(u, v float64) r3.Vec { return r3.Vec{X: u, Y: position, Z: v} }
	case quantum.PlaneYZ:
		point = func(u, v float64) r3.Vec { return r3.Vec{X: position, Y: u, Z: v} }
	default:
		return nil, fmt.Errorf("%w: %q", quantum.ErrUnknownPlane, plane)
	}

	key := s.ResolveGrid(opts)
	lattice, err := wavefunction.NewLattice(key.Resolution, key.Extent)
	if err != nil {
		return nil, err
	}
	sup, err := bloch.NewSuperposition(s.coeffs)
	if err != nil {
		return nil, err
	}

	axis := lattice.Axis()
	out := &Slice{
		Plane:    plane,
		Position: position,
		Axis:     append([]float64(nil), axis...),
		Density:  make([][]float64, len(axis)),
	}
	for i, u := range axis {
		row := make([]float64, len(axis))
		for j, v := range axis {
			row[j] = sup.Density(point(u, v))
		}
		out.Density[i] = row
	}
	return out, nil
}

// IsosurfaceValues converts fractions of the maximum density into absolute
// levels, sampling the default grid first if nothing is cached.
func (s *State) IsosurfaceValues(fractions []float64) ([]float64, error) {
	grid := s.cacheGrid
	if grid == nil {
		var err error
		grid, err = s.CalculateDensityGrid(s.DefaultGridOptions())
		if err != nil {
			return nil, err
		}
	}
	peak := grid.Max()
	out := make([]float64, len(fractions))
	for i, f := range fractions {
		out[i] = f * peak
	}
	return out, nil
}
