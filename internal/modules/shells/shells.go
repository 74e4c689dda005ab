// Package shells turns density grids into nested, colored isosurface shells
// ready for a renderer.
package shells

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/isosurface"
	"github.com/jappenzeller/SYSTEM/internal/modules/orbitalstate"
	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
	"github.com/jappenzeller/SYSTEM/internal/modules/wavefunction"
	"github.com/jappenzeller/SYSTEM/internal/utils"
)

// Shell is one isosurface of a density grid in world coordinates (Bohr radii).
type Shell struct {
	// Fraction is the level as a fraction of the peak density.
	Fraction float64
	// Threshold is the absolute density at the surface.
	Threshold float64
	Vertices  []r3.Vec
	Faces     [][3]uint32
	Color     quantum.RGBA
}

// Builder extracts shells from density grids.
type Builder struct {
	extractor isosurface.Extractor
	sampler   *wavefunction.Sampler
	log       zerolog.Logger
}

// NewBuilder creates a builder. A nil extractor uses marching tetrahedra and a
// nil sampler uses one worker per CPU.
func NewBuilder(extractor isosurface.Extractor, sampler *wavefunction.Sampler, log zerolog.Logger) *Builder {
	if extractor == nil {
		extractor = isosurface.MarchingTetrahedra{}
	}
	if sampler == nil {
		sampler = wavefunction.NewSampler(0)
	}
	return &Builder{
		extractor: extractor,
		sampler:   sampler,
		log:       log.With().Str("component", "shell_builder").Logger(),
	}
}

// Build extracts one shell per fraction of the grid's peak density. Levels
// with no surface are skipped; the remaining shells keep their order. Shell i
// of n gets alpha color.A·(1 − i/n). Empty fractions use the defaults.
func (b *Builder) Build(grid *wavefunction.DensityGrid, fractions []float64, color quantum.RGBA) ([]Shell, error) {
	if len(fractions) == 0 {
		fractions = quantum.DefaultIsoFractions()
	}
	defer utils.OperationTimer("build_shells", b.log)()

	peak := grid.Max()
	if !(peak > 0) {
		b.log.Warn().Float64("peak", peak).Msg("Density grid has no positive values, no shells extracted")
		return []Shell{}, nil
	}
	normalized := grid.Normalized()
	step := grid.Spacing()
	spacing := r3.Vec{X: step, Y: step, Z: step}
	origin := grid.Origin()

	out := make([]Shell, 0, len(fractions))
	for i, f := range fractions {
		mesh, err := b.extractor.Extract(normalized, spacing, f)
		if errors.Is(err, isosurface.ErrNoSurfaceAtLevel) {
			b.log.Warn().
				Float64("fraction", f).
				Err(err).
				Msg("Skipping isosurface level")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("extract level %g: %w", f, err)
		}
		mesh.Translate(origin)
		out = append(out, Shell{
			Fraction:  f,
			Threshold: f * peak,
			Vertices:  mesh.Vertices,
			Faces:     mesh.Faces,
			Color:     color.WithAlpha(color.A * (1 - float64(i)/float64(len(fractions)))),
		})
	}

	b.log.Debug().
		Int("requested", len(fractions)).
		Int("extracted", len(out)).
		Int("resolution", grid.Resolution).
		Msg("Shells built")
	return out, nil
}

// BuildForState samples the state's density and colors the shells by the
// dominant orbital's l.
func (b *Builder) BuildForState(s *orbitalstate.State, opts orbitalstate.GridOptions, fractions []float64) ([]Shell, error) {
	grid, err := s.CalculateDensityGrid(opts)
	if err != nil {
		return nil, err
	}
	qn, _ := s.DominantOrbital()
	return b.Build(grid, fractions, quantum.OrbitalColor(qn.L))
}

// BuildForOrbital builds shells for a single orbital on its default extent.
func (b *Builder) BuildForOrbital(qn quantum.QuantumNumbers, resolution int, fractions []float64) ([]Shell, error) {
	if resolution == 0 {
		resolution = quantum.DefaultGridResolution
	}
	lattice, err := wavefunction.OrbitalLattice(qn.N, resolution)
	if err != nil {
		return nil, err
	}
	grid, err := b.sampler.SampleOrbitalDensity(qn, lattice)
	if err != nil {
		return nil, err
	}
	return b.Build(grid, fractions, quantum.OrbitalColor(qn.L))
}

// FromGrid wraps an already-sampled grid, for callers that cache grids
// outside a State.
func (b *Builder) FromGrid(grid *wavefunction.DensityGrid, dominant quantum.QuantumNumbers, fractions []float64) ([]Shell, error) {
	return b.Build(grid, fractions, quantum.OrbitalColor(dominant.L))
}
