package wavefunction

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jappenzeller/SYSTEM/internal/modules/quantum"
)

// ErrInvalidLattice is returned for lattices with fewer than two points per
// axis or a non-positive extent.
var ErrInvalidLattice = errors.New("invalid lattice")

// Lattice is a cubic grid of Resolution³ points spanning [-Extent, Extent] on
// each axis, both ends included.
type Lattice struct {
	Resolution int
	Extent     float64
	axis       []float64
}

// NewLattice builds the shared per-axis coordinates.
func NewLattice(resolution int, extent float64) (Lattice, error) {
	if resolution < 2 {
		return Lattice{}, fmt.Errorf("%w: resolution must be at least 2, got %d", ErrInvalidLattice, resolution)
	}
	if !(extent > 0) {
		return Lattice{}, fmt.Errorf("%w: extent must be positive, got %g", ErrInvalidLattice, extent)
	}
	axis := make([]float64, resolution)
	floats.Span(axis, -extent, extent)
	return Lattice{Resolution: resolution, Extent: extent, axis: axis}, nil
}

// OrbitalLattice uses the tabulated extent for principal number n.
func OrbitalLattice(n, resolution int) (Lattice, error) {
	return NewLattice(resolution, quantum.OrbitalExtent(n))
}

// Axis returns the coordinates shared by all three axes. Callers must not modify it.
func (l Lattice) Axis() []float64 { return l.axis }

// Spacing is the distance between neighbouring lattice points.
func (l Lattice) Spacing() float64 {
	return 2 * l.Extent / float64(l.Resolution-1)
}

// Origin is the lattice corner with the smallest coordinates.
func (l Lattice) Origin() r3.Vec {
	return r3.Vec{X: -l.Extent, Y: -l.Extent, Z: -l.Extent}
}

// Len is the number of lattice points.
func (l Lattice) Len() int {
	return l.Resolution * l.Resolution * l.Resolution
}

// Index maps (i, j, k) along (x, y, z) to the flat x-major offset.
func (l Lattice) Index(i, j, k int) int {
	return (i*l.Resolution+j)*l.Resolution + k
}

// Point returns the coordinates of lattice point (i, j, k).
func (l Lattice) Point(i, j, k int) r3.Vec {
	return r3.Vec{X: l.axis[i], Y: l.axis[j], Z: l.axis[k]}
}

// Dims reports the lattice size along x, y and z.
func (l Lattice) Dims() (nx, ny, nz int) {
	return l.Resolution, l.Resolution, l.Resolution
}

// DensityGrid is a probability-density field sampled on a lattice.
type DensityGrid struct {
	Lattice
	Values []float64
}

// At returns the density at lattice point (i, j, k).
func (g *DensityGrid) At(i, j, k int) float64 {
	return g.Values[g.Index(i, j, k)]
}

// Max returns the largest sampled density.
func (g *DensityGrid) Max() float64 {
	return floats.Max(g.Values)
}

// Min returns the smallest sampled density.
func (g *DensityGrid) Min() float64 {
	return floats.Min(g.Values)
}

// Slice returns the 2D cross-section of the grid on plane at lattice index
// along the remaining axis. Rows follow the first axis of the plane.
func (g *DensityGrid) Slice(plane quantum.Plane, index int) ([][]float64, error) {
	n := g.Resolution
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%w: slice index %d outside 0..%d", ErrInvalidLattice, index, n-1)
	}
	var at func(u, v int) float64
	switch plane {
	case quantum.PlaneXY:
		at = func(u, v int) float64 { return g.At(u, v, index) }
	case quantum.PlaneXZ:
		at = func(u, v int) float64 { return g.At(u, index, v) }
	case quantum.PlaneYZ:
		at = func(u, v int) float64 { return g.At(index, u, v) }
	default:
		return nil, fmt.Errorf("%w: %q", quantum.ErrUnknownPlane, plane)
	}
	out := make([][]float64, n)
	for u := range out {
		out[u] = make([]float64, n)
		for v := range out[u] {
			out[u][v] = at(u, v)
		}
	}
	return out, nil
}

// Normalized returns a copy scaled so the maximum is 1. An all-zero grid is
// returned unscaled.
func (g *DensityGrid) Normalized() *DensityGrid {
	out := &DensityGrid{Lattice: g.Lattice, Values: make([]float64, len(g.Values))}
	copy(out.Values, g.Values)
	if m := g.Max(); m > 0 {
		floats.Scale(1/m, out.Values)
	}
	return out
}

// WaveGrid is a complex wavefunction sampled on a lattice.
type WaveGrid struct {
	Lattice
	Values []complex128
}

// At returns ψ at lattice point (i, j, k).
func (g *WaveGrid) At(i, j, k int) complex128 {
	return g.Values[g.Index(i, j, k)]
}

// Density squares every sample.
func (g *WaveGrid) Density() *DensityGrid {
	out := &DensityGrid{Lattice: g.Lattice, Values: make([]float64, len(g.Values))}
	for i, psi := range g.Values {
		out.Values[i] = ProbabilityDensity(psi)
	}
	return out
}

// Sampler evaluates point functions over a lattice. Lattice points are
// independent, so x-slabs are spread across worker goroutines; the result does
// not depend on the worker count.
type Sampler struct {
	workers int
}

// NewSampler creates a sampler; workers <= 0 uses one worker per CPU.
func NewSampler(workers int) *Sampler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Sampler{workers: workers}
}

// Workers returns the configured worker count.
func (s *Sampler) Workers() int { return s.workers }

// Wave samples a complex field.
func (s *Sampler) Wave(l Lattice, f func(r3.Vec) complex128) *WaveGrid {
	g := &WaveGrid{Lattice: l, Values: make([]complex128, l.Len())}
	sampleInto(s.workers, l, g.Values, f)
	return g
}

// Density samples a real field.
func (s *Sampler) Density(l Lattice, f func(r3.Vec) float64) *DensityGrid {
	g := &DensityGrid{Lattice: l, Values: make([]float64, l.Len())}
	sampleInto(s.workers, l, g.Values, f)
	return g
}

func sampleInto[T any](workers int, l Lattice, dst []T, f func(r3.Vec) T) {
	n := l.Resolution
	if workers > n {
		workers = n
	}
	slabs := make(chan int, n)
	for i := 0; i < n; i++ {
		slabs <- i
	}
	close(slabs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range slabs {
				for j := 0; j < n; j++ {
					base := l.Index(i, j, 0)
					for k := 0; k < n; k++ {
						dst[base+k] = f(l.Point(i, j, k))
					}
				}
			}
		}()
	}
	wg.Wait()
}

// SampleOrbital evaluates ψ_nlm over the lattice.
func (s *Sampler) SampleOrbital(qn quantum.QuantumNumbers, l Lattice, realForm bool) (*WaveGrid, error) {
	o, err := NewOrbital(qn, realForm)
	if err != nil {
		return nil, err
	}
	return s.Wave(l, o.At), nil
}

// SampleOrbitalDensity evaluates |ψ_nlm|² over the lattice using the real basis.
func (s *Sampler) SampleOrbitalDensity(qn quantum.QuantumNumbers, l Lattice) (*DensityGrid, error) {
	o, err := NewOrbital(qn, true)
	if err != nil {
		return nil, err
	}
	return s.Density(l, o.Density), nil
}
