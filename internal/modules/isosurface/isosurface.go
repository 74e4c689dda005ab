// Package isosurface extracts triangle meshes of constant value from scalar
// fields sampled on a regular lattice.
package isosurface

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoSurfaceAtLevel is returned when the requested level does not cross
	// the field. Callers extracting several levels skip it and continue.
	ErrNoSurfaceAtLevel = errors.New("no surface at level")
	// ErrInvalidField is returned for fields with fewer than two points on an axis.
	ErrInvalidField = errors.New("invalid field")
)

// Field is a scalar field on an nx × ny × nz lattice.
type Field interface {
	Dims() (nx, ny, nz int)
	At(i, j, k int) float64
}

// Mesh is an indexed triangle mesh. Face winding is counter-clockwise seen
// from outside, where outside is the region below the level.
type Mesh struct {
	Vertices []r3.Vec
	Faces    [][3]uint32
}

// Translate shifts every vertex by offset.
func (m *Mesh) Translate(offset r3.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = r3.Add(m.Vertices[i], offset)
	}
}

// Extractor turns one level of a field into a mesh. Vertices are in
// lattice-local coordinates: index times spacing.
type Extractor interface {
	Extract(f Field, spacing r3.Vec, level float64) (*Mesh, error)
}

// fieldRange returns the smallest and largest sample.
func fieldRange(f Field) (lo, hi float64) {
	nx, ny, nz := f.Dims()
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				v := f.At(i, j, k)
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	return lo, hi
}

func checkField(f Field, spacing r3.Vec) error {
	nx, ny, nz := f.Dims()
	if nx < 2 || ny < 2 || nz < 2 {
		return fmt.Errorf("%w: dims %dx%dx%d", ErrInvalidField, nx, ny, nz)
	}
	if !(spacing.X > 0 && spacing.Y > 0 && spacing.Z > 0) {
		return fmt.Errorf("%w: spacing %v", ErrInvalidField, spacing)
	}
	return nil
}
