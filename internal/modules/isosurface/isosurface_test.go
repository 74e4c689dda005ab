package isosurface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

type funcField struct {
	n       int
	spacing float64
	f       func(p r3.Vec) float64
}

func (ff funcField) Dims() (int, int, int) { return ff.n, ff.n, ff.n }

func (ff funcField) At(i, j, k int) float64 {
	return ff.f(r3.Vec{X: float64(i) * ff.spacing, Y: float64(j) * ff.spacing, Z: float64(k) * ff.spacing})
}

func sphereField(center r3.Vec) funcField {
	return funcField{n: 21, spacing: 1, f: func(p r3.Vec) float64 {
		return -r3.Norm(r3.Sub(p, center))
	}}
}

func signedVolume(m *Mesh) float64 {
	var v float64
	for _, f := range m.Faces {
		p0, p1, p2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		v += r3.Dot(p0, r3.Cross(p1, p2)) / 6
	}
	return v
}

func TestMarchingTetrahedra_Sphere(t *testing.T) {
	center := r3.Vec{X: 10.3, Y: 10.3, Z: 10.3}
	const radius = 5.5

	m, err := MarchingTetrahedra{}.Extract(sphereField(center), r3.Vec{X: 1, Y: 1, Z: 1}, -radius)
	require.NoError(t, err)
	require.NotEmpty(t, m.Faces)

	for _, v := range m.Vertices {
		assert.InDelta(t, radius, r3.Norm(r3.Sub(v, center)), 0.25)
	}

	// Outward winding gives a positive enclosed volume.
	want := 4.0 / 3.0 * math.Pi * radius * radius * radius
	got := signedVolume(m)
	assert.Greater(t, got, 0.0)
	assert.InDelta(t, want, got, 0.08*want)
}

func TestMarchingTetrahedra_ClosedSurface(t *testing.T) {
	center := r3.Vec{X: 10.3, Y: 9.7, Z: 10.1}
	m, err := MarchingTetrahedra{}.Extract(sphereField(center), r3.Vec{X: 1, Y: 1, Z: 1}, -5.5)
	require.NoError(t, err)

	edgeUse := make(map[[2]uint32]int)
	for _, f := range m.Faces {
		for e := 0; e < 3; e++ {
			a, b := f[e], f[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			edgeUse[[2]uint32{a, b}]++
		}
	}
	for e, n := range edgeUse {
		assert.Equal(t, 2, n, "edge %v", e)
	}
}

func TestMarchingTetrahedra_SharesVertices(t *testing.T) {
	m, err := MarchingTetrahedra{}.Extract(sphereField(r3.Vec{X: 10.3, Y: 10.3, Z: 10.3}), r3.Vec{X: 1, Y: 1, Z: 1}, -5.5)
	require.NoError(t, err)
	// A closed triangulated sphere has V - E + F = 2, so V is about F/2.
	assert.Less(t, len(m.Vertices), len(m.Faces))
}

func TestMarchingTetrahedra_Spacing(t *testing.T) {
	field := sphereField(r3.Vec{X: 10.3, Y: 10.3, Z: 10.3})
	unit, err := MarchingTetrahedra{}.Extract(field, r3.Vec{X: 1, Y: 1, Z: 1}, -5.5)
	require.NoError(t, err)
	scaled, err := MarchingTetrahedra{}.Extract(field, r3.Vec{X: 2, Y: 0.5, Z: 1}, -5.5)
	require.NoError(t, err)

	require.Equal(t, len(unit.Vertices), len(scaled.Vertices))
	for i := range unit.Vertices {
		assert.InDelta(t, 2*unit.Vertices[i].X, scaled.Vertices[i].X, 1e-9)
		assert.InDelta(t, 0.5*unit.Vertices[i].Y, scaled.Vertices[i].Y, 1e-9)
		assert.InDelta(t, unit.Vertices[i].Z, scaled.Vertices[i].Z, 1e-9)
	}
}

func TestMarchingTetrahedra_NoSurface(t *testing.T) {
	field := sphereField(r3.Vec{X: 10, Y: 10, Z: 10})
	spacing := r3.Vec{X: 1, Y: 1, Z: 1}

	for _, level := range []float64{1, 0, -100, math.NaN()} {
		_, err := MarchingTetrahedra{}.Extract(field, spacing, level)
		assert.ErrorIs(t, err, ErrNoSurfaceAtLevel, "level %v", level)
	}

	flat := funcField{n: 4, spacing: 1, f: func(r3.Vec) float64 { return 1 }}
	_, err := MarchingTetrahedra{}.Extract(flat, spacing, 1)
	assert.ErrorIs(t, err, ErrNoSurfaceAtLevel)
}

func TestMarchingTetrahedra_InvalidField(t *testing.T) {
	small := funcField{n: 1, spacing: 1, f: func(r3.Vec) float64 { return 0 }}
	_, err := MarchingTetrahedra{}.Extract(small, r3.Vec{X: 1, Y: 1, Z: 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidField)

	field := sphereField(r3.Vec{})
	_, err = MarchingTetrahedra{}.Extract(field, r3.Vec{X: 1, Y: 0, Z: 1}, -3)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestMesh_Translate(t *testing.T) {
	m := &Mesh{Vertices: []r3.Vec{{X: 1}, {Y: 2}}}
	m.Translate(r3.Vec{X: -1, Y: -1, Z: 3})
	assert.Equal(t, []r3.Vec{{X: 0, Y: -1, Z: 3}, {X: -1, Y: 1, Z: 3}}, m.Vertices)
}

func TestExtractorInterface(t *testing.T) {
	var _ Extractor = MarchingTetrahedra{}
}
