package isosurface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// cubeCorners are the (i, j, k) offsets of a lattice cell's corners.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cellTetrahedra split a cell into six tetrahedra sharing the 0-6 diagonal.
// Neighbouring cells split their shared faces the same way, so the mesh has
// no cracks.
var cellTetrahedra = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

// MarchingTetrahedra is the default Extractor. Each lattice cell is split
// into six tetrahedra and every tetrahedron contributes zero, one or two
// triangles. Vertices on a lattice edge are shared between the triangles that
// use it.
type MarchingTetrahedra struct{}

type corner struct {
	idx [3]int
	pos r3.Vec
	val float64
}

type edgeKey struct{ a, b [3]int }

type builder struct {
	level float64
	mesh  *Mesh
	edges map[edgeKey]uint32
}

// Extract implements Extractor. The surface separates samples above level
// (inside) from samples at or below it (outside).
func (MarchingTetrahedra) Extract(f Field, spacing r3.Vec, level float64) (*Mesh, error) {
	if err := checkField(f, spacing); err != nil {
		return nil, err
	}
	lo, hi := fieldRange(f)
	if math.IsNaN(level) || level < lo || level >= hi {
		return nil, fmt.Errorf("%w: level %g outside field range [%g, %g]", ErrNoSurfaceAtLevel, level, lo, hi)
	}

	b := &builder{level: level, mesh: &Mesh{}, edges: make(map[edgeKey]uint32)}
	nx, ny, nz := f.Dims()
	var cell [8]corner
	for i := 0; i < nx-1; i++ {
		for j := 0; j < ny-1; j++ {
			for k := 0; k < nz-1; k++ {
				for c, off := range cubeCorners {
					ci, cj, ck := i+off[0], j+off[1], k+off[2]
					cell[c] = corner{
						idx: [3]int{ci, cj, ck},
						pos: r3.Vec{X: float64(ci) * spacing.X, Y: float64(cj) * spacing.Y, Z: float64(ck) * spacing.Z},
						val: f.At(ci, cj, ck),
					}
				}
				for _, tet := range cellTetrahedra {
					b.tetrahedron(cell[tet[0]], cell[tet[1]], cell[tet[2]], cell[tet[3]])
				}
			}
		}
	}

	if len(b.mesh.Faces) == 0 {
		return nil, fmt.Errorf("%w: level %g produced no triangles", ErrNoSurfaceAtLevel, level)
	}
	return b.mesh, nil
}

func (b *builder) tetrahedron(c0, c1, c2, c3 corner) {
	var in, out []corner
	for _, c := range [4]corner{c0, c1, c2, c3} {
		if c.val > b.level {
			in = append(in, c)
		} else {
			out = append(out, c)
		}
	}

	switch len(in) {
	case 1:
		b.triangle(in, out, b.vertex(in[0], out[0]), b.vertex(in[0], out[1]), b.vertex(in[0], out[2]))
	case 3:
		b.triangle(in, out, b.vertex(in[0], out[0]), b.vertex(in[1], out[0]), b.vertex(in[2], out[0]))
	case 2:
		ac := b.vertex(in[0], out[0])
		ad := b.vertex(in[0], out[1])
		bd := b.vertex(in[1], out[1])
		bc := b.vertex(in[1], out[0])
		b.triangle(in, out, ac, ad, bd)
		b.triangle(in, out, ac, bd, bc)
	}
}

// vertex returns the index of the level crossing on edge (p, q), creating it
// by linear interpolation on first use.
func (b *builder) vertex(p, q corner) uint32 {
	key := edgeKey{p.idx, q.idx}
	if lessIndex(q.idx, p.idx) {
		key = edgeKey{q.idx, p.idx}
	}
	if v, ok := b.edges[key]; ok {
		return v
	}
	t := (b.level - p.val) / (q.val - p.val)
	pos := r3.Add(p.pos, r3.Scale(t, r3.Sub(q.pos, p.pos)))
	v := uint32(len(b.mesh.Vertices))
	b.mesh.Vertices = append(b.mesh.Vertices, pos)
	b.edges[key] = v
	return v
}

// triangle appends (a, b, c), flipping the winding so the normal points from
// the inside corners towards the outside corners. Degenerate triangles are
// dropped.
func (b *builder) triangle(in, out []corner, v0, v1, v2 uint32) {
	p0, p1, p2 := b.mesh.Vertices[v0], b.mesh.Vertices[v1], b.mesh.Vertices[v2]
	n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
	if r3.Norm(n) == 0 {
		return
	}
	if r3.Dot(n, r3.Sub(centroid(in), centroid(out))) > 0 {
		v1, v2 = v2, v1
	}
	b.mesh.Faces = append(b.mesh.Faces, [3]uint32{v0, v1, v2})
}

func centroid(cs []corner) r3.Vec {
	var sum r3.Vec
	for _, c := range cs {
		sum = r3.Add(sum, c.pos)
	}
	return r3.Scale(1/float64(len(cs)), sum)
}

func lessIndex(a, b [3]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}
