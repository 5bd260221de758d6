package isosurface

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// MarchingTetrahedraParallel is like MarchingTetrahedra but splits the grid
// into slabs along the first axis which are processed by up to workers
// goroutines. The slab meshes are joined in grid order so the result is
// identical to that of MarchingTetrahedra.
func MarchingTetrahedraParallel(u []float64, dim [3]int, level float64, workers int) (Mesh, error) {
	if err := checkShape("field", len(u), dim[:]...); err != nil {
		return Mesh{}, err
	}
	cells := dim[0] - 1
	if workers <= 1 || cells < 2 {
		return MarchingTetrahedra(u, dim, level)
	}
	// Several slabs per worker evens out slabs with more surface.
	nslab := min(4*workers, cells)
	data := make([]Empty, len(u))
	parts := make([]Mesh, nslab)
	var g errgroup.Group
	g.SetLimit(workers)
	for s := range parts {
		ilo := 1 + s*cells/nslab
		ihi := 1 + (s+1)*cells/nslab
		g.Go(func() error {
			parts[s], _ = marchSlab(u, data, dim, level, ilo, ihi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Mesh{}, err
	}
	return joinMeshes(parts), nil
}

// joinMeshes concatenates meshes, offsetting face indices.
func joinMeshes(parts []Mesh) Mesh {
	var nv, nf int
	for _, p := range parts {
		nv += len(p.Vertices)
		nf += len(p.Faces)
	}
	if nv == 0 {
		return Mesh{}
	}
	m := Mesh{
		Vertices: make([]r3.Vec, 0, nv),
		Normals:  make([]r3.Vec, 0, nv),
		Faces:    make([][3]uint32, 0, nf),
	}
	for _, p := range parts {
		off := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, p.Vertices...)
		m.Normals = append(m.Normals, p.Normals...)
		for _, f := range p.Faces {
			m.Faces = append(m.Faces, [3]uint32{f[0] + off, f[1] + off, f[2] + off})
		}
	}
	return m
}
