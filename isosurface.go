package isosurface

import (
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a triangle mesh generated by the marching tetrahedra algorithm.
// Vertices are not shared between tetrahedra.
type Mesh struct {
	Vertices []r3.Vec
	// Faces index into Vertices.
	Faces [][3]uint32
	// Normals is parallel to Vertices. All vertices emitted by the same
	// tetrahedron share its flat normal, which points toward increasing field
	// values. Normals are not normalized.
	Normals []r3.Vec
}

// tetraPerms are the permutations of the axes. Walking the edges of a cube from
// its minimum corner in each of these orders yields the 6 tetrahedra of the
// cube, all of them sharing the main diagonal. Adjacent cubes agree on the
// triangulation of their common face.
var tetraPerms = [6][3]int{
	{0, 1, 2},
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// MarchingTetrahedra finds the isosurface at level of the function sampled by u
// on a regular grid of dimensions dim, stored in row-major order:
//  u[i*dim[1]*dim[2] + j*dim[2] + k]
// The grid node (i, j, k) has coordinate (i, j, k).
//
// The returned error wraps ErrShapeMismatch if len(u) does not match dim.
func MarchingTetrahedra(u []float64, dim [3]int, level float64) (Mesh, error) {
	m, _, err := MarchingTetrahedraWithData(u, dim, level, make([]Empty, len(u)))
	return m, err
}

// MarchingTetrahedraWithData is like MarchingTetrahedra but also linearly
// interpolates data, sampled on the same grid as u, at every mesh vertex.
// The returned data is parallel to the mesh vertices.
func MarchingTetrahedraWithData[T Interpolator[T]](u []float64, dim [3]int, level float64, data []T) (Mesh, []T, error) {
	if err := checkShape("field", len(u), dim[:]...); err != nil {
		return Mesh{}, nil, err
	}
	if err := checkShape("data", len(data), dim[:]...); err != nil {
		return Mesh{}, nil, err
	}
	m, interp := marchSlab(u, data, dim, level, 1, dim[0])
	return m, interp, nil
}

// marchSlab runs marching tetrahedra on the cubes whose maximum corner has its
// first index in [ilo, ihi).
func marchSlab[T Interpolator[T]](u []float64, data []T, dim [3]int, level float64, ilo, ihi int) (m Mesh, interp []T) {
	marchCubes(u, data, dim, level, ilo, ihi, func(perm *[3]int, us *[4]float64, vs *[4]Pair[Vec3, T]) {
		cur := uint32(len(m.Vertices))
		Tetrahedron(*us, *vs, func(v Pair[Vec3, T]) {
			m.Vertices = append(m.Vertices, r3.Vec(v.A))
			interp = append(interp, v.B)
		}, func(f [3]uint32) {
			m.Faces = append(m.Faces, [3]uint32{f[0] + cur, f[1] + cur, f[2] + cur})
		})
		n := tetraNormal(perm, us)
		for len(m.Normals) < len(m.Vertices) {
			m.Normals = append(m.Normals, n)
		}
	})
	return m, interp
}

// MarchingTetrahedraWithDataEmit performs marching tetrahedra like
// MarchingTetrahedraWithData without accumulating a mesh. emit is called for
// every triangle with its vertex coordinates and the data interpolated at them.
func MarchingTetrahedraWithDataEmit[T Interpolator[T]](u []float64, data []T, dim [3]int, level float64, emit func(tri [3]r3.Vec, d [3]T)) error {
	if err := checkShape("field", len(u), dim[:]...); err != nil {
		return err
	}
	if err := checkShape("data", len(data), dim[:]...); err != nil {
		return err
	}
	var (
		verts [4]Pair[Vec3, T]
		nv    int
		faces [2][3]uint32
		nf    int
	)
	emitVertex := func(v Pair[Vec3, T]) {
		verts[nv] = v
		nv++
	}
	emitFace := func(f [3]uint32) {
		faces[nf] = f
		nf++
	}
	marchCubes(u, data, dim, level, 1, dim[0], func(_ *[3]int, us *[4]float64, vs *[4]Pair[Vec3, T]) {
		nv, nf = 0, 0
		Tetrahedron(*us, *vs, emitVertex, emitFace)
		for _, f := range faces[:nf] {
			a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
			emit([3]r3.Vec{r3.Vec(a.A), r3.Vec(b.A), r3.Vec(c.A)}, [3]T{a.B, b.B, c.B})
		}
	})
	return nil
}

// MarchingTetrahedraWithDataCube runs marching tetrahedra on a single axis
// aligned cube and linearly interpolates data at every vertex.
//
// corner is the cube corner with the smallest coordinates and size the cube's
// side length. u and data are ordered so that
//  - u[i] and u[i+4] are at corners differing in the x coordinate,
//  - u[i] and u[i+2] differ in the y coordinate,
//  - u[i] and u[i+1] differ in the z coordinate.
//
// emitVertex receives the vertex position, its flat normal and interpolated
// data. emitFace receives vertex indices offset by indexOffset, which should be
// the number of vertices emitted before this call.
func MarchingTetrahedraWithDataCube[T Interpolator[T]](corner r3.Vec, size float64, u [8]float64, level float64, data [8]T, indexOffset uint32, emitVertex func(pos, normal r3.Vec, d T), emitFace func([3]uint32)) {
	above := 0
	for _, v := range u {
		if v >= level {
			above++
		}
	}
	if above == 0 || above == 8 {
		return
	}
	var (
		us [4]float64
		vs [4]Pair[Vec3, T]
	)
	for p := range tetraPerms {
		perm := &tetraPerms[p]
		vi := 0
		vp := corner
		us[0] = u[vi] - level
		vs[0] = Pair[Vec3, T]{A: Vec3(vp), B: data[vi]}
		for m, axis := range perm {
			vi += 1 << (2 - axis)
			vp = d3.SetComp(vp, axis, d3.Comp(vp, axis)+size)
			us[m+1] = u[vi] - level
			vs[m+1] = Pair[Vec3, T]{A: Vec3(vp), B: data[vi]}
		}
		n := tetraNormal(perm, &us)
		cur := indexOffset
		Tetrahedron(us, vs, func(v Pair[Vec3, T]) {
			emitVertex(r3.Vec(v.A), n, v.B)
			indexOffset++
		}, func(f [3]uint32) {
			emitFace([3]uint32{f[0] + cur, f[1] + cur, f[2] + cur})
		})
	}
}

// marchCubes calls fn for the 6 tetrahedra of every grid cube crossed by the
// level set. Only cubes whose maximum corner index i is in [ilo, ihi) are
// visited. Samples passed to fn are shifted by level.
func marchCubes[T Interpolator[T]](u []float64, data []T, dim [3]int, level float64, ilo, ihi int, fn func(perm *[3]int, us *[4]float64, vs *[4]Pair[Vec3, T])) {
	ni, nj, nk := dim[0], dim[1], dim[2]
	if ni < 2 || nj < 2 || nk < 2 {
		return
	}
	strides := [3]int{nj * nk, nk, 1}
	// offsets of the cube corners from its minimum corner, x is the major bit.
	var offsets [8]int
	for c := range offsets {
		offsets[c] = (c>>2&1)*strides[0] + (c>>1&1)*strides[1] + (c&1)*strides[2]
	}
	var (
		us [4]float64
		vs [4]Pair[Vec3, T]
	)
	for i := max(ilo, 1); i < ihi; i++ {
		for j := 1; j < nj; j++ {
			for k := 1; k < nk; k++ {
				s := (i-1)*strides[0] + (j-1)*strides[1] + (k - 1)
				ps := r3.Vec{X: float64(i - 1), Y: float64(j - 1), Z: float64(k - 1)}
				above := 0
				for _, off := range offsets {
					if u[s+off] >= level {
						above++
					}
				}
				if above == 0 || above == 8 {
					continue
				}
				for p := range tetraPerms {
					perm := &tetraPerms[p]
					vi := s
					vp := ps
					us[0] = u[vi] - level
					vs[0] = Pair[Vec3, T]{A: Vec3(vp), B: data[vi]}
					for m, axis := range perm {
						vi += strides[axis]
						vp = d3.SetComp(vp, axis, d3.Comp(vp, axis)+1)
						us[m+1] = u[vi] - level
						vs[m+1] = Pair[Vec3, T]{A: Vec3(vp), B: data[vi]}
					}
					fn(perm, &us, &vs)
				}
			}
		}
	}
}

// tetraNormal returns the field difference along each tetrahedron edge walk
// step, placed back on the axis the step was taken along.
func tetraNormal(perm *[3]int, us *[4]float64) r3.Vec {
	var n r3.Vec
	for m, axis := range perm {
		n = d3.SetComp(n, axis, us[m+1]-us[m])
	}
	return n
}
