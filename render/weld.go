package render

import (
	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface  = weldPoints{}
	_ kdtree.Comparable = weldPoint{}
	_ kdtree.SortSlicer = weldPlane{}
)

// IndexedMesh is a triangle mesh whose faces share vertices.
type IndexedMesh struct {
	Vertices []r3.Vec
	Faces    [][3]uint32
}

// Edge is an undirected mesh edge, V[0] < V[1].
type Edge struct {
	V [2]uint32
}

// Weld merges mesh vertices closer than tol to each other and returns the
// resulting indexed mesh. Faces left with repeated vertices are dropped.
// Marching tetrahedra emits each vertex once per tetrahedron so welding is
// needed to recover the mesh connectivity.
func Weld(m isosurface.Mesh, tol float64) IndexedMesh {
	if len(m.Vertices) == 0 {
		return IndexedMesh{}
	}
	pts := make(weldPoints, len(m.Vertices))
	for i, v := range m.Vertices {
		pts[i] = weldPoint{pos: v, idx: i}
	}
	tree := kdtree.New(pts, false) // pts is reordered.

	rep := make([]int, len(m.Vertices))
	for i := range rep {
		rep[i] = -1
	}
	var out IndexedMesh
	for i, v := range m.Vertices {
		if rep[i] >= 0 {
			continue
		}
		rep[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
		keep := kdtree.NewDistKeeper(tol * tol)
		tree.NearestSet(keep, weldPoint{pos: v, idx: i})
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			j := c.Comparable.(weldPoint).idx
			if rep[j] < 0 {
				rep[j] = rep[i]
			}
		}
	}
	for _, f := range m.Faces {
		wf := [3]uint32{uint32(rep[f[0]]), uint32(rep[f[1]]), uint32(rep[f[2]])}
		if wf[0] == wf[1] || wf[1] == wf[2] || wf[2] == wf[0] {
			continue
		}
		out.Faces = append(out.Faces, wf)
	}
	return out
}

// Edges returns the number of faces using each edge of the mesh.
// Every edge of a closed manifold mesh is used by exactly two faces.
func (m IndexedMesh) Edges() map[Edge]int {
	edges := make(map[Edge]int, 3*len(m.Faces)/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[Edge{V: [2]uint32{a, b}}]++
		}
	}
	return edges
}

// EulerCharacteristic returns V - E + F. It is 2 for a closed mesh of genus zero.
func (m IndexedMesh) EulerCharacteristic() int {
	return len(m.Vertices) - len(m.Edges()) + len(m.Faces)
}

// Watertight reports whether every edge of the mesh is shared by exactly two faces.
func (m IndexedMesh) Watertight() bool {
	for _, count := range m.Edges() {
		if count != 2 {
			return false
		}
	}
	return len(m.Faces) > 0
}

type weldPoint struct {
	pos r3.Vec
	idx int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a weldPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return d3.Comp(a.pos, int(d)) - d3.Comp(b.(weldPoint).pos, int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a weldPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a weldPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.pos, b.(weldPoint).pos))
}

type weldPoints []weldPoint

func (p weldPoints) Index(i int) kdtree.Comparable { return p[i] }

// Len returns the length of the list.
func (p weldPoints) Len() int { return len(p) }

// Pivot partitions the list based on the dimension specified.
func (p weldPoints) Pivot(d kdtree.Dim) int {
	plane := weldPlane{dim: int(d), points: p}
	return kdtree.Partition(plane, kdtree.MedianOfMedians(plane))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (p weldPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type weldPlane struct {
	dim    int
	points weldPoints
}

func (p weldPlane) Less(i, j int) bool {
	return d3.Comp(p.points[i].pos, p.dim) < d3.Comp(p.points[j].pos, p.dim)
}

func (p weldPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

func (p weldPlane) Len() int { return len(p.points) }

func (p weldPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
