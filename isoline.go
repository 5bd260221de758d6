package isosurface

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Isoline holds the connected components of a level set of a 2D field.
// Component c is Vertices[Starts[c]:Starts[c+1]], the last component ending
// at len(Vertices).
type Isoline struct {
	Vertices []r2.Vec
	Starts   []int
}

// Len returns the number of connected components.
func (iso Isoline) Len() int { return len(iso.Starts) }

// Component returns the ordered points of the c'th connected component.
func (iso Isoline) Component(c int) []r2.Vec {
	end := len(iso.Vertices)
	if c+1 < len(iso.Starts) {
		end = iso.Starts[c+1]
	}
	return iso.Vertices[iso.Starts[c]:end]
}

// Closed reports whether the c'th component is a closed curve. Open components
// end at the boundary of the sampled region.
func (iso Isoline) Closed(c int) bool {
	comp := iso.Component(c)
	return len(comp) > 1 && comp[0] == comp[len(comp)-1]
}

// Grid square layout. Vertex b of the square whose maximum node has linear
// index s is the node s - squareNode(b):
//  2 --e1-- 3
//  |      / |
//  e0  e2,e3 e5
//  | /      |
//  0 --e4-- 1
// Triangle {0,2,3} has edges e0, e1, e2 and triangle {0,1,3} has edges e3,
// e4, e5. The diagonal appears once per triangle.
var squareEdgeVerts = [6][2]int{
	{0, 2},
	{2, 3},
	{0, 3},
	{0, 3},
	{0, 1},
	{1, 3},
}

// squareCase lists the crossed edges of a square in connected pairs.
type squareCase struct {
	edges [4]uint8
	n     uint8
}

var squareTable = makeSquareTable()

func init() {
	if err := checkSquareTable(&squareTable); err != nil {
		panic("bug: " + err.Error())
	}
}

// makeSquareTable enumerates every inside/outside combination of the square
// corners, mask bit b being set when vertex b is inside.
func makeSquareTable() (table [16]squareCase) {
	for mask := range table {
		c := &table[mask]
		for e, ev := range squareEdgeVerts {
			if mask>>ev[0]&1 != mask>>ev[1]&1 {
				c.edges[c.n] = uint8(e)
				c.n++
			}
		}
	}
	return table
}

// checkSquareTable verifies each triangle of every square case is crossed by
// zero or two edges and that pairs do not straddle triangles.
func checkSquareTable(table *[16]squareCase) error {
	for mask, c := range table {
		if c.n%2 != 0 || c.n > 4 {
			return fmt.Errorf("square mask %04b: odd or excessive crossed edge count %d", mask, c.n)
		}
		for p := 0; p < int(c.n); p += 2 {
			if c.edges[p]/3 != c.edges[p+1]/3 {
				return fmt.Errorf("square mask %04b: edge pair %d,%d spans both triangles", mask, c.edges[p], c.edges[p+1])
			}
		}
		for tri := 0; tri < 2; tri++ {
			var count int
			for e := 3 * tri; e < 3*tri+3; e++ {
				ev := squareEdgeVerts[e]
				if mask>>ev[0]&1 != mask>>ev[1]&1 {
					count++
				}
			}
			if count != 0 && count != 2 {
				return fmt.Errorf("square mask %04b: triangle %d crossed by %d edges", mask, tri, count)
			}
		}
	}
	return nil
}

// edgeKey identifies a crossed triangle side: local edge e of square s.
type edgeKey struct {
	s, e int
}

// isolineGrid holds the grid being traced by marching triangles.
type isolineGrid struct {
	u     []float64
	nj    int
	level float64
}

// squareNode returns the offset of square vertex b from the square's maximum node.
func (g *isolineGrid) squareNode(b int) int {
	switch b {
	case 0:
		return g.nj + 1
	case 1:
		return 1
	case 2:
		return g.nj
	}
	return 0
}

func (g *isolineGrid) mask(s int) int {
	mask := 0
	for b := 3; b >= 0; b-- {
		mask <<= 1
		if g.u[s-g.squareNode(b)] >= g.level {
			mask |= 1
		}
	}
	return mask
}

// dual returns the key of the same physical side as seen from the square
// sharing it, or from the same square for the diagonal.
func (g *isolineGrid) dual(k edgeKey) edgeKey {
	switch k.e {
	case 0:
		return edgeKey{s: k.s - g.nj, e: 5}
	case 1:
		return edgeKey{s: k.s + 1, e: 4}
	case 2:
		return edgeKey{s: k.s, e: 3}
	case 3:
		return edgeKey{s: k.s, e: 2}
	case 4:
		return edgeKey{s: k.s - 1, e: 1}
	case 5:
		return edgeKey{s: k.s + g.nj, e: 0}
	}
	panic("bad square edge")
}

// nodes returns the linear indices of the endpoints of an edge.
func (g *isolineGrid) nodes(k edgeKey) (n1, n2 int) {
	ev := squareEdgeVerts[k.e]
	return k.s - g.squareNode(ev[0]), k.s - g.squareNode(ev[1])
}

// coord returns the grid coordinate of a node.
func (g *isolineGrid) coord(n int) Vec2 {
	return Vec2{X: float64(n / g.nj), Y: float64(n % g.nj)}
}

// crossing returns the point where the level set crosses an edge.
func (g *isolineGrid) crossing(k edgeKey) r2.Vec {
	n1, n2 := g.nodes(k)
	return r2.Vec(g.coord(n1).Interpolate(g.coord(n2), g.u[n1]-g.level, g.u[n2]-g.level))
}

// MarchingTriangles finds the isoline at level of the function sampled by u on
// a regular grid of dimensions dim, stored in row-major order:
//  u[i*dim[1] + j]
// The grid node (i, j) has coordinate (i, j). Each grid square is split in two
// triangles along its diagonal and the function is assumed linear on each.
//
// The returned error wraps ErrShapeMismatch if len(u) does not match dim.
func MarchingTriangles(u []float64, dim [2]int, level float64) (Isoline, error) {
	if err := checkShape("field", len(u), dim[:]...); err != nil {
		return Isoline{}, err
	}
	ni, nj := dim[0], dim[1]
	if ni < 2 || nj < 2 {
		return Isoline{}, nil
	}
	g := isolineGrid{u: u, nj: nj, level: level}
	edges := make(map[edgeKey]edgeKey)
	// order keeps traversal deterministic; map iteration is not.
	var order []edgeKey
	for i := 1; i < ni; i++ {
		for j := 1; j < nj; j++ {
			s := i*nj + j
			c := &squareTable[g.mask(s)]
			for p := 0; p < int(c.n); p += 2 {
				a := edgeKey{s: s, e: int(c.edges[p])}
				b := edgeKey{s: s, e: int(c.edges[p+1])}
				edges[a] = b
				edges[b] = a
				order = append(order, a)
			}
		}
	}

	var iso Isoline
	trace := func(next edgeKey) {
		for {
			other, ok := edges[next]
			if !ok {
				return
			}
			delete(edges, next)
			delete(edges, other)
			next = g.dual(other)
			iso.Vertices = append(iso.Vertices, g.crossing(next))
		}
	}
	for _, start := range order {
		if _, ok := edges[start]; !ok {
			continue // Consumed by a previous component.
		}
		begin := len(iso.Vertices)
		iso.Starts = append(iso.Starts, begin)
		iso.Vertices = append(iso.Vertices, g.crossing(start))
		trace(start)
		// An open curve has a second arm starting at the other side of start.
		start = g.dual(start)
		if _, ok := edges[start]; ok {
			slices.Reverse(iso.Vertices[begin:])
			trace(start)
		}
	}
	return iso, nil
}

// MarchingTrianglesWithDataEmit runs marching triangles without tracing
// components. emit is called once per isoline segment with the segment
// endpoints and data linearly interpolated at them. data is sampled on the same
// grid as u.
func MarchingTrianglesWithDataEmit[T Interpolator[T]](u []float64, data []T, dim [2]int, level float64, emit func(seg [2]r2.Vec, d [2]T)) error {
	if err := checkShape("field", len(u), dim[:]...); err != nil {
		return err
	}
	if err := checkShape("data", len(data), dim[:]...); err != nil {
		return err
	}
	ni, nj := dim[0], dim[1]
	if ni < 2 || nj < 2 {
		return nil
	}
	g := isolineGrid{u: u, nj: nj, level: level}
	crossing := func(k edgeKey) Pair[Vec2, T] {
		n1, n2 := g.nodes(k)
		v1 := Pair[Vec2, T]{A: g.coord(n1), B: data[n1]}
		v2 := Pair[Vec2, T]{A: g.coord(n2), B: data[n2]}
		return v1.Interpolate(v2, u[n1]-level, u[n2]-level)
	}
	for i := 1; i < ni; i++ {
		for j := 1; j < nj; j++ {
			s := i*nj + j
			c := &squareTable[g.mask(s)]
			for p := 0; p < int(c.n); p += 2 {
				a := crossing(edgeKey{s: s, e: int(c.edges[p])})
				b := crossing(edgeKey{s: s, e: int(c.edges[p+1])})
				emit([2]r2.Vec{r2.Vec(a.A), r2.Vec(b.A)}, [2]T{a.B, b.B})
			}
		}
	}
	return nil
}
