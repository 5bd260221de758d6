package isosurface

import (
	"errors"
	"fmt"
	"math/bits"
)

// nudge is added to inside samples after classification so that on-level
// samples never produce a zero denominator during interpolation. It is tied
// to float64 precision.
const nudge = 1e-15

// tetraCase is the outcome of cutting a tetrahedron whose inside vertices
// (sample >= 0) are given by the bits of the table index.
type tetraCase struct {
	// edges holds (outside, inside) vertex pairs. One crossing vertex is
	// emitted per pair, in order.
	edges  [4][2]uint8
	nedges uint8
	nfaces uint8
}

// tetraFaces are the faces emitted for a case, relative to the emitted vertices.
// A single triangle uses the first face, a quadrilateral uses both.
var tetraFaces = [2][3]uint32{{0, 1, 2}, {2, 1, 3}}

var tetraTable = makeTetraTable()

func init() {
	if err := checkTetraTable(&tetraTable); err != nil {
		panic("bug: " + err.Error())
	}
}

// makeTetraTable enumerates every inside/outside combination of the 4 vertices
// of a tetrahedron and lists the edges crossed by the level set.
func makeTetraTable() (table [16]tetraCase) {
	for mask := range table {
		c := &table[mask]
		for o := 0; o < 4; o++ {
			if mask&(1<<o) != 0 {
				continue
			}
			for i := 0; i < 4; i++ {
				if mask&(1<<i) == 0 {
					continue
				}
				c.edges[c.nedges] = [2]uint8{uint8(o), uint8(i)}
				c.nedges++
			}
		}
		switch c.nedges {
		case 3:
			c.nfaces = 1
		case 4:
			c.nfaces = 2
		}
	}
	return table
}

// checkTetraTable verifies every sign pattern of a tetrahedron has a
// well formed outcome.
func checkTetraTable(table *[16]tetraCase) error {
	for mask, c := range table {
		inside := bits.OnesCount8(uint8(mask))
		wantEdges := inside * (4 - inside)
		if int(c.nedges) != wantEdges {
			return fmt.Errorf("tetrahedron mask %04b: got %d crossed edges, want %d", mask, c.nedges, wantEdges)
		}
		var wantFaces int
		switch wantEdges {
		case 3:
			wantFaces = 1
		case 4:
			wantFaces = 2
		}
		if int(c.nfaces) != wantFaces {
			return fmt.Errorf("tetrahedron mask %04b: got %d faces, want %d", mask, c.nfaces, wantFaces)
		}
		var seen [4][4]bool
		for _, e := range c.edges[:c.nedges] {
			o, i := e[0], e[1]
			if mask&(1<<o) != 0 || mask&(1<<i) == 0 {
				return fmt.Errorf("tetrahedron mask %04b: edge %v does not cross the level set", mask, e)
			}
			if seen[o][i] {
				return fmt.Errorf("tetrahedron mask %04b: duplicate edge %v", mask, e)
			}
			seen[o][i] = true
		}
		for _, f := range tetraFaces[:c.nfaces] {
			for _, idx := range f {
				if idx >= uint32(c.nedges) {
					return errors.New("tetrahedron face references a vertex that is not emitted")
				}
			}
		}
	}
	return nil
}

// Tetrahedron cuts a tetrahedron with the zero level set of the linear function
// given by samples u at vertices v. Vertices with u >= 0 are inside. Inside
// samples of the first three vertices are nudged by a tiny positive amount
// before interpolation, which resolves on-level samples toward the inside.
//
// Every crossing vertex is passed to emitVertex (0, 3 or 4 per call) and every
// triangle (0, 1 or 2 per call) is passed to emitFace as indices into the
// vertices emitted by this call.
func Tetrahedron[T Interpolator[T]](u [4]float64, v [4]T, emitVertex func(T), emitFace func([3]uint32)) {
	var mask int
	for m := 0; m < 3; m++ {
		if u[m] >= 0 {
			mask |= 1 << m
			u[m] += nudge
		}
	}
	if u[3] >= 0 {
		mask |= 1 << 3
	}
	c := &tetraTable[mask]
	for _, e := range c.edges[:c.nedges] {
		emitVertex(v[e[0]].Interpolate(v[e[1]], u[e[0]], u[e[1]]))
	}
	for _, f := range tetraFaces[:c.nfaces] {
		emitFace(f)
	}
}
