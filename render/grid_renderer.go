package render

import (
	"errors"
	"io"
	"math"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// GridRenderer renders an SDF3 with marching tetrahedra on a regular grid.
// The grid is sampled one x plane at a time so memory use is proportional to
// the area of a plane and not the volume of the grid.
type GridRenderer struct {
	s    isosurface.SDF3
	grid isosurface.Grid3
	xs   []float64
	ys   []float64
	zs   []float64
	// planes holds the samples of the two x planes bounding the current slab.
	planes    [2][]float64
	next      int // next x plane to sample.
	unwritten triangle3Buffer
	verts     []r3.Vec
}

// NewGridRenderer returns a Renderer that marches s on a grid of cubic cells.
// The longest axis of the bounding box is split into cells cells.
func NewGridRenderer(s isosurface.SDF3, cells int) (*GridRenderer, error) {
	if cells < 2 {
		return nil, errors.New("grid renderer needs at least 2 cells")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds()).ScaleAboutCenter(1.01)
	size := bb.Size()
	resolution := d3.Max(size) / float64(cells)
	if resolution <= 0 || math.IsInf(resolution, 0) || math.IsNaN(resolution) {
		return nil, errors.New("bad SDF3 bounds")
	}
	var dim [3]int
	top := bb.Min
	for axis := 0; axis < 3; axis++ {
		n := max(1, int(math.Ceil(d3.Comp(size, axis)/resolution)))
		dim[axis] = n + 1
		top = d3.SetComp(top, axis, d3.Comp(bb.Min, axis)+float64(n)*resolution)
	}
	grid := isosurface.Grid3{Box: r3.Box{Min: bb.Min, Max: top}, Dim: dim}
	gr := &GridRenderer{
		s:    s,
		grid: grid,
		xs:   isosurface.Linspace(grid.Box.Min.X, grid.Box.Max.X, dim[0]),
		ys:   isosurface.Linspace(grid.Box.Min.Y, grid.Box.Max.Y, dim[1]),
		zs:   isosurface.Linspace(grid.Box.Min.Z, grid.Box.Max.Z, dim[2]),
	}
	gr.planes[0] = make([]float64, dim[1]*dim[2])
	gr.planes[1] = make([]float64, dim[1]*dim[2])
	return gr, nil
}

// Grid returns the grid the renderer samples the SDF3 on.
func (gr *GridRenderer) Grid() isosurface.Grid3 { return gr.grid }

// ReadTriangles writes triangles rendered from the model into dst.
func (gr *GridRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		return 0, errors.New("cannot write to empty triangle slice")
	}
	for n < len(dst) {
		if gr.unwritten.Len() > 0 {
			n += gr.unwritten.Read(dst[n:])
			continue
		}
		if gr.next == len(gr.xs) {
			return n, io.EOF
		}
		gr.marchPlane()
	}
	return n, nil
}

// marchPlane samples the next x plane and marches the slab of cubes between it
// and the previous plane, buffering the resulting triangles.
func (gr *GridRenderer) marchPlane() {
	gr.planes[0], gr.planes[1] = gr.planes[1], gr.planes[0]
	i := gr.next
	gr.next++
	nk := len(gr.zs)
	plane := gr.planes[1]
	for j, y := range gr.ys {
		for k, z := range gr.zs {
			plane[j*nk+k] = gr.s.Evaluate(r3.Vec{X: gr.xs[i], Y: y, Z: z})
		}
	}
	if i == 0 {
		return
	}
	resolution := gr.xs[1] - gr.xs[0]
	var (
		u    [8]float64
		data [8]isosurface.Empty
	)
	emitVertex := func(pos, _ r3.Vec, _ isosurface.Empty) {
		gr.verts = append(gr.verts, pos)
	}
	emitFace := func(f [3]uint32) {
		gr.unwritten.Write(faceTriangle(gr.verts, f))
	}
	for j := 1; j < len(gr.ys); j++ {
		for k := 1; k < nk; k++ {
			for c := range u {
				s := (j-1+c>>1&1)*nk + k - 1 + c&1
				u[c] = gr.planes[c>>2&1][s]
			}
			gr.verts = gr.verts[:0]
			corner := r3.Vec{X: gr.xs[i-1], Y: gr.ys[j-1], Z: gr.zs[k-1]}
			isosurface.MarchingTetrahedraWithDataCube(corner, resolution, u, 0, data, 0, emitVertex, emitFace)
		}
	}
}
