package form2

import (
	"errors"
	"math"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	_ isosurface.SDF2 = circle{}
	_ isosurface.SDF2 = box{}
	_ isosurface.SDF2 = annulus{}
)

// 2D Circle

// circle is the 2d signed distance object for a circle.
type circle struct {
	radius float64
}

// Circle returns the SDF2 for a 2d circle centered at the origin.
func Circle(radius float64) (isosurface.SDF2, error) {
	if radius <= 0 {
		return nil, errors.New("circle radius <= 0")
	}
	return circle{radius: radius}, nil
}

// Evaluate returns the minimum distance to a 2d circle.
func (s circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s circle) Bounds() r2.Box {
	d := d2.Elem(s.radius)
	return r2.Box{Min: r2.Scale(-1, d), Max: d}
}

// 2D Box (rounded corners with round > 0)

// box is the 2d signed distance object for a rectangular box.
type box struct {
	half  r2.Vec
	round float64
}

// Box returns a 2d box centered at the origin.
func Box(size r2.Vec, round float64) (isosurface.SDF2, error) {
	switch {
	case size.X <= 0 || size.Y <= 0:
		return nil, errors.New("box size <= 0")
	case round < 0:
		return nil, errors.New("box round < 0")
	case 2*round > math.Min(size.X, size.Y):
		return nil, errors.New("box round too large for size")
	}
	return box{half: r2.Scale(0.5, size), round: round}, nil
}

// Evaluate returns the minimum distance to a 2d box.
func (s box) Evaluate(p r2.Vec) float64 {
	q := r2.Sub(d2.AbsElem(p), r2.Sub(s.half, d2.Elem(s.round)))
	outside := r2.Norm(d2.MaxElem(q, r2.Vec{}))
	inside := math.Min(math.Max(q.X, q.Y), 0)
	return outside + inside - s.round
}

// Bounds returns the bounding box of a 2d box.
func (s box) Bounds() r2.Box {
	return r2.Box{Min: r2.Scale(-1, s.half), Max: s.half}
}

// 2D Annulus

type annulus struct {
	mid, halfWidth float64
}

// Annulus returns the SDF2 for the ring between two concentric circles.
// Its contour has two connected components.
func Annulus(inner, outer float64) (isosurface.SDF2, error) {
	if inner <= 0 || outer <= inner {
		return nil, errors.New("annulus needs 0 < inner < outer")
	}
	return annulus{mid: (inner + outer) / 2, halfWidth: (outer - inner) / 2}, nil
}

// Evaluate returns the minimum distance to the annulus.
func (s annulus) Evaluate(p r2.Vec) float64 {
	return math.Abs(r2.Norm(p)-s.mid) - s.halfWidth
}

// Bounds returns the bounding box of the annulus.
func (s annulus) Bounds() r2.Box {
	d := d2.Elem(s.mid + s.halfWidth)
	return r2.Box{Min: r2.Scale(-1, d), Max: d}
}
