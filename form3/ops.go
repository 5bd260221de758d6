package form3

import (
	"math"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// MinFunc blends two distances when joining shapes.
type MinFunc func(a, b float64) float64

// PolyMin returns a polynomial smooth minimum. A bigger k gives a bigger fillet.
func PolyMin(k float64) MinFunc {
	return func(a, b float64) float64 {
		h := math.Max(0, math.Min(1, 0.5+0.5*(b-a)/k))
		return b + h*(a-b) - k*h*(1-h)
	}
}

type union struct {
	sdf []isosurface.SDF3
	min MinFunc
	bb  r3.Box
}

// Union returns the union of two or more SDF3s. Distances are joined with
// math.Min unless SmoothUnion is used.
func Union(sdf ...isosurface.SDF3) (isosurface.SDF3, error) {
	return SmoothUnion(math.Min, sdf...)
}

// SmoothUnion returns the union of two or more SDF3s blended by min.
func SmoothUnion(min MinFunc, sdf ...isosurface.SDF3) (isosurface.SDF3, error) {
	if len(sdf) < 2 {
		return nil, ErrMsg("union requires at least 2 shapes")
	}
	if min == nil {
		return nil, ErrMsg("nil min function")
	}
	s := union{sdf: sdf, min: min}
	for i, x := range sdf {
		if x == nil {
			return nil, ErrMsg("nil shape in union")
		}
		bb := d3.Box(x.Bounds())
		if i == 0 {
			s.bb = r3.Box(bb)
			continue
		}
		s.bb = r3.Box(d3.Box(s.bb).Include(bb.Min).Include(bb.Max))
	}
	return &s, nil
}

// Evaluate returns the minimum distance to the union.
func (s *union) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box enclosing all joined shapes.
func (s *union) Bounds() r3.Box {
	return s.bb
}

type diff struct {
	s0, s1 isosurface.SDF3
}

// Difference returns s0 with s1 carved out of it.
func Difference(s0, s1 isosurface.SDF3) (isosurface.SDF3, error) {
	if s0 == nil || s1 == nil {
		return nil, ErrMsg("nil argument to difference")
	}
	return diff{s0: s0, s1: s1}, nil
}

func (s diff) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the minuend.
func (s diff) Bounds() r3.Box {
	return s.s0.Bounds()
}

type translate struct {
	sdf    isosurface.SDF3
	offset r3.Vec
}

// Translate returns s moved by offset.
func Translate(s isosurface.SDF3, offset r3.Vec) (isosurface.SDF3, error) {
	if s == nil {
		return nil, ErrMsg("nil argument to translate")
	}
	return translate{sdf: s, offset: offset}, nil
}

func (s translate) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(r3.Sub(p, s.offset))
}

func (s translate) Bounds() r3.Box {
	bb := s.sdf.Bounds()
	return r3.Box{Min: r3.Add(bb.Min, s.offset), Max: r3.Add(bb.Max, s.offset)}
}
