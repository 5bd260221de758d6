package form3

import (
	"math"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ isosurface.SDF3 = sphere{}
	_ isosurface.SDF3 = box{}
	_ isosurface.SDF3 = cylinder{}
	_ isosurface.SDF3 = torus{}
)

// Sphere (exact distance field)

type sphere struct {
	radius float64
}

// Sphere return an SDF3 for a sphere centered at the origin.
func Sphere(radius float64) (isosurface.SDF3, error) {
	if radius <= 0 {
		return nil, ErrMsg("radius <= 0")
	}
	return sphere{radius: radius}, nil
}

// Evaluate returns the minimum distance to a sphere.
func (s sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(p) - s.radius
}

// Bounds returns the bounding box for a sphere.
func (s sphere) Bounds() r3.Box {
	d := d3.Elem(s.radius)
	return r3.Box{Min: r3.Scale(-1, d), Max: d}
}

// Box (exact distance field)

type box struct {
	half  r3.Vec
	round float64
}

// Box return an SDF3 for a 3d box (rounded corners with round > 0).
func Box(size r3.Vec, round float64) (isosurface.SDF3, error) {
	switch {
	case size.X <= 0 || size.Y <= 0 || size.Z <= 0:
		return nil, ErrMsg("size <= 0")
	case round < 0:
		return nil, ErrMsg("round < 0")
	case 2*round > math.Min(size.X, math.Min(size.Y, size.Z)):
		return nil, ErrMsg("round too large for box size")
	}
	return box{half: r3.Scale(0.5, size), round: round}, nil
}

// Evaluate returns the minimum distance to a 3d box.
func (s box) Evaluate(p r3.Vec) float64 {
	q := r3.Sub(r3.Vec{X: math.Abs(p.X), Y: math.Abs(p.Y), Z: math.Abs(p.Z)}, r3.Sub(s.half, d3.Elem(s.round)))
	outside := r3.Norm(d3.MaxElem(q, r3.Vec{}))
	inside := math.Min(d3.Max(q), 0)
	return outside + inside - s.round
}

// Bounds returns the bounding box for a 3d box.
func (s box) Bounds() r3.Box {
	return r3.Box{Min: r3.Scale(-1, s.half), Max: s.half}
}

// Cylinder (exact distance field)

type cylinder struct {
	height float64 // half height minus rounding.
	radius float64 // radius minus rounding.
	round  float64
}

// Cylinder return an SDF3 for a cylinder along the z axis (rounded edges with round > 0).
func Cylinder(height, radius, round float64) (isosurface.SDF3, error) {
	switch {
	case radius <= 0:
		return nil, ErrMsg("radius <= 0")
	case round < 0:
		return nil, ErrMsg("round < 0")
	case round > radius:
		return nil, ErrMsg("round > radius")
	case height < 2*round:
		return nil, ErrMsg("height < 2 * round")
	}
	return cylinder{height: height/2 - round, radius: radius - round, round: round}, nil
}

// Evaluate returns the minimum distance to a cylinder.
func (s cylinder) Evaluate(p r3.Vec) float64 {
	d := sdfBox2d(r2.Vec{X: math.Hypot(p.X, p.Y), Y: p.Z}, r2.Vec{X: s.radius, Y: s.height})
	return d - s.round
}

// Bounds returns the bounding box for a cylinder.
func (s cylinder) Bounds() r3.Box {
	d := r3.Vec{X: s.radius + s.round, Y: s.radius + s.round, Z: s.height + s.round}
	return r3.Box{Min: r3.Scale(-1, d), Max: d}
}

// Torus (exact distance field)

type torus struct {
	major, minor float64
}

// Torus returns an SDF3 for a torus around the z axis. major is the distance
// from the center to the tube center and minor the tube radius.
func Torus(major, minor float64) (isosurface.SDF3, error) {
	switch {
	case minor <= 0:
		return nil, ErrMsg("minor radius <= 0")
	case major <= minor:
		return nil, ErrMsg("major radius <= minor radius")
	}
	return torus{major: major, minor: minor}, nil
}

// Evaluate returns the minimum distance to a torus.
func (s torus) Evaluate(p r3.Vec) float64 {
	return math.Hypot(math.Hypot(p.X, p.Y)-s.major, p.Z) - s.minor
}

// Bounds returns the bounding box for a torus.
func (s torus) Bounds() r3.Box {
	r := s.major + s.minor
	d := r3.Vec{X: r, Y: r, Z: s.minor}
	return r3.Box{Min: r3.Scale(-1, d), Max: d}
}
