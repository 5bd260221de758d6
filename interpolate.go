package isosurface

import (
	"github.com/soypat/isosurface/internal/d2"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Interpolator is implemented by vertex payloads that can be linearly
// interpolated across a level set crossing.
//
// a and b are the (level shifted) field samples at the receiver and other.
// The result is the point where the linear interpolant of the samples vanishes:
//  x := a / (a - b)
//  result = (1-x)*receiver + x*other
// Callers guarantee a != b.
type Interpolator[T any] interface {
	Interpolate(other T, a, b float64) T
}

var (
	_ Interpolator[Scalar]             = Scalar(0)
	_ Interpolator[Vec2]               = Vec2{}
	_ Interpolator[Vec3]               = Vec3{}
	_ Interpolator[Empty]              = Empty{}
	_ Interpolator[Pair[Vec3, Scalar]] = Pair[Vec3, Scalar]{}
)

// Scalar is an interpolable float64.
type Scalar float64

// Interpolate implements Interpolator.
func (s Scalar) Interpolate(other Scalar, a, b float64) Scalar {
	x := a / (a - b)
	return Scalar((1-x)*float64(s) + x*float64(other))
}

// Vec2 is an interpolable 2D point.
type Vec2 r2.Vec

// Interpolate implements Interpolator.
func (v Vec2) Interpolate(other Vec2, a, b float64) Vec2 {
	return Vec2(d2.Lerp(r2.Vec(v), r2.Vec(other), a/(a-b)))
}

// Vec3 is an interpolable 3D point.
type Vec3 r3.Vec

// Interpolate implements Interpolator.
func (v Vec3) Interpolate(other Vec3, a, b float64) Vec3 {
	return Vec3(d3.Lerp(r3.Vec(v), r3.Vec(other), a/(a-b)))
}

// Empty is a payload carrying no data. Use it when only positions are needed.
type Empty struct{}

// Interpolate returns the receiver.
func (e Empty) Interpolate(Empty, float64, float64) Empty { return e }

// Pair composes two interpolable payloads, for example a position and
// user data. Both members are interpolated with the same weights.
type Pair[U Interpolator[U], V Interpolator[V]] struct {
	A U
	B V
}

// Interpolate implements Interpolator.
func (p Pair[U, V]) Interpolate(other Pair[U, V], a, b float64) Pair[U, V] {
	return Pair[U, V]{
		A: p.A.Interpolate(other.A, a, b),
		B: p.B.Interpolate(other.B, a, b),
	}
}
