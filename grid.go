package isosurface

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate returns the signed distance to the surface, negative inside.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains the SDF3.
	Bounds() r3.Box
}

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate returns the signed distance to the contour, negative inside.
	Evaluate(p r2.Vec) float64
	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

// Linspace returns n evenly spaced values over the closed interval [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	s := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range s {
		s[i] = start + float64(i)*step
	}
	s[n-1] = stop
	return s
}

// Grid3 is a regular grid of Dim nodes spanning Box, the first and last node
// along each axis lying on the box faces.
type Grid3 struct {
	Box r3.Box
	Dim [3]int
}

// Len returns the number of grid nodes. Grids with a negative dimension have none.
func (g Grid3) Len() int {
	if g.Dim[0] < 0 || g.Dim[1] < 0 || g.Dim[2] < 0 {
		return 0
	}
	return g.Dim[0] * g.Dim[1] * g.Dim[2]
}

// Spacing returns the distance between adjacent nodes along each axis.
func (g Grid3) Spacing() r3.Vec {
	return r3.Vec{
		X: spacing(g.Box.Min.X, g.Box.Max.X, g.Dim[0]),
		Y: spacing(g.Box.Min.Y, g.Box.Max.Y, g.Dim[1]),
		Z: spacing(g.Box.Min.Z, g.Box.Max.Z, g.Dim[2]),
	}
}

// ToWorld maps grid coordinates, such as mesh vertices generated by marching
// tetrahedra, to positions inside Box.
func (g Grid3) ToWorld(p r3.Vec) r3.Vec {
	sp := g.Spacing()
	return r3.Vec{
		X: g.Box.Min.X + p.X*sp.X,
		Y: g.Box.Min.Y + p.Y*sp.Y,
		Z: g.Box.Min.Z + p.Z*sp.Z,
	}
}

// Sample evaluates f at every grid node and returns the samples in row-major order.
func (g Grid3) Sample(f func(r3.Vec) float64) []float64 {
	xs := Linspace(g.Box.Min.X, g.Box.Max.X, g.Dim[0])
	ys := Linspace(g.Box.Min.Y, g.Box.Max.Y, g.Dim[1])
	zs := Linspace(g.Box.Min.Z, g.Box.Max.Z, g.Dim[2])
	u := make([]float64, 0, g.Len())
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				u = append(u, f(r3.Vec{X: x, Y: y, Z: z}))
			}
		}
	}
	return u
}

// Sample3 samples s on a grid of dimensions dim spanning its bounds.
func Sample3(s SDF3, dim [3]int) []float64 {
	return Grid3{Box: s.Bounds(), Dim: dim}.Sample(s.Evaluate)
}

// Grid2 is the 2d analogue of Grid3.
type Grid2 struct {
	Box r2.Box
	Dim [2]int
}

// Len returns the number of grid nodes. Grids with a negative dimension have none.
func (g Grid2) Len() int {
	if g.Dim[0] < 0 || g.Dim[1] < 0 {
		return 0
	}
	return g.Dim[0] * g.Dim[1]
}

// Spacing returns the distance between adjacent nodes along each axis.
func (g Grid2) Spacing() r2.Vec {
	return r2.Vec{
		X: spacing(g.Box.Min.X, g.Box.Max.X, g.Dim[0]),
		Y: spacing(g.Box.Min.Y, g.Box.Max.Y, g.Dim[1]),
	}
}

// ToWorld maps grid coordinates, such as isoline vertices, to positions inside Box.
func (g Grid2) ToWorld(p r2.Vec) r2.Vec {
	sp := g.Spacing()
	return r2.Vec{
		X: g.Box.Min.X + p.X*sp.X,
		Y: g.Box.Min.Y + p.Y*sp.Y,
	}
}

// Sample evaluates f at every grid node and returns the samples in row-major order.
func (g Grid2) Sample(f func(r2.Vec) float64) []float64 {
	xs := Linspace(g.Box.Min.X, g.Box.Max.X, g.Dim[0])
	ys := Linspace(g.Box.Min.Y, g.Box.Max.Y, g.Dim[1])
	u := make([]float64, 0, g.Len())
	for _, x := range xs {
		for _, y := range ys {
			u = append(u, f(r2.Vec{X: x, Y: y}))
		}
	}
	return u
}

// Sample2 samples s on a grid of dimensions dim spanning its bounds.
func Sample2(s SDF2, dim [2]int) []float64 {
	return Grid2{Box: s.Bounds(), Dim: dim}.Sample(s.Evaluate)
}

func spacing(min, max float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return (max - min) / float64(n-1)
}
