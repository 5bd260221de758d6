package d2

import "gonum.org/v1/gonum/spatial/r2"

// Box is a 2d bounding box.
type Box r2.Box

// CenteredBox creates a 2d box with a given center and size.
func CenteredBox(center, size r2.Vec) Box {
	size = MaxElem(size, r2.Vec{})
	half := r2.Scale(0.5, size)
	return Box{Min: r2.Sub(center, half), Max: r2.Add(center, half)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Center returns the center of a 2d box.
func (a Box) Center() r2.Vec {
	return r2.Add(a.Min, r2.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 2d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return CenteredBox(a.Center(), r2.Scale(k, a.Size()))
}
