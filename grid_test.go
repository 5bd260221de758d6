package isosurface_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form2"
	"github.com/soypat/isosurface/form3"
	"github.com/soypat/isosurface/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLinspace(t *testing.T) {
	got := isosurface.Linspace(-0.5, 0.5, 5)
	want := []float64{-0.5, -0.25, 0, 0.25, 0.5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if s := isosurface.Linspace(1, 2, 1); len(s) != 1 || s[0] != 1 {
		t.Errorf("single value linspace got %v", s)
	}
	if s := isosurface.Linspace(1, 2, 0); s != nil {
		t.Errorf("empty linspace got %v", s)
	}
}

func TestSampleSphereWatertight(t *testing.T) {
	s, err := form3.Sphere(0.8)
	if err != nil {
		t.Fatal(err)
	}
	grid := isosurface.Grid3{
		Box: r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}},
		Dim: [3]int{20, 20, 20},
	}
	u := grid.Sample(s.Evaluate)
	m, err := isosurface.MarchingTetrahedra(u, grid.Dim, 0)
	if err != nil {
		t.Fatal(err)
	}
	w := render.Weld(m, 1e-9)
	if !w.Watertight() {
		t.Error("sphere mesh is not watertight")
	}
	if got := w.EulerCharacteristic(); got != 2 {
		t.Errorf("got Euler characteristic %d, want 2", got)
	}
	for _, v := range w.Vertices {
		p := grid.ToWorld(v)
		if math.Abs(r3.Norm(p)-0.8) > 0.05 {
			t.Fatalf("vertex %v maps to %v, off the sphere", v, p)
		}
	}
}

func TestSample2(t *testing.T) {
	ring, err := form2.Annulus(0.2, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	// Sample2 spans the bounds exactly so the outer contour touches the border.
	u := isosurface.Sample2(ring, [2]int{3, 3})
	if len(u) != 9 {
		t.Fatalf("got %d samples, want 9", len(u))
	}
	if math.Abs(u[4]-0.2) > 1e-12 {
		t.Errorf("center sample got %g, want 0.2", u[4])
	}
	grid := isosurface.Grid2{
		Box: r2.Box{Min: r2.Vec{X: -0.5, Y: -0.5}, Max: r2.Vec{X: 0.5, Y: 0.5}},
		Dim: [2]int{40, 40},
	}
	iso, err := isosurface.MarchingTriangles(grid.Sample(ring.Evaluate), grid.Dim, 0)
	if err != nil {
		t.Fatal(err)
	}
	if iso.Len() != 2 {
		t.Fatalf("got %d annulus components, want 2", iso.Len())
	}
	for c := 0; c < iso.Len(); c++ {
		comp := iso.Component(c)
		r := r2.Norm(grid.ToWorld(comp[0]))
		if math.Abs(r-0.2) > 0.02 && math.Abs(r-0.4) > 0.02 {
			t.Errorf("component %d at radius %g", c, r)
		}
	}
}

func TestSample3Bounds(t *testing.T) {
	box, err := form3.Box(r3.Vec{X: 2, Y: 4, Z: 6}, 0)
	if err != nil {
		t.Fatal(err)
	}
	u := isosurface.Sample3(box, [3]int{3, 3, 3})
	if len(u) != 27 {
		t.Fatalf("got %d samples, want 27", len(u))
	}
	// Center node is 1 away from the nearest face, corners lie on the box.
	if math.Abs(u[13]+1) > 1e-12 {
		t.Errorf("center sample got %g, want -1", u[13])
	}
	if math.Abs(u[0]) > 1e-12 || math.Abs(u[26]) > 1e-12 {
		t.Errorf("corner samples got %g and %g, want 0", u[0], u[26])
	}
	g := isosurface.Grid3{Box: box.Bounds(), Dim: [3]int{3, 3, 3}}
	if sp := g.Spacing(); sp != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("got spacing %v", sp)
	}
	if p := g.ToWorld(r3.Vec{X: 2, Y: 2, Z: 2}); p != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("got world position %v", p)
	}
}

func TestGridNegativeDim(t *testing.T) {
	g3 := isosurface.Grid3{
		Box: r3.Box{Max: r3.Vec{X: 1, Y: 1, Z: 1}},
		Dim: [3]int{-2, -3, 4},
	}
	if g3.Len() != 0 {
		t.Errorf("got Grid3 length %d, want 0", g3.Len())
	}
	if u := g3.Sample(func(r3.Vec) float64 { return 1 }); len(u) != 0 {
		t.Errorf("got %d Grid3 samples, want 0", len(u))
	}
	g2 := isosurface.Grid2{
		Box: r2.Box{Max: r2.Vec{X: 1, Y: 1}},
		Dim: [2]int{-1, -1},
	}
	if g2.Len() != 0 {
		t.Errorf("got Grid2 length %d, want 0", g2.Len())
	}
	if u := g2.Sample(func(r2.Vec) float64 { return 1 }); len(u) != 0 {
		t.Errorf("got %d Grid2 samples, want 0", len(u))
	}
}

func ExampleMarchingTriangles() {
	disk, _ := form2.Circle(0.3)
	grid := isosurface.Grid2{
		Box: r2.Box{Min: r2.Vec{X: -0.5, Y: -0.5}, Max: r2.Vec{X: 0.5, Y: 0.5}},
		Dim: [2]int{16, 16},
	}
	iso, err := isosurface.MarchingTriangles(grid.Sample(disk.Evaluate), grid.Dim, 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(iso.Len(), iso.Closed(0))
	// Output:
	// 1 true
}
