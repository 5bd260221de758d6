package isosurface

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// diskField samples |p|-r on an n*n grid spanning [-0.5, 0.5].
func diskField(n int, r float64) ([]float64, [2]int) {
	xs := Linspace(-0.5, 0.5, n)
	u := make([]float64, 0, n*n)
	for _, x := range xs {
		for _, y := range xs {
			u = append(u, math.Hypot(x, y)-r)
		}
	}
	return u, [2]int{n, n}
}

func TestIsolineDiskClosed(t *testing.T) {
	for _, n := range []int{5, 16, 33} {
		u, dim := diskField(n, 0.3)
		iso, err := MarchingTriangles(u, dim, 0)
		if err != nil {
			t.Fatal(err)
		}
		if iso.Len() != 1 {
			t.Fatalf("n=%d: got %d components, want 1", n, iso.Len())
		}
		if !iso.Closed(0) {
			t.Errorf("n=%d: disk contour is not closed", n)
		}
		center := float64(n-1) / 2
		rgrid := 0.3 * float64(n-1)
		comp := iso.Component(0)
		for _, p := range comp {
			d := r2.Norm(r2.Sub(p, r2.Vec{X: center, Y: center}))
			if math.Abs(d-rgrid) > 0.15*rgrid {
				t.Errorf("n=%d: point %v at distance %g from center, want %g", n, p, d, rgrid)
			}
		}
		// Consecutive points share a grid triangle.
		for i := 1; i < len(comp); i++ {
			if r2.Norm(r2.Sub(comp[i], comp[i-1])) > math.Sqrt2+1e-9 {
				t.Fatalf("n=%d: gap between points %d and %d", n, i-1, i)
			}
		}
	}
}

func TestIsolineAnnulus(t *testing.T) {
	const n = 40
	xs := Linspace(-0.5, 0.5, n)
	var u []float64
	for _, x := range xs {
		for _, y := range xs {
			u = append(u, math.Abs(math.Hypot(x, y)-0.3)-0.1)
		}
	}
	iso, err := MarchingTriangles(u, [2]int{n, n}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if iso.Len() != 2 {
		t.Fatalf("got %d components, want 2", iso.Len())
	}
	total := 0
	for c := 0; c < iso.Len(); c++ {
		if !iso.Closed(c) {
			t.Errorf("component %d not closed", c)
		}
		total += len(iso.Component(c))
	}
	if total != len(iso.Vertices) {
		t.Errorf("components cover %d of %d vertices", total, len(iso.Vertices))
	}
}

func TestIsolineOpen(t *testing.T) {
	const (
		n     = 16
		level = 0.05
	)
	xs := Linspace(-0.5, 0.5, n)
	var u []float64
	for _, x := range xs {
		for _, y := range xs {
			u = append(u, x+0.2*y)
		}
	}
	iso, err := MarchingTriangles(u, [2]int{n, n}, level)
	if err != nil {
		t.Fatal(err)
	}
	if iso.Len() != 1 {
		t.Fatalf("got %d components, want 1", iso.Len())
	}
	if iso.Closed(0) {
		t.Fatal("open curve reported closed")
	}
	comp := iso.Component(0)
	first, last := comp[0], comp[len(comp)-1]
	if math.Abs(math.Min(first.Y, last.Y)) > 1e-9 || math.Abs(math.Max(first.Y, last.Y)-(n-1)) > 1e-9 {
		t.Errorf("curve ends %v and %v do not lie on opposite boundaries", first, last)
	}
	// Points are ordered along the curve.
	for i := 1; i < len(comp); i++ {
		if comp[i].Y < comp[i-1].Y-1e-12 && first.Y < last.Y {
			t.Fatalf("points %d and %d out of order: %v, %v", i-1, i, comp[i-1], comp[i])
		}
		if comp[i].Y > comp[i-1].Y+1e-12 && first.Y > last.Y {
			t.Fatalf("points %d and %d out of order: %v, %v", i-1, i, comp[i-1], comp[i])
		}
	}
	// Every point lies on the level line of the linear field.
	for _, p := range comp {
		x := -0.5 + p.X/(n-1)
		y := -0.5 + p.Y/(n-1)
		if math.Abs(x+0.2*y-level) > 1e-9 {
			t.Errorf("point %v off the level line", p)
		}
	}
}

func TestIsolineArcLength(t *testing.T) {
	const (
		n     = 16
		level = 0.3
	)
	xs := Linspace(-0.5, 0.5, n)
	var u []float64
	for _, x := range xs {
		for _, y := range xs {
			u = append(u, math.Hypot(x, y))
		}
	}
	data := make([]Empty, len(u))
	var length float64
	var segments int
	err := MarchingTrianglesWithDataEmit(u, data, [2]int{n, n}, level, func(seg [2]r2.Vec, _ [2]Empty) {
		length += r2.Norm(r2.Sub(seg[0], seg[1]))
		segments++
	})
	if err != nil {
		t.Fatal(err)
	}
	length /= n - 1
	want := 2 * math.Pi * level
	if math.Abs(length-want) > 0.05*want {
		t.Errorf("got isoline length %g, want %g", length, want)
	}
	iso, err := MarchingTriangles(u, [2]int{n, n}, level)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(iso.Vertices) - iso.Len(); got != segments {
		t.Errorf("traced %d segments, emitted %d", got, segments)
	}
}

func TestIsolineDataLinear(t *testing.T) {
	u, dim := diskField(12, 0.25)
	data := make([]Vec2, len(u))
	for i := range data {
		data[i] = Vec2{X: float64(i / dim[1]), Y: float64(i % dim[1])}
	}
	var count int
	err := MarchingTrianglesWithDataEmit(u, data, dim, 0, func(seg [2]r2.Vec, d [2]Vec2) {
		count++
		for e := range seg {
			if math.Abs(seg[e].X-d[e].X) > 1e-12 || math.Abs(seg[e].Y-d[e].Y) > 1e-12 {
				t.Fatalf("data %v does not match position %v", d[e], seg[e])
			}
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Fatal("no segments emitted")
	}
}

func BenchmarkMarchingTriangles256(b *testing.B) {
	u, dim := diskField(256, 0.3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MarchingTriangles(u, dim, 0)
	}
}
