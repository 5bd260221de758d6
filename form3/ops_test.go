package form3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestOps(t *testing.T) {
	a, _ := Sphere(1)
	b, err := Translate(a, r3.Vec{X: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	u, err := Union(a, b)
	if err != nil {
		t.Fatal(err)
	}
	smooth, err := SmoothUnion(PolyMin(0.5), a, b)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Difference(a, b)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		got  float64
		want float64
	}{
		{"translated center", b.Evaluate(r3.Vec{X: 1.5}), -1},
		{"union left", u.Evaluate(r3.Vec{X: -2}), 1},
		{"union right", u.Evaluate(r3.Vec{X: 3.5}), 1},
		{"difference inside", d.Evaluate(r3.Vec{X: -0.5}), -0.5},
		{"difference carved", d.Evaluate(r3.Vec{X: 0.75}), 0.25},
	} {
		if math.Abs(test.got-test.want) > 1e-12 {
			t.Errorf("%s: got %g, want %g", test.name, test.got, test.want)
		}
	}
	// The fillet fills the neck between both spheres.
	neck := r3.Vec{X: 0.75, Y: 0.7}
	if smooth.Evaluate(neck) >= u.Evaluate(neck) {
		t.Errorf("smooth union %g not below union %g", smooth.Evaluate(neck), u.Evaluate(neck))
	}
	bb := u.Bounds()
	if bb.Min.X != -1 || bb.Max.X != 2.5 || bb.Max.Y != 1 {
		t.Errorf("bad union bounds %+v", bb)
	}
	if _, err := Union(a); err == nil {
		t.Error("expected error for single shape union")
	}
	if _, err := Difference(a, nil); err == nil {
		t.Error("expected error for nil difference argument")
	}
}
