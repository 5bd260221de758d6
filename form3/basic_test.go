package form3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapeErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		err  error
	}{
		{"sphere", second(Sphere(0))},
		{"box size", second(Box(r3.Vec{X: 1, Y: -1, Z: 1}, 0))},
		{"box round", second(Box(r3.Vec{X: 1, Y: 1, Z: 1}, 0.6))},
		{"cylinder round", second(Cylinder(1, 0.5, 0.6))},
		{"torus", second(Torus(0.2, 0.3))},
	} {
		if test.err == nil {
			t.Errorf("%s: expected error for bad parameters", test.name)
		}
	}
}

func TestEvaluate(t *testing.T) {
	sphere, err := Sphere(1)
	if err != nil {
		t.Fatal(err)
	}
	box, err := Box(r3.Vec{X: 2, Y: 2, Z: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	cyl, err := Cylinder(2, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	torus, err := Torus(1, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		got  float64
		want float64
	}{
		{"sphere center", sphere.Evaluate(r3.Vec{}), -1},
		{"sphere outside", sphere.Evaluate(r3.Vec{X: 3}), 2},
		{"box face", box.Evaluate(r3.Vec{X: 1}), 0},
		{"box corner", box.Evaluate(r3.Vec{X: 2, Y: 2, Z: 1}), math.Sqrt2},
		{"cylinder center", cyl.Evaluate(r3.Vec{}), -1},
		{"cylinder top", cyl.Evaluate(r3.Vec{Z: 3}), 2},
		{"torus tube", torus.Evaluate(r3.Vec{X: 1}), -0.25},
		{"torus hole", torus.Evaluate(r3.Vec{}), 0.75},
	} {
		if math.Abs(test.got-test.want) > 1e-12 {
			t.Errorf("%s: got %g, want %g", test.name, test.got, test.want)
		}
	}
	bb := torus.Bounds()
	if bb.Max.X != 1.25 || bb.Max.Z != 0.25 {
		t.Errorf("bad torus bounds %+v", bb)
	}
}

func second[T any](_ T, err error) error { return err }
