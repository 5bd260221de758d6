package main

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form2"
	"github.com/soypat/isosurface/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// shape2 returns the SDF2 named by conf.Shape.
func shape2(conf config) (isosurface.SDF2, error) {
	switch conf.Shape {
	case "circle":
		return form2.Circle(conf.Radius)
	case "annulus":
		return form2.Annulus(conf.Radius/2, conf.Radius)
	case "box":
		return form2.Box(r2.Vec{X: 2 * conf.Radius, Y: conf.Radius}, conf.Radius/5)
	}
	return nil, errors.Newf("unknown isoline shape %q", conf.Shape)
}

// runIsoline traces the isoline of the configured shape and plots it.
func runIsoline(conf config) error {
	s, err := shape2(conf)
	if err != nil {
		return errors.New("creating shape failed").WithTag("shape", conf.Shape).Wrap(err)
	}
	n := conf.Resolution
	grid := isosurface.Grid2{
		Box: r2.Box(d2.Box(s.Bounds()).ScaleAboutCenter(1.2)),
		Dim: [2]int{n, n},
	}
	iso, err := isosurface.MarchingTriangles(grid.Sample(s.Evaluate), grid.Dim, conf.Level)
	if err != nil {
		return errors.New("marching triangles failed").Wrap(err)
	}

	p := plot.New()
	p.Title.Text = "isoline of " + conf.Shape
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())
	closed := 0
	for c := 0; c < iso.Len(); c++ {
		comp := iso.Component(c)
		xys := make(plotter.XYs, len(comp))
		for i, v := range comp {
			w := grid.ToWorld(v)
			xys[i].X, xys[i].Y = w.X, w.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.New("creating plot line failed").WithTag("component", c).Wrap(err)
		}
		line.Color = plotutil.Color(c)
		p.Add(line)
		if iso.Closed(c) {
			closed++
		}
	}
	size := d2.Box(grid.Box).Size()
	width := 6 * vg.Inch
	height := vg.Length(math.Max(1, float64(width)*size.Y/size.X))
	if err := p.Save(width, height, conf.Output); err != nil {
		return errors.New("saving plot failed").WithTag("output", conf.Output).Wrap(err)
	}
	logs.WithTag("output", conf.Output).
		WithTag("components", iso.Len()).
		WithTag("closed", closed).
		WithTag("vertices", len(iso.Vertices)).
		Info("isoline plotted")
	return nil
}

// isolineLength returns the length of the level set of |p| on an n*n grid
// spanning [-0.5, 0.5], which approaches 2*pi*level as n grows.
func isolineLength(n int, level float64) (float64, error) {
	xs := isosurface.Linspace(-0.5, 0.5, n)
	u := make([]float64, 0, n*n)
	for _, x := range xs {
		for _, y := range xs {
			u = append(u, math.Hypot(x, y))
		}
	}
	var length float64
	err := isosurface.MarchingTrianglesWithDataEmit(u, make([]isosurface.Empty, len(u)), [2]int{n, n}, level,
		func(seg [2]r2.Vec, _ [2]isosurface.Empty) {
			length += r2.Norm(r2.Sub(seg[0], seg[1]))
		})
	if err != nil {
		return 0, err
	}
	return length / float64(n-1), nil
}

func runLength(conf config) error {
	length, err := isolineLength(conf.Resolution, conf.Level)
	if err != nil {
		return errors.New("measuring isoline failed").Wrap(err)
	}
	logs.WithTag("resolution", conf.Resolution).
		WithTag("level", conf.Level).
		WithTag("length", length).
		WithTag("expected", 2*math.Pi*conf.Level).
		Info("isoline length")
	return nil
}
