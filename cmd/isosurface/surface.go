package main

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form3"
	"github.com/soypat/isosurface/internal/d3"
	"github.com/soypat/isosurface/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// shape3 returns the SDF3 named by conf.Shape.
func shape3(conf config) (isosurface.SDF3, error) {
	switch conf.Shape {
	case "sphere":
		return form3.Sphere(conf.Radius)
	case "torus":
		return form3.Torus(conf.Radius, conf.Radius/3)
	case "box":
		return form3.Box(d3.Elem(2*conf.Radius), conf.Radius/5)
	case "dumbbell":
		return dumbbell(conf.Radius)
	}
	return nil, errors.Newf("unknown surface shape %q", conf.Shape)
}

// dumbbell joins two spheres of radius r/2 with a fillet.
func dumbbell(r float64) (isosurface.SDF3, error) {
	ball, err := form3.Sphere(r / 2)
	if err != nil {
		return nil, err
	}
	left, err := form3.Translate(ball, r3.Vec{X: -r / 2})
	if err != nil {
		return nil, err
	}
	right, err := form3.Translate(ball, r3.Vec{X: r / 2})
	if err != nil {
		return nil, err
	}
	return form3.SmoothUnion(form3.PolyMin(r/4), left, right)
}

// runSurface marches the configured shape and writes the mesh as STL.
func runSurface(conf config) error {
	s, err := shape3(conf)
	if err != nil {
		return errors.New("creating shape failed").WithTag("shape", conf.Shape).Wrap(err)
	}
	start := time.Now()
	var triangles int
	if conf.Workers == 0 {
		triangles, err = streamSurface(conf, s)
	} else {
		triangles, err = marchSurface(conf, s)
	}
	if err != nil {
		return err
	}
	logs.WithTag("output", conf.Output).
		WithTag("triangles", triangles).
		WithTag("elapsed", time.Since(start).String()).
		Info("surface written")

	if conf.Preview != "" {
		if err := renderPreview(conf.Output, conf.Preview, defaultView); err != nil {
			return errors.New("rendering preview failed").WithTag("preview", conf.Preview).Wrap(err)
		}
		logs.WithTag("preview", conf.Preview).Info("preview written")
	}
	return nil
}

// marchSurface samples s on the whole grid and marches it in parallel.
func marchSurface(conf config, s isosurface.SDF3) (int, error) {
	n := conf.Resolution
	grid := isosurface.Grid3{
		Box: r3.Box(d3.Box(s.Bounds()).ScaleAboutCenter(1.1)),
		Dim: [3]int{n, n, n},
	}
	u := grid.Sample(s.Evaluate)
	m, err := isosurface.MarchingTetrahedraParallel(u, grid.Dim, conf.Level, conf.Workers)
	if err != nil {
		return 0, errors.New("marching tetrahedra failed").Wrap(err)
	}
	if len(m.Faces) == 0 {
		return 0, errors.New("level set is empty").WithTag("level", conf.Level)
	}
	w := render.Weld(m, 1e-9)
	logs.WithTag("vertices", len(m.Vertices)).
		WithTag("welded_vertices", len(w.Vertices)).
		WithTag("watertight", w.Watertight()).
		WithTag("euler", w.EulerCharacteristic()).
		Debug("mesh topology")
	for i, v := range m.Vertices {
		m.Vertices[i] = grid.ToWorld(v)
	}
	if err := render.CreateSTL(conf.Output, render.NewMeshRenderer(m)); err != nil {
		return 0, errors.New("writing STL failed").WithTag("output", conf.Output).Wrap(err)
	}
	return len(m.Faces), nil
}

// streamSurface renders s plane by plane without holding the sampled grid.
// The grid renderer extracts the zero level set.
func streamSurface(conf config, s isosurface.SDF3) (int, error) {
	if conf.Level != 0 {
		logs.WithTag("level", conf.Level).Warn("streaming renderer ignores level, using 0")
	}
	gr, err := render.NewGridRenderer(s, conf.Resolution-1)
	if err != nil {
		return 0, errors.New("creating grid renderer failed").Wrap(err)
	}
	counter := &countingRenderer{r: gr}
	if err := render.CreateSTL(conf.Output, counter); err != nil {
		return 0, errors.New("writing STL failed").WithTag("output", conf.Output).Wrap(err)
	}
	return counter.n, nil
}

type countingRenderer struct {
	r render.Renderer
	n int
}

func (c *countingRenderer) ReadTriangles(dst []render.Triangle3) (int, error) {
	n, err := c.r.ReadTriangles(dst)
	c.n += n
	return n, err
}
