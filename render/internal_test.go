package render

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/soypat/isosurface"
	"github.com/soypat/isosurface/form3"
	"github.com/soypat/isosurface/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	s, err := form3.Sphere(1)
	if err != nil {
		t.Fatal(err)
	}
	gr, err := NewGridRenderer(s, 30)
	if err != nil {
		t.Fatal(err)
	}
	input, err := RenderAll(gr)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	output, err := ReadSTL(&b)
	if err != nil && !errors.Is(err, ErrNormalMismatch) && !errors.Is(err, ErrDegenerate) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestReadSTLBad(t *testing.T) {
	_, err := ReadSTL(bytes.NewReader(nil))
	if err == nil {
		t.Error("expected error reading empty STL")
	}
	var b bytes.Buffer
	err = WriteSTL(&b, []Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}})
	if err != nil {
		t.Fatal(err)
	}
	truncated := b.Bytes()[:b.Len()-10]
	_, err = ReadSTL(bytes.NewReader(truncated))
	if err == nil {
		t.Error("expected error reading truncated STL")
	}
	if err = WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
	b.Reset()
	err = WriteSTL(&b, []Triangle3{{V: [3]r3.Vec{{}, {}, {X: 1}}}})
	if err != nil {
		t.Fatal(err)
	}
	model, err := ReadSTL(&b)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected degenerate triangle error, got %v", err)
	}
	if len(model) != 1 {
		t.Errorf("degenerate triangle not returned, got %d triangles", len(model))
	}
}

func TestGridRendererSmallBuffer(t *testing.T) {
	s, _ := form3.Cylinder(1, 0.5, 0.1)
	gr, err := NewGridRenderer(s, 20)
	if err != nil {
		t.Fatal(err)
	}
	want, err := RenderAll(gr)
	if err != nil {
		t.Fatal(err)
	}
	gr, _ = NewGridRenderer(s, 20)
	var (
		buf   [1]Triangle3
		got   []Triangle3
		nt    int
		reads int
	)
	for err == nil {
		nt, err = gr.ReadTriangles(buf[:])
		got = append(got, buf[:nt]...)
		reads++
	}
	if err != io.EOF {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("triangles lost. got %d. want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("triangle %d differs between buffer sizes", i)
		}
	}
	if _, err := gr.ReadTriangles(nil); err == nil {
		t.Error("expected error reading into empty buffer")
	}
	if _, err := NewGridRenderer(s, 1); err == nil {
		t.Error("expected error for too few cells")
	}
}

func TestWeldMergesSharedEdge(t *testing.T) {
	// Two triangles of a unit square, each with its own copy of the diagonal.
	m := isosurface.Mesh{
		Vertices: []r3.Vec{
			{}, {X: 1}, {X: 1, Y: 1},
			{X: 1e-12}, {X: 1, Y: 1}, {Y: 1},
		},
		Faces: [][3]uint32{{0, 1, 2}, {3, 4, 5}},
	}
	w := Weld(m, 1e-9)
	if len(w.Vertices) != 4 {
		t.Fatalf("got %d welded vertices, want 4", len(w.Vertices))
	}
	edges := w.Edges()
	if len(edges) != 5 {
		t.Fatalf("got %d edges, want 5", len(edges))
	}
	shared := 0
	for _, count := range edges {
		if count == 2 {
			shared++
		}
	}
	if shared != 1 {
		t.Errorf("got %d shared edges, want 1", shared)
	}
	if w.Watertight() {
		t.Error("open square reported watertight")
	}
	if got := w.EulerCharacteristic(); got != 1 {
		t.Errorf("got Euler characteristic %d for a disk, want 1", got)
	}
	collapsed := Weld(isosurface.Mesh{
		Vertices: []r3.Vec{{}, {X: 1e-12}, {Y: 1}},
		Faces:    [][3]uint32{{0, 1, 2}},
	}, 1e-9)
	if len(collapsed.Faces) != 0 {
		t.Error("degenerate face not dropped")
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := Triangle3{V: [3]r3.Vec{{}, {X: 1}, {Y: 1}}}
	if n := tri.Normal(); !d3.EqualWithin(n, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("got normal %v, want +z", n)
	}
	if tri.Degenerate(1e-6) {
		t.Error("triangle wrongly degenerate")
	}
	tri.V[2] = tri.V[1]
	if !tri.Degenerate(1e-6) {
		t.Error("triangle with repeated vertex not degenerate")
	}
}
