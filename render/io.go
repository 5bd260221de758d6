package render

import (
	"io"

	"github.com/soypat/isosurface"
	"gonum.org/v1/gonum/spatial/r3"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like io.ReadAll.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for err == nil {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// MeshTriangles returns the faces of m as triangles.
func MeshTriangles(m isosurface.Mesh) []Triangle3 {
	tris := make([]Triangle3, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = faceTriangle(m.Vertices, f)
	}
	return tris
}

func faceTriangle(vertices []r3.Vec, f [3]uint32) Triangle3 {
	return Triangle3{V: [3]r3.Vec{vertices[f[0]], vertices[f[1]], vertices[f[2]]}}
}

// meshRenderer streams the faces of an in-memory mesh.
type meshRenderer struct {
	m    isosurface.Mesh
	next int
}

// NewMeshRenderer returns a Renderer that reads the faces of m.
func NewMeshRenderer(m isosurface.Mesh) Renderer {
	return &meshRenderer{m: m}
}

func (mr *meshRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	for n < len(dst) && mr.next < len(mr.m.Faces) {
		dst[n] = faceTriangle(mr.m.Vertices, mr.m.Faces[mr.next])
		n++
		mr.next++
	}
	if mr.next == len(mr.m.Faces) {
		return n, io.EOF
	}
	return n, nil
}

type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t ...Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
