package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/rupture"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer is a source of triangles. ReadTriangles fills dst and returns the
// number of triangles written. It returns io.EOF once exhausted.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (int, error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, 1<<8)
	buf := make([]ms3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// NewMeshRenderer returns a Renderer over a fixed set of triangles.
// The triangles are converted to single precision.
func NewMeshRenderer(model []rupture.Triangle) Renderer {
	buf := make([]ms3.Triangle, len(model))
	for i := range model {
		buf[i] = Triangle32(model[i])
	}
	return &meshRenderer{buf: buf}
}

// NewFrameRenderer returns a Renderer over the four blocks of an animation frame.
func NewFrameRenderer(f rupture.Frame) Renderer {
	return NewMeshRenderer(f.Triangles())
}

type meshRenderer struct {
	buf []ms3.Triangle
}

func (m *meshRenderer) ReadTriangles(dst []ms3.Triangle) (int, error) {
	if len(m.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(dst, m.buf)
	m.buf = m.buf[n:]
	return n, nil
}

// Triangle32 converts a scene triangle to single precision.
func Triangle32(t rupture.Triangle) ms3.Triangle {
	return ms3.Triangle{vec32(t[0]), vec32(t[1]), vec32(t[2])}
}

func vec32(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
