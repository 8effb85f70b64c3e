package render

import (
	"errors"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/rupture"
	"github.com/soypat/rupture/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Layer is a group of triangles drawn with a single color.
type Layer struct {
	Name      string
	Color     string // hex color, i.e. "#A0522D"
	Triangles []rupture.Triangle
}

// View configures the camera used by Preview. The scene is fitted to a
// bi-unit cube centered at the origin before drawing, so Eye is given in
// those normalized units, like a plotly scene camera.
type View struct {
	// where the camera/eye located at (point)
	Eye r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// output width and height in pixels
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples.
	Supersample int
	// vertical field of view in degrees
	FovY       float64
	Near, Far  float64
	Background string
}

// DefaultView returns a 960x540 view from eye looking at the scene center.
func DefaultView(eye r3.Vec) View {
	return View{
		Eye:         eye,
		Up:          r3.Vec{Z: 1},
		Width:       960,
		Height:      540,
		Supersample: 2,
		FovY:        30,
		Near:        0.1,
		Far:         100,
		Background:  "#FFFFFF",
	}
}

// Preview rasterizes the layers with a phong shader. Faces are not culled.
// When Up is parallel to Eye, as in a view from straight above, a coordinate
// axis perpendicular enough to Eye is used as up instead.
func Preview(layers []Layer, view View) (image.Image, error) {
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	bounds := d3.EmptyBox()
	for _, layer := range layers {
		for _, t := range layer.Triangles {
			bounds = bounds.Extend(d3.Set(t[:]).Bounds())
		}
	}
	if bounds.Empty() {
		return nil, errors.New("nothing to preview")
	}
	center := bounds.Center()
	extent := d3.Max(bounds.Size())
	if extent == 0 {
		extent = 1
	}
	fit := 2 / extent
	toView := func(v r3.Vec) fauxgl.Vector {
		v = r3.Scale(fit, r3.Sub(v, center))
		return fauxgl.V(v.X, v.Y, v.Z)
	}

	if r3.Norm(view.Eye) == 0 {
		return nil, errors.New("preview eye is at the scene center")
	}
	upv := view.Up
	if r3.Norm(r3.Cross(view.Eye, upv)) <= 1e-9*r3.Norm(view.Eye)*r3.Norm(upv) {
		// LookAt needs an up direction not parallel to the line of sight.
		upv = leastAligned(view.Eye)
	}
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		up     = fauxgl.V(upv.X, upv.Y, upv.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		aspect = float64(view.Width) / float64(view.Height)
	)
	matrix := fauxgl.LookAt(eye, fauxgl.V(0, 0, 0), up).Perspective(view.FovY, aspect, view.Near, view.Far)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	context.Cull = fauxgl.CullNone
	for _, layer := range layers {
		if len(layer.Triangles) == 0 {
			continue
		}
		tris := make([]*fauxgl.Triangle, len(layer.Triangles))
		for i, t := range layer.Triangles {
			tris[i] = fauxgl.NewTriangleForPoints(toView(t[0]), toView(t[1]), toView(t[2]))
		}
		shader := fauxgl.NewPhongShader(matrix, light, eye)
		shader.ObjectColor = fauxgl.HexColor(layer.Color)
		context.Shader = shader
		context.DrawMesh(fauxgl.NewTriangleMesh(tris))
	}
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// leastAligned returns the coordinate axis closest to perpendicular to v,
// preferring +Y on ties.
func leastAligned(v r3.Vec) r3.Vec {
	x, y, z := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case y <= x && y <= z:
		return r3.Vec{Y: 1}
	case x <= z:
		return r3.Vec{X: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	return fauxgl.SavePNG(path, img)
}
