package render

import (
	"errors"
	"image/color"
	"io"
	"math"

	"github.com/soypat/rupture"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// StereonetOptions configures Stereonet.
type StereonetOptions struct {
	Title string
	// Resolution is the number of samples along each side of the square
	// enclosing the projection circle.
	Resolution int
	// InvertColors draws dilatation filled instead of compression.
	InvertColors bool
	Fill         color.Color
}

// Stereonet draws the classic 2D beachball: a lower hemisphere equal-area
// (Schmidt) projection of the focal sphere with the compressional
// quadrants filled. East is right and north is up.
func Stereonet(mt rupture.MomentTensor, opts StereonetOptions) (*plot.Plot, error) {
	n := opts.Resolution
	if n < 2 {
		return nil, errors.New("stereonet resolution must be at least 2")
	}
	fill := opts.Fill
	if fill == nil {
		fill = color.RGBA{B: 255, A: 255}
	}
	filled := rupture.Compression
	if opts.InvertColors {
		filled = filled.Invert()
	}
	pts := stereonetSamples(mt, n, filled)

	p := plot.New()
	p.Title.Text = opts.Title
	p.HideAxes()
	if len(pts) > 0 {
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyle.Color = fill
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(1)
		p.Add(scatter)
	}
	outline := make(plotter.XYs, 361)
	for i := range outline {
		s, c := math.Sincos(rupture.DtoR(float64(i)))
		outline[i] = plotter.XY{X: c, Y: s}
	}
	line, err := plotter.NewLine(outline)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.Black
	p.Add(line)
	p.X.Min, p.X.Max = -1.05, 1.05
	p.Y.Min, p.Y.Max = -1.05, 1.05
	return p, nil
}

// stereonetSamples returns the points of an n×n grid over the projection
// disk whose direction has polarity filled.
func stereonetSamples(mt rupture.MomentTensor, n int, filled rupture.Polarity) plotter.XYs {
	var pts plotter.XYs
	step := 2 / float64(n-1)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x, y := -1+float64(j)*step, -1+float64(i)*step
			dir, ok := stereonetDirection(x, y)
			if !ok {
				continue
			}
			if mt.Polarity(dir) == filled {
				pts = append(pts, plotter.XY{X: x, Y: y})
			}
		}
	}
	return pts
}

// stereonetDirection returns the lower hemisphere unit vector projected to
// (x, y) on the unit equal-area disk.
func stereonetDirection(x, y float64) (r3.Vec, bool) {
	rho := math.Hypot(x, y)
	if rho > 1 {
		return r3.Vec{}, false
	}
	if rho == 0 {
		return r3.Vec{Z: -1}, true
	}
	// rho = √2·sin(θ/2) where θ is the angle from the downward vertical.
	theta := 2 * math.Asin(rho/math.Sqrt2)
	sint, cost := math.Sincos(theta)
	return r3.Vec{X: sint * x / rho, Y: sint * y / rho, Z: -cost}, true
}

// WriteStereonet encodes p as a square image of the given side length.
// format is one of the gonum/plot formats such as "png" or "svg".
func WriteStereonet(w io.Writer, p *plot.Plot, side vg.Length, format string) error {
	wt, err := p.WriterTo(side, side, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
