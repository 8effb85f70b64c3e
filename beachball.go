package rupture

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// MomentTensor is the symmetric double-couple tensor
//
//	M = slip⊗normal + normal⊗slip
type MomentTensor struct {
	m *r3.Mat
}

// Tensor returns the moment tensor of the basis.
func (b Basis) Tensor() MomentTensor {
	s, n := b.Slip, b.Normal
	sv := [3]float64{s.X, s.Y, s.Z}
	nv := [3]float64{n.X, n.Y, n.Z}
	var data [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data[3*i+j] = sv[i]*nv[j] + nv[i]*sv[j]
		}
	}
	return MomentTensor{m: r3.NewMat(data[:])}
}

// At returns the tensor element at row i and column j.
func (mt MomentTensor) At(i, j int) float64 { return mt.m.At(i, j) }

// Radiation evaluates the quadratic form xᵀ·M·x.
func (mt MomentTensor) Radiation(x r3.Vec) float64 {
	v := [3]float64{x.X, x.Y, x.Z}
	var sum float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += v[i] * mt.m.At(i, j) * v[j]
		}
	}
	return sum
}

// Polarity classifies direction x. Negative radiation is compression.
func (mt MomentTensor) Polarity(x r3.Vec) Polarity {
	if mt.Radiation(x) < 0 {
		return Compression
	}
	return Dilatation
}

// Polarity is the first-motion class of a beachball sample. Its value is the
// color index used by renderers.
type Polarity uint8

const (
	Compression Polarity = iota
	Dilatation
)

// Invert returns the opposite polarity.
func (p Polarity) Invert() Polarity {
	if p == Compression {
		return Dilatation
	}
	return Compression
}

func (p Polarity) String() string {
	switch p {
	case Compression:
		return "compression"
	case Dilatation:
		return "dilatation"
	}
	return fmt.Sprintf("Polarity(%d)", uint8(p))
}

// BeachballParams configures NewBeachball.
type BeachballParams struct {
	Center r3.Vec
	// Radius of the sphere. Must be positive.
	Radius float64
	// Resolution is the number of samples along longitude and along
	// colatitude. Must be at least 2.
	Resolution int
	// InvertColors swaps the polarity of every sample.
	InvertColors bool
}

func (p BeachballParams) validate() error {
	if p.Resolution < 2 {
		return fmt.Errorf("beachball resolution %d less than 2: %w", p.Resolution, ErrInvalidParameter)
	}
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return fmt.Errorf("beachball radius %g must be positive: %w", p.Radius, ErrInvalidParameter)
	}
	return nil
}

// Beachball is a sphere sampled on a colatitude × longitude grid with each
// sample classified by the moment tensor.
type Beachball struct {
	Center     r3.Vec
	Radius     float64
	Resolution int
	// Points is indexed [colatitude][longitude]. Row 0 is the upper pole.
	Points [][]r3.Vec
	// Polarity has the same layout as Points.
	Polarity [][]Polarity
}

// NewBeachball samples the focal sphere of basis b. Both angular axes span
// their closed intervals, so the seam and poles are sampled more than once.
func NewBeachball(b Basis, p BeachballParams) (*Beachball, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	n := p.Resolution
	lon := floats.Span(make([]float64, n), 0, tau)
	colat := floats.Span(make([]float64, n), 0, pi)
	mt := b.Tensor()
	bb := &Beachball{
		Center:     p.Center,
		Radius:     p.Radius,
		Resolution: n,
		Points:     make([][]r3.Vec, n),
		Polarity:   make([][]Polarity, n),
	}
	for i, v := range colat {
		sinv, cosv := math.Sincos(v)
		points := make([]r3.Vec, n)
		polarity := make([]Polarity, n)
		for j, u := range lon {
			sinu, cosu := math.Sincos(u)
			x := r3.Vec{X: sinv * cosu, Y: sinv * sinu, Z: cosv}
			pol := mt.Polarity(x)
			if p.InvertColors {
				pol = pol.Invert()
			}
			polarity[j] = pol
			points[j] = r3.Add(p.Center, r3.Scale(p.Radius, x))
		}
		bb.Points[i] = points
		bb.Polarity[i] = polarity
	}
	return bb, nil
}

// Len returns the number of samples.
func (bb *Beachball) Len() int { return bb.Resolution * bb.Resolution }

// Triangles splits each grid cell into two triangles, dropping the zero-area
// ones at the poles. The polarity of each triangle is that of its first vertex.
func (bb *Beachball) Triangles() (tris []Triangle, polarity []Polarity) {
	n := bb.Resolution
	tris = make([]Triangle, 0, 2*(n-1)*(n-1))
	polarity = make([]Polarity, 0, cap(tris))
	tol := epsilon * bb.Radius * bb.Radius
	add := func(t Triangle, p Polarity) {
		if t.Degenerate(tol) {
			return
		}
		tris = append(tris, t)
		polarity = append(polarity, p)
	}
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			p00, p01 := bb.Points[i][j], bb.Points[i][j+1]
			p10, p11 := bb.Points[i+1][j], bb.Points[i+1][j+1]
			add(Triangle{p00, p10, p11}, bb.Polarity[i][j])
			add(Triangle{p00, p11, p01}, bb.Polarity[i][j])
		}
	}
	return tris, polarity
}
