package rupture

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	pi  = math.Pi
	tau = 2 * pi
	// epsilon is the smallest vector norm accepted by normalization.
	epsilon = 1e-12
)

var (
	// ErrDegenerateGeometry is returned when a vector that must be normalized
	// has a near-zero or non-finite length.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrInvalidParameter is returned when an input is outside its valid domain.
	// It is returned before any sampling or mesh work is done.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// wrapDeg wraps an angle in degrees to [0, 360).
func wrapDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// unit normalizes v. name is used in the error message.
func unit(v r3.Vec, name string) (r3.Vec, error) {
	n := r3.Norm(v)
	if !(n > epsilon) || math.IsInf(n, 0) {
		return r3.Vec{}, fmt.Errorf("normalizing %s vector of norm %g: %w", name, n, ErrDegenerateGeometry)
	}
	return r3.Scale(1/n, v), nil
}

// Triangle is a 3D triangle in scene coordinates.
type Triangle [3]r3.Vec

// Normal returns the unit normal of the triangle following the
// right hand rule over its vertex order.
func (t Triangle) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if the triangle area is below tol.
func (t Triangle) Degenerate(tol float64) bool {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Norm(r3.Cross(e1, e2))/2 <= tol
}
