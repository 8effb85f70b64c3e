package rupture

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Basis is the fault-local orthonormal frame of a fault plane.
// Scene axes are X east, Y north and Z up.
type Basis struct {
	// Input angles in degrees.
	StrikeDeg, DipDeg, RakeDeg float64

	// Strike is the horizontal unit vector along the fault trace,
	// measured clockwise from north.
	Strike r3.Vec
	// Dip points down the fault plane, perpendicular to Strike.
	Dip r3.Vec
	// Normal is unit(Strike × Dip).
	Normal r3.Vec
	// Slip lies in the fault plane at angle rake from Strike, towards Dip.
	Slip r3.Vec
}

// NewBasis builds the fault-local frame from strike, dip and rake in degrees.
// Angles are not range checked. An error wrapping ErrDegenerateGeometry is
// returned only when a vector cannot be normalized, which happens for
// non-finite input.
func NewBasis(strikeDeg, dipDeg, rakeDeg float64) (Basis, error) {
	sins, coss := math.Sincos(DtoR(strikeDeg))
	sind, cosd := math.Sincos(DtoR(dipDeg))
	sinr, cosr := math.Sincos(DtoR(rakeDeg))
	strike := r3.Vec{X: sins, Y: coss}
	dip := r3.Vec{X: coss * cosd, Y: -sins * cosd, Z: -sind}
	normal, err := unit(r3.Cross(strike, dip), "normal")
	if err != nil {
		return Basis{}, err
	}
	slip, err := unit(r3.Add(r3.Scale(cosr, strike), r3.Scale(sinr, dip)), "slip")
	if err != nil {
		return Basis{}, err
	}
	return Basis{
		StrikeDeg: strikeDeg,
		DipDeg:    dipDeg,
		RakeDeg:   rakeDeg,
		Strike:    strike,
		Dip:       dip,
		Normal:    normal,
		Slip:      slip,
	}, nil
}

// Lateral returns the horizontal unit vector pointing from the fault plane
// towards the east block. It is the horizontal projection of the normal,
// oriented to have a non-negative east component (north wins a tie).
// For horizontal faults the projection vanishes and Strike × Z is used.
func (b Basis) Lateral() r3.Vec {
	h := r3.Vec{X: b.Normal.X, Y: b.Normal.Y}
	n := r3.Norm(h)
	if n < epsilon {
		h = r3.Cross(b.Strike, r3.Vec{Z: 1})
		n = r3.Norm(h)
	}
	h = r3.Scale(1/n, h)
	if h.X < -epsilon || (math.Abs(h.X) <= epsilon && h.Y < 0) {
		h = r3.Scale(-1, h)
	}
	return h
}

// NodalPlane is a fault plane orientation in degrees.
type NodalPlane struct {
	Strike, Dip, Rake float64
}

// NodalPlane returns the input plane.
func (b Basis) NodalPlane() NodalPlane {
	return NodalPlane{Strike: b.StrikeDeg, Dip: b.DipDeg, Rake: b.RakeDeg}
}

// AuxiliaryPlane returns the second nodal plane of the double couple, the one
// whose normal is the slip vector and whose slip is the fault normal.
// Both planes produce the same moment tensor.
func (b Basis) AuxiliaryPlane() NodalPlane {
	return planeFromVectors(b.Slip, b.Normal)
}

// planeFromVectors inverts NewBasis for a plane given by its normal and slip.
// Strike is in [0, 360), dip in [0, 90] and rake in (-180, 180].
func planeFromVectors(normal, slip r3.Vec) NodalPlane {
	// NewBasis normals point downwards. Flipping both vectors
	// leaves the double couple unchanged.
	if normal.Z > 0 {
		normal = r3.Scale(-1, normal)
		slip = r3.Scale(-1, slip)
	}
	dip := math.Acos(math.Max(-1, math.Min(1, -normal.Z)))
	strike := math.Atan2(normal.Y, -normal.X)
	sins, coss := math.Sincos(strike)
	sind, cosd := math.Sincos(dip)
	strikeVec := r3.Vec{X: sins, Y: coss}
	dipVec := r3.Vec{X: coss * cosd, Y: -sins * cosd, Z: -sind}
	rake := math.Atan2(r3.Dot(slip, dipVec), r3.Dot(slip, strikeVec))
	return NodalPlane{
		Strike: wrapDeg(RtoD(strike)),
		Dip:    RtoD(dip),
		Rake:   RtoD(rake),
	}
}

// Axis is a line orientation in degrees. Trend is measured clockwise from
// north and plunge is positive downwards.
type Axis struct {
	Trend, Plunge float64
}

// PrincipalAxes returns the pressure, tension and null axes of the double
// couple defined by the basis.
func (b Basis) PrincipalAxes() (p, t, n Axis) {
	p = axisOf(r3.Sub(b.Slip, b.Normal))
	t = axisOf(r3.Add(b.Slip, b.Normal))
	n = axisOf(r3.Cross(b.Normal, b.Slip))
	return p, t, n
}

func axisOf(v r3.Vec) Axis {
	v = r3.Unit(v)
	if v.Z > 0 {
		v = r3.Scale(-1, v)
	}
	return Axis{
		Trend:  wrapDeg(RtoD(math.Atan2(v.X, v.Y))),
		Plunge: RtoD(math.Asin(math.Max(-1, math.Min(1, -v.Z)))),
	}
}
