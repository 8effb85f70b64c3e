package rupture

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/rupture/internal/d3"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBasisOrthonormal(t *testing.T) {
	const tol = 1e-9
	for strike := -90.0; strike <= 450; strike += 37 {
		for dip := 1.0; dip <= 90; dip += 11 {
			for rake := -180.0; rake <= 180; rake += 29 {
				b, err := NewBasis(strike, dip, rake)
				if err != nil {
					t.Fatal(err)
				}
				for name, v := range map[string]r3.Vec{"strike": b.Strike, "dip": b.Dip, "normal": b.Normal, "slip": b.Slip} {
					if n := r3.Norm(v); math.Abs(n-1) > tol {
						t.Fatalf("%s(%g,%g,%g) norm = %g, want 1", name, strike, dip, rake, n)
					}
				}
				if d := r3.Dot(b.Normal, b.Strike); math.Abs(d) > tol {
					t.Errorf("normal·strike = %g for (%g,%g,%g)", d, strike, dip, rake)
				}
				if d := r3.Dot(b.Normal, b.Dip); math.Abs(d) > tol {
					t.Errorf("normal·dip = %g for (%g,%g,%g)", d, strike, dip, rake)
				}
				if d := r3.Dot(b.Normal, b.Slip); math.Abs(d) > tol {
					t.Errorf("slip not in fault plane: normal·slip = %g", d)
				}
				if !d3.EqualWithin(b.Normal, r3.Cross(b.Strike, b.Dip), tol) {
					t.Errorf("normal %v != strike × dip", b.Normal)
				}
			}
		}
	}
}

func TestBasisVerticalStrikeSlip(t *testing.T) {
	const tol = 1e-6
	for _, test := range []struct {
		strike, dip, rake float64
		normal, slip      r3.Vec
	}{
		// Fault trace along north, normal along east-west.
		{strike: 0, dip: 90, rake: 180, normal: r3.Vec{X: -1}, slip: r3.Vec{Y: -1}},
		// Fault trace along east, normal along north-south.
		{strike: 90, dip: 90, rake: 0, normal: r3.Vec{Y: 1}, slip: r3.Vec{X: 1}},
	} {
		b, err := NewBasis(test.strike, test.dip, test.rake)
		if err != nil {
			t.Fatal(err)
		}
		if !d3.EqualWithin(b.Normal, test.normal, tol) {
			t.Errorf("(%g,%g,%g) normal = %v, want %v", test.strike, test.dip, test.rake, b.Normal, test.normal)
		}
		if !d3.EqualWithin(b.Slip, test.slip, tol) {
			t.Errorf("(%g,%g,%g) slip = %v, want %v", test.strike, test.dip, test.rake, b.Slip, test.slip)
		}
		if !d3.EqualWithin(b.Dip, r3.Vec{Z: -1}, tol) {
			t.Errorf("vertical fault dip vector = %v", b.Dip)
		}
	}
}

func TestBasisDegenerate(t *testing.T) {
	for _, angles := range [][3]float64{
		{math.NaN(), 45, 90},
		{0, math.Inf(1), 90},
		{10, 45, math.NaN()},
	} {
		_, err := NewBasis(angles[0], angles[1], angles[2])
		if !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("NewBasis%v error = %v, want ErrDegenerateGeometry", angles, err)
		}
	}
}

func TestLateral(t *testing.T) {
	const tol = 1e-9
	for _, test := range []struct {
		strike, dip float64
		want        r3.Vec
	}{
		{strike: 0, dip: 60, want: r3.Vec{X: 1}},
		{strike: 180, dip: 60, want: r3.Vec{X: 1}},
		{strike: 90, dip: 45, want: r3.Vec{Y: 1}},
		{strike: 270, dip: 45, want: r3.Vec{Y: 1}},
		// Horizontal fault, falls back to strike × up.
		{strike: 0, dip: 0, want: r3.Vec{X: 1}},
	} {
		b, err := NewBasis(test.strike, test.dip, 0)
		if err != nil {
			t.Fatal(err)
		}
		got := b.Lateral()
		if !d3.EqualWithin(got, test.want, tol) {
			t.Errorf("strike=%g dip=%g lateral = %v, want %v", test.strike, test.dip, got, test.want)
		}
		if got.Z != 0 {
			t.Errorf("lateral not horizontal: %v", got)
		}
	}
}

func TestAuxiliaryPlane(t *testing.T) {
	const tol = 1e-6
	for _, plane := range []NodalPlane{
		{Strike: 183, Dip: 75, Rake: 84},
		{Strike: 30, Dip: 45, Rake: -60},
		{Strike: 300, Dip: 20, Rake: 150},
		{Strike: 0, Dip: 45, Rake: 90},
	} {
		b, err := NewBasis(plane.Strike, plane.Dip, plane.Rake)
		if err != nil {
			t.Fatal(err)
		}
		aux := b.AuxiliaryPlane()
		ba, err := NewBasis(aux.Strike, aux.Dip, aux.Rake)
		if err != nil {
			t.Fatal(err)
		}
		// Both nodal planes describe the same double couple.
		mt, mta := b.Tensor(), ba.Tensor()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if !scalar.EqualWithinAbs(mt.At(i, j), mta.At(i, j), tol) {
					t.Fatalf("%+v: tensor element (%d,%d) = %g, auxiliary %+v gives %g", plane, i, j, mt.At(i, j), aux, mta.At(i, j))
				}
			}
		}
		back := ba.AuxiliaryPlane()
		if !scalar.EqualWithinAbs(wrapDeg(back.Strike-plane.Strike+180), 180, tol) ||
			!scalar.EqualWithinAbs(back.Dip, plane.Dip, tol) ||
			!scalar.EqualWithinAbs(back.Rake, plane.Rake, tol) {
			t.Errorf("auxiliary round trip of %+v gave %+v", plane, back)
		}
	}
}

func TestAuxiliaryPlanePedernales(t *testing.T) {
	const tol = 0.5
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	aux := b.AuxiliaryPlane()
	want := NodalPlane{Strike: 340.9, Dip: 16.1, Rake: 111.3}
	if !scalar.EqualWithinAbs(aux.Strike, want.Strike, tol) ||
		!scalar.EqualWithinAbs(aux.Dip, want.Dip, tol) ||
		!scalar.EqualWithinAbs(aux.Rake, want.Rake, tol) {
		t.Errorf("auxiliary plane = %+v, want %+v", aux, want)
	}
}

func TestPrincipalAxes(t *testing.T) {
	const tol = 1e-6
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	p, tx, n := b.PrincipalAxes()
	mt := b.Tensor()
	for _, test := range []struct {
		name string
		axis Axis
		want float64
	}{
		{"P", p, -1},
		{"T", tx, 1},
		{"N", n, 0},
	} {
		if test.axis.Plunge < 0 || test.axis.Plunge > 90 {
			t.Errorf("%s plunge %g out of [0, 90]", test.name, test.axis.Plunge)
		}
		if got := mt.Radiation(axisVector(test.axis)); !scalar.EqualWithinAbs(got, test.want, tol) {
			t.Errorf("%s axis %+v radiation = %g, want %g", test.name, test.axis, got, test.want)
		}
	}
	if !scalar.EqualWithinAbs(tx.Trend, 101.39, 0.01) || !scalar.EqualWithinAbs(tx.Plunge, 59.57, 0.01) {
		t.Errorf("T axis = %+v", tx)
	}
	if !scalar.EqualWithinAbs(p.Trend, 268.12, 0.01) || !scalar.EqualWithinAbs(p.Plunge, 29.75, 0.01) {
		t.Errorf("P axis = %+v", p)
	}
}

// axisVector is the inverse of axisOf.
func axisVector(a Axis) r3.Vec {
	sint, cost := math.Sincos(DtoR(a.Trend))
	sinp, cosp := math.Sincos(DtoR(a.Plunge))
	return r3.Vec{X: sint * cosp, Y: cost * cosp, Z: -sinp}
}
