package rupture

import (
	"errors"
	"testing"

	"github.com/soypat/rupture/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func pedernalesParams(move MoveBlock) AnimationParams {
	return AnimationParams{
		Center: r3.Vec{X: -79.922, Y: 0.382, Z: -21.5},
		Width:  10,
		Height: 5,
		Steps:  25,
		Speed:  0.1,
		Move:   move,
	}
}

func TestAnimateEast(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	p := pedernalesParams(MoveEast)
	a, err := Animate(b, p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != p.Steps {
		t.Fatalf("got %d frames, want %d", a.Len(), p.Steps)
	}
	rest := r3.Sub(r3.Sub(p.Center, r3.Scale(0.5*p.Width, b.Strike)), r3.Scale(0.5*p.Height, b.Dip))
	if !d3.EqualWithin(a.Rest(), rest, 1e-12) {
		t.Fatalf("rest anchor %v, want %v", a.Rest(), rest)
	}
	for s, f := range a.Frames() {
		if f.Step != s {
			t.Fatalf("frame %d has step %d", s, f.Step)
		}
		wantEast := r3.Add(a.Rest(), r3.Scale(float64(s)*p.Speed, b.Slip))
		if s == 0 {
			wantEast = a.Rest()
		}
		if f.EastAnchor != wantEast {
			t.Errorf("step %d east anchor %v, want %v", s, f.EastAnchor, wantEast)
		}
		if f.EastLower.V[0] != f.EastAnchor {
			t.Errorf("step %d east lower block not anchored at east anchor", s)
		}
		// Blocks separate symmetrically about the rest pose.
		mid := d3.Midpoint(f.EastAnchor, f.WestAnchor)
		if !d3.EqualWithin(mid, a.Rest(), 1e-12) {
			t.Errorf("step %d anchors not symmetric about rest: mid %v", s, mid)
		}
	}
	f0, err := a.Frame(0)
	if err != nil {
		t.Fatal(err)
	}
	if f0.EastAnchor != a.Rest() || f0.WestAnchor != a.Rest() {
		t.Error("step 0 is not the rest pose")
	}
}

func TestAnimateWest(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	p := pedernalesParams(MoveWest)
	a, err := Animate(b, p)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range a.Frames() {
		if f.EastAnchor != a.Rest() {
			t.Errorf("step %d east block moved", f.Step)
		}
		want := r3.Sub(a.Rest(), r3.Scale(float64(f.Step)*p.Speed, b.Slip))
		if !d3.EqualWithin(f.WestAnchor, want, 1e-12) {
			t.Errorf("step %d west anchor %v, want %v", f.Step, f.WestAnchor, want)
		}
	}
}

func TestAnimateNoMotion(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	for _, move := range []MoveBlock{MoveNone, "", "north", "EAST"} {
		a, err := Animate(b, pedernalesParams(move))
		if err != nil {
			t.Fatal(err)
		}
		frames := a.Frames()
		for _, f := range frames[1:] {
			if f.EastLower != frames[0].EastLower || f.WestUpper != frames[0].WestUpper {
				t.Errorf("move=%q: step %d differs from rest", move, f.Step)
			}
		}
		if move.Valid() != (move == MoveNone) {
			t.Errorf("move=%q Valid() = %v", move, move.Valid())
		}
	}
}

func TestAnimateSingleStep(t *testing.T) {
	b, err := NewBasis(0, 90, 180)
	if err != nil {
		t.Fatal(err)
	}
	p := pedernalesParams(MoveEast)
	p.Steps = 1
	a, err := Animate(b, p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 {
		t.Fatalf("got %d frames, want 1", a.Len())
	}
	f, _ := a.Frame(0)
	lateral := r3.Scale(p.Width, b.Lateral())
	lower, upper := BlockPair(a.Rest(), r3.Scale(p.Width, b.Strike), r3.Scale(p.Height, b.Dip), lateral)
	if f.EastLower != lower || f.EastUpper != upper {
		t.Error("single frame east blocks differ from rest geometry")
	}
	lower, upper = BlockPair(a.Rest(), r3.Scale(p.Width, b.Strike), r3.Scale(p.Height, b.Dip), r3.Scale(-1, lateral))
	if f.WestLower != lower || f.WestUpper != upper {
		t.Error("single frame west blocks differ from rest geometry")
	}
	if _, err := a.Frame(1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("out of range frame error = %v", err)
	}
}

func TestAnimateInvalid(t *testing.T) {
	b, err := NewBasis(0, 90, 180)
	if err != nil {
		t.Fatal(err)
	}
	for _, mod := range []func(*AnimationParams){
		func(p *AnimationParams) { p.Steps = 0 },
		func(p *AnimationParams) { p.Steps = -3 },
		func(p *AnimationParams) { p.Width = 0 },
		func(p *AnimationParams) { p.Height = -1 },
	} {
		p := pedernalesParams(MoveEast)
		mod(&p)
		a, err := Animate(b, p)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%+v: error = %v, want ErrInvalidParameter", p, err)
		}
		if a != nil {
			t.Errorf("%+v: got animation on error", p)
		}
	}
}

func TestAnimationRestartable(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Animate(b, pedernalesParams(MoveEast))
	if err != nil {
		t.Fatal(err)
	}
	first := a.Frames()
	first[3].EastAnchor = r3.Vec{X: 1e9}
	for i := a.Len() - 1; i >= 0; i-- {
		f, err := a.Frame(i)
		if err != nil {
			t.Fatal(err)
		}
		if f.Step != i {
			t.Fatalf("seek to %d returned step %d", i, f.Step)
		}
		if i == 3 && f.EastAnchor == first[3].EastAnchor {
			t.Fatal("Frames returned shared storage")
		}
	}
	if len(a.Frames()[5].Triangles()) != 48 {
		t.Error("frame does not have 48 triangles")
	}
	plane := a.FaultPlane()
	if plane[0] != a.Rest() {
		t.Error("fault plane does not start at rest anchor")
	}
	center := d3.Midpoint(plane[0], plane[2])
	if !d3.EqualWithin(center, a.Params().Center, 1e-12) {
		t.Errorf("fault plane center %v, want %v", center, a.Params().Center)
	}
}
