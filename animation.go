package rupture

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MoveBlock selects which block is displaced during the animation.
type MoveBlock string

const (
	// MoveEast moves the east block along +slip and the west block along
	// -slip by the same amount.
	MoveEast MoveBlock = "east"
	// MoveWest keeps the east block at rest and moves the west block along -slip.
	MoveWest MoveBlock = "west"
	// MoveNone keeps both blocks at rest. Any unrecognised value behaves like
	// MoveNone.
	MoveNone MoveBlock = "none"
)

// Valid reports whether m is one of the recognised motion policies.
func (m MoveBlock) Valid() bool {
	return m == MoveEast || m == MoveWest || m == MoveNone
}

// AnimationParams configures Animate.
type AnimationParams struct {
	// Center is the fault plane center at rest.
	Center r3.Vec
	// Width is the block extent along strike, Height along dip.
	Width, Height float64
	// Steps is the number of frames. Must be positive.
	Steps int
	// Speed is the displacement per step along the slip vector.
	Speed float64
	Move  MoveBlock
}

func (p AnimationParams) validate() error {
	if p.Steps <= 0 {
		return fmt.Errorf("animation steps %d must be positive: %w", p.Steps, ErrInvalidParameter)
	}
	if !(p.Width > 0) || math.IsInf(p.Width, 0) {
		return fmt.Errorf("block width %g must be positive: %w", p.Width, ErrInvalidParameter)
	}
	if !(p.Height > 0) || math.IsInf(p.Height, 0) {
		return fmt.Errorf("block height %g must be positive: %w", p.Height, ErrInvalidParameter)
	}
	return nil
}

// Frame is the pose of both blocks at one animation step.
type Frame struct {
	Step       int
	EastAnchor r3.Vec
	WestAnchor r3.Vec

	EastLower BlockMesh
	EastUpper BlockMesh
	WestLower BlockMesh
	WestUpper BlockMesh
}

// Triangles returns the faces of the four blocks of the frame in the order
// east lower, east upper, west lower, west upper.
func (f Frame) Triangles() []Triangle {
	tris := make([]Triangle, 0, 4*len(BlockFaces))
	tris = append(tris, f.EastLower.Triangles()...)
	tris = append(tris, f.EastUpper.Triangles()...)
	tris = append(tris, f.WestLower.Triangles()...)
	tris = append(tris, f.WestUpper.Triangles()...)
	return tris
}

// Animation is a finite sequence of frames computed up front. It may be
// indexed in any order and read any number of times.
type Animation struct {
	params    AnimationParams
	slip      r3.Vec
	strikeVec r3.Vec
	dipVec    r3.Vec
	lateral   r3.Vec
	rest      r3.Vec
	frames    []Frame
}

// Animate computes all frames of the block animation for basis b.
func Animate(b Basis, p AnimationParams) (*Animation, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	a := &Animation{
		params:    p,
		slip:      b.Slip,
		strikeVec: r3.Scale(p.Width, b.Strike),
		dipVec:    r3.Scale(p.Height, b.Dip),
		lateral:   r3.Scale(p.Width, b.Lateral()),
	}
	a.rest = r3.Sub(r3.Sub(p.Center, r3.Scale(0.5, a.strikeVec)), r3.Scale(0.5, a.dipVec))
	a.frames = make([]Frame, p.Steps)
	for s := range a.frames {
		a.frames[s] = a.frame(s)
	}
	return a, nil
}

// anchors returns the p1 vertex of the east and west blocks at step s.
func (a *Animation) anchors(s int) (east, west r3.Vec) {
	if s == 0 {
		return a.rest, a.rest
	}
	disp := r3.Scale(float64(s)*a.params.Speed, a.slip)
	switch a.params.Move {
	case MoveEast:
		east = r3.Add(a.rest, disp)
		west = r3.Sub(east, r3.Scale(2, disp))
	case MoveWest:
		east = a.rest
		west = r3.Sub(a.rest, disp)
	default:
		east, west = a.rest, a.rest
	}
	return east, west
}

func (a *Animation) frame(s int) Frame {
	east, west := a.anchors(s)
	f := Frame{Step: s, EastAnchor: east, WestAnchor: west}
	f.EastLower, f.EastUpper = BlockPair(east, a.strikeVec, a.dipVec, a.lateral)
	f.WestLower, f.WestUpper = BlockPair(west, a.strikeVec, a.dipVec, r3.Scale(-1, a.lateral))
	return f
}

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// Frame returns the frame at step i.
func (a *Animation) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(a.frames) {
		return Frame{}, fmt.Errorf("frame %d out of range [0, %d): %w", i, len(a.frames), ErrInvalidParameter)
	}
	return a.frames[i], nil
}

// Frames returns a copy of all frames in step order.
func (a *Animation) Frames() []Frame {
	return append([]Frame(nil), a.frames...)
}

// Rest returns the anchor of both blocks at step 0.
func (a *Animation) Rest() r3.Vec { return a.rest }

// Params returns the parameters the animation was built with.
func (a *Animation) Params() AnimationParams { return a.params }

// FaultPlane returns the corners of the fault plane rectangle at rest,
// in the order p1, p2, p3, p4 of the block meshes.
func (a *Animation) FaultPlane() [4]r3.Vec {
	p1 := a.rest
	p2 := r3.Add(p1, a.strikeVec)
	return [4]r3.Vec{p1, p2, r3.Add(p2, a.dipVec), r3.Add(p1, a.dipVec)}
}
