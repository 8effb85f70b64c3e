package rupture

import (
	"math"
	"testing"

	"github.com/soypat/rupture/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBlockMeshVertices(t *testing.T) {
	const tol = 1e-12
	// Lower wedge of the Pedernales figure: far face pushed
	// east by the block width.
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	const width, height = 10, 5
	s := r3.Scale(width, b.Strike)
	d := r3.Scale(height, b.Dip)
	lateral := r3.Vec{X: width}
	m := NewBlockMesh(r3.Vec{}, s, d, lateral)
	want := [8]r3.Vec{
		{},
		s,
		r3.Add(s, d),
		d,
		{X: width},
		{X: s.X + width, Y: s.Y, Z: s.Z},
		{X: s.X + width, Y: s.Y, Z: s.Z + d.Z},
		{X: width, Z: d.Z},
	}
	for i := range want {
		if !d3.EqualWithin(m.V[i], want[i], tol) {
			t.Errorf("p%d = %v, want %v", i+1, m.V[i], want[i])
		}
	}
	// Top edge of the far face is level with the near face top edge.
	if m.V[4].Z != m.V[0].Z || m.V[5].Z != m.V[1].Z {
		t.Errorf("far face top edge not level: %v %v", m.V[4], m.V[5])
	}
	// Far face is vertical.
	if m.V[6].X != m.V[5].X || m.V[6].Y != m.V[5].Y || m.V[7].X != m.V[4].X || m.V[7].Y != m.V[4].Y {
		t.Error("far face not vertical")
	}
}

func TestBlockMeshPure(t *testing.T) {
	b, err := NewBasis(47, 33, -120)
	if err != nil {
		t.Fatal(err)
	}
	anchor := r3.Vec{X: 1.5, Y: -2.25, Z: 0.1}
	s, d, l := r3.Scale(7, b.Strike), r3.Scale(3, b.Dip), r3.Scale(7, b.Lateral())
	m1 := NewBlockMesh(anchor, s, d, l)
	m2 := NewBlockMesh(anchor, s, d, l)
	if m1 != m2 {
		t.Fatal("identical inputs gave different vertex arrays")
	}
	for i := range m1.V {
		if math.Float64bits(m1.V[i].X) != math.Float64bits(m2.V[i].X) ||
			math.Float64bits(m1.V[i].Y) != math.Float64bits(m2.V[i].Y) ||
			math.Float64bits(m1.V[i].Z) != math.Float64bits(m2.V[i].Z) {
			t.Fatalf("vertex %d not bit identical", i)
		}
	}
}

func TestBlockTriangulation(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	m := NewBlockMesh(r3.Vec{}, r3.Scale(10, b.Strike), r3.Scale(5, b.Dip), r3.Scale(10, b.Lateral()))
	tris := m.Triangles()
	if len(tris) != 12 {
		t.Fatalf("got %d triangles, want 12", len(tris))
	}
	// Every edge of a closed triangulated shell is shared by exactly two faces.
	edges := make(map[[2]int]int)
	for _, f := range BlockFaces {
		for k := 0; k < 3; k++ {
			a, c := f[k], f[(k+1)%3]
			if a > c {
				a, c = c, a
			}
			edges[[2]int{a, c}]++
		}
	}
	for e, n := range edges {
		if n != 2 {
			t.Errorf("edge %v shared by %d faces", e, n)
		}
	}
	for i, tri := range tris {
		if tri.Degenerate(1e-9) {
			t.Errorf("triangle %d degenerate: %v", i, tri)
		}
	}
}

func TestBlockPair(t *testing.T) {
	const tol = 1e-12
	b, err := NewBasis(10, 60, 45)
	if err != nil {
		t.Fatal(err)
	}
	s, d, l := r3.Scale(10, b.Strike), r3.Scale(6, b.Dip), r3.Scale(10, b.Lateral())
	anchor := r3.Vec{X: 3, Y: 4, Z: -5}
	lower, upper := BlockPair(anchor, s, d, l)
	if lower != NewBlockMesh(anchor, s, d, l) {
		t.Error("lower block differs from NewBlockMesh")
	}
	// The band bottom edge is the lower block top edge.
	if !d3.EqualWithin(upper.V[3], lower.V[0], tol) || !d3.EqualWithin(upper.V[2], lower.V[1], tol) {
		t.Errorf("upper band does not sit on lower block: %v %v", upper.V[3], lower.V[0])
	}
	bandHeight := r3.Norm(r3.Sub(upper.V[3], upper.V[0]))
	if math.Abs(bandHeight-2) > tol {
		t.Errorf("band height %g, want a third of 6", bandHeight)
	}
	if !(upper.V[0].Z > lower.V[0].Z) {
		t.Error("upper band is not above the lower block")
	}
}

func TestBlockBounds(t *testing.T) {
	b, err := NewBasis(183, 75, 84)
	if err != nil {
		t.Fatal(err)
	}
	block := NewBlockMesh(r3.Vec{}, r3.Scale(10, b.Strike), r3.Scale(5, b.Dip), r3.Vec{X: 10})
	box := block.Bounds()
	for i, v := range block.V {
		if !box.Contains(v) {
			t.Errorf("p%d %v outside bounds %+v", i+1, v, box)
		}
	}
	if box.Max.Z != 0 || math.Abs(box.Min.Z-5*b.Dip.Z) > 1e-12 {
		t.Errorf("vertical extent [%g, %g], want [%g, 0]", box.Min.Z, box.Max.Z, 5*b.Dip.Z)
	}
	if !box.Contains(block.Centroid()) || !box.Contains(block.FarTopMidpoint()) {
		t.Error("centroid or far top midpoint outside bounds")
	}
}
