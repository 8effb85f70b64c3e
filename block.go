package rupture

import (
	"github.com/soypat/rupture/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// BlockFaces is the triangulation shared by every BlockMesh. Indices are
// 0-based into BlockMesh.V. Winding is not consistently outward.
var BlockFaces = [12][3]int{
	{0, 1, 2}, {0, 2, 3}, // near face, on the fault plane
	{4, 5, 6}, {4, 6, 7}, // far face
	{0, 1, 5}, {0, 5, 4}, // top
	{1, 2, 6}, {1, 6, 5},
	{2, 3, 7}, {2, 7, 6}, // bottom
	{3, 0, 4}, {3, 4, 7},
}

// BlockMesh is a hexahedral rock block. V holds p1..p8:
//
//	p1 anchor          p5 = p1 + lateral
//	p2 = p1 + strike   p6 = p2 + lateral
//	p3 = p2 + dip      p7 = p6 lowered by the depth of dip
//	p4 = p1 + dip      p8 = p5 lowered by the depth of dip
type BlockMesh struct {
	V [8]r3.Vec
}

// NewBlockMesh builds a block whose near face p1..p4 lies on the fault
// plane and whose far face is vertical with its top edge level with p1-p2.
// strikeVec and dipVec are the unit basis vectors already scaled by block
// width and height, lateral is the horizontal offset of the far face.
func NewBlockMesh(anchor, strikeVec, dipVec, lateral r3.Vec) BlockMesh {
	var b BlockMesh
	drop := r3.Vec{Z: dipVec.Z}
	b.V[0] = anchor
	b.V[1] = r3.Add(b.V[0], strikeVec)
	b.V[2] = r3.Add(b.V[1], dipVec)
	b.V[3] = r3.Add(b.V[0], dipVec)
	b.V[4] = r3.Add(b.V[0], lateral)
	b.V[5] = r3.Add(b.V[1], lateral)
	b.V[6] = r3.Add(b.V[5], drop)
	b.V[7] = r3.Add(b.V[4], drop)
	return b
}

// BlockPair builds the full height lower block at anchor and the thin upper
// band above it. The band is a third of the height and sits one band height
// up the fault plane so its bottom edge is the lower block's top edge.
func BlockPair(anchor, strikeVec, dipVec, lateral r3.Vec) (lower, upper BlockMesh) {
	band := r3.Scale(1.0/3, dipVec)
	lower = NewBlockMesh(anchor, strikeVec, dipVec, lateral)
	upper = NewBlockMesh(r3.Sub(anchor, band), strikeVec, band, lateral)
	return lower, upper
}

// Triangles returns the 12 faces of the block.
func (b BlockMesh) Triangles() []Triangle {
	tris := make([]Triangle, len(BlockFaces))
	for i, f := range BlockFaces {
		tris[i] = Triangle{b.V[f[0]], b.V[f[1]], b.V[f[2]]}
	}
	return tris
}

// Centroid returns the mean of the 8 vertices.
func (b BlockMesh) Centroid() r3.Vec {
	var c r3.Vec
	for _, v := range b.V {
		c = r3.Add(c, v)
	}
	return r3.Scale(1.0/8, c)
}

// FarTopMidpoint returns the midpoint of the p5-p6 edge.
func (b BlockMesh) FarTopMidpoint() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.V[4], b.V[5]))
}

// Bounds returns the axis aligned bounding box of the block.
func (b BlockMesh) Bounds() d3.Box {
	return d3.Set(b.V[:]).Bounds()
}
