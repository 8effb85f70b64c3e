package scene

import (
	"fmt"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// compassLift is the height of the compass above the surface.
	compassLift = 2
	// coastlineHalfWindow is the half size, in block widths, of the square
	// lon/lat window kept from the coastline.
	coastlineHalfWindow = 1.0
	// slipArrowScale is the slip arrow length relative to block width.
	slipArrowScale = 0.25
)

// Surface returns the elevation of the top edge of the fault plane at rest.
// The compass and coastline are drawn relative to it.
func (s *Scene) Surface() float64 {
	return s.Animation.Rest().Z
}

func (s *Scene) decorate(vertexLabels bool) {
	origin := s.Config.Origin()
	s.FaultPlane = s.Animation.FaultPlane()

	z := s.Surface() + compassLift
	s.NorthSouth = Polyline{
		Name:   "North-South",
		Points: []r3.Vec{{X: origin.X, Y: origin.Y - 3, Z: z}, {X: origin.X, Y: origin.Y + 2, Z: z}},
		Text:   []string{"S", "N"},
	}
	s.EastWest = Polyline{
		Name:   "West-East",
		Points: []r3.Vec{{X: origin.X - 2, Y: origin.Y, Z: z}, {X: origin.X + 2, Y: origin.Y, Z: z}},
		Text:   []string{"W", "E"},
	}
	s.NorthArrow = Arrow{
		Name:  "North",
		Tail:  s.NorthSouth.Points[1],
		Dir:   r3.Vec{Y: 1},
		Color: "red",
	}

	rest, _ := s.Animation.Frame(0)
	length := slipArrowScale * s.Config.Blocks.Width
	s.SlipArrows = [2]Arrow{
		{Name: "East slip", Tail: rest.EastLower.FarTopMidpoint(), Dir: r3.Scale(length, s.Basis.Slip), Color: "sienna"},
		{Name: "West slip", Tail: rest.WestLower.FarTopMidpoint(), Dir: r3.Scale(-length, s.Basis.Slip), Color: "seagreen"},
	}
	s.Labels = []Label{
		{Text: s.Config.Blocks.PlateA, Pos: rest.EastLower.Centroid()},
		{Text: s.Config.Blocks.PlateB, Pos: rest.WestLower.Centroid()},
	}
	if vertexLabels {
		for i, v := range rest.EastLower.V {
			s.VertexLabels = append(s.VertexLabels, Label{Text: fmt.Sprintf("p%d", i+1), Pos: v})
		}
		for i, v := range rest.WestLower.V {
			s.VertexLabels = append(s.VertexLabels, Label{Text: fmt.Sprintf("q%d", i+1), Pos: v})
		}
	}
}

// setCoastline clips mls around the event and lays it on the surface.
func (s *Scene) setCoastline(mls orb.MultiLineString) {
	ev := s.Config.Event
	window := CoastlineWindow(ev.Longitude, ev.Latitude, coastlineHalfWindow*s.Config.Blocks.Width)
	z := s.Surface()
	s.Coastline = s.Coastline[:0]
	for _, ls := range ClipCoastline(mls, window) {
		if len(ls) < 2 {
			continue
		}
		pts := make([]r3.Vec, len(ls))
		for i, p := range ls {
			pts[i] = r3.Vec{X: p.Lon(), Y: p.Lat(), Z: z}
		}
		s.Coastline = append(s.Coastline, Polyline{Name: "Coastline", Points: pts})
	}
}
