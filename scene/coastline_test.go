package scene

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/soypat/rupture/internal/config"
)

func TestReadCoastlineCSV(t *testing.T) {
	const data = `# Ecuador coast
lon,lat
-80.1,0.9
-80.0,0.5
>
-80.4,-0.2
-80.5,-0.6
-80.9,-1.1
-81.0
`
	mls, err := ReadCoastlineCSV(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(mls) != 2 || len(mls[0]) != 2 || len(mls[1]) != 3 {
		t.Fatalf("got %v", mls)
	}
	if mls[1][2] != (orb.Point{-80.9, -1.1}) {
		t.Errorf("last point %v", mls[1][2])
	}
	if _, err := ReadCoastlineCSV(strings.NewReader("-80,north\n")); err == nil {
		t.Error("expected error on bad latitude")
	}
}

func TestReadCoastlineGeoJSON(t *testing.T) {
	const data = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[-80,0],[-79,1]]}},
{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[-81,-1],[-80,-1],[-80,0],[-81,-1]]]}},
{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[-80,0]}}
]}`
	mls, err := ReadCoastlineGeoJSON(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(mls) != 2 || len(mls[0]) != 2 || len(mls[1]) != 4 {
		t.Fatalf("got %v", mls)
	}
	if _, err := ReadCoastlineGeoJSON(strings.NewReader("{")); err == nil {
		t.Error("expected error on malformed geojson")
	}
}

func TestClipCoastline(t *testing.T) {
	b := CoastlineWindow(-80, 0, 1)
	mls := orb.MultiLineString{
		{{-85, 0}, {-80, 0}, {-79.5, 0.5}},
		{{-90, 10}, {-89, 11}},
	}
	got := ClipCoastline(mls, b)
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(got), got)
	}
	for _, p := range got[0] {
		if !b.Contains(p) {
			t.Errorf("point %v outside window %v", p, b)
		}
	}
	if mls[0][0] != (orb.Point{-85, 0}) {
		t.Error("input coastline modified")
	}
	if ClipCoastline(nil, b) != nil {
		t.Error("clipping nothing should return nil")
	}
}

func TestSceneCoastlineOnSurface(t *testing.T) {
	cfg := config.Default()
	cfg.Beachball.Resolution = 4
	mls := orb.MultiLineString{{{-100, 0.382}, {-79.922, 0.382}, {-79.5, 1}}}
	s, err := Assemble(context.Background(), cfg, WithCoastline(mls))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Coastline) != 1 {
		t.Fatalf("got %d coastline polylines, want 1", len(s.Coastline))
	}
	for _, p := range s.Coastline[0].Points {
		if p.Z != s.Surface() {
			t.Errorf("coastline point %v not on surface %g", p, s.Surface())
		}
		if p.X < -89.922-1e-9 {
			t.Errorf("coastline point %v outside window", p)
		}
	}
}
