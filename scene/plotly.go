package scene

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/soypat/rupture"
	"gonum.org/v1/gonum/spatial/r3"
)

// Trace names. Frames refer to the block traces by these names.
const (
	TraceBeachball  = "Beachball"
	TraceFaultPlane = "Fault plane"
	TraceEastLower  = "East block"
	TraceEastUpper  = "East band"
	TraceWestLower  = "West block"
	TraceWestUpper  = "West band"
)

// figure is the plotly figure document.
type figure struct {
	Data   []trace     `json:"data"`
	Layout layout      `json:"layout"`
	Frames []frameJSON `json:"frames"`
}

type trace struct {
	Type         string      `json:"type"`
	Name         string      `json:"name"`
	X            any         `json:"x,omitempty"`
	Y            any         `json:"y,omitempty"`
	Z            any         `json:"z,omitempty"`
	I            []int       `json:"i,omitempty"`
	J            []int       `json:"j,omitempty"`
	K            []int       `json:"k,omitempty"`
	U            []float64   `json:"u,omitempty"`
	V            []float64   `json:"v,omitempty"`
	W            []float64   `json:"w,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	Text         []string    `json:"text,omitempty"`
	TextPosition string      `json:"textposition,omitempty"`
	Line         *lineStyle  `json:"line,omitempty"`
	Color        string      `json:"color,omitempty"`
	Opacity      float64     `json:"opacity,omitempty"`
	SurfaceColor [][]float64 `json:"surfacecolor,omitempty"`
	Colorscale   [][2]any    `json:"colorscale,omitempty"`
	CMin         *float64    `json:"cmin,omitempty"`
	CMax         *float64    `json:"cmax,omitempty"`
	ShowScale    *bool       `json:"showscale,omitempty"`
	SizeMode     string      `json:"sizemode,omitempty"`
	SizeRef      float64     `json:"sizeref,omitempty"`
	Anchor       string      `json:"anchor,omitempty"`
}

type lineStyle struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type frameJSON struct {
	Name   string  `json:"name"`
	Data   []trace `json:"data"`
	Traces []int   `json:"traces"`
}

type layout struct {
	Title       title        `json:"title"`
	ShowLegend  bool         `json:"showlegend"`
	Scene       sceneLayout  `json:"scene"`
	Annotations []annotation `json:"annotations"`
	UpdateMenus []updateMenu `json:"updatemenus"`
	Meta        meta         `json:"meta"`
}

type meta struct {
	SceneID string `json:"scene_id"`
}

type title struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Font font    `json:"font"`
}

type font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size"`
}

type axis struct {
	Title          string `json:"title"`
	ShowTickLabels *bool  `json:"showticklabels,omitempty"`
}

type camera struct {
	Eye xyz `json:"eye"`
}

type xyz struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type sceneLayout struct {
	XAxis       axis         `json:"xaxis"`
	YAxis       axis         `json:"yaxis"`
	ZAxis       axis         `json:"zaxis"`
	AspectMode  string       `json:"aspectmode"`
	Camera      camera       `json:"camera"`
	Annotations []annotation `json:"annotations"`
}

type annotation struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Z           *float64 `json:"z,omitempty"`
	XRef        string   `json:"xref,omitempty"`
	YRef        string   `json:"yref,omitempty"`
	Text        string   `json:"text"`
	ShowArrow   bool     `json:"showarrow"`
	Align       string   `json:"align,omitempty"`
	Font        font     `json:"font"`
	BorderColor string   `json:"bordercolor,omitempty"`
	BorderWidth int      `json:"borderwidth,omitempty"`
	BgColor     string   `json:"bgcolor,omitempty"`
	Opacity     float64  `json:"opacity,omitempty"`
}

type updateMenu struct {
	Type       string   `json:"type"`
	ShowActive bool     `json:"showactive"`
	Buttons    []button `json:"buttons"`
}

type button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

func ptr[T any](v T) *T { return &v }

func splitXYZ(pts []r3.Vec) (x, y, z []float64) {
	x, y, z = make([]float64, len(pts)), make([]float64, len(pts)), make([]float64, len(pts))
	for i, p := range pts {
		x[i], y[i], z[i] = p.X, p.Y, p.Z
	}
	return x, y, z
}

func meshTrace(name, color string, opacity float64, v []r3.Vec, faces [][3]int) trace {
	x, y, z := splitXYZ(v)
	t := trace{Type: "mesh3d", Name: name, X: x, Y: y, Z: z, Color: color, Opacity: opacity}
	for _, f := range faces {
		t.I = append(t.I, f[0])
		t.J = append(t.J, f[1])
		t.K = append(t.K, f[2])
	}
	return t
}

func blockTrace(name, color string, opacity float64, b rupture.BlockMesh) trace {
	return meshTrace(name, color, opacity, b.V[:], rupture.BlockFaces[:])
}

func lineTrace(p Polyline) trace {
	x, y, z := splitXYZ(p.Points)
	t := trace{
		Type: "scatter3d", Name: p.Name, X: x, Y: y, Z: z,
		Mode: "lines",
		Line: &lineStyle{Color: "black", Width: 4},
	}
	if len(p.Text) > 0 {
		t.Mode = "lines+text"
		t.Text = p.Text
		t.TextPosition = "top center"
	}
	return t
}

func coneTrace(a Arrow, sizeref float64) trace {
	return trace{
		Type: "cone", Name: a.Name,
		X: []float64{a.Tail.X}, Y: []float64{a.Tail.Y}, Z: []float64{a.Tail.Z},
		U: []float64{a.Dir.X}, V: []float64{a.Dir.Y}, W: []float64{a.Dir.Z},
		SizeMode:   "absolute",
		SizeRef:    sizeref,
		Anchor:     "tail",
		Colorscale: [][2]any{{0, a.Color}, {1, a.Color}},
		ShowScale:  ptr(false),
	}
}

func (s *Scene) beachballTrace() trace {
	bb := s.Beachball
	n := bb.Resolution
	x, y, z, c := make([][]float64, n), make([][]float64, n), make([][]float64, n), make([][]float64, n)
	for i := range bb.Points {
		x[i], y[i], z[i] = splitXYZ(bb.Points[i])
		c[i] = make([]float64, n)
		for j, p := range bb.Polarity[i] {
			c[i][j] = float64(p)
		}
	}
	return trace{
		Type: "surface", Name: TraceBeachball, X: x, Y: y, Z: z,
		SurfaceColor: c,
		Colorscale:   [][2]any{{0, "blue"}, {1, "white"}},
		CMin:         ptr(0.0),
		CMax:         ptr(1.0),
		ShowScale:    ptr(false),
		Opacity:      1,
	}
}

func frameTraces(f rupture.Frame) []trace {
	return []trace{
		blockTrace(TraceEastLower, "sienna", 0.6, f.EastLower),
		blockTrace(TraceEastUpper, "sienna", 0.3, f.EastUpper),
		blockTrace(TraceWestLower, "seagreen", 0.666, f.WestLower),
		blockTrace(TraceWestUpper, "seagreen", 0.3, f.WestUpper),
	}
}

func traceIndex(data []trace, name string) (int, error) {
	for i, t := range data {
		if t.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("trace %q not found", name)
}

// figure builds the plotly document. data holds the static traces followed
// by the rest pose blocks, frames replace the block traces only.
func (s *Scene) figure() (figure, error) {
	plane := s.FaultPlane[:]
	data := []trace{
		s.beachballTrace(),
		meshTrace(TraceFaultPlane, "gray", 0.7, plane, [][3]int{{0, 1, 2}, {0, 3, 2}}),
		lineTrace(s.NorthSouth),
		lineTrace(s.EastWest),
		coneTrace(s.NorthArrow, 1),
	}
	for _, a := range s.SlipArrows {
		data = append(data, coneTrace(a, 0.5))
	}
	for _, c := range s.Coastline {
		data = append(data, lineTrace(c))
	}
	frames := s.Animation.Frames()
	data = append(data, frameTraces(frames[0])...)

	var indices []int
	for _, name := range []string{TraceEastLower, TraceEastUpper, TraceWestLower, TraceWestUpper} {
		i, err := traceIndex(data, name)
		if err != nil {
			return figure{}, err
		}
		indices = append(indices, i)
	}
	fig := figure{Data: data, Layout: s.layout()}
	for _, f := range frames {
		fig.Frames = append(fig.Frames, frameJSON{
			Name:   fmt.Sprintf("frame%d", f.Step),
			Data:   frameTraces(f),
			Traces: indices,
		})
	}
	return fig, nil
}

func (s *Scene) layout() layout {
	eye := xyz{X: s.Eye.X, Y: s.Eye.Y, Z: s.Eye.Z}
	var labels []annotation
	for _, l := range s.Labels {
		labels = append(labels, annotation{X: l.Pos.X, Y: l.Pos.Y, Z: ptr(l.Pos.Z), Text: l.Text, Font: font{Color: "black", Size: 16}})
	}
	for _, l := range s.VertexLabels {
		labels = append(labels, annotation{X: l.Pos.X, Y: l.Pos.Y, Z: ptr(l.Pos.Z), Text: l.Text, ShowArrow: true, Font: font{Color: "black", Size: 12}})
	}
	duration := s.Config.Animation.FrameDurationMs
	return layout{
		Title:      title{Text: "<b>" + s.Summary.Title + "</b>", X: 0.5, Font: font{Size: 18}},
		ShowLegend: false,
		Scene: sceneLayout{
			XAxis:       axis{Title: "Longitude (°)"},
			YAxis:       axis{Title: "Latitude (°)"},
			ZAxis:       axis{Title: "Depth (km)", ShowTickLabels: ptr(false)},
			AspectMode:  "data",
			Camera:      camera{Eye: eye},
			Annotations: labels,
		},
		Annotations: []annotation{{
			XRef: "paper", YRef: "paper", X: 0.01, Y: 1.05,
			Text:        s.Summary.HTML(),
			Align:       "left",
			Font:        font{Size: 15},
			BorderColor: "black",
			BorderWidth: 1,
			BgColor:     "white",
			Opacity:     0.9,
		}},
		UpdateMenus: []updateMenu{{
			Type: "buttons",
			Buttons: []button{
				{Label: "Play", Method: "animate", Args: []any{nil, map[string]any{
					"frame":       map[string]any{"duration": duration, "redraw": true},
					"fromcurrent": true,
				}}},
				{Label: "Pause", Method: "animate", Args: []any{[]any{nil}, map[string]any{
					"mode":       "immediate",
					"frame":      map[string]any{"duration": 0},
					"transition": map[string]any{"duration": 0},
				}}},
				{Label: "Reset Camera", Method: "relayout", Args: []any{map[string]any{"scene.camera": camera{Eye: eye}}}},
			},
		}},
		Meta: meta{SceneID: s.ID.String()},
	}
}

// WriteJSON encodes the scene as a plotly figure.
func (s *Scene) WriteJSON(w io.Writer) error {
	fig, err := s.figure()
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(fig)
}

// SaveJSON writes the plotly figure to a file at path.
func (s *Scene) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := s.WriteJSON(f); err != nil {
		return err
	}
	return f.Close()
}
