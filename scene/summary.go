package scene

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/soypat/rupture"
	"github.com/soypat/rupture/internal/config"
)

// SummaryLine is one labelled entry of the event summary block.
type SummaryLine struct {
	Label string
	Value string
}

// Summary is the text block shown next to the figure.
type Summary struct {
	Title string
	Lines []SummaryLine
}

// NewSummary describes the event of cfg and the focal mechanism of b.
func NewSummary(cfg config.Config, b rupture.Basis) Summary {
	p, t, n := b.PrincipalAxes()
	ev := cfg.Event
	return Summary{
		Title: ev.Title,
		Lines: []SummaryLine{
			{"Date", ev.Date},
			{"Location", formatLocation(ev.Latitude, ev.Longitude)},
			{"Depth", fmt.Sprintf("%g km", ev.Depth)},
			{"Magnitude", fmt.Sprintf("%g Mw", ev.Magnitude)},
			{"Moment", formatMoment(ev.Moment)},
			{"Nodal plane 1", formatPlane(b.NodalPlane())},
			{"Nodal plane 2", formatPlane(b.AuxiliaryPlane())},
			{"Principal axes", fmt.Sprintf("T: %s, P: %s, N: %s", formatAxis(t), formatAxis(p), formatAxis(n))},
		},
	}
}

// Text renders the summary as plain text, one entry per line.
func (s Summary) Text() string {
	var sb strings.Builder
	if s.Title != "" {
		sb.WriteString(s.Title)
		sb.WriteByte('\n')
	}
	for _, l := range s.Lines {
		fmt.Fprintf(&sb, "%s: %s\n", l.Label, l.Value)
	}
	return sb.String()
}

// HTML renders the entries for a plotly annotation. The title is not included.
func (s Summary) HTML() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = "<b>" + html.EscapeString(l.Label) + ":</b> " + html.EscapeString(l.Value)
	}
	return strings.Join(parts, "<br>")
}

func formatLocation(lat, lon float64) string {
	ns, ew := "N", "E"
	if lat < 0 {
		ns = "S"
	}
	if lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%g°%s, %g°%s", math.Abs(lat), ns, math.Abs(lon), ew)
}

func formatPlane(p rupture.NodalPlane) string {
	return fmt.Sprintf("Strike %.0f°, Dip %.0f°, Rake %.0f°", p.Strike, p.Dip, p.Rake)
}

// formatAxis writes plunge/trend.
func formatAxis(a rupture.Axis) string {
	return fmt.Sprintf("%.0f°/%.0f°", a.Plunge, a.Trend)
}

var superscripts = strings.NewReplacer(
	"-", "⁻", "0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
)

// formatMoment writes m in N·m using scientific notation, i.e. 7.054×10²⁰ N·m.
func formatMoment(m float64) string {
	if !(m > 0) || math.IsInf(m, 0) {
		return "unknown"
	}
	exp := math.Floor(math.Log10(m))
	mant := m / math.Pow(10, exp)
	return fmt.Sprintf("%.4g×10%s N·m", mant, superscripts.Replace(fmt.Sprintf("%d", int(exp))))
}
