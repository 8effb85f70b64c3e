package scene

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soypat/rupture"
	"github.com/soypat/rupture/internal/logging"
	"github.com/soypat/rupture/internal/observability"
	"github.com/soypat/rupture/render"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Preview colors, hex encoded.
const (
	colorCompression = "#0000FF"
	colorDilatation  = "#FFFFFF"
	colorFaultPlane  = "#808080"
	colorEast        = "#A0522D" // sienna
	colorWest        = "#2E8B57" // seagreen
)

// stereonetResolution is the sample count along each side of the stereonet.
const stereonetResolution = 201

// WriteFrameSTLs writes one binary STL per frame, frameNNN.stl, with the
// four blocks of the frame merged, plus beachball.stl when the beachball
// grid has any area. It returns the paths written.
func (s *Scene) WriteFrameSTLs(ctx context.Context, dir string) (_ []string, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "scene.WriteFrameSTLs",
		attribute.String("dir", dir),
		attribute.Int("frames", s.Animation.Len()),
	)
	defer func() { observability.EndSpan(span, err) }()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	start := time.Now()
	var paths []string
	for _, f := range s.Animation.Frames() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, fmt.Sprintf("frame%03d.stl", f.Step))
		if err := render.CreateSTL(path, render.NewFrameRenderer(f)); err != nil {
			return paths, fmt.Errorf("frame %d: %w", f.Step, err)
		}
		paths = append(paths, path)
	}
	// A two sample grid only holds the poles and has no area to write.
	tris, _ := s.Beachball.Triangles()
	if len(tris) > 0 {
		path := filepath.Join(dir, "beachball.stl")
		if err := render.CreateSTL(path, render.NewMeshRenderer(tris)); err != nil {
			return paths, fmt.Errorf("beachball: %w", err)
		}
		paths = append(paths, path)
	} else {
		s.log.Warn(ctx, "beachball has no triangles, skipping stl", logging.Int("resolution", s.Beachball.Resolution))
	}
	s.log.Debug(ctx, "stl files written", logging.String("dir", dir), logging.Int("files", len(paths)), logging.Any("elapsed", time.Since(start)))
	return paths, nil
}

// PreviewLayers returns the preview layers of the given animation step.
func (s *Scene) PreviewLayers(step int) ([]render.Layer, error) {
	f, err := s.Animation.Frame(step)
	if err != nil {
		return nil, err
	}
	tris, pol := s.Beachball.Triangles()
	var comp, dil []rupture.Triangle
	for i, t := range tris {
		if pol[i] == rupture.Compression {
			comp = append(comp, t)
		} else {
			dil = append(dil, t)
		}
	}
	p := s.FaultPlane
	var east, west []rupture.Triangle
	east = append(east, f.EastLower.Triangles()...)
	east = append(east, f.EastUpper.Triangles()...)
	west = append(west, f.WestLower.Triangles()...)
	west = append(west, f.WestUpper.Triangles()...)
	return []render.Layer{
		{Name: "compression", Color: colorCompression, Triangles: comp},
		{Name: "dilatation", Color: colorDilatation, Triangles: dil},
		{Name: "fault plane", Color: colorFaultPlane, Triangles: []rupture.Triangle{{p[0], p[1], p[2]}, {p[0], p[3], p[2]}}},
		{Name: "east", Color: colorEast, Triangles: east},
		{Name: "west", Color: colorWest, Triangles: west},
	}, nil
}

// Preview rasterizes the given animation step from the scene camera.
func (s *Scene) Preview(step int) (image.Image, error) {
	layers, err := s.PreviewLayers(step)
	if err != nil {
		return nil, err
	}
	return render.Preview(layers, render.DefaultView(s.Eye))
}

// Stereonet plots the lower hemisphere projection of the focal mechanism.
func (s *Scene) Stereonet() (*plot.Plot, error) {
	return render.Stereonet(s.Tensor, render.StereonetOptions{
		Title:        s.Summary.Title,
		Resolution:   stereonetResolution,
		InvertColors: s.Config.Beachball.InvertColors,
	})
}

// Export writes every output named in the configuration. Empty paths are
// skipped.
func (s *Scene) Export(ctx context.Context) (err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "scene.Export", attribute.String("scene.id", s.ID.String()))
	defer func() { observability.EndSpan(span, err) }()
	out := s.Config.Output
	if out.Path != "" {
		if err := s.SaveJSON(out.Path); err != nil {
			return fmt.Errorf("writing figure: %w", err)
		}
		s.log.Info(ctx, "figure written", logging.String("path", out.Path))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if out.STLDir != "" {
		if _, err := s.WriteFrameSTLs(ctx, out.STLDir); err != nil {
			return fmt.Errorf("writing stl: %w", err)
		}
		s.log.Info(ctx, "stl frames written", logging.String("dir", out.STLDir))
	}
	if out.PreviewPNG != "" {
		img, err := s.Preview(0)
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		if err := render.SavePNG(out.PreviewPNG, img); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
		s.log.Info(ctx, "preview written", logging.String("path", out.PreviewPNG))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if out.StereonetPNG != "" {
		p, err := s.Stereonet()
		if err != nil {
			return fmt.Errorf("stereonet: %w", err)
		}
		if err := saveStereonet(out.StereonetPNG, p); err != nil {
			return fmt.Errorf("writing stereonet: %w", err)
		}
		s.log.Info(ctx, "stereonet written", logging.String("path", out.StereonetPNG))
	}
	return nil
}

func saveStereonet(path string, p *plot.Plot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := render.WriteStereonet(f, p, 4*vg.Inch, format); err != nil {
		return err
	}
	return f.Close()
}
