// Package scene assembles the static decorations, labels and animation
// frames of a rupture figure and exports them.
package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/soypat/rupture"
	"github.com/soypat/rupture/internal/config"
	"github.com/soypat/rupture/internal/logging"
	"github.com/soypat/rupture/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/spatial/r3"
)

const tracerName = "github.com/soypat/rupture/scene"

// Label is a text annotation placed in scene coordinates.
type Label struct {
	Text string
	Pos  r3.Vec
}

// Polyline is a named line strip with an optional text label per vertex.
type Polyline struct {
	Name   string
	Points []r3.Vec
	Text   []string
}

// Arrow is a cone anchored at its tail.
type Arrow struct {
	Name string
	Tail r3.Vec
	// Dir is scaled by the arrow length.
	Dir   r3.Vec
	Color string
}

// Scene holds everything drawn in a rupture figure. It is built once by
// Assemble and only read afterwards.
type Scene struct {
	ID        uuid.UUID
	Config    config.Config
	Basis     rupture.Basis
	Tensor    rupture.MomentTensor
	Beachball *rupture.Beachball
	Animation *rupture.Animation
	// FaultPlane corners at rest, triangulated as {0,1,2},{0,3,2}.
	FaultPlane [4]r3.Vec

	NorthSouth Polyline
	EastWest   Polyline
	NorthArrow Arrow
	// SlipArrows holds the east and west block arrows in that order.
	SlipArrows [2]Arrow
	// Labels holds the plate names of the east and west blocks.
	Labels       []Label
	VertexLabels []Label
	Summary      Summary
	Coastline    []Polyline
	Eye          r3.Vec

	log logging.Logger
}

type options struct {
	log          logging.Logger
	coastline    orb.MultiLineString
	hasCoastline bool
	vertexLabels bool
}

// Option configures Assemble.
type Option func(*options)

// WithLogger sets the logger used by Assemble and the export methods. By
// default the logger stored in the context is used.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCoastline uses mls (lon/lat degrees) as coastline instead of loading
// the file named in the configuration.
func WithCoastline(mls orb.MultiLineString) Option {
	return func(o *options) {
		o.coastline = mls
		o.hasCoastline = true
	}
}

// WithVertexLabels labels the vertices of both blocks at rest, p1..p8 for
// the east block and q1..q8 for the west block.
func WithVertexLabels() Option {
	return func(o *options) { o.vertexLabels = true }
}

// Assemble validates cfg and computes the complete scene.
func Assemble(ctx context.Context, cfg config.Config, opts ...Option) (_ *Scene, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "scene.Assemble",
		attribute.Float64("strike", cfg.Fault.StrikeDeg),
		attribute.Float64("dip", cfg.Fault.DipDeg),
		attribute.Float64("rake", cfg.Fault.RakeDeg),
	)
	defer func() { observability.EndSpan(span, err) }()
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.FromContext(ctx)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("assembling scene: %w", err)
	}
	s := &Scene{
		ID:     uuid.New(),
		Config: cfg,
		Eye:    cfg.Eye(),
	}
	s.log = o.log.With(logging.String("scene", s.ID.String()))
	span.SetAttributes(attribute.String("scene.id", s.ID.String()))

	start := time.Now()
	b, err := cfg.Basis()
	if err != nil {
		return nil, fmt.Errorf("fault basis: %w", err)
	}
	s.Basis = b
	s.Tensor = b.Tensor()
	s.Beachball, err = rupture.NewBeachball(b, cfg.BeachballParams())
	if err != nil {
		return nil, fmt.Errorf("beachball: %w", err)
	}
	ap := cfg.AnimationParams()
	if !ap.Move.Valid() {
		s.log.Warn(ctx, "unknown move_block, blocks stay at rest", logging.String("move_block", string(ap.Move)))
	}
	s.Animation, err = rupture.Animate(b, ap)
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	s.log.Debug(ctx, "geometry computed",
		logging.Int("beachball_points", s.Beachball.Len()),
		logging.Int("frames", s.Animation.Len()),
		logging.Any("elapsed", time.Since(start)),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.decorate(o.vertexLabels)
	s.Summary = NewSummary(cfg, b)

	mls := o.coastline
	if !o.hasCoastline && cfg.Output.Coastline != "" {
		mls, err = LoadCoastline(cfg.Output.Coastline)
		if err != nil {
			return nil, fmt.Errorf("loading coastline: %w", err)
		}
	}
	if len(mls) > 0 {
		s.setCoastline(mls)
		s.log.Debug(ctx, "coastline clipped", logging.Int("lines_in", len(mls)), logging.Int("lines_kept", len(s.Coastline)))
	}
	s.log.Info(ctx, "scene assembled",
		logging.Float("strike", b.StrikeDeg),
		logging.Float("dip", b.DipDeg),
		logging.Float("rake", b.RakeDeg),
		logging.Int("steps", s.Animation.Len()),
	)
	return s, nil
}
