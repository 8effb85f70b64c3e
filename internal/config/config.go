// Package config holds the rupture figure configuration, its defaults and
// file loading through viper. YAML, TOML, JSON and INI files are accepted;
// files ending in .cfg are read as INI.
package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soypat/rupture"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config is the complete description of a rupture figure.
type Config struct {
	Fault     Fault     `mapstructure:"fault"`
	Event     Event     `mapstructure:"event"`
	Blocks    Blocks    `mapstructure:"blocks"`
	Animation Animation `mapstructure:"animation"`
	Beachball Beachball `mapstructure:"beachball"`
	Camera    Camera    `mapstructure:"camera"`
	Output    Output    `mapstructure:"output"`
	Log       Log       `mapstructure:"log"`
	Tracing   Tracing   `mapstructure:"tracing"`
}

// Fault is the first nodal plane in degrees.
type Fault struct {
	StrikeDeg float64 `mapstructure:"strike_deg"`
	DipDeg    float64 `mapstructure:"dip_deg"`
	RakeDeg   float64 `mapstructure:"rake_deg"`
}

// Event holds hypocenter and catalog data shown in the summary block.
type Event struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	// Depth in kilometers, positive down.
	Depth     float64 `mapstructure:"depth"`
	Title     string  `mapstructure:"title"`
	Date      string  `mapstructure:"date"`
	Magnitude float64 `mapstructure:"magnitude"`
	// Moment is the scalar seismic moment in N·m.
	Moment float64 `mapstructure:"moment"`
}

type Blocks struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
	// MoveBlock is east, west or none. Other values leave the blocks at rest.
	MoveBlock string `mapstructure:"move_block"`
	// PlateA labels the east block, PlateB the west block.
	PlateA string `mapstructure:"plate_a"`
	PlateB string `mapstructure:"plate_b"`
}

type Animation struct {
	Steps           int     `mapstructure:"steps"`
	Speed           float64 `mapstructure:"speed"`
	FrameDurationMs int     `mapstructure:"frame_duration_ms"`
}

type Beachball struct {
	Radius       float64 `mapstructure:"radius"`
	Resolution   int     `mapstructure:"resolution"`
	InvertColors bool    `mapstructure:"invert_colors"`
}

type Camera struct {
	// Eye is the plotly camera eye, x east, y north, z up.
	Eye []float64 `mapstructure:"eye"`
}

type Output struct {
	Path         string `mapstructure:"path"`
	STLDir       string `mapstructure:"stl_dir"`
	PreviewPNG   string `mapstructure:"preview_png"`
	StereonetPNG string `mapstructure:"stereonet_png"`
	// Coastline is a CSV (lon,lat rows) or GeoJSON file.
	Coastline string `mapstructure:"coastline"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Tracing configures OpenTelemetry span export.
type Tracing struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout or otlp
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Default returns the configuration of the 2016 Pedernales M7.8 figure.
func Default() Config {
	return Config{
		Fault: Fault{StrikeDeg: 183, DipDeg: 75, RakeDeg: 84},
		Event: Event{
			Latitude:  0.382,
			Longitude: -79.922,
			Depth:     21.5,
			Title:     "M 7.8 - Pedernales earthquake, Manabí - Ecuador (2016)",
			Date:      "2016-04-16 23:58:36 UTC",
			Magnitude: 7.8,
			Moment:    7.054e20,
		},
		Blocks: Blocks{
			Width:     10,
			Height:    5,
			MoveBlock: string(rupture.MoveEast),
			PlateA:    "SOUTH AMERICAN PLATE",
			PlateB:    "NAZCA PLATE",
		},
		Animation: Animation{Steps: 25, Speed: 0.1, FrameDurationMs: 100},
		Beachball: Beachball{Radius: 2.5, Resolution: 300},
		Camera:    Camera{Eye: []float64{-1, -3, 2}},
		Output:    Output{Path: "rupture.json"},
		Log:       Log{Level: "info", Format: "text"},
		Tracing:   Tracing{Exporter: "stdout", SampleRatio: 1},
	}
}

// SetDefaults registers Default() values on v so that every key is known
// to viper even when absent from the file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	for key, value := range map[string]any{
		"fault.strike_deg":            d.Fault.StrikeDeg,
		"fault.dip_deg":               d.Fault.DipDeg,
		"fault.rake_deg":              d.Fault.RakeDeg,
		"event.latitude":              d.Event.Latitude,
		"event.longitude":             d.Event.Longitude,
		"event.depth":                 d.Event.Depth,
		"event.title":                 d.Event.Title,
		"event.date":                  d.Event.Date,
		"event.magnitude":             d.Event.Magnitude,
		"event.moment":                d.Event.Moment,
		"blocks.width":                d.Blocks.Width,
		"blocks.height":               d.Blocks.Height,
		"blocks.move_block":           d.Blocks.MoveBlock,
		"blocks.plate_a":              d.Blocks.PlateA,
		"blocks.plate_b":              d.Blocks.PlateB,
		"animation.steps":             d.Animation.Steps,
		"animation.speed":             d.Animation.Speed,
		"animation.frame_duration_ms": d.Animation.FrameDurationMs,
		"beachball.radius":            d.Beachball.Radius,
		"beachball.resolution":        d.Beachball.Resolution,
		"beachball.invert_colors":     d.Beachball.InvertColors,
		"camera.eye":                  d.Camera.Eye,
		"output.path":                 d.Output.Path,
		"output.stl_dir":              d.Output.STLDir,
		"output.preview_png":          d.Output.PreviewPNG,
		"output.stereonet_png":        d.Output.StereonetPNG,
		"output.coastline":            d.Output.Coastline,
		"log.level":                   d.Log.Level,
		"log.format":                  d.Log.Format,
		"tracing.enabled":             d.Tracing.Enabled,
		"tracing.exporter":            d.Tracing.Exporter,
		"tracing.endpoint":            d.Tracing.Endpoint,
		"tracing.sample_ratio":        d.Tracing.SampleRatio,
	} {
		v.SetDefault(key, value)
	}
}

// EnvPrefix prefixes environment overrides, i.e. RUPTURE_ANIMATION_STEPS
// sets animation.steps.
const EnvPrefix = "RUPTURE"

// BindEnv makes v read every key from the environment.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// legacyKeys maps keys used by older .cfg files to their current name.
var legacyKeys = map[string]string{
	"fault.strike_angle_deg": "fault.strike_deg",
	"fault.dip_angle_deg":    "fault.dip_deg",
	"fault.rake_angle_deg":   "fault.rake_deg",
}

// Read loads the configuration file at path into v. An empty path is a no-op.
func Read(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if strings.EqualFold(filepath.Ext(path), ".cfg") {
		v.SetConfigType("ini")
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	for legacy, key := range legacyKeys {
		if v.InConfig(legacy) && !v.InConfig(key) {
			v.Set(key, v.Get(legacy))
		}
	}
	return nil
}

// Unmarshal decodes v into a Config. The camera eye may be given as a list
// or as a "x,y,z" string.
func Unmarshal(v *viper.Viper) (Config, error) {
	if s, ok := v.Get("camera.eye").(string); ok {
		eye, err := parseFloats(s)
		if err != nil {
			return Config{}, fmt.Errorf("camera.eye %q: %w", s, err)
		}
		v.Set("camera.eye", eye)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Load reads path on top of the defaults and environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	if err := Read(v, path); err != nil {
		return Config{}, err
	}
	cfg, err := Unmarshal(v)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Validate reports every out of domain field. Angles are not checked and an
// unrecognised move_block is accepted.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, rupture.ErrInvalidParameter)...))
	}
	if c.Animation.Steps <= 0 {
		invalid("animation.steps %d must be positive", c.Animation.Steps)
	}
	if !(c.Blocks.Width > 0) || math.IsInf(c.Blocks.Width, 0) {
		invalid("blocks.width %g must be positive", c.Blocks.Width)
	}
	if !(c.Blocks.Height > 0) || math.IsInf(c.Blocks.Height, 0) {
		invalid("blocks.height %g must be positive", c.Blocks.Height)
	}
	if !(c.Beachball.Radius > 0) || math.IsInf(c.Beachball.Radius, 0) {
		invalid("beachball.radius %g must be positive", c.Beachball.Radius)
	}
	if c.Beachball.Resolution < 2 {
		invalid("beachball.resolution %d less than 2", c.Beachball.Resolution)
	}
	if len(c.Camera.Eye) != 3 {
		invalid("camera.eye needs 3 components, got %d", len(c.Camera.Eye))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		invalid("tracing.sample_ratio %g outside [0, 1]", c.Tracing.SampleRatio)
	}
	if c.Animation.FrameDurationMs < 0 {
		invalid("animation.frame_duration_ms %d is negative", c.Animation.FrameDurationMs)
	}
	return errors.Join(errs...)
}

// Origin is the Euclidean position of the hypocenter: (longitude, latitude, -depth).
func (c Config) Origin() r3.Vec {
	return r3.Vec{X: c.Event.Longitude, Y: c.Event.Latitude, Z: -c.Event.Depth}
}

// Eye returns the camera eye. Call Validate first.
func (c Config) Eye() r3.Vec {
	if len(c.Camera.Eye) != 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: c.Camera.Eye[0], Y: c.Camera.Eye[1], Z: c.Camera.Eye[2]}
}

func (c Config) AnimationParams() rupture.AnimationParams {
	return rupture.AnimationParams{
		Center: c.Origin(),
		Width:  c.Blocks.Width,
		Height: c.Blocks.Height,
		Steps:  c.Animation.Steps,
		Speed:  c.Animation.Speed,
		Move:   rupture.MoveBlock(strings.ToLower(c.Blocks.MoveBlock)),
	}
}

func (c Config) BeachballParams() rupture.BeachballParams {
	return rupture.BeachballParams{
		Center:       c.Origin(),
		Radius:       c.Beachball.Radius,
		Resolution:   c.Beachball.Resolution,
		InvertColors: c.Beachball.InvertColors,
	}
}

// Basis builds the fault basis of the first nodal plane.
func (c Config) Basis() (rupture.Basis, error) {
	return rupture.NewBasis(c.Fault.StrikeDeg, c.Fault.DipDeg, c.Fault.RakeDeg)
}
