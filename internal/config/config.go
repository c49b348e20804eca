// Package config loads and validates backdrop options.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/backdrop/internal/particle"
	"github.com/iburimskiy/backdrop/internal/render"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid backdrop config")

// Options is the full configuration surface.
type Options struct {
	Count      int              `yaml:"count"`
	Palette    []string         `yaml:"palette"`
	Radius     particle.Range   `yaml:"radius"`
	Velocity   particle.Range   `yaml:"velocity"`
	Opacity    particle.Range   `yaml:"opacity"`
	BlendMode  render.BlendMode `yaml:"blend_mode"`
	Background string           `yaml:"background"`

	Window    WindowConfig    `yaml:"window"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	TPS       int    `yaml:"tps"`
}

// TerminalConfig holds terminal host settings.
type TerminalConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// TelemetryConfig holds frame statistics settings.
type TelemetryConfig struct {
	Window time.Duration `yaml:"window"` // Stats window length
	CSV    string        `yaml:"csv"`    // Optional CSV output path
}

// Default returns the embedded defaults.
func Default() Options {
	var o Options
	if err := yaml.Unmarshal(defaultsYAML, &o); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return o
}

// Load reads defaults, overlays the file at path (if non-empty) and validates.
func Load(path string) (Options, error) {
	o := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Options{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &o); err != nil {
			return Options{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate reports every problem with o, joined.
func (o Options) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if o.Count <= 0 {
		bad("count must be positive, got %d", o.Count)
	}
	if len(o.Palette) == 0 {
		bad("palette is empty")
	}
	for i, s := range o.Palette {
		if _, err := colorful.Hex(s); err != nil {
			bad("palette[%d] %q is not a hex color", i, s)
		}
	}
	if o.Radius.Min <= 0 || o.Radius.Max <= 0 {
		bad("radius bounds must be positive, got [%g, %g]", o.Radius.Min, o.Radius.Max)
	}
	if o.Radius.Min > o.Radius.Max {
		bad("radius min %g exceeds max %g", o.Radius.Min, o.Radius.Max)
	}
	if o.Velocity.Min < 0 || o.Velocity.Min > o.Velocity.Max {
		bad("velocity range [%g, %g] must satisfy 0 <= min <= max", o.Velocity.Min, o.Velocity.Max)
	}
	if o.Opacity.Min <= 0 || o.Opacity.Max > 1 || o.Opacity.Min > o.Opacity.Max {
		bad("opacity range [%g, %g] must lie in (0, 1] with min <= max", o.Opacity.Min, o.Opacity.Max)
	}
	if _, err := o.BlendMode.MarshalText(); err != nil {
		bad("%v", err)
	}
	if _, err := colorful.Hex(o.Background); err != nil {
		bad("background %q is not a hex color", o.Background)
	}
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		bad("window size must be positive, got %dx%d", o.Window.Width, o.Window.Height)
	}
	if o.Window.TPS < 0 {
		bad("window tps must not be negative, got %d", o.Window.TPS)
	}
	if o.Terminal.FrameInterval <= 0 {
		bad("terminal frame_interval must be positive, got %s", o.Terminal.FrameInterval)
	}
	if o.Telemetry.Window < 0 {
		bad("telemetry window must not be negative, got %s", o.Telemetry.Window)
	}

	return errors.Join(errs...)
}

// Params converts the particle options into seeding parameters.
func (o Options) Params() (particle.Params, error) {
	if err := o.Validate(); err != nil {
		return particle.Params{}, err
	}
	palette := make([]colorful.Color, len(o.Palette))
	for i, s := range o.Palette {
		palette[i], _ = colorful.Hex(s)
	}
	return particle.Params{
		Count:    o.Count,
		Palette:  palette,
		Radius:   o.Radius,
		Velocity: o.Velocity,
		Opacity:  o.Opacity,
	}, nil
}

// BackgroundColor parses the page background the surface clears to.
func (o Options) BackgroundColor() (colorful.Color, error) {
	c, err := colorful.Hex(o.Background)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: background %q: %v", ErrInvalid, o.Background, err)
	}
	return c, nil
}
