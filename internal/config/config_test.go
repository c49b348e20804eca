package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/backdrop/internal/render"
)

func TestDefaultsValidate(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if o.Count != 60 {
		t.Errorf("Count = %d, want 60", o.Count)
	}
	if len(o.Palette) != 4 {
		t.Errorf("len(Palette) = %d, want 4", len(o.Palette))
	}
	if o.BlendMode != render.BlendMultiply {
		t.Errorf("BlendMode = %v, want multiply", o.BlendMode)
	}
	if o.Terminal.FrameInterval != 33*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 33ms", o.Terminal.FrameInterval)
	}
	if o.Telemetry.Window != 5*time.Second {
		t.Errorf("Telemetry.Window = %v, want 5s", o.Telemetry.Window)
	}
}

func TestParams(t *testing.T) {
	p, err := Default().Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.Count != 60 || len(p.Palette) != 4 {
		t.Errorf("Params = %+v", p)
	}
	if got := p.Palette[0].Hex(); got != "#ff6b6b" {
		t.Errorf("Palette[0] = %s, want #ff6b6b", got)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yaml")
	data := "count: 12\nblend_mode: screen\npalette: ['#000000']\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if o.Count != 12 {
		t.Errorf("Count = %d, want 12", o.Count)
	}
	if o.BlendMode != render.BlendScreen {
		t.Errorf("BlendMode = %v, want screen", o.BlendMode)
	}
	if len(o.Palette) != 1 {
		t.Errorf("Palette = %v, want one entry", o.Palette)
	}
	if o.Radius.Max != 4 {
		t.Errorf("Radius.Max = %v, want default 4", o.Radius.Max)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("blend_mode: overlay\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load with unknown blend mode succeeded")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("count: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   []string
	}{
		{"zero count", func(o *Options) { o.Count = 0 }, []string{"count"}},
		{"empty palette", func(o *Options) { o.Palette = nil }, []string{"palette is empty"}},
		{"bad palette entry", func(o *Options) { o.Palette = []string{"red"} }, []string{"palette[0]"}},
		{"non-positive radius", func(o *Options) { o.Radius.Min = 0 }, []string{"radius bounds"}},
		{"inverted radius", func(o *Options) { o.Radius.Min, o.Radius.Max = 5, 2 }, []string{"radius min"}},
		{"negative velocity", func(o *Options) { o.Velocity.Min = -1 }, []string{"velocity"}},
		{"opacity above one", func(o *Options) { o.Opacity.Max = 1.5 }, []string{"opacity"}},
		{"zero opacity", func(o *Options) { o.Opacity.Min = 0 }, []string{"opacity"}},
		{"unknown blend", func(o *Options) { o.BlendMode = render.BlendMode(99) }, []string{"blend"}},
		{"bad background", func(o *Options) { o.Background = "white" }, []string{"background"}},
		{"zero window width", func(o *Options) { o.Window.Width = 0 }, []string{"window size"}},
		{"negative window height", func(o *Options) { o.Window.Height = -3 }, []string{"window size"}},
		{"negative tps", func(o *Options) { o.Window.TPS = -1 }, []string{"tps"}},
		{"zero frame interval", func(o *Options) { o.Terminal.FrameInterval = 0 }, []string{"frame_interval"}},
		{"negative frame interval", func(o *Options) { o.Terminal.FrameInterval = -5 * time.Millisecond }, []string{"frame_interval"}},
		{"negative telemetry window", func(o *Options) { o.Telemetry.Window = -time.Second }, []string{"telemetry window"}},
		{
			"several at once",
			func(o *Options) { o.Count = -1; o.Palette = nil; o.Background = "" },
			[]string{"count", "palette", "background"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(&o)
			err := o.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
			if _, perr := o.Params(); perr == nil {
				t.Error("Params() accepted invalid options")
			}
		})
	}
}

func TestBackgroundColor(t *testing.T) {
	c, err := Default().BackgroundColor()
	if err != nil {
		t.Fatal(err)
	}
	if c.Hex() != "#f9fafb" {
		t.Errorf("BackgroundColor = %s, want #f9fafb", c.Hex())
	}
	o := Default()
	o.Background = "nope"
	if _, err := o.BackgroundColor(); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
