package ebitenhost

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/backdrop/internal/render"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61 * time.Second, "01:01"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestLevelBar(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "[....]"},
		{0.5, "[##..]"},
		{1, "[####]"},
		{3, "[####]"},
		{-1, "[....]"},
	}
	for _, tt := range tests {
		if got := levelBar(tt.v, 4); got != tt.want {
			t.Errorf("levelBar(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestBlendFor(t *testing.T) {
	if blendFor(render.BlendSourceOver) != ebiten.BlendSourceOver {
		t.Error("source-over did not map to ebiten.BlendSourceOver")
	}
	if blendFor(render.BlendLighter) != ebiten.BlendLighter {
		t.Error("lighter did not map to ebiten.BlendLighter")
	}
	m := blendFor(render.BlendMultiply)
	if m.BlendFactorSourceRGB != ebiten.BlendFactorDestinationColor {
		t.Errorf("multiply source factor = %v", m.BlendFactorSourceRGB)
	}
	if blendFor(render.BlendScreen).BlendFactorDestinationRGB != ebiten.BlendFactorOneMinusSourceColor {
		t.Error("screen destination factor mismatch")
	}
}
