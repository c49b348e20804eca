package render

import (
	"fmt"
	"strings"
)

// BlendMode selects how a particle is composited onto what is already drawn.
type BlendMode int

const (
	// BlendMultiply darkens where particles overlap.
	BlendMultiply BlendMode = iota
	BlendSourceOver
	BlendScreen
	BlendLighter
)

var blendNames = map[BlendMode]string{
	BlendMultiply:   "multiply",
	BlendSourceOver: "source-over",
	BlendScreen:     "screen",
	BlendLighter:    "lighter",
}

func (m BlendMode) String() string {
	if s, ok := blendNames[m]; ok {
		return s
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// ParseBlendMode accepts the canvas composite operation names.
func ParseBlendMode(s string) (BlendMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range blendNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown blend mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) {
	if _, ok := blendNames[m]; !ok {
		return nil, fmt.Errorf("unknown blend mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
