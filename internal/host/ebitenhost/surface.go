package ebitenhost

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/backdrop/internal/render"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// blendMultiply assumes an opaque destination: src*dst + dst*(1-srcAlpha).
var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// blendScreen is src + dst*(1-src).
var blendScreen = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

func blendFor(m render.BlendMode) ebiten.Blend {
	switch m {
	case render.BlendMultiply:
		return blendMultiply
	case render.BlendScreen:
		return blendScreen
	case render.BlendLighter:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

type drawState struct {
	alpha float64
	blend render.BlendMode
	fill  colorful.Color
}

var initialState = drawState{alpha: 1, blend: render.BlendSourceOver}

// Surface is an offscreen ebiten image the backdrop draws into. It is only
// touched from the game goroutine.
type Surface struct {
	img        *ebiten.Image
	background colorful.Color
	state      drawState
	stack      []drawState

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewSurface returns an unsized surface; the viewport adapter sizes it.
func NewSurface(background colorful.Color) *Surface {
	return &Surface{background: background, state: initialState}
}

// Resize reallocates the image when the size changed.
func (s *Surface) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if s.img != nil {
		if b := s.img.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(w, h)
	s.img.Fill(s.background)
}

// Release frees the image; the surface reports not ready afterwards.
func (s *Surface) Release() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}

func (s *Surface) Ready() bool { return s.img != nil }

func (s *Surface) Clear() {
	if s.img != nil {
		s.img.Fill(s.background)
	}
}

func (s *Surface) Save() { s.stack = append(s.stack, s.state) }

func (s *Surface) Restore() {
	if n := len(s.stack); n > 0 {
		s.state = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

func (s *Surface) SetBlendMode(m render.BlendMode) { s.state.blend = m }

func (s *Surface) SetGlobalAlpha(a float64) { s.state.alpha = math.Max(0, math.Min(1, a)) }

func (s *Surface) SetFillColor(c colorful.Color) { s.state.fill = c }

func (s *Surface) FillCircle(x, y, r float64) {
	if s.img == nil || r <= 0 {
		return
	}

	var path vector.Path
	path.Arc(float32(x), float32(y), float32(r), 0, 2*math.Pi, vector.Clockwise)
	path.Close()
	s.vertices, s.indices = path.AppendVerticesAndIndicesForFilling(s.vertices[:0], s.indices[:0])

	cr, cg, cb := float32(s.state.fill.R), float32(s.state.fill.G), float32(s.state.fill.B)
	ca := float32(s.state.alpha)
	for i := range s.vertices {
		s.vertices[i].SrcX = 1
		s.vertices[i].SrcY = 1
		s.vertices[i].ColorR = cr
		s.vertices[i].ColorG = cg
		s.vertices[i].ColorB = cb
		s.vertices[i].ColorA = ca
	}

	op := &ebiten.DrawTrianglesOptions{
		Blend:     blendFor(s.state.blend),
		AntiAlias: true,
	}
	s.img.DrawTriangles(s.vertices, s.indices, whiteSubImage, op)
}

// DrawTo paints the backdrop onto the screen.
func (s *Surface) DrawTo(screen *ebiten.Image) {
	if s.img != nil {
		screen.DrawImage(s.img, nil)
	}
}
