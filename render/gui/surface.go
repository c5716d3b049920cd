// Package gui implements render.Surface on an ebiten screen image for the
// windowed front end.
package gui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/render"
)

// gradientSize is the edge of the cached gradient textures
const gradientSize = 64

// minTextSqueeze hides labels on tiles narrowed past this factor by a flip
const minTextSqueeze = 0.5

type state struct {
	geo    ebiten.GeoM
	shadow render.Shadow
}

// Surface draws onto the image set by SetTarget. The canvas sits at the
// origin offset; ebiten scales the whole screen to the window.
type Surface struct {
	dst        *ebiten.Image
	w, h       float64
	ox, oy     float64
	background color.Color

	state state
	stack []state

	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
	faces   map[faceKey]*text.GoTextFace

	pixel     *ebiten.Image
	gradients map[catalog.Gradient]*ebiten.Image
	images    map[image.Image]*ebiten.Image
}

type faceKey struct {
	size float64
	bold bool
}

// NewSurface creates a surface for a w×h canvas
func NewSurface(w, h float64) (*Surface, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	s := &Surface{
		w:          w,
		h:          h,
		background: render.DefaultBackground,
		regular:    regular,
		bold:       bold,
		faces:      make(map[faceKey]*text.GoTextFace),
		gradients:  make(map[catalog.Gradient]*ebiten.Image),
		images:     make(map[image.Image]*ebiten.Image),
	}
	s.reset()
	return s, nil
}

// SetTarget selects the image the next frame draws on
func (s *Surface) SetTarget(dst *ebiten.Image) { s.dst = dst }

// SetCanvas resizes the logical canvas and moves it to (ox, oy) on the target
func (s *Surface) SetCanvas(w, h, ox, oy float64) {
	s.w, s.h = w, h
	s.ox, s.oy = ox, oy
	s.reset()
}

// SetBackground sets the Clear color
func (s *Surface) SetBackground(c color.Color) { s.background = c }

func (s *Surface) reset() {
	s.stack = s.stack[:0]
	s.state = state{}
	s.state.geo.Translate(s.ox, s.oy)
}

// Depth is the number of saved states
func (s *Surface) Depth() int { return len(s.stack) }

// Transform maps a canvas point to target pixels under the current state
func (s *Surface) Transform(x, y float64) (float64, float64) {
	return s.state.geo.Apply(x, y)
}

func (s *Surface) Size() (float64, float64) { return s.w, s.h }

// Clear fills the whole target and drops any saved states
func (s *Surface) Clear() {
	s.reset()
	if s.dst != nil {
		s.dst.Fill(s.background)
	}
}

func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *Surface) Restore() {
	if n := len(s.stack); n > 0 {
		s.state = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

// Translate and Scale prepend to the current transform, like a canvas
func (s *Surface) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	m.Concat(s.state.geo)
	s.state.geo = m
}

func (s *Surface) Scale(sx, sy float64) {
	var m ebiten.GeoM
	m.Scale(sx, sy)
	m.Concat(s.state.geo)
	s.state.geo = m
}

func (s *Surface) SetShadow(sh render.Shadow) { s.state.shadow = sh }

func (s *Surface) whitePixel() *ebiten.Image {
	if s.pixel == nil {
		s.pixel = ebiten.NewImage(1, 1)
		s.pixel.Fill(color.White)
	}
	return s.pixel
}

// rectGeo stretches a unit square over the rectangle in canvas space
func (s *Surface) rectGeo(x, y, w, h float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(w, h)
	m.Translate(x, y)
	m.Concat(s.state.geo)
	return m
}

// bounds is the target-space box of a canvas rectangle
func (s *Surface) bounds(x, y, w, h float64) (x0, y0, x1, y1 float64) {
	ax, ay := s.state.geo.Apply(x, y)
	bx, by := s.state.geo.Apply(x+w, y+h)
	return math.Min(ax, bx), math.Min(ay, by), math.Max(ax, bx), math.Max(ay, by)
}

// drawShadow paints the drop shadow under a fill; offsets and blur are in
// target pixels and ignore the transform
func (s *Surface) drawShadow(x, y, w, h float64) {
	sh := s.state.shadow
	if !sh.Enabled() || s.dst == nil {
		return
	}
	x0, y0, x1, y1 := s.bounds(x, y, w, h)
	spread := sh.Blur / 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(x1-x0+2*spread, y1-y0+2*spread)
	op.GeoM.Translate(x0-spread+sh.OffsetX, y0-spread+sh.OffsetY)
	op.ColorScale.ScaleWithColor(sh.Color)
	s.dst.DrawImage(s.whitePixel(), op)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	if s.dst == nil {
		return
	}
	s.drawShadow(x, y, w, h)
	op := &ebiten.DrawImageOptions{GeoM: s.rectGeo(x, y, w, h)}
	op.ColorScale.ScaleWithColor(c)
	s.dst.DrawImage(s.whitePixel(), op)
}

func (s *Surface) FillGradient(x, y, w, h float64, g catalog.Gradient) {
	if s.dst == nil {
		return
	}
	s.drawShadow(x, y, w, h)
	tex, ok := s.gradients[g]
	if !ok {
		tex = ebiten.NewImageFromImage(GradientImage(g, gradientSize))
		s.gradients[g] = tex
	}
	op := &ebiten.DrawImageOptions{GeoM: s.rectGeo(x, y, w/gradientSize, h/gradientSize)}
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(tex, op)
}

func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c color.NRGBA) {
	half := lineWidth / 2
	saved := s.state.shadow
	s.state.shadow = render.Shadow{}
	s.FillRect(x-half, y-half, w+lineWidth, lineWidth, c)
	s.FillRect(x-half, y+h-half, w+lineWidth, lineWidth, c)
	s.FillRect(x-half, y+half, lineWidth, h-lineWidth, c)
	s.FillRect(x+w-half, y+half, lineWidth, h-lineWidth, c)
	s.state.shadow = saved
}

func (s *Surface) DrawImage(img image.Image, x, y, w, h float64) {
	if s.dst == nil || img == nil {
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	tex, ok := s.images[img]
	if !ok {
		tex = ebiten.NewImageFromImage(img)
		s.images[img] = tex
	}
	op := &ebiten.DrawImageOptions{GeoM: s.rectGeo(x, y, w/float64(b.Dx()), h/float64(b.Dy()))}
	op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(tex, op)
}

func (s *Surface) face(size float64, bold bool) *text.GoTextFace {
	key := faceKey{size: size, bold: bold}
	if f, ok := s.faces[key]; ok {
		return f
	}
	src := s.regular
	if bold {
		src = s.bold
	}
	f := &text.GoTextFace{Source: src, Size: size}
	s.faces[key] = f
	return f
}

// TextVisible reports whether labels draw under the current horizontal scale
func (s *Surface) TextVisible() bool {
	return math.Abs(s.state.geo.Element(0, 0)) >= minTextSqueeze
}

func (s *Surface) DrawText(str string, x, y float64, style render.TextStyle) {
	if s.dst == nil || str == "" || !s.TextVisible() {
		return
	}
	f := s.face(style.Size, style.Bold)
	top := y - f.Metrics().HAscent

	draw := func(dx, dy float64, c color.NRGBA) {
		op := &text.DrawOptions{}
		op.PrimaryAlign = text.AlignCenter
		op.GeoM.Translate(x+dx, top+dy)
		op.GeoM.Concat(s.state.geo)
		op.ColorScale.ScaleWithColor(c)
		text.Draw(s.dst, str, f, op)
	}

	if r := style.StrokeWidth / 2; r > 0 && style.Stroke.A > 0 {
		for _, d := range strokeOffsets {
			draw(d[0]*r, d[1]*r, style.Stroke)
		}
	}
	draw(0, 0, style.Color)
}

var strokeOffsets = [][2]float64{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// GradientImage renders g on an n×n texture running from the top-left to
// the bottom-right corner
func GradientImage(g catalog.Gradient, n int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	span := float64(2 * (n - 1))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			t := 0.0
			if span > 0 {
				t = float64(x+y) / span
			}
			img.SetRGBA(x, y, mix(g.From, g.To, t))
		}
	}
	return img
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), ch(a.A, b.A)}
}

var _ render.Surface = (*Surface)(nil)
