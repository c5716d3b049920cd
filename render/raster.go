package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/dgraph-io/ristretto/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/lixenwraith/flip-match/catalog"
)

// DefaultBackground is the canvas clear color
var DefaultBackground = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}

// minTextSqueeze hides labels on tiles narrowed past this factor by a flip
const minTextSqueeze = 0.5

// TextRun is a label recorded in device pixels; cell front ends draw text as
// glyphs on top of the pixels instead of rasterizing it
type TextRun struct {
	X, Y  int
	Text  string
	Style TextStyle
}

type rasterState struct {
	sx, sy float64
	tx, ty float64
	shadow Shadow
}

// Raster is a software Surface on an opaque RGBA image. The logical canvas
// is fitted and centered into the device image.
type Raster struct {
	img        *image.RGBA
	background color.RGBA

	logicalW, logicalH float64
	k                  float64
	base               rasterState
	state              rasterState
	stack              []rasterState

	text    []TextRun
	sprites *ristretto.Cache[string, *image.RGBA]
}

// NewRaster creates a devW×devH device image showing a logicalW×logicalH canvas
func NewRaster(devW, devH int, logicalW, logicalH float64) (*Raster, error) {
	sprites, err := ristretto.NewCache(&ristretto.Config[string, *image.RGBA]{
		NumCounters: 10000,
		MaxCost:     32 * 1024 * 1024,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("sprite cache: %w", err)
	}
	r := &Raster{
		background: DefaultBackground,
		sprites:    sprites,
	}
	r.Resize(devW, devH, logicalW, logicalH)
	return r, nil
}

// Resize rebuilds the device image and refits the canvas
func (r *Raster) Resize(devW, devH int, logicalW, logicalH float64) {
	devW, devH = max(devW, 1), max(devH, 1)
	if r.img == nil || r.img.Bounds().Dx() != devW || r.img.Bounds().Dy() != devH {
		r.img = image.NewRGBA(image.Rect(0, 0, devW, devH))
	}
	r.logicalW, r.logicalH = logicalW, logicalH

	k := 1.0
	if logicalW > 0 && logicalH > 0 {
		k = math.Min(float64(devW)/logicalW, float64(devH)/logicalH)
	}
	r.k = k
	r.base = rasterState{
		sx: k,
		sy: k,
		tx: (float64(devW) - logicalW*k) / 2,
		ty: (float64(devH) - logicalH*k) / 2,
	}
	r.state = r.base
	r.stack = r.stack[:0]
}

// SetBackground sets the clear color
func (r *Raster) SetBackground(c color.RGBA) { r.background = c }

// Image is the device image
func (r *Raster) Image() *image.RGBA { return r.img }

// Text returns the labels recorded since the last Clear
func (r *Raster) Text() []TextRun { return r.text }

// ToLogical maps a device pixel to canvas coordinates
func (r *Raster) ToLogical(px, py float64) (float64, float64) {
	return (px - r.base.tx) / r.base.sx, (py - r.base.ty) / r.base.sy
}

// ToDevice maps a canvas point to device pixels
func (r *Raster) ToDevice(x, y float64) (float64, float64) {
	return x*r.base.sx + r.base.tx, y*r.base.sy + r.base.ty
}

// Close releases the sprite cache
func (r *Raster) Close() {
	r.sprites.Close()
}

func (r *Raster) Size() (float64, float64) { return r.logicalW, r.logicalH }

func (r *Raster) Clear() {
	xdraw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, xdraw.Src)
	r.text = r.text[:0]
	r.state = r.base
	r.stack = r.stack[:0]
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.state)
}

func (r *Raster) Restore() {
	if n := len(r.stack); n > 0 {
		r.state = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
}

func (r *Raster) Translate(x, y float64) {
	r.state.tx += x * r.state.sx
	r.state.ty += y * r.state.sy
}

func (r *Raster) Scale(sx, sy float64) {
	r.state.sx *= sx
	r.state.sy *= sy
}

func (r *Raster) SetShadow(s Shadow) {
	r.state.shadow = s
}

// device maps a logical rectangle to device pixels
func (r *Raster) device(x, y, w, h float64) image.Rectangle {
	st := r.state
	x0, x1 := x*st.sx+st.tx, (x+w)*st.sx+st.tx
	y0, y1 := y*st.sy+st.ty, (y+h)*st.sy+st.ty
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
	).Intersect(r.img.Bounds())
}

// shadowRect draws the drop shadow for a device rectangle. Offsets and blur
// ignore the current transform, like a canvas shadow.
func (r *Raster) shadowRect(dev image.Rectangle) {
	sh := r.state.shadow
	if !sh.Enabled() || dev.Empty() {
		return
	}
	spread := int(math.Round(sh.Blur * r.k / 2))
	off := image.Pt(int(math.Round(sh.OffsetX*r.k)), int(math.Round(sh.OffsetY*r.k)))
	rect := dev.Inset(-spread).Add(off).Intersect(r.img.Bounds())
	r.fill(rect, sh.Color)
}

func (r *Raster) fill(rect image.Rectangle, c color.NRGBA) {
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			r.img.SetRGBA(px, py, over(r.img.RGBAAt(px, py), c))
		}
	}
}

func (r *Raster) FillRect(x, y, w, h float64, c color.NRGBA) {
	dev := r.device(x, y, w, h)
	r.shadowRect(dev)
	r.fill(dev, c)
}

func (r *Raster) FillGradient(x, y, w, h float64, g catalog.Gradient) {
	dev := r.device(x, y, w, h)
	r.shadowRect(dev)

	from, to := color.NRGBA(g.From), color.NRGBA(g.To)
	st := r.state
	span := w*w + h*h
	for py := dev.Min.Y; py < dev.Max.Y; py++ {
		ly := (float64(py)+0.5-st.ty)/st.sy - y
		for px := dev.Min.X; px < dev.Max.X; px++ {
			lx := (float64(px)+0.5-st.tx)/st.sx - x
			t := 0.0
			if span > 0 {
				t = (lx*w + ly*h) / span
			}
			r.img.SetRGBA(px, py, over(r.img.RGBAAt(px, py), lerp(from, to, t)))
		}
	}
}

func (r *Raster) StrokeRect(x, y, w, h, lineWidth float64, c color.NRGBA) {
	half := lineWidth / 2
	r.fill(r.device(x-half, y-half, w+lineWidth, lineWidth), c)
	r.fill(r.device(x-half, y+h-half, w+lineWidth, lineWidth), c)
	r.fill(r.device(x-half, y+half, lineWidth, h-lineWidth), c)
	r.fill(r.device(x+w-half, y+half, lineWidth, h-lineWidth), c)
}

func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	st := r.state
	x0, y0 := x*st.sx+st.tx, y*st.sy+st.ty
	dw := int(math.Round(math.Abs(w * st.sx)))
	dh := int(math.Round(math.Abs(h * st.sy)))
	if dw <= 0 || dh <= 0 || img == nil {
		return
	}
	if st.sx < 0 {
		x0 -= float64(dw)
	}
	if st.sy < 0 {
		y0 -= float64(dh)
	}
	at := image.Pt(int(math.Round(x0)), int(math.Round(y0)))
	sprite := r.sprite(img, dw, dh)
	xdraw.Draw(r.img, image.Rectangle{Min: at, Max: at.Add(image.Pt(dw, dh))}, sprite, image.Point{}, xdraw.Over)
}

// sprite returns img scaled to w×h, cached by source identity and size
func (r *Raster) sprite(img image.Image, w, h int) *image.RGBA {
	key := fmt.Sprintf("%p@%dx%d", img, w, h)
	if s, ok := r.sprites.Get(key); ok {
		return s
	}
	s := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(s, s.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	r.sprites.Set(key, s, int64(w*h*4))
	return s
}

func (r *Raster) DrawText(text string, x, y float64, style TextStyle) {
	if text == "" || math.Abs(r.state.sx) < minTextSqueeze*r.k {
		return
	}
	st := r.state
	r.text = append(r.text, TextRun{
		X:     int(math.Round(x*st.sx + st.tx)),
		Y:     int(math.Round(y*st.sy + st.ty)),
		Text:  text,
		Style: style,
	})
}
