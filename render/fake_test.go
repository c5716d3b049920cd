package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/lixenwraith/flip-match/catalog"
)

// recorder is a Surface that logs every call
type recorder struct {
	w, h  float64
	calls []string
	depth int
	// panicOn makes FillGradient panic when the tile skin name matches
	panicOn string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Size() (float64, float64) { return r.w, r.h }
func (r *recorder) Clear()                    { r.add("clear") }
func (r *recorder) Save()                     { r.depth++; r.add("save") }
func (r *recorder) Restore()                  { r.depth--; r.add("restore") }
func (r *recorder) Translate(x, y float64)    { r.add("translate %.1f %.1f", x, y) }
func (r *recorder) Scale(sx, sy float64)      { r.add("scale %.3f %.3f", sx, sy) }
func (r *recorder) SetShadow(s Shadow) {
	r.add("shadow %d blur=%.2f off=%.2f,%.2f", s.Color.A, s.Blur, s.OffsetX, s.OffsetY)
}
func (r *recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.add("fill %.1f %.1f %.1f %.1f #%02x%02x%02x%02x", x, y, w, h, c.R, c.G, c.B, c.A)
}
func (r *recorder) FillGradient(x, y, w, h float64, g catalog.Gradient) {
	r.add("gradient %.1f %.1f %.1f %.1f", x, y, w, h)
}
func (r *recorder) StrokeRect(x, y, w, h, lw float64, c color.NRGBA) {
	r.add("stroke %.1f %.1f %.1f %.1f %.1f", x, y, w, h, lw)
}
func (r *recorder) DrawImage(img image.Image, x, y, w, h float64) {
	r.add("image %.1f %.1f %.1f %.1f", x, y, w, h)
}
func (r *recorder) DrawText(text string, x, y float64, style TextStyle) {
	if text == r.panicOn {
		panic("boom")
	}
	r.add("text %s %.1f %.1f", text, x, y)
}

// fixedImages serves in-memory images without loading
type fixedImages struct {
	item image.Image
	logo image.Image
}

func (f fixedImages) Item(catalog.Item) image.Image { return f.item }
func (f fixedImages) Logo() image.Image             { return f.logo }

func writePNG(t testing.TB, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}
