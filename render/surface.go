package render

import (
	"image"
	"image/color"

	"github.com/lixenwraith/flip-match/catalog"
)

// Surface is a 2D drawing target with a canvas-style state stack. Transforms
// are limited to translate and scale, so every shape stays axis-aligned.
type Surface interface {
	// Size is the logical canvas size in pixels
	Size() (w, h float64)
	Clear()
	// Save pushes transform and shadow; Restore pops them
	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	SetShadow(s Shadow)
	FillRect(x, y, w, h float64, c color.NRGBA)
	// FillGradient fills with a linear gradient from the top-left to the
	// bottom-right corner of the rectangle
	FillGradient(x, y, w, h float64, g catalog.Gradient)
	// StrokeRect outlines the rectangle with a line centered on its edge
	StrokeRect(x, y, w, h, lineWidth float64, c color.NRGBA)
	DrawImage(img image.Image, x, y, w, h float64)
	// DrawText draws a single line centered horizontally on x with its
	// baseline at y
	DrawText(text string, x, y float64, style TextStyle)
}

// Shadow is a drop shadow applied to subsequent fills; zero value disables it
type Shadow struct {
	Color   color.NRGBA
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Enabled reports whether the shadow draws anything
func (s Shadow) Enabled() bool {
	return s.Color.A > 0 && (s.Blur > 0 || s.OffsetX != 0 || s.OffsetY != 0)
}

// TextStyle describes an outlined label
type TextStyle struct {
	Color       color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	Size        float64
	Bold        bool
}
