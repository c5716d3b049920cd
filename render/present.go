package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// upperHalf paints the top pixel as foreground and the bottom as background
const upperHalf = '▀'

// CellSize is the device image size that fills cols×rows terminal cells
func CellSize(cols, rows int) (int, int) {
	return cols, rows * 2
}

// CellToDevice maps a terminal cell to the center of its two device pixels
func CellToDevice(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row*2) + 1
}

// Present copies r onto screen starting at cell (ox, oy): two device pixel
// rows per cell using half blocks, then recorded labels as glyphs. It does
// not call Show.
func Present(screen tcell.Screen, r *Raster, ox, oy int) {
	img := r.Image()
	b := img.Bounds()
	sw, sh := screen.Size()

	for py := b.Min.Y; py < b.Max.Y; py += 2 {
		row := oy + (py-b.Min.Y)/2
		if row < 0 || row >= sh {
			continue
		}
		for px := b.Min.X; px < b.Max.X; px++ {
			col := ox + px - b.Min.X
			if col < 0 || col >= sw {
				continue
			}
			top := img.RGBAAt(px, py)
			bottom := top
			if py+1 < b.Max.Y {
				bottom = img.RGBAAt(px, py+1)
			}
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			screen.SetContent(col, row, upperHalf, nil, style)
		}
	}

	for _, run := range r.Text() {
		presentText(screen, r, run, ox, oy)
	}
}

func presentText(screen tcell.Screen, r *Raster, run TextRun, ox, oy int) {
	img := r.Image()
	sw, sh := screen.Size()
	row := oy + run.Y/2
	if row < 0 || row >= sh {
		return
	}

	col := ox + run.X - runewidth.StringWidth(run.Text)/2
	for _, ch := range run.Text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= sw {
			px, py := col-ox, (row-oy)*2
			bg := average(img.RGBAAt(px, py), img.RGBAAt(px, py+1))
			style := tcell.StyleDefault.
				Foreground(toColor(color.RGBA(nrgbaOpaque(run.Style.Color)))).
				Background(toColor(bg)).
				Bold(run.Style.Bold)
			screen.SetContent(col, row, ch, nil, style)
		}
		col += w
	}
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func nrgbaOpaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
