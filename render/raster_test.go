package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flip-match/catalog"
)

var (
	red   = color.NRGBA{0xff, 0, 0, 0xff}
	green = color.NRGBA{0, 0xff, 0, 0xff}
)

func newTestRaster(t *testing.T, devW, devH int, lw, lh float64) *Raster {
	t.Helper()
	r, err := NewRaster(devW, devH, lw, lh)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	t.Cleanup(r.Close)
	r.Clear()
	return r
}

func rgbaOf(c color.NRGBA) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xff}
}

func TestRasterFillRect(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)
	r.FillRect(10, 10, 20, 20, red)

	if got := r.Image().RGBAAt(15, 15); got != rgbaOf(red) {
		t.Errorf("Expected red inside, got %v", got)
	}
	if got := r.Image().RGBAAt(5, 5); got != DefaultBackground {
		t.Errorf("Expected background outside, got %v", got)
	}
}

func TestRasterTransformStack(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)

	r.Save()
	r.Translate(50, 50)
	r.Scale(0.5, 1)
	r.FillRect(-10, -10, 20, 20, red)
	r.Restore()
	r.FillRect(0, 0, 2, 2, green)

	img := r.Image()
	if img.RGBAAt(46, 45) != rgbaOf(red) || img.RGBAAt(54, 58) != rgbaOf(red) {
		t.Error("Expected scaled rect between x 45..55, y 40..60")
	}
	if img.RGBAAt(43, 50) != DefaultBackground || img.RGBAAt(56, 50) != DefaultBackground {
		t.Error("Expected horizontal scale to narrow the rect")
	}
	if img.RGBAAt(1, 1) != rgbaOf(green) {
		t.Error("Expected Restore to reset the transform")
	}
}

func TestRasterGradientEnds(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)
	g := catalog.Gradient{From: color.RGBA{0, 0, 0, 0xff}, To: color.RGBA{0xff, 0xff, 0xff, 0xff}}
	r.FillGradient(0, 0, 100, 100, g)

	tl := r.Image().RGBAAt(0, 0)
	br := r.Image().RGBAAt(99, 99)
	if tl.R > 5 || br.R < 250 {
		t.Errorf("Expected dark top-left and light bottom-right, got %v %v", tl, br)
	}
	mid := r.Image().RGBAAt(99, 0)
	if mid.R < 120 || mid.R > 135 {
		t.Errorf("Expected mid tone on the anti-diagonal, got %v", mid)
	}
}

func TestRasterShadowOffset(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)
	r.SetShadow(Shadow{Color: color.NRGBA{0, 0, 0, 0xff}, OffsetX: 10, OffsetY: 10})
	r.FillRect(10, 10, 20, 20, red)

	if got := r.Image().RGBAAt(35, 35); got != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("Expected shadow below-right, got %v", got)
	}
	if got := r.Image().RGBAAt(15, 15); got != rgbaOf(red) {
		t.Errorf("Expected fill over shadow, got %v", got)
	}
}

func TestRasterFitsViewport(t *testing.T) {
	r := newTestRaster(t, 200, 100, 100, 100)
	x, y := r.ToLogical(60, 10)
	if x != 10 || y != 10 {
		t.Errorf("Expected (10,10), got (%v,%v)", x, y)
	}
	r.FillRect(0, 0, 100, 100, red)
	if r.Image().RGBAAt(40, 50) != DefaultBackground || r.Image().RGBAAt(60, 50) != rgbaOf(red) {
		t.Error("Expected canvas centered with side bars")
	}
}

func TestRasterDrawImage(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)
	src := image.NewUniform(color.RGBA{0, 0xff, 0, 0xff})
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, src.C)
		}
	}

	r.DrawImage(img, 20, 20, 10, 10)
	r.DrawImage(img, 60, 60, 10, 10)

	if got := r.Image().RGBAAt(25, 25); got != rgbaOf(green) {
		t.Errorf("Expected scaled image, got %v", got)
	}
	if got := r.Image().RGBAAt(65, 65); got != rgbaOf(green) {
		t.Errorf("Expected second draw from cached sprite, got %v", got)
	}
}

func TestRasterTextSqueezedOut(t *testing.T) {
	r := newTestRaster(t, 100, 100, 100, 100)
	r.DrawText("wide", 50, 50, LabelStyle)

	r.Save()
	r.Scale(0.3, 1)
	r.DrawText("narrow", 50, 50, LabelStyle)
	r.Restore()

	runs := r.Text()
	if len(runs) != 1 || runs[0].Text != "wide" || runs[0].X != 50 || runs[0].Y != 50 {
		t.Errorf("Expected one unsqueezed label, got %+v", runs)
	}

	r.Clear()
	if len(r.Text()) != 0 {
		t.Error("Expected Clear to drop labels")
	}
}

func TestPresentHalfBlocks(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(10, 5)

	devW, devH := CellSize(10, 4)
	r := newTestRaster(t, devW, devH, 10, 8)
	r.FillRect(0, 0, 10, 1, red)
	r.DrawText("ab", 5, 6, LabelStyle)

	Present(screen, r, 0, 1)

	ch, _, style, _ := screen.GetContent(3, 1)
	fg, bg, _ := style.Decompose()
	if ch != upperHalf {
		t.Errorf("Expected half block, got %q", ch)
	}
	if fg != tcell.NewRGBColor(0xff, 0, 0) {
		t.Errorf("Expected red top pixel, got %v", fg)
	}
	if bg != tcell.NewRGBColor(int32(DefaultBackground.R), int32(DefaultBackground.G), int32(DefaultBackground.B)) {
		t.Errorf("Expected background bottom pixel, got %v", bg)
	}

	// label centered on x=5 at device row 6 → cell row 3, shifted by oy
	if ch, _, _, _ := screen.GetContent(4, 4); ch != 'a' {
		t.Errorf("Expected 'a' at (4,4), got %q", ch)
	}
	if ch, _, _, _ := screen.GetContent(5, 4); ch != 'b' {
		t.Errorf("Expected 'b' at (5,4), got %q", ch)
	}
}

func TestImageCacheLoadsOnce(t *testing.T) {
	var loads, redraws atomic.Int32
	cache := NewImageCacheWithLoader(func(path string) (image.Image, error) {
		loads.Add(1)
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	}, func() { redraws.Add(1) })

	it, _ := catalog.Default().Lookup(4)
	if img := cache.Item(it); img != nil {
		t.Error("Expected first lookup to miss")
	}
	cache.Item(it)
	cache.Wait()

	if cache.Item(it) == nil {
		t.Error("Expected image after load")
	}
	if loads.Load() != 1 || redraws.Load() != 1 {
		t.Errorf("Expected one load and one redraw, got %d and %d", loads.Load(), redraws.Load())
	}
}

func TestImageCacheMissingFile(t *testing.T) {
	dir := t.TempDir()
	var redraws atomic.Int32
	cache := NewImageCache(dir, func() { redraws.Add(1) })

	cache.Logo()
	cache.Wait()
	if cache.Logo() != nil || redraws.Load() != 0 {
		t.Error("Expected failed load to stay empty without a redraw")
	}
}

func TestFileLoaderDecodesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img", "skins")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(path, "7.png"), 3, 2)

	img, err := FileLoader(dir)(catalog.ImagePath(7))
	if err != nil {
		t.Fatalf("Expected decode, got %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("Expected 3x2, got %v", b)
	}
}
