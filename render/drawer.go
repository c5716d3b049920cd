// Package render draws the board onto a Surface. The raster surface and its
// tcell presenter live here too; the windowed surface is in render/gui.
package render

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/status"
	"github.com/lixenwraith/flip-match/tile"
)

// Face layout in tile pixels
const (
	imageMarginX  = 20
	imageMarginY  = 40
	imageLift     = 10
	weaponLabelDy = 25
	skinLabelDy   = 10
	frameInset    = 8
	frameWidth    = 4
	logoSize      = 40
	labelSize     = 12
	labelStroke   = 3
)

var (
	ShadowColor = color.NRGBA{0, 0, 0, 77}
	CardBack    = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	CardFrame   = color.NRGBA{0x55, 0x55, 0x55, 0xff}
	LabelStyle  = TextStyle{
		Color:       color.NRGBA{0xff, 0xff, 0xff, 0xff},
		Stroke:      color.NRGBA{0, 0, 0, 179},
		StrokeWidth: labelStroke,
		Size:        labelSize,
		Bold:        true,
	}
)

// Images is the subset of ImageCache the drawer reads
type Images interface {
	Item(it catalog.Item) image.Image
	Logo() image.Image
}

// DrawerOptions wires a Drawer
type DrawerOptions struct {
	Surface Surface
	Tiles   func() []*tile.Tile
	Images  Images
	// Confetti returns particles drawn above the tiles; nil draws none
	Confetti func() []*anim.Particle
	Metrics  *status.Registry
}

// Drawer paints tiles and confetti onto a surface
type Drawer struct {
	surface  Surface
	tiles    func() []*tile.Tile
	images   Images
	confetti func() []*anim.Particle

	frames *atomic.Int64
	faults *atomic.Int64
}

// NewDrawer creates a drawer
func NewDrawer(opts DrawerOptions) *Drawer {
	if opts.Metrics == nil {
		opts.Metrics = status.Default
	}
	if opts.Tiles == nil {
		opts.Tiles = func() []*tile.Tile { return nil }
	}
	if opts.Confetti == nil {
		opts.Confetti = func() []*anim.Particle { return nil }
	}
	return &Drawer{
		surface:  opts.Surface,
		tiles:    opts.Tiles,
		images:   opts.Images,
		confetti: opts.Confetti,
		frames:   opts.Metrics.Counter("render.frames"),
		faults:   opts.Metrics.Counter("render.tile_faults"),
	}
}

// Surface is the current target
func (d *Drawer) Surface() Surface { return d.surface }

// SetSurface swaps the target, for front ends that rebuild it on resize
func (d *Drawer) SetSurface(s Surface) { d.surface = s }

// Faults counts tiles whose draw panicked
func (d *Drawer) Faults() int64 { return d.faults.Load() }

// Draw clears the surface and paints every tile in collection order, then
// the confetti layer
func (d *Drawer) Draw() {
	if d.surface == nil {
		return
	}
	d.surface.Clear()
	for _, t := range d.tiles() {
		d.DrawTile(t)
	}
	d.drawConfetti()
	d.frames.Add(1)
}

// DrawTile paints one tile. A panic inside is recovered: the surface state
// is popped, the fault is logged and counted, and the caller carries on.
func (d *Drawer) DrawTile(t *tile.Tile) {
	s := d.surface
	s.Save()
	defer func() {
		if r := recover(); r != nil {
			d.faults.Add(1)
			log.WithField("skin", t.Skin.ID).Errorf("tile draw failed: %v", r)
		}
		s.Restore()
	}()

	cx, cy := t.Center()
	s.Translate(cx, cy)
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	s.Scale(scale, scale)
	s.Scale(math.Cos(t.FlipRotation*math.Pi/180), 1)

	if tilt := math.Abs(t.RotateX) + math.Abs(t.RotateY); tilt > 0 {
		s.SetShadow(Shadow{
			Color:   ShadowColor,
			Blur:    tilt / 2,
			OffsetX: t.RotateY / 4,
			OffsetY: t.RotateX / 4,
		})
	}

	w, h := t.Width, t.Height
	s.Translate(-w/2, -h/2)

	if t.FaceUp() {
		d.drawFace(t, w, h)
	} else {
		d.drawBack(w, h)
	}
}

func (d *Drawer) drawFace(t *tile.Tile, w, h float64) {
	s := d.surface
	s.FillGradient(0, 0, w, h, catalog.GradientFor(t.Skin.Rarity))

	if d.images != nil {
		if img := d.images.Item(t.Skin); img != nil {
			iw, ih := fitImage(img, w-imageMarginX, h-imageMarginY)
			s.DrawImage(img, (w-iw)/2, (h-ih)/2-imageLift, iw, ih)
		}
	}

	s.DrawText(t.Skin.WeaponName, w/2, h-weaponLabelDy, LabelStyle)
	s.DrawText(t.Skin.SkinName, w/2, h-skinLabelDy, LabelStyle)
}

func (d *Drawer) drawBack(w, h float64) {
	s := d.surface
	s.FillRect(0, 0, w, h, CardBack)
	s.StrokeRect(frameInset, frameInset, w-2*frameInset, h-2*frameInset, frameWidth, CardFrame)
	if d.images != nil {
		if logo := d.images.Logo(); logo != nil {
			s.DrawImage(logo, w/2-logoSize/2, h/2-logoSize/2, logoSize, logoSize)
		}
	}
}

// fitImage scales to maxW keeping aspect, then caps the height at maxH
func fitImage(img image.Image, maxW, maxH float64) (float64, float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return 0, 0
	}
	aspect := float64(b.Dx()) / float64(b.Dy())
	iw, ih := maxW, maxW/aspect
	if ih > maxH {
		ih = maxH
		iw = maxH * aspect
	}
	return iw, ih
}

// drawConfetti paints each particle as a rectangle whose width follows the
// cosine of its spin
func (d *Drawer) drawConfetti() {
	s := d.surface
	for _, p := range d.confetti() {
		c := color.NRGBA(p.Color)
		c.A = uint8(math.Round(float64(c.A) * clamp01(p.Opacity)))
		if c.A == 0 {
			continue
		}
		s.Save()
		s.Translate(p.X+p.W/2, p.Y+p.H/2)
		s.Scale(p.Scale*math.Abs(math.Cos(p.Rotation*math.Pi/180)), p.Scale)
		s.FillRect(-p.W/2, -p.H/2, p.W, p.H, c)
		s.Restore()
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
