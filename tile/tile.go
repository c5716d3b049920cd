// Package tile builds the board: one Tile per grid cell, placed either from a
// shuffled random pick of catalog items or verbatim from a seed.
package tile

import (
	"github.com/lixenwraith/flip-match/catalog"
)

// Tile is one grid cell bound to a catalog item
type Tile struct {
	X, Y          float64
	Width, Height float64
	Skin          catalog.Item

	IsFlipped bool
	IsMatched bool

	// Render state written by the animation controller
	RotateX      float64
	RotateY      float64
	Scale        float64
	FlipRotation float64
	Animating    bool
}

// Center returns the tile center in canvas pixels
func (t *Tile) Center() (float64, float64) {
	return t.X + t.Width/2, t.Y + t.Height/2
}

// Contains reports whether the canvas point lies inside the tile rectangle
func (t *Tile) Contains(x, y float64) bool {
	return x >= t.X && x < t.X+t.Width && y >= t.Y && y < t.Y+t.Height
}

// FaceUp reports whether the item side is shown
func (t *Tile) FaceUp() bool {
	return t.IsFlipped || t.IsMatched
}
