package anim

import "math"

// PointerMove records the pointer in canvas pixels and recomputes tilt for
// every tile. Updates are skipped while suspended, without a canvas, or when
// less than ParallaxThrottle has passed since the last applied update.
func (c *Controller) PointerMove(x, y float64) {
	if c.suspended() {
		return
	}
	c.pointerX, c.pointerY = x, y

	w, h := c.canvas()
	if w <= 0 || h <= 0 {
		return
	}

	now := c.clk.Now()
	if !c.lastParallax.IsZero() && now.Sub(c.lastParallax) < ParallaxThrottle {
		return
	}
	c.lastParallax = now

	if c.applyParallax(w, h) {
		c.draw()
	}
}

// applyParallax updates tilt and scale and reports whether any tile changed
// enough to be visible. Tilt and scale pass their thresholds independently.
func (c *Controller) applyParallax(w, h float64) bool {
	changed := false
	for _, t := range c.tiles() {
		cx, cy := t.Center()
		dx := (c.pointerX - cx) / w
		dy := (c.pointerY - cy) / h

		rotateX := -dy * MaxTilt
		rotateY := dx * MaxTilt
		dist := math.Hypot(dx, dy)
		scale := 1 + MaxScaleBonus*math.Max(0, 0.5-dist)

		if math.Abs(t.RotateX-rotateX) > tiltEpsilon || math.Abs(t.RotateY-rotateY) > tiltEpsilon {
			t.RotateX = rotateX
			t.RotateY = rotateY
			changed = true
		}
		if math.Abs(t.Scale-scale) > scaleEpsilon {
			t.Scale = scale
			changed = true
		}
	}
	return changed
}
