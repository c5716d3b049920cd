// Package anim drives the two continuous board effects, tile flips and
// pointer parallax, plus the win confetti. Nothing here owns a goroutine or
// a timer: the front end calls Step once per frame and PointerMove on input.
package anim

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/status"
	"github.com/lixenwraith/flip-match/tile"
)

const (
	DefaultFlipDuration = 220 * time.Millisecond
	ParallaxThrottle    = 16 * time.Millisecond
	MaxTilt             = 15.0
	MaxScaleBonus       = 0.05
	tiltEpsilon         = 0.1
	scaleEpsilon        = 0.001
)

// Options wires a Controller to the board it animates
type Options struct {
	Clock clock.Clock
	// Tiles returns the live collection
	Tiles func() []*tile.Tile
	// Canvas returns the canvas size; zero means no canvas
	Canvas func() (w, h float64)
	// Draw invalidates the render engine
	Draw func()
	// Suspended gates parallax; nil gates on active flips
	Suspended func() bool
	Rand      *rand.Rand
	Metrics   *status.Registry
}

// Controller owns per-tile flip timelines, pointer state and the confetti burst
type Controller struct {
	clk       clock.Clock
	tiles     func() []*tile.Tile
	canvas    func() (float64, float64)
	draw      func()
	suspended func() bool

	timelines []*Timeline

	pointerX, pointerY float64
	lastParallax       time.Time

	confetti *Confetti

	statFlips  *atomic.Int64
	statActive *status.Gauge
}

// NewController creates a controller; missing callbacks become no-ops
func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Tiles == nil {
		opts.Tiles = func() []*tile.Tile { return nil }
	}
	if opts.Canvas == nil {
		opts.Canvas = func() (float64, float64) { return 0, 0 }
	}
	if opts.Draw == nil {
		opts.Draw = func() {}
	}
	if opts.Metrics == nil {
		opts.Metrics = status.Default
	}
	if opts.Rand == nil {
		now := uint64(opts.Clock.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(now, now^0x9e3779b97f4a7c15))
	}

	c := &Controller{
		clk:        opts.Clock,
		tiles:      opts.Tiles,
		canvas:     opts.Canvas,
		draw:       opts.Draw,
		confetti:   newConfetti(opts.Rand),
		statFlips:  opts.Metrics.Counter("anim.flips"),
		statActive: opts.Metrics.Gauge("anim.active"),
	}
	c.suspended = opts.Suspended
	if c.suspended == nil {
		c.suspended = c.Busy
	}
	return c
}

// Busy reports whether any flip timeline is in flight
func (c *Controller) Busy() bool {
	return len(c.timelines) > 0
}

// Timeline returns the in-flight timeline for t, or nil
func (c *Controller) Timeline(t *tile.Tile) *Timeline {
	for _, tl := range c.timelines {
		if tl.tile == t {
			return tl
		}
	}
	return nil
}

// Step advances every timeline and the confetti to now and reports whether
// anything is still animating
func (c *Controller) Step(now time.Time) bool {
	live := c.timelines[:0]
	for _, tl := range c.timelines {
		tl.advance(now)
		if tl.state != Idle {
			live = append(live, tl)
		}
	}
	for i := len(live); i < len(c.timelines); i++ {
		c.timelines[i] = nil
	}
	c.timelines = live
	c.statActive.Set(float64(len(live)))

	if c.confetti.Active() {
		c.confetti.Step(now)
		c.draw()
	}
	return len(live) > 0 || c.confetti.Active()
}

// Pointer returns the last recorded pointer position in canvas pixels
func (c *Controller) Pointer() (float64, float64) {
	return c.pointerX, c.pointerY
}

// Confetti exposes the particle burst for drawing
func (c *Controller) Confetti() *Confetti { return c.confetti }

// Celebrate starts a confetti burst over a w×h viewport
func (c *Controller) Celebrate(w, h float64) {
	c.confetti.Burst(c.clk.Now(), w, h)
	c.draw()
}

// CleanupConfetti cancels every particle effect and empties the burst
func (c *Controller) CleanupConfetti() {
	if c.confetti.Active() {
		c.confetti.Cleanup()
		c.draw()
	}
}

// Close cancels every timeline and the confetti
func (c *Controller) Close() {
	for _, tl := range c.timelines {
		tl.tile.Animating = false
		tl.state = Idle
	}
	c.timelines = nil
	c.confetti.Cleanup()
}
