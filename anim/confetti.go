package anim

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"
)

const (
	ConfettiCount = 120
	confettiSpin  = 360.0
	confettiSway  = 75.0
)

// ConfettiPalette is the fixed particle color set
var ConfettiPalette = []color.RGBA{
	{0xFF, 0x6B, 0x6B, 0xFF}, {0x4E, 0xCD, 0xC4, 0xFF}, {0x45, 0xB7, 0xD1, 0xFF}, {0x96, 0xCE, 0xB4, 0xFF},
	{0xFF, 0xEA, 0xA7, 0xFF}, {0xDD, 0xA0, 0xDD, 0xFF}, {0x98, 0xD8, 0xC8, 0xFF}, {0xF7, 0xDC, 0x6F, 0xFF},
	{0xBB, 0x8F, 0xCE, 0xFF}, {0x85, 0xC1, 0xE9, 0xFF}, {0xF8, 0xC4, 0x71, 0xFF}, {0x82, 0xE0, 0xAA, 0xFF},
	{0xFF, 0xB6, 0xC1, 0xFF}, {0x87, 0xCE, 0xEB, 0xFF}, {0xF0, 0xE6, 0x8C, 0xFF}, {0xDD, 0xA0, 0xDD, 0xFF},
}

// Particle is one confetti rectangle; the exported fields are the values to
// draw at the current step
type Particle struct {
	X, Y     float64
	W, H     float64
	Color    color.RGBA
	Rotation float64
	Opacity  float64
	Scale    float64

	originX, originY float64
	delay            time.Duration

	fall     time.Duration
	fallDist float64

	sway       float64
	swayPeriod time.Duration

	spin       float64
	spinPeriod time.Duration

	opacityTo     float64
	opacityPeriod time.Duration

	pulse       bool
	scaleTo     float64
	scalePeriod time.Duration
}

// Confetti is a burst of looping particles
type Confetti struct {
	rng       *rand.Rand
	particles []*Particle
	start     time.Time
}

func newConfetti(rng *rand.Rand) *Confetti {
	return &Confetti{rng: rng}
}

// Active reports whether a burst is running
func (c *Confetti) Active() bool { return len(c.particles) > 0 }

// Particles returns the live particles in draw order
func (c *Confetti) Particles() []*Particle { return c.particles }

// Burst replaces any running burst with ConfettiCount new particles spread
// over a w×h viewport, starting above its top edge
func (c *Confetti) Burst(now time.Time, w, h float64) {
	c.Cleanup()
	c.start = now
	c.particles = make([]*Particle, 0, ConfettiCount)
	for i := 0; i < ConfettiCount; i++ {
		c.particles = append(c.particles, c.spawn(w, h))
	}
}

func (c *Confetti) spawn(w, h float64) *Particle {
	r := c.rng
	size := r.Float64()*8 + 4
	between := func(lo, hi float64) time.Duration {
		return time.Duration((lo + r.Float64()*(hi-lo)) * float64(time.Second))
	}

	p := &Particle{
		W:       size * 1.5,
		H:       size * 0.6,
		Color:   ConfettiPalette[r.IntN(len(ConfettiPalette))],
		Opacity: 1,
		Scale:   1,

		originX: r.Float64() * w,
		originY: -r.Float64()*300 - 50,
		delay:   between(0, 3),

		fall:     between(2, 5),
		fallDist: h + 100,

		sway:       (r.Float64()*2 - 1) * confettiSway,
		swayPeriod: between(1.5, 4.5),

		spin:       (r.Float64()*2 - 1) * confettiSpin,
		spinPeriod: between(2, 6),

		opacityTo:     0.3 + r.Float64()*0.4,
		opacityPeriod: between(1, 3),
	}
	if r.Float64() < 0.3 {
		p.pulse = true
		p.scaleTo = 0.5 + r.Float64()*0.5
		p.scalePeriod = between(1, 3)
	}
	p.X, p.Y = p.originX, p.originY
	return p
}

// Step moves every particle to its position at now. Falling and spinning
// repeat linearly; sway, opacity and pulse run back and forth.
func (c *Confetti) Step(now time.Time) {
	for _, p := range c.particles {
		t := now.Sub(c.start) - p.delay
		if t < 0 {
			continue
		}
		secs := t.Seconds()

		p.Y = p.originY + p.fallDist*frac(secs/p.fall.Seconds())
		p.X = p.originX + p.sway*SineInOut(yoyo(secs/p.swayPeriod.Seconds()))
		p.Rotation = p.spin * frac(secs/p.spinPeriod.Seconds())
		p.Opacity = 1 + (p.opacityTo-1)*SineInOut(yoyo(secs/p.opacityPeriod.Seconds()))
		if p.pulse {
			p.Scale = 1 + (p.scaleTo-1)*SineInOut(yoyo(secs/p.scalePeriod.Seconds()))
		}
	}
}

// Cleanup drops every particle; safe to call repeatedly
func (c *Confetti) Cleanup() {
	c.particles = nil
}

func frac(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return 0
	}
	return x - math.Floor(x)
}
