package anim

import (
	"time"

	"github.com/lixenwraith/flip-match/tile"
)

// FlipState is the phase of a flip timeline
type FlipState int

const (
	Idle FlipState = iota
	RotatingOut
	FaceToggled
	RotatingIn
)

func (s FlipState) String() string {
	switch s {
	case Idle:
		return "idle"
	case RotatingOut:
		return "rotating-out"
	case FaceToggled:
		return "face-toggled"
	case RotatingIn:
		return "rotating-in"
	default:
		return "unknown"
	}
}

// Timeline is one in-flight flip of one tile
type Timeline struct {
	tile   *tile.Tile
	target bool
	start  time.Time
	half   time.Duration
	ease   Ease
	from   float64
	state  FlipState
	draw   func()
}

// State is the current phase
func (tl *Timeline) State() FlipState { return tl.state }

// Target is the face the tile ends on
func (tl *Timeline) Target() bool { return tl.target }

// Done reports whether the timeline completed or was cancelled
func (tl *Timeline) Done() bool { return tl.state == Idle }

// advance moves the timeline to now; the face toggle and the switch to the
// second half happen in the same call
func (tl *Timeline) advance(now time.Time) {
	if tl.state == Idle {
		return
	}
	elapsed := float64(now.Sub(tl.start))
	half := float64(tl.half)

	if tl.state == RotatingOut {
		p := progress(elapsed, half)
		tl.tile.FlipRotation = tl.from + (90-tl.from)*tl.ease(p)
		if p < 1 {
			tl.draw()
			return
		}
		tl.state = FaceToggled
	}

	if tl.state == FaceToggled {
		tl.tile.IsFlipped = tl.target
		tl.state = RotatingIn
	}

	p := progress(elapsed-half, half)
	tl.tile.FlipRotation = 90 * (1 - tl.ease(p))
	tl.draw()
	if p >= 1 {
		tl.tile.FlipRotation = 0
		tl.tile.Animating = false
		tl.state = Idle
	}
}

// AnimateFlip starts flipping t toward isFlipping. Any timeline already
// running on t is cancelled first, leaving FlipRotation where it stopped;
// the new rotation continues from there. playSound fires once at start and
// draw after every step; either may be nil.
func (c *Controller) AnimateFlip(t *tile.Tile, isFlipping bool, duration time.Duration, ease Ease, playSound func(), draw func()) *Timeline {
	c.Cancel(t)

	if playSound != nil {
		playSound()
	}
	if ease == nil {
		ease = ExpoInOut
	}
	if duration < 0 {
		duration = 0
	}
	redraw := c.draw
	if draw != nil {
		redraw = draw
	}

	t.Animating = true
	tl := &Timeline{
		tile:   t,
		target: isFlipping,
		start:  c.clk.Now(),
		half:   duration / 2,
		ease:   ease,
		from:   t.FlipRotation,
		state:  RotatingOut,
		draw:   redraw,
	}
	c.timelines = append(c.timelines, tl)
	c.statFlips.Add(1)
	return tl
}

// Cancel stops the timeline running on t, if any. FlipRotation keeps its
// current value and IsFlipped is not touched.
func (c *Controller) Cancel(t *tile.Tile) {
	for i, tl := range c.timelines {
		if tl.tile != t {
			continue
		}
		tl.state = Idle
		t.Animating = false
		c.timelines = append(c.timelines[:i], c.timelines[i+1:]...)
		return
	}
}
