package anim

import (
	"math"
	"strings"
)

// Ease maps linear progress in [0,1] to eased progress
type Ease func(p float64) float64

// Linear is the identity curve
func Linear(p float64) float64 { return p }

// ExpoInOut decelerates into the midpoint and accelerates out of it
func ExpoInOut(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	case p < 0.5:
		return math.Pow(2, 20*p-10) / 2
	default:
		return (2 - math.Pow(2, -20*p+10)) / 2
	}
}

// SineInOut is a gentle symmetric curve used by the confetti pulses
func SineInOut(p float64) float64 {
	return -(math.Cos(math.Pi*p) - 1) / 2
}

// EaseByName resolves "linear", "expo.inOut" or "sine.inOut"; unknown names
// get ExpoInOut
func EaseByName(name string) Ease {
	switch strings.ToLower(name) {
	case "linear", "none":
		return Linear
	case "sine.inout":
		return SineInOut
	default:
		return ExpoInOut
	}
}

// progress is elapsed/total clamped to [0,1]; a non-positive total is complete
func progress(elapsed, total float64) float64 {
	if total <= 0 {
		return 1
	}
	p := elapsed / total
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// yoyo folds repeating progress into a triangle wave in [0,1]
func yoyo(phase float64) float64 {
	if phase < 0 {
		return 0
	}
	cycle := math.Floor(phase)
	frac := phase - cycle
	if int64(cycle)%2 == 1 {
		return 1 - frac
	}
	return frac
}
