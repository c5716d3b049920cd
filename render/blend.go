package render

import "image/color"

// clamp converts float to uint8 with rounding
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}

// lerp mixes a toward b: a*(1-t) + b*t
func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	inv := 1.0 - t
	return color.NRGBA{
		R: clamp(float64(a.R)*inv + float64(b.R)*t),
		G: clamp(float64(a.G)*inv + float64(b.G)*t),
		B: clamp(float64(a.B)*inv + float64(b.B)*t),
		A: clamp(float64(a.A)*inv + float64(b.A)*t),
	}
}

// over composites straight-alpha src onto an opaque dst pixel
func over(dst color.RGBA, src color.NRGBA) color.RGBA {
	switch src.A {
	case 0:
		return dst
	case 255:
		return color.RGBA{src.R, src.G, src.B, 255}
	}
	alpha := float64(src.A) / 255.0
	inv := 1.0 - alpha
	return color.RGBA{
		R: clamp(float64(src.R)*alpha + float64(dst.R)*inv),
		G: clamp(float64(src.G)*alpha + float64(dst.G)*inv),
		B: clamp(float64(src.B)*alpha + float64(dst.B)*inv),
		A: 255,
	}
}

// average mixes two opaque pixels evenly
func average(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((uint16(a.R) + uint16(b.R)) / 2),
		G: uint8((uint16(a.G) + uint16(b.G)) / 2),
		B: uint8((uint16(a.B) + uint16(b.B)) / 2),
		A: 255,
	}
}
