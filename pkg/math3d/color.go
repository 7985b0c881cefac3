package math3d

import (
	"image/color"
	"math"
)

// Color is a linear RGBA color with channels nominally in the 0-1 range.
// It behaves as a 4D vector so it can be blended like any other attribute.
type Color struct {
	R, G, B, A float64
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// RGBA creates a color with explicit alpha.
func RGBA(r, g, b, a float64) Color {
	return Color{r, g, b, a}
}

// Gray creates an opaque gray of intensity v.
func Gray(v float64) Color {
	return Color{v, v, v, 1}
}

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// Add returns the channel-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale multiplies every channel, alpha included, by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Mul returns the channel-wise product (tinting).
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Clamp limits every channel to [0, 1]. NaN becomes 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// RGBA8 converts to an 8-bit color.RGBA after clamping.
func (c Color) RGBA8() color.RGBA {
	c = c.Clamp()
	return color.RGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// FromRGBA8 converts an 8-bit color to a normalized Color.
func FromRGBA8(c color.RGBA) Color {
	return Color{
		float64(c.R) / 255,
		float64(c.G) / 255,
		float64(c.B) / 255,
		float64(c.A) / 255,
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
