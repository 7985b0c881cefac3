package render

import (
	"math"

	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// AreaEpsilon is the smallest absolute signed area (twice the triangle area,
// in square pixels) a triangle may have and still be rasterized.
const AreaEpsilon = 1e-9

// EdgeFunction returns (b-a) × (c-a): twice the signed area of triangle abc.
// It is positive when a, b, c wind counter-clockwise in a Y-up frame, and
// its sign tells which side of edge ab the point c lies on.
func EdgeFunction(a, b, c math3d.Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Covers reports whether p passes the coverage test for triangle abc: all
// three edge functions, taken a→b, b→c, c→a, are ≤ 0. Only triangles with
// non-positive signed area can cover anything.
func Covers(a, b, c, p math3d.Vec2) bool {
	return EdgeFunction(a, b, p) <= 0 &&
		EdgeFunction(b, c, p) <= 0 &&
		EdgeFunction(c, a, p) <= 0
}

// Barycentric returns the weights of p relative to triangle abc. Each of
// the first two is a sub-triangle area over the whole area; the third is
// whatever remains, so the weights always sum to 1. area must be
// EdgeFunction(a, b, c) and non-zero.
func Barycentric(a, b, c, p math3d.Vec2, area float64) (w0, w1, w2 float64) {
	w0 = EdgeFunction(b, c, p) / area
	w1 = EdgeFunction(c, a, p) / area
	return w0, w1, 1 - w0 - w1
}

// pixelRect is an inclusive integer pixel range.
type pixelRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Empty reports whether the rect contains no pixels.
func (r pixelRect) Empty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// boundingBox returns the pixels spanned by triangle abc: floor of the
// minimum and ceil of the maximum per axis, clamped to [0,width) × [0,height).
func boundingBox(a, b, c math3d.Vec2, width, height int) pixelRect {
	lo := a.Min(b).Min(c)
	hi := a.Max(b).Max(c)

	return pixelRect{
		MinX: max(0, clampPixel(math.Floor(lo.X), width)),
		MinY: max(0, clampPixel(math.Floor(lo.Y), height)),
		MaxX: min(width-1, clampPixel(math.Ceil(hi.X), width)),
		MaxY: min(height-1, clampPixel(math.Ceil(hi.Y), height)),
	}
}

// clampPixel limits v to [-1, n] before the integer conversion so that far
// off-screen coordinates cannot overflow.
func clampPixel(v float64, n int) int {
	return int(math.Max(-1, math.Min(float64(n), v)))
}
