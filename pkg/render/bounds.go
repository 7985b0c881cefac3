package render

import (
	"math"

	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: n·p + D = 0.
// Points with positive distance are in front of the plane.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// DistanceToPoint returns the signed distance from the plane to a point,
// scaled by the normal's length.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// BoxBehind reports whether the whole box lies on the negative side of the
// plane. Only the corner furthest along the normal needs testing.
func (p Plane) BoxBehind(box AABB) bool {
	pVertex := math3d.V3(
		selectComponent(p.Normal.X >= 0, box.Max.X, box.Min.X),
		selectComponent(p.Normal.Y >= 0, box.Max.Y, box.Min.Y),
		selectComponent(p.Normal.Z >= 0, box.Max.Z, box.Min.Z),
	)
	return p.DistanceToPoint(pVertex) <= 0
}

// NearPlane returns the plane NearEpsilon in front of the camera, facing
// forward. Anything on or behind it cannot be projected.
func (c *Camera) NearPlane() Plane {
	n := c.Forward()
	return Plane{Normal: n, D: -n.Dot(c.Position) - NearEpsilon}
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// EmptyAABB returns an inverted box that any Expand call replaces.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: math3d.V3(inf, inf, inf), Max: math3d.V3(-inf, -inf, -inf)}
}

// Expand grows the box to include p.
func (b AABB) Expand(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
