package render

import (
	"math"

	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// NearEpsilon is the smallest forward distance a vertex may have from the
// camera and still be projected.
const NearEpsilon = 1e-6

// Camera is a fixed pinhole camera looking down world +Y. Screen X follows
// world X and screen Y follows world Z, with the principal point at the
// center of the image.
type Camera struct {
	FOV      float64     // Horizontal field of view in degrees
	Position math3d.Vec3 // World position

	// Projection plane, derived once from FOV and resolution
	HalfWidth   float64
	HalfHeight  float64
	FocalLength float64
}

// NewCamera derives the projection plane for a width×height image.
func NewCamera(fovDegrees float64, position math3d.Vec3, width, height int) *Camera {
	return &Camera{
		FOV:         fovDegrees,
		Position:    position,
		HalfWidth:   float64(width) / 2,
		HalfHeight:  float64(height) / 2,
		FocalLength: float64(width) / (2 * math.Tan(fovDegrees*math.Pi/180/2)),
	}
}

// Forward returns the viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(0, 1, 0)
}

// Depth returns the distance of p in front of the camera along Forward.
func (c *Camera) Depth(p math3d.Vec3) float64 {
	return p.Sub(c.Position).Dot(c.Forward())
}

// Project maps a world point to screen space. ok is false when the point is
// not at least NearEpsilon in front of the camera; the returned point is
// then meaningless.
func (c *Camera) Project(p math3d.Vec3) (screen math3d.Vec2, ok bool) {
	rel := p.Sub(c.Position)
	if !(rel.Y > NearEpsilon) {
		return math3d.Vec2{}, false
	}
	k := c.FocalLength / rel.Y
	return math3d.V2(rel.X*k+c.HalfWidth, rel.Z*k+c.HalfHeight), true
}
