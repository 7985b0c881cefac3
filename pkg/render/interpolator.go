package render

import "github.com/taigrr/pixelpipe/pkg/math3d"

// Interpolator is the value the vertex stage hands to the fragment stage.
// It forms a vector space: the rasterizer combines three of them with
// barycentric weights.
type Interpolator struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    math3d.Color
}

// Scale multiplies every field by s.
func (i Interpolator) Scale(s float64) Interpolator {
	return Interpolator{
		Position: i.Position.Scale(s),
		Normal:   i.Normal.Scale(s),
		UV:       i.UV.Scale(s),
		Color:    i.Color.Scale(s),
	}
}

// Add returns the field-wise sum.
func (i Interpolator) Add(o Interpolator) Interpolator {
	return Interpolator{
		Position: i.Position.Add(o.Position),
		Normal:   i.Normal.Add(o.Normal),
		UV:       i.UV.Add(o.UV),
		Color:    i.Color.Add(o.Color),
	}
}

// Blend returns the affine combination w0·i0 + w1·i1 + w2·i2. Weights are
// screen-space barycentrics, so the result is not perspective-correct.
func Blend(i0, i1, i2 Interpolator, w0, w1, w2 float64) Interpolator {
	return i0.Scale(w0).Add(i1.Scale(w1)).Add(i2.Scale(w2))
}
