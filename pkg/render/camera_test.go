package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/pixelpipe/pkg/math3d"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(90, math3d.Zero3(), 100, 60)
	assert.InDelta(t, 50, cam.FocalLength, 1e-9)
	assert.Equal(t, 50.0, cam.HalfWidth)
	assert.Equal(t, 30.0, cam.HalfHeight)

	// 60° horizontal: f = W / (2 tan 30°)
	cam = NewCamera(60, math3d.V3(0, -5, 0), 160, 90)
	assert.InDelta(t, 80/math.Tan(math.Pi/6), cam.FocalLength, 1e-9)
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(90, math3d.Zero3(), 100, 100)

	tests := []struct {
		name   string
		point  math3d.Vec3
		want   math3d.Vec2
		inView bool
	}{
		{"on axis", math3d.V3(0, 5, 0), math3d.V2(50, 50), true},
		{"right and down", math3d.V3(10, 50, -20), math3d.V2(60, 30), true},
		{"perspective divide", math3d.V3(10, 100, 10), math3d.V2(55, 55), true},
		{"on camera plane", math3d.V3(1, 0, 1), math3d.Vec2{}, false},
		{"within epsilon", math3d.V3(1, NearEpsilon/2, 1), math3d.Vec2{}, false},
		{"behind", math3d.V3(0, -1, 0), math3d.Vec2{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := cam.Project(tc.point)
			assert.Equal(t, tc.inView, ok)
			if ok {
				assert.InDelta(t, tc.want.X, got.X, 1e-9)
				assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
			}
		})
	}
}

func TestCameraDepth(t *testing.T) {
	cam := NewCamera(60, math3d.V3(0, -5, 0), 160, 90)
	assert.Equal(t, math3d.V3(0, 1, 0), cam.Forward())
	assert.InDelta(t, 5, cam.Depth(math3d.V3(7, 0, -2)), 1e-12)
	assert.InDelta(t, -1, cam.Depth(math3d.V3(0, -6, 0)), 1e-12)
}

func BenchmarkCameraProject(b *testing.B) {
	cam := NewCamera(60, math3d.V3(0, -5, 0), 160, 90)
	p := math3d.V3(0.5, 0.5, 0.5)
	for b.Loop() {
		_, _ = cam.Project(p)
	}
}
