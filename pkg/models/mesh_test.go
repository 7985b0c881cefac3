package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/pixelpipe/pkg/math3d"
)

const eps = 1e-9

func expectedTransform(p, r, s math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(p).
		Mul(math3d.RotateZ(r.Z)).
		Mul(math3d.RotateY(r.Y)).
		Mul(math3d.RotateX(r.X)).
		Mul(math3d.Scale(s))
}

func TestNewMeshIdentityPose(t *testing.T) {
	m, err := NewMesh("empty", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, math3d.Zero3(), m.Position())
	assert.Equal(t, math3d.Zero3(), m.Rotation())
	assert.Equal(t, math3d.One3(), m.Scale())
	assert.True(t, m.Transform().ApproxEqual(math3d.Identity(), eps))
}

func TestNewMeshRejectsBadIndices(t *testing.T) {
	verts := []Vertex{{}, {}, {}}

	tests := []struct {
		name string
		tris [][3]int
	}{
		{"past end", [][3]int{{0, 1, 3}}},
		{"negative", [][3]int{{0, -1, 2}}},
		{"second triangle", [][3]int{{0, 1, 2}, {2, 1, 7}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMesh("bad", verts, tc.tris)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIndexOutOfRange), "got %v", err)
		})
	}
}

func TestPoseSettersRecomputeTransform(t *testing.T) {
	poses := []struct {
		name    string
		p, r, s math3d.Vec3
	}{
		{"identity", math3d.Zero3(), math3d.Zero3(), math3d.One3()},
		{"translate only", math3d.V3(1, -2, 3), math3d.Zero3(), math3d.One3()},
		{"all axes", math3d.V3(0.5, 4, -1), math3d.V3(0.3, 1.2, -2.1), math3d.V3(2, 0.5, 3)},
		{"large angles wrap", math3d.Zero3(), math3d.V3(10*math.Pi, -7, 100), math3d.One3()},
	}

	for _, tc := range poses {
		t.Run(tc.name, func(t *testing.T) {
			m := Cube()
			m.SetPosition(tc.p)
			m.SetRotation(tc.r)
			m.SetScale(tc.s)

			want := expectedTransform(tc.p, tc.r, tc.s)
			assert.True(t, m.Transform().ApproxEqual(want, eps), "setters: got %v want %v", m.Transform(), want)

			other := Cube()
			other.SetPose(tc.p, tc.r, tc.s)
			assert.True(t, other.Transform().ApproxEqual(want, eps), "SetPose: got %v want %v", other.Transform(), want)
		})
	}
}

func TestEachSetterUpdatesImmediately(t *testing.T) {
	m := Cube()

	m.SetPosition(math3d.V3(1, 2, 3))
	assert.Equal(t, math3d.V3(1, 2, 3), m.Transform().Translation())

	m.SetScale(math3d.V3(2, 2, 2))
	assert.True(t, m.Transform().TransformPoint(math3d.V3(1, 0, 0)).ApproxEqual(math3d.V3(3, 2, 3), eps))

	m.SetRotation(math3d.V3(0, 0, math.Pi/2))
	assert.True(t, m.Transform().TransformPoint(math3d.V3(1, 0, 0)).ApproxEqual(math3d.V3(1, 4, 3), eps))
}

func TestCloneHasFreshPose(t *testing.T) {
	m := Cube()
	m.SetPosition(math3d.V3(9, 9, 9))

	c := m.Clone()
	assert.Equal(t, math3d.Zero3(), c.Position())
	assert.Equal(t, m.Vertices, c.Vertices)

	c.Vertices[0].Color = math3d.Red
	assert.NotEqual(t, m.Vertices[0].Color, c.Vertices[0].Color)
}

func TestCalculateBounds(t *testing.T) {
	m := Cube()
	assert.Equal(t, math3d.V3(-0.5, -0.5, -0.5), m.BoundsMin)
	assert.Equal(t, math3d.V3(0.5, 0.5, 0.5), m.BoundsMax)
	assert.Equal(t, math3d.Zero3(), m.Center())
	assert.Equal(t, math3d.One3(), m.Size())

	lo, hi := m.Bounds()
	assert.Equal(t, m.BoundsMin, lo)
	assert.Equal(t, m.BoundsMax, hi)
}

func TestCalculateSmoothNormalsPointOutward(t *testing.T) {
	m := Cube()
	m.CalculateSmoothNormals()
	for i, v := range m.Vertices {
		assert.Greater(t, v.Normal.Dot(v.Position), 0.0, "vertex %d normal %v", i, v.Normal)
	}
}
