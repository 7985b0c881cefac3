package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taigrr/pixelpipe/pkg/math3d"
)

func TestCubeShape(t *testing.T) {
	m := Cube()
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())

	for i, tri := range m.Triangles {
		for _, idx := range tri {
			assert.True(t, idx >= 0 && idx < 8, "triangle %d index %d", i, idx)
		}
	}
}

func TestCubeInstancesAreIndependent(t *testing.T) {
	a, b := Cube(), Cube()
	a.SetPosition(math3d.V3(1, 0, 0))
	a.Triangles[0] = [3]int{7, 7, 7}

	assert.Equal(t, math3d.Zero3(), b.Position())
	assert.Equal(t, [3]int{0, 1, 5}, b.Triangles[0])
}

func TestSphereShape(t *testing.T) {
	const rings, segments = 8, 12
	m := Sphere(rings, segments, math3d.White)

	assert.Equal(t, (rings+1)*(segments+1), m.VertexCount())
	// Two triangles per quad except the pole rows, which keep one.
	assert.Equal(t, 2*rings*segments-2*segments, m.TriangleCount())

	for i, v := range m.Vertices {
		assert.InDelta(t, 0.5, v.Position.Len(), 1e-9, "vertex %d", i)
		assert.InDelta(t, 1.0, v.Normal.Len(), 1e-9, "vertex %d", i)
	}
}

func TestSphereWindingMatchesNormals(t *testing.T) {
	m := Sphere(6, 8, math3d.White)
	for i, tri := range m.Triangles {
		v0 := m.Vertices[tri[0]].Position
		v1 := m.Vertices[tri[1]].Position
		v2 := m.Vertices[tri[2]].Position
		face := v2.Sub(v0).Cross(v1.Sub(v0))
		center := v0.Add(v1).Add(v2).Scale(1.0 / 3)
		assert.Greater(t, face.Dot(center), 0.0, "triangle %d faces inward", i)
	}
}

func TestSphereClampsArguments(t *testing.T) {
	m := Sphere(0, 1, math3d.White)
	assert.Equal(t, 3*4, m.VertexCount())
	assert.False(t, math.IsNaN(m.BoundsMax.X))
}
