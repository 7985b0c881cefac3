package models

import (
	"math"

	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// cubeCorners are the unit cube corners, each with its own color.
var cubeCorners = [8]struct {
	pos   math3d.Vec3
	color math3d.Color
}{
	{math3d.V3(+0.5, +0.5, +0.5), math3d.RGB(1, 1, 1)},
	{math3d.V3(-0.5, +0.5, +0.5), math3d.RGB(0, 1, 1)},
	{math3d.V3(-0.5, -0.5, +0.5), math3d.RGB(0, 0, 1)},
	{math3d.V3(+0.5, -0.5, +0.5), math3d.RGB(1, 0, 1)},
	{math3d.V3(+0.5, +0.5, -0.5), math3d.RGB(1, 1, 0)},
	{math3d.V3(-0.5, +0.5, -0.5), math3d.RGB(0, 1, 0)},
	{math3d.V3(-0.5, -0.5, -0.5), math3d.RGB(0, 0, 0)},
	{math3d.V3(+0.5, -0.5, -0.5), math3d.RGB(1, 0, 0)},
}

// cubeTriangles wind clockwise as seen from outside the cube.
var cubeTriangles = [12][3]int{
	{0, 1, 5}, {4, 0, 5}, // +Y
	{1, 2, 6}, {5, 1, 6}, // -X
	{2, 3, 7}, {6, 2, 7}, // -Y
	{3, 0, 4}, {7, 3, 4}, // +X
	{1, 0, 3}, {2, 1, 3}, // +Z
	{4, 5, 6}, {4, 6, 7}, // -Z
}

// Cube returns a new unit cube centered on the origin: 8 shared corners with
// per-corner colors and diagonal normals, 12 triangles.
func Cube() *Mesh {
	vertices := make([]Vertex, len(cubeCorners))
	for i, c := range cubeCorners {
		vertices[i] = Vertex{
			Position: c.pos,
			Normal:   c.pos.Normalize(),
			Color:    c.color,
		}
	}

	triangles := make([][3]int, len(cubeTriangles))
	copy(triangles, cubeTriangles[:])

	m, err := NewMesh("cube", vertices, triangles)
	if err != nil {
		panic(err) // static data
	}
	return m
}

// Sphere returns a UV sphere of radius 0.5 centered on the origin, with the
// poles on the Z axis. rings is the number of latitude bands (at least 2) and
// segments the number of longitude slices (at least 3).
func Sphere(rings, segments int, color math3d.Color) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	vertices := make([]Vertex, 0, (rings+1)*(segments+1))
	for i := 0; i <= rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for j := 0; j <= segments; j++ {
			phi := 2 * math.Pi * float64(j) / float64(segments)
			n := math3d.V3(
				math.Sin(theta)*math.Cos(phi),
				math.Sin(theta)*math.Sin(phi),
				math.Cos(theta),
			)
			vertices = append(vertices, Vertex{
				Position: n.Scale(0.5),
				Normal:   n,
				UV:       math3d.V2(float64(j)/float64(segments), float64(i)/float64(rings)),
				Color:    color,
			})
		}
	}

	stride := segments + 1
	triangles := make([][3]int, 0, 2*rings*segments)
	for i := range rings {
		for j := range segments {
			a := i*stride + j
			b := a + stride
			c := a + 1
			d := b + 1
			// The first row of one triangle and the last row of the other
			// collapse onto the poles.
			if i != 0 {
				triangles = append(triangles, [3]int{a, c, b})
			}
			if i != rings-1 {
				triangles = append(triangles, [3]int{c, d, b})
			}
		}
	}

	m, err := NewMesh("sphere", vertices, triangles)
	if err != nil {
		panic(err) // indices are generated in range
	}
	return m
}
