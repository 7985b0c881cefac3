// Package models provides the meshes fed to the pixelpipe renderer: rigid
// vertex/triangle geometry with a live pose, built-in primitives and a GLB
// loader.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// ErrIndexOutOfRange is returned when a triangle references a vertex that
// does not exist.
var ErrIndexOutOfRange = errors.New("triangle index out of range")

// Vertex holds the static attributes of one mesh vertex.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2 // Carried through the pipeline, never sampled
	Color    math3d.Color
}

// Mesh is rigid geometry plus the pose that places it in the world.
//
// Vertices and Triangles are set once at construction. Only the pose changes
// afterwards, and every pose setter recomputes the cached transform before
// returning.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Triangles [][3]int

	// Local-space bounding box (calculated on construction)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3

	position  math3d.Vec3
	rotation  math3d.Vec3 // Euler angles in radians
	scale     math3d.Vec3
	transform math3d.Mat4
}

// NewMesh creates a mesh at the origin with identity rotation and unit scale.
// Every triangle index must lie in [0, len(vertices)).
func NewMesh(name string, vertices []Vertex, triangles [][3]int) (*Mesh, error) {
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("mesh %q triangle %d index %d (vertex count %d): %w",
					name, i, idx, len(vertices), ErrIndexOutOfRange)
			}
		}
	}

	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Triangles: triangles,
		scale:     math3d.One3(),
	}
	m.CalculateBounds()
	m.recomputeTransform()
	return m, nil
}

// Position returns the world position.
func (m *Mesh) Position() math3d.Vec3 { return m.position }

// Rotation returns the Euler rotation in radians.
func (m *Mesh) Rotation() math3d.Vec3 { return m.rotation }

// Scale returns the per-axis scale.
func (m *Mesh) Scale() math3d.Vec3 { return m.scale }

// SetPosition moves the mesh.
func (m *Mesh) SetPosition(p math3d.Vec3) {
	m.position = p
	m.recomputeTransform()
}

// SetRotation sets the Euler rotation in radians. Angles are not wrapped;
// trigonometric periodicity takes care of large values.
func (m *Mesh) SetRotation(r math3d.Vec3) {
	m.rotation = r
	m.recomputeTransform()
}

// SetScale sets the per-axis scale.
func (m *Mesh) SetScale(s math3d.Vec3) {
	m.scale = s
	m.recomputeTransform()
}

// SetPose sets position, rotation and scale with a single recompute.
func (m *Mesh) SetPose(position, rotation, scale math3d.Vec3) {
	m.position = position
	m.rotation = rotation
	m.scale = scale
	m.recomputeTransform()
}

// Transform returns the cached local-to-world matrix,
// Translate(position) · Rz · Ry · Rx · Scale(scale).
func (m *Mesh) Transform() math3d.Mat4 {
	return m.transform
}

func (m *Mesh) recomputeTransform() {
	m.transform = math3d.TRS(m.position, m.rotation, m.scale)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// CalculateBounds computes the local axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the local-space bounding box.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// CalculateSmoothNormals replaces every vertex normal with the normalized sum
// of the (area-weighted) normals of the triangles sharing it. Front faces wind
// clockwise as seen from outside, so face normals are (v2-v0) × (v1-v0).
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, t := range m.Triangles {
		v0 := m.Vertices[t[0]].Position
		v1 := m.Vertices[t[1]].Position
		v2 := m.Vertices[t[2]].Position

		normal := v2.Sub(v0).Cross(v1.Sub(v0)) // Don't normalize yet

		for _, idx := range t {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Clone creates a deep copy of the geometry with a fresh identity pose.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
		scale:     math3d.One3(),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Triangles, m.Triangles)
	clone.recomputeTransform()
	return clone
}
