package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/pixelpipe/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a Mesh.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
	// DefaultColor is used for primitives without COLOR_0 or a material.
	DefaultColor math3d.Color
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		DefaultColor:     math3d.White,
	}
}

// LoadGLB loads a GLTF or GLB file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load flattens every triangle primitive of every mesh in the document into a
// single Mesh. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(filepath.Base(path), doc)
}

// FromDocument converts an already decoded document.
func (l *GLTFLoader) FromDocument(name string, doc *gltf.Document) (*Mesh, error) {
	var (
		vertices  []Vertex
		triangles [][3]int
		hasNormal bool
	)

	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Skip lines, points and strips
				continue
			}

			base := len(vertices)
			verts, normals, err := l.readVertices(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			hasNormal = hasNormal || normals
			vertices = append(vertices, verts...)

			tris, err := readTriangles(doc, prim, len(verts))
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
			for _, t := range tris {
				triangles = append(triangles, [3]int{base + t[0], base + t[1], base + t[2]})
			}
		}
	}

	mesh, err := NewMesh(name, vertices, triangles)
	if err != nil {
		return nil, err
	}
	if l.CalculateNormals && !hasNormal {
		mesh.CalculateSmoothNormals()
	}
	return mesh, nil
}

// readVertices reads positions plus whichever optional attributes exist.
func (l *GLTFLoader) readVertices(doc *gltf.Document, prim *gltf.Primitive) ([]Vertex, bool, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, false, fmt.Errorf("primitive has no POSITION")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, false, fmt.Errorf("read uvs: %w", err)
		}
	}

	var colors [][4]uint8
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
			return nil, false, fmt.Errorf("read colors: %w", err)
		}
	}

	base := l.materialColor(doc, prim)

	out := make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{
			Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
			Color:    base,
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		if i < len(uvs) {
			// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
			v.UV = math3d.V2(float64(uvs[i][0]), 1.0-float64(uvs[i][1]))
		}
		if i < len(colors) {
			c := colors[i]
			v.Color = base.Mul(math3d.RGBA(
				float64(c[0])/255, float64(c[1])/255, float64(c[2])/255, float64(c[3])/255,
			))
		}
		out[i] = v
	}

	return out, len(normals) > 0, nil
}

// materialColor returns the primitive's base color factor, or the loader
// default.
func (l *GLTFLoader) materialColor(doc *gltf.Document, prim *gltf.Primitive) math3d.Color {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return l.DefaultColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return l.DefaultColor
	}
	f := *pbr.BaseColorFactor
	return math3d.RGBA(float64(f[0]), float64(f[1]), float64(f[2]), float64(f[3]))
}

// readTriangles returns the primitive's triangles with the winding reversed:
// GLTF front faces are counter-clockwise, the renderer keeps clockwise ones.
func readTriangles(doc *gltf.Document, prim *gltf.Primitive, vertexCount int) ([][3]int, error) {
	var indices []int
	if prim.Indices != nil {
		raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		indices = make([]int, len(raw))
		for i, x := range raw {
			indices[i] = int(x)
		}
	} else {
		// No indices, assume sequential triangles
		indices = make([]int, vertexCount)
		for i := range indices {
			indices[i] = i
		}
	}

	tris := make([][3]int, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, [3]int{indices[i], indices[i+2], indices[i+1]})
	}
	return tris, nil
}
