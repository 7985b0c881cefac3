// Package scene describes what pixelpipe draws: actors loaded from a YAML
// scene file, animated by Tick and registered with a render engine by Build.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/models"
	"github.com/taigrr/pixelpipe/pkg/render"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownPrimitive is returned for a mesh that is neither a built-in
	// primitive nor a GLTF/GLB path.
	ErrUnknownPrimitive = errors.New("unknown mesh primitive")
	// ErrUnknownShader is returned for an unrecognized shader name.
	ErrUnknownShader = errors.New("unknown shader")
)

// DefaultLight is the Lambertian light direction when a scene names none:
// above and to the right of the default camera.
var DefaultLight = math3d.V3(0.3, -1, 0.5).Normalize()

// Vector is a YAML [x, y, z] triple.
type Vector math3d.Vec3

// UnmarshalYAML implements yaml.Unmarshaler for Vector.
func (v *Vector) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", value.Line, len(xs))
	}
	*v = Vector{X: xs[0], Y: xs[1], Z: xs[2]}
	return nil
}

// Color is a YAML [r, g, b] or [r, g, b, a] color with channels in [0, 1].
type Color math3d.Color

// UnmarshalYAML implements yaml.Unmarshaler for Color.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	switch len(xs) {
	case 3:
		*c = Color(math3d.RGB(xs[0], xs[1], xs[2]))
	case 4:
		*c = Color(math3d.RGBA(xs[0], xs[1], xs[2], xs[3]))
	default:
		return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", value.Line, len(xs))
	}
	return nil
}

// File is the on-disk scene description. Zero values fall back to
// render.DefaultConfig.
type File struct {
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	Background *Color       `yaml:"background"`
	Camera     CameraConfig `yaml:"camera"`
	Objects    []Object     `yaml:"objects"`
}

// CameraConfig configures the session camera.
type CameraConfig struct {
	FOV      float64 `yaml:"fov"` // Horizontal, degrees
	Position *Vector `yaml:"position"`
}

// Object describes one actor.
type Object struct {
	Name string `yaml:"name"`

	// Mesh is "cube", "sphere" or a path to a .glb/.gltf file, relative to
	// the scene file. Empty means cube.
	Mesh     string `yaml:"mesh"`
	Rings    int    `yaml:"rings"`    // Sphere only (default: 16)
	Segments int    `yaml:"segments"` // Sphere only (default: 24)

	// Shader is "unlit" (default) or "lambertian".
	Shader string  `yaml:"shader"`
	Color  *Color  `yaml:"color"` // Unlit tint (default: white)
	Light  *Vector `yaml:"light"` // Lambertian light direction

	Position *Vector `yaml:"position"`
	Rotation *Vector `yaml:"rotation"` // Degrees
	Scale    *Vector `yaml:"scale"`
	Spin     *Vector `yaml:"spin"` // Degrees per second
}

// Scene is a session configuration plus the actors drawn in it.
type Scene struct {
	Config render.Config
	Actors []*Actor
}

// Default returns the stock scene: a single unlit cube in front of the
// default camera.
func Default() *Scene {
	cube := NewActor("cube", nil, nil)
	cube.SetSpin(math3d.V3(20, 0, 45))
	return &Scene{
		Config: render.DefaultConfig(),
		Actors: []*Actor{cube},
	}
}

// Load reads a scene file. Mesh paths are resolved against its directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene description. dir is the base for relative mesh
// paths.
func Parse(data []byte, dir string) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}

	s := &Scene{Config: f.config()}
	for i, obj := range f.Objects {
		a, err := obj.actor(dir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Name, err)
		}
		s.Actors = append(s.Actors, a)
	}
	return s, nil
}

func (f *File) config() render.Config {
	cfg := render.DefaultConfig()
	if f.Width != 0 {
		cfg.Width = f.Width
	}
	if f.Height != 0 {
		cfg.Height = f.Height
	}
	if f.Background != nil {
		cfg.Background = math3d.Color(*f.Background)
	}
	if f.Camera.FOV != 0 {
		cfg.FOV = f.Camera.FOV
	}
	if f.Camera.Position != nil {
		cfg.CameraPosition = math3d.Vec3(*f.Camera.Position)
	}
	return cfg
}

func (o *Object) actor(dir string) (*Actor, error) {
	tint := math3d.White
	if o.Color != nil {
		tint = math3d.Color(*o.Color)
	}

	mesh, err := o.mesh(dir)
	if err != nil {
		return nil, err
	}

	var shader render.Shader
	switch strings.ToLower(o.Shader) {
	case "", "unlit":
		shader = render.NewUnlit(tint)
	case "lambertian", "diffuse":
		light := DefaultLight
		if o.Light != nil {
			light = math3d.Vec3(*o.Light).Normalize()
		}
		shader = render.NewLambertian(light)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShader, o.Shader)
	}

	name := o.Name
	if name == "" {
		name = mesh.Name
	}
	a := NewActor(name, mesh, shader)
	if o.Position != nil {
		a.Position = math3d.Vec3(*o.Position)
	}
	if o.Rotation != nil {
		a.Rotation = math3d.Vec3(*o.Rotation)
	}
	if o.Scale != nil {
		a.Scale = math3d.Vec3(*o.Scale)
	}
	if o.Spin != nil {
		a.SetSpin(math3d.Vec3(*o.Spin))
	}
	a.Sync()
	return a, nil
}

func (o *Object) mesh(dir string) (*models.Mesh, error) {
	switch strings.ToLower(o.Mesh) {
	case "", "cube":
		return models.Cube(), nil
	case "sphere":
		rings, segments := o.Rings, o.Segments
		if rings == 0 {
			rings = 16
		}
		if segments == 0 {
			segments = 24
		}
		return models.Sphere(rings, segments, math3d.White), nil
	}

	switch strings.ToLower(filepath.Ext(o.Mesh)) {
	case ".glb", ".gltf":
		path := o.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return models.LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %q (use cube, sphere, .glb or .gltf)", ErrUnknownPrimitive, o.Mesh)
	}
}

// Tick advances every actor by dt seconds. Call it before each
// Engine.RenderFrame.
func (s *Scene) Tick(dt float64) {
	for _, a := range s.Actors {
		a.Update(dt)
	}
}

// Build creates an engine for the scene and registers every actor with it.
func (s *Scene) Build() (*render.Engine, error) {
	e, err := render.NewEngine(s.Config)
	if err != nil {
		return nil, err
	}
	for _, a := range s.Actors {
		if err := a.Attach(e); err != nil {
			return nil, fmt.Errorf("actor %s: %w", a.Name, err)
		}
	}
	return e, nil
}

// Triangles returns the total triangle count over all actors.
func (s *Scene) Triangles() int {
	n := 0
	for _, a := range s.Actors {
		n += a.Mesh.TriangleCount()
	}
	return n
}
