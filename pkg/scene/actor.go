package scene

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/models"
	"github.com/taigrr/pixelpipe/pkg/render"
)

const (
	// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
	spinFrequency = 4.0
	spinDamping   = 1.0
)

// Axis tracks the angle and spin rate of one rotation axis. The rate eases
// toward Target with a critically damped spring, so impulses die out
// smoothly instead of snapping back.
type Axis struct {
	Angle    float64 // Degrees
	Velocity float64 // Degrees per second
	Target   float64 // Resting spin rate in degrees per second

	spring harmonica.Spring
	accel  float64 // Spring velocity of Velocity
	step   float64 // dt the spring was built for
}

// NewAxis creates an axis at rest that settles at rate degrees per second.
func NewAxis(rate float64) Axis {
	return Axis{Velocity: rate, Target: rate}
}

// Update advances the angle by dt seconds and eases the spin rate toward
// Target.
func (a *Axis) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if dt != a.step {
		a.spring = harmonica.NewSpring(dt, spinFrequency, spinDamping)
		a.step = dt
	}

	a.Angle += a.Velocity * dt
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, a.Target)
}

// Impulse adds an instantaneous change in spin rate.
func (a *Axis) Impulse(rate float64) {
	a.Velocity += rate
}

// Actor places a mesh in the world and keeps its pose in sync. The pose is
// authored in degrees; Sync converts it to radians and pushes it to the mesh.
type Actor struct {
	Name   string
	Mesh   *models.Mesh
	Shader render.Shader

	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in degrees, applied Z then Y then X
	Scale    math3d.Vec3

	Spin struct{ X, Y, Z Axis }
}

// NewActor creates an actor with unit scale. A nil mesh becomes a cube and a
// nil shader an unlit white shader.
func NewActor(name string, mesh *models.Mesh, shader render.Shader) *Actor {
	if mesh == nil {
		mesh = models.Cube()
	}
	if shader == nil {
		shader = render.NewUnlit(math3d.White)
	}
	return &Actor{
		Name:   name,
		Mesh:   mesh,
		Shader: shader,
		Scale:  math3d.One3(),
	}
}

// SetSpin sets the resting spin rate per axis, in degrees per second.
func (a *Actor) SetSpin(rate math3d.Vec3) {
	a.Spin.X = NewAxis(rate.X)
	a.Spin.Y = NewAxis(rate.Y)
	a.Spin.Z = NewAxis(rate.Z)
}

// Kick applies a spin impulse in degrees per second.
func (a *Actor) Kick(rate math3d.Vec3) {
	a.Spin.X.Impulse(rate.X)
	a.Spin.Y.Impulse(rate.Y)
	a.Spin.Z.Impulse(rate.Z)
}

// Update advances the spin axes by dt seconds and syncs the mesh pose.
func (a *Actor) Update(dt float64) {
	a.Spin.X.Update(dt)
	a.Spin.Y.Update(dt)
	a.Spin.Z.Update(dt)
	a.Sync()
}

// Sync pushes the current pose, spin included, to the mesh.
func (a *Actor) Sync() {
	deg := a.Rotation.Add(math3d.V3(a.Spin.X.Angle, a.Spin.Y.Angle, a.Spin.Z.Angle))
	a.Mesh.SetPose(a.Position, deg.Radians(), a.Scale)
}

// Attach syncs the pose and registers the actor's mesh with e.
func (a *Actor) Attach(e *render.Engine) error {
	a.Sync()
	_, err := e.Register(a.Mesh, a.Shader)
	return err
}
