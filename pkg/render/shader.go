package render

import (
	"math"

	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/models"
)

// Bucket is the coarse draw-order category of a shader. Lower buckets are
// drawn first.
type Bucket int

const (
	BucketSkybox Bucket = iota
	BucketOpaque
	BucketTransparent
)

func (b Bucket) String() string {
	switch b {
	case BucketSkybox:
		return "skybox"
	case BucketOpaque:
		return "opaque"
	case BucketTransparent:
		return "transparent"
	default:
		return "unknown"
	}
}

// Shader is a programmable pipeline stage pair. Implementations must be safe
// to share between frames; the engine never mutates them. Duplicate detection
// compares comparable shaders by value (pointer identity for pointer
// receivers) and others by deep equality.
//
// DepthWrite and DepthTest describe intent only. The engine composites in
// queue order and does not consult them.
type Shader interface {
	Bucket() Bucket
	DepthWrite() bool
	DepthTest() bool
	Vertex(v models.Vertex) Interpolator
	Fragment(in Interpolator) math3d.Color
}

// Unlit passes vertex colors through, tinted by a flat color.
type Unlit struct {
	Color math3d.Color
}

// NewUnlit creates an unlit shader. White leaves vertex colors unchanged.
func NewUnlit(c math3d.Color) *Unlit {
	return &Unlit{Color: c}
}

func (*Unlit) Bucket() Bucket   { return BucketOpaque }
func (*Unlit) DepthWrite() bool { return true }
func (*Unlit) DepthTest() bool  { return true }

// Vertex copies the position and the tinted vertex color.
func (s *Unlit) Vertex(v models.Vertex) Interpolator {
	return Interpolator{
		Position: v.Position,
		Color:    v.Color.Mul(s.Color),
	}
}

// Fragment returns the interpolated color unchanged.
func (s *Unlit) Fragment(in Interpolator) math3d.Color {
	return in.Color
}

// Lambertian shades with a single directional light term. Normals are used
// as authored, in mesh space.
type Lambertian struct {
	Light math3d.Vec3
}

// NewLambertian creates a diffuse shader lit from direction light. The
// direction is used as given; pass a unit vector for intensities in [0, 1].
func NewLambertian(light math3d.Vec3) *Lambertian {
	return &Lambertian{Light: light}
}

func (*Lambertian) Bucket() Bucket   { return BucketOpaque }
func (*Lambertian) DepthWrite() bool { return true }
func (*Lambertian) DepthTest() bool  { return true }

// Vertex copies the position and normal.
func (s *Lambertian) Vertex(v models.Vertex) Interpolator {
	return Interpolator{
		Position: v.Position,
		Normal:   v.Normal,
	}
}

// Fragment returns max(0, n̂ · light) as an opaque gray.
func (s *Lambertian) Fragment(in Interpolator) math3d.Color {
	return math3d.Gray(math.Max(0, in.Normal.Normalize().Dot(s.Light)))
}
