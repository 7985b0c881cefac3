package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/models"
)

// flatShader fills with a single color in a chosen bucket, optionally
// displacing vertices. onFragment, when set, runs for every shaded pixel.
type flatShader struct {
	bucket     Bucket
	color      math3d.Color
	offset     math3d.Vec3
	onFragment func()
}

func (s *flatShader) Bucket() Bucket   { return s.bucket }
func (s *flatShader) DepthWrite() bool { return false }
func (s *flatShader) DepthTest() bool  { return false }

func (s *flatShader) Vertex(v models.Vertex) Interpolator {
	return Interpolator{Position: v.Position.Add(s.offset), Color: s.color}
}

func (s *flatShader) Fragment(in Interpolator) math3d.Color {
	if s.onFragment != nil {
		s.onFragment()
	}
	return s.color
}

func TestQueueBucketOrder(t *testing.T) {
	mesh := models.Cube()
	opaqueA := &RenderRequest{mesh, &flatShader{bucket: BucketOpaque}}
	transparent := &RenderRequest{mesh, &flatShader{bucket: BucketTransparent}}
	skybox := &RenderRequest{mesh, &flatShader{bucket: BucketSkybox}}
	opaqueB := &RenderRequest{mesh, &flatShader{bucket: BucketOpaque}}

	var q Queue
	q.Submit(opaqueA)
	q.Submit(transparent)
	q.Submit(skybox)
	q.Submit(opaqueB)

	require.Equal(t, 4, q.Len())
	assert.Equal(t, []*RenderRequest{skybox, opaqueA, opaqueB, transparent}, q.Requests())
}

func TestQueueTransparentBeforeOpaque(t *testing.T) {
	mesh := models.Cube()
	transparent := &RenderRequest{mesh, &flatShader{bucket: BucketTransparent}}
	opaque := &RenderRequest{mesh, &flatShader{bucket: BucketOpaque}}

	var q Queue
	q.Submit(transparent)
	q.Submit(opaque)

	assert.Equal(t, []*RenderRequest{opaque, transparent}, q.Requests())
}

func TestQueueRequestsIsCopy(t *testing.T) {
	var q Queue
	q.Submit(&RenderRequest{models.Cube(), NewUnlit(math3d.White)})

	reqs := q.Requests()
	reqs[0] = nil
	assert.NotNil(t, q.Requests()[0])
}

func TestQueueContains(t *testing.T) {
	mesh := models.Cube()
	other := models.Cube()
	shader := NewUnlit(math3d.White)

	var q Queue
	assert.False(t, q.Contains(mesh, shader))

	q.Submit(&RenderRequest{mesh, shader})
	assert.True(t, q.Contains(mesh, shader))
	assert.False(t, q.Contains(other, shader))
	assert.False(t, q.Contains(mesh, NewUnlit(math3d.White)), "shaders compare by identity")
}

// paletteShader has a value receiver and a slice field, so its values are
// not comparable with ==.
type paletteShader struct {
	palette []math3d.Color
}

func (paletteShader) Bucket() Bucket   { return BucketOpaque }
func (paletteShader) DepthWrite() bool { return true }
func (paletteShader) DepthTest() bool  { return true }

func (s paletteShader) Vertex(v models.Vertex) Interpolator {
	return Interpolator{Position: v.Position, Color: s.palette[0]}
}

func (s paletteShader) Fragment(in Interpolator) math3d.Color {
	return in.Color
}

func TestQueueContainsNonComparableShader(t *testing.T) {
	mesh := models.Cube()
	red := paletteShader{palette: []math3d.Color{math3d.RGB(1, 0, 0)}}

	var q Queue
	q.Submit(&RenderRequest{mesh, red})

	require.NotPanics(t, func() { q.Contains(mesh, red) })
	assert.True(t, q.Contains(mesh, red))
	assert.True(t, q.Contains(mesh, paletteShader{palette: []math3d.Color{math3d.RGB(1, 0, 0)}}))
	assert.False(t, q.Contains(mesh, paletteShader{palette: []math3d.Color{math3d.Black}}))
	assert.False(t, q.Contains(mesh, NewUnlit(math3d.RGB(1, 0, 0))))
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "skybox", BucketSkybox.String())
	assert.Equal(t, "opaque", BucketOpaque.String())
	assert.Equal(t, "transparent", BucketTransparent.String())
	assert.Equal(t, "unknown", Bucket(42).String())
}
