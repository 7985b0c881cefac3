package render

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/taigrr/pixelpipe/pkg/math3d"
	"github.com/taigrr/pixelpipe/pkg/models"
)

var (
	// ErrInvalidConfig is returned by NewEngine for unusable settings.
	ErrInvalidConfig = errors.New("invalid engine config")
	// ErrNilRenderable is returned by Register for a nil mesh or shader.
	ErrNilRenderable = errors.New("nil mesh or shader")
)

// Config is the per-session engine configuration. It is fixed once the
// engine is created.
type Config struct {
	FOV            float64 // Horizontal field of view in degrees, in (0, 180)
	CameraPosition math3d.Vec3
	Width          int
	Height         int
	Background     math3d.Color
}

// DefaultConfig returns a 160×90 session with a 60° camera five units
// behind the origin on -Y.
func DefaultConfig() Config {
	return Config{
		FOV:            60,
		CameraPosition: math3d.V3(0, -5, 0),
		Width:          160,
		Height:         90,
		Background:     math3d.Black,
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if !(c.FOV > 0 && c.FOV < 180) {
		return fmt.Errorf("%w: fov %v", ErrInvalidConfig, c.FOV)
	}
	return nil
}

// State tells whether a frame is being written.
type State int32

const (
	// StateReady means no frame is in progress and Frame is complete.
	StateReady State = iota
	// StateAccumulating means RenderFrame is writing a new buffer.
	StateAccumulating
)

func (s State) String() string {
	if s == StateAccumulating {
		return "accumulating"
	}
	return "ready"
}

// Stats counts what happened during one frame.
type Stats struct {
	Requests       int // Render requests visited
	MeshesCulled   int // Requests skipped because every vertex was behind the camera
	Triangles      int // Triangles of meshes not culled whole
	BackfaceCulled int // Triangles with positive signed area
	NearCulled     int // Triangles with a vertex on or behind the near plane
	Degenerate     int // Triangles with |area| < AreaEpsilon
	Rasterized     int // Triangles that reached the pixel loop
	Pixels         int // Fragments written
}

// Engine renders its queue into a fresh framebuffer once per RenderFrame
// call. Register and RenderFrame are serialized, so registering from another
// goroutine never interleaves with a frame in progress.
type Engine struct {
	mu sync.Mutex

	cfg    Config
	camera *Camera
	near   Plane
	queue  Queue

	frame      *Framebuffer
	stats      Stats
	frames     uint64
	duplicates int
	state      atomic.Int32

	// Per-request scratch, reused across meshes and frames
	interps []Interpolator
	screen  []math3d.Vec2
	visible []bool
}

// NewEngine validates cfg and creates an engine with an empty queue.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cam := NewCamera(cfg.FOV, cfg.CameraPosition, cfg.Width, cfg.Height)
	return &Engine{
		cfg:    cfg,
		camera: cam,
		near:   cam.NearPlane(),
	}, nil
}

// Config returns the session configuration.
func (e *Engine) Config() Config { return e.cfg }

// Camera returns the session camera.
func (e *Engine) Camera() *Camera { return e.camera }

// State reports whether a frame is in progress. It does not block.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Register queues mesh to be drawn with shader every frame until the
// engine is discarded. Registering the same pair twice queues it twice; the
// duplicate is logged and counted, not removed.
func (e *Engine) Register(mesh *models.Mesh, shader Shader) (*RenderRequest, error) {
	if mesh == nil || shader == nil {
		return nil, ErrNilRenderable
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queue.Contains(mesh, shader) {
		e.duplicates++
		Logger().Warn("duplicate render registration",
			"mesh", mesh.Name, "bucket", shader.Bucket().String())
	}

	req := &RenderRequest{Mesh: mesh, Shader: shader}
	e.queue.Submit(req)
	return req, nil
}

// Requests returns the queued requests in draw order.
func (e *Engine) Requests() []*RenderRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Requests()
}

// Duplicates returns how many registrations repeated an existing pair.
func (e *Engine) Duplicates() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duplicates
}

// Frame returns the last completed framebuffer, or nil before the first
// frame.
func (e *Engine) Frame() *Framebuffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Stats returns the statistics of the last completed frame.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// RenderFrame draws every queued request, in queue order, into a newly
// allocated framebuffer and returns it once complete. Later frames never
// touch a returned buffer.
func (e *Engine) RenderFrame() *Framebuffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Store(int32(StateAccumulating))

	fb := NewFramebuffer(e.cfg.Width, e.cfg.Height, e.cfg.Background)
	var stats Stats
	for _, req := range e.queue.requests {
		stats.Requests++
		e.drawRequest(fb, req, &stats)
	}

	e.frame = fb
	e.stats = stats
	e.frames++
	e.state.Store(int32(StateReady))

	Logger().Debug("frame complete",
		"frame", e.frames,
		"requests", stats.Requests,
		"triangles", stats.Triangles,
		"rasterized", stats.Rasterized,
		"backface", stats.BackfaceCulled,
		"near", stats.NearCulled,
		"degenerate", stats.Degenerate,
		"pixels", stats.Pixels,
	)
	return fb
}

// drawRequest runs the vertex stage over the whole mesh, then culls and
// fills each triangle.
func (e *Engine) drawRequest(fb *Framebuffer, req *RenderRequest, stats *Stats) {
	mesh, shader := req.Mesh, req.Shader
	n := mesh.VertexCount()
	if n == 0 {
		return
	}
	e.reserve(n)

	xf := mesh.Transform()
	box := EmptyAABB()
	for i, v := range mesh.Vertices {
		in := shader.Vertex(v)
		e.interps[i] = in

		// Transform the vertex stage output, not the raw attribute
		world := xf.TransformPoint(in.Position)
		box = box.Expand(world)
		e.screen[i], e.visible[i] = e.camera.Project(world)
	}

	if e.near.BoxBehind(box) {
		stats.MeshesCulled++
		return
	}

	for _, t := range mesh.Triangles {
		stats.Triangles++

		// Indices were validated by NewMesh; a later out-of-range edit
		// panics here rather than being clamped.
		if !e.visible[t[0]] || !e.visible[t[1]] || !e.visible[t[2]] {
			stats.NearCulled++
			continue
		}

		a, b, c := e.screen[t[0]], e.screen[t[1]], e.screen[t[2]]
		area := EdgeFunction(a, b, c)
		if area > 0 {
			stats.BackfaceCulled++
			continue
		}
		if -area < AreaEpsilon {
			stats.Degenerate++
			continue
		}

		stats.Rasterized++
		stats.Pixels += fillTriangle(fb, shader, a, b, c,
			e.interps[t[0]], e.interps[t[1]], e.interps[t[2]], area)
	}
}

// reserve sizes the scratch slices for n vertices.
func (e *Engine) reserve(n int) {
	if cap(e.interps) < n {
		e.interps = make([]Interpolator, n)
		e.screen = make([]math3d.Vec2, n)
		e.visible = make([]bool, n)
	}
	e.interps = e.interps[:n]
	e.screen = e.screen[:n]
	e.visible = e.visible[:n]
}

// fillTriangle shades every covered pixel of the screen triangle abc and
// returns how many it wrote. Pixels are sampled at integer coordinates and
// overwritten unconditionally.
func fillTriangle(fb *Framebuffer, shader Shader, a, b, c math3d.Vec2, i0, i1, i2 Interpolator, area float64) int {
	r := boundingBox(a, b, c, fb.Width, fb.Height)
	if r.Empty() {
		return 0
	}

	written := 0
	for y := r.MinY; y <= r.MaxY; y++ {
		row := y * fb.Width
		for x := r.MinX; x <= r.MaxX; x++ {
			p := math3d.V2(float64(x), float64(y))
			if !Covers(a, b, c, p) {
				continue
			}

			w0, w1, w2 := Barycentric(a, b, c, p, area)
			fb.Pixels[row+x] = shader.Fragment(Blend(i0, i1, i2, w0, w1, w2))
			written++
		}
	}
	return written
}
