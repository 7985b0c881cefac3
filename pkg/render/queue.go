package render

import (
	"reflect"

	"github.com/taigrr/pixelpipe/pkg/models"
)

// RenderRequest binds a mesh to the shader that draws it. The mesh pose is
// read every frame, so a request is submitted once and stays queued.
type RenderRequest struct {
	Mesh   *models.Mesh
	Shader Shader
}

// Queue holds render requests in draw order: ascending shader bucket, and
// submission order within a bucket.
type Queue struct {
	requests []*RenderRequest
}

// Submit inserts req before the first queued request whose bucket is
// greater than its own.
func (q *Queue) Submit(req *RenderRequest) {
	b := req.Shader.Bucket()
	for i, r := range q.requests {
		if b < r.Shader.Bucket() {
			q.requests = append(q.requests, nil)
			copy(q.requests[i+1:], q.requests[i:])
			q.requests[i] = req
			return
		}
	}
	q.requests = append(q.requests, req)
}

// Requests returns the requests in traversal order. The slice is a copy.
func (q *Queue) Requests() []*RenderRequest {
	out := make([]*RenderRequest, len(q.requests))
	copy(out, q.requests)
	return out
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	return len(q.requests)
}

// Contains reports whether mesh is already queued with shader. Shaders of a
// non-comparable type are matched by deep equality.
func (q *Queue) Contains(mesh *models.Mesh, shader Shader) bool {
	for _, r := range q.requests {
		if r.Mesh == mesh && sameShader(r.Shader, shader) {
			return true
		}
	}
	return false
}

func sameShader(a, b Shader) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil || ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
