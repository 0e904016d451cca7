// Package progrock records task progress as progrock vertices.
package progrock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/puppet/internal/core/domain"
)

var (
	errFailed    = errors.New("task failed")
	errCancelled = errors.New("cancelled")
)

// Renderer implements ports.Renderer by recording one vertex per task span.
type Renderer struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu       sync.Mutex
	vertices map[string]*progrock.VertexRecorder // spanID -> vertex
}

// NewRenderer creates a Renderer recording onto w.
func NewRenderer(w progrock.Writer) *Renderer {
	return &Renderer{
		w:        w,
		rec:      progrock.NewRecorder(w),
		vertices: make(map[string]*progrock.VertexRecorder),
	}
}

// Start is a no-op; vertices are recorded as spans arrive.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop cancels vertices that never completed and closes the writer.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	open := r.vertices
	r.vertices = make(map[string]*progrock.VertexRecorder)
	r.mu.Unlock()

	for _, v := range open {
		v.Done(errCancelled)
	}
	return r.w.Close()
}

// Wait is a no-op; the recorder writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit is a no-op; progrock has no notion of planned vertices.
func (r *Renderer) OnPlanEmit(_ []string) {}

// OnTaskStart starts a vertex for the span.
func (r *Renderer) OnTaskStart(spanID, _, name string, _ time.Time) {
	v := r.rec.Vertex(digest.FromString(spanID), name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.vertices[spanID] = v
}

// OnTaskComplete completes the vertex of the span according to the task status.
func (r *Renderer) OnTaskComplete(spanID string, _ time.Time, status string, err error) {
	r.mu.Lock()
	v, ok := r.vertices[spanID]
	delete(r.vertices, spanID)
	r.mu.Unlock()

	if !ok {
		return
	}

	switch domain.TaskStatus(status) {
	case domain.StatusCached:
		v.Cached()
		v.Done(nil)
	case domain.StatusCancelled:
		v.Done(errCancelled)
	case domain.StatusFailed:
		if err == nil {
			err = errFailed
		}
		v.Done(err)
	default:
		v.Done(nil)
	}
}
