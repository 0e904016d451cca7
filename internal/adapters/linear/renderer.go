// Package linear provides a synchronous, line-oriented progress renderer.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/ui/style"
)

// Renderer implements ports.Renderer for non-interactive environments.
// It prints one line per task transition, prefixed with the task name.
type Renderer struct {
	out    io.Writer
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // spanID -> task state
	total int
	done  int
}

type taskState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w, or stderr when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	return NewRendererWithProfile(w, colorProfile())
}

// NewRendererWithProfile creates a new Renderer with a fixed color profile.
func NewRendererWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		out:    w,
		output: termenv.NewOutput(w, termenv.WithProfile(profile)),
		tasks:  make(map[string]*taskState),
	}
}

func colorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints how many planned tasks finished.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.total > 0 {
		_, _ = fmt.Fprintf(r.out, "Finished %d/%d task(s)\n", r.done, r.total)
	}
	clear(r.tasks)
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the number of planned tasks.
func (r *Renderer) OnPlanEmit(tasks []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total += len(tasks)
	_, _ = fmt.Fprintf(r.out, "Planning %d task(s)\n", len(tasks))
}

// OnTaskStart records a task start. Nothing is printed until the task completes
// so cached tasks stay on a single line.
func (r *Renderer) OnTaskStart(spanID, _ /* parentID */, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{
		name:      name,
		startTime: startTime,
	}
}

// OnTaskComplete prints the final status of a task.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, status string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.done++

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	prefix := r.output.String(fmt.Sprintf("[%s]", task.name)).Faint().String()

	switch domain.TaskStatus(status) {
	case domain.StatusCached:
		symbol := r.icon(style.Tilde, style.Slate)
		_, _ = fmt.Fprintf(r.out, "%s %s Cached\n", prefix, symbol)
	case domain.StatusCancelled:
		symbol := r.icon(style.Circle, style.Yellow)
		_, _ = fmt.Fprintf(r.out, "%s %s Cancelled\n", prefix, symbol)
	case domain.StatusFailed:
		symbol := r.icon(style.Cross, style.Red)
		if err == nil {
			_, _ = fmt.Fprintf(r.out, "%s %s Failed after %v\n", prefix, symbol, duration)
			return
		}
		_, _ = fmt.Fprintf(r.out, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	default:
		symbol := r.icon(style.Check, style.Green)
		_, _ = fmt.Fprintf(r.out, "%s %s Completed in %v\n", prefix, symbol, duration)
	}
}

func (r *Renderer) icon(symbol string, color lipgloss.Color) string {
	return r.output.String(symbol).Foreground(r.output.Color(string(color))).String()
}
