package progrock

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vito/progrock"
)

// Journal is a progrock.Writer printing one plain line per completed vertex.
// Vertices are numbered in the order they were first seen.
type Journal struct {
	out io.Writer

	mu      sync.Mutex
	numbers map[string]int
	printed map[string]bool
}

var _ progrock.Writer = (*Journal)(nil)

// NewJournal creates a Journal writing to w, or stderr when w is nil.
func NewJournal(w io.Writer) *Journal {
	if w == nil {
		w = os.Stderr
	}
	return &Journal{
		out:     w,
		numbers: make(map[string]int),
		printed: make(map[string]bool),
	}
}

// WriteStatus prints the vertices of the update that completed since the last update.
func (j *Journal) WriteStatus(update *progrock.StatusUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, v := range update.GetVertexes() {
		id := v.GetId()
		n, ok := j.numbers[id]
		if !ok {
			n = len(j.numbers) + 1
			j.numbers[id] = n
		}
		if v.GetCompleted() == nil || j.printed[id] {
			continue
		}
		j.printed[id] = true

		var line string
		switch {
		case v.GetCached():
			line = fmt.Sprintf("#%d %s CACHED", n, v.GetName())
		case v.GetError() != "":
			line = fmt.Sprintf("#%d %s ERROR %s", n, v.GetName(), v.GetError())
		default:
			elapsed := v.GetCompleted().AsTime().Sub(v.GetStarted().AsTime())
			line = fmt.Sprintf("#%d %s DONE %v", n, v.GetName(), elapsed.Round(time.Millisecond))
		}
		if _, err := fmt.Fprintln(j.out, line); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the journal does not own its writer.
func (j *Journal) Close() error {
	return nil
}
