// Package locks provides named resource locks acquired all-or-nothing.
package locks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manager serializes holders of the same named keys.
// A caller holds either every key it asked for or none of them, so two
// callers asking for overlapping key sets can never deadlock each other.
type Manager struct {
	mu    sync.Mutex
	held  map[string]bool
	freed chan struct{}
}

// NewManager creates an empty lock manager.
func NewManager() *Manager {
	return &Manager{
		held:  make(map[string]bool),
		freed: make(chan struct{}),
	}
}

// Acquire blocks until every key is free, then takes them all.
// The returned release func is safe to call more than once.
func (m *Manager) Acquire(ctx context.Context, keys []string) (func(), error) {
	keys = normalize(keys)
	if len(keys) == 0 {
		return func() {}, nil
	}

	for {
		m.mu.Lock()
		if m.allFree(keys) {
			for _, k := range keys {
				m.held[k] = true
			}
			m.mu.Unlock()
			return m.releaser(keys), nil
		}
		wait := m.freed
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, zerr.With(
				zerr.Wrap(ctx.Err(), domain.ErrLockAcquireFailed.Error()),
				"locks", strings.Join(keys, ","),
			)
		}
	}
}

// Held reports whether key is currently held.
func (m *Manager) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[key]
}

func (m *Manager) allFree(keys []string) bool {
	for _, k := range keys {
		if m.held[k] {
			return false
		}
	}
	return true
}

func (m *Manager) releaser(keys []string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, k := range keys {
				delete(m.held, k)
			}
			// Wake every waiter; each re-checks its own key set.
			close(m.freed)
			m.freed = make(chan struct{})
		})
	}
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
