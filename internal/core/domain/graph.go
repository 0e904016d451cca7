// Package domain contains the core domain models and business logic for the task dependency graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is a dependency graph of tasks keyed by identity.
// Tasks with equal identity collapse into a single node.
type Graph struct {
	tasks          map[Key]*Task
	deps           map[Key][]Key
	dependents     map[Key][]Key
	insertion      []Key
	executionOrder []Key
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:      make(map[Key]*Task),
		deps:       make(map[Key][]Key),
		dependents: make(map[Key][]Key),
	}
}

// AddTask adds a single task without its requirements.
// It returns an error if a task with the same identity already exists.
func (g *Graph) AddTask(t *Task) error {
	key := t.Key()
	if _, exists := g.tasks[key]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task", key.String())
	}
	g.tasks[key] = t
	g.insertion = append(g.insertion, key)
	return nil
}

// Expand inserts a task and the transitive closure of its requirements.
// Nodes already present are reused. It returns the keys that were newly added,
// dependencies before dependents.
func (g *Graph) Expand(root *Task) ([]Key, error) {
	var added []Key
	visiting := make(map[Key]bool)

	var visit func(t *Task) (Key, error)
	visit = func(t *Task) (Key, error) {
		key := t.Key()
		if _, exists := g.tasks[key]; exists {
			return key, nil
		}
		if visiting[key] {
			return key, zerr.With(ErrCycleDetected, "cycle", key.String())
		}
		visiting[key] = true

		depKeys := make([]Key, 0, len(t.Requires))
		for _, req := range t.Requires {
			depKey, err := visit(req.Task)
			if err != nil {
				return key, err
			}
			depKeys = append(depKeys, depKey)
		}

		if err := g.AddTask(t); err != nil {
			return key, err
		}
		for _, depKey := range depKeys {
			if err := g.AddDependency(key, depKey); err != nil {
				return key, err
			}
		}
		added = append(added, key)
		return key, nil
	}

	if _, err := visit(root); err != nil {
		return added, err
	}
	return added, nil
}

// AddDependency records that task `from` depends on task `to`.
// Duplicate edges are ignored. An edge that would close a cycle is rejected.
func (g *Graph) AddDependency(from, to Key) error {
	if _, ok := g.tasks[from]; !ok {
		return zerr.With(ErrTaskNotFound, "task", from.String())
	}
	if _, ok := g.tasks[to]; !ok {
		return zerr.With(ErrMissingDependency, "dependency", to.String())
	}
	if slices.Contains(g.deps[from], to) {
		return nil
	}
	if path := g.pathBetween(to, from); path != nil {
		return g.buildCycleError(append([]Key{from}, path...), from)
	}
	g.deps[from] = append(g.deps[from], to)
	g.dependents[to] = append(g.dependents[to], from)
	return nil
}

// pathBetween returns a dependency path from start down to target, or nil.
func (g *Graph) pathBetween(start, target Key) []Key {
	if start == target {
		return []Key{start}
	}
	seen := make(map[Key]bool)
	var walk func(k Key) []Key
	walk = func(k Key) []Key {
		if k == target {
			return []Key{k}
		}
		seen[k] = true
		for _, dep := range g.deps[k] {
			if seen[dep] {
				continue
			}
			if p := walk(dep); p != nil {
				return append([]Key{k}, p...)
			}
		}
		return nil
	}
	return walk(start)
}

// Validate checks for cycles in the graph using a topological sort.
// It populates the execution order if successful.
func (g *Graph) Validate() error {
	g.executionOrder = make([]Key, 0, len(g.tasks))
	visited := make(map[Key]int) // 0: unvisited, 1: visiting, 2: visited
	var path []Key

	var visit func(u Key) error
	visit = func(u Key) error {
		visited[u] = 1
		path = append(path, u)

		if _, exists := g.tasks[u]; !exists {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range g.deps[u] {
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Insertion order keeps the plan stable between runs of the same manifest.
	for _, key := range g.insertion {
		if visited[key] == 0 {
			if err := visit(key); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []Key, dep Key) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, k := range path[startIdx:] {
		parts = append(parts, k.String())
	}
	if parts[len(parts)-1] != dep.String() {
		parts = append(parts, dep.String())
	}
	return zerr.With(ErrCycleDetected, "cycle", strings.Join(parts, " -> "))
}

// Task returns the task stored under key.
func (g *Graph) Task(key Key) (*Task, bool) {
	t, ok := g.tasks[key]
	return t, ok
}

// Dependencies returns the keys a task depends on.
func (g *Graph) Dependencies(key Key) []Key {
	return g.deps[key]
}

// Dependents returns the keys of tasks that depend on key.
func (g *Graph) Dependents(key Key) []Key {
	return g.dependents[key]
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Task] {
	return func(yield func(*Task) bool) {
		for _, key := range g.executionOrder {
			if !yield(g.tasks[key]) {
				return
			}
		}
	}
}
