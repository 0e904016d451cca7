// Package scheduler executes task graphs that may grow while they run.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/puppet/internal/engine/locks"
	"go.trai.ch/zerr"
)

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	executor ports.Executor
	store    ports.ArtifactStore
	tracer   ports.Tracer
	logger   ports.Logger
	locks    *locks.Manager

	mu         sync.RWMutex
	taskStatus map[domain.Key]domain.TaskStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	executor ports.Executor,
	store ports.ArtifactStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		store:      store,
		tracer:     tracer,
		logger:     logger,
		locks:      locks.NewManager(),
		taskStatus: make(map[domain.Key]domain.TaskStatus),
	}
}

// Status returns the status of a task in the most recent run.
func (s *Scheduler) Status(key domain.Key) (domain.TaskStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.taskStatus[key]
	return st, ok
}

// Counts returns the number of tasks per status in the most recent run.
func (s *Scheduler) Counts() map[domain.TaskStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.TaskStatus]int)
	for _, st := range s.taskStatus {
		out[st]++
	}
	return out
}

func (s *Scheduler) updateStatus(key domain.Key, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[key] = status
}

func (s *Scheduler) status(key domain.Key) domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[key]
}

// Run plans the roots and the closure of their requirements, then executes
// them with at most parallelism task bodies in flight.
//
// A failed task cancels only its transitive dependents. Run returns the
// joined errors of every failed task, or nil when all tasks completed.
func (s *Scheduler) Run(ctx context.Context, roots []*domain.Task, parallelism int) error {
	if parallelism < 1 {
		parallelism = 1
	}

	graph := domain.NewGraph()
	for _, root := range roots {
		if _, err := graph.Expand(root); err != nil {
			return err
		}
	}
	if err := graph.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.taskStatus = make(map[domain.Key]domain.TaskStatus, graph.TaskCount())
	s.mu.Unlock()

	state := s.newRunState(ctx, graph, parallelism)

	planned := make([]string, 0, graph.TaskCount())
	for task := range graph.Walk() {
		planned = append(planned, task.DisplayName())
	}
	s.tracer.EmitPlan(ctx, planned)

	return state.runExecutionLoop()
}

type result struct {
	key     domain.Key
	err     error
	cached  *domain.Artifact
	payload json.RawMessage
	emitted []*domain.Task
}

type schedulerRunState struct {
	graph       *domain.Graph
	inDegree    map[domain.Key]int
	ready       []domain.Key
	active      int
	resultsCh   chan result
	errs        error
	ctx         context.Context
	parallelism int
	s           *Scheduler

	// artifacts holds the results of completed tasks for their dependents.
	artifacts map[domain.Key]*domain.Artifact
	// awaiting holds the payloads of tasks whose bodies succeeded but whose
	// emitted tasks have not all completed yet.
	awaiting map[domain.Key]json.RawMessage
}

func (s *Scheduler) newRunState(ctx context.Context, graph *domain.Graph, parallelism int) *schedulerRunState {
	state := &schedulerRunState{
		graph:       graph,
		inDegree:    make(map[domain.Key]int, graph.TaskCount()),
		resultsCh:   make(chan result, parallelism),
		ctx:         ctx,
		parallelism: parallelism,
		s:           s,
		artifacts:   make(map[domain.Key]*domain.Artifact),
		awaiting:    make(map[domain.Key]json.RawMessage),
	}

	for task := range graph.Walk() {
		key := task.Key()
		state.inDegree[key] = len(graph.Dependencies(key))
		s.updateStatus(key, domain.StatusPending)
		if state.inDegree[key] == 0 {
			state.markReady(key)
		}
	}

	return state
}

func (state *schedulerRunState) runExecutionLoop() error {
	done := state.ctx.Done()
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		// Once cancelled, nothing new starts and the loop only drains results.
		if state.ctx.Err() != nil {
			state.cancelReady()
			if state.active == 0 {
				break
			}
			done = nil
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-done:
		}
	}

	if state.ctx.Err() != nil {
		state.errs = errors.Join(state.errs, state.ctx.Err())
	}

	return state.errs
}

// cancelReady cancels every task that was ready but never started.
func (state *schedulerRunState) cancelReady() {
	ready := state.ready
	state.ready = nil
	for _, key := range ready {
		state.cancel(key)
	}
}

// cancel marks a task that never started as cancelled, along with its dependents.
func (state *schedulerRunState) cancel(key domain.Key) {
	state.s.updateStatus(key, domain.StatusCancelled)
	state.reportCancelled(key)
	state.cancelDependents(key)
}

// reportCancelled records an empty span so progress output accounts for the task.
func (state *schedulerRunState) reportCancelled(key domain.Key) {
	task, ok := state.graph.Task(key)
	if !ok {
		return
	}
	_, span := state.s.tracer.Start(state.ctx, task.DisplayName(), ports.WithAttributes(task.Correlation()))
	span.SetAttribute(ports.AttrKey, key.String())
	span.SetAttribute(ports.AttrStatus, string(domain.StatusCancelled))
	span.End()
}

func (state *schedulerRunState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *schedulerRunState) markReady(key domain.Key) {
	state.ready = append(state.ready, key)
	state.s.updateStatus(key, domain.StatusReady)
}

func (state *schedulerRunState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		key := state.ready[0]
		state.ready = state.ready[1:]

		task, _ := state.graph.Task(key)
		state.active++
		state.s.updateStatus(key, domain.StatusRunning)

		go state.executeTask(task, state.inputsFor(task))
	}
}

// inputsFor collects the artifacts of a task's declared requirements.
// It runs on the loop goroutine, which owns the artifacts map.
func (state *schedulerRunState) inputsFor(task *domain.Task) domain.Inputs {
	inputs := make(domain.Inputs, len(task.Requires))
	for _, req := range task.Requires {
		inputs[req.Name] = state.artifacts[req.Task.Key()]
	}
	return inputs
}

func (state *schedulerRunState) executeTask(task *domain.Task, inputs domain.Inputs) {
	key := task.Key()

	// The span ends before the result is sent so the renderer observes
	// completion before the loop moves on.
	res := func() result {
		ctx, span := state.s.tracer.Start(state.ctx, task.DisplayName(), ports.WithAttributes(task.Correlation()))
		defer span.End()
		span.SetAttribute(ports.AttrKey, key.String())

		if !task.Volatile {
			artifact, err := state.s.store.Get(key)
			if err != nil {
				span.RecordError(err)
				span.SetAttribute(ports.AttrStatus, string(domain.StatusFailed))
				return result{key: key, err: err}
			}
			if artifact != nil {
				span.SetAttribute(ports.AttrStatus, string(domain.StatusCached))
				return result{key: key, cached: artifact}
			}
		}

		release, err := state.s.locks.Acquire(ctx, task.Locks)
		if err != nil {
			span.RecordError(err)
			span.SetAttribute(ports.AttrStatus, string(domain.StatusFailed))
			return result{key: key, err: err}
		}
		outcome, err := state.s.executor.Execute(ctx, task, inputs)
		release()
		if err != nil {
			span.RecordError(err)
			span.SetAttribute(ports.AttrStatus, string(domain.StatusFailed))
			return result{key: key, err: err}
		}

		payload, err := json.Marshal(outcome.Result)
		if err != nil {
			err = zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
			span.RecordError(err)
			span.SetAttribute(ports.AttrStatus, string(domain.StatusFailed))
			return result{key: key, err: err}
		}

		span.SetAttribute(ports.AttrStatus, string(domain.StatusDone))
		return result{key: key, payload: payload, emitted: outcome.Emitted}
	}()

	state.resultsCh <- res
}

func (state *schedulerRunState) handleResult(res result) {
	state.active--

	switch {
	case res.err != nil:
		state.fail(res.key, res.err)
	case res.cached != nil:
		state.s.logger.Debug("skipping task, artifact exists", "task", res.key.String())
		state.artifacts[res.key] = res.cached
		state.complete(res.key, domain.StatusCached)
	case len(res.emitted) > 0:
		state.handleEmitted(res)
	default:
		state.persist(res.key, res.payload)
	}
}

// persist writes the artifact of a task and releases its dependents.
// Artifacts of volatile tasks are only kept for the current run.
func (state *schedulerRunState) persist(key domain.Key, payload json.RawMessage) {
	task, _ := state.graph.Task(key)
	artifact := domain.Artifact{
		Key:       key,
		Type:      task.Type,
		Params:    task.Params.Interface(),
		Result:    payload,
		Timestamp: time.Now().UTC(),
	}
	if !task.Volatile {
		if err := state.s.store.Put(artifact); err != nil {
			state.fail(key, err)
			return
		}
	}
	state.artifacts[key] = &artifact
	state.complete(key, domain.StatusDone)
}

func (state *schedulerRunState) complete(key domain.Key, status domain.TaskStatus) {
	state.s.updateStatus(key, status)

	for _, dep := range state.graph.Dependents(key) {
		if state.s.status(dep).IsTerminal() {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] > 0 {
			continue
		}
		if payload, ok := state.awaiting[dep]; ok {
			delete(state.awaiting, dep)
			state.persist(dep, payload)
			continue
		}
		if state.s.status(dep) == domain.StatusPending {
			state.markReady(dep)
		}
	}
}

func (state *schedulerRunState) fail(key domain.Key, err error) {
	enhancedErr := zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", key.String())
	state.errs = errors.Join(state.errs, enhancedErr)
	state.s.updateStatus(key, domain.StatusFailed)
	state.cancelDependents(key)
}

// cancelDependents cancels every dependent that never started and fails
// every emitter that was waiting on key.
func (state *schedulerRunState) cancelDependents(key domain.Key) {
	for _, dep := range state.graph.Dependents(key) {
		if _, ok := state.awaiting[dep]; ok {
			delete(state.awaiting, dep)
			state.fail(dep, zerr.With(
				zerr.Wrap(domain.ErrEmittedTaskFailed, "emitted task did not complete"),
				"emitted", key.String(),
			))
			continue
		}
		if state.s.status(dep) == domain.StatusPending {
			state.cancel(dep)
		}
	}
}

// handleEmitted inserts the tasks emitted by a successful body as new
// dependencies of the emitter. The emitter is persisted once they all complete.
func (state *schedulerRunState) handleEmitted(res result) {
	var added []domain.Key
	var structErr error
	for _, t := range res.emitted {
		keys, err := state.graph.Expand(t)
		added = append(added, keys...)
		if err != nil {
			structErr = errors.Join(structErr, err)
			continue
		}
		if err := state.graph.AddDependency(res.key, t.Key()); err != nil {
			structErr = errors.Join(structErr, err)
		}
	}

	// New tasks count only the dependencies that have not succeeded yet.
	var cancelled []domain.Key
	for _, key := range added {
		state.s.updateStatus(key, domain.StatusPending)
		degree := 0
		blocked := false
		for _, dep := range state.graph.Dependencies(key) {
			st := state.s.status(dep)
			switch {
			case st.IsSuccess():
			case st == domain.StatusFailed || st == domain.StatusCancelled:
				blocked = true
			default:
				degree++
			}
		}
		state.inDegree[key] = degree
		if blocked {
			cancelled = append(cancelled, key)
		}
	}

	names := make([]string, 0, len(added))
	for _, key := range added {
		task, _ := state.graph.Task(key)
		names = append(names, task.DisplayName())
	}
	if len(names) > 0 {
		state.s.tracer.EmitPlan(state.ctx, names)
	}

	if structErr != nil {
		state.fail(res.key, structErr)
	} else {
		state.await(res)
	}

	for _, key := range cancelled {
		if state.s.status(key) == domain.StatusPending {
			state.cancel(key)
		}
	}
	for _, key := range added {
		if state.s.status(key) == domain.StatusPending && state.inDegree[key] == 0 {
			state.markReady(key)
		}
	}
}

func (state *schedulerRunState) await(res result) {
	remaining := 0
	seen := make(map[domain.Key]bool, len(res.emitted))
	for _, t := range res.emitted {
		key := t.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		switch st := state.s.status(key); {
		case st.IsSuccess():
		case st == domain.StatusFailed || st == domain.StatusCancelled:
			state.fail(res.key, zerr.With(
				zerr.Wrap(domain.ErrEmittedTaskFailed, "emitted task did not complete"),
				"emitted", key.String(),
			))
			return
		default:
			remaining++
		}
	}

	if remaining == 0 {
		state.persist(res.key, res.payload)
		return
	}

	state.s.logger.Debug("awaiting emitted tasks", "task", res.key.String(), "remaining", remaining)
	state.inDegree[res.key] = remaining
	state.awaiting[res.key] = res.payload
}
