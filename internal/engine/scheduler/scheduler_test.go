package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/puppet/internal/core/ports/mocks"
	"go.trai.ch/puppet/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type schedulerTestMocks struct {
	executor *mocks.MockExecutor
	store    *mocks.MockArtifactStore
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
}

// setupSchedulerTest creates a scheduler and common mocks.
func setupSchedulerTest(t *testing.T) (*scheduler.Scheduler, schedulerTestMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := schedulerTestMocks{
		executor: mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockArtifactStore(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	mockSpan := mocks.NewMockSpan(ctrl)
	mockSpan.EXPECT().End().AnyTimes()
	mockSpan.EXPECT().RecordError(gomock.Any()).AnyTimes()
	mockSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	// Start has variadic signature: Start(ctx, name, ...opts).
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, mockSpan
		},
	).AnyTimes()
	m.tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	s := scheduler.NewScheduler(m.executor, m.store, m.tracer, m.logger)
	return s, m
}

func newTask(name string) *domain.Task {
	return &domain.Task{
		Type:   "test",
		Params: domain.MustParameterSet(map[string]any{"name": name}),
	}
}

// putRecorder records the order in which artifacts are persisted.
type putRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *putRecorder) put(a domain.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, a.Params["name"].(string))
	return nil
}

func (r *putRecorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

// taskMatcher implements gomock.Matcher for domain.Task.
type taskMatcher struct {
	name string
}

func (m taskMatcher) Matches(x any) bool {
	t, ok := x.(*domain.Task)
	if !ok {
		return false
	}
	return t.Params.String("name") == m.name
}

func (m taskMatcher) String() string {
	return "task name is " + m.name
}

func matchTask(name string) gomock.Matcher {
	return taskMatcher{name: name}
}

func TestScheduler_DiamondDependency(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// Graph: A -> B, A -> C, B -> D, C -> D.
		d := newTask("D")
		b := newTask("B")
		b.Require("d", d)
		c := newTask("C")
		c.Require("d", newTask("D"))
		a := newTask("A")
		a.Require("b", b)
		a.Require("c", c)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(4)

		dCall := m.executor.EXPECT().Execute(gomock.Any(), matchTask("D"), gomock.Any()).
			Return(domain.Outcome{}, nil).Times(1)
		bCall := m.executor.EXPECT().Execute(gomock.Any(), matchTask("B"), gomock.Any()).
			Return(domain.Outcome{}, nil).Times(1).After(dCall)
		cCall := m.executor.EXPECT().Execute(gomock.Any(), matchTask("C"), gomock.Any()).
			Return(domain.Outcome{}, nil).Times(1).After(dCall)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).
			Return(domain.Outcome{}, nil).Times(1).After(bCall).After(cCall)

		require.NoError(t, s.Run(t.Context(), []*domain.Task{a}, 4))

		st, ok := s.Status(a.Key())
		require.True(t, ok)
		assert.Equal(t, domain.StatusDone, st)
		assert.Equal(t, map[domain.TaskStatus]int{domain.StatusDone: 4}, s.Counts())
	})
}

func TestScheduler_SkipsTaskWithArtifact(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newTask("A")
		b := newTask("B")
		b.Require("a", a)

		s, m := setupSchedulerTest(t)

		cached := &domain.Artifact{Key: a.Key(), Type: a.Type, Result: json.RawMessage(`{"Id":"port-1"}`)}
		m.store.EXPECT().Get(a.Key()).Return(cached, nil)
		m.store.EXPECT().Get(b.Key()).Return(nil, nil)
		m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(1)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Times(0)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("B"), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *domain.Task, inputs domain.Inputs) (domain.Outcome, error) {
				var p domain.Portfolio
				if err := inputs.Decode("a", &p); err != nil {
					return domain.Outcome{}, err
				}
				return domain.Outcome{Result: p}, nil
			},
		)

		require.NoError(t, s.Run(t.Context(), []*domain.Task{b}, 2))

		st, _ := s.Status(a.Key())
		assert.Equal(t, domain.StatusCached, st)
		st, _ = s.Status(b.Key())
		assert.Equal(t, domain.StatusDone, st)
	})
}

func TestScheduler_FailureIsolation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// X fails; Z depends on X; Y is unrelated.
		x := newTask("X")
		z := newTask("Z")
		z.Require("x", x)
		y := newTask("Y")

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()

		rec := &putRecorder{}
		m.store.EXPECT().Put(gomock.Any()).DoAndReturn(rec.put).AnyTimes()

		failure := errors.New("boom")
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("X"), gomock.Any()).Return(domain.Outcome{}, failure)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("Y"), gomock.Any()).Return(domain.Outcome{}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("Z"), gomock.Any()).Times(0)

		err := s.Run(t.Context(), []*domain.Task{z, y}, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, failure)
		assert.ErrorContains(t, err, domain.ErrTaskExecutionFailed.Error())

		assert.Equal(t, []string{"Y"}, rec.order())

		for task, want := range map[*domain.Task]domain.TaskStatus{
			x: domain.StatusFailed,
			y: domain.StatusDone,
			z: domain.StatusCancelled,
		} {
			st, _ := s.Status(task.Key())
			assert.Equal(t, want, st, task.DisplayName())
		}
	})
}

func TestScheduler_DynamicExpansion(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// A emits E1 and E2; B depends on A.
		a := newTask("A")
		b := newTask("B")
		b.Require("a", a)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()

		rec := &putRecorder{}
		m.store.EXPECT().Put(gomock.Any()).DoAndReturn(rec.put).Times(4)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Return(domain.Outcome{
			Result:  map[string]string{"portfolio": "P"},
			Emitted: []*domain.Task{newTask("E1"), newTask("E2")},
		}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("E1"), gomock.Any()).DoAndReturn(
			func(context.Context, *domain.Task, domain.Inputs) (domain.Outcome, error) {
				time.Sleep(time.Second)
				return domain.Outcome{}, nil
			},
		)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("E2"), gomock.Any()).Return(domain.Outcome{}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("B"), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *domain.Task, inputs domain.Inputs) (domain.Outcome, error) {
				var got map[string]string
				assert.NoError(t, inputs.Decode("a", &got))
				assert.Equal(t, "P", got["portfolio"])
				return domain.Outcome{}, nil
			},
		)

		require.NoError(t, s.Run(t.Context(), []*domain.Task{b}, 4))

		order := rec.order()
		require.Len(t, order, 4)
		assert.ElementsMatch(t, []string{"E1", "E2"}, order[:2])
		assert.Equal(t, []string{"A", "B"}, order[2:])
	})
}

func TestScheduler_EmittedFailureFailsEmitter(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newTask("A")
		b := newTask("B")
		b.Require("a", a)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any()).Times(0)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Return(domain.Outcome{
			Emitted: []*domain.Task{newTask("E")},
		}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("E"), gomock.Any()).
			Return(domain.Outcome{}, errors.New("build failed"))
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("B"), gomock.Any()).Times(0)

		err := s.Run(t.Context(), []*domain.Task{b}, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmittedTaskFailed)

		st, _ := s.Status(a.Key())
		assert.Equal(t, domain.StatusFailed, st)
		st, _ = s.Status(b.Key())
		assert.Equal(t, domain.StatusCancelled, st)
	})
}

func TestScheduler_EmittingCompletedTaskPersistsImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTask("C")
		a := newTask("A")
		a.Require("c", c)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("C"), gomock.Any()).Return(domain.Outcome{}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Return(domain.Outcome{
			Emitted: []*domain.Task{newTask("C")},
		}, nil)

		require.NoError(t, s.Run(t.Context(), []*domain.Task{a}, 1))
	})
}

func TestScheduler_EmittedCycleFailsEmitter(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newTask("A")
		back := newTask("back")
		back.Require("a", a)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any()).Times(0)

		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Return(domain.Outcome{
			Emitted: []*domain.Task{back},
		}, nil)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("back"), gomock.Any()).Times(0)

		err := s.Run(t.Context(), []*domain.Task{a}, 2)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrCycleDetected.Error())

		st, _ := s.Status(back.Key())
		assert.Equal(t, domain.StatusCancelled, st)
	})
}

func TestScheduler_LocksSerializeSharedResources(t *testing.T) {
	tests := []struct {
		name  string
		locks [2]string
		want  time.Duration
	}{
		{name: "same lock", locks: [2]string{"111-eu-west-1-P", "111-eu-west-1-P"}, want: 2 * time.Second},
		{name: "different locks", locks: [2]string{"111-eu-west-1-P", "222-eu-west-1-P"}, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				first := newTask("first")
				first.Locks = []string{tt.locks[0]}
				second := newTask("second")
				second.Locks = []string{tt.locks[1]}

				s, m := setupSchedulerTest(t)
				m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
				m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(2)
				m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(context.Context, *domain.Task, domain.Inputs) (domain.Outcome, error) {
						time.Sleep(time.Second)
						return domain.Outcome{}, nil
					},
				).Times(2)

				start := time.Now()
				require.NoError(t, s.Run(t.Context(), []*domain.Task{first, second}, 2))
				assert.Equal(t, tt.want, time.Since(start))
			})
		})
	}
}

func TestScheduler_ContextCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newTask("A")
		b := newTask("B")
		b.Require("a", a)

		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()

		ctx, cancel := context.WithCancel(t.Context())
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *domain.Task, _ domain.Inputs) (domain.Outcome, error) {
				cancel()
				<-ctx.Done()
				return domain.Outcome{}, ctx.Err()
			},
		)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("B"), gomock.Any()).Times(0)

		err := s.Run(ctx, []*domain.Task{b}, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestScheduler_CollapsesDuplicateRoots(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s, m := setupSchedulerTest(t)
		m.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		m.store.EXPECT().Put(gomock.Any()).Return(nil).Times(1)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("A"), gomock.Any()).Return(domain.Outcome{}, nil).Times(1)

		require.NoError(t, s.Run(t.Context(), []*domain.Task{newTask("A"), newTask("A")}, 2))
	})
}

func TestScheduler_VolatileTaskBypassesStore(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newTask("A")
		v := newTask("V")
		v.Volatile = true
		v.Require("a", a)

		s, m := setupSchedulerTest(t)

		cached := &domain.Artifact{Key: a.Key(), Type: a.Type, Result: json.RawMessage(`{}`)}
		m.store.EXPECT().Get(a.Key()).Return(cached, nil).Times(2)
		m.store.EXPECT().Get(v.Key()).Times(0)
		m.store.EXPECT().Put(gomock.Any()).Times(0)
		m.executor.EXPECT().Execute(gomock.Any(), matchTask("V"), gomock.Any()).Return(domain.Outcome{}, nil).Times(2)

		for range 2 {
			require.NoError(t, s.Run(t.Context(), []*domain.Task{v}, 2))
			st, _ := s.Status(v.Key())
			assert.Equal(t, domain.StatusDone, st)
		}
	})
}

// statusRecorder is a tracer keeping the final status attribute of every span by name.
type statusRecorder struct {
	mu       sync.Mutex
	statuses map[string]string
}

func (r *statusRecorder) Start(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, &recordedSpan{r: r, name: name}
}

func (r *statusRecorder) EmitPlan(context.Context, []string) {}

func (r *statusRecorder) count(status domain.TaskStatus) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, st := range r.statuses {
		if st == string(status) {
			n++
		}
	}
	return n
}

type recordedSpan struct {
	r    *statusRecorder
	name string
}

func (s *recordedSpan) End()              {}
func (s *recordedSpan) RecordError(error) {}

func (s *recordedSpan) SetAttribute(key string, value any) {
	if key != ports.AttrStatus {
		return
	}
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.statuses[s.name] = value.(string)
}

func TestScheduler_CancellationDrainsRunningAndCancelsReady(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		// A and B are both ready; C depends on B. Only one body runs at a time.
		a := newTask("A")
		b := newTask("B")
		c := newTask("C")
		c.Require("b", b)

		ctrl := gomock.NewController(t)
		executor := mocks.NewMockExecutor(ctrl)
		store := mocks.NewMockArtifactStore(ctrl)
		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
		store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
		tracer := &statusRecorder{statuses: make(map[string]string)}

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ *domain.Task, _ domain.Inputs) (domain.Outcome, error) {
				cancel()
				// The bubble clock only advances while the loop is blocked.
				time.Sleep(time.Minute)
				return domain.Outcome{}, ctx.Err()
			},
		).Times(1)

		s := scheduler.NewScheduler(executor, store, tracer, logger)
		start := time.Now()
		err := s.Run(ctx, []*domain.Task{a, c}, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, time.Minute, time.Since(start))

		assert.Equal(t, map[domain.TaskStatus]int{
			domain.StatusFailed:    1,
			domain.StatusCancelled: 2,
		}, s.Counts())
		assert.Equal(t, 2, tracer.count(domain.StatusCancelled))
		assert.Equal(t, 1, tracer.count(domain.StatusFailed))
	})
}
