// Package app implements the application layer for puppet.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.trai.ch/puppet/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/puppet/internal/adapters/progrock"  //nolint:depguard // Wired in app layer
	"go.trai.ch/puppet/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/puppet/internal/engine/scheduler"
	"go.trai.ch/puppet/internal/workflow"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Output modes accepted by RunOptions.OutputMode.
const (
	OutputLinear   = "linear"
	OutputProgrock = "progrock"
	OutputQuiet    = "quiet"
)

// DefaultWorkers is the number of task bodies run concurrently when unset.
const DefaultWorkers = 10

// LogConfigurer is implemented by loggers whose format and level can change at runtime.
type LogConfigurer interface {
	SetJSON(enabled bool)
	SetLevel(level domain.LogLevel)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	store        ports.ArtifactStore
	logger       ports.Logger

	out        io.Writer
	outputPath string
	dataPath   string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	store ports.ArtifactStore,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		store:        store,
		logger:       log,
		out:          os.Stderr,
		outputPath:   domain.DefaultOutputPath(),
		dataPath:     domain.DefaultDataPath(),
	}
}

// WithOutput sets the writer used by the progress renderer.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithPaths overrides the artifact and data directories removed by Clean.
func (a *App) WithPaths(outputPath, dataPath string) *App {
	a.outputPath = outputPath
	a.dataPath = dataPath
	return a
}

// ConfigureLogging switches the logger format and level when it supports it.
func (a *App) ConfigureLogging(jsonMode bool, level domain.LogLevel) {
	if c, ok := a.logger.(LogConfigurer); ok {
		c.SetJSON(jsonMode)
		c.SetLevel(level)
	}
}

// RunOptions configuration for the Deploy and GenerateShares methods.
type RunOptions struct {
	Workers       int
	SingleAccount string
	OutputMode    string
}

// Deploy loads the manifest and converges every spoke-local portfolio and share it declares.
func (a *App) Deploy(ctx context.Context, manifestPath string, opts RunOptions) error {
	m, err := a.configLoader.Load(manifestPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	roots := workflow.Plan(m, workflow.PlanOptions{SingleAccount: opts.SingleAccount})
	return a.execute(ctx, "deploy", roots, opts)
}

// GenerateShares loads the manifest and runs only the share tasks of every target.
func (a *App) GenerateShares(ctx context.Context, manifestPath string, opts RunOptions) error {
	m, err := a.configLoader.Load(manifestPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load manifest")
	}

	return a.execute(ctx, "generate-shares", workflow.PlanShares(m), opts)
}

func (a *App) execute(ctx context.Context, command string, roots []*domain.Task, opts RunOptions) error {
	renderer, err := a.newRenderer(opts.OutputMode)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := a.logger.With("run_id", runID, "command", command)

	if len(roots) == 0 {
		log.Warn("manifest selects no tasks")
		return nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	var tracer ports.Tracer = telemetry.NewNoOpTracer()
	if renderer != nil {
		tp := telemetry.NewProvider(renderer)
		defer func() {
			_ = tp.Shutdown(context.WithoutCancel(ctx))
		}()
		tracer = telemetry.NewOTelTracer(tp, telemetry.InstrumentationName).WithRenderer(renderer)
	}
	sched := scheduler.NewScheduler(a.executor, a.store, tracer, log)

	g, ctx := errgroup.WithContext(ctx)

	if renderer != nil {
		g.Go(func() error {
			if err := renderer.Start(ctx); err != nil {
				return err
			}
			return renderer.Wait()
		})
	}

	g.Go(func() error {
		if renderer != nil {
			defer func() {
				_ = renderer.Stop()
			}()
		}

		runCtx, span := tracer.Start(ctx, command, ports.WithAttributes(map[string]string{
			ports.AttrRunID: runID,
		}))
		defer span.End()

		log.Info("starting run", "roots", len(roots), "workers", workers)
		if err := sched.Run(runCtx, roots, workers); err != nil {
			span.RecordError(err)
			return errors.Join(domain.ErrRunFailed, err)
		}

		counts := sched.Counts()
		log.Info("run complete",
			"done", counts[domain.StatusDone],
			"cached", counts[domain.StatusCached])
		return nil
	})

	return g.Wait()
}

// newRenderer returns the progress renderer for mode, or nil when progress is not shown.
func (a *App) newRenderer(mode string) (ports.Renderer, error) {
	switch mode {
	case "", OutputLinear:
		return linear.NewRenderer(a.out), nil
	case OutputProgrock:
		return progrock.NewRenderer(progrock.NewJournal(a.out)), nil
	case OutputQuiet:
		return nil, nil
	default:
		return nil, zerr.With(zerr.New("unknown output mode"), "output_mode", mode)
	}
}

// clearer is implemented by artifact stores that can drop every artifact at once.
type clearer interface {
	Clear() error
}

// Clean removes the artifact store and the data directory so the next run starts over.
func (a *App) Clean(_ context.Context) error {
	var errs error

	remove := func(name string, fn func() error) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := fn(); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if c, ok := a.store.(clearer); ok {
		remove("artifact store", c.Clear)
	} else {
		remove("artifact store", func() error { return os.RemoveAll(a.outputPath) })
	}
	remove("data directory", func() error { return os.RemoveAll(a.dataPath) })

	return errs
}
