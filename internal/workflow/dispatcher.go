package workflow

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
	"go.trai.ch/zerr"
)

// Intervals are the fixed sleeps between status checks of remote operations.
type Intervals struct {
	Copy       time.Duration
	Membership time.Duration
	Build      time.Duration
}

// DefaultIntervals match the pace the control plane settles at.
var DefaultIntervals = Intervals{
	Copy:       5 * time.Second,
	Membership: 2 * time.Second,
	Build:      10 * time.Second,
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithIntervals overrides the polling intervals.
func WithIntervals(i Intervals) Option {
	return func(d *Dispatcher) {
		d.intervals = i
	}
}

type handler func(ctx context.Context, run *Run) (domain.Outcome, error)

// Dispatcher implements ports.Executor by routing each task to the workflow of its type.
type Dispatcher struct {
	clients   ports.ClientFactory
	templates ports.TemplateRenderer
	logger    ports.Logger
	dataDir   string
	intervals Intervals
	handlers  map[domain.TaskType]handler
}

// NewDispatcher creates a Dispatcher. Policy and share requests are recorded under dataDir.
func NewDispatcher(
	clients ports.ClientFactory,
	templates ports.TemplateRenderer,
	logger ports.Logger,
	dataDir string,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		clients:   clients,
		templates: templates,
		logger:    logger,
		dataDir:   dataDir,
		intervals: DefaultIntervals,
	}
	d.handlers = map[domain.TaskType]handler{
		TypeGetPortfolioID:                    d.getPortfolioID,
		TypeGetProductID:                      d.getProductID,
		TypeGetVersionID:                      d.getVersionID,
		TypeGetSSMParam:                       d.getSSMParam,
		TypeProvisionAction:                   d.provisionAction,
		TypeCreateSpokeLocalPortfolio:         d.createSpokeLocalPortfolio,
		TypeImportIntoSpokeLocalPortfolio:     d.importIntoSpokeLocalPortfolio,
		TypeSyncVersionActivation:             d.syncVersionActivation,
		TypeCreateAssociations:                d.createAssociations,
		TypeCreateLaunchRoleConstraints:       d.createLaunchRoleConstraints,
		TypeRequestPolicy:                     d.requestPolicy,
		TypeShareAndAcceptPortfolio:           d.shareAndAcceptPortfolio,
		TypeAssociateHubPrincipal:             d.associateHubPrincipal,
		TypeCreateShareForAccountLaunchRegion: d.createShareForAccountLaunchRegion,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Types returns the task types the dispatcher handles.
func (d *Dispatcher) Types() []domain.TaskType {
	types := make([]domain.TaskType, 0, len(d.handlers))
	for t := range d.handlers {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Execute runs the workflow body of the task.
func (d *Dispatcher) Execute(ctx context.Context, task *domain.Task, inputs domain.Inputs) (domain.Outcome, error) {
	h, ok := d.handlers[task.Type]
	if !ok {
		return domain.Outcome{}, zerr.With(zerr.Wrap(domain.ErrUnknownTaskType, "dispatch"), "type", string(task.Type))
	}

	run := &Run{
		Task:   task,
		Inputs: inputs,
		Log:    d.logger.With(correlationArgs(task)...),
	}
	run.Log.Debug("starting", "task", task.Key().String())
	return h(ctx, run)
}

// Run is the execution context of one workflow invocation.
// It carries the correlation ids of the task on its logger.
type Run struct {
	Task   *domain.Task
	Inputs domain.Inputs
	Log    ports.Logger
}

func (r *Run) param(name string) string {
	return r.Task.Params.String(name)
}

func (r *Run) option(name, fallback string) string {
	if v := r.Task.Options.String(name); v != "" {
		return v
	}
	return fallback
}

func (r *Run) account() string   { return r.param(paramAccountID) }
func (r *Run) region() string    { return r.param(paramRegion) }
func (r *Run) portfolio() string { return r.param(paramPortfolio) }

// notificationARNs returns the regional events topic when the run publishes stack events.
func (r *Run) notificationARNs() []string {
	if !r.Task.Options.Bool(optShouldUseSNS) {
		return nil
	}
	return []string{domain.RegionalEventsTopicARN(r.region(), r.param(paramPuppetAccountID))}
}

// paramsResult is the parameter set of the task, the result of bookkeeping workflows.
func (r *Run) paramsResult() domain.Outcome {
	return domain.Outcome{Result: r.Task.Params.Interface()}
}

func correlationArgs(task *domain.Task) []any {
	corr := task.Correlation()
	args := make([]any, 0, 2*len(corr))
	for _, name := range domain.CorrelationParams {
		if v, ok := corr[name]; ok {
			args = append(args, name, v)
		}
	}
	return args
}

// roleSession returns a session for the execution role of an account.
func roleSession(account, region, sessionName string) domain.RoleSession {
	return domain.RoleSession{
		AccountID:   account,
		RoleARN:     domain.PuppetRoleARN(account),
		SessionName: sessionName,
		Region:      region,
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// writeRecord writes a JSON document under the data directory, creating parents.
func (d *Dispatcher) writeRecord(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode record"), "path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create record directory"), "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write record"), "path", path)
	}
	return nil
}
