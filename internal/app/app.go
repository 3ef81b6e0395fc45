// Package app implements the application layer for loom.
package app

import (
	"context"
	"fmt"
	"runtime"

	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"go.loomci.dev/loom/internal/engine/matrix"
	"go.trai.ch/zerr"
)

// EventPush is the only event kind loom reacts to. Pushes to branches
// outside the workflow trigger, and any other event kind, are no-ops.
const EventPush = "push"

// RunOptions control a single pipeline invocation.
type RunOptions struct {
	// Branch is the branch the push event landed on.
	Branch string
	// Event is the event kind, normally "push".
	Event string
	// Config is the path of the workflow file. Empty means loom.yaml in
	// the working directory.
	Config string
	// Parallelism caps how many jobs run at once. Zero or negative
	// means one worker per CPU.
	Parallelism int
}

// Scheduler executes a set of expanded jobs and reports the outcome.
type Scheduler interface {
	Run(ctx context.Context, jobs []domain.JobSpec, parallelism int) domain.PipelineResult
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    Scheduler
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, sched Scheduler, telemetry ports.Telemetry, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// Run loads the workflow declaration, expands its build matrix for the
// given event and executes the resulting jobs.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn("closing telemetry: " + err.Error())
		}
	}()

	jobs, workflow, err := a.plan(opts.Config, opts.Branch, opts.Event)
	if err != nil {
		return err
	}
	if workflow == nil {
		// Event did not activate the workflow, nothing to do.
		return nil
	}
	if len(jobs) == 0 {
		a.logger.Info(fmt.Sprintf("workflow %q: no jobs to run", workflow.Name))
		return nil
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	result := a.scheduler.Run(ctx, jobs, parallelism)

	succeeded, failed, skipped := result.Counts()
	a.logger.Info(fmt.Sprintf("workflow %q: %d succeeded, %d failed, %d skipped", workflow.Name, succeeded, failed, skipped))

	if !result.Succeeded() {
		err := zerr.Wrap(domain.ErrPipelineFailed, "at least one job did not succeed")
		err = zerr.With(err, "failed", failed)
		return zerr.With(err, "skipped", skipped)
	}
	return nil
}

// Plan expands the build matrix for a push to the given branch without
// executing anything. A branch outside the trigger yields zero jobs.
func (a *App) Plan(config, branch string) ([]domain.JobSpec, error) {
	jobs, _, err := a.plan(config, branch, EventPush)
	return jobs, err
}

func (a *App) plan(config, branch, event string) ([]domain.JobSpec, *domain.Workflow, error) {
	workflow, err := a.configLoader.Load(config)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to load workflow")
	}

	if event != EventPush {
		a.logger.Info(fmt.Sprintf("ignoring %q event, only %q activates the workflow", event, EventPush))
		return nil, nil, nil
	}
	if !workflow.Trigger.Matches(domain.PushEvent{Branch: branch}) {
		a.logger.Info(fmt.Sprintf("branch %q does not match any trigger branch, nothing to do", branch))
		return nil, nil, nil
	}

	return matrix.ExpandWorkflow(workflow), workflow, nil
}
