// Package runner implements the per-job step sequencer.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes the ordered step list of a single job inside an ephemeral
// environment. Steps run strictly in declaration order; the first failing
// step aborts the rest of the job and nothing else.
type Runner struct {
	provisioner ports.Provisioner
	executor    ports.Executor
	telemetry   ports.Telemetry
	logger      ports.Logger
}

// New creates a new Runner.
func New(
	provisioner ports.Provisioner,
	executor ports.Executor,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Runner {
	return &Runner{
		provisioner: provisioner,
		executor:    executor,
		telemetry:   telemetry,
		logger:      logger,
	}
}

// Run executes the job to completion and returns its terminal result.
// Failures are reported through the result, never as a panic or a partial
// state: a provisioning error fails the job before any step runs.
func (r *Runner) Run(ctx context.Context, job domain.JobSpec) domain.JobResult {
	ctx, vertex := r.telemetry.Record(ctx, job.Name)

	env, err := r.provisioner.Provision(ctx, job)
	if err != nil {
		err = zerr.Wrap(err, "environment provisioning failed")
		err = zerr.With(err, "job", job.Name)
		err = zerr.With(err, "runner", job.Runner)
		r.logger.Error(err)
		vertex.Complete(err)
		return domain.JobResult{
			Job:    job,
			Status: domain.StatusFailed,
			Steps:  skipAll(job.Steps),
			Err:    err,
		}
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			r.logger.Warn(fmt.Sprintf("workspace cleanup failed for %s: %v", job.Name, cerr))
		}
	}()

	result := domain.JobResult{Job: job, Status: domain.StatusSucceeded}

	for _, step := range job.Steps {
		if result.FailedStep != "" {
			result.Steps = append(result.Steps, domain.StepResult{Name: step.Name, Status: domain.StepSkipped})
			continue
		}
		if !job.StepMatches(step) {
			r.logger.Info(fmt.Sprintf("%s: skipping %q (condition %s != %s)", job.Name, step.Name, step.When.Axis, step.When.Value))
			result.Steps = append(result.Steps, domain.StepResult{Name: step.Name, Status: domain.StepSkipped})
			continue
		}

		res := r.runStep(ctx, env, job, step, vertex)
		result.Steps = append(result.Steps, res)

		if res.Err != nil {
			result.Status = domain.StatusFailed
			result.FailedStep = step.Name
			result.Err = res.Err
		}
	}

	vertex.Complete(result.Err)
	return result
}

func (r *Runner) runStep(ctx context.Context, env ports.Environment, job domain.JobSpec, step domain.Step, vertex ports.Vertex) domain.StepResult {
	r.logger.Info(fmt.Sprintf("%s: %s", job.Name, step.Name))

	var output bytes.Buffer
	start := time.Now()

	var err error
	if step.Kind == domain.KindCheckout {
		err = env.Checkout(ctx)
	} else {
		err = r.executor.Execute(ctx, env, step, io.MultiWriter(&output, vertex.Stdout()))
	}

	res := domain.StepResult{
		Name:     step.Name,
		Status:   domain.StepSucceeded,
		Output:   output.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		res.Status = domain.StepFailed
		res.Err = zerr.With(zerr.With(err, "job", job.Name), "step", step.Name)
		r.logger.Error(res.Err)
	}
	return res
}

func skipAll(steps []domain.Step) []domain.StepResult {
	results := make([]domain.StepResult, len(steps))
	for i, s := range steps {
		results[i] = domain.StepResult{Name: s.Name, Status: domain.StepSkipped}
	}
	return results
}
