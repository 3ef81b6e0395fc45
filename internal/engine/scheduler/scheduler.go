// Package scheduler implements the parallel job scheduler.
//
// Jobs produced by the matrix expander are independent: there is no shared
// mutable state between them and a failure in one never cancels a sibling.
// The scheduler's only coordination concern is the parallelism bound and the
// aggregation of per-job results into a pipeline result.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs a set of job specifications with bounded parallelism.
type Scheduler struct {
	runner ports.JobRunner
	logger ports.Logger

	mu     sync.RWMutex
	status map[string]domain.JobStatus
}

// NewScheduler creates a new Scheduler with the given job runner.
func NewScheduler(runner ports.JobRunner, logger ports.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		logger: logger,
		status: make(map[string]domain.JobStatus),
	}
}

// Run executes every job and returns the aggregated result. Results keep the
// emission order of the job slice regardless of completion order.
//
// A cancelled context stops launching new jobs; jobs that never started are
// reported Skipped. Jobs already running finish and report normally.
func (s *Scheduler) Run(ctx context.Context, jobs []domain.JobSpec, parallelism int) domain.PipelineResult {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	for _, job := range jobs {
		s.setStatus(job.ID, domain.StatusPending)
	}

	results := make([]domain.JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(parallelism)

	for i, job := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil {
				s.setStatus(job.ID, domain.StatusSkipped)
				results[i] = domain.JobResult{
					Job:    job,
					Status: domain.StatusSkipped,
					Err:    ctx.Err(),
				}
				return nil
			}

			s.setStatus(job.ID, domain.StatusRunning)
			res := s.runner.Run(ctx, job)
			s.setStatus(job.ID, res.Status)
			results[i] = res
			return nil
		})
	}

	// Job failures travel through results, not errors.
	_ = g.Wait()

	return domain.PipelineResult{Jobs: results}
}

// Status returns the last observed status of the job with the given ID.
func (s *Scheduler) Status(jobID string) domain.JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[jobID]
}

func (s *Scheduler) setStatus(jobID string, status domain.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[jobID] = status
}
