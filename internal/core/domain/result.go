package domain

import "time"

// StepStatus is the terminal state of a single step.
type StepStatus string

const (
	// StepSucceeded indicates the step's command exited zero.
	StepSucceeded StepStatus = "Succeeded"
	// StepFailed indicates the step's command exited non-zero or could not run.
	StepFailed StepStatus = "Failed"
	// StepSkipped indicates the step did not run, either because its
	// condition did not match the job's tuple or because an earlier step
	// failed.
	StepSkipped StepStatus = "Skipped"
)

// JobStatus is the lifecycle state of a job.
// Jobs move Pending -> Running -> {Succeeded | Failed}; Skipped is terminal
// for jobs that never started because the run was cancelled.
type JobStatus string

const (
	StatusPending   JobStatus = "Pending"
	StatusRunning   JobStatus = "Running"
	StatusSucceeded JobStatus = "Succeeded"
	StatusFailed    JobStatus = "Failed"
	StatusSkipped   JobStatus = "Skipped"
)

// StepResult records the outcome of one step of one job.
type StepResult struct {
	Name     string
	Status   StepStatus
	Output   string
	Duration time.Duration
	Err      error
}

// JobResult is the terminal state of a JobSpec after execution.
type JobResult struct {
	Job    JobSpec
	Status JobStatus
	Steps  []StepResult

	// FailedStep names the step that failed, if any. A failing step aborts
	// the remaining steps of this job only.
	FailedStep string
	Err        error
}

// PipelineResult aggregates the results of every emitted job.
type PipelineResult struct {
	Jobs []JobResult
}

// Succeeded reports whether every job succeeded. Zero emitted jobs succeed
// vacuously.
func (p PipelineResult) Succeeded() bool {
	for _, j := range p.Jobs {
		if j.Status != StatusSucceeded {
			return false
		}
	}
	return true
}

// Counts returns the number of jobs per terminal status.
func (p PipelineResult) Counts() (succeeded, failed, skipped int) {
	for _, j := range p.Jobs {
		switch j.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}
