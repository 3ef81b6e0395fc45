package domain

import "go.trai.ch/zerr"

var (
	// ErrNoTriggerBranches is returned when a workflow declares a push
	// trigger without any branch names.
	ErrNoTriggerBranches = zerr.New("trigger declares no branches")

	// ErrDuplicateAxis is returned when a job template declares the same
	// axis name twice.
	ErrDuplicateAxis = zerr.New("duplicate axis")

	// ErrDuplicateAxisValue is returned when an axis declares the same value
	// twice.
	ErrDuplicateAxisValue = zerr.New("duplicate axis value")

	// ErrMissingRunsOn is returned when a job template has no runner label.
	ErrMissingRunsOn = zerr.New("job declares no runs-on label")

	// ErrEmptyStepCommand is returned when a command step has no command.
	ErrEmptyStepCommand = zerr.New("step declares no command")

	// ErrUnknownStepKind is returned when a step's kind is not recognized.
	ErrUnknownStepKind = zerr.New("unknown step kind")

	// ErrUnknownConditionAxis is returned when a step condition references an
	// axis the job does not declare.
	ErrUnknownConditionAxis = zerr.New("step condition references unknown axis")

	// ErrStepFailed is returned by the executor when a step's command exits
	// non-zero.
	ErrStepFailed = zerr.New("step failed")

	// ErrRunnerUnavailable is returned when the provisioner cannot allocate
	// an environment for the requested runner label.
	ErrRunnerUnavailable = zerr.New("runner unavailable")

	// ErrPipelineFailed is returned by the application when at least one job
	// did not succeed.
	ErrPipelineFailed = zerr.New("pipeline failed")
)
