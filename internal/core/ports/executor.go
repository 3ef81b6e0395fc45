package ports

import (
	"context"
	"io"

	"go.loomci.dev/loom/internal/core/domain"
)

// Executor defines the interface for running a single step's command inside
// a provisioned environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the step's command in the environment's workspace and
	// streams combined output to out.
	//
	// A non-zero exit status is returned as an error wrapping
	// domain.ErrStepFailed with the exit code attached.
	Execute(ctx context.Context, env Environment, step domain.Step, out io.Writer) error
}
