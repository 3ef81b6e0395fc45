package ports

import (
	"context"

	"go.loomci.dev/loom/internal/core/domain"
)

// Environment is an ephemeral, isolated workspace for a single job. It does
// not persist across jobs and is reclaimed via Close.
//
//go:generate go run go.uber.org/mock/mockgen -source=provisioner.go -destination=mocks/mock_provisioner.go -package=mocks
type Environment interface {
	// Runner returns the label the environment was provisioned for.
	Runner() string

	// WorkDir returns the absolute path of the job workspace.
	WorkDir() string

	// Checkout places the repository snapshot into the workspace.
	Checkout(ctx context.Context) error

	// Close reclaims the workspace.
	Close() error
}

// Provisioner allocates execution environments for jobs.
type Provisioner interface {
	// Provision allocates a clean environment for the job's runner label.
	//
	// It returns an error wrapping domain.ErrRunnerUnavailable if no
	// environment can be allocated for that label.
	Provision(ctx context.Context, job domain.JobSpec) (Environment, error)
}
