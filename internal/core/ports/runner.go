package ports

import (
	"context"

	"go.loomci.dev/loom/internal/core/domain"
)

// JobRunner executes the ordered step list of one job to completion.
//
// Failures are part of the result, not the return value: a failing step or a
// provisioning failure yields a JobResult with status Failed.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type JobRunner interface {
	Run(ctx context.Context, job domain.JobSpec) domain.JobResult
}
