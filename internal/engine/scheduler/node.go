package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.loomci.dev/loom/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.loomci.dev/loom/internal/core/ports"
	"go.loomci.dev/loom/internal/engine/runner"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			runner.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			jobRunner, err := graft.Dep[ports.JobRunner](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(jobRunner, log), nil
		},
	})
}
