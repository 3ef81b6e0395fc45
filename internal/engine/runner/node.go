package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.loomci.dev/loom/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.loomci.dev/loom/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.loomci.dev/loom/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.loomci.dev/loom/internal/adapters/workspace" //nolint:depguard // Wired in engine wiring
	"go.loomci.dev/loom/internal/core/ports"
)

// NodeID is the unique identifier for the job runner Graft node.
const NodeID graft.ID = "engine.runner"

func init() {
	graft.Register(graft.Node[ports.JobRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			workspace.NodeID,
			shell.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.JobRunner, error) {
			provisioner, err := graft.Dep[ports.Provisioner](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(provisioner, executor, telemetry, log), nil
		},
	})
}
