package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/mattn/go-isatty"
	"go.loomci.dev/loom/internal/adapters/telemetry/progrock"
	"go.loomci.dev/loom/internal/core/ports"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if os.Getenv("LOOM_NO_PROGRESS") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
				return NewNoOp(), nil
			}
			return progrock.New(), nil
		},
	})
}
