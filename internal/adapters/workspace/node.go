package workspace

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.loomci.dev/loom/internal/core/ports"
)

// NodeID is the unique identifier for the provisioner Graft node.
const NodeID graft.ID = "adapter.provisioner"

func init() {
	graft.Register(graft.Node[ports.Provisioner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Provisioner, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			return New("", cwd), nil
		},
	})
}
