// Package telemetry provides progress recording adapters.
package telemetry

import (
	"context"
	"io"

	"go.loomci.dev/loom/internal/core/ports"
)

// NoOp is a no-op implementation of ports.Telemetry, used when no terminal
// is attached or progress display is disabled.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns a no-op vertex.
func (t *NoOp) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }

type noopVertex struct{}

func (v *noopVertex) Stdout() io.Writer { return io.Discard }
func (v *noopVertex) Stderr() io.Writer { return io.Discard }
func (v *noopVertex) Complete(error)    {}
