package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/adapters/telemetry"
	"go.loomci.dev/loom/internal/core/ports"
)

func TestNoOpRecord(t *testing.T) {
	rec := telemetry.NewNoOp()

	ctx, vertex := rec.Record(context.Background(), "build (linux)")
	require.NotNil(t, vertex)

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, vertex, got)

	n, err := vertex.Stdout().Write([]byte("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	vertex.Complete(nil)
	assert.NoError(t, rec.Close())
}
