package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/adapters/telemetry/progrock"
	"go.loomci.dev/loom/internal/core/ports"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	require.NotNil(t, recorder)

	ctx, vertex := recorder.Record(context.Background(), "test (linux)")
	require.NotNil(t, vertex)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("output\n"))
	require.NoError(t, err)

	vertex.Complete(nil)
	assert.NoError(t, recorder.Close())
}
