package workspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/adapters/workspace"
	"go.loomci.dev/loom/internal/core/domain"
)

func job(runner string) domain.JobSpec {
	return domain.JobSpec{ID: "deadbeef00000000", Name: "test (" + runner + ")", Runner: runner}
}

func TestProvisioner_Provision_CreatesIsolatedWorkspaces(t *testing.T) {
	root := t.TempDir()
	p := workspace.New(root, t.TempDir())

	env1, err := p.Provision(context.Background(), job("ubuntu-latest"))
	require.NoError(t, err)
	env2, err := p.Provision(context.Background(), job("windows-latest"))
	require.NoError(t, err)

	assert.NotEqual(t, env1.WorkDir(), env2.WorkDir())
	assert.Equal(t, "ubuntu-latest", env1.Runner())

	for _, env := range []interface{ WorkDir() string }{env1, env2} {
		info, err := os.Stat(env.WorkDir())
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, root, filepath.Dir(env.WorkDir()))
	}
}

func TestProvisioner_Provision_UnknownRunner(t *testing.T) {
	p := workspace.New(t.TempDir(), t.TempDir(), workspace.WithRunners("ubuntu-latest", "windows-latest"))

	_, err := p.Provision(context.Background(), job("redox"))
	require.ErrorIs(t, err, domain.ErrRunnerUnavailable)
}

func TestEnvironment_Checkout(t *testing.T) {
	source := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(source, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(source, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "Makefile"), []byte("test:\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "src", "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, ".git", "HEAD"), []byte("ref\n"), 0o644))

	p := workspace.New(t.TempDir(), source)
	env, err := p.Provision(context.Background(), job("ubuntu-latest"))
	require.NoError(t, err)

	require.NoError(t, env.Checkout(context.Background()))

	assert.FileExists(t, filepath.Join(env.WorkDir(), "Makefile"))
	assert.FileExists(t, filepath.Join(env.WorkDir(), "src", "main.go"))
	assert.NoDirExists(t, filepath.Join(env.WorkDir(), ".git"))
}

func TestEnvironment_Close_RemovesWorkspace(t *testing.T) {
	p := workspace.New(t.TempDir(), t.TempDir())
	env, err := p.Provision(context.Background(), job("ubuntu-latest"))
	require.NoError(t, err)

	dir := env.WorkDir()
	require.DirExists(t, dir)
	require.NoError(t, env.Close())
	assert.NoDirExists(t, dir)
}

func TestProvisioner_Provision_CancelledContext(t *testing.T) {
	p := workspace.New(t.TempDir(), t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Provision(ctx, job("ubuntu-latest"))
	require.ErrorIs(t, err, context.Canceled)
}
