package shell_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/adapters/shell"
	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T, workDir string) (*shell.Executor, *mocks.MockEnvironment) {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	env := mocks.NewMockEnvironment(ctrl)
	env.EXPECT().Runner().Return("ubuntu-latest").AnyTimes()
	env.EXPECT().WorkDir().Return(workDir).AnyTimes()

	return shell.NewExecutor(log), env
}

func TestExecutor_Execute_Success(t *testing.T) {
	exec, env := newExecutor(t, t.TempDir())

	var out bytes.Buffer
	step := domain.Step{Name: "greet", Kind: domain.KindRun, Command: "echo hello"}

	err := exec.Execute(context.Background(), env, step, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestExecutor_Execute_JobContextInEnvironment(t *testing.T) {
	exec, env := newExecutor(t, t.TempDir())

	var out bytes.Buffer
	step := domain.Step{Name: "ctx", Kind: domain.KindRun, Command: "echo $LOOM_RUNNER/$LOOM_STEP"}

	err := exec.Execute(context.Background(), env, step, &out)
	require.NoError(t, err)
	assert.Equal(t, "ubuntu-latest/ctx\n", out.String())
}

func TestExecutor_Execute_RunsInWorkspace(t *testing.T) {
	dir := t.TempDir()
	exec, env := newExecutor(t, dir)

	var out bytes.Buffer
	step := domain.Step{Name: "where", Kind: domain.KindRun, Command: `test "$(pwd)" = "$LOOM_WORKSPACE"`}

	err := exec.Execute(context.Background(), env, step, &out)
	require.NoError(t, err)
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	exec, env := newExecutor(t, t.TempDir())

	var out bytes.Buffer
	step := domain.Step{Name: "fail", Kind: domain.KindRun, Command: "echo doomed; exit 3"}

	err := exec.Execute(context.Background(), env, step, &out)
	require.ErrorIs(t, err, domain.ErrStepFailed)
	assert.Contains(t, out.String(), "doomed")
}

func TestExecutor_Execute_CancelledContext(t *testing.T) {
	exec, env := newExecutor(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	step := domain.Step{Name: "sleep", Kind: domain.KindRun, Command: "sleep 10"}

	err := exec.Execute(ctx, env, step, &out)
	require.Error(t, err)
}
