package runner_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports"
	"go.loomci.dev/loom/internal/core/ports/mocks"
	"go.loomci.dev/loom/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type harness struct {
	provisioner *mocks.MockProvisioner
	executor    *mocks.MockExecutor
	env         *mocks.MockEnvironment
	runner      *runner.Runner
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
			return ctx, vertex
		},
	).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	h := &harness{
		provisioner: mocks.NewMockProvisioner(ctrl),
		executor:    mocks.NewMockExecutor(ctrl),
		env:         mocks.NewMockEnvironment(ctrl),
	}
	h.runner = runner.New(h.provisioner, h.executor, telemetry, log)
	return h
}

func testJob(steps ...domain.Step) domain.JobSpec {
	return domain.JobSpec{
		ID:     "abc123",
		Name:   "test (ubuntu-latest)",
		Runner: "ubuntu-latest",
		Values: []domain.AxisValue{{Axis: "os", Value: "ubuntu-latest"}},
		Steps:  steps,
	}
}

func TestRunner_Run_AllStepsSucceed(t *testing.T) {
	h := newHarness(t)
	job := testJob(
		domain.Step{Name: "checkout", Kind: domain.KindCheckout},
		domain.Step{Name: "test", Kind: domain.KindRun, Command: "make test"},
		domain.Step{Name: "build examples", Kind: domain.KindRun, Command: "make examples"},
	)

	gomock.InOrder(
		h.provisioner.EXPECT().Provision(gomock.Any(), job).Return(h.env, nil),
		h.env.EXPECT().Checkout(gomock.Any()).Return(nil),
		h.executor.EXPECT().Execute(gomock.Any(), h.env, job.Steps[1], gomock.Any()).Return(nil),
		h.executor.EXPECT().Execute(gomock.Any(), h.env, job.Steps[2], gomock.Any()).Return(nil),
		h.env.EXPECT().Close().Return(nil),
	)

	res := h.runner.Run(context.Background(), job)

	assert.Equal(t, domain.StatusSucceeded, res.Status)
	require.Len(t, res.Steps, 3)
	for _, s := range res.Steps {
		assert.Equal(t, domain.StepSucceeded, s.Status)
	}
	assert.Empty(t, res.FailedStep)
	assert.NoError(t, res.Err)
}

func TestRunner_Run_ProvisionFailureFailsJob(t *testing.T) {
	h := newHarness(t)
	job := testJob(
		domain.Step{Name: "checkout", Kind: domain.KindCheckout},
		domain.Step{Name: "test", Kind: domain.KindRun, Command: "make test"},
	)

	h.provisioner.EXPECT().Provision(gomock.Any(), job).
		Return(nil, zerr.With(zerr.Wrap(domain.ErrRunnerUnavailable, "no such runner label"), "runner", "ubuntu-latest"))

	res := h.runner.Run(context.Background(), job)

	assert.Equal(t, domain.StatusFailed, res.Status)
	require.ErrorIs(t, res.Err, domain.ErrRunnerUnavailable)
	require.Len(t, res.Steps, 2)
	for _, s := range res.Steps {
		assert.Equal(t, domain.StepSkipped, s.Status)
	}
}

func TestRunner_Run_FailingStepAbortsRemainder(t *testing.T) {
	h := newHarness(t)
	job := testJob(
		domain.Step{Name: "checkout", Kind: domain.KindCheckout},
		domain.Step{Name: "test", Kind: domain.KindRun, Command: "make test"},
		domain.Step{Name: "build examples", Kind: domain.KindRun, Command: "make examples"},
	)

	stepErr := zerr.With(zerr.Wrap(domain.ErrStepFailed, "command exited non-zero"), "exit_code", 2)
	gomock.InOrder(
		h.provisioner.EXPECT().Provision(gomock.Any(), job).Return(h.env, nil),
		h.env.EXPECT().Checkout(gomock.Any()).Return(nil),
		h.executor.EXPECT().Execute(gomock.Any(), h.env, job.Steps[1], gomock.Any()).Return(stepErr),
		h.env.EXPECT().Close().Return(nil),
	)

	res := h.runner.Run(context.Background(), job)

	assert.Equal(t, domain.StatusFailed, res.Status)
	assert.Equal(t, "test", res.FailedStep)
	require.ErrorIs(t, res.Err, domain.ErrStepFailed)

	require.Len(t, res.Steps, 3)
	assert.Equal(t, domain.StepSucceeded, res.Steps[0].Status)
	assert.Equal(t, domain.StepFailed, res.Steps[1].Status)
	assert.Equal(t, domain.StepSkipped, res.Steps[2].Status)
}

func TestRunner_Run_ConditionalStepSkipped(t *testing.T) {
	h := newHarness(t)
	job := testJob(
		domain.Step{
			Name:    "install toolchain",
			Kind:    domain.KindSetup,
			Command: "./ci/install.sh",
			When:    domain.Condition{Axis: "os", Value: "windows-latest"},
		},
		domain.Step{Name: "test", Kind: domain.KindRun, Command: "make test"},
	)

	gomock.InOrder(
		h.provisioner.EXPECT().Provision(gomock.Any(), job).Return(h.env, nil),
		h.executor.EXPECT().Execute(gomock.Any(), h.env, job.Steps[1], gomock.Any()).Return(nil),
		h.env.EXPECT().Close().Return(nil),
	)

	res := h.runner.Run(context.Background(), job)

	assert.Equal(t, domain.StatusSucceeded, res.Status)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, domain.StepSkipped, res.Steps[0].Status)
	assert.Equal(t, domain.StepSucceeded, res.Steps[1].Status)
}

func TestRunner_Run_CleanupErrorDoesNotFailJob(t *testing.T) {
	h := newHarness(t)
	job := testJob(domain.Step{Name: "test", Kind: domain.KindRun, Command: "true"})

	gomock.InOrder(
		h.provisioner.EXPECT().Provision(gomock.Any(), job).Return(h.env, nil),
		h.executor.EXPECT().Execute(gomock.Any(), h.env, job.Steps[0], gomock.Any()).Return(nil),
		h.env.EXPECT().Close().Return(zerr.New("busy")),
	)

	res := h.runner.Run(context.Background(), job)
	assert.Equal(t, domain.StatusSucceeded, res.Status)
}
