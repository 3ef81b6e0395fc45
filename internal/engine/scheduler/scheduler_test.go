package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.loomci.dev/loom/internal/core/domain"
	"go.loomci.dev/loom/internal/core/ports/mocks"
	"go.loomci.dev/loom/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func specs(ids ...string) []domain.JobSpec {
	jobs := make([]domain.JobSpec, len(ids))
	for i, id := range ids {
		jobs[i] = domain.JobSpec{ID: id, Name: id, Runner: "local"}
	}
	return jobs
}

func TestScheduler_Run_AllSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRunner := mocks.NewMockJobRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.JobSpec) domain.JobResult {
			return domain.JobResult{Job: job, Status: domain.StatusSucceeded}
		},
	).Times(3)

	s := scheduler.NewScheduler(mockRunner, quietLogger(ctrl))
	res := s.Run(context.Background(), specs("a", "b", "c"), 2)

	assert.True(t, res.Succeeded())
	require.Len(t, res.Jobs, 3)

	// Emission order is preserved regardless of completion order.
	assert.Equal(t, "a", res.Jobs[0].Job.ID)
	assert.Equal(t, "b", res.Jobs[1].Job.ID)
	assert.Equal(t, "c", res.Jobs[2].Job.ID)

	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, domain.StatusSucceeded, s.Status(id))
	}
}

func TestScheduler_Run_FailureIsIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRunner := mocks.NewMockJobRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.JobSpec) domain.JobResult {
			if job.ID == "windows" {
				return domain.JobResult{
					Job:        job,
					Status:     domain.StatusFailed,
					FailedStep: "test",
					Err:        zerr.With(zerr.Wrap(domain.ErrStepFailed, "command exited non-zero"), "exit_code", 1),
				}
			}
			return domain.JobResult{Job: job, Status: domain.StatusSucceeded}
		},
	).Times(2)

	s := scheduler.NewScheduler(mockRunner, quietLogger(ctrl))
	res := s.Run(context.Background(), specs("ubuntu", "windows"), 2)

	assert.False(t, res.Succeeded())
	assert.Equal(t, domain.StatusSucceeded, res.Jobs[0].Status)
	assert.Equal(t, domain.StatusFailed, res.Jobs[1].Status)
	assert.Equal(t, "test", res.Jobs[1].FailedStep)

	succeeded, failed, skipped := res.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, skipped)
}

func TestScheduler_Run_ZeroJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := scheduler.NewScheduler(mocks.NewMockJobRunner(ctrl), quietLogger(ctrl))

	res := s.Run(context.Background(), nil, 4)
	assert.True(t, res.Succeeded())
	assert.Empty(t, res.Jobs)
}

func TestScheduler_Run_ParallelismBound(t *testing.T) {
	ctrl := gomock.NewController(t)

	var active, peak atomic.Int32
	var mu sync.Mutex

	mockRunner := mocks.NewMockJobRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.JobSpec) domain.JobResult {
			n := active.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			defer active.Add(-1)
			return domain.JobResult{Job: job, Status: domain.StatusSucceeded}
		},
	).Times(6)

	s := scheduler.NewScheduler(mockRunner, quietLogger(ctrl))
	res := s.Run(context.Background(), specs("a", "b", "c", "d", "e", "f"), 2)

	assert.True(t, res.Succeeded())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestScheduler_Run_CancelledContextSkipsUnstartedJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx, cancel := context.WithCancel(context.Background())

	mockRunner := mocks.NewMockJobRunner(ctrl)
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, job domain.JobSpec) domain.JobResult {
			// Cancel while the first job is running; with parallelism 1 the
			// remaining jobs must not start.
			cancel()
			return domain.JobResult{Job: job, Status: domain.StatusSucceeded}
		},
	).Times(1)

	s := scheduler.NewScheduler(mockRunner, quietLogger(ctrl))
	res := s.Run(ctx, specs("a", "b", "c"), 1)

	assert.Equal(t, domain.StatusSucceeded, res.Jobs[0].Status)
	assert.Equal(t, domain.StatusSkipped, res.Jobs[1].Status)
	assert.Equal(t, domain.StatusSkipped, res.Jobs[2].Status)
	assert.False(t, res.Succeeded())
}
