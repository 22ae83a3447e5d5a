package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/pulsefit/internal/reconcile"
)

type stubSweeper struct {
	gotDay time.Time
	report *reconcile.SweepReport
}

func (s *stubSweeper) RunDailySweep(_ context.Context, today time.Time) *reconcile.SweepReport {
	s.gotDay = today
	if s.report != nil {
		return s.report
	}
	return &reconcile.SweepReport{Day: today}
}

func TestDailySweepJobUsesPayloadDay(t *testing.T) {
	sweeper := &stubSweeper{}
	job := NewDailySweepJob(sweeper, slog.New(slog.DiscardHandler), nil)

	task, err := NewDailySweepTask(time.Date(2024, 7, 16, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC), sweeper.gotDay)
}

func TestDailySweepJobDefaultsToToday(t *testing.T) {
	sweeper := &stubSweeper{}
	job := NewDailySweepJob(sweeper, slog.New(slog.DiscardHandler), nil)
	job.clock = func() time.Time {
		return time.Date(2024, 1, 11, 2, 0, 0, 0, time.UTC)
	}

	task, err := NewDailySweepTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, time.Date(2024, 1, 11, 2, 0, 0, 0, time.UTC), sweeper.gotDay)
}

func TestDailySweepJobSkipsRetryOnBadPayload(t *testing.T) {
	job := NewDailySweepJob(&stubSweeper{}, slog.New(slog.DiscardHandler), nil)

	task := asynq.NewTask(TaskDailySweep, []byte(`{bad json`))
	err := job.Handle(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
