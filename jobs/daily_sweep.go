package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/pulsefit/pulsefit/internal/jobs"
	"github.com/pulsefit/pulsefit/internal/reconcile"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Sweeper runs one reconciliation pass for a day.
type Sweeper interface {
	RunDailySweep(ctx context.Context, today time.Time) *reconcile.SweepReport
}

// DailySweepJob executes the daily status reconciliation sweep.
type DailySweepJob struct {
	Reconciler Sweeper
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewDailySweepJob initialises the sweep handler.
func NewDailySweepJob(reconciler Sweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) *DailySweepJob {
	return &DailySweepJob{
		Reconciler: reconciler,
		Logger:     logger,
		Metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep. A malformed payload is never retried; per-record
// sweep errors are reported through the task result so Asynq retries the run.
func (j *DailySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reconciler == nil {
		return errors.New("daily sweep: handler not configured")
	}
	var payload DailySweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := j.now()
	if payload.Day != "" {
		parsed, err := time.Parse("2006-01-02", payload.Day)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	tracker := j.metrics().Track(TaskDailySweep)
	logger := j.logger().With(slog.String("day", day.Format("2006-01-02")))
	logger.Info("starting daily sweep")

	report := j.Reconciler.RunDailySweep(ctx, day)
	logger.Info("completed daily sweep",
		slog.Int("vacations_started", report.VacationsStarted),
		slog.Int("vacations_ended", report.VacationsEnded),
		slog.Int("payments_overdue", report.PaymentsOverdue),
		slog.Int("errors", len(report.Errors)),
	)
	return tracker.End(report.Err())
}

func (j *DailySweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDailySweep))
	}
	return slog.Default().With(slog.String("job", TaskDailySweep))
}

func (j *DailySweepJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DailySweepJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
