package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/pulsefit/pulsefit/internal/app"
	"github.com/pulsefit/pulsefit/internal/notification"
	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/platform/cache"
	"github.com/pulsefit/pulsefit/internal/platform/db"
	"github.com/pulsefit/pulsefit/internal/reconcile"
	"github.com/pulsefit/pulsefit/internal/vacation"
	"github.com/pulsefit/pulsefit/jobs"

	jobmetrics "github.com/pulsefit/pulsefit/internal/jobs"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, notification dedup disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	vacationRepo := vacation.NewRepository(pool)
	paymentRepo := payment.NewRepository(pool)
	notificationRepo := notification.NewRepository(pool)

	var notifier notification.Notifier = notification.NewStoreNotifier(notificationRepo)
	if redisClient != nil {
		notifier = notification.NewDedupNotifier(redisClient, notifier, cfg.NotifyDedupTTL, logger)
	}

	reconciler := reconcile.New(vacationRepo, paymentRepo, notifier, logger, jobmetrics.NewMetrics(nil))

	sweepJob := jobs.NewDailySweepJob(reconciler, logger, nil)
	sweepTask, err := jobs.NewDailySweepTask(time.Time{})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDailySweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
