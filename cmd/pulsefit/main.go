package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/pulsefit/pulsefit/internal/app"
	"github.com/pulsefit/pulsefit/internal/members"
	"github.com/pulsefit/pulsefit/internal/notification"
	"github.com/pulsefit/pulsefit/internal/observability"
	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/platform/cache"
	"github.com/pulsefit/pulsefit/internal/platform/db"
	"github.com/pulsefit/pulsefit/internal/reconcile"
	"github.com/pulsefit/pulsefit/internal/vacation"
	"github.com/pulsefit/pulsefit/jobs"
	"github.com/pulsefit/pulsefit/migrations"

	jobmetrics "github.com/pulsefit/pulsefit/internal/jobs"
)

func main() {
	_ = godotenv.Load()

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

	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

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

	metrics := observability.NewMetrics()
	sweepMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	membersRepo := members.NewRepository(pool)
	membersService := members.NewService(membersRepo)
	membersHandler := members.NewHandler(logger, membersService)

	vacationRepo := vacation.NewRepository(pool)
	vacationService := vacation.NewService(vacationRepo)
	vacationHandler := vacation.NewHandler(logger, vacationService)

	paymentRepo := payment.NewRepository(pool)
	paymentService := payment.NewService(paymentRepo)
	paymentHandler := payment.NewHandler(logger, paymentService)

	notificationRepo := notification.NewRepository(pool)
	notificationHandler := notification.NewHandler(logger, notificationRepo)

	var notifier notification.Notifier = notification.NewStoreNotifier(notificationRepo)
	if redisClient != nil {
		notifier = notification.NewDedupNotifier(redisClient, notifier, cfg.NotifyDedupTTL, logger)
	}

	reconciler := reconcile.New(vacationRepo, paymentRepo, notifier, logger, sweepMetrics)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	queueClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	reconcileHandler := reconcile.NewHandler(logger, reconciler, queueClient)
	jobHandler := jobs.NewHandler(asynq.NewInspector(redisOpts), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		MembersHandler:      membersHandler,
		VacationHandler:     vacationHandler,
		PaymentHandler:      paymentHandler,
		NotificationHandler: notificationHandler,
		ReconcileHandler:    reconcileHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}
