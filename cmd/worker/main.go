package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/syndik/syndik/internal/app"
	"github.com/syndik/syndik/internal/finance/missing"
	"github.com/syndik/syndik/internal/notifications"
	"github.com/syndik/syndik/internal/observability"
	"github.com/syndik/syndik/internal/orgs"
	"github.com/syndik/syndik/internal/platform/cache"
	"github.com/syndik/syndik/internal/platform/db"
	"github.com/syndik/syndik/jobs"
)

func main() {
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	notificationsService := notifications.NewService(logger, notifications.NewRepository(pool))
	missingCache := missing.NewCache(redisClient, cfg.FinanceCacheTTL)
	missingService := missing.NewService(logger, missing.NewRepository(pool), missingCache)
	dispatcher := missing.NewDispatcher(logger, notificationsService, metrics)
	orgsRepo := orgs.NewRepository(pool)

	processor := jobs.NewReminderProcessor(logger, missingService, dispatcher, orgsRepo)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReminderBatch, Handler: processor.HandleReminderBatch},
			{Type: jobs.TaskReminderScan, Handler: processor.HandleReminderScan},
		},
		Cron: []jobs.CronRegistration{
			// Scan on the fifth of every month, after the grace window.
			{Spec: "0 8 5 * *", Task: jobs.NewReminderScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
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
