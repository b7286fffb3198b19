package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/syndik/syndik/internal/app"
	"github.com/syndik/syndik/internal/articles"
	"github.com/syndik/syndik/internal/auth"
	"github.com/syndik/syndik/internal/finance"
	"github.com/syndik/syndik/internal/finance/missing"
	"github.com/syndik/syndik/internal/helpdesk"
	"github.com/syndik/syndik/internal/meetings"
	"github.com/syndik/syndik/internal/notifications"
	"github.com/syndik/syndik/internal/observability"
	"github.com/syndik/syndik/internal/orgs"
	"github.com/syndik/syndik/internal/platform/cache"
	"github.com/syndik/syndik/internal/platform/db"
	"github.com/syndik/syndik/internal/property/buildings"
	"github.com/syndik/syndik/internal/property/residents"
	"github.com/syndik/syndik/internal/property/units"
	"github.com/syndik/syndik/internal/rbac"
	"github.com/syndik/syndik/internal/shared"
	"github.com/syndik/syndik/jobs"
)

func main() {
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

	sessionManager := shared.NewSessionManager(redisClient, "syndik_session",
		cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	orgsRepo := orgs.NewRepository(pool)
	orgsService := orgs.NewService(orgsRepo)
	rbacService := rbac.NewService(orgsRepo)
	rbacMW := rbac.Middleware{Service: rbacService, Logger: logger}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	orgsHandler := orgs.NewHandler(logger, orgsService, rbacMW)

	missingCache := missing.NewCache(redisClient, cfg.FinanceCacheTTL)
	missingService := missing.NewService(logger, missing.NewRepository(pool), missingCache)

	buildingsService := buildings.NewService(buildings.NewRepository(pool), orgsService)
	buildingsHandler := buildings.NewHandler(logger, buildingsService, rbacMW)
	unitsService := units.NewService(logger, units.NewRepository(pool), orgsService, missingService)
	unitsHandler := units.NewHandler(logger, unitsService, rbacMW)
	residentsService := residents.NewService(logger, residents.NewRepository(pool), missingService)
	residentsHandler := residents.NewHandler(logger, residentsService, rbacMW)

	notificationsService := notifications.NewService(logger, notifications.NewRepository(pool))
	notificationsHandler := notifications.NewHandler(logger, notificationsService, rbacMW)

	financeService := finance.NewService(logger, finance.NewRepository(pool), missingService)
	financeHandler := finance.NewHandler(logger, financeService, rbacMW)
	dispatcher := missing.NewDispatcher(logger, notificationsService, metrics)

	asynqOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(asynqOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynqOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	missingHandler := missing.NewHandler(logger, missingService, dispatcher, jobClient, rbacMW)
	meetingsHandler := meetings.NewHandler(logger, meetings.NewService(logger, meetings.NewRepository(pool)), rbacMW)
	helpdeskHandler := helpdesk.NewHandler(logger, helpdesk.NewService(logger, helpdesk.NewRepository(pool)), rbacMW)
	articlesHandler := articles.NewHandler(logger, articles.NewService(logger, articles.NewRepository(pool)), rbacMW)
	jobHandler := jobs.NewHandler(inspector, logger)

	middleware := app.MiddlewareStack(app.MiddlewareConfig{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Metrics:        metrics,
	})

	router := app.NewRouter(app.RouterParams{
		Middleware:    middleware,
		Metrics:       metrics,
		Auth:          authHandler,
		Orgs:          orgsHandler,
		Buildings:     buildingsHandler,
		Units:         unitsHandler,
		Residents:     residentsHandler,
		Finance:       financeHandler,
		Missing:       missingHandler,
		Notifications: notificationsHandler,
		Meetings:      meetingsHandler,
		Helpdesk:      helpdeskHandler,
		Articles:      articlesHandler,
		Jobs:          jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
