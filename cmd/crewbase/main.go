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

	"github.com/crewbase/crewbase/internal/app"
	"github.com/crewbase/crewbase/internal/authz"
	"github.com/crewbase/crewbase/internal/platform/cache"
	"github.com/crewbase/crewbase/internal/platform/db"
	"github.com/crewbase/crewbase/internal/rbac"
	"github.com/crewbase/crewbase/internal/roles"
	"github.com/crewbase/crewbase/internal/shared"
	"github.com/crewbase/crewbase/internal/validation"
	"github.com/crewbase/crewbase/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 10, ConnectTimeout: 5 * time.Second})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
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

	runner := validation.NewRunner(logger)
	if err := roles.RegisterRules(runner); err != nil {
		logger.Error("register validation rules", slog.Any("error", err))
		os.Exit(1)
	}

	permCache := rbac.NewCache(redisClient, cfg.CacheTTL)
	rbacService := rbac.NewService(pool, permCache)
	guards := rbac.NewMiddleware(rbacService, logger)

	repo := roles.NewRepository(pool)
	engine := authz.NewEngine(rbac.LoadCatalog())
	audit := shared.NewAuditLogger(pool)
	rolesService := roles.NewService(repo, repo, runner, engine, audit, rbacService, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() { _ = inspector.Close() }()

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = jobsClient.Close() }()

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Guards:       guards,
		RolesHandler: roles.NewHandler(logger, rolesService, guards),
		RBACHandler:  rbac.Handler{},
		JobsHandler:  jobs.NewHandler(inspector, jobsClient, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
