package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/config"
	dbRedis "github.com/kailas-cloud/cmsconsole/internal/db/redis"
	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/repository/editsession"
	workspacerepo "github.com/kailas-cloud/cmsconsole/internal/repository/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/transport/backend"
	chiTransport "github.com/kailas-cloud/cmsconsole/internal/transport/chi"
	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/cmsconsole/internal/usecase/health"
	schemauc "github.com/kailas-cloud/cmsconsole/internal/usecase/schema"
	"github.com/kailas-cloud/cmsconsole/internal/usecase/upload"
	workspaceuc "github.com/kailas-cloud/cmsconsole/internal/usecase/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "cmsconsole", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting CMS console",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)
	if cfg.Auth.DevUserID != "" {
		logger.Warn("Authentication disabled", zap.String("dev_user_id", cfg.Auth.DevUserID))
	}

	domain.KeyPrefix = cfg.Storage.KeyPrefix
	metrics.RegisterConsoleMetrics()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create session store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Session store not ready", zap.Error(err))
	}
	logger.Info("Connected to session store")

	cms, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Repositories
	sessions := editsession.New(store, cfg.Sessions.EditorTTL())
	workspaces := workspacerepo.New(store, cfg.Sessions.WorkspaceTTL())

	// Use case services. Notices are collected per request by the HTTP
	// layer, so the services get no fallback notifier.
	schemaSvc := schemauc.New(cms, sessions, nil)
	uploads := upload.New(cms, nil)
	entrySvc := entryuc.New(cms, uploads, domentry.NewTransformer(cfg.Storage.PublicBaseURL), nil)
	workspaceSvc := workspaceuc.New(cms, workspaces)
	healthSvc := healthuc.New(store, cms)

	server := chiTransport.NewServer(schemaSvc, entrySvc, workspaceSvc, healthSvc, logger).
		WithMaxUploadMB(cfg.HTTP.MaxUploadMB)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(chiTransport.AuthOptions{DevUserID: cfg.Auth.DevUserID}))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusNotFound, chiTransport.CodeNotFound, "route not found")
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
