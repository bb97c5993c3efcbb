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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/formpanel/internal/adapter/driven/logsink"
	"github.com/ericfisherdev/formpanel/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/formpanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/formpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/formpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/formpanel/internal/application"
	"github.com/ericfisherdev/formpanel/internal/config"
)

const retentionInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"log_secrets", cfg.LogSecrets,
		"secret_storage", cfg.HasSecretKey(),
		"retention", cfg.Retention,
	)
	if cfg.VisitorKeyGenerated {
		logger.Warn("no visitor key configured, visitor cookies will not survive a restart")
	}
	if cfg.LogSecrets && !cfg.HasSecretKey() {
		logger.Warn("secrets are logged but no secret key is set, the capture log stores them redacted")
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	logger.Info("migrations complete")

	// 5. Wire adapters.
	captureRepo := sqliteadapter.NewCaptureRepo(db, cfg.SecretKey)
	sink := logsink.MultiSink{logsink.NewSlogSink(logger), captureRepo}

	views, err := memory.NewViewStateStore(cfg.VisitorCapacity)
	if err != nil {
		return err
	}

	// 6. Create services.
	captureSvc := application.NewCaptureService(sink, cfg.LogSecrets, logger)
	panelSvc := application.NewPanelService(views)

	// 7. Start capture log retention.
	retentionSvc := application.NewRetentionService(captureRepo, cfg.Retention, retentionInterval, logger)
	go retentionSvc.Start(ctx)

	// 8. Register API and GUI routes.
	limiter := httphandler.NewRateLimiter(cfg.CaptureRate, cfg.CaptureBurst)
	apiHandler := httphandler.NewHandler(captureSvc, panelSvc, captureRepo, logger)
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler, limiter)

	webHandler := webhandler.NewHandler(captureSvc, panelSvc, webhandler.NewVisitorTokens(cfg.VisitorKey), logger)
	webhandler.RegisterRoutes(mux, webHandler, limiter.LimitWith(webHandler.RateLimited))

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("formpanel started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down", "visitors_tracked", views.Len())

	// 10. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
