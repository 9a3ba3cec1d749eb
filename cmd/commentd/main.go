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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/commentbox/internal/adapter/driven/commentapi"
	sqliteadapter "github.com/ericfisherdev/commentbox/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/commentbox/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/commentbox/internal/adapter/driving/web"
	"github.com/ericfisherdev/commentbox/internal/application"
	"github.com/ericfisherdev/commentbox/internal/config"
	"github.com/ericfisherdev/commentbox/internal/telemetry"
)

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
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"server_url", cfg.ServerURL,
		"allowed_origin", cfg.AllowedOrigin,
		"seed", cfg.Seed,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing (propagators only when no collector is configured).
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, "commentd")
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	// 4. Open and migrate database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", db.SchemaVersion())

	// 5. Wire store and service.
	commentStore := sqliteadapter.NewCommentRepo(db)
	commentSvc := application.NewCommentService(commentStore, slog.Default())

	if cfg.Seed {
		if err := application.SeedDevComments(ctx, commentStore, time.Now(), slog.Default()); err != nil {
			return err
		}
	}

	// 6. Widget hosting talks to the service through its public REST API.
	apiClient, err := commentapi.NewClient(cfg.ServerURL, cfg.ClientTimeout)
	if err != nil {
		return err
	}

	// 7. Register API, widget and metrics routes on one mux.
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	mux := http.NewServeMux()

	apiHandler := httphandler.NewHandler(commentSvc, cfg.AllowedOrigin, metrics, slog.Default())
	apiHandler.Register(mux)

	webHandler := webhandler.NewHandler(apiClient, metrics, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware.
	handler := httphandler.Wrap(mux, metrics, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           otelhttp.NewHandler(handler, "commentd"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	slog.Info("commentd started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		return err
	}

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
