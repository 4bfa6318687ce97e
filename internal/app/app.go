// Package app wires configuration, logging, the loader, services and
// the HTTP router into one runnable server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pagoscli/internal/archive"
	"pagoscli/internal/config"
	"pagoscli/internal/etl"
	"pagoscli/internal/infrastructure"
	"pagoscli/internal/middleware"
	"pagoscli/internal/services"
	transport "pagoscli/internal/transport/http"
)

// Application holds the wired components of the payments server.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Server    *http.Server
	extractor *archive.Extractor
	logCloser interface{ Close() error }
}

// NewApplication loads configuration and builds every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	extractor, err := archive.NewExtractor(cfg.Data.UploadDir, logger)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("initialize upload storage: %w", err)
	}

	loader := etl.NewLoader(logger)
	service := services.NewPaymentsService(loader, cfg.Forecast, logger)
	handler := transport.NewPaymentsHandler(service, extractor, cfg.Data.Roots, cfg.Data.MaxUploadBytes, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		extractor: extractor,
		logCloser: closer,
	}
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) router(handler *transport.PaymentsHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(a.Config.Server.WriteTimeout))
	r.Use(middleware.RateLimit(a.Config.Server.RateLimit))

	r.Mount("/api", handler.Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	return r
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			slog.String("addr", a.Server.Addr),
			slog.Any("roots", a.Config.Data.Roots))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	err := a.Server.Shutdown(shutdownCtx)
	a.close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.Logger.Info("server stopped")
	return nil
}

func (a *Application) close() {
	if err := a.extractor.Close(); err != nil {
		a.Logger.Warn("failed to clean upload storage", slog.String("error", err.Error()))
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}
