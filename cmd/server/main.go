package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"legacyvault/internal/audit"
	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/platform/config"
	"legacyvault/internal/platform/httpserver"
	"legacyvault/internal/platform/logger"
	platformmetrics "legacyvault/internal/platform/metrics"
	"legacyvault/internal/platform/middleware"
	"legacyvault/internal/platform/ratelimit"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/handler"
	willmetrics "legacyvault/internal/will/metrics"
	"legacyvault/internal/will/service"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := jurisdiction.LoadDefault()
	if err != nil {
		return err
	}
	catalog, err := generator.LoadCatalog()
	if err != nil {
		return err
	}

	stores, err := buildBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	queue := make(chan audit.Event, cfg.AuditQueueSize)
	worker := audit.NewWorker(stores.audit, queue, log)

	svc, err := service.New(stores.records, stores.contents, stores.tx, registry, generator.New(catalog),
		service.WithLogger(log),
		service.WithMetrics(willmetrics.New(nil)),
		service.WithAuditPublisher(audit.NewQueuePublisher(queue)),
	)
	if err != nil {
		return err
	}
	h := handler.New(svc, registry, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))
	r.Use(platformmetrics.NewHTTP(nil).Middleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(log))
		r.Use(ratelimit.New(stores.limits, cfg.WriteLimit, cfg.WriteWindow, log).PerCaller)
		h.Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting legacyvault", "addr", cfg.Addr, "content_backend", cfg.ContentBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
