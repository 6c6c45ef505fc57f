package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/orderlife/internal/health"
	"github.com/vladislavdragonenkov/orderlife/internal/metrics"
	"github.com/vladislavdragonenkov/orderlife/internal/service/lifecycle"
	"github.com/vladislavdragonenkov/orderlife/internal/transport/rest"
	"github.com/vladislavdragonenkov/orderlife/internal/version"
)

// Run собирает зависимости и запускает HTTP API, сервер метрик и фоновый
// обработчик PENDING-заказов. Блокируется до отмены контекста или ошибки
// сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}

	lifecycleMetrics := metrics.NewLifecycleMetrics()
	service := lifecycle.NewService(deps.Repo,
		lifecycle.WithMetrics(lifecycleMetrics),
		lifecycle.WithLogger(log.WithField("component", "lifecycle")),
	)

	// HTTP health checks
	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("storage",
			healthcheck.NewPingChecker("storage", deps.Store, 2*time.Second))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	fiberApp := fiber.New(fiber.Config{
		AppName:               "orderlife",
		DisableStartupMessage: true,
	})
	api := fiberApp.Group("/api")
	rest.NewOrderHandler(service).RegisterRoutes(api)

	sweeper := lifecycle.NewSweeper(service,
		lifecycle.WithSweepInterval(cfg.SweepInterval))
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweeper.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- fiberApp.Listen(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		if err := fiberApp.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.WithError(err).Warn("http shutdown with error")
		}
		<-sweepDone
		shutdownHTTP(metricsSrv, logger)
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage")
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus и
// health-пробы.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
