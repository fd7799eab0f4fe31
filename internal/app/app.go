package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/elmorders/internal/filter"
	healthcheck "github.com/vladislavdragonenkov/elmorders/internal/health"
	"github.com/vladislavdragonenkov/elmorders/internal/metrics"
	"github.com/vladislavdragonenkov/elmorders/internal/service/ordersvc"
	"github.com/vladislavdragonenkov/elmorders/internal/service/usersvc"
	httpapi "github.com/vladislavdragonenkov/elmorders/internal/transport/http"
	"github.com/vladislavdragonenkov/elmorders/internal/version"
)

const readHeaderTimeout = 5 * time.Second

// Run поднимает HTTP API и сервер метрик и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config, logger *log.Entry) error {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	policy, err := filter.NewPolicy(cfg.FilterRedact)
	if err != nil {
		return fmt.Errorf("build order filter: %w", err)
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	serviceMetrics := metrics.NewServiceMetrics()
	orderService := ordersvc.NewService(
		storage.orders,
		storage.tx,
		policy,
		serviceMetrics,
		logger.WithField("component", "order-service"),
	)
	userLookup := usersvc.NewLookup(
		storage.users,
		storage.tx,
		serviceMetrics,
		logger.WithField("component", "user-lookup"),
	)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Deps{
		Orders:  orderService,
		Users:   userLookup,
		Metrics: metrics.NewHTTPMetrics(),
		Logger:  logger.WithField("component", "http"),
	})

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.SetTimeout(cfg.HealthCheckTimeout)
	healthHandler.RegisterChecker("storage", storage.storageChecker)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	defer shutdownHTTP(metricsSrv, logger, cfg.ShutdownTimeout)

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}
	apiSrv := &http.Server{Handler: router, ReadHeaderTimeout: readHeaderTimeout}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"addr":    lis.Addr().String(),
			"filter":  policy.Fields(),
			"version": version.String(),
		}).Info("HTTP API слушает")
		errCh <- apiSrv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		shutdownHTTP(apiSrv, logger, cfg.ShutdownTimeout)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает /metrics и health-пробы на отдельном адресе.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger, 0)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер. timeout<=0 означает 5 секунд.
func shutdownHTTP(srv *http.Server, logger *log.Entry, timeout time.Duration) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
