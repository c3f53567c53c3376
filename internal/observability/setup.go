package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/honeynil/kapitalist/internal/config"
	"github.com/honeynil/kapitalist/internal/infrastructure/observability"
	"go.uber.org/zap"
)

// Setup starts tracing and the metrics listener. The returned function
// stops both.
func Setup(ctx context.Context, serviceName string, cfg *config.Config, logger *zap.Logger) (func(context.Context) error, error) {
	tracerShutdown, err := observability.InitTracing(ctx, serviceName, cfg.OTLPEndpoint, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler())
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func(ctx context.Context) error {
		return errors.Join(metricsServer.Shutdown(ctx), tracerShutdown(ctx))
	}, nil
}
