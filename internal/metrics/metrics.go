package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-indexer/internal/logger"
)

// Stream collectors, partitioned by network + event category.

var (
	StreamPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "polls_total",
		Help:      "Total poll cycles by outcome (processed, sleeping, idle, failed)",
	}, []string{"network", "category", "outcome"})

	StreamEventsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "events_applied_total",
		Help:      "Total canonical events handed to handlers",
	}, []string{"network", "category"})

	StreamRestarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "restarts_total",
		Help:      "Total supervised restarts after an error or a panic",
	}, []string{"network", "category"})

	StreamCheckpoint = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "checkpoint_block",
		Help:      "Last fully processed block of a stream",
	}, []string{"stream"})

	StreamLag = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "lag_blocks",
		Help:      "Blocks between the chain height and the stream checkpoint",
	}, []string{"stream"})

	StreamBatchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "stream",
		Name:      "batch_duration_seconds",
		Help:      "Duration of a fetch-parse-apply batch",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"network", "category"})

	ActiveStreams = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "launcher",
		Name:      "active_streams",
		Help:      "Streams currently supervised",
	}, []string{"network", "category"})

	NotificationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketplace_indexer",
		Subsystem: "notifier",
		Name:      "errors_total",
		Help:      "Total notifications that failed to publish",
	}, []string{"network", "category"})
)

// Serve exposes /metrics and /healthz on addr until ctx is cancelled
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Warn("failed to write health response", zap.Error(err))
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("metrics server started", zap.String("addr", addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
