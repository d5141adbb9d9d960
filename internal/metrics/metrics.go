// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Cache hit/miss/set counts by category
//   - Upstream request counts by source and outcome
//   - Rate limiter wait time by source
//   - Persistence failures and aggregation runs
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findata_cache_hits_total",
		Help: "Cache hits by category",
	}, []string{"category"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findata_cache_misses_total",
		Help: "Cache misses by category (includes expired and disabled-cache reads)",
	}, []string{"category"})

	CacheSets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findata_cache_sets_total",
		Help: "Successful cache writes by category",
	}, []string{"category"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findata_upstream_requests_total",
		Help: "Upstream HTTP requests by source and outcome",
	}, []string{"source", "outcome"})

	LimiterWaitSeconds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "findata_limiter_wait_seconds_total",
		Help: "Cumulative time spent blocked in rate limiters by source",
	}, []string{"source"})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findata_persist_failures_total",
		Help: "Store writes that reported failure",
	})

	AggregationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "findata_aggregation_runs_total",
		Help: "Composite aggregation runs started",
	})
)

// Serve exposes /metrics on the given port until ctx is cancelled.
func Serve(ctx context.Context, port int, path string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server started", "port", port, "path", path)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", "error", err)
	}
}
