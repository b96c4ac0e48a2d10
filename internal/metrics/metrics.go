// Package metrics provides Prometheus metrics for workbench.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Concatenator metrics
	filesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_concat_files_total",
			Help: "Files visited by the concatenator",
		},
		[]string{"status"},
	)

	concatRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workbench_concat_run_duration_seconds",
			Help:    "Time to build one artifact",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Execution channel metrics
	executionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_executions_total",
			Help: "Execute requests sent to the backend",
		},
		[]string{"outcome"},
	)

	dialAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workbench_channel_dial_attempts_total",
			Help: "Connection attempts to the execution backend",
		},
	)

	channelConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workbench_channel_connected",
			Help: "1 while the execution channel is open",
		},
	)
)

// ConcatStats adapts the concatenator metrics to concat.Stats.
type ConcatStats struct{}

// FileProcessed records one visited file.
func (ConcatStats) FileProcessed(failed bool) {
	status := "ok"
	if failed {
		status = "failed"
	}
	filesProcessedTotal.WithLabelValues(status).Inc()
}

// RunFinished records a completed run.
func (ConcatStats) RunFinished(d time.Duration) {
	concatRunDuration.Observe(d.Seconds())
}

// RecordExecution counts an execute request by outcome ("sent", "failed").
func RecordExecution(outcome string) {
	executionsTotal.WithLabelValues(outcome).Inc()
}

// RecordDial counts a connection attempt.
func RecordDial(int) {
	dialAttemptsTotal.Inc()
}

// SetConnected updates the connection gauge.
func SetConnected(up bool) {
	if up {
		channelConnected.Set(1)
	} else {
		channelConnected.Set(0)
	}
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics: listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
