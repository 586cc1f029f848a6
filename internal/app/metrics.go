package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"txtsync/pkg/logging"
)

const metricsShutdownTimeout = 5 * time.Second

// newMetricsMux serves Prometheus metrics and a liveness probe.
func newMetricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// startMetricsServer serves metrics on addr until the returned shutdown
// function is called.
func startMetricsServer(addr string) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMetricsMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Bootstrap", "Serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Bootstrap", err, "Metrics server on %s stopped", addr)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Bootstrap", "Metrics server shutdown: %v", err)
		}
	}
}
