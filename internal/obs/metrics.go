package obs

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Client-side HTTP metrics: what the process sends, not what it serves.
var (
	requestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planhub_client_in_flight_requests",
		Help: "Outbound API requests currently in flight.",
	})

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planhub_client_requests_total",
			Help: "Total outbound API requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planhub_client_request_duration_seconds",
			Help:    "Outbound API request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	renewalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planhub_client_token_renewals_total",
			Help: "Access-token renewal attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Init registers metrics with the default registry. Call once at
// process start.
func Init() {
	prometheus.MustRegister(requestsInFlight, requestsTotal, requestDuration, renewalsTotal)
}

// ObserveRequest records one finished outbound request.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	requestsTotal.WithLabelValues(method, path, code).Inc()
	requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// RequestStarted marks a request in flight; the returned func ends it.
func RequestStarted() func() {
	requestsInFlight.Inc()
	return requestsInFlight.Dec
}

// ObserveRenewal records a token renewal attempt. Outcome is one of
// "success", "failure", "skipped".
func ObserveRenewal(outcome string) {
	renewalsTotal.WithLabelValues(outcome).Inc()
}

// ServeDebug runs a local listener exposing /metrics and /healthz until
// ctx is done. Used by long-running commands like the dashboard watch
// mode.
func ServeDebug(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
