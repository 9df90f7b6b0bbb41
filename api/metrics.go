/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Defines the Prometheus collectors for the HTTP surface and the detection
  engine, plus the chi middleware that records per-request counts and
  latency. Exposed at GET /metrics via promhttp.

METRICS:
  eightbox_http_requests_total          Requests by method, path, status
  eightbox_http_request_duration_seconds Request latency by method, path
  eightbox_detection_runs_total         Detection passes by result
  eightbox_detection_duration_seconds   Full-pass latency
  eightbox_violations_detected_total    Violation rows by rule
  eightbox_rings_ingested_total         Clock-ring rows written

SEE ALSO:
  - server.go: Mounts the middleware and the /metrics route
  - handlers.go: Increments the detection and ingest counters
*/
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eightbox",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eightbox",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// DetectionRunsTotal counts detection passes by result.
	DetectionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eightbox",
			Name:      "detection_runs_total",
			Help:      "Total detection passes by result (ok, error, cancelled).",
		},
		[]string{"result"},
	)

	// DetectionDuration observes the latency of a full detection pass.
	DetectionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eightbox",
			Name:      "detection_duration_seconds",
			Help:      "Time to run all detectors over one service week.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// ViolationsDetected counts violation rows emitted, by rule.
	ViolationsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eightbox",
			Name:      "violations_detected_total",
			Help:      "Total violation rows detected by rule.",
		},
		[]string{"rule"},
	)

	// RingsIngestedTotal counts clock-ring rows written to the store.
	RingsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "eightbox",
			Name:      "rings_ingested_total",
			Help:      "Total clock-ring rows ingested.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DetectionRunsTotal,
		DetectionDuration,
		ViolationsDetected,
		RingsIngestedTotal,
	)
}

// MetricsHandler returns the /metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// Instrument is chi middleware that records request count and latency.
// The path label uses the chi route pattern, not the raw URL, so carrier
// names and dates do not explode label cardinality.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
