// Package metrics provides Prometheus metrics for the development API
// (HTTP middleware) and for the client (outgoing envelope calls).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a client call.
const (
	OutcomeOK             = "ok"
	OutcomeAppError       = "app_error"
	OutcomeTransportError = "transport_error"
	OutcomeParseError     = "parse_error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbs_api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bbs_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// ClientRequestsTotal is exported so tests can read it with testutil.
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bbs_client",
			Name:      "requests_total",
			Help:      "Envelope calls made by the client, by outcome",
		},
		[]string{"method", "route", "outcome"},
	)

	clientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bbs_client",
			Name:      "request_duration_seconds",
			Help:      "Envelope call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records Prometheus metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		// route pattern keeps {idx} out of the label values
		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// ObserveCall records one client call.
func ObserveCall(method, route, outcome string, elapsed time.Duration) {
	ClientRequestsTotal.WithLabelValues(method, route, outcome).Inc()
	clientRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
