package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "segd",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and response code",
	}, []string{"route", "method", "code"})

	// Segmentation runs for seconds on CPU, so the buckets reach past DefBuckets.
	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "segd",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"route", "method"})

	httpResponseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "segd",
		Subsystem: "http",
		Name:      "response_bytes",
		Help:      "Response body size by route",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 9),
	}, []string{"route"})

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "segd",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Requests currently being served",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpLatency, httpResponseBytes, httpInflight)
}

// responseRecorder captures the status code and body size of a response.
type responseRecorder struct {
	http.ResponseWriter
	code    int
	written int
	sent    bool
}

func (rr *responseRecorder) WriteHeader(code int) {
	if !rr.sent {
		rr.code = code
		rr.sent = true
	}
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if !rr.sent {
		rr.WriteHeader(http.StatusOK)
	}
	n, err := rr.ResponseWriter.Write(b)
	rr.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rr *responseRecorder) Unwrap() http.ResponseWriter { return rr.ResponseWriter }

// MetricsMiddleware records request count, latency and response size per route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.Inc()
		defer httpInflight.Dec()

		rec := &responseRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		// chi fills in the pattern while routing, so read it afterwards.
		route := routeLabel(r)
		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
		httpLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		httpResponseBytes.WithLabelValues(route).Observe(float64(rec.written))
	})
}

// routeLabel returns the matched chi pattern, or "unmatched" so raw paths
// never become label values.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
