// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request and auth rejection metrics.
type Collector struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenly_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenly_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zenly_auth_rejections_total",
			Help: "Requests rejected by the auth, role or ownership gates, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(c.requests, c.duration, c.authRejections)
	return c
}

// RecordAuthRejection counts a rejected request. reason is the error code
// sent to the client. A nil Collector is a no-op.
func (c *Collector) RecordAuthRejection(reason string) {
	if c == nil {
		return
	}
	c.authRejections.WithLabelValues(reason).Inc()
}

// Middleware records request count and latency per chi route pattern.
// Unmatched requests are labelled "unmatched" to keep cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler serving metrics from gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
