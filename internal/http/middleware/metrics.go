// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus instrumentation for HTTP traffic. Labels are
// bounded: the path label is the registered Gin route (never a concrete date
// or medication name) and requests that matched no route share one label.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedPath is the path label used for requests that matched no route.
const UnmatchedPath = "unmatched"

// HTTPMetrics is the set of collectors fed by Handler.
type HTTPMetrics struct {
	requests *prometheus.CounterVec   // method, path, status
	latency  *prometheus.HistogramVec // method, path
	size     *prometheus.HistogramVec // method, path
	inflight prometheus.Gauge

	// notModified counts conditional GETs answered from the client's ETag.
	notModified *prometheus.CounterVec // path
	// replays counts creates answered from a stored idempotency record.
	replays *prometheus.CounterVec // path
}

// NewHTTPMetrics builds the collectors and registers them with reg. When a
// collector with the same descriptor is already registered (a second router
// in the same process, or tests), the existing one is reused.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			// Diary pages and exports are small; a full-year listing stays
			// well under 1 MiB.
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"method", "path"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		}),
		notModified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_conditional_hits_total",
			Help: "GET requests answered 304 Not Modified.",
		}, []string{"path"}),
		replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_idempotent_replays_total",
			Help: "Requests answered from a stored idempotency record.",
		}, []string{"path"}),
	}
	m.requests = register(reg, m.requests)
	m.latency = register(reg, m.latency)
	m.size = register(reg, m.size)
	m.inflight = register(reg, m.inflight)
	m.notModified = register(reg, m.notModified)
	m.replays = register(reg, m.replays)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler returns the Gin middleware. Mount it after RequestID and before
// the idempotency validator so replays are still counted as requests.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = UnmatchedPath
		}
		method := c.Request.Method
		status := c.Writer.Status()

		m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written (204, 304).
		if n := c.Writer.Size(); n >= 0 {
			m.size.WithLabelValues(method, path).Observe(float64(n))
		}
		if status == http.StatusNotModified {
			m.notModified.WithLabelValues(path).Inc()
		}
		if IsRateBypass(c) {
			m.replays.WithLabelValues(path).Inc()
		}
	}
}

// Metrics instruments requests into the default Prometheus registry, which
// is what promhttp.Handler serves.
func Metrics() gin.HandlerFunc {
	return NewHTTPMetrics(prometheus.DefaultRegisterer).Handler()
}
