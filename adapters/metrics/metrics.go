// Package metrics provides Prometheus metrics collection for formdesk.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for formdesk.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Pipeline metrics
	ValidationFailures *prometheus.CounterVec
	PanicsRecovered    prometheus.Counter
}

// New creates a collector registered on the default registry.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered on the given registerer. Tests pass
// a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formdesk",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formdesk",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "formdesk",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formdesk",
				Name:      "validation_failures_total",
				Help:      "Total number of request schema validation failures",
			},
			[]string{"facet"},
		),
		PanicsRecovered: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "formdesk",
				Name:      "panics_recovered_total",
				Help:      "Total number of controller panics contained by the fault barrier",
			},
		),
	}
}

// ValidationFailure implements pipeline.Instrumentor.
func (c *Collector) ValidationFailure(facet string) {
	c.ValidationFailures.WithLabelValues(facet).Inc()
}

// PanicRecovered implements pipeline.Instrumentor.
func (c *Collector) PanicRecovered() {
	c.PanicsRecovered.Inc()
}

// Middleware instruments an HTTP handler with request count, duration and
// in-flight metrics. Route patterns are not resolved here; the raw path is
// used, which is fine for the small fixed route set this service exposes.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		c.RequestsInFlight.Inc()
		defer c.RequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		c.RequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		c.RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
