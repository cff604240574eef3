package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for crosses and the HTTP API. Each instance
// owns its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	CrossesTotal    *prometheus.CounterVec
	OffspringCount  prometheus.Histogram
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CrossesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "punnett_crosses_total",
			Help: "Total crosses computed by kind",
		}, []string{"kind"}), // kind: "cross", "square"

		OffspringCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "punnett_cross_offspring",
			Help:    "Offspring combinations enumerated per cross",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "punnett_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method", "status"}),
	}
}

// ObserveCross records one computed cross.
func (m *Metrics) ObserveCross(kind string, offspring int) {
	if m != nil {
		m.CrossesTotal.WithLabelValues(kind).Inc()
		m.OffspringCount.Observe(float64(offspring))
	}
}

func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
