// Package metrics records per-route request metrics with Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crudforge"

// Collector holds the HTTP metrics of an App. It implements the App's
// RequestObserver.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates a collector registered with the default Prometheus registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a collector registered with reg. Use a fresh
// prometheus.NewRegistry in tests to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		gatherer: g,
	}
}

// ObserveRequest records one request. route is the registered pattern, so
// identities in the path do not create new series.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// statusClass buckets a status code: 2xx, 3xx, 4xx or 5xx.
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
