// Package metrics exposes Prometheus metrics for the bakery service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	registry *prometheus.Registry

	// executionsTotal counts playground executions by outcome.
	executionsTotal *prometheus.CounterVec

	// executionDuration observes end-to-end execution latency.
	executionDuration prometheus.Histogram

	// parseFailuresTotal counts parse failures by editor kind.
	parseFailuresTotal *prometheus.CounterVec

	// snippetOpsTotal counts snippet store operations by op and status.
	snippetOpsTotal *prometheus.CounterVec

	// sampleReloadsTotal counts sample gallery reloads.
	sampleReloadsTotal prometheus.Counter

	// httpRequestsTotal counts HTTP requests by route and status code.
	httpRequestsTotal *prometheus.CounterVec

	// httpRequestDuration observes HTTP handler latency by route.
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector with all metrics registered under
// the given namespace on a fresh registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,

		executionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Total playground executions by verification outcome.",
		}, []string{"outcome"}),

		executionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_duration_seconds",
			Help:      "End-to-end playground execution latency.",
			Buckets:   prometheus.DefBuckets,
		}),

		parseFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Total parse failures by editor kind.",
		}, []string{"editor"}),

		snippetOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snippet_operations_total",
			Help:      "Total snippet store operations by operation and status.",
		}, []string{"operation", "status"}),

		sampleReloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_reloads_total",
			Help:      "Total sample gallery reloads.",
		}),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status code.",
		}, []string{"route", "code"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP handler latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		c.executionsTotal,
		c.executionDuration,
		c.parseFailuresTotal,
		c.snippetOpsTotal,
		c.sampleReloadsTotal,
		c.httpRequestsTotal,
		c.httpRequestDuration,
	)

	return c
}

// RecordExecution records one playground execution.
func (c *Collector) RecordExecution(outcome string, duration time.Duration) {
	c.executionsTotal.WithLabelValues(outcome).Inc()
	c.executionDuration.Observe(duration.Seconds())
}

// RecordParseFailures records parse failures for an editor kind
// ("block" or "verifier").
func (c *Collector) RecordParseFailures(editor string, count int) {
	if count <= 0 {
		return
	}
	c.parseFailuresTotal.WithLabelValues(editor).Add(float64(count))
}

// RecordSnippetOp records a snippet store operation outcome.
func (c *Collector) RecordSnippetOp(operation, status string) {
	c.snippetOpsTotal.WithLabelValues(operation, status).Inc()
}

// RecordSampleReload records a sample gallery reload.
func (c *Collector) RecordSampleReload() {
	c.sampleReloadsTotal.Inc()
}

// RecordHTTPRequest records one handled HTTP request.
func (c *Collector) RecordHTTPRequest(route, code string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(route, code).Inc()
	c.httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
