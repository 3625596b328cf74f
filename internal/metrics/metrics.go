// Package metrics exposes Prometheus collectors for graph builds and
// routing queries.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"metrograph.onebusaway.org/internal/graph"
	"metrograph.onebusaway.org/internal/routing"
)

const namespace = "metrograph"

// Query kinds.
const (
	KindPath      = "path"
	KindReachable = "reachable"
)

// Collector owns a registry and the collectors registered on it. A nil
// *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	expanded      *prometheus.HistogramVec
	graphBuilds   *prometheus.CounterVec
	graphSize     *prometheus.GaugeVec
	lastBuild     prometheus.Gauge
	httpRequests  *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Routing queries by kind and outcome.",
		}, []string{"kind", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Routing query latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
		expanded: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_expanded_stations",
			Help:      "Stations expanded per routing query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"kind"}),
		graphBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Graph builds by outcome.",
		}, []string{"outcome"}),
		graphSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_size",
			Help:      "Size of the loaded graph.",
		}, []string{"kind"}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_last_build_timestamp_seconds",
			Help:      "Unix time of the last successful graph build.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	c.registry.MustRegister(
		c.queries,
		c.queryDuration,
		c.expanded,
		c.graphBuilds,
		c.graphSize,
		c.lastBuild,
		c.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Outcome classifies a query error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, routing.ErrNotFound):
		return "not_found"
	case errors.Is(err, routing.ErrUnknownStation):
		return "unknown_station"
	case errors.Is(err, routing.ErrBudgetExhausted):
		return "budget_exhausted"
	default:
		return "error"
	}
}

func (c *Collector) ObserveQuery(kind string, elapsed time.Duration, expanded int, err error) {
	if c == nil {
		return
	}
	c.queries.WithLabelValues(kind, Outcome(err)).Inc()
	c.queryDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if expanded > 0 {
		c.expanded.WithLabelValues(kind).Observe(float64(expanded))
	}
}

func (c *Collector) ObserveGraphBuild(stats graph.Stats, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.graphBuilds.WithLabelValues("error").Inc()
		return
	}
	c.graphBuilds.WithLabelValues("ok").Inc()
	c.graphSize.WithLabelValues("stations").Set(float64(stats.Stations))
	c.graphSize.WithLabelValues("lines").Set(float64(stats.Lines))
	c.graphSize.WithLabelValues("trips").Set(float64(stats.Trips))
	c.graphSize.WithLabelValues("rides").Set(float64(stats.Rides))
	c.graphSize.WithLabelValues("transfers").Set(float64(stats.Transfers))
	c.lastBuild.SetToCurrentTime()
}

func (c *Collector) ObserveHTTPRequest(route string, status int) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
