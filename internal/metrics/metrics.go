// Package metrics holds the Prometheus instruments of the dashboard service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal     *prometheus.CounterVec   // labels: source, result
	FetchDuration  *prometheus.HistogramVec // labels: source
	CacheFallbacks prometheus.Counter
	BreakerState   prometheus.Gauge // 0=closed, 1=half-open, 2=open

	IndicatorDuration *prometheus.HistogramVec // labels: indicator
	DashboardsTotal   *prometheus.CounterVec   // labels: result
	ExportsTotal      *prometheus.CounterVec   // labels: format
	RefreshTotal      *prometheus.CounterVec   // labels: result
}

// New creates the metrics on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockdash_fetch_total",
			Help: "Bar fetches by data source and result",
		}, []string{"source", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockdash_fetch_duration_seconds",
			Help:    "Upstream bar fetch latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		CacheFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockdash_cache_fallbacks_total",
			Help: "Requests served from cached bars after an upstream failure",
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockdash_breaker_state",
			Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
		}),
		IndicatorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockdash_indicator_duration_seconds",
			Help:    "Time spent computing one indicator group",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"indicator"}),
		DashboardsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockdash_dashboards_total",
			Help: "Dashboards built by result",
		}, []string{"result"}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockdash_exports_total",
			Help: "Data exports by format",
		}, []string{"format"}),
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockdash_refresh_total",
			Help: "Scheduled watchlist refreshes by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.CacheFallbacks,
		m.BreakerState,
		m.IndicatorDuration,
		m.DashboardsTotal,
		m.ExportsTotal,
		m.RefreshTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one upstream fetch.
func (m *Metrics) ObserveFetch(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchTotal.WithLabelValues(source, result).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// ObserveIndicator records the compute time of one indicator group.
func (m *Metrics) ObserveIndicator(name string, start time.Time) {
	if m == nil {
		return
	}
	m.IndicatorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
