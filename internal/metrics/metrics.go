// Package metrics exposes Prometheus collectors for fetching, grouping and
// HTTP serving.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/fetch"
	"github.com/ukaji3/sheetsections-go/pkg/sheetsections/models"
)

const namespace = "sheetsections"

// Metrics holds the application collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	sections        *prometheus.GaugeVec
	contentRows     *prometheus.GaugeVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Sheet fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and parsing a sheet.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		sections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sections",
			Help:      "Sections found in the last load of a sheet.",
		}, []string{"sheet"}),
		contentRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "content_rows",
			Help:      "Content rows across all sections in the last load of a sheet.",
		}, []string{"sheet"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetchTotal,
		m.fetchDuration,
		m.sections,
		m.contentRows,
		m.requestsTotal,
		m.requestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSheet records the section and content row counts of a loaded sheet.
func (m *Metrics) ObserveSheet(sheet *models.SheetData) {
	rows := 0
	for _, s := range sheet.Sections {
		rows += len(s.ContentRows)
	}
	m.sections.WithLabelValues(sheet.Name).Set(float64(len(sheet.Sections)))
	m.contentRows.WithLabelValues(sheet.Name).Set(float64(rows))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// InstrumentSource wraps source so every Fetch is counted and timed.
func (m *Metrics) InstrumentSource(source fetch.Source) fetch.Source {
	return &instrumentedSource{Source: source, metrics: m}
}

type instrumentedSource struct {
	fetch.Source
	metrics *Metrics
}

func (s *instrumentedSource) Fetch(ctx context.Context) (*models.Table, error) {
	start := time.Now()
	table, err := s.Source.Fetch(ctx)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.fetchTotal.WithLabelValues(s.Name(), outcome).Inc()
	s.metrics.fetchDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	return table, err
}

// GID forwards to the wrapped source when it has a tab id.
func (s *instrumentedSource) GID() string {
	if g, ok := s.Source.(interface{ GID() string }); ok {
		return g.GID()
	}
	return ""
}
