package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard service collectors
type Metrics struct {
	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	RequestSummary *prometheus.SummaryVec

	snapshotLookups *prometheus.CounterVec
	pageResets      *prometheus.CounterVec
	supersededCount *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_requests_total",
				Help: "Total number of requests to the dashboard service",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_request_duration_seconds",
				Help:    "Duration of dashboard requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		RequestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "dashboard_request_duration_summary",
				Help: "Summary of request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
		snapshotLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_snapshot_lookups_total",
				Help: "Snapshot cache lookups by result",
			},
			[]string{"snapshot", "result"},
		),
		pageResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_page_resets_total",
				Help: "Persisted pages discarded because the dataset changed",
			},
			[]string{"view"},
		),
		supersededCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_superseded_refreshes_total",
				Help: "Refresh responses discarded because a newer request was issued",
			},
			[]string{"view"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_events_published_total",
				Help: "Inventory events published by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.RequestCounter,
		m.RequestLatency,
		m.RequestSummary,
		m.snapshotLookups,
		m.pageResets,
		m.supersededCount,
		m.eventsPublished,
	)
	return m
}

// SnapshotHit implements snapshot.Observer
func (m *Metrics) SnapshotHit(name string) {
	m.snapshotLookups.WithLabelValues(name, "hit").Inc()
}

// SnapshotMiss implements snapshot.Observer
func (m *Metrics) SnapshotMiss(name string) {
	m.snapshotLookups.WithLabelValues(name, "miss").Inc()
}

// PageReset implements snapshot.Observer
func (m *Metrics) PageReset(view string) {
	m.pageResets.WithLabelValues(view).Inc()
}

// Superseded counts a discarded refresh
func (m *Metrics) Superseded(view string) {
	m.supersededCount.WithLabelValues(view).Inc()
}

// EventPublished counts a publish attempt
func (m *Metrics) EventPublished(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(result).Inc()
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(method, endpoint, status string, d time.Duration) {
	seconds := d.Seconds()
	m.RequestCounter.WithLabelValues(method, endpoint, status).Inc()
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(seconds)
	m.RequestSummary.WithLabelValues(method, endpoint).Observe(seconds)
}
