package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	// Provider metrics.
	ProviderRequests  *prometheus.CounterVec // labels: endpoint, outcome={success,not_found,error}
	ProviderReachable prometheus.Gauge

	// Refresh orchestration metrics.
	RefreshSequences *prometheus.CounterVec // labels: trigger={search,gps,timer,visibility,manual}, outcome={success,failure,skipped,superseded}
	RefreshDuration  prometheus.Histogram

	// Alert metrics.
	SyntheticAlerts prometheus.Counter
	AlertsPublished prometheus.Counter

	// Dashboard surface metrics.
	WebsocketClients prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ProviderReachable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skycast",
			Name:      "provider_reachable",
			Help:      "1 when the last reachability canary succeeded, 0 otherwise.",
		}),
		RefreshSequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "refresh_sequences_total",
			Help:      "Refresh sequences by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "skycast",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete resolve-fetch-render sequence.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SyntheticAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "synthetic_alerts_total",
			Help:      "Alerts synthesized from geographic heuristics instead of live data.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skycast",
			Name:      "alerts_published_total",
			Help:      "Severe alerts published to the notification topic.",
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "skycast",
			Name:      "websocket_clients",
			Help:      "Currently connected dashboard websocket clients.",
		}),
	}

	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderReachable,
		m.RefreshSequences,
		m.RefreshDuration,
		m.SyntheticAlerts,
		m.AlertsPublished,
		m.WebsocketClients,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ProviderRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "skycast", Name: "provider_requests_total"}, []string{"endpoint", "outcome"}),
		ProviderReachable: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "skycast", Name: "provider_reachable"}),
		RefreshSequences:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "skycast", Name: "refresh_sequences_total"}, []string{"trigger", "outcome"}),
		RefreshDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "skycast", Name: "refresh_duration_seconds"}),
		SyntheticAlerts:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "skycast", Name: "synthetic_alerts_total"}),
		AlertsPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "skycast", Name: "alerts_published_total"}),
		WebsocketClients:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "skycast", Name: "websocket_clients"}),
	}
}
