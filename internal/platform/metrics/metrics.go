package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	SignIns         prometheus.Counter
	SignUps         prometheus.Counter
	OAuthSignIns    *prometheus.CounterVec
	AuthFailures    prometheus.Counter
	ActiveSessions  prometheus.Gauge
	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookline_sign_ins_total",
			Help: "Total number of successful sign-ins",
		}),
		SignUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookline_sign_ups_total",
			Help: "Total number of accounts created",
		}),
		OAuthSignIns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bookline_oauth_sign_ins_total",
			Help: "Total number of OAuth sign-ins, labeled by provider",
		}, []string{"provider"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bookline_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bookline_active_sessions",
			Help: "Current number of active sessions",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookline_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncrementSignIns increments the successful sign-in counter by 1
func (m *Metrics) IncrementSignIns() {
	m.SignIns.Inc()
}

func (m *Metrics) IncrementSignUps() {
	m.SignUps.Inc()
}

func (m *Metrics) IncrementOAuthSignIns(provider string) {
	m.OAuthSignIns.WithLabelValues(provider).Inc()
}

func (m *Metrics) IncrementAuthFailures() {
	m.AuthFailures.Inc()
}

func (m *Metrics) IncrementActiveSessions(count int) {
	m.ActiveSessions.Add(float64(count))
}

func (m *Metrics) DecrementActiveSessions(count int) {
	m.ActiveSessions.Sub(float64(count))
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
