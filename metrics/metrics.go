package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	WebhookProcessed        = "processed"
	WebhookDuplicate        = "duplicate"
	WebhookInvalidSignature = "invalid_signature"
)

type Metrics struct {
	registry       *prometheus.Registry
	requests       prometheus.Counter
	rateLimited    prometheus.Counter
	webhookEvents  *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	connections    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bff_requests_total",
			Help: "Requests served by the gateway",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bff_rate_limited_total",
			Help: "Requests rejected by rate limits",
		}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bff_webhook_events_total",
			Help: "Payment webhook deliveries by result",
		}, []string{"result"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bff_upstream_errors_total",
			Help: "Failed upstream calls",
		}, []string{"upstream"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bff_realtime_connections",
			Help: "Open realtime connections",
		}),
	}
	m.registry.MustRegister(m.requests, m.rateLimited, m.webhookEvents, m.upstreamErrors, m.connections)
	return m
}

func (m *Metrics) Request() {
	m.requests.Inc()
}

func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

func (m *Metrics) WebhookEvent(result string) {
	m.webhookEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) UpstreamError(upstream string) {
	m.upstreamErrors.WithLabelValues(upstream).Inc()
}

func (m *Metrics) ConnectionOpened() {
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	m.connections.Dec()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
