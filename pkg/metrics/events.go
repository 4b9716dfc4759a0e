package metrics

import "github.com/prometheus/client_golang/prometheus"

// EventMetrics counts outbox relay and analytics outcomes per event type.
type EventMetrics struct {
	published *prometheus.CounterVec
	analytics *prometheus.CounterVec
}

// NewEventMetrics registers the event counters on reg. A nil registerer
// yields a recorder that drops every observation.
func NewEventMetrics(reg prometheus.Registerer) *EventMetrics {
	if reg == nil {
		return &EventMetrics{}
	}
	m := &EventMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox rows processed by the publisher, by outcome.",
		}, []string{"event_type", "result"}),
		analytics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "events_total",
			Help:      "Pub/Sub messages handled by the analytics worker, by outcome.",
		}, []string{"event_type", "result"}),
	}
	reg.MustRegister(m.published, m.analytics)
	return m
}

// ObservePublish records one publisher outcome: published, retry or dead_letter.
func (m *EventMetrics) ObservePublish(eventType, result string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}

// ObserveAnalytics records one worker outcome: handled, duplicate, skipped or failed.
func (m *EventMetrics) ObserveAnalytics(eventType, result string) {
	if m == nil || m.analytics == nil {
		return
	}
	m.analytics.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}
