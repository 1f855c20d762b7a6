// Package metrics exposes Prometheus instrumentation for the inventory
// service on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

type Metrics struct {
	registry             *prometheus.Registry
	operations           *prometheus.CounterVec
	items                prometheus.Gauge
	logEntries           prometheus.Gauge
	replicationFailures  *prometheus.CounterVec
	idempotentRejections prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Inventory operations served, by operation and transport.",
		}, []string{"operation", "transport"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Items currently stored.",
		}),
		logEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_entries",
			Help:      "Entries in the change log.",
		}),
		replicationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replication_failures_total",
			Help:      "Changes a sink failed to apply after all attempts.",
		}, []string{"sink"}),
		idempotentRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_rejections_total",
			Help:      "Mutating requests rejected as duplicates.",
		}),
	}

	m.registry.MustRegister(
		m.operations,
		m.items,
		m.logEntries,
		m.replicationFailures,
		m.idempotentRejections,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveOperation(operation, transport string) {
	m.operations.WithLabelValues(operation, transport).Inc()
}

func (m *Metrics) SetSizes(items, logEntries int) {
	m.items.Set(float64(items))
	m.logEntries.Set(float64(logEntries))
}

func (m *Metrics) ReplicationFailed(sink string) {
	m.replicationFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) IdempotentRejection() {
	m.idempotentRejections.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
