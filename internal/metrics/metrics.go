// Package metrics exposes Prometheus counters for sync, mutations and
// permission denials. All methods are safe on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rfpmonitor"

const (
	SyncSuccess = "success"
	SyncFailure = "failure"
	SyncOffline = "offline"
)

type Metrics struct {
	registry *prometheus.Registry

	syncs         *prometheus.CounterVec
	syncDuration  prometheus.Histogram
	mutations     *prometheus.CounterVec
	denials       *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
	auditEntries  prometheus.Gauge
	online        prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_total",
			Help:      "Sync attempts by result.",
		}, []string{"result"}),
		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of completed flushes.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Applied mutations by audit action.",
		}, []string{"action"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_denials_total",
			Help:      "Refused operations by required capability.",
		}, []string{"capability"}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Failed write-through attempts by store key.",
		}, []string{"key"}),
		auditEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_entries",
			Help:      "Entries currently held in the audit trail.",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online",
			Help:      "1 when the sync coordinator considers itself online.",
		}),
	}
	reg.MustRegister(m.syncs, m.syncDuration, m.mutations, m.denials, m.writeFailures, m.auditEntries, m.online)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Sync(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(result).Inc()
	if result != SyncOffline {
		m.syncDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) Mutation(action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action).Inc()
}

func (m *Metrics) Denied(capability string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(capability).Inc()
}

func (m *Metrics) WriteFailed(key string) {
	if m == nil {
		return
	}
	m.writeFailures.WithLabelValues(key).Inc()
}

func (m *Metrics) AuditSize(n int) {
	if m == nil {
		return
	}
	m.auditEntries.Set(float64(n))
}

func (m *Metrics) Online(v bool) {
	if m == nil {
		return
	}
	if v {
		m.online.Set(1)
	} else {
		m.online.Set(0)
	}
}
