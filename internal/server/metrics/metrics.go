// Package metrics содержит Prometheus-метрики сервера синхронизации.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "sgisync"
	subsystem = "server"
)

// Результаты применения мутаций
const (
	OutcomeApplied    = "applied"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// Metrics набор метрик сервера. Все методы безопасны для nil-получателя,
// поэтому компоненты можно создавать без метрик (в тестах).
type Metrics struct {
	registry          *prometheus.Registry
	connections       prometheus.Gauge
	handshakeRejected prometheus.Counter
	messagesReceived  *prometheus.CounterVec
	broadcasts        *prometheus.CounterVec
	dropped           *prometheus.CounterVec
	changesApplied    *prometheus.CounterVec
	pullDuration      prometheus.Histogram
}

// New регистрирует метрики в собственном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "connections",
			Help:      "Number of live websocket connections",
		}),
		handshakeRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handshake_rejected_total",
			Help:      "Total number of websocket handshakes rejected for a missing or invalid credential",
		}),
		messagesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "messages_received_total",
			Help:      "Total number of websocket messages received by type",
		}, []string{"type"}),
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "broadcasts_total",
			Help:      "Total number of broadcast events by name",
		}, []string{"event"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbound_dropped_total",
			Help:      "Total number of outbound messages dropped because a connection queue was full",
		}, []string{"event"}),
		changesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "changes_total",
			Help:      "Total number of pushed changes by entity kind, action and outcome",
		}, []string{"entity_kind", "action", "outcome"}),
		pullDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pull_duration_seconds",
			Help:      "Duration of pull-since-watermark queries in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр метрик (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ConnectionOpened увеличивает число соединений
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// ConnectionClosed уменьшает число соединений
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// HandshakeRejected учитывает отклоненный handshake
func (m *Metrics) HandshakeRejected() {
	if m == nil {
		return
	}
	m.handshakeRejected.Inc()
}

// MessageReceived учитывает входящее сообщение
func (m *Metrics) MessageReceived(msgType string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(msgType).Inc()
}

// Broadcast учитывает рассылку события
func (m *Metrics) Broadcast(event string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(event).Inc()
}

// Dropped учитывает сообщение, отброшенное из-за переполненной очереди
func (m *Metrics) Dropped(event string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(event).Inc()
}

// ChangeApplied учитывает результат применения мутации
func (m *Metrics) ChangeApplied(kind, action, outcome string) {
	if m == nil {
		return
	}
	m.changesApplied.WithLabelValues(kind, action, outcome).Inc()
}

// ObservePull записывает длительность pull-запроса
func (m *Metrics) ObservePull(d time.Duration) {
	if m == nil {
		return
	}
	m.pullDuration.Observe(d.Seconds())
}
