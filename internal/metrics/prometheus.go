package metrics

import (
	"strconv"
	"sync"

	"github.com/arloliu/statictopic/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	planTotal       *prometheus.CounterVec
	planDuration    *prometheus.HistogramVec
	queueMoves      *prometheus.CounterVec
	faultTotal      *prometheus.CounterVec
	publishTotal    *prometheus.CounterVec
	publishDuration prometheus.Histogram
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "statictopic" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "statictopic"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.planTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Total planning calls by kind and result.",
		}, []string{"kind", "success"})

		p.planDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "plan_duration_seconds",
			Help:      "Duration of planning calls in seconds by kind.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us .. ~0.8s
		}, []string{"kind"})

		p.queueMoves = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "queue_moves_total",
			Help:      "Total global queue ids moved between brokers by rebalance plans.",
		}, []string{"topic"})

		p.faultTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "planner",
			Name:      "faults_total",
			Help:      "Total consistency faults by kind.",
		}, []string{"kind"})

		p.publishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publishes_total",
			Help:      "Total plan publish attempts by result.",
		}, []string{"success"})

		p.publishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_duration_seconds",
			Help:      "Latency of plan publish operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})

		p.reg.MustRegister(
			p.planTotal,
			p.planDuration,
			p.queueMoves,
			p.faultTotal,
			p.publishTotal,
			p.publishDuration,
		)
	})
}

// RecordPlan counts a planning call and observes its duration.
func (p *PrometheusCollector) RecordPlan(kind types.PlanKind, success bool, duration float64) {
	p.ensureRegistered()
	p.planTotal.WithLabelValues(string(kind), strconv.FormatBool(success)).Inc()
	p.planDuration.WithLabelValues(string(kind)).Observe(duration)
}

// RecordQueueMoves adds moved global ids for topic.
func (p *PrometheusCollector) RecordQueueMoves(topic string, moved int) {
	if moved <= 0 {
		return
	}
	p.ensureRegistered()
	p.queueMoves.WithLabelValues(topic).Add(float64(moved))
}

// RecordFault counts a consistency fault.
func (p *PrometheusCollector) RecordFault(kind types.FaultKind) {
	p.ensureRegistered()
	p.faultTotal.WithLabelValues(kind.String()).Inc()
}

// RecordPublish counts a publish attempt and observes its latency.
func (p *PrometheusCollector) RecordPublish(success bool, duration float64) {
	p.ensureRegistered()
	p.publishTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
	p.publishDuration.Observe(duration)
}
