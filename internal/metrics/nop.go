package metrics

import "github.com/arloliu/statictopic/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	p, err := statictopic.NewPlanner(&cfg, src, statictopic.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// PlannerMetrics implementation

// RecordPlan discards the planning call metric.
func (n *NopMetrics) RecordPlan(_ /* kind */ types.PlanKind, _ /* success */ bool, _ /* duration */ float64) {
	// No-op
}

// RecordQueueMoves discards the queue move metric.
func (n *NopMetrics) RecordQueueMoves(_ /* topic */ string, _ /* moved */ int) {
	// No-op
}

// RecordFault discards the fault metric.
func (n *NopMetrics) RecordFault(_ /* kind */ types.FaultKind) {
	// No-op
}

// PublishMetrics implementation

// RecordPublish discards the publish metric.
func (n *NopMetrics) RecordPublish(_ /* success */ bool, _ /* duration */ float64) {
	// No-op
}
