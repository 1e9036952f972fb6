package metrics

import (
	"testing"

	"github.com/arloliu/statictopic/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_PlannerMetrics(t *testing.T) {
	metrics := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		metrics.RecordPlan(types.PlanCreateOrUpdate, true, 0.01)
		metrics.RecordPlan(types.PlanRebalance, false, -1)
		metrics.RecordPlan("", false, 0)
		metrics.RecordQueueMoves("orders", 3)
		metrics.RecordQueueMoves("", -1)
		metrics.RecordFault(types.FaultLeaderConflict)
		metrics.RecordFault(types.FaultKind(999))
	})
}

func TestNopMetrics_PublishMetrics(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordPublish(true, 0.5)
		metrics.RecordPublish(false, 0)
	})
}

func TestNopMetrics_InterfaceCompliance(t *testing.T) {
	var _ types.MetricsCollector = NewNop()
	var _ types.PlannerMetrics = NewNop()
	var _ types.PublishMetrics = NewNop()
}
