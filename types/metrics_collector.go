package types

// MetricsCollector defines methods for recording planner metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called concurrently for different topics and must be thread-safe.
type MetricsCollector interface {
	PlannerMetrics
	PublishMetrics
}

// PlannerMetrics defines metrics for planning calls.
type PlannerMetrics interface {
	// RecordPlan records a planning call.
	//
	// Parameters:
	//   - kind: Plan kind
	//   - success: true if a plan was produced
	//   - duration: Time taken in seconds
	RecordPlan(kind PlanKind, success bool, duration float64)

	// RecordQueueMoves records how many global queue ids a rebalance plan moves.
	RecordQueueMoves(topic string, moved int)

	// RecordFault records a consistency fault by kind.
	RecordFault(kind FaultKind)
}

// PublishMetrics defines metrics for plan publishing.
type PublishMetrics interface {
	// RecordPublish records a publish attempt.
	//
	// Parameters:
	//   - success: true if the plan was stored
	//   - duration: Time taken in seconds
	RecordPublish(success bool, duration float64)
}
