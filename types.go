package statictopic

import "github.com/arloliu/statictopic/types"

// Re-export types from the types package.
//
// The aliases let callers write statictopic.MigrationPlan and friends while
// internal packages depend only on types, avoiding an import cycle.
type (
	MappingItem       = types.MappingItem
	TopicMapping      = types.TopicMapping
	BrokerTopicConfig = types.BrokerTopicConfig
	GlobalQueueView   = types.GlobalQueueView
	MigrationPlan     = types.MigrationPlan
	PlanKind          = types.PlanKind
	Fault             = types.Fault
	FaultKind         = types.FaultKind
	Hooks             = types.Hooks
)

// Re-export interfaces from the types package for convenience.
type (
	SnapshotSource   = types.SnapshotSource
	PlanPublisher    = types.PlanPublisher
	TopicLocker      = types.TopicLocker
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
)

// Re-export plan kinds.
const (
	PlanCreateOrUpdate = types.PlanCreateOrUpdate
	PlanRebalance      = types.PlanRebalance
)

// Re-export fault kinds.
const (
	FaultStaleOrDirtyState    = types.FaultStaleOrDirtyState
	FaultEpochOrCountMismatch = types.FaultEpochOrCountMismatch
	FaultSequenceInvariant    = types.FaultSequenceInvariant
	FaultHistoryMutation      = types.FaultHistoryMutation
	FaultLeaderConflict       = types.FaultLeaderConflict
	FaultCoverageGap          = types.FaultCoverageGap
	FaultInvalidRequest       = types.FaultInvalidRequest
)
