package statictopic

import "github.com/arloliu/statictopic/types"

// Sentinel errors returned by the Planner.
//
// Consistency faults are *Fault values; errors.Is matches them against the
// per-kind sentinels below.
var (
	ErrInvalidConfig          = types.ErrInvalidConfig
	ErrSnapshotSourceRequired = types.ErrSnapshotSourceRequired
	ErrSnapshotLoadFailed     = types.ErrSnapshotLoadFailed
	ErrPublishFailed          = types.ErrPublishFailed
	ErrStalePlan              = types.ErrStalePlan
	ErrTopicLocked            = types.ErrTopicLocked
	ErrInternalInvariant      = types.ErrInternalInvariant
	ErrNoBrokers              = types.ErrNoBrokers

	ErrStaleOrDirtyState    = types.ErrStaleOrDirtyState
	ErrEpochOrCountMismatch = types.ErrEpochOrCountMismatch
	ErrSequenceInvariant    = types.ErrSequenceInvariant
	ErrHistoryMutation      = types.ErrHistoryMutation
	ErrLeaderConflict       = types.ErrLeaderConflict
	ErrCoverageGap          = types.ErrCoverageGap
	ErrInvalidRequest       = types.ErrInvalidRequest
)
