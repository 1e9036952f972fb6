package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the statictopic library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// Consistency faults are reported as *Fault values whose Unwrap returns the
// sentinel of their FaultKind, so both errors.Is(err, ErrLeaderConflict) and
// errors.As(err, &fault) work on wrapped errors.
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Faults, Allocator, Planner, Source/Publisher)
//   - Use consistent messages across similar error types

// Fault sentinels - one per FaultKind.
var (
	// ErrStaleOrDirtyState is returned when a snapshot is dirty or its identity fields mismatch.
	ErrStaleOrDirtyState = errors.New("stale or dirty mapping state")

	// ErrEpochOrCountMismatch is returned when snapshots disagree on epoch or total queue count.
	ErrEpochOrCountMismatch = errors.New("epoch or queue count mismatch")

	// ErrSequenceInvariant is returned when an item sequence breaks ordering or has illegal fields.
	ErrSequenceInvariant = errors.New("mapping item sequence invariant violated")

	// ErrHistoryMutation is returned when a new sequence would rewrite or shorten committed history.
	ErrHistoryMutation = errors.New("mapping history mutation")

	// ErrLeaderConflict is returned when two brokers claim leadership of one global queue id.
	ErrLeaderConflict = errors.New("leader conflict")

	// ErrCoverageGap is returned when resolved global ids are not a contiguous [0, total) range.
	ErrCoverageGap = errors.New("global queue id coverage gap")

	// ErrInvalidRequest is returned for requests the planner refuses (shrink, no-op expand).
	ErrInvalidRequest = errors.New("invalid planning request")
)

// Allocator errors.
var (
	// ErrNoBrokers is returned when an allocator is built over an empty broker set.
	ErrNoBrokers = errors.New("no brokers available for allocation")
)

// Planner errors.
var (
	// ErrInternalInvariant is returned when a computed plan fails its own self-check.
	// It always indicates a bug rather than bad input.
	ErrInternalInvariant = errors.New("internal invariant violated")

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSnapshotSourceRequired is returned when the snapshot source is nil.
	ErrSnapshotSourceRequired = errors.New("snapshot source is required")
)

// Source and publisher errors.
var (
	// ErrSnapshotLoadFailed is returned when loading broker snapshots fails.
	ErrSnapshotLoadFailed = errors.New("failed to load topic snapshots")

	// ErrPublishFailed is returned when publishing a plan fails.
	ErrPublishFailed = errors.New("failed to publish plan")

	// ErrStalePlan is returned when a plan's epoch is not newer than the published one.
	ErrStalePlan = errors.New("stale plan epoch")

	// ErrTopicLocked is returned when another planner holds the topic's lease.
	ErrTopicLocked = errors.New("topic is locked by another planner")
)

// FaultKind classifies consistency and request faults.
type FaultKind int

const (
	// FaultStaleOrDirtyState marks a dirty snapshot or mismatched owner/topic names.
	FaultStaleOrDirtyState FaultKind = iota + 1

	// FaultEpochOrCountMismatch marks snapshots disagreeing on epoch or total queues.
	FaultEpochOrCountMismatch

	// FaultSequenceInvariant marks a broken generation/offset ordering or illegal field.
	FaultSequenceInvariant

	// FaultHistoryMutation marks a rewrite or truncation of committed history.
	FaultHistoryMutation

	// FaultLeaderConflict marks two leadership claims for one global queue id.
	FaultLeaderConflict

	// FaultCoverageGap marks resolved ids that are not contiguous from zero.
	FaultCoverageGap

	// FaultInvalidRequest marks a refused planning request.
	FaultInvalidRequest
)

// String returns the string representation of the fault kind.
func (k FaultKind) String() string {
	switch k {
	case FaultStaleOrDirtyState:
		return "StaleOrDirtyState"
	case FaultEpochOrCountMismatch:
		return "EpochOrCountMismatch"
	case FaultSequenceInvariant:
		return "SequenceInvariantViolation"
	case FaultHistoryMutation:
		return "HistoryMutationViolation"
	case FaultLeaderConflict:
		return "LeaderConflict"
	case FaultCoverageGap:
		return "CoverageGap"
	case FaultInvalidRequest:
		return "InvalidRequest"
	default:
		return "Unknown"
	}
}

// Sentinel returns the sentinel error matched by faults of this kind.
func (k FaultKind) Sentinel() error {
	switch k {
	case FaultStaleOrDirtyState:
		return ErrStaleOrDirtyState
	case FaultEpochOrCountMismatch:
		return ErrEpochOrCountMismatch
	case FaultSequenceInvariant:
		return ErrSequenceInvariant
	case FaultHistoryMutation:
		return ErrHistoryMutation
	case FaultLeaderConflict:
		return ErrLeaderConflict
	case FaultCoverageGap:
		return ErrCoverageGap
	case FaultInvalidRequest:
		return ErrInvalidRequest
	default:
		return nil
	}
}

// Fault is a synchronous, fatal-to-the-call planning fault.
//
// Topic, Broker and GlobalID locate the violation; Expected and Actual carry
// the compared values when there are any. GlobalID is -1 when not applicable.
type Fault struct {
	Kind     FaultKind
	Topic    string
	Broker   string
	GlobalID int
	Expected any
	Actual   any
	Msg      string
}

// NewFault creates a fault of the given kind with a formatted message.
//
// Parameters:
//   - kind: Fault classification
//   - format: fmt-style message format
//   - args: Format arguments
//
// Returns:
//   - *Fault: Fault with GlobalID -1 and no location set
//
// Example:
//
//	return types.NewFault(types.FaultLeaderConflict, "queue id claimed twice").
//	    WithTopic(topic).WithBroker(broker).WithGlobalID(id)
func NewFault(kind FaultKind, format string, args ...any) *Fault {
	return &Fault{
		Kind:     kind,
		GlobalID: -1,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// WithTopic sets the topic the fault was found in.
func (f *Fault) WithTopic(topic string) *Fault {
	f.Topic = topic

	return f
}

// WithBroker sets the broker the fault was found in.
func (f *Fault) WithBroker(broker string) *Fault {
	f.Broker = broker

	return f
}

// WithGlobalID sets the global queue id the fault concerns.
func (f *Fault) WithGlobalID(id int) *Fault {
	f.GlobalID = id

	return f
}

// WithValues sets the expected and actual values of a failed comparison.
func (f *Fault) WithValues(expected, actual any) *Fault {
	f.Expected = expected
	f.Actual = actual

	return f
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(f.Msg)

	var fields []string
	if f.Topic != "" {
		fields = append(fields, "topic="+f.Topic)
	}
	if f.Broker != "" {
		fields = append(fields, "broker="+f.Broker)
	}
	if f.GlobalID >= 0 {
		fields = append(fields, fmt.Sprintf("globalId=%d", f.GlobalID))
	}
	if f.Expected != nil || f.Actual != nil {
		fields = append(fields, fmt.Sprintf("expected=%v", f.Expected), fmt.Sprintf("actual=%v", f.Actual))
	}
	if len(fields) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(fields, " "))
		sb.WriteString(")")
	}

	return sb.String()
}

// Unwrap returns the sentinel error of the fault's kind.
func (f *Fault) Unwrap() error {
	return f.Kind.Sentinel()
}

// FaultKindOf extracts the fault kind from err.
//
// Returns:
//   - FaultKind: Kind of the first *Fault in err's chain
//   - bool: false when err carries no *Fault
func FaultKindOf(err error) (FaultKind, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind, true
	}

	return 0, false
}
