// Package mapping validates and resolves per-broker static topic mappings.
//
// The functions in this package are pure: they never mutate their inputs and
// report every violation as a *types.Fault so callers can branch on the
// FaultKind with errors.Is or types.FaultKindOf.
//
// Validation layers:
//
//	CheckConsistency    all brokers agree on topic, epoch and total queues
//	CheckItemSequence   one global id's history is ordered and well formed
//	CheckImmutability   a newer history only appends to an older one
//	Resolve             exactly one leader per global id, optionally gap-free
package mapping
