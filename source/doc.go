// Package source provides built-in snapshot source implementations.
//
// Snapshot sources load the per-broker configs of a static topic.
// The package includes:
//
//   - Static: In-memory configs, also usable as an in-memory PlanPublisher
//   - KV: Configs stored in a NATS JetStream KV bucket under "<topic>.<broker>"
//
// Custom sources can be implemented by satisfying the types.SnapshotSource interface.
package source
