// Package publisher stores migration plans and their per-broker configs in
// NATS JetStream KV buckets.
//
// A published plan lives under "plan.<topic>" in the plan bucket. Each config
// of the plan is written under "<topic>.<broker>" in the mapping bucket, the
// same layout source.KV reads, so a published plan becomes the next snapshot.
package publisher
