// Package types provides core type definitions and interfaces for the statictopic library.
//
// This package contains shared types that are used across multiple packages in the
// library. By keeping these types in a separate package, we avoid import cycles
// between the root statictopic package and its internal implementations.
//
// Key types:
//   - MappingItem: One historical ownership record of a global queue id
//   - TopicMapping: One broker's declared view of a static topic
//   - BrokerTopicConfig: Queue counts paired with a broker's TopicMapping
//   - GlobalQueueView: Resolved, authoritative state of one global queue id
//   - MigrationPlan: Output of a planning call
//   - Fault: Typed consistency fault carrying a FaultKind
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
