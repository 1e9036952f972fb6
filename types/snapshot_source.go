package types

import "context"

// SnapshotSource loads the per-broker configs of a static topic.
//
// Implementations can query various backends:
//   - NATS JetStream KV: configs published by each broker
//   - Static: fixed configs for testing and offline planning
//
// The Planner calls LoadTopic once per planning call and treats the result as
// read-only input.
type SnapshotSource interface {
	// LoadTopic returns the configs of topic keyed by broker name.
	//
	// An empty map (not an error) means the topic has no existing state.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - topic: Static topic name
	//
	// Returns:
	//   - map[string]*BrokerTopicConfig: Configs keyed by broker name
	//   - error: Load error (nil on success)
	LoadTopic(ctx context.Context, topic string) (map[string]*BrokerTopicConfig, error)
}

// PlanPublisher hands a computed plan to the component that applies it.
type PlanPublisher interface {
	// Publish stores or transmits plan.
	//
	// Implementations must reject plans whose epoch is not newer than the
	// last published plan of the same topic.
	Publish(ctx context.Context, plan *MigrationPlan) error
}

// TopicLocker serializes planning of a topic across planner processes.
type TopicLocker interface {
	// Lock acquires the topic's lock without waiting.
	//
	// Returns:
	//   - func(context.Context) error: Releases the lock
	//   - error: ErrTopicLocked if another holder owns the lock
	Lock(ctx context.Context, topic string) (func(context.Context) error, error)
}
