package statictopic

import "time"

// Option configures a Planner with optional dependencies.
type Option func(*plannerOptions)

// plannerOptions holds optional Planner configuration.
type plannerOptions struct {
	publisher PlanPublisher
	locker    TopicLocker
	hooks     *Hooks
	metrics   MetricsCollector
	logger    Logger
	now       func() time.Time
	seed      func(topic string, epoch int64) uint64
}

// WithPublisher publishes every computed plan.
//
// Parameters:
//   - publisher: PlanPublisher implementation
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	src, pub, _ := statictopic.NewKVStores(ctx, js, cfg.KVBuckets)
//	p, _ := statictopic.NewPlanner(&cfg, src, statictopic.WithPublisher(pub))
func WithPublisher(publisher PlanPublisher) Option {
	return func(o *plannerOptions) {
		o.publisher = publisher
	}
}

// WithTopicLocker serializes planning of a topic across processes.
//
// Calls for a topic locked elsewhere fail fast with ErrTopicLocked.
//
// Parameters:
//   - locker: TopicLocker implementation (see NewKVLease)
//
// Returns:
//   - Option: Functional option for NewPlanner
func WithTopicLocker(locker TopicLocker) Option {
	return func(o *plannerOptions) {
		o.locker = locker
	}
}

// WithHooks sets planning event hooks.
//
// Parameters:
//   - hooks: Hooks for planning events; nil callbacks are ignored
//
// Returns:
//   - Option: Functional option for NewPlanner
func WithHooks(hooks *Hooks) Option {
	return func(o *plannerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewPlanner
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "")
//	p, _ := statictopic.NewPlanner(&cfg, src, statictopic.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *plannerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewPlanner
func WithLogger(logger Logger) Option {
	return func(o *plannerOptions) {
		o.logger = logger
	}
}

// WithClock overrides the clock used to derive plan epochs.
func WithClock(now func() time.Time) Option {
	return func(o *plannerOptions) {
		o.now = now
	}
}

// WithSeed fixes the allocator seed of every planning call.
//
// Intended for tests; production callers should prefer Config.DeterministicSeeds.
func WithSeed(seed uint64) Option {
	return func(o *plannerOptions) {
		o.seed = func(string, int64) uint64 { return seed }
	}
}
