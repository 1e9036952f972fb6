package statictopic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/statictopic/internal/hash"
	"github.com/arloliu/statictopic/internal/hooks"
	"github.com/arloliu/statictopic/internal/logger"
	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/internal/metrics"
	"github.com/arloliu/statictopic/internal/planner"
	"github.com/arloliu/statictopic/types"
)

// Planner computes migration plans for static topics.
//
// Each call loads the topic's current configs from the snapshot source,
// computes a plan and, when a publisher is configured, publishes it. Calls
// for the same topic are serialized; different topics plan concurrently.
type Planner struct {
	cfg       Config
	source    SnapshotSource
	publisher PlanPublisher
	locker    TopicLocker
	core      *planner.Planner

	locks *xsync.Map[string, *sync.Mutex]

	hooks   Hooks
	logger  Logger
	metrics MetricsCollector
}

// NewPlanner creates a new planner.
//
// Parameters:
//   - cfg: Configuration (defaults are applied in place)
//   - src: Snapshot source the current configs are loaded from
//   - opts: Optional dependencies
//
// Returns:
//   - *Planner: Initialized planner
//   - error: ErrInvalidConfig or ErrSnapshotSourceRequired
//
// Example:
//
//	cfg := statictopic.DefaultConfig()
//	src := source.NewStatic()
//	p, err := statictopic.NewPlanner(&cfg, src, statictopic.WithLogger(logger))
//	if err != nil { /* handle */ }
//	plan, err := p.CreateOrExpand(ctx, "orders", 8, []string{"broker-a", "broker-b"})
func NewPlanner(cfg *Config, src SnapshotSource, opts ...Option) (*Planner, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if src == nil {
		return nil, ErrSnapshotSourceRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &plannerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	seed := options.seed
	if seed == nil && cfg.DeterministicSeeds {
		seed = hash.AllocatorSeed
	}

	core := planner.New(planner.Config{
		EpochStep:  cfg.EpochStep,
		Now:        options.now,
		Seed:       seed,
		Logger:     loggerInstance,
		SkipVerify: cfg.DisableVerify,
	})

	return &Planner{
		cfg:       *cfg,
		source:    src,
		publisher: options.publisher,
		locker:    options.locker,
		core:      core,
		locks:     xsync.NewMap[string, *sync.Mutex](),
		hooks:     hooks.Fill(options.hooks),
		logger:    loggerInstance,
		metrics:   metricsCollector,
	}, nil
}

// CreateOrExpand plans the creation of topic or the growth of its queue count to queueNum.
//
// Parameters:
//   - ctx: Context for snapshot loading and publishing
//   - topic: Static topic name
//   - queueNum: Target global queue count
//   - targetBrokers: Brokers new queues may be placed on
//
// Returns:
//   - *MigrationPlan: PlanCreateOrUpdate plan
//   - error: *Fault on inconsistent state or invalid request, ErrSnapshotLoadFailed,
//     ErrPublishFailed/ErrStalePlan when publishing, ErrInternalInvariant
func (p *Planner) CreateOrExpand(
	ctx context.Context,
	topic string,
	queueNum int,
	targetBrokers []string,
) (*MigrationPlan, error) {
	return p.run(ctx, PlanCreateOrUpdate, topic, func(configs map[string]*BrokerTopicConfig) (*MigrationPlan, error) {
		return p.core.CreateOrExpand(topic, queueNum, targetBrokers, configs)
	})
}

// Rebalance plans moving the queues of topic onto targetBrokers.
//
// Parameters:
//   - ctx: Context for snapshot loading and publishing
//   - topic: Static topic name
//   - targetBrokers: Broker set the topic should live on
//
// Returns:
//   - *MigrationPlan: PlanRebalance plan with map-in/map-out sets
//   - error: Same as CreateOrExpand
func (p *Planner) Rebalance(ctx context.Context, topic string, targetBrokers []string) (*MigrationPlan, error) {
	return p.run(ctx, PlanRebalance, topic, func(configs map[string]*BrokerTopicConfig) (*MigrationPlan, error) {
		return p.core.Rebalance(topic, configs, targetBrokers)
	})
}

// Inspect resolves the current state of topic into one view per global queue id.
//
// Returns:
//   - map[int]*GlobalQueueView: Resolved view (empty for an unknown topic)
//   - error: *Fault on inconsistent state, ErrSnapshotLoadFailed
func (p *Planner) Inspect(ctx context.Context, topic string) (map[int]*GlobalQueueView, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.OperationTimeout)
	defer cancel()

	configs, err := p.load(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return map[int]*GlobalQueueView{}, nil
	}

	if _, _, err := mapping.CheckConsistency(topic, configs); err != nil {
		p.recordFault(err)
		return nil, err
	}

	view, err := mapping.Resolve(mapping.MappingsFromConfigs(configs), false, true)
	if err != nil {
		p.recordFault(err)
		return nil, err
	}

	return view, nil
}

// RoundBlockUp returns a block boundary safely past offset.
//
// Brokers taking over a queue use it to pick the first offset of the new item.
func RoundBlockUp(offset, blockSize int64) (int64, error) {
	return mapping.RoundBlockUp(offset, blockSize)
}

type computeFunc func(configs map[string]*BrokerTopicConfig) (*MigrationPlan, error)

func (p *Planner) run(ctx context.Context, kind PlanKind, topic string, compute computeFunc) (*MigrationPlan, error) {
	start := time.Now()

	mu, _ := p.locks.LoadOrStore(topic, &sync.Mutex{})
	mu.Lock()
	defer mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.OperationTimeout)
	defer cancel()

	p.logger.Debug("planning", "topic", topic, "kind", kind)

	if p.locker != nil {
		release, err := p.locker.Lock(ctx, topic)
		if err != nil {
			return nil, p.fail(ctx, kind, topic, start, err)
		}
		defer func() {
			if err := release(ctx); err != nil {
				p.logger.Warn("failed to release topic lock", "topic", topic, "error", err)
			}
		}()
	}

	configs, err := p.load(ctx, topic)
	if err != nil {
		return nil, p.fail(ctx, kind, topic, start, err)
	}

	plan, err := compute(configs)
	if err != nil {
		p.recordFault(err)
		return nil, p.fail(ctx, kind, topic, start, err)
	}

	if err := p.hooks.OnPlanComputed(ctx, plan); err != nil {
		p.logger.Warn("plan computed hook failed", "topic", topic, "error", err)
	}

	moved := movedQueues(configs, plan)
	if kind == PlanRebalance {
		p.metrics.RecordQueueMoves(topic, moved)
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, plan); err != nil {
			if !errors.Is(err, ErrStalePlan) && !errors.Is(err, ErrPublishFailed) {
				err = fmt.Errorf("%w: %w", ErrPublishFailed, err)
			}

			return nil, p.fail(ctx, kind, topic, start, err)
		}

		if err := p.hooks.OnPlanPublished(ctx, plan); err != nil {
			p.logger.Warn("plan published hook failed", "topic", topic, "error", err)
		}
	}

	p.metrics.RecordPlan(kind, true, time.Since(start).Seconds())
	p.logger.Info("plan computed",
		"topic", topic,
		"kind", kind,
		"epoch", plan.Epoch,
		"totalQueues", totalQueues(plan),
		"moved", moved,
		"mapIn", plan.MapIn,
		"mapOut", plan.MapOut,
		"published", p.publisher != nil)

	return plan, nil
}

func (p *Planner) load(ctx context.Context, topic string) (map[string]*BrokerTopicConfig, error) {
	configs, err := p.source.LoadTopic(ctx, topic)
	if err != nil {
		if !errors.Is(err, ErrSnapshotLoadFailed) {
			err = fmt.Errorf("%w: topic %s: %w", ErrSnapshotLoadFailed, topic, err)
		}

		return nil, err
	}

	return configs, nil
}

func (p *Planner) fail(ctx context.Context, kind PlanKind, topic string, start time.Time, err error) error {
	p.metrics.RecordPlan(kind, false, time.Since(start).Seconds())
	p.logger.Error("planning failed", "topic", topic, "kind", kind, "error", err)

	if hookErr := p.hooks.OnError(ctx, err); hookErr != nil {
		p.logger.Warn("error hook failed", "topic", topic, "error", hookErr)
	}

	return err
}

func (p *Planner) recordFault(err error) {
	if kind, ok := types.FaultKindOf(err); ok {
		p.metrics.RecordFault(kind)
	}
}

// movedQueues counts ids whose leader changed between configs and plan.
func movedQueues(configs map[string]*BrokerTopicConfig, plan *MigrationPlan) int {
	if len(configs) == 0 {
		return 0
	}

	before, err := mapping.Resolve(mapping.MappingsFromConfigs(configs), true, false)
	if err != nil {
		return 0
	}
	after, err := mapping.Resolve(plan.Mappings(), true, false)
	if err != nil {
		return 0
	}

	return len(mapping.MovedIDs(before, after))
}

func totalQueues(plan *MigrationPlan) int {
	mappings := plan.Mappings()
	if len(mappings) == 0 {
		return 0
	}

	return mappings[0].TotalQueues
}
