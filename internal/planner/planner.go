package planner

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/arloliu/statictopic/internal/logger"
	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/strategy"
	"github.com/arloliu/statictopic/types"
)

// DefaultEpochStep is the minimum epoch increase of a plan over the state it was computed from.
const DefaultEpochStep int64 = 1000

// Config configures a Planner.
type Config struct {
	// EpochStep is added to the observed epoch to fence out stale planners (default: 1000).
	EpochStep int64

	// Now returns the current time; the epoch never falls behind it in milliseconds.
	Now func() time.Time

	// Seed returns the allocator seed for a planning call. Nil uses a time-seeded source.
	Seed func(topic string, epoch int64) uint64

	// Logger receives debug output (default: no-op).
	Logger types.Logger

	// SkipVerify disables the ValidatePlan self-check run on every computed plan.
	SkipVerify bool
}

// Planner computes CreateOrExpand and Rebalance plans.
//
// A Planner holds no per-topic state and may be shared, but callers must not
// plan the same topic concurrently.
type Planner struct {
	epochStep int64
	now       func() time.Time
	seed      func(topic string, epoch int64) uint64
	logger    types.Logger
	verify    bool
}

// New creates a Planner, filling unset Config fields with defaults.
func New(cfg Config) *Planner {
	p := &Planner{
		epochStep: cfg.EpochStep,
		now:       cfg.Now,
		seed:      cfg.Seed,
		logger:    cfg.Logger,
		verify:    !cfg.SkipVerify,
	}
	if p.epochStep <= 0 {
		p.epochStep = DefaultEpochStep
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = logger.NewNop()
	}

	return p
}

// nextEpoch returns max(epoch+step, now) in milliseconds.
func (p *Planner) nextEpoch(epoch int64) int64 {
	return max(epoch+p.epochStep, p.now().UnixMilli())
}

func (p *Planner) newAllocator(
	topic string,
	epoch int64,
	brokerLoad map[string]int,
	idToBroker map[int]string,
) (*strategy.Allocator, error) {
	opts := []strategy.AllocatorOption{strategy.WithAssignment(idToBroker)}
	if p.seed != nil {
		opts = append(opts, strategy.WithSeed(p.seed(topic, epoch)))
	}

	return strategy.NewAllocator(brokerLoad, opts...)
}

// stamp sets the epoch and total queue count of every config.
func stamp(configs map[string]*types.BrokerTopicConfig, epoch int64, total int) {
	for _, cfg := range configs {
		cfg.Mapping.Epoch = epoch
		cfg.Mapping.TotalQueues = total
	}
}

// loadExisting checks and resolves the current configs of topic.
func loadExisting(
	topic string,
	configs map[string]*types.BrokerTopicConfig,
) (int64, int, map[int]*types.GlobalQueueView, error) {
	epoch, total, err := mapping.CheckConsistency(topic, configs)
	if err != nil {
		return 0, 0, nil, err
	}

	view, err := mapping.Resolve(mapping.MappingsFromConfigs(configs), false, true)
	if err != nil {
		return 0, 0, nil, err
	}

	return epoch, total, view, nil
}

// uniqueBrokers deduplicates and sorts the target broker set.
func uniqueBrokers(topic string, brokers []string) ([]string, error) {
	set := make(map[string]struct{}, len(brokers))
	for _, b := range brokers {
		if b == "" {
			return nil, types.NewFault(types.FaultInvalidRequest, "target broker name is empty").WithTopic(topic)
		}
		set[b] = struct{}{}
	}
	if len(set) == 0 {
		return nil, types.NewFault(types.FaultInvalidRequest, "target broker set is empty").WithTopic(topic)
	}

	return slices.Sorted(maps.Keys(set)), nil
}

// selfCheck runs ValidatePlan unless verification is disabled.
func (p *Planner) selfCheck(plan *types.MigrationPlan, before map[string]*types.BrokerTopicConfig) error {
	if !p.verify {
		return nil
	}
	if err := ValidatePlan(plan, before); err != nil {
		return internalError(plan.Topic, err)
	}

	return nil
}

func internalError(topic string, err error) error {
	return fmt.Errorf("%w: topic %s: %w", types.ErrInternalInvariant, topic, err)
}
