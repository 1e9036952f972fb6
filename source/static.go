package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/statictopic/types"
)

// Static implements a snapshot source holding configs in memory.
//
// Static also implements types.PlanPublisher: publishing a plan overlays the
// plan's configs onto the stored ones, so tests and offline tools can chain
// planning calls without a KV store.
type Static struct {
	mu     sync.RWMutex
	topics map[string]map[string]*types.BrokerTopicConfig
	epochs map[string]int64
}

var (
	_ types.SnapshotSource = (*Static)(nil)
	_ types.PlanPublisher  = (*Static)(nil)
)

// NewStatic creates a new, empty static snapshot source.
//
// Example:
//
//	src := source.NewStatic()
//	src.Set("orders", configs)
//	p, err := statictopic.NewPlanner(&cfg, src)
func NewStatic() *Static {
	return &Static{
		topics: make(map[string]map[string]*types.BrokerTopicConfig),
		epochs: make(map[string]int64),
	}
}

// LoadTopic returns a deep copy of the configs stored for topic.
//
// Returns:
//   - map[string]*types.BrokerTopicConfig: Configs keyed by broker (empty if unknown)
//   - error: Always nil
func (s *Static) LoadTopic(_ context.Context, topic string) (map[string]*types.BrokerTopicConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return types.CloneConfigs(s.topics[topic]), nil
}

// Set replaces the configs stored for topic with a deep copy of configs.
func (s *Static) Set(topic string, configs map[string]*types.BrokerTopicConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.topics[topic] = types.CloneConfigs(configs)
}

// Topics returns the number of topics held.
func (s *Static) Topics() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.topics)
}

// Publish overlays plan's configs onto the stored configs of its topic.
//
// Parameters:
//   - plan: Plan to apply
//
// Returns:
//   - error: ErrStalePlan when plan.Epoch is not newer than the last applied plan
func (s *Static) Publish(_ context.Context, plan *types.MigrationPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: nil plan", types.ErrPublishFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.epochs[plan.Topic]; ok && plan.Epoch <= last {
		return fmt.Errorf("%w: topic %s epoch %d <= %d", types.ErrStalePlan, plan.Topic, plan.Epoch, last)
	}

	stored := s.topics[plan.Topic]
	if stored == nil {
		stored = make(map[string]*types.BrokerTopicConfig, len(plan.Configs))
		s.topics[plan.Topic] = stored
	}
	for broker, cfg := range plan.Configs {
		stored[broker] = cfg.Clone()
	}
	s.epochs[plan.Topic] = plan.Epoch

	return nil
}
