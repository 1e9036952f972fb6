package planner

import (
	"testing"
	"time"

	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/types"
	"github.com/stretchr/testify/require"
)

const testNow int64 = 1_700_000_000_000

func newTestPlanner(seed uint64) *Planner {
	return New(Config{
		Now:  func() time.Time { return time.UnixMilli(testNow) },
		Seed: func(string, int64) uint64 { return seed },
	})
}

// leaderCounts resolves a plan and counts the ids led by each broker.
func leaderCounts(t *testing.T, configs map[string]*types.BrokerTopicConfig) map[string]int {
	t.Helper()

	view, err := mapping.Resolve(mapping.MappingsFromConfigs(configs), false, true)
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, q := range view {
		counts[q.Broker]++
	}

	return counts
}

func createTopic(t *testing.T, p *Planner, queues int, brokers ...string) map[string]*types.BrokerTopicConfig {
	t.Helper()

	plan, err := p.CreateOrExpand("orders", queues, brokers, nil)
	require.NoError(t, err)

	return plan.Configs
}
