package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/types"
)

// AssertPlanInvariants verifies the guarantees every plan must keep.
//
// Checked:
//   - every config carries the plan epoch and one shared total queue count
//   - ids [0, total) resolve to exactly one leader each
//   - map-in and map-out are disjoint
//   - an id that kept its leader kept its history
//   - a moved id gained exactly one item on a map-in broker, held value-equal
//     by the broker it left, which is in map-out
//
// Parameters:
//   - t: testing handle
//   - plan: plan under test
//   - before: configs the plan was computed from (empty for a new topic)
func AssertPlanInvariants(t *testing.T, plan *types.MigrationPlan, before map[string]*types.BrokerTopicConfig) {
	t.Helper()

	epoch, total, err := mapping.CheckConsistency(plan.Topic, plan.Configs)
	require.NoError(t, err)
	require.Equal(t, plan.Epoch, epoch, "config epoch differs from plan epoch")

	after, err := mapping.Resolve(plan.Mappings(), false, true)
	require.NoError(t, err)
	require.Len(t, after, total)

	for _, b := range plan.MapIn {
		require.NotContains(t, plan.MapOut, b, "broker %s is both mapped in and out", b)
	}

	if len(before) == 0 {
		return
	}

	prev, err := mapping.Resolve(mapping.MappingsFromConfigs(before), false, true)
	require.NoError(t, err)

	for id, old := range prev {
		cur, ok := after[id]
		require.True(t, ok, "id %d disappeared", id)

		if cur.Broker == old.Broker {
			require.Equal(t, old.Items, cur.Items, "id %d history changed without a move", id)
			continue
		}

		require.Len(t, cur.Items, len(old.Items)+1, "id %d must gain exactly one item", id)
		require.Equal(t, old.Items, cur.Items[:len(old.Items)], "id %d rewrote history", id)
		require.True(t, slices.Contains(plan.MapIn, cur.Broker), "id %d gainer %s not in map-in", id, cur.Broker)
		require.True(t, slices.Contains(plan.MapOut, old.Broker), "id %d loser %s not in map-out", id, old.Broker)
		require.Equal(t, cur.Items, plan.Configs[old.Broker].Mapping.HostedQueues[id],
			"id %d is not dual-written to %s", id, old.Broker)
	}
}
