package mapping

import (
	"math"
	"testing"

	"github.com/arloliu/statictopic/types"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("resolves one leader per id", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", 1000, 3, 0, 2).Mapping,
			configFor("orders", "broker-b", 1000, 3, 1).Mapping,
		}

		view, err := Resolve(mappings, false, true)
		require.NoError(t, err)
		require.Len(t, view, 3)
		require.Equal(t, map[int]string{0: "broker-a", 1: "broker-b", 2: "broker-a"}, IDToBroker(view))
		require.Equal(t, "orders", view[1].Topic)
		require.Equal(t, 1, view[1].GlobalID)
	})

	t.Run("ignores non-leader tails", func(t *testing.T) {
		a := configFor("orders", "broker-a", 1000, 1).Mapping
		b := configFor("orders", "broker-b", 1000, 1).Mapping
		history := []types.MappingItem{item(0, 0, "broker-a", 0, 0, 10), item(1, 0, "broker-b", 11, 0, -1)}
		a.PutItems(0, history)
		b.PutItems(0, history)

		view, err := Resolve([]*types.TopicMapping{a, b}, false, true)
		require.NoError(t, err)
		require.Equal(t, "broker-b", view[0].Broker)
		require.Equal(t, history, view[0].Items)
	})

	t.Run("rejects duplicated leader claims", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", 1000, 1, 0).Mapping,
			configFor("orders", "broker-b", 1000, 1, 0).Mapping,
		}

		_, err := Resolve(mappings, false, false)
		require.ErrorIs(t, err, types.ErrLeaderConflict)
	})

	t.Run("keeps the highest epoch claim when replace is allowed", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", 1000, 1, 0).Mapping,
			configFor("orders", "broker-b", 2000, 1, 0).Mapping,
		}

		view, err := Resolve(mappings, true, true)
		require.NoError(t, err)
		require.Equal(t, "broker-b", view[0].Broker)
	})

	t.Run("orders huge epochs without overflow", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", math.MinInt64+1, 1, 0).Mapping,
			configFor("orders", "broker-b", math.MaxInt64, 1, 0).Mapping,
		}

		view, err := Resolve(mappings, true, true)
		require.NoError(t, err)
		require.Equal(t, "broker-b", view[0].Broker)
	})

	t.Run("reports coverage gaps", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", 1000, 3, 0).Mapping,
			configFor("orders", "broker-b", 1000, 3, 2).Mapping,
		}

		_, err := Resolve(mappings, false, true)
		require.ErrorIs(t, err, types.ErrCoverageGap)

		view, err := Resolve(mappings, false, false)
		require.NoError(t, err)
		require.Len(t, view, 2)
	})

	t.Run("reports ids beyond the declared total", func(t *testing.T) {
		mappings := []*types.TopicMapping{configFor("orders", "broker-a", 1000, 1, 0, 1).Mapping}

		_, err := Resolve(mappings, false, true)
		require.ErrorIs(t, err, types.ErrCoverageGap)
	})

	t.Run("propagates sequence faults with location", func(t *testing.T) {
		a := configFor("orders", "broker-a", 1000, 1).Mapping
		a.PutItems(0, gens(0, 2, 1))

		_, err := Resolve([]*types.TopicMapping{a}, false, false)
		var fault *types.Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, types.FaultSequenceInvariant, fault.Kind)
		require.Equal(t, "broker-a", fault.Broker)
		require.Equal(t, 0, fault.GlobalID)
	})

	t.Run("does not mutate the input order", func(t *testing.T) {
		mappings := []*types.TopicMapping{
			configFor("orders", "broker-a", 1000, 2, 0).Mapping,
			configFor("orders", "broker-b", 3000, 2, 1).Mapping,
		}

		_, err := Resolve(mappings, true, false)
		require.NoError(t, err)
		require.Equal(t, "broker-a", mappings[0].Broker)
	})
}

func TestMovedIDs(t *testing.T) {
	view := func(owners ...string) map[int]*types.GlobalQueueView {
		out := make(map[int]*types.GlobalQueueView, len(owners))
		for id, b := range owners {
			out[id] = &types.GlobalQueueView{GlobalID: id, Broker: b}
		}

		return out
	}

	t.Run("reports changed leaders in order", func(t *testing.T) {
		moved := MovedIDs(view("a", "b", "a", "c"), view("a", "d", "d", "c"))
		require.Equal(t, []int{1, 2}, moved)
	})

	t.Run("ignores new ids", func(t *testing.T) {
		moved := MovedIDs(view("a"), view("a", "b"))
		require.Empty(t, moved)
	})
}
