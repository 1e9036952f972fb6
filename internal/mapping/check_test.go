package mapping

import (
	"testing"

	"github.com/arloliu/statictopic/types"
	"github.com/stretchr/testify/require"
)

func requireFault(t *testing.T, err error, kind types.FaultKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := types.FaultKindOf(err)
	require.True(t, ok, "expected a fault, got %v", err)
	require.Equal(t, kind, got, "unexpected fault: %v", err)
}

func TestCheckConsistency(t *testing.T) {
	t.Run("empty input is no existing state", func(t *testing.T) {
		epoch, total, err := CheckConsistency("orders", nil)
		require.NoError(t, err)
		require.Equal(t, int64(-1), epoch)
		require.Equal(t, -1, total)
	})

	t.Run("returns agreed epoch and total", func(t *testing.T) {
		configs := map[string]*types.BrokerTopicConfig{
			"broker-a": configFor("orders", "broker-a", 1000, 2, 0),
			"broker-b": configFor("orders", "broker-b", 1000, 2, 1),
		}

		epoch, total, err := CheckConsistency("orders", configs)
		require.NoError(t, err)
		require.Equal(t, int64(1000), epoch)
		require.Equal(t, 2, total)
	})

	tests := []struct {
		name   string
		mutate func(map[string]*types.BrokerTopicConfig)
		kind   types.FaultKind
	}{
		{
			name:   "missing mapping",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-a"].Mapping = nil },
			kind:   types.FaultStaleOrDirtyState,
		},
		{
			name:   "owner name mismatch",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-a"].Mapping.Broker = "broker-x" },
			kind:   types.FaultStaleOrDirtyState,
		},
		{
			name:   "dirty mapping",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-b"].Mapping.Dirty = true },
			kind:   types.FaultStaleOrDirtyState,
		},
		{
			name:   "config topic differs from mapping topic",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-b"].TopicName = "payments" },
			kind:   types.FaultStaleOrDirtyState,
		},
		{
			name: "mapping of another topic",
			mutate: func(c map[string]*types.BrokerTopicConfig) {
				c["broker-b"].TopicName = "payments"
				c["broker-b"].Mapping.Topic = "payments"
			},
			kind: types.FaultStaleOrDirtyState,
		},
		{
			name:   "epoch mismatch",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-b"].Mapping.Epoch = 2000 },
			kind:   types.FaultEpochOrCountMismatch,
		},
		{
			name:   "total queue mismatch",
			mutate: func(c map[string]*types.BrokerTopicConfig) { c["broker-b"].Mapping.TotalQueues = 3 },
			kind:   types.FaultEpochOrCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := map[string]*types.BrokerTopicConfig{
				"broker-a": configFor("orders", "broker-a", 1000, 2, 0),
				"broker-b": configFor("orders", "broker-b", 1000, 2, 1),
			}
			tt.mutate(configs)

			_, _, err := CheckConsistency("orders", configs)
			requireFault(t, err, tt.kind)
		})
	}

	t.Run("fault names the broker", func(t *testing.T) {
		configs := map[string]*types.BrokerTopicConfig{"broker-a": configFor("orders", "broker-a", 1, 1, 0)}
		configs["broker-a"].Mapping.Dirty = true

		_, _, err := CheckConsistency("orders", configs)
		var fault *types.Fault
		require.ErrorAs(t, err, &fault)
		require.Equal(t, "broker-a", fault.Broker)
		require.Equal(t, "orders", fault.Topic)
	})
}

func TestCheckItemSequence(t *testing.T) {
	t.Run("accepts empty and single item sequences", func(t *testing.T) {
		require.NoError(t, CheckItemSequence(nil))
		require.NoError(t, CheckItemSequence(gens(0)))
	})

	t.Run("accepts increasing generations and offsets", func(t *testing.T) {
		items := []types.MappingItem{
			item(0, 0, "broker-a", 0, 0, 100),
			item(1, 2, "broker-b", 101, 50, 99),
			item(2, 1, "broker-c", -1, 0, -1),
		}
		require.NoError(t, CheckItemSequence(items))
	})

	t.Run("rejects non monotonic generations", func(t *testing.T) {
		requireFault(t, CheckItemSequence(gens(0, 2, 1)), types.FaultSequenceInvariant)
		requireFault(t, CheckItemSequence(gens(0, 1, 1)), types.FaultSequenceInvariant)
	})

	t.Run("rejects decreasing logic offsets", func(t *testing.T) {
		items := []types.MappingItem{
			item(0, 0, "broker-a", 0, 0, -1),
			item(1, 0, "broker-b", 100, 0, -1),
			item(2, 0, "broker-c", 50, 0, -1),
		}
		requireFault(t, CheckItemSequence(items), types.FaultSequenceInvariant)
	})

	t.Run("rejects overlapping logic ranges", func(t *testing.T) {
		items := []types.MappingItem{
			item(0, 0, "broker-a", 0, 0, 100),
			item(1, 0, "broker-b", 100, 0, -1),
		}
		requireFault(t, CheckItemSequence(items), types.FaultSequenceInvariant)
	})

	t.Run("rejects negative fields", func(t *testing.T) {
		requireFault(t, CheckItemSequence([]types.MappingItem{item(-1, 0, "broker-a", -1, 0, -1)}), types.FaultSequenceInvariant)
		requireFault(t, CheckItemSequence([]types.MappingItem{item(0, -1, "broker-a", -1, 0, -1)}), types.FaultSequenceInvariant)
		requireFault(t, CheckItemSequence([]types.MappingItem{item(0, 0, "broker-a", -1, -5, -1)}), types.FaultSequenceInvariant)
	})

	t.Run("rejects end offset below start offset", func(t *testing.T) {
		requireFault(t, CheckItemSequence([]types.MappingItem{item(0, 0, "broker-a", 0, 10, 5)}), types.FaultSequenceInvariant)
	})
}

func TestCheckImmutability(t *testing.T) {
	old := []types.MappingItem{item(0, 0, "broker-a", 0, 0, 100)}

	t.Run("accepts an appended generation", func(t *testing.T) {
		newItems := append([]types.MappingItem{}, old...)
		newItems = append(newItems, item(1, 3, "broker-b", -1, 0, -1))
		require.NoError(t, CheckImmutability(old, newItems))
	})

	t.Run("accepts empty old history", func(t *testing.T) {
		require.NoError(t, CheckImmutability(nil, gens(0)))
	})

	t.Run("accepts a newly bound logic offset", func(t *testing.T) {
		oldItems := []types.MappingItem{item(0, 0, "broker-a", -1, 0, -1)}
		newItems := []types.MappingItem{item(0, 0, "broker-a", 0, 0, 100)}
		require.NoError(t, CheckImmutability(oldItems, newItems))
	})

	t.Run("skips new generations unknown to the old list", func(t *testing.T) {
		oldItems := []types.MappingItem{item(2, 0, "broker-c", -1, 0, -1)}
		newItems := []types.MappingItem{item(1, 0, "broker-b", -1, 0, -1), item(2, 0, "broker-c", -1, 0, -1)}
		require.NoError(t, CheckImmutability(oldItems, newItems))
	})

	t.Run("rejects shorter history", func(t *testing.T) {
		requireFault(t, CheckImmutability(gens(0, 1), gens(1)), types.FaultHistoryMutation)
	})

	t.Run("rejects a dropped generation", func(t *testing.T) {
		requireFault(t, CheckImmutability(gens(0, 1), gens(0, 2)), types.FaultHistoryMutation)
	})

	mutations := map[string]func(*types.MappingItem){
		"start offset": func(i *types.MappingItem) { i.StartOffset = 7 },
		"broker":       func(i *types.MappingItem) { i.Broker = "broker-z" },
		"queue id":     func(i *types.MappingItem) { i.QueueID = 9 },
		"logic offset": func(i *types.MappingItem) { i.LogicOffset = 5 },
	}
	for field, mutate := range mutations {
		t.Run("rejects rewritten "+field, func(t *testing.T) {
			newItems := []types.MappingItem{old[0], item(1, 3, "broker-b", -1, 0, -1)}
			mutate(&newItems[0])
			requireFault(t, CheckImmutability(old, newItems), types.FaultHistoryMutation)
		})
	}
}

func TestMaxEpochAndTotal(t *testing.T) {
	epoch, total := MaxEpochAndTotal(nil)
	require.Equal(t, int64(-1), epoch)
	require.Equal(t, 0, total)

	mappings := []*types.TopicMapping{
		types.NewTopicMapping("orders", "broker-a", 10, 4),
		types.NewTopicMapping("orders", "broker-b", 30, 2),
	}
	epoch, total = MaxEpochAndTotal(mappings)
	require.Equal(t, int64(30), epoch)
	require.Equal(t, 4, total)
}

func TestMappingsFromConfigs(t *testing.T) {
	configs := map[string]*types.BrokerTopicConfig{
		"broker-b": configFor("orders", "broker-b", 1, 2, 1),
		"broker-a": configFor("orders", "broker-a", 1, 2, 0),
		"broker-c": {TopicName: "orders"},
	}

	mappings := MappingsFromConfigs(configs)
	require.Len(t, mappings, 2)
	require.Equal(t, "broker-a", mappings[0].Broker)
	require.Equal(t, "broker-b", mappings[1].Broker)
}
