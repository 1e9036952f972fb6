package mapping

import "github.com/arloliu/statictopic/types"

func item(gen, queueID int, broker string, logic, start, end int64) types.MappingItem {
	return types.MappingItem{
		Gen:         gen,
		QueueID:     queueID,
		Broker:      broker,
		LogicOffset: logic,
		StartOffset: start,
		EndOffset:   end,
		TimeOfStart: -1,
		TimeOfEnd:   -1,
	}
}

func gens(gs ...int) []types.MappingItem {
	items := make([]types.MappingItem, len(gs))
	for i, g := range gs {
		items[i] = item(g, 0, "broker-a", -1, 0, -1)
	}

	return items
}

// configFor builds a consistent config whose mapping leads every id in ids.
func configFor(topic, broker string, epoch int64, total int, ids ...int) *types.BrokerTopicConfig {
	cfg := types.NewBrokerTopicConfig(topic, broker)
	cfg.Mapping.Epoch = epoch
	cfg.Mapping.TotalQueues = total
	for _, id := range ids {
		slot := cfg.AddQueueSlot()
		cfg.Mapping.PutItems(id, []types.MappingItem{item(0, slot, broker, 0, 0, -1)})
	}

	return cfg
}
