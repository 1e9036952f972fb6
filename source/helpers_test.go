package source

import "github.com/arloliu/statictopic/types"

// brokerConfig builds a config hosting the given global ids as single-item sequences.
func brokerConfig(topic, broker string, epoch int64, total int, ids ...int) *types.BrokerTopicConfig {
	cfg := types.NewBrokerTopicConfig(topic, broker)
	cfg.Mapping.Epoch = epoch
	cfg.Mapping.TotalQueues = total
	for _, id := range ids {
		slot := cfg.AddQueueSlot()
		cfg.Mapping.PutItems(id, []types.MappingItem{types.NewMappingItem(0, slot, broker)})
	}

	return cfg
}
