package types

import (
	"maps"
	"slices"
)

// BrokerTopicConfig pairs a broker's topic queue counts with its TopicMapping.
//
// Read and write queue counts grow by one each time a local queue slot is
// carved out for a newly assigned global queue id.
type BrokerTopicConfig struct {
	TopicName      string        `json:"topicName" yaml:"topicName"`
	ReadQueueNums  int           `json:"readQueueNums" yaml:"readQueueNums"`
	WriteQueueNums int           `json:"writeQueueNums" yaml:"writeQueueNums"`
	Mapping        *TopicMapping `json:"mappingDetail" yaml:"mappingDetail"`
}

// NewBrokerTopicConfig creates a config with no local queues for broker.
//
// The embedded mapping starts with epoch -1 and zero total queues; planners
// stamp both before returning a plan.
func NewBrokerTopicConfig(topic, broker string) *BrokerTopicConfig {
	return &BrokerTopicConfig{
		TopicName: topic,
		Mapping:   NewTopicMapping(topic, broker, -1, 0),
	}
}

// AddQueueSlot carves out a new local queue slot and returns its index.
func (c *BrokerTopicConfig) AddQueueSlot() int {
	c.WriteQueueNums++
	c.ReadQueueNums++

	return c.WriteQueueNums - 1
}

// Clone returns a deep copy of the config.
func (c *BrokerTopicConfig) Clone() *BrokerTopicConfig {
	if c == nil {
		return nil
	}

	cp := *c
	cp.Mapping = c.Mapping.Clone()

	return &cp
}

// CloneConfigs deep-copies a broker → config map.
func CloneConfigs(configs map[string]*BrokerTopicConfig) map[string]*BrokerTopicConfig {
	out := make(map[string]*BrokerTopicConfig, len(configs))
	for broker, cfg := range configs {
		out[broker] = cfg.Clone()
	}

	return out
}

// SortedBrokers returns the broker names of configs in ascending order.
func SortedBrokers(configs map[string]*BrokerTopicConfig) []string {
	return slices.Sorted(maps.Keys(configs))
}
