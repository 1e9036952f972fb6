package types

import (
	"maps"
	"slices"
)

// MappingItem is one historical ownership record of a global queue id.
//
// The items of a global queue id form an append-only sequence ordered oldest
// first. The last item of the sequence names the current leader broker.
type MappingItem struct {
	// Gen is the generation of the record, strictly increasing within a sequence.
	Gen int `json:"gen" yaml:"gen"`

	// QueueID is the physical queue slot on the owning broker.
	QueueID int `json:"queueId" yaml:"queueId"`

	// Broker is the owning broker name.
	Broker string `json:"bname" yaml:"bname"`

	// LogicOffset is the first global logical offset served by this record (-1 when unbound).
	LogicOffset int64 `json:"logicOffset" yaml:"logicOffset"`

	// StartOffset is the first physical offset on the owning broker.
	StartOffset int64 `json:"startOffset" yaml:"startOffset"`

	// EndOffset is the physical end offset (-1 while the record is open).
	EndOffset int64 `json:"endOffset" yaml:"endOffset"`

	// TimeOfStart and TimeOfEnd are millisecond timestamps, -1 when unknown.
	TimeOfStart int64 `json:"timeOfStart" yaml:"timeOfStart"`
	TimeOfEnd   int64 `json:"timeOfEnd" yaml:"timeOfEnd"`
}

// NewMappingItem creates an open item with unknown logic offset and timestamps.
//
// Parameters:
//   - gen: Generation of the record
//   - queueID: Physical queue slot on the broker
//   - broker: Owning broker name
//
// Returns:
//   - MappingItem: Item with StartOffset 0 and EndOffset, LogicOffset, TimeOfStart, TimeOfEnd set to -1
func NewMappingItem(gen, queueID int, broker string) MappingItem {
	return MappingItem{
		Gen:         gen,
		QueueID:     queueID,
		Broker:      broker,
		LogicOffset: -1,
		StartOffset: 0,
		EndOffset:   -1,
		TimeOfStart: -1,
		TimeOfEnd:   -1,
	}
}

// MaxLogicOffset returns the highest logical offset covered by the item.
//
// For a closed item this is LogicOffset plus its physical span, otherwise LogicOffset.
func (m MappingItem) MaxLogicOffset() int64 {
	if m.EndOffset >= m.StartOffset {
		return m.LogicOffset + m.EndOffset - m.StartOffset
	}

	return m.LogicOffset
}

// LeaderItem returns the newest item of a sequence.
//
// Returns:
//   - MappingItem: The last item
//   - bool: false when the sequence is empty
func LeaderItem(items []MappingItem) (MappingItem, bool) {
	if len(items) == 0 {
		return MappingItem{}, false
	}

	return items[len(items)-1], true
}

// LeaderBroker returns the broker owning the newest item, or "" for an empty sequence.
func LeaderBroker(items []MappingItem) string {
	item, ok := LeaderItem(items)
	if !ok {
		return ""
	}

	return item.Broker
}

// TopicMapping is one broker's declared view of a static topic.
//
// HostedQueues maps a global queue id to the item sequence this broker knows
// about. Non-leader brokers may hold only a tail of the history; the leader
// holds the full sequence.
type TopicMapping struct {
	Topic        string                `json:"topic" yaml:"topic"`
	Broker       string                `json:"bname" yaml:"bname"`
	Epoch        int64                 `json:"epoch" yaml:"epoch"`
	TotalQueues  int                   `json:"totalQueues" yaml:"totalQueues"`
	Dirty        bool                  `json:"dirty" yaml:"dirty"`
	HostedQueues map[int][]MappingItem `json:"hostedQueues" yaml:"hostedQueues"`
}

// NewTopicMapping creates an empty mapping owned by broker.
func NewTopicMapping(topic, broker string, epoch int64, totalQueues int) *TopicMapping {
	return &TopicMapping{
		Topic:        topic,
		Broker:       broker,
		Epoch:        epoch,
		TotalQueues:  totalQueues,
		HostedQueues: make(map[int][]MappingItem),
	}
}

// PutItems replaces the sequence stored for globalID with a copy of items.
func (m *TopicMapping) PutItems(globalID int, items []MappingItem) {
	if m.HostedQueues == nil {
		m.HostedQueues = make(map[int][]MappingItem)
	}
	m.HostedQueues[globalID] = slices.Clone(items)
}

// GlobalIDs returns the hosted global ids in ascending order.
func (m *TopicMapping) GlobalIDs() []int {
	return slices.Sorted(maps.Keys(m.HostedQueues))
}

// Clone returns a deep copy of the mapping.
func (m *TopicMapping) Clone() *TopicMapping {
	if m == nil {
		return nil
	}

	cp := *m
	cp.HostedQueues = make(map[int][]MappingItem, len(m.HostedQueues))
	for id, items := range m.HostedQueues {
		cp.HostedQueues[id] = slices.Clone(items)
	}

	return &cp
}

// GlobalQueueView is the resolved state of one global queue id.
//
// Exactly one broker leads a global id; Items is the leader's full sequence.
type GlobalQueueView struct {
	Topic    string        `json:"topic" yaml:"topic"`
	Broker   string        `json:"bname" yaml:"bname"`
	GlobalID int           `json:"globalId" yaml:"globalId"`
	Items    []MappingItem `json:"items" yaml:"items"`
}
