package mapping

import (
	"fmt"

	"github.com/arloliu/statictopic/types"
)

// CheckConsistency verifies that the configs of one topic agree with each other.
//
// A config fails when its mapping is missing, names a different owner than the
// broker key it was stored under, is dirty, or names a different topic than its
// config or than topic (when topic is non-empty). All mappings must share one
// epoch and one total queue count.
//
// Parameters:
//   - topic: Expected topic name ("" skips the check)
//   - configs: Configs keyed by the broker they were read from
//
// Returns:
//   - int64: Agreed epoch (-1 when configs is empty)
//   - int: Agreed total queue count (-1 when configs is empty)
//   - error: *types.Fault of kind StaleOrDirtyState or EpochOrCountMismatch
func CheckConsistency(topic string, configs map[string]*types.BrokerTopicConfig) (int64, int, error) {
	epoch := int64(-1)
	total := -1
	first := true

	for _, broker := range types.SortedBrokers(configs) {
		cfg := configs[broker]
		if cfg == nil || cfg.Mapping == nil {
			return 0, 0, types.NewFault(types.FaultStaleOrDirtyState, "mapping info should not be nil").
				WithTopic(topic).WithBroker(broker)
		}

		m := cfg.Mapping
		if m.Broker != broker {
			return 0, 0, types.NewFault(types.FaultStaleOrDirtyState, "owner broker name does not match the broker key").
				WithTopic(topic).WithBroker(broker).WithValues(broker, m.Broker)
		}
		if m.Dirty {
			return 0, 0, types.NewFault(types.FaultStaleOrDirtyState, "mapping info is dirty").
				WithTopic(topic).WithBroker(broker)
		}
		if cfg.TopicName != m.Topic {
			return 0, 0, types.NewFault(types.FaultStaleOrDirtyState, "config and mapping topic names differ").
				WithTopic(topic).WithBroker(broker).WithValues(cfg.TopicName, m.Topic)
		}
		if topic != "" && topic != m.Topic {
			return 0, 0, types.NewFault(types.FaultStaleOrDirtyState, "mapping belongs to another topic").
				WithTopic(topic).WithBroker(broker).WithValues(topic, m.Topic)
		}

		if first {
			epoch, total = m.Epoch, m.TotalQueues
			first = false

			continue
		}
		if m.Epoch != epoch {
			return 0, 0, types.NewFault(types.FaultEpochOrCountMismatch, "epoch does not match").
				WithTopic(topic).WithBroker(broker).WithValues(epoch, m.Epoch)
		}
		if m.TotalQueues != total {
			return 0, 0, types.NewFault(types.FaultEpochOrCountMismatch, "total queue number does not match").
				WithTopic(topic).WithBroker(broker).WithValues(total, m.TotalQueues)
		}
	}

	return epoch, total, nil
}

// CheckItemSequence validates one global id's item sequence.
//
// Walking from newest to oldest, every item must have non-negative Gen,
// QueueID and StartOffset, an EndOffset (when set) not below StartOffset, and a
// Gen strictly below the next newer item's. When both are known, an item's
// LogicOffset and MaxLogicOffset must stay below the next newer item's LogicOffset.
//
// Returns:
//   - error: *types.Fault of kind SequenceInvariantViolation, nil if valid
func CheckItemSequence(items []types.MappingItem) error {
	if f := checkItemSequence(items); f != nil {
		return f
	}

	return nil
}

func checkItemSequence(items []types.MappingItem) *types.Fault {
	hasNewer := false
	newerGen := 0
	newerLogic := int64(-1)

	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item.StartOffset < 0 || item.Gen < 0 || item.QueueID < 0 {
			return types.NewFault(types.FaultSequenceInvariant, "item %d has a negative field", i).
				WithBroker(item.Broker)
		}
		if hasNewer && item.Gen >= newerGen {
			return types.NewFault(types.FaultSequenceInvariant, "gen does not increase monotonically at item %d", i).
				WithBroker(item.Broker).WithValues(fmt.Sprintf("< %d", newerGen), item.Gen)
		}
		if item.EndOffset != -1 && item.EndOffset < item.StartOffset {
			return types.NewFault(types.FaultSequenceInvariant, "end offset is smaller than start offset at item %d", i).
				WithBroker(item.Broker).WithValues(fmt.Sprintf(">= %d", item.StartOffset), item.EndOffset)
		}
		if newerLogic != -1 && item.LogicOffset != -1 {
			if item.LogicOffset >= newerLogic {
				return types.NewFault(types.FaultSequenceInvariant, "logic offset does not increase monotonically at item %d", i).
					WithBroker(item.Broker).WithValues(fmt.Sprintf("< %d", newerLogic), item.LogicOffset)
			}
			if item.MaxLogicOffset() >= newerLogic {
				return types.NewFault(types.FaultSequenceInvariant, "logic range of item %d overlaps its successor", i).
					WithBroker(item.Broker).WithValues(fmt.Sprintf("< %d", newerLogic), item.MaxLogicOffset())
			}
		}

		hasNewer = true
		newerGen = item.Gen
		newerLogic = item.LogicOffset
	}

	return nil
}

// CheckImmutability verifies that newItems only appends to oldItems.
//
// Items are matched by equal Gen while walking both sequences; entries of
// newItems whose Gen has no counterpart in oldItems are skipped. Matched pairs
// must agree on Broker, QueueID and StartOffset, and on LogicOffset when the
// old item has one. Every old item must find its match.
//
// Parameters:
//   - oldItems: Previously committed sequence
//   - newItems: Proposed sequence
//
// Returns:
//   - error: *types.Fault of kind HistoryMutationViolation, nil if newItems extends oldItems
func CheckImmutability(oldItems, newItems []types.MappingItem) error {
	if len(oldItems) == 0 {
		return nil
	}
	if len(newItems) < len(oldItems) {
		return types.NewFault(types.FaultHistoryMutation, "new item list is shorter than the old one").
			WithValues(fmt.Sprintf(">= %d", len(oldItems)), len(newItems))
	}

	iold, inew := 0, 0
	for iold < len(oldItems) && inew < len(newItems) {
		oldItem, newItem := oldItems[iold], newItems[inew]
		switch {
		case newItem.Gen < oldItem.Gen:
			inew++

			continue
		case oldItem.Gen < newItem.Gen:
			return types.NewFault(types.FaultHistoryMutation, "gen %d of the old list is missing", oldItem.Gen).
				WithBroker(oldItem.Broker)
		}

		if oldItem.Broker != newItem.Broker {
			return historyFault(oldItem.Gen, "broker", oldItem.Broker, newItem.Broker)
		}
		if oldItem.QueueID != newItem.QueueID {
			return historyFault(oldItem.Gen, "queue id", oldItem.QueueID, newItem.QueueID)
		}
		if oldItem.StartOffset != newItem.StartOffset {
			return historyFault(oldItem.Gen, "start offset", oldItem.StartOffset, newItem.StartOffset)
		}
		if oldItem.LogicOffset != -1 && oldItem.LogicOffset != newItem.LogicOffset {
			return historyFault(oldItem.Gen, "logic offset", oldItem.LogicOffset, newItem.LogicOffset)
		}
		iold++
		inew++
	}

	if iold < len(oldItems) {
		return types.NewFault(types.FaultHistoryMutation, "gen %d of the old list is missing", oldItems[iold].Gen).
			WithBroker(oldItems[iold].Broker)
	}

	return nil
}

func historyFault(gen int, field string, expected, actual any) *types.Fault {
	return types.NewFault(types.FaultHistoryMutation, "%s of gen %d was rewritten", field, gen).
		WithValues(expected, actual)
}

// MaxEpochAndTotal returns the highest epoch and total queue count across mappings.
//
// Returns:
//   - int64: Highest epoch (-1 when mappings is empty)
//   - int: Highest total queue count (0 when mappings is empty)
func MaxEpochAndTotal(mappings []*types.TopicMapping) (int64, int) {
	epoch := int64(-1)
	total := 0
	for _, m := range mappings {
		epoch = max(epoch, m.Epoch)
		total = max(total, m.TotalQueues)
	}

	return epoch, total
}

// MappingsFromConfigs collects the non-nil mappings of configs in broker order.
func MappingsFromConfigs(configs map[string]*types.BrokerTopicConfig) []*types.TopicMapping {
	out := make([]*types.TopicMapping, 0, len(configs))
	for _, broker := range types.SortedBrokers(configs) {
		if cfg := configs[broker]; cfg != nil && cfg.Mapping != nil {
			out = append(out, cfg.Mapping)
		}
	}

	return out
}
