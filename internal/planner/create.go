package planner

import (
	"fmt"
	"maps"
	"slices"

	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/types"
)

// CreateOrExpand plans the creation of a static topic or the growth of its queue count.
//
// Existing global ids never move. Each new id gets one generation-0 item on a
// fresh local queue slot of the least-loaded target broker; its logic offset
// stays unbound (-1) until the broker starts serving it.
//
// Parameters:
//   - topic: Static topic name
//   - queueNum: Target global queue count
//   - targetBrokers: Brokers new ids may be placed on
//   - configs: Current configs keyed by broker (empty for a new topic; not mutated)
//
// Returns:
//   - *types.MigrationPlan: PlanCreateOrUpdate plan with empty map-in/map-out sets
//   - error: Consistency fault, InvalidRequest fault (shrink or unchanged count),
//     or types.ErrInternalInvariant
func (p *Planner) CreateOrExpand(
	topic string,
	queueNum int,
	targetBrokers []string,
	configs map[string]*types.BrokerTopicConfig,
) (*types.MigrationPlan, error) {
	brokers, err := uniqueBrokers(topic, targetBrokers)
	if err != nil {
		return nil, err
	}

	work := types.CloneConfigs(configs)
	epoch := p.now().UnixMilli()
	view := map[int]*types.GlobalQueueView{}
	if len(work) > 0 {
		epoch, _, view, err = loadExisting(topic, work)
		if err != nil {
			return nil, err
		}
	}

	if queueNum < len(view) {
		return nil, types.NewFault(types.FaultInvalidRequest, "cannot decrease the queue number of a static topic").
			WithTopic(topic).WithValues(fmt.Sprintf(">= %d", len(view)), queueNum)
	}
	if queueNum == len(view) {
		return nil, types.NewFault(types.FaultInvalidRequest, "queue number equals the existing one, nothing to do").
			WithTopic(topic).WithValues(fmt.Sprintf("> %d", len(view)), queueNum)
	}

	brokerLoad := make(map[string]int, len(brokers))
	for _, b := range brokers {
		brokerLoad[b] = 0
	}
	oldIDToBroker := mapping.IDToBroker(view)
	for _, b := range oldIDToBroker {
		if _, ok := brokerLoad[b]; ok {
			brokerLoad[b]++
		}
	}

	alloc, err := p.newAllocator(topic, epoch, brokerLoad, oldIDToBroker)
	if err != nil {
		return nil, err
	}
	alloc.UpToNum(queueNum)
	newIDToBroker := alloc.IDToBroker()

	newEpoch := p.nextEpoch(epoch)
	for _, id := range slices.Sorted(maps.Keys(newIDToBroker)) {
		if _, ok := view[id]; ok {
			continue
		}

		broker := newIDToBroker[id]
		cfg, ok := work[broker]
		if !ok {
			cfg = types.NewBrokerTopicConfig(topic, broker)
			work[broker] = cfg
		}
		slot := cfg.AddQueueSlot()
		cfg.Mapping.PutItems(id, []types.MappingItem{types.NewMappingItem(0, slot, broker)})

		p.logger.Debug("placed new queue", "topic", topic, "globalId", id, "broker", broker, "queueId", slot)
	}

	stamp(work, newEpoch, queueNum)

	plan := types.NewMigrationPlan(topic, types.PlanCreateOrUpdate, newEpoch, work, nil, nil)
	if err := p.selfCheck(plan, configs); err != nil {
		return nil, err
	}

	return plan, nil
}
