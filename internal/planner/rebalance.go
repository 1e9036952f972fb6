package planner

import (
	"maps"
	"slices"

	"github.com/arloliu/statictopic/types"
)

// Rebalance plans moving the existing global ids of topic onto targetBrokers.
//
// The algorithm:
//  1. Compute the ideal per-broker quota by allocating every id from scratch
//     over targetBrokers only
//  2. Retention pass: in id order, keep an id on its leader while the leader
//     has quota left; otherwise queue the id for reassignment. A leader whose
//     quota is exhausted, or that is not a target at all, drops out of the
//     quota map so it can never receive ids back
//  3. Fill pass: hand queued ids (FIFO) to brokers with leftover quota
//  4. For each moved id append a generation+1 item on a fresh slot of the
//     gaining broker, written by value into both the gaining and losing broker
//
// Because retention fills every broker from its own ids first, a broker is
// either a gainer (map-in) or a loser (map-out), never both.
//
// Parameters:
//   - topic: Static topic name
//   - configs: Current configs keyed by broker (not mutated)
//   - targetBrokers: Broker set the topic should live on after the plan
//
// Returns:
//   - *types.MigrationPlan: PlanRebalance plan with map-in/map-out sets
//   - error: Consistency fault, InvalidRequest fault, or types.ErrInternalInvariant
func (p *Planner) Rebalance(
	topic string,
	configs map[string]*types.BrokerTopicConfig,
	targetBrokers []string,
) (*types.MigrationPlan, error) {
	brokers, err := uniqueBrokers(topic, targetBrokers)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, types.NewFault(types.FaultInvalidRequest, "topic has no existing mapping to rebalance").
			WithTopic(topic)
	}

	work := types.CloneConfigs(configs)
	epoch, total, view, err := loadExisting(topic, work)
	if err != nil {
		return nil, err
	}

	quota, err := p.quotas(topic, epoch, brokers, total)
	if err != nil {
		return nil, err
	}

	expected := make(map[int]string, len(view))
	var pending []int
	for _, id := range slices.Sorted(maps.Keys(view)) {
		leader := view[id].Broker
		left, ok := quota[leader]
		switch {
		case ok && left > 0:
			expected[id] = leader
			quota[leader] = left - 1
		case ok:
			pending = append(pending, id)
			delete(quota, leader)
		default:
			pending = append(pending, id)
		}
	}

	for _, broker := range slices.Sorted(maps.Keys(quota)) {
		for range quota[broker] {
			if len(pending) == 0 {
				return nil, internalError(topic, types.NewFault(types.FaultCoverageGap,
					"quota of broker %s exceeds the queues waiting for reassignment", broker))
			}
			expected[pending[0]] = broker
			pending = pending[1:]
		}
	}
	if len(pending) > 0 {
		return nil, internalError(topic, types.NewFault(types.FaultCoverageGap,
			"%d queues left without a broker", len(pending)))
	}

	newEpoch := p.nextEpoch(epoch)
	mapIn := make(map[string]struct{})
	mapOut := make(map[string]struct{})
	for _, id := range slices.Sorted(maps.Keys(expected)) {
		current := view[id]
		target := expected[id]
		if current.Broker == target {
			continue
		}

		mapIn[target] = struct{}{}
		mapOut[current.Broker] = struct{}{}

		inCfg, ok := work[target]
		if !ok {
			inCfg = types.NewBrokerTopicConfig(topic, target)
			work[target] = inCfg
		}
		outCfg := work[current.Broker]

		last, _ := types.LeaderItem(current.Items)
		slot := inCfg.AddQueueSlot()
		items := append(slices.Clone(current.Items), types.NewMappingItem(last.Gen+1, slot, target))

		// both sides hold value-equal copies of the pending generation
		inCfg.Mapping.PutItems(id, items)
		outCfg.Mapping.PutItems(id, items)

		p.logger.Debug("remapped queue",
			"topic", topic,
			"globalId", id,
			"from", current.Broker,
			"to", target,
			"gen", last.Gen+1,
			"queueId", slot,
		)
	}

	stamp(work, newEpoch, total)

	plan := types.NewMigrationPlan(topic, types.PlanRebalance, newEpoch, work,
		slices.Collect(maps.Keys(mapIn)), slices.Collect(maps.Keys(mapOut)))
	if err := p.selfCheck(plan, configs); err != nil {
		return nil, err
	}

	return plan, nil
}

// quotas returns the balanced id count per target broker for total ids.
func (p *Planner) quotas(topic string, epoch int64, brokers []string, total int) (map[string]int, error) {
	load := make(map[string]int, len(brokers))
	for _, b := range brokers {
		load[b] = 0
	}

	alloc, err := p.newAllocator(topic, epoch, load, nil)
	if err != nil {
		return nil, err
	}
	alloc.UpToNum(total)

	return alloc.BrokerLoad(), nil
}
