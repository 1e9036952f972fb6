package mapping

import (
	"cmp"
	"slices"

	"github.com/arloliu/statictopic/types"
)

// Resolve merges per-broker mappings into one authoritative view per global id.
//
// The algorithm:
//  1. Order mappings by epoch, highest first (ties by broker name)
//  2. Validate every hosted item sequence with CheckItemSequence
//  3. Skip ids whose leader (owner of the newest item) is not the mapping's broker
//  4. Keep the first leader claim per id; a second claim is a LeaderConflict
//     unless allowReplace is set, in which case the first claim wins
//  5. With requireFullCoverage, the ids must be exactly [0, max TotalQueues)
//
// Parameters:
//   - mappings: Per-broker mappings of one topic (not mutated)
//   - allowReplace: Tolerate duplicate leader claims
//   - requireFullCoverage: Require a gap-free id range
//
// Returns:
//   - map[int]*types.GlobalQueueView: Resolved view keyed by global id
//   - error: *types.Fault of kind SequenceInvariantViolation, LeaderConflict or CoverageGap
func Resolve(
	mappings []*types.TopicMapping,
	allowReplace bool,
	requireFullCoverage bool,
) (map[int]*types.GlobalQueueView, error) {
	ordered := slices.Clone(mappings)
	slices.SortStableFunc(ordered, func(a, b *types.TopicMapping) int {
		if c := cmp.Compare(b.Epoch, a.Epoch); c != 0 {
			return c
		}

		return cmp.Compare(a.Broker, b.Broker)
	})

	maxTotal := 0
	view := make(map[int]*types.GlobalQueueView)
	for _, m := range ordered {
		maxTotal = max(maxTotal, m.TotalQueues)

		for _, globalID := range m.GlobalIDs() {
			items := m.HostedQueues[globalID]
			if f := checkItemSequence(items); f != nil {
				return nil, f.WithTopic(m.Topic).WithBroker(m.Broker).WithGlobalID(globalID)
			}

			leader := types.LeaderBroker(items)
			if leader != m.Broker {
				// not the leader, only a partial view of the history
				continue
			}

			if existing, ok := view[globalID]; ok {
				if !allowReplace {
					return nil, types.NewFault(types.FaultLeaderConflict, "queue id is claimed by two leaders").
						WithTopic(m.Topic).WithBroker(m.Broker).WithGlobalID(globalID).
						WithValues(existing.Broker, leader)
				}

				continue
			}

			view[globalID] = &types.GlobalQueueView{
				Topic:    m.Topic,
				Broker:   leader,
				GlobalID: globalID,
				Items:    slices.Clone(items),
			}
		}
	}

	if requireFullCoverage {
		if err := checkCoverage(view, maxTotal); err != nil {
			return nil, err
		}
	}

	return view, nil
}

func checkCoverage(view map[int]*types.GlobalQueueView, total int) error {
	if len(view) != total {
		return types.NewFault(types.FaultCoverageGap, "total queue number does not match the hosted queues").
			WithValues(total, len(view))
	}
	for id := range total {
		if _, ok := view[id]; !ok {
			return types.NewFault(types.FaultCoverageGap, "queue id is not hosted by any leader").
				WithGlobalID(id)
		}
	}

	return nil
}

// IDToBroker projects a resolved view onto its id → leader broker assignment.
func IDToBroker(view map[int]*types.GlobalQueueView) map[int]string {
	out := make(map[int]string, len(view))
	for id, q := range view {
		out[id] = q.Broker
	}

	return out
}

// MovedIDs returns, in ascending order, the ids of before whose leader differs in after.
func MovedIDs(before, after map[int]*types.GlobalQueueView) []int {
	var moved []int
	for id, q := range before {
		if next, ok := after[id]; ok && next.Broker != q.Broker {
			moved = append(moved, id)
		}
	}
	slices.Sort(moved)

	return moved
}
