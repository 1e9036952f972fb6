package planner

import (
	"errors"

	"github.com/arloliu/statictopic/internal/mapping"
	"github.com/arloliu/statictopic/types"
)

// ValidatePlan verifies that a plan is internally consistent and only appends history.
//
// Checks:
//   - All configs agree on topic, epoch and total queue count
//   - Every id in [0, total) resolves to exactly one leader
//   - Map-in and map-out sets are disjoint
//   - Every id resolved from before keeps its committed history
//
// Parameters:
//   - plan: Plan to check
//   - before: Configs the plan was computed from (may be empty)
//
// Returns:
//   - error: First fault found, nil if the plan is valid
func ValidatePlan(plan *types.MigrationPlan, before map[string]*types.BrokerTopicConfig) error {
	epoch, _, err := mapping.CheckConsistency(plan.Topic, plan.Configs)
	if err != nil {
		return err
	}
	if epoch != plan.Epoch {
		return types.NewFault(types.FaultEpochOrCountMismatch, "configs are not stamped with the plan epoch").
			WithTopic(plan.Topic).WithValues(plan.Epoch, epoch)
	}

	after, err := mapping.Resolve(plan.Mappings(), false, true)
	if err != nil {
		return err
	}

	out := make(map[string]struct{}, len(plan.MapOut))
	for _, b := range plan.MapOut {
		out[b] = struct{}{}
	}
	for _, b := range plan.MapIn {
		if _, ok := out[b]; ok {
			return types.NewFault(types.FaultInvalidRequest, "broker both maps in and maps out").
				WithTopic(plan.Topic).WithBroker(b)
		}
	}

	if len(before) == 0 {
		return nil
	}
	prev, err := mapping.Resolve(mapping.MappingsFromConfigs(before), true, false)
	if err != nil {
		return err
	}
	for id, q := range prev {
		next, ok := after[id]
		if !ok {
			return types.NewFault(types.FaultCoverageGap, "queue id disappeared from the plan").
				WithTopic(plan.Topic).WithGlobalID(id)
		}
		if err := mapping.CheckImmutability(q.Items, next.Items); err != nil {
			var fault *types.Fault
			if errors.As(err, &fault) {
				return fault.WithTopic(plan.Topic).WithGlobalID(id)
			}

			return err
		}
	}

	return nil
}
