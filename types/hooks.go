package types

import "context"

// Hooks defines callbacks for planning events.
//
// All hooks are optional and run synchronously on the calling goroutine while
// the topic's planning lock is held. Hook errors are logged but don't fail the
// planning call.
//
// Example:
//
//	hooks := &statictopic.Hooks{
//	    OnPlanPublished: func(ctx context.Context, plan *statictopic.MigrationPlan) error {
//	        return notifyBrokers(ctx, plan.MapIn, plan.MapOut)
//	    },
//	}
type Hooks struct {
	// OnPlanComputed is called after a plan passes verification, before it is published.
	OnPlanComputed func(ctx context.Context, plan *MigrationPlan) error

	// OnPlanPublished is called after a publisher accepted the plan.
	OnPlanPublished func(ctx context.Context, plan *MigrationPlan) error

	// OnError is called when a planning call fails.
	OnError func(ctx context.Context, err error) error
}
