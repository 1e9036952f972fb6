// Package hooks provides the default planning hooks.
package hooks

import (
	"context"

	"github.com/arloliu/statictopic/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnPlanComputed:  h.OnPlanComputed,
		OnPlanPublished: h.OnPlanPublished,
		OnError:         h.OnError,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by a no-op.
func Fill(hooks *types.Hooks) types.Hooks {
	out := NewNop()
	if hooks == nil {
		return out
	}
	if hooks.OnPlanComputed != nil {
		out.OnPlanComputed = hooks.OnPlanComputed
	}
	if hooks.OnPlanPublished != nil {
		out.OnPlanPublished = hooks.OnPlanPublished
	}
	if hooks.OnError != nil {
		out.OnError = hooks.OnError
	}

	return out
}

// OnPlanComputed is a no-op implementation.
func (h *NopHooks) OnPlanComputed(_ context.Context, _ *types.MigrationPlan) error {
	return nil
}

// OnPlanPublished is a no-op implementation.
func (h *NopHooks) OnPlanPublished(_ context.Context, _ *types.MigrationPlan) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
