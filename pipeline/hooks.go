package pipeline

import (
	"context"
	"errors"
)

// HookPoint identifies when a post-run hook fires.
type HookPoint int

const (
	// OnSuccess fires once when the run reaches Succeeded.
	OnSuccess HookPoint = iota
	// OnFailure fires once when the run reaches Failed.
	OnFailure
	// Always fires once after either terminal state.
	Always
)

// Hook is invoked after the run reaches a terminal state. Hooks are
// informational: their errors are reported but never change the run outcome.
type Hook func(ctx context.Context, rc *RunContext) error

// HookRegistry manages registered hooks for each hook point.
type HookRegistry struct {
	hooks map[HookPoint][]Hook
}

// NewHookRegistry creates an empty HookRegistry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{hooks: make(map[HookPoint][]Hook)}
}

// Register adds a hook for the given point. Hooks fire in registration order.
func (r *HookRegistry) Register(point HookPoint, h Hook) {
	r.hooks[point] = append(r.hooks[point], h)
}

// Fire invokes all hooks registered for the given point in order. Every hook
// runs even if an earlier one fails; failures are joined into the returned error.
func (r *HookRegistry) Fire(ctx context.Context, point HookPoint, rc *RunContext) error {
	var errs []error
	for _, h := range r.hooks[point] {
		if err := h(ctx, rc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
