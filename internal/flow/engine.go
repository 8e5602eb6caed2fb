package flow

import (
	"fmt"

	"github.com/osse101/nightfall/internal/domain"
)

// Engine dispatches hooks to registered flows and guards the single active slot
type Engine struct {
	flows  []Flow
	active Flow
}

// NewEngine creates an engine over flows. Earlier flows win when several match a hook.
func NewEngine(flows ...Flow) *Engine {
	return &Engine{flows: flows}
}

// Dispatch triggers the first flow interested in hook whose CanTrigger matches.
// It returns the triggered flow, nil when nothing matched, or ErrFlowBusy when a
// flow matched while another one is still active.
func (e *Engine) Dispatch(hook string, ctx Context) (Flow, error) {
	ctx.Hook = hook
	for _, f := range e.flows {
		if !hasHook(f, hook) || !f.CanTrigger(ctx) {
			continue
		}
		if e.active != nil {
			return nil, fmt.Errorf("%w: %s is active, %s cannot start", domain.ErrFlowBusy, e.active.ID(), f.ID())
		}
		if err := f.Trigger(ctx); err != nil {
			f.Cleanup()
			return nil, err
		}
		e.active = f
		return f, nil
	}
	return nil, nil
}

// Active returns the flow currently holding the interrupt, if any.
func (e *Engine) Active() Flow {
	return e.active
}

// Get returns a registered flow by id.
func (e *Engine) Get(id string) (Flow, bool) {
	for _, f := range e.flows {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// Finish returns the active flow to idle and frees the slot.
func (e *Engine) Finish() {
	if e.active == nil {
		return
	}
	e.active.Cleanup()
	e.active = nil
}

// Reset returns every flow to idle.
func (e *Engine) Reset() {
	for _, f := range e.flows {
		f.Cleanup()
	}
	e.active = nil
}
