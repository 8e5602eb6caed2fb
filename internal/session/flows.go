package session

import (
	"errors"
	"fmt"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/flow"
)

// Passive implements flow.Host.
func (s *state) Passive(p *domain.Participant, key string) string {
	role, ok := s.catalog.Role(p.Role)
	if !ok {
		return ""
	}
	return role.Passives[key]
}

// Capability implements flow.Host. A role capability wins over an item.
func (s *state) Capability(p *domain.Participant, capability string) (string, bool) {
	if role, ok := s.catalog.Role(p.Role); ok && role.HasCapability(capability) {
		return "", true
	}
	return catalog.CapabilityItem(s.catalog, p, capability)
}

// OpenPrompt implements flow.Host. It opens the flow-governed instance and
// prompts its actors; the options double as the legal target list.
func (s *state) OpenPrompt(req flow.PromptRequest) error {
	id := FlowInstancePrefix + req.FlowID
	if _, exists := s.instances[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrEventAlreadyActive, id)
	}
	if len(req.Actors) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoParticipants, id)
	}

	options := make([]string, len(req.Options))
	for i, o := range req.Options {
		options[i] = o.ID
	}
	inst := domain.NewEventInstance(id, append([]string(nil), req.Actors...))
	inst.FlowID = req.FlowID
	inst.AllowAbstain = req.AllowAbstain
	inst.Options = options
	s.generation++
	inst.Generation = s.generation

	s.instances[id] = inst
	s.instanceOrder = append(s.instanceOrder, id)
	request := req
	s.flowRequest = &request

	for _, actorID := range req.Actors {
		p, ok := s.participants[actorID]
		if !ok {
			continue
		}
		inst.Targets[actorID] = append([]string(nil), options...)
		p.AddPending(id)
		s.refreshCursor(p)
		s.emit(event.NewPromptIssuedEvent(s.prompt(inst, p)))
	}
	if s.opts.FlowTimer > 0 {
		s.emit(event.NewTimerStartedEvent(id, s.opts.FlowTimer, inst.Generation))
	}
	return nil
}

// activeFlowFor returns the flow governing inst while it holds the interrupt.
func (s *state) activeFlowFor(inst *domain.EventInstance) (flow.Flow, bool) {
	f, ok := s.flows.Get(inst.FlowID)
	if !ok || f != s.flows.Active() {
		return nil, false
	}
	return f, true
}

func (s *state) flowSelection(inst *domain.EventInstance, p *domain.Participant, choice *string) error {
	f, ok := s.activeFlowFor(inst)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotActive, inst.EventID)
	}
	if choice == nil && !inst.AllowAbstain {
		return fmt.Errorf("%w: %s", domain.ErrAbstainNotAllowed, inst.EventID)
	}
	if choice != nil && !inst.IsLegalTarget(p.ID, *choice) {
		return fmt.Errorf("%w: %s is not an option of %s", domain.ErrIllegalTarget, *choice, inst.EventID)
	}

	res, err := f.OnSelection(p.ID, choice)
	if err != nil {
		return err
	}
	s.storeResult(inst, p, choice)
	s.finishFlow(inst, res)
	return nil
}

// expireFlow handles a resolve request for a flow instance. Only the timer
// may end a flow; it applies the flow's timeout outcome.
func (s *state) expireFlow(inst *domain.EventInstance, force bool) error {
	if !force {
		return fmt.Errorf("%w: %s waits for its actor", domain.ErrMissingResponses, inst.EventID)
	}
	f, ok := s.activeFlowFor(inst)
	if !ok {
		s.closeInstance(inst, domain.OutcomeDiscarded)
		return nil
	}
	s.finishFlow(inst, f.OnTimeout())
	return nil
}

// finishFlow idles the flow, drops its instance and executes res in order:
// consume, kills, frames, jump, log line, private results, then deferred hooks
// and the win check.
func (s *state) finishFlow(inst *domain.EventInstance, res *flow.Result) {
	s.flows.Finish()
	s.flowRequest = nil
	s.closeInstance(inst, domain.OutcomeFlow)
	if res == nil {
		s.afterFlow()
		return
	}

	for _, c := range res.Consume {
		s.consume(c.ParticipantID, c.ItemID)
	}
	for _, k := range res.Kills {
		s.deaths.Kill(k.ID, k.Cause)
	}
	for _, out := range res.Frames {
		spec := out.Spec
		if out.Death && spec.Activation == "" {
			spec.Activation = domain.ActivationRevealDeath
		}
		s.projection.PushSpec(spec)
	}
	if res.JumpTo != "" {
		s.projection.JumpToLast(res.JumpTo)
	}
	if res.Message != "" {
		s.logLine("%s", res.Message)
	}
	for _, r := range res.Private {
		s.emit(event.NewResultDeliveredEvent(r))
	}
	s.afterFlow()
}

// afterFlow replays deferred death hooks, then re-checks the win condition.
func (s *state) afterFlow() {
	for len(s.deferred) > 0 && s.flows.Active() == nil {
		next := s.deferred[0]
		s.deferred = s.deferred[1:]
		s.dispatchDeath(next)
	}
	s.afterEffects()
}

// dispatchDeath offers a death to the flow engine. A hook that matches while
// another flow is open is deferred until that flow finishes.
func (s *state) dispatchDeath(fc flow.Context) {
	if p, ok := s.participants[fc.ParticipantID]; !ok || p.Alive {
		return
	}
	f, err := s.flows.Dispatch(domain.HookDeath, fc)
	switch {
	case errors.Is(err, domain.ErrFlowBusy):
		s.deferred = append(s.deferred, fc)
		s.logger().Info(LogMsgFlowDeferred, "participant", fc.ParticipantID, "error", err)
	case err != nil:
		s.logger().Error(LogMsgFlowDispatchFailed, "participant", fc.ParticipantID, "error", err)
	case f != nil:
		s.emit(event.NewFlowTriggeredEvent(f.ID(), domain.HookDeath))
		s.logger().Info(LogMsgFlowTriggered, "flow", f.ID(), "participant", fc.ParticipantID)
	}
}
