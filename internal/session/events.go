package session

import (
	"context"
	"fmt"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/resolver"
)

// StartEvent opens an instance of eventID for every eligible, unblocked actor.
func (s *Session) StartEvent(ctx context.Context, eventID string) error {
	return s.do(ctx, "start_event", func(st *state) error { return st.startEvent(eventID) })
}

// StartPendingEvents starts every event in the pending pool and returns the
// ids that actually started.
func (s *Session) StartPendingEvents(ctx context.Context) ([]string, error) {
	var started []string
	err := s.do(ctx, "start_pending_events", func(st *state) error {
		if err := st.requireInGame(); err != nil {
			return err
		}
		for _, id := range append([]string(nil), st.pending...) {
			if !st.isPending(id) {
				continue
			}
			if err := st.startEvent(id); err != nil {
				st.logger().Debug(LogMsgEventStarted, "event", id, "error", err)
				continue
			}
			started = append(started, id)
		}
		return nil
	})
	return started, err
}

// RecordSelection stores an actor's choice. A nil target abstains. eventID may
// be empty, in which case the actor's current instance is used.
func (s *Session) RecordSelection(ctx context.Context, actorID, eventID string, target *string) error {
	return s.do(ctx, "record_selection", func(st *state) error {
		return st.recordSelection(actorID, eventID, target)
	})
}

// MoveSelection cycles the actor's cursor through its legal targets.
func (s *Session) MoveSelection(ctx context.Context, actorID string, delta int) error {
	return s.do(ctx, "move_selection", func(st *state) error { return st.moveSelection(actorID, delta) })
}

// ConfirmCursor records the target under the actor's cursor.
func (s *Session) ConfirmCursor(ctx context.Context, actorID string) error {
	return s.do(ctx, "confirm_cursor", func(st *state) error { return st.confirmCursor(actorID) })
}

// Abstain records an abstain for the actor's current instance.
func (s *Session) Abstain(ctx context.Context, actorID string) error {
	return s.RecordSelection(ctx, actorID, "", nil)
}

// UseItem activates a self-service item, starting its event when needed. An
// empty itemID uses the item under the participant's idle scroll.
func (s *Session) UseItem(ctx context.Context, actorID, itemID string) error {
	return s.do(ctx, "use_item", func(st *state) error { return st.useItem(actorID, itemID) })
}

// SkipEvent discards a running instance without effect.
func (s *Session) SkipEvent(ctx context.Context, eventID string) error {
	return s.do(ctx, "skip_event", func(st *state) error { return st.skipEvent(eventID) })
}

// ResetEvent discards a running instance and returns it to the pending pool.
func (s *Session) ResetEvent(ctx context.Context, eventID string) error {
	return s.do(ctx, "reset_event", func(st *state) error { return st.resetEvent(eventID) })
}

func (s *state) isPending(eventID string) bool {
	for _, id := range s.pending {
		if id == eventID {
			return true
		}
	}
	return false
}

func (s *state) startEvent(eventID string) error {
	if err := s.requireInGame(); err != nil {
		return err
	}
	ev, ok := s.catalog.Event(eventID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
	}
	if !ev.InPhase(s.phase) {
		return fmt.Errorf("%w: %s does not run during %s", domain.ErrWrongPhase, eventID, s.phase)
	}
	if _, active := s.instances[eventID]; active {
		return fmt.Errorf("%w: %s", domain.ErrEventAlreadyActive, eventID)
	}
	behavior, ok := s.catalog.Behavior(eventID)
	if !ok {
		return fmt.Errorf("%w: no behavior bound to %s", domain.ErrInternal, eventID)
	}

	var actors []resolver.Actor
	for _, a := range resolver.ParticipantsFor(s, eventID) {
		if s.participants[a.ID].Blocked {
			continue
		}
		actors = append(actors, a)
	}
	if len(actors) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoParticipants, eventID)
	}

	inst := domain.NewEventInstance(eventID, resolver.IDs(actors))
	inst.AllowAbstain = ev.AllowAbstain
	for _, a := range actors {
		if a.ItemID != "" {
			inst.ItemGrants[a.ID] = a.ItemID
		}
	}
	s.generation++
	inst.Generation = s.generation
	s.instances[eventID] = inst
	s.instanceOrder = append(s.instanceOrder, eventID)
	s.recomputePending()

	for _, a := range actors {
		p := s.participants[a.ID]
		s.preparePrompt(inst, p, behavior.Targets(s, ev, p))
	}
	if ev.Timer > 0 {
		s.emit(event.NewTimerStartedEvent(eventID, ev.Timer, inst.Generation))
	}
	s.logger().Info(LogMsgEventStarted, "event", eventID, "participants", len(actors))

	s.autoResolve(inst)
	return nil
}

// preparePrompt installs an actor's legal targets and sends its prompt.
// A single legal target is locked in; an actor with none abstains.
func (s *state) preparePrompt(inst *domain.EventInstance, p *domain.Participant, targets []string) {
	inst.Targets[p.ID] = targets
	p.AddPending(inst.EventID)
	switch len(targets) {
	case 0:
		s.storeResult(inst, p, nil)
	case 1:
		only := targets[0]
		s.storeResult(inst, p, &only)
	default:
		s.refreshCursor(p)
	}
	s.emit(event.NewPromptIssuedEvent(s.prompt(inst, p)))
}

// prompt builds the private prompt of p for inst.
func (s *state) prompt(inst *domain.EventInstance, p *domain.Participant) domain.Prompt {
	pr := domain.Prompt{
		To:           p.ID,
		EventID:      inst.EventID,
		AllowAbstain: inst.AllowAbstain,
		Runoff:       inst.Runoff,
		Options:      inst.Options,
	}
	if inst.IsFlow() {
		if s.flowRequest != nil {
			pr.Name = s.flowRequest.Name
			pr.Description = s.flowRequest.Description
		}
		if s.opts.FlowTimer > 0 {
			pr.Timer = s.opts.FlowTimer
		}
	} else if ev, ok := s.catalog.Event(inst.EventID); ok {
		pr.Name = ev.Name
		pr.Description = ev.Description
		pr.Timer = ev.Timer
	}
	for _, t := range inst.Targets[p.ID] {
		pr.Targets = append(pr.Targets, domain.TargetOption{ID: t, Name: s.optionName(inst, t)})
	}
	if r, ok := inst.Results[p.ID]; ok && r != nil {
		locked := *r
		pr.Locked = &locked
	}
	return pr
}

// optionName is the display name of a target or flow option.
func (s *state) optionName(inst *domain.EventInstance, id string) string {
	if inst.IsFlow() && s.flowRequest != nil {
		for _, o := range s.flowRequest.Options {
			if o.ID == id {
				return o.Name
			}
		}
	}
	return s.name(id)
}

// currentInstance is the instance p is answering: its first pending event,
// or failing that the oldest instance containing it.
func (s *state) currentInstance(p *domain.Participant) *domain.EventInstance {
	for _, id := range p.PendingEvents {
		if inst, ok := s.instances[id]; ok && inst.HasParticipant(p.ID) {
			return inst
		}
	}
	for _, id := range s.instanceOrder {
		if inst := s.instances[id]; inst.HasParticipant(p.ID) {
			return inst
		}
	}
	return nil
}

func (s *state) instanceFor(p *domain.Participant, eventID string) (*domain.EventInstance, error) {
	if eventID != "" {
		inst, ok := s.instances[eventID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrEventNotActive, eventID)
		}
		if !inst.HasParticipant(p.ID) {
			return nil, fmt.Errorf("%w: %s is not part of %s", domain.ErrNoActiveEvent, p.ID, eventID)
		}
		return inst, nil
	}
	if inst := s.currentInstance(p); inst != nil {
		return inst, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoActiveEvent, p.ID)
}

// refreshCursor rebuilds p's selection state from its current instance,
// keeping a still-legal cursor.
func (s *state) refreshCursor(p *domain.Participant) {
	prev := p.Cursor
	p.ClearSelection()

	inst := s.currentInstance(p)
	if inst == nil {
		return
	}
	if r, ok := inst.Results[p.ID]; ok {
		if r == nil {
			p.Abstained = true
			return
		}
		confirmed, cursor := *r, *r
		p.Confirmed = &confirmed
		p.Cursor = &cursor
		return
	}
	if prev != nil && inst.IsLegalTarget(p.ID, *prev) {
		p.Cursor = prev
		return
	}
	if targets := inst.Targets[p.ID]; len(targets) > 0 {
		first := targets[0]
		p.Cursor = &first
	}
}

// storeResult records target (nil for abstain) as p's answer in inst.
func (s *state) storeResult(inst *domain.EventInstance, p *domain.Participant, target *string) {
	var stored *string
	if target != nil {
		v := *target
		stored = &v
	}
	inst.Results[p.ID] = stored
	p.RemovePending(inst.EventID)
	s.refreshCursor(p)
}

func (s *state) recordSelection(actorID, eventID string, target *string) error {
	p, err := s.mustParticipant(actorID)
	if err != nil {
		return err
	}
	inst, err := s.instanceFor(p, eventID)
	if err != nil {
		return err
	}
	if inst.IsFlow() {
		return s.flowSelection(inst, p, target)
	}
	if !p.Alive {
		return fmt.Errorf("%w: %s", domain.ErrParticipantDead, p.ID)
	}

	if target == nil {
		if !inst.AllowAbstain {
			return fmt.Errorf("%w: %s", domain.ErrAbstainNotAllowed, inst.EventID)
		}
	} else if !inst.IsLegalTarget(p.ID, *target) {
		return fmt.Errorf("%w: %s cannot target %s in %s", domain.ErrIllegalTarget, p.ID, *target, inst.EventID)
	}

	s.storeResult(inst, p, target)

	if behavior, ok := s.catalog.Behavior(inst.EventID); ok {
		if effect, ok := behavior.(catalog.SelectionEffect); ok {
			for _, r := range effect.OnSelect(s, inst, p.ID, target) {
				s.emit(event.NewResultDeliveredEvent(r))
			}
		}
	}
	s.autoResolve(inst)
	return nil
}

func (s *state) moveSelection(actorID string, delta int) error {
	p, err := s.mustParticipant(actorID)
	if err != nil {
		return err
	}
	inst, err := s.instanceFor(p, "")
	if err != nil {
		return err
	}
	if inst.Responded(p.ID) {
		return nil
	}
	targets := inst.Targets[p.ID]
	n := len(targets)
	if n == 0 {
		return nil
	}

	next := 0
	if p.Cursor != nil {
		for i, t := range targets {
			if t == *p.Cursor {
				next = ((i+delta)%n + n) % n
				break
			}
		}
	}
	choice := targets[next]
	p.Cursor = &choice
	return nil
}

func (s *state) confirmCursor(actorID string) error {
	p, err := s.mustParticipant(actorID)
	if err != nil {
		return err
	}
	inst, err := s.instanceFor(p, "")
	if err != nil {
		return err
	}
	if inst.Responded(p.ID) {
		return nil
	}
	if p.Cursor == nil {
		return fmt.Errorf("%w: nothing under the cursor", domain.ErrIllegalTarget)
	}
	target := *p.Cursor
	return s.recordSelection(actorID, inst.EventID, &target)
}

func (s *state) useItem(actorID, itemID string) error {
	p, err := s.mustParticipant(actorID)
	if err != nil {
		return err
	}
	if !p.Alive {
		return fmt.Errorf("%w: %s", domain.ErrParticipantDead, p.ID)
	}
	if err := s.requireInGame(); err != nil {
		return err
	}
	if itemID == "" {
		selected, ok := s.idleItem(p)
		if !ok {
			return fmt.Errorf("%w: %s has no item selected", domain.ErrItemNotFound, p.ID)
		}
		itemID = selected
	}
	def, ok := s.catalog.Item(itemID)
	if !ok || p.FindItem(itemID) < 0 {
		return fmt.Errorf("%w: %s holds no usable %s", domain.ErrItemNotFound, p.ID, itemID)
	}
	if def.Activation.Mode != domain.ActivationEvent {
		return fmt.Errorf("%w: %s works on its own", domain.ErrItemNotUsable, def.Name)
	}

	eventID := def.Activation.Event
	if inst, active := s.instances[eventID]; active {
		if inst.HasParticipant(p.ID) {
			return nil
		}
		return fmt.Errorf("%w: %s", domain.ErrEventAlreadyActive, eventID)
	}
	return s.startEvent(eventID)
}

func (s *state) skipEvent(eventID string) error {
	inst, ok := s.instances[eventID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotActive, eventID)
	}
	if inst.IsFlow() {
		name := inst.FlowID
		if s.flowRequest != nil {
			name = s.flowRequest.Name
		}
		s.flows.Finish()
		s.flowRequest = nil
		s.closeInstance(inst, domain.OutcomeDiscarded)
		s.logLine(LogLineFlowDiscarded, name)
		s.afterFlow()
		return nil
	}

	s.closeInstance(inst, domain.OutcomeSkipped)
	s.done[eventID] = true
	s.recomputePending()
	s.logLine(LogLineSkipped, s.eventName(eventID))
	return nil
}

func (s *state) resetEvent(eventID string) error {
	inst, ok := s.instances[eventID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotActive, eventID)
	}
	if inst.IsFlow() {
		return fmt.Errorf("%w: interrupt flows cannot return to the pool", domain.ErrInvalidState)
	}
	s.closeInstance(inst, domain.OutcomeReset)
	delete(s.done, eventID)
	s.recomputePending()
	s.logLine(LogLineReset, s.eventName(eventID))
	return nil
}

func (s *state) eventName(eventID string) string {
	if ev, ok := s.catalog.Event(eventID); ok {
		return ev.Name
	}
	return eventID
}

// closeInstance drops inst from the active set and clears its actors' event state.
func (s *state) closeInstance(inst *domain.EventInstance, outcome string) {
	delete(s.instances, inst.EventID)
	for i, id := range s.instanceOrder {
		if id == inst.EventID {
			s.instanceOrder = append(s.instanceOrder[:i], s.instanceOrder[i+1:]...)
			break
		}
	}
	for _, id := range inst.Participants {
		if p, ok := s.participants[id]; ok {
			p.RemovePending(inst.EventID)
			s.refreshCursor(p)
		}
	}
	s.emit(event.NewEventClosedEvent(inst.EventID, outcome))
}

// discardInstances closes every instance and idles every flow.
func (s *state) discardInstances() {
	for _, id := range append([]string(nil), s.instanceOrder...) {
		if inst, ok := s.instances[id]; ok {
			s.closeInstance(inst, domain.OutcomeDiscarded)
		}
	}
	s.flows.Reset()
	s.flowRequest = nil
	s.unsettled = nil
}
