package session

import (
	"context"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/flow"
)

// KillPlayer kills a participant on the host's word. Killing the dead is a no-op.
func (s *Session) KillPlayer(ctx context.Context, id, cause string) error {
	return s.do(ctx, "kill_player", func(st *state) error {
		if err := st.requireInGame(); err != nil {
			return err
		}
		if _, err := st.mustParticipant(id); err != nil {
			return err
		}
		if cause == "" {
			cause = domain.CauseHost
		}
		if st.deaths.Kill(id, cause) {
			st.afterEffects()
		}
		return nil
	})
}

// RevivePlayer brings a dead participant back. Reviving the living is a no-op.
func (s *Session) RevivePlayer(ctx context.Context, id string) error {
	return s.do(ctx, "revive_player", func(st *state) error {
		if err := st.requireInGame(); err != nil {
			return err
		}
		p, err := st.mustParticipant(id)
		if err != nil {
			return err
		}
		if st.deaths.Revive(id) {
			st.logLine(LogLineRevived, p.Name)
			st.afterEffects()
		}
		return nil
	})
}

// OnDeath implements death.Reactor. It runs once per death in cascade order.
func (s *state) OnDeath(p *domain.Participant, cause string) {
	s.projection.Push(domain.FrameDeath, map[string]any{
		"participant": p.ID,
		"name":        p.Name,
		"cause":       cause,
		"role":        p.Role,
	}, domain.ActivationRevealDeath, false)
	s.logLine(LogLineDied, p.Name, cause)
	s.emit(event.NewParticipantDiedEvent(p.ID, cause))

	s.dropFromInstances(p)
	s.runReactions(p)
	s.dispatchDeath(flow.Context{ParticipantID: p.ID, Cause: cause})
}

// dropFromInstances removes a dead participant from every open instance, both
// as an actor and as a target. Actors whose answer pointed at the dead are
// prompted again. Touched instances are settled once the cascade is over.
func (s *state) dropFromInstances(p *domain.Participant) {
	for _, id := range s.instanceOrder {
		inst := s.instances[id]
		touched := false
		if !inst.IsFlow() && inst.HasParticipant(p.ID) {
			kept := inst.Participants[:0]
			for _, actor := range inst.Participants {
				if actor != p.ID {
					kept = append(kept, actor)
				}
			}
			inst.Participants = kept
			delete(inst.Results, p.ID)
			delete(inst.Targets, p.ID)
			delete(inst.ItemGrants, p.ID)
			p.RemovePending(id)
			touched = true
		}
		if inst.Runoff != nil {
			inst.Runoff.Candidates = without(inst.Runoff.Candidates, p.ID)
		}
		if s.dropTarget(inst, p.ID) {
			touched = true
		}
		if touched && !inst.IsFlow() {
			s.markUnsettled(id)
		}
	}
	s.refreshCursor(p)
}

// dropTarget removes deadID from every actor's legal targets in inst and
// reports whether any list changed.
func (s *state) dropTarget(inst *domain.EventInstance, deadID string) bool {
	if inst.IsFlow() {
		inst.Options = without(inst.Options, deadID)
	}
	changed := false
	for _, actorID := range inst.Participants {
		targets := inst.Targets[actorID]
		pruned := without(targets, deadID)
		if len(pruned) == len(targets) {
			continue
		}
		changed = true
		actor, ok := s.participants[actorID]
		if !ok {
			inst.Targets[actorID] = pruned
			continue
		}
		if r, answered := inst.Results[actorID]; answered && r != nil && *r == deadID && !inst.IsFlow() {
			delete(inst.Results, actorID)
			s.preparePrompt(inst, actor, pruned)
			continue
		}
		inst.Targets[actorID] = pruned
		s.refreshCursor(actor)
		s.emit(event.NewPromptIssuedEvent(s.prompt(inst, actor)))
	}
	return changed
}

func (s *state) markUnsettled(eventID string) {
	for _, id := range s.unsettled {
		if id == eventID {
			return
		}
	}
	s.unsettled = append(s.unsettled, eventID)
}

// settleInstances closes instances a death left without actors and resolves
// player-resolved ones whose remaining actors have all answered.
func (s *state) settleInstances() {
	if s.deaths.Draining() {
		return
	}
	for len(s.unsettled) > 0 {
		id := s.unsettled[0]
		s.unsettled = s.unsettled[1:]
		inst, ok := s.instances[id]
		if !ok {
			continue
		}
		if len(inst.Participants) == 0 {
			s.closeInstance(inst, domain.OutcomeAbandoned)
			s.done[id] = true
			s.logLine(LogLineAbandoned, s.eventName(id))
			continue
		}
		s.autoResolve(inst)
	}
}

func without(ids []string, drop string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

// runReactions runs the dead participant's own on-death reaction and the
// on-other-death reactions declared by living roles. Last words is a flow
// and is handled by dispatch instead.
func (s *state) runReactions(dead *domain.Participant) {
	var names []string
	seen := make(map[string]bool)
	if r := s.Passive(dead, domain.PassiveOnDeath); r != "" && r != domain.ReactionLastWords {
		names = append(names, r)
		seen[r] = true
	}
	for _, p := range s.Living() {
		if r := s.Passive(p, domain.PassiveOnOtherDeath); r != "" && !seen[r] {
			names = append(names, r)
			seen[r] = true
		}
	}

	for _, name := range names {
		fn, ok := s.catalog.Reaction(name)
		if !ok {
			s.logger().Warn(LogMsgUnknownReaction, "reaction", name, "participant", dead.ID)
			continue
		}
		for _, pr := range fn(s, dead) {
			s.promote(pr)
		}
	}
}
