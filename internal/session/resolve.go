package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/flow"
)

// ResolveEvent finalizes a running instance. Without force every actor must
// have answered unless the event allows abstaining.
func (s *Session) ResolveEvent(ctx context.Context, eventID string, force bool) error {
	return s.do(ctx, "resolve_event", func(st *state) error { return st.resolveEvent(eventID, force) })
}

// ExpireEvent force-resolves eventID when its countdown of the given
// generation runs out. Stale generations and closed instances are ignored.
func (s *Session) ExpireEvent(ctx context.Context, eventID string, generation int64) error {
	return s.do(ctx, "expire_event", func(st *state) error {
		inst, ok := st.instances[eventID]
		if !ok || inst.Generation != generation {
			return nil
		}
		return st.resolveEvent(eventID, true)
	})
}

// Tally counts non-abstain selections per target. When eligible is set,
// selections of targets it rejects are not counted.
func Tally(results map[string]*string, eligible func(id string) bool) map[string]int {
	tally := make(map[string]int)
	for _, target := range results {
		if target == nil || (eligible != nil && !eligible(*target)) {
			continue
		}
		tally[*target]++
	}
	return tally
}

// alive reports whether id is a living participant.
func (s *state) alive(id string) bool {
	p, ok := s.participants[id]
	return ok && p.Alive
}

// Frontrunners returns the targets sharing the highest count, sorted by id.
// It is empty when nobody received a vote.
func Frontrunners(tally map[string]int) []string {
	best := 0
	var out []string
	for target, n := range tally {
		switch {
		case n > best:
			best = n
			out = []string{target}
		case n == best && n > 0:
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}

// autoResolve resolves player-resolved events once everyone has answered.
func (s *state) autoResolve(inst *domain.EventInstance) {
	if inst.IsFlow() || !inst.AllResponded() {
		return
	}
	ev, ok := s.catalog.Event(inst.EventID)
	if !ok || !ev.PlayerResolved {
		return
	}
	if _, still := s.instances[inst.EventID]; !still {
		return
	}
	if err := s.resolveEvent(inst.EventID, false); err != nil {
		s.logger().Warn(LogMsgAutoResolveFailed, "event", inst.EventID, "error", err)
	}
}

func (s *state) resolveEvent(eventID string, force bool) error {
	inst, ok := s.instances[eventID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotActive, eventID)
	}
	if inst.IsFlow() {
		return s.expireFlow(inst, force)
	}
	if !force && !inst.AllowAbstain && !inst.AllResponded() {
		return fmt.Errorf("%w: %d of %d responded to %s",
			domain.ErrMissingResponses, len(inst.Results), len(inst.Participants), eventID)
	}

	ev, ok := s.catalog.Event(eventID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
	}
	behavior, ok := s.catalog.Behavior(eventID)
	if !ok {
		return fmt.Errorf("%w: no behavior bound to %s", domain.ErrInternal, eventID)
	}

	in := catalog.Input{Event: ev, Instance: inst}
	if ev.Aggregation == domain.AggregationMajority {
		in.Tally = Tally(inst.Results, s.alive)
		front := Frontrunners(in.Tally)
		switch {
		case len(front) == 1:
			in.Winner = front[0]
		case len(front) > 1:
			round := 0
			if inst.Runoff != nil {
				round = inst.Runoff.Round
			}
			if round < s.opts.RunoffLimit {
				s.startRunoff(inst, front)
				return nil
			}
			in.Winner = front[s.rng.Intn(len(front))]
			s.logLine(LogLineRandomPick, round, s.name(in.Winner))
		}
	}

	res := behavior.Resolve(s, in)

	if res.Outcome == domain.OutcomeEliminated && res.VictimID != "" && s.alive(res.VictimID) {
		f, err := s.flows.Dispatch(domain.HookElimination, flow.Context{
			EventID:  eventID,
			VictimID: res.VictimID,
			Pending:  res,
		})
		if err != nil {
			return err
		}
		if f != nil {
			s.consumeGrants(inst)
			s.closeInstance(inst, domain.OutcomeFlow)
			s.done[eventID] = true
			s.emit(event.NewFlowTriggeredEvent(f.ID(), domain.HookElimination))
			s.logger().Info(LogMsgFlowTriggered, "flow", f.ID(), "event", eventID, "victim", res.VictimID)
			return nil
		}
	}

	s.applyResolution(inst, res)
	return nil
}

// applyResolution executes a behavior result: effects, instance teardown,
// deaths, frame, log line, private results, then the win check.
func (s *state) applyResolution(inst *domain.EventInstance, res *domain.Resolution) {
	for _, c := range res.Consume {
		s.consume(c.ParticipantID, c.ItemID)
	}
	s.consumeGrants(inst)

	for _, id := range res.Protect {
		if p, ok := s.participants[id]; ok {
			p.Protected = true
		}
	}
	for _, id := range res.Block {
		if p, ok := s.participants[id]; ok {
			p.Blocked = true
		}
	}
	for _, l := range res.Links {
		a, okA := s.participants[l.A]
		b, okB := s.participants[l.B]
		if okA && okB && a.LinkedTo == "" && b.LinkedTo == "" && a.ID != b.ID {
			a.LinkedTo = b.ID
			b.LinkedTo = a.ID
		}
	}
	for _, pr := range res.Promotions {
		s.promote(pr)
	}

	s.closeInstance(inst, res.Outcome)
	s.done[inst.EventID] = true

	if res.Message != "" {
		s.logLine("%s", res.Message)
	}
	for _, k := range res.Kills {
		s.deaths.Kill(k.ID, k.Cause)
	}
	if res.Frame != nil {
		s.projection.PushSpec(*res.Frame)
	}
	for _, r := range res.Private {
		s.emit(event.NewResultDeliveredEvent(r))
	}

	s.logger().Info(LogMsgEventResolved, "event", inst.EventID, "outcome", res.Outcome, "victim", res.VictimID)
	s.afterEffects()
}

// consumeGrants spends one use of the item of every actor who took part
// through an item and answered.
func (s *state) consumeGrants(inst *domain.EventInstance) {
	grants := make([]string, 0, len(inst.ItemGrants))
	for actor := range inst.ItemGrants {
		grants = append(grants, actor)
	}
	sort.Strings(grants)
	for _, actor := range grants {
		if r, ok := inst.Results[actor]; ok && r != nil {
			s.consume(actor, inst.ItemGrants[actor])
		}
	}
}

// startRunoff re-prompts the living participants of inst with targets
// restricted to the tied set.
func (s *state) startRunoff(inst *domain.EventInstance, tied []string) {
	ev, _ := s.catalog.Event(inst.EventID)
	behavior, _ := s.catalog.Behavior(inst.EventID)

	round := 1
	if inst.Runoff != nil {
		round = inst.Runoff.Round + 1
	}
	inst.Runoff = &domain.Runoff{Round: round, Candidates: append([]string(nil), tied...)}
	inst.Results = make(map[string]*string)
	inst.Targets = make(map[string][]string)

	var living []string
	for _, id := range inst.Participants {
		if p, ok := s.participants[id]; ok && p.Alive {
			living = append(living, id)
		}
	}
	inst.Participants = living
	s.generation++
	inst.Generation = s.generation

	candidates := make(map[string]bool, len(tied))
	for _, id := range tied {
		candidates[id] = true
	}
	for _, id := range living {
		p := s.participants[id]
		var targets []string
		for _, t := range behavior.Targets(s, ev, p) {
			if candidates[t] {
				targets = append(targets, t)
			}
		}
		s.preparePrompt(inst, p, targets)
	}

	names := make([]string, len(tied))
	for i, id := range tied {
		names[i] = s.name(id)
	}
	s.projection.Push(domain.FrameRunoff, map[string]any{
		"event":      inst.EventID,
		"round":      round,
		"candidates": inst.Runoff.Candidates,
	}, "", false)
	s.logLine(LogLineRunoff, strings.Join(names, ", "), round)
	s.emit(event.NewRunoffStartedEvent(inst.EventID, *inst.Runoff))
	if ev.Timer > 0 {
		s.emit(event.NewTimerStartedEvent(inst.EventID, ev.Timer, inst.Generation))
	}
	s.logger().Info(LogMsgRunoffStarted, "event", inst.EventID, "round", round, "candidates", tied)

	s.autoResolve(inst)
}

func (s *state) consume(participantID, itemID string) {
	p, ok := s.participants[participantID]
	if !ok || !p.ConsumeItem(itemID) {
		return
	}
	name := itemID
	if def, ok := s.catalog.Item(itemID); ok {
		name = def.Name
	}
	s.emit(event.NewResultDeliveredEvent(domain.PrivateResult{
		To:      p.ID,
		Message: fmt.Sprintf(PrivateItemSpent, name),
		Payload: map[string]any{"item": itemID},
	}))
}

func (s *state) promote(pr domain.Promotion) {
	p, ok := s.participants[pr.ID]
	if !ok || !p.Alive {
		return
	}
	role, ok := s.catalog.Role(pr.Role)
	if !ok {
		return
	}
	p.Role = role.ID
	s.emit(event.NewResultDeliveredEvent(domain.PrivateResult{
		To:      p.ID,
		Message: fmt.Sprintf(PrivatePromoted, role.Name),
		Payload: map[string]any{"role": role.ID},
	}))
}
