package catalog

import (
	"fmt"
	"sort"

	"github.com/osse101/nightfall/internal/domain"
)

// Behavior keys
const (
	BehaviorEliminate   = "eliminate"
	BehaviorKill        = "kill"
	BehaviorInvestigate = "investigate"
	BehaviorProtect     = "protect"
	BehaviorLink        = "link"
	BehaviorBlock       = "block"
	BehaviorShoot       = "shoot"
)

// legalTargets lists living participants in seat order.
// The actor is excluded unless the role override allows self targeting, and
// teammates are excluded when excludeTeam is set unless the override allows them.
func legalTargets(v View, ev *domain.EventDef, actor *domain.Participant, excludeTeam bool) []string {
	c := v.Catalog()
	var ov domain.TargetOverride
	if role, ok := c.Role(actor.Role); ok {
		ov = role.Override(ev.ID)
	}
	actorTeam := c.TeamOf(actor.Role)

	var out []string
	for _, p := range v.Living() {
		if p.ID == actor.ID {
			if ov.Self {
				out = append(out, p.ID)
			}
			continue
		}
		if excludeTeam && actorTeam != "" && c.TeamOf(p.Role) == actorTeam && !ov.Teammates {
			continue
		}
		out = append(out, p.ID)
	}
	return out
}

// chosen returns the non-abstain choices of an instance in participant order.
func chosen(inst *domain.EventInstance) [][2]string {
	var out [][2]string
	for _, actor := range inst.Participants {
		t, ok := inst.Results[actor]
		if !ok || t == nil {
			continue
		}
		out = append(out, [2]string{actor, *t})
	}
	return out
}

func nameOf(v View, id string) string {
	if p, ok := v.Participant(id); ok {
		return p.Name
	}
	return id
}

// CapabilityItem returns the first usable passive item of p granting capability.
func CapabilityItem(c *Catalog, p *domain.Participant, capability string) (string, bool) {
	for _, inst := range p.Inventory {
		if !inst.Usable() {
			continue
		}
		def, ok := c.Item(inst.ItemID)
		if !ok {
			continue
		}
		if def.Activation.Mode == domain.ActivationPassive && def.Activation.Capability == capability {
			return def.ID, true
		}
	}
	return "", false
}

// EliminateBehavior is the group elimination vote
type EliminateBehavior struct{}

// Eligible implements Behavior.
func (b *EliminateBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *EliminateBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, false)
}

// Resolve implements Behavior.
func (b *EliminateBehavior) Resolve(v View, in Input) *domain.Resolution {
	if in.Winner == "" {
		return &domain.Resolution{
			Outcome: domain.OutcomeNoWinner,
			Message: LogLineNoElimination,
			Frame: &domain.FrameSpec{
				Type:    domain.FrameTally,
				Payload: map[string]any{"event": in.Event.ID, "tally": in.Tally},
			},
		}
	}
	return &domain.Resolution{
		Outcome:  domain.OutcomeEliminated,
		VictimID: in.Winner,
		Message:  fmt.Sprintf(LogLineEliminated, nameOf(v, in.Winner)),
		Kills:    []domain.Kill{{ID: in.Winner, Cause: domain.CauseEliminated}},
		Frame: &domain.FrameSpec{
			Type:    domain.FrameTally,
			Payload: map[string]any{"event": in.Event.ID, "tally": in.Tally, "victim": in.Winner},
		},
	}
}

// KillBehavior is the aggressor team's night kill
type KillBehavior struct{}

// Eligible implements Behavior.
func (b *KillBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *KillBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, true)
}

// OnSelect shares the choice with the rest of the pack.
func (b *KillBehavior) OnSelect(v View, inst *domain.EventInstance, actorID string, target *string) []domain.PrivateResult {
	choice := "abstain"
	if target != nil {
		choice = nameOf(v, *target)
	}
	var out []domain.PrivateResult
	for _, id := range inst.Participants {
		if id == actorID {
			continue
		}
		out = append(out, domain.PrivateResult{
			To:      id,
			EventID: inst.EventID,
			Message: fmt.Sprintf(PrivatePackChoice, nameOf(v, actorID), choice),
			Payload: map[string]any{"actor": actorID, "target": target},
		})
	}
	return out
}

// Resolve implements Behavior.
func (b *KillBehavior) Resolve(v View, in Input) *domain.Resolution {
	if in.Winner == "" {
		return &domain.Resolution{Outcome: domain.OutcomeNone, Message: LogLineQuietNight}
	}
	victim, ok := v.Participant(in.Winner)
	if !ok || !victim.Alive {
		return &domain.Resolution{Outcome: domain.OutcomeNone, Message: LogLineQuietNight}
	}
	if victim.Protected {
		return &domain.Resolution{
			Outcome:  domain.OutcomeProtected,
			VictimID: victim.ID,
			Message:  fmt.Sprintf(LogLineProtected, victim.Name),
		}
	}
	if itemID, ok := CapabilityItem(v.Catalog(), victim, domain.CapabilityArmor); ok {
		return &domain.Resolution{
			Outcome:  domain.OutcomeProtected,
			VictimID: victim.ID,
			Message:  fmt.Sprintf(LogLineArmored, victim.Name),
			Consume:  []domain.Consume{{ParticipantID: victim.ID, ItemID: itemID}},
			Private: []domain.PrivateResult{{
				To:      victim.ID,
				EventID: in.Event.ID,
				Message: PrivateArmorSaved,
			}},
		}
	}
	return &domain.Resolution{
		Outcome:  domain.OutcomeKilled,
		VictimID: victim.ID,
		Message:  fmt.Sprintf(LogLineKilled, victim.Name),
		Kills:    []domain.Kill{{ID: victim.ID, Cause: domain.CauseKilled}},
	}
}

// InvestigateBehavior privately reveals a target's team to each actor
type InvestigateBehavior struct{}

// Eligible implements Behavior.
func (b *InvestigateBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *InvestigateBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, false)
}

// Resolve implements Behavior.
func (b *InvestigateBehavior) Resolve(v View, in Input) *domain.Resolution {
	res := &domain.Resolution{Outcome: domain.OutcomeRevealed, Message: LogLineInvestigated}
	c := v.Catalog()
	for _, pair := range chosen(in.Instance) {
		target, ok := v.Participant(pair[1])
		if !ok {
			continue
		}
		team := c.TeamOf(target.Role)
		res.Private = append(res.Private, domain.PrivateResult{
			To:      pair[0],
			EventID: in.Event.ID,
			Message: fmt.Sprintf(PrivateInvestigation, target.Name, team),
			Payload: map[string]any{"target": target.ID, "team": team},
		})
	}
	return res
}

// ProtectBehavior shields targets from the night kill
type ProtectBehavior struct{}

// Eligible implements Behavior.
func (b *ProtectBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *ProtectBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, false)
}

// Resolve implements Behavior.
func (b *ProtectBehavior) Resolve(v View, in Input) *domain.Resolution {
	res := &domain.Resolution{Outcome: domain.OutcomeProtected, Message: LogLineProtectCast}
	for _, pair := range chosen(in.Instance) {
		res.Protect = append(res.Protect, pair[1])
		res.Private = append(res.Private, domain.PrivateResult{
			To:      pair[0],
			EventID: in.Event.ID,
			Message: fmt.Sprintf(PrivateProtecting, nameOf(v, pair[1])),
		})
	}
	return res
}

// LinkBehavior binds the actor and a target by shared fate on the first day
type LinkBehavior struct{}

// Eligible implements Behavior.
func (b *LinkBehavior) Eligible(v View, _ *domain.EventDef, p *domain.Participant) bool {
	return v.Day() <= 1 && p.LinkedTo == ""
}

// Targets implements Behavior.
func (b *LinkBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	var out []string
	for _, id := range legalTargets(v, ev, actor, false) {
		if p, ok := v.Participant(id); ok && p.LinkedTo == "" {
			out = append(out, id)
		}
	}
	return out
}

// Resolve implements Behavior.
func (b *LinkBehavior) Resolve(v View, in Input) *domain.Resolution {
	res := &domain.Resolution{Outcome: domain.OutcomeLinked, Message: LogLineLinked}
	used := make(map[string]bool)
	for _, pair := range chosen(in.Instance) {
		a, t := pair[0], pair[1]
		if used[a] || used[t] || a == t {
			continue
		}
		used[a], used[t] = true, true
		res.Links = append(res.Links, domain.Link{A: a, B: t})
		res.Private = append(res.Private,
			domain.PrivateResult{To: a, EventID: in.Event.ID, Message: fmt.Sprintf(PrivateLinked, nameOf(v, t)), Payload: map[string]any{"partner": t}},
			domain.PrivateResult{To: t, EventID: in.Event.ID, Message: fmt.Sprintf(PrivateLinked, nameOf(v, a)), Payload: map[string]any{"partner": a}},
		)
	}
	return res
}

// BlockBehavior stops targets from acting for the rest of the phase
type BlockBehavior struct{}

// Eligible implements Behavior.
func (b *BlockBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *BlockBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, false)
}

// Resolve implements Behavior.
func (b *BlockBehavior) Resolve(v View, in Input) *domain.Resolution {
	res := &domain.Resolution{Outcome: domain.OutcomeBlocked, Message: LogLineBlocked}
	for _, pair := range chosen(in.Instance) {
		res.Block = append(res.Block, pair[1])
		res.Private = append(res.Private, domain.PrivateResult{
			To:      pair[1],
			EventID: in.Event.ID,
			Message: PrivateBlocked,
		})
	}
	return res
}

// ShootBehavior kills each chosen target immediately
type ShootBehavior struct{}

// Eligible implements Behavior.
func (b *ShootBehavior) Eligible(View, *domain.EventDef, *domain.Participant) bool { return true }

// Targets implements Behavior.
func (b *ShootBehavior) Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string {
	return legalTargets(v, ev, actor, false)
}

// Resolve implements Behavior.
func (b *ShootBehavior) Resolve(v View, in Input) *domain.Resolution {
	pairs := chosen(in.Instance)
	if len(pairs) == 0 {
		return &domain.Resolution{Outcome: domain.OutcomeNone, Message: LogLineNoShot}
	}
	res := &domain.Resolution{Outcome: domain.OutcomeShot}
	seen := make(map[string]bool)
	for _, pair := range pairs {
		if seen[pair[1]] {
			continue
		}
		seen[pair[1]] = true
		res.Kills = append(res.Kills, domain.Kill{ID: pair[1], Cause: domain.CauseShot})
	}
	res.VictimID = res.Kills[0].ID
	res.Message = fmt.Sprintf(LogLineShot, nameOf(v, pairs[0][0]), nameOf(v, pairs[0][1]))
	res.Frame = &domain.FrameSpec{
		Type:    domain.FrameNarration,
		Payload: map[string]any{"event": in.Event.ID, "shooter": pairs[0][0], "victim": res.VictimID},
	}
	return res
}

// Succession promotes the first living successor of the dead participant's role.
func Succession(v View, dead *domain.Participant) []domain.Promotion {
	c := v.Catalog()
	living := v.Living()
	sort.SliceStable(living, func(i, j int) bool { return living[i].Seat < living[j].Seat })
	for _, p := range living {
		role, ok := c.Role(p.Role)
		if !ok || role.Passives[domain.PassiveOnOtherDeath] != domain.ReactionSuccession {
			continue
		}
		if role.Succeeds == dead.Role {
			return []domain.Promotion{{ID: p.ID, Role: dead.Role}}
		}
	}
	return nil
}
