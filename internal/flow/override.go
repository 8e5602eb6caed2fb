package flow

import (
	"fmt"

	"github.com/osse101/nightfall/internal/domain"
)

// Override lets an overseer spare or confirm an elimination before it is applied.
// An item-granted overseer spends one use whichever way they decide.
type Override struct {
	base
	overseerID string
	itemID     string
	victimID   string
	eventID    string
	pending    *domain.Resolution
}

// NewOverride creates the override flow.
func NewOverride(host Host) *Override {
	return &Override{base: base{host: host, state: StateIdle}}
}

// ID implements Flow.
func (f *Override) ID() string { return IDOverride }

// Hooks implements Flow.
func (f *Override) Hooks() []string { return []string{domain.HookElimination} }

// findOverseer returns the first living overseer other than the condemned, in seat order.
func (f *Override) findOverseer(victimID string) (string, string, bool) {
	for _, p := range f.host.Living() {
		if p.ID == victimID {
			continue
		}
		if itemID, ok := f.host.Capability(p, domain.CapabilityOverseer); ok {
			return p.ID, itemID, true
		}
		if itemID, ok := f.host.Capability(p, domain.CapabilityPardon); ok {
			return p.ID, itemID, true
		}
	}
	return "", "", false
}

// CanTrigger implements Flow.
func (f *Override) CanTrigger(ctx Context) bool {
	if victim, ok := f.host.Participant(ctx.VictimID); !ok || !victim.Alive {
		return false
	}
	_, _, ok := f.findOverseer(ctx.VictimID)
	return ok
}

// Trigger implements Flow.
func (f *Override) Trigger(ctx Context) error {
	overseer, itemID, ok := f.findOverseer(ctx.VictimID)
	if !ok {
		return domain.ErrNoParticipants
	}
	f.overseerID = overseer
	f.itemID = itemID
	f.victimID = ctx.VictimID
	f.eventID = ctx.EventID
	f.pending = ctx.Pending
	f.state = StateActive

	return f.host.OpenPrompt(PromptRequest{
		FlowID:      IDOverride,
		Name:        OverrideName,
		Description: fmt.Sprintf(OverrideDescription, f.name(f.victimID)),
		Actors:      []string{overseer},
		Options: []domain.TargetOption{
			{ID: domain.OptionSpare, Name: OptionSpareName},
			{ID: domain.OptionConfirm, Name: OptionConfirmName},
		},
	})
}

// OnSelection implements Flow.
func (f *Override) OnSelection(actorID string, choice *string) (*Result, error) {
	if f.state != StateActive {
		return nil, domain.ErrEventNotActive
	}
	if actorID != f.overseerID {
		return nil, domain.ErrNoActiveEvent
	}
	if choice == nil {
		return nil, domain.ErrAbstainNotAllowed
	}
	switch *choice {
	case domain.OptionSpare:
		f.state = StateResolving
		return f.spare(), nil
	case domain.OptionConfirm:
		f.state = StateResolving
		return f.confirm(), nil
	default:
		return nil, domain.ErrIllegalTarget
	}
}

// OnTimeout implements Flow. Silence confirms the verdict.
func (f *Override) OnTimeout() *Result {
	f.state = StateResolving
	return f.confirm()
}

// Cleanup implements Flow.
func (f *Override) Cleanup() {
	f.state = StateIdle
	f.overseerID = ""
	f.itemID = ""
	f.victimID = ""
	f.eventID = ""
	f.pending = nil
}

func (f *Override) consume() []domain.Consume {
	if f.itemID == "" {
		return nil
	}
	return []domain.Consume{{ParticipantID: f.overseerID, ItemID: f.itemID}}
}

func (f *Override) spare() *Result {
	return &Result{
		Consume: f.consume(),
		Frames: []FrameOut{{
			Spec: domain.FrameSpec{
				Type:    domain.FrameReprieve,
				Payload: map[string]any{"event": f.eventID, "victim": f.victimID, "overseer": f.overseerID},
				Jump:    true,
			},
		}},
		Message: fmt.Sprintf(LogLineSpared, f.name(f.victimID), f.name(f.overseerID)),
	}
}

// confirm lets the pending verdict through with every effect it carried.
func (f *Override) confirm() *Result {
	res := &Result{
		Consume: f.consume(),
		Kills:   []domain.Kill{{ID: f.victimID, Cause: domain.CauseEliminated}},
		JumpTo:  domain.FrameDeath,
		Message: fmt.Sprintf(LogLineConfirmed, f.name(f.overseerID)),
	}
	if p := f.pending; p != nil {
		res.Consume = append(res.Consume, p.Consume...)
		if len(p.Kills) > 0 {
			res.Kills = append([]domain.Kill(nil), p.Kills...)
		}
		res.Private = append(res.Private, p.Private...)
		if p.Message != "" {
			res.Message = p.Message
		}
		if p.Frame != nil {
			res.Frames = append(res.Frames, FrameOut{Spec: *p.Frame})
		}
	}
	return res
}

func (f *Override) name(id string) string {
	if p, ok := f.host.Participant(id); ok {
		return p.Name
	}
	return id
}
