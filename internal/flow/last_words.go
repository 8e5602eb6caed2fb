package flow

import (
	"fmt"

	"github.com/osse101/nightfall/internal/domain"
)

// LastWords lets a dying participant with the last_words passive take one
// living participant down with them.
type LastWords struct {
	base
	shooterID string
	targets   map[string]bool
}

// NewLastWords creates the last-words flow.
func NewLastWords(host Host) *LastWords {
	return &LastWords{base: base{host: host, state: StateIdle}}
}

// ID implements Flow.
func (f *LastWords) ID() string { return IDLastWords }

// Hooks implements Flow.
func (f *LastWords) Hooks() []string { return []string{domain.HookDeath} }

// CanTrigger implements Flow.
func (f *LastWords) CanTrigger(ctx Context) bool {
	p, ok := f.host.Participant(ctx.ParticipantID)
	if !ok || f.host.Passive(p, domain.PassiveOnDeath) != domain.ReactionLastWords {
		return false
	}
	for _, other := range f.host.Living() {
		if other.ID != p.ID {
			return true
		}
	}
	return false
}

// Trigger implements Flow.
func (f *LastWords) Trigger(ctx Context) error {
	f.shooterID = ctx.ParticipantID
	f.targets = make(map[string]bool)

	var options []domain.TargetOption
	for _, p := range f.host.Living() {
		if p.ID == f.shooterID {
			continue
		}
		f.targets[p.ID] = true
		options = append(options, domain.TargetOption{ID: p.ID, Name: p.Name})
	}

	f.state = StateActive
	return f.host.OpenPrompt(PromptRequest{
		FlowID:      IDLastWords,
		Name:        LastWordsName,
		Description: LastWordsDescription,
		Actors:      []string{f.shooterID},
		Options:     options,
	})
}

// OnSelection implements Flow. The choice is mandatory.
func (f *LastWords) OnSelection(actorID string, choice *string) (*Result, error) {
	if f.state != StateActive {
		return nil, domain.ErrEventNotActive
	}
	if actorID != f.shooterID {
		return nil, domain.ErrNoActiveEvent
	}
	if choice == nil {
		return nil, domain.ErrAbstainNotAllowed
	}
	if !f.targets[*choice] {
		return nil, domain.ErrIllegalTarget
	}
	if target, ok := f.host.Participant(*choice); !ok || !target.Alive {
		return nil, domain.ErrIllegalTarget
	}

	f.state = StateResolving
	return &Result{
		Kills: []domain.Kill{{ID: *choice, Cause: domain.CauseLastWords}},
		Frames: []FrameOut{{
			Spec: domain.FrameSpec{
				Type:    domain.FrameLastWords,
				Payload: map[string]any{"shooter": f.shooterID, "target": *choice},
			},
		}},
		Message: fmt.Sprintf(LogLineLastWords, f.name(f.shooterID), f.name(*choice)),
	}, nil
}

// OnTimeout implements Flow. The shot is lost.
func (f *LastWords) OnTimeout() *Result {
	f.state = StateResolving
	return &Result{Message: fmt.Sprintf(LogLineLastWordsLost, f.name(f.shooterID))}
}

// Cleanup implements Flow.
func (f *LastWords) Cleanup() {
	f.state = StateIdle
	f.shooterID = ""
	f.targets = nil
}

func (f *LastWords) name(id string) string {
	if p, ok := f.host.Participant(id); ok {
		return p.Name
	}
	return id
}
