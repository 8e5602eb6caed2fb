// Package flow implements interrupt flows: small state machines that take over
// action collection at lifecycle hooks such as a death or an elimination.
package flow

import (
	"github.com/osse101/nightfall/internal/domain"
)

// State is the lifecycle state of a flow
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateResolving State = "resolving"
)

// Context carries the hook details a flow needs to decide whether to trigger.
type Context struct {
	Hook string
	// ParticipantID is the dying participant for the death hook.
	ParticipantID string
	Cause         string
	// EventID, VictimID and Pending describe an elimination about to finalize.
	EventID  string
	VictimID string
	Pending  *domain.Resolution
}

// PromptRequest asks the host to open a flow-governed instance.
type PromptRequest struct {
	FlowID       string
	Name         string
	Description  string
	Actors       []string
	Options      []domain.TargetOption
	AllowAbstain bool
}

// Host is the session surface available to flows.
type Host interface {
	Participant(id string) (*domain.Participant, bool)
	Living() []*domain.Participant
	// Passive returns the reaction a participant's role declares for key, or "".
	Passive(p *domain.Participant, key string) string
	// Capability reports whether p holds capability. itemID is set when an item grants it.
	Capability(p *domain.Participant, capability string) (itemID string, ok bool)
	OpenPrompt(req PromptRequest) error
}

// FrameOut is a frame a flow result asks to append.
type FrameOut struct {
	Spec  domain.FrameSpec
	Death bool
}

// Result is the declarative outcome of a flow step, executed by the session in order:
// consume items, kills, frames, jump, log line, private results, then a win check.
type Result struct {
	Consume []domain.Consume
	Kills   []domain.Kill
	Frames  []FrameOut
	JumpTo  string
	Message string
	Private []domain.PrivateResult
}

// Flow is a singleton interrupt state machine
type Flow interface {
	ID() string
	Hooks() []string
	State() State
	CanTrigger(ctx Context) bool
	Trigger(ctx Context) error
	OnSelection(actorID string, choice *string) (*Result, error)
	OnTimeout() *Result
	Cleanup()
}

// base holds the state shared by the built-in flows.
type base struct {
	host  Host
	state State
}

func (b *base) State() State {
	if b.state == "" {
		return StateIdle
	}
	return b.state
}

func hasHook(f Flow, hook string) bool {
	for _, h := range f.Hooks() {
		if h == hook {
			return true
		}
	}
	return false
}
