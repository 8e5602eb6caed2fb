package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/nightfall/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from map metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Session notification types
const (
	SessionUpdated        Type = "session.updated"
	PhaseChanged          Type = "phase.changed"
	PromptIssued          Type = "event.prompt"
	ResultDelivered       Type = "event.result"
	TimerStarted          Type = "event.timer_started"
	EventClosed           Type = "event.closed"
	RunoffStarted         Type = "event.runoff"
	ParticipantDied       Type = "participant.died"
	FlowTriggered         Type = "flow.triggered"
	GameOver              Type = "game.over"
	PresentationUpdated   Type = "presentation.updated"
	PresentationActivated Type = "presentation.activated"
)

func newEvent(t Type, payload interface{}) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: map[string]interface{}{"emitted_at": time.Now().Unix()},
	}
}

// NewSessionUpdatedEvent signals that the session state changed.
func NewSessionUpdatedEvent(phase domain.Phase, day int) Event {
	return newEvent(SessionUpdated, SessionUpdatedPayload{Phase: phase, Day: day})
}

// NewPhaseChangedEvent signals a phase transition.
func NewPhaseChangedEvent(phase domain.Phase, day int) Event {
	return newEvent(PhaseChanged, PhaseChangedPayload{Phase: phase, Day: day})
}

// NewPromptIssuedEvent carries a private prompt to one actor.
func NewPromptIssuedEvent(prompt domain.Prompt) Event {
	return newEvent(PromptIssued, prompt)
}

// NewResultDeliveredEvent carries a private result to one participant.
func NewResultDeliveredEvent(result domain.PrivateResult) Event {
	return newEvent(ResultDelivered, result)
}

// NewTimerStartedEvent asks the timer worker to (re)arm a countdown.
func NewTimerStartedEvent(eventID string, seconds int, generation int64) Event {
	return newEvent(TimerStarted, TimerStartedPayload{EventID: eventID, Seconds: seconds, Generation: generation})
}

// NewEventClosedEvent signals that an instance left the active set.
func NewEventClosedEvent(eventID, outcome string) Event {
	return newEvent(EventClosed, EventClosedPayload{EventID: eventID, Outcome: outcome})
}

// NewRunoffStartedEvent signals a tie-break round.
func NewRunoffStartedEvent(eventID string, runoff domain.Runoff) Event {
	return newEvent(RunoffStarted, RunoffStartedPayload{EventID: eventID, Round: runoff.Round, Candidates: runoff.Candidates})
}

// NewParticipantDiedEvent signals a death.
func NewParticipantDiedEvent(participantID, cause string) Event {
	return newEvent(ParticipantDied, ParticipantDiedPayload{ParticipantID: participantID, Cause: cause})
}

// NewFlowTriggeredEvent signals that an interrupt flow took over.
func NewFlowTriggeredEvent(flowID, hook string) Event {
	return newEvent(FlowTriggered, FlowTriggeredPayload{FlowID: flowID, Hook: hook})
}

// NewGameOverEvent signals a decided winner.
func NewGameOverEvent(winner string, day int) Event {
	return newEvent(GameOver, GameOverPayload{Winner: winner, Day: day})
}

// NewPresentationUpdatedEvent carries the frame log and pointer.
func NewPresentationUpdatedEvent(state domain.PresentationState) Event {
	return newEvent(PresentationUpdated, state)
}

// NewPresentationActivatedEvent carries a frame whose one-shot activation just fired.
func NewPresentationActivatedEvent(frame domain.Frame) Event {
	return newEvent(PresentationActivated, frame)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously in subscription order.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes one handler to several event types
func (b *MemoryBus) SubscribeAll(handler Handler, types ...Type) {
	for _, t := range types {
		b.Subscribe(t, handler)
	}
}
