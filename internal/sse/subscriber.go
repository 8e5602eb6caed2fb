package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
)

// SnapshotSource renders the session for a viewer.
type SnapshotSource interface {
	Snapshot(viewer string) (domain.Snapshot, error)
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub    *Hub
	bus    event.Bus
	source SnapshotSource
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus, source SnapshotSource) *Subscriber {
	return &Subscriber{hub: hub, bus: bus, source: source}
}

// forwarded maps bus events that reach the stream unchanged.
var forwarded = map[event.Type]string{
	event.PresentationUpdated:   EventTypePresentationUpdated,
	event.PresentationActivated: EventTypePresentationActivated,
	event.PhaseChanged:          EventTypePhaseChanged,
	event.ParticipantDied:       EventTypeParticipantDied,
	event.RunoffStarted:         EventTypeRunoffStarted,
	event.GameOver:              EventTypeGameOver,
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	types := []string{string(event.SessionUpdated)}
	s.bus.Subscribe(event.SessionUpdated, s.handleSessionUpdated)
	for busType, sseType := range forwarded {
		s.bus.Subscribe(busType, s.forward(sseType))
		types = append(types, string(busType))
	}
	slog.Info(LogMsgSubscriberReady, "types", types)
}

// handleSessionUpdated pushes a fresh snapshot to each audience.
func (s *Subscriber) handleSessionUpdated(_ context.Context, _ event.Event) error {
	public, err := s.source.Snapshot("")
	if err != nil {
		slog.Warn(LogMsgSnapshotFailed, "audience", AudiencePublic, "error", err)
		return nil
	}
	host, err := s.source.Snapshot(domain.ViewerHost)
	if err != nil {
		slog.Warn(LogMsgSnapshotFailed, "audience", AudienceHost, "error", err)
		return nil
	}
	s.hub.BroadcastTo(AudiencePublic, EventTypeSnapshot, public)
	s.hub.BroadcastTo(AudienceHost, EventTypeSnapshot, host)
	return nil
}

func (s *Subscriber) forward(sseType string) event.Handler {
	return func(_ context.Context, evt event.Event) error {
		s.hub.Broadcast(sseType, evt.Payload)
		slog.Debug(LogMsgEventBroadcast, "event_type", sseType)
		return nil
	}
}
