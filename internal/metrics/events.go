package metrics

import (
	"context"

	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.PhaseChanged,
		event.PromptIssued,
		event.ResultDelivered,
		event.TimerStarted,
		event.EventClosed,
		event.RunoffStarted,
		event.ParticipantDied,
		event.FlowTriggered,
		event.GameOver,
		event.PresentationActivated,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.PromptIssued:
		PromptsIssued.Inc()

	case event.EventClosed:
		var p event.EventClosedPayload
		if p, err = event.DecodePayload[event.EventClosedPayload](evt.Payload); err == nil {
			InstancesClosed.WithLabelValues(p.EventID, p.Outcome).Inc()
		}

	case event.ParticipantDied:
		var p event.ParticipantDiedPayload
		if p, err = event.DecodePayload[event.ParticipantDiedPayload](evt.Payload); err == nil {
			Deaths.WithLabelValues(p.Cause).Inc()
		}

	case event.FlowTriggered:
		var p event.FlowTriggeredPayload
		if p, err = event.DecodePayload[event.FlowTriggeredPayload](evt.Payload); err == nil {
			FlowsTriggered.WithLabelValues(p.FlowID, p.Hook).Inc()
		}

	case event.RunoffStarted:
		var p event.RunoffStartedPayload
		if p, err = event.DecodePayload[event.RunoffStartedPayload](evt.Payload); err == nil {
			Runoffs.WithLabelValues(p.EventID).Inc()
		}

	case event.GameOver:
		var p event.GameOverPayload
		if p, err = event.DecodePayload[event.GameOverPayload](evt.Payload); err == nil {
			GamesFinished.WithLabelValues(p.Winner).Inc()
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
