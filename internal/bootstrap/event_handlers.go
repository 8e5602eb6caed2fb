package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/metrics"
	"github.com/osse101/nightfall/internal/sse"
	"github.com/osse101/nightfall/internal/worker"
	"github.com/osse101/nightfall/internal/ws"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus         event.Bus
	TimerWorker      *worker.EventTimerWorker
	StreamSubscriber *sse.Subscriber
	Gateway          *ws.Gateway
}

// RegisterEventHandlers sets up all event handlers and subscribers.
// This includes:
// - Metrics collector (for event-based metrics)
// - Event timer worker (countdowns for running events)
// - Stream subscriber (public and host SSE audiences)
// - Terminal gateway (prompts, results and displays for participants)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.TimerWorker != nil {
		deps.TimerWorker.Subscribe(deps.EventBus)
		slog.Info(LogMsgTimerWorkerRegistered)
	}

	if deps.StreamSubscriber != nil {
		deps.StreamSubscriber.Subscribe()
		slog.Info(LogMsgStreamSubscriberRegistered)
	}

	if deps.Gateway != nil {
		deps.Gateway.Subscribe(deps.EventBus)
		slog.Info(LogMsgGatewayRegistered)
	}

	return nil
}
