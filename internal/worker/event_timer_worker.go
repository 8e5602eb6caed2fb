package worker

import (
	"context"
	"time"

	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/logger"
)

// Expirer force-resolves an event instance whose countdown ran out.
type Expirer interface {
	ExpireEvent(ctx context.Context, eventID string, generation int64) error
}

// EventTimerWorker runs the countdowns announced on the bus. A new countdown
// for the same event replaces the old one and a closed event cancels it.
type EventTimerWorker struct {
	BaseWorker
	expirer Expirer
	pool    *Pool
	unit    time.Duration
}

// NewEventTimerWorker creates a new EventTimerWorker
func NewEventTimerWorker(expirer Expirer) *EventTimerWorker {
	w := &EventTimerWorker{
		expirer: expirer,
		pool:    NewPool(TimerPoolWorkers, TimerQueueSize),
		unit:    time.Second,
	}
	w.init()
	return w
}

// Start starts the expiry pool
func (w *EventTimerWorker) Start() {
	w.pool.Start()
}

// Subscribe subscribes the worker to relevant events
func (w *EventTimerWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.TimerStarted, w.handleTimerStarted)
	bus.Subscribe(event.EventClosed, w.handleEventClosed)
}

func (w *EventTimerWorker) handleTimerStarted(ctx context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.TimerStartedPayload](e.Payload)
	if err != nil {
		return err
	}
	w.schedule(ctx, p.EventID, p.Generation, time.Duration(p.Seconds)*w.unit)
	return nil
}

func (w *EventTimerWorker) handleEventClosed(_ context.Context, e event.Event) error {
	p, err := event.DecodePayload[event.EventClosedPayload](e.Payload)
	if err != nil {
		return err
	}
	w.stopTimer(p.EventID)
	return nil
}

func (w *EventTimerWorker) schedule(ctx context.Context, eventID string, generation int64, d time.Duration) {
	logger.FromContext(ctx).Info(LogMsgTimerScheduled, "event", eventID, "generation", generation, "duration", d)

	timer := time.AfterFunc(d, func() {
		w.removeTimer(eventID, generation)
		if w.stopping() {
			logger.FromContext(context.Background()).Debug(LogMsgTimerDropped, "event", eventID)
			return
		}
		w.pool.Enqueue(expireJob{expirer: w.expirer, eventID: eventID, generation: generation})
	})
	w.registerTimer(eventID, generation, timer)
}

// Shutdown cancels all pending timers and waits for queued expiries to drain
func (w *EventTimerWorker) Shutdown(ctx context.Context) error {
	w.shutdownInternal(ctx, EventTimerWorkerName)
	log := logger.FromContext(ctx)

	done := make(chan struct{})
	go func() {
		w.pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownComplete, "worker", EventTimerWorkerName)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimeout, "worker", EventTimerWorkerName)
		return ctx.Err()
	}
}

// expireJob delivers one countdown expiry to the session.
type expireJob struct {
	expirer    Expirer
	eventID    string
	generation int64
}

func (j expireJob) Process(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgTimerFired, "event", j.eventID, "generation", j.generation)
	return j.expirer.ExpireEvent(ctx, j.eventID, j.generation)
}
