package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/nightfall/internal/logger"
)

// scheduled is a pending timer and the instance generation it belongs to.
type scheduled struct {
	timer      *time.Timer
	generation int64
}

// BaseWorker provides common functionality for background workers that manage timers
type BaseWorker struct {
	mu       sync.Mutex
	timers   map[string]scheduled
	shutdown chan struct{}
}

func (w *BaseWorker) init() {
	if w.timers == nil {
		w.timers = make(map[string]scheduled)
	}
	if w.shutdown == nil {
		w.shutdown = make(chan struct{})
	}
}

func (w *BaseWorker) stopTimer(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.timers[id]; ok {
		s.timer.Stop()
		delete(w.timers, id)
	}
}

// registerTimer stores a timer for id, stopping any timer it replaces.
func (w *BaseWorker) registerTimer(id string, generation int64, timer *time.Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.timers[id]; ok {
		old.timer.Stop()
	}
	w.timers[id] = scheduled{timer: timer, generation: generation}
}

// removeTimer forgets id's timer unless a newer generation replaced it.
func (w *BaseWorker) removeTimer(id string, generation int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s, ok := w.timers[id]; ok && s.generation == generation {
		delete(w.timers, id)
	}
}

func (w *BaseWorker) pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

func (w *BaseWorker) stopping() bool {
	select {
	case <-w.shutdown:
		return true
	default:
		return false
	}
}

func (w *BaseWorker) shutdownInternal(ctx context.Context, workerName string) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown, "worker", workerName)

	close(w.shutdown)

	w.mu.Lock()
	for id, s := range w.timers {
		s.timer.Stop()
		log.Info(LogMsgTimerCancelled, "worker", workerName, "event", id)
	}
	w.timers = make(map[string]scheduled)
	w.mu.Unlock()
}
