package bootstrap

import (
	"log/slog"

	"github.com/osse101/nightfall/internal/event"
)

// InitializeEventSystem creates the in-process event bus. Handlers run
// synchronously in registration order, so subscribers must be registered
// before the session starts publishing.
func InitializeEventSystem() *event.MemoryBus {
	eventBus := event.NewMemoryBus()
	slog.Info(LogMsgEventSystemInitialized)
	return eventBus
}
