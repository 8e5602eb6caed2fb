package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/server"
	"github.com/osse101/nightfall/internal/sse"
	"github.com/osse101/nightfall/internal/worker"
	"github.com/osse101/nightfall/internal/ws"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         *server.Server
	Gateway        *ws.Gateway
	Hub            *sse.Hub
	TimerWorker    *worker.EventTimerWorker
	CatalogWatcher *catalog.Watcher
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Terminal gateway and SSE hub (hijacked and streaming connections)
// 3. Timer worker (cancel pending countdowns)
// 4. Catalog watcher
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Gateway != nil {
		shutdownComponent(ctx, ComponentNameGateway, components.Gateway)
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	if components.TimerWorker != nil {
		shutdownComponent(ctx, ComponentNameTimerWorker, components.TimerWorker)
	}

	if components.CatalogWatcher != nil {
		if err := components.CatalogWatcher.Stop(); err != nil {
			slog.Error(LogMsgWatcherStopFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

// shutdownable is implemented by every component with a context-bound Shutdown.
type shutdownable interface {
	Shutdown(context.Context) error
}

func shutdownComponent(ctx context.Context, name string, c shutdownable) {
	if err := c.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgComponentShutdownFailed, "error", err)
	}
}
