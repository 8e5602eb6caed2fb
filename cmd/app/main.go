package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/nightfall/internal/bootstrap"
	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/config"
	"github.com/osse101/nightfall/internal/handler"
	"github.com/osse101/nightfall/internal/server"
	"github.com/osse101/nightfall/internal/session"
	"github.com/osse101/nightfall/internal/sse"
	"github.com/osse101/nightfall/internal/worker"
	"github.com/osse101/nightfall/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		initLogger(cfg)
		slog.Warn("File logging unavailable, logging to stdout only", "error", err)
	} else {
		defer logFile.Close()
	}

	if warnings, err := config.ValidateEnvWithWarnings(); err != nil {
		slog.Warn("Environment check failed", "error", err)
	} else {
		for _, w := range warnings {
			slog.Warn(w)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, loader, err := bootstrap.LoadCatalog(ctx, cfg)
	if err != nil {
		slog.Error("Catalog unavailable", "error", err)
		os.Exit(1)
	}

	bus := bootstrap.InitializeEventSystem()
	sess := session.New(cat, bus, session.Options{
		RunoffLimit: cfg.RunoffLimit,
		Seed:        cfg.Seed,
	})

	timerWorker := worker.NewEventTimerWorker(sess)
	hub := sse.NewHub()
	gateway := ws.NewGateway(sess, cfg.ReplayCacheTTL)

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:         bus,
		TimerWorker:      timerWorker,
		StreamSubscriber: sse.NewSubscriber(hub, bus, sess),
		Gateway:          gateway,
	}); err != nil {
		slog.Error("Failed to register event handlers", "error", err)
		os.Exit(1)
	}

	watcher, err := bootstrap.SetupCatalogWatcher(ctx, cfg, loader, func(ctx context.Context, c *catalog.Catalog) error {
		return sess.ReloadCatalog(ctx, c)
	})
	if err != nil {
		slog.Error("Catalog watcher unavailable", "error", err)
		os.Exit(1)
	}

	// A nil *Watcher must not become a non-nil interface.
	var reloader handler.CatalogReloader
	if watcher != nil {
		reloader = watcher
	}

	timerWorker.Start()
	hub.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Routes{
		Game:     handler.NewGameHandler(sess, reloader),
		Version:  handler.HandleVersion(sess),
		Terminal: gateway.Handle,
		Hub:      hub,
		Checkers: []handler.HealthChecker{
			handler.HealthCheckFunc(func(context.Context) error {
				if sess.Catalog() == nil {
					return errors.New("catalog not loaded")
				}
				return nil
			}),
		},
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:         srv,
		Gateway:        gateway,
		Hub:            hub,
		TimerWorker:    timerWorker,
		CatalogWatcher: watcher,
	})
}
