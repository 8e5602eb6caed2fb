package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/config"
)

// LoadCatalog loads the catalog file named by the config, or the built-in
// catalog when no path is set. The returned loader shares the default
// behavior registry and is nil for the built-in catalog.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, catalog.Loader, error) {
	if cfg.CatalogPath == "" {
		c := catalog.Default()
		slog.Info(LogMsgBuiltInCatalog, "version", c.Version())
		return c, nil, nil
	}

	loader := catalog.NewLoader(catalog.NewDefaultRegistry())
	c, err := loader.LoadCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	return c, loader, nil
}

// SetupCatalogWatcher creates a watcher over the catalog file. It doubles as
// the reloader behind the host's reload endpoint, so it exists whenever a
// file is configured; the file system is only watched when CatalogWatch is set.
// Returns nil when the built-in catalog is in use.
func SetupCatalogWatcher(ctx context.Context, cfg *config.Config, loader catalog.Loader, apply catalog.ApplyFunc) (*catalog.Watcher, error) {
	if loader == nil || cfg.CatalogPath == "" {
		if cfg.CatalogWatch {
			slog.Warn(LogMsgCatalogWatchNoPath)
		}
		return nil, nil
	}

	w := catalog.NewWatcher(loader, cfg.CatalogPath, apply)
	if !cfg.CatalogWatch {
		return w, nil
	}
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedWatchCatalog, err)
	}
	slog.Info(LogMsgCatalogWatchActive, "path", cfg.CatalogPath)
	return w, nil
}
