package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/nightfall/internal/logger"
	"github.com/osse101/nightfall/internal/validation"
)

// Loader reads catalog files and builds catalogs from them
type Loader interface {
	// Load reads, schema-validates and decodes a JSON or YAML catalog file.
	Load(path string) (*Config, error)
	// LoadCatalog loads path and builds it against the loader's registry.
	LoadCatalog(ctx context.Context, path string) (*Catalog, error)
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
	registry        *Registry
	schemaPath      string
}

// NewLoader creates a loader bound to a behavior registry
func NewLoader(reg *Registry) Loader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(),
		registry:        reg,
		schemaPath:      CatalogSchemaPath,
	}
}

// Load reads path and decodes it by extension
func (l *catalogLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadCatalogFailed, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return l.decodeJSON(path, data)
	case ".yaml", ".yml":
		return l.decodeYAML(path, data)
	default:
		return nil, fmt.Errorf(ErrMsgUnsupportedFormat, ext)
	}
}

func (l *catalogLoader) decodeJSON(path string, data []byte) (*Config, error) {
	if err := l.schemaValidator.ValidateBytes(data, l.schemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseCatalogFailed, err)
	}
	return &cfg, nil
}

func (l *catalogLoader) decodeYAML(path string, data []byte) (*Config, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf(ErrMsgParseCatalogFailed, err)
	}
	if err := l.schemaValidator.ValidateDocument(doc, l.schemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseCatalogFailed, err)
	}
	return &cfg, nil
}

// LoadCatalog loads and builds a catalog
func (l *catalogLoader) LoadCatalog(ctx context.Context, path string) (*Catalog, error) {
	cfg, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	c, err := Build(cfg, l.registry)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgCatalogLoaded,
		"path", path,
		"version", c.Version(),
		"roles", len(cfg.Roles),
		"events", len(cfg.Events),
		"items", len(cfg.Items))
	return c, nil
}
