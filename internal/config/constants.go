package config

import "time"

const (
	// ConfigPathCatalog is the shipped catalog file
	ConfigPathCatalog = "configs/catalog.json"
)

// Defaults applied when a variable is unset
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogDir         = "logs"
	DefaultEnvironment    = "dev"
	DefaultServiceName    = "nightfall"
	DefaultVersion        = "dev"
	DefaultRunoffLimit    = 3
	DefaultReplayCacheTTL = 10 * time.Minute
)

// Environment variable names
const (
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvLogDir         = "LOG_DIR"
	EnvEnvironment    = "ENVIRONMENT"
	EnvServiceName    = "SERVICE_NAME"
	EnvVersion        = "VERSION"
	EnvAPIKey         = "API_KEY"
	EnvCatalogPath    = "CATALOG_PATH"
	EnvCatalogWatch   = "CATALOG_WATCH"
	EnvRunoffLimit    = "RUNOFF_LIMIT"
	EnvSeed           = "SEED"
	EnvTrustedProxies = "TRUSTED_PROXIES"
	EnvReplayCacheTTL = "REPLAY_CACHE_TTL"
	EnvSchemaVersion  = "ENV_SCHEMA_VERSION"
)

// Error messages
const (
	ErrMsgInvalidPort    = "invalid PORT value: %w"
	ErrMsgAPIKeyRequired = "API_KEY environment variable must be set for security"
	ErrMsgInvalidConfig  = "invalid configuration"
)
