package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	LogLevel    string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string `validate:"required"`
	Environment string `validate:"required"`
	ServiceName string
	Version     string
	APIKey      string `validate:"required"` // API key for authentication

	// CatalogPath points at a JSON or YAML catalog. Empty uses the built-in catalog.
	CatalogPath  string
	CatalogWatch bool

	RunoffLimit int   `validate:"min=1,max=10"`
	Seed        int64 // 0 seeds from the clock

	TrustedProxies []string      `validate:"dive,ip|cidr"`
	ReplayCacheTTL time.Duration `validate:"min=1s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:      getEnv(EnvLogFormat, DefaultLogFormat),
		LogDir:         getEnv(EnvLogDir, DefaultLogDir),
		Environment:    getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName:    getEnv(EnvServiceName, DefaultServiceName),
		Version:        getEnv(EnvVersion, DefaultVersion),
		APIKey:         getEnv(EnvAPIKey, ""),
		CatalogPath:    getEnv(EnvCatalogPath, ""),
		CatalogWatch:   getEnvAsBool(EnvCatalogWatch, false),
		RunoffLimit:    getEnvAsInt(EnvRunoffLimit, DefaultRunoffLimit),
		Seed:           getEnvAsInt64(EnvSeed, 0),
		TrustedProxies: getEnvAsList(EnvTrustedProxies),
		ReplayCacheTTL: getEnvAsDuration(EnvReplayCacheTTL, DefaultReplayCacheTTL),
	}

	portStr := getEnv(EnvPort, strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, errors.New(ErrMsgAPIKeyRequired)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges. Load does not call it so callers can adjust
// values first.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%s: %s", ErrMsgInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// IsDevelopment reports whether the environment is a local one
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev" || c.Environment == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
