package main

import (
	"github.com/osse101/nightfall/internal/config"
	"github.com/osse101/nightfall/internal/logger"
)

// initLogger initializes a stdout-only logger using centralized app configuration
func initLogger(cfg *config.Config) {
	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		cfg.IsDevelopment(),
	)

	logger.InitLogger(loggerConfig)
}
