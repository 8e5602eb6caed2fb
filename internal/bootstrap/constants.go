package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit is the maximum number of log files to keep
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingNightfall   = "Starting nightfall"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file %s: %v\n"
)

// =============================================================================
// Catalog
// =============================================================================

const (
	LogMsgBuiltInCatalog     = "Using built-in catalog"
	LogMsgCatalogWatchActive = "Catalog hot reload enabled"
	LogMsgCatalogWatchNoPath = "CATALOG_WATCH set without CATALOG_PATH, hot reload disabled"

	ErrMsgFailedLoadCatalog  = "failed to load catalog"
	ErrMsgFailedWatchCatalog = "failed to watch catalog"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

// Log messages for event handler registration
const (
	LogMsgEventSystemInitialized     = "Event system initialized"
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgTimerWorkerRegistered      = "Event timer worker registered"
	LogMsgStreamSubscriberRegistered = "Stream subscriber registered"
	LogMsgGatewayRegistered          = "Terminal gateway subscribed"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgWatcherStopFailed    = "Catalog watcher stop failed"

	// Component names for shutdown logging
	ComponentNameGateway     = "gateway"
	ComponentNameTimerWorker = "timer worker"
)

// Shutdown log message format (component name will be prepended)
const (
	LogMsgComponentShutdownFailed = " shutdown failed"
)
