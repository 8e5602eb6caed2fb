package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Event Timer Worker
// ============================================================================

// Log messages for event timer operations
const (
	LogMsgTimerScheduled   = "Event timer scheduled"
	LogMsgTimerFired       = "Event timer fired"
	LogMsgTimerCancelled   = "Cancelled pending event timer"
	LogMsgTimerDropped     = "Event timer fired during shutdown"
	LogMsgShuttingDown     = "Shutting down worker"
	LogMsgShutdownComplete = "Worker shutdown complete"
	LogMsgShutdownTimeout  = "Worker shutdown timeout, some expiries may still be running"
)

// ============================================================================
// Configuration
// ============================================================================

const (
	// EventTimerWorkerName labels the event timer worker in logs
	EventTimerWorkerName = "event timer worker"
	// TimerPoolWorkers is one so expiries reach the session in firing order
	TimerPoolWorkers = 1
	// TimerQueueSize bounds expiries waiting for the session
	TimerQueueSize = 64
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestExpectedJobCount      = 2
	TestWorkerProcessWaitTime = 100 // milliseconds
)
