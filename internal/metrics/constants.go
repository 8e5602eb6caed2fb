package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every metric of the service
const Namespace = "nightfall"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameInstancesClosed    = "event_instances_closed_total"
	MetricNameDeaths             = "deaths_total"
	MetricNameFlowsTriggered     = "flows_triggered_total"
	MetricNameRunoffs            = "runoffs_total"
	MetricNameGamesFinished      = "games_finished_total"
	MetricNamePromptsIssued      = "prompts_issued_total"
	MetricNameTerminalsConnected = "terminals_connected"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextInstancesClosed    = "Event instances that left the active set, by outcome"
	HelpTextDeaths             = "Participant deaths by cause"
	HelpTextFlowsTriggered     = "Interrupt flows started, by flow and hook"
	HelpTextRunoffs            = "Runoff rounds started after a tied vote"
	HelpTextGamesFinished      = "Games won, by winning team"
	HelpTextPromptsIssued      = "Private prompts sent to participants"
	HelpTextTerminalsConnected = "Participant terminals currently connected"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelEvent   = "event"
	LabelOutcome = "outcome"
	LabelCause   = "cause"
	LabelFlow    = "flow"
	LabelHook    = "hook"
	LabelWinner  = "winner"
)

// UnmatchedRoute labels requests that matched no route
const UnmatchedRoute = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
