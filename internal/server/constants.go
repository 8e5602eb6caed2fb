package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Route paths
const (
	PathHealthz      = "/healthz"
	PathReadyz       = "/readyz"
	PathVersion      = "/version"
	PathMetrics      = "/metrics"
	PathSwagger      = "/swagger"
	PathTerminal     = "/ws"
	PathAPI          = "/api/v1"
	PathPublicStream = "/api/v1/stream"
	PathHostStream   = "/api/v1/admin/stream"
)

// PublicPaths bypass authentication. Terminals and the narrator screen carry no API key.
var PublicPaths = []string{
	PathHealthz,
	PathReadyz,
	PathVersion,
	PathMetrics,
	PathSwagger,
	PathTerminal,
	PathPublicStream,
}

// Limits
const (
	MaxRequestBytes      = 1 << 20
	FailedAuthAlertCount = 5
	RateLimitPerWindow   = 1000
	RateWindow           = 5 * time.Minute
	ReadHeaderTimeout    = 5 * time.Second
	ShutdownTimeout      = 15 * time.Second
)

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
