package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second

	// WriteTimeout is the timeout for writing to client connections
	WriteTimeout = 10 * time.Second
)

// Audiences a client can listen as
const (
	// AudiencePublic receives the narrator view: no hidden roles, no selections
	AudiencePublic = "public"

	// AudienceHost receives the unfiltered administrative view
	AudienceHost = "host"
)

// Event types for SSE
const (
	// EventTypeConnected is the first event every client receives
	EventTypeConnected = "connected"

	// EventTypeSnapshot carries the viewer-filtered session state after every change
	EventTypeSnapshot = "session.snapshot"

	// EventTypePresentationUpdated carries the frame log and pointer
	EventTypePresentationUpdated = "presentation.updated"

	// EventTypePresentationActivated is sent when the pointer lands on a frame with an activation
	EventTypePresentationActivated = "presentation.activated"

	// EventTypePhaseChanged is sent when the phase or day changes
	EventTypePhaseChanged = "phase.changed"

	// EventTypeParticipantDied is sent for every death in cascade order
	EventTypeParticipantDied = "participant.died"

	// EventTypeRunoffStarted is sent when a tied vote starts a runoff round
	EventTypeRunoffStarted = "event.runoff"

	// EventTypeGameOver is sent once a team has won
	EventTypeGameOver = "game.over"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgSnapshotFailed     = "Failed to build SSE snapshot"
	LogMsgSubscriberReady    = "SSE subscriber registered for event types"
)
