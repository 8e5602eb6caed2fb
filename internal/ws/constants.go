package ws

import "time"

// Connection settings
const (
	ReadBufferSize  = 1024
	WriteBufferSize = 1024

	// WriteTimeout bounds a single frame write to a terminal
	WriteTimeout = 10 * time.Second

	// QueryParamPlayerID binds the connection to a participant on upgrade
	QueryParamPlayerID = "id"
)

// Replay cache settings
const (
	// ReplayCacheSize is the number of participants whose undelivered results are kept
	ReplayCacheSize = 256

	// DefaultReplayTTL is how long undelivered results wait for a rejoin
	DefaultReplayTTL = 10 * time.Minute

	// MaxReplayPerParticipant caps the undelivered results kept for one participant
	MaxReplayPerParticipant = 32
)

// Client to server message types
const (
	MsgJoin           = "join"
	MsgRejoin         = "rejoin"
	MsgSelectUp       = "selectUp"
	MsgSelectDown     = "selectDown"
	MsgConfirm        = "confirm"
	MsgAbstain        = "abstain"
	MsgUseItem        = "useItem"
	MsgIdleScrollUp   = "idleScrollUp"
	MsgIdleScrollDown = "idleScrollDown"
	MsgHeartbeat      = "heartbeat"
)

// Server to client message types
const (
	MsgWelcome     = "welcome"
	MsgError       = "error"
	MsgGameState   = "gameState"
	MsgPlayerState = "playerState"
	MsgPlayerList  = "playerList"
	MsgEventPrompt = "eventPrompt"
	MsgEventResult = "eventResult"
	MsgPhaseChange = "phaseChange"
)

// Error messages sent to terminals
const (
	ErrTextMalformed   = "malformed message"
	ErrTextUnknownType = "unknown message type: %s"
	ErrTextNotJoined   = "join first"
	ErrTextMissingID   = "playerId is required"
	ErrTextReplaced    = "replaced by a newer connection"

	CloseReasonShutdown = "server shutting down"
)

// Log messages
const (
	LogMsgUpgradeFailed      = "WebSocket upgrade failed"
	LogMsgConnected          = "Terminal connected"
	LogMsgDisconnected       = "Terminal disconnected"
	LogMsgBound              = "Terminal bound to participant"
	LogMsgMalformedMessage   = "Discarding malformed terminal message"
	LogMsgCommandRejected    = "Terminal command rejected"
	LogMsgWriteFailed        = "Terminal write failed"
	LogMsgDisplayFailed      = "Terminal display could not be rendered"
	LogMsgSnapshotFailed     = "Snapshot could not be built for terminal"
	LogMsgResultQueued       = "Result queued for offline participant"
	LogMsgResultsReplayed    = "Queued results replayed"
	LogMsgPayloadDecodeError = "Gateway could not decode event payload"
	LogMsgMarkOfflineFailed  = "Failed to mark participant offline"
	LogMsgGatewayStopped     = "Terminal gateway stopped"
)
