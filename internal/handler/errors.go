package handler

// Generic HTTP error messages for client responses.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Catalog messages
	ErrMsgNoCatalogFile = "No catalog file is configured"
)

// Success messages for API responses
const (
	MsgParticipantJoined  = "Participant joined"
	MsgParticipantLeft    = "Participant left"
	MsgParticipantKilled  = "Participant killed"
	MsgParticipantRevived = "Participant revived"
	MsgItemGiven          = "Item given"
	MsgSelectionRecorded  = "Selection recorded"
	MsgGameStarted        = "Game started"
	MsgPhaseAdvanced      = "Phase advanced"
	MsgSessionReset       = "Session reset"
	MsgEventStarted       = "Event started"
	MsgEventResolved      = "Event resolved"
	MsgEventSkipped       = "Event skipped"
	MsgEventReset         = "Event reset"
	MsgPresentationReset  = "Presentation reset"
	MsgCatalogReloaded    = "Catalog reloaded"
)

// Log messages
const (
	LogMsgDecodeFailed      = "Failed to decode request"
	LogMsgRequestDecoded    = "Request decoded"
	LogMsgMissingParam      = "Missing query parameter"
	LogMsgOperationFailed   = "Host operation failed"
	LogMsgOperationDone     = "Host operation completed"
	LogMsgReadinessFailed   = "Readiness check failed"
	LogMsgEncodeFailed      = "Failed to encode JSON response"
	LogMsgWriteBufferFailed = "Failed to write response buffer"
)
