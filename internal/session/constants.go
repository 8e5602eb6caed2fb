package session

// Defaults
const (
	DefaultFlowTimerSeconds = 45
	// FlowInstancePrefix keeps flow instance ids apart from catalog event ids.
	FlowInstancePrefix = "flow:"
	MaxTerminalIcons   = 3
)

// Log messages
const (
	LogMsgOperationPanicked  = "Session operation panicked"
	LogMsgPublishFailed      = "Failed to publish session notification"
	LogMsgGameStarted        = "Game started"
	LogMsgPhaseChanged       = "Phase changed"
	LogMsgEventStarted       = "Event started"
	LogMsgEventResolved      = "Event resolved"
	LogMsgRunoffStarted      = "Runoff started"
	LogMsgFlowTriggered      = "Interrupt flow triggered"
	LogMsgFlowDeferred       = "Death hook deferred while a flow is active"
	LogMsgFlowDispatchFailed = "Flow dispatch failed"
	LogMsgAutoResolveFailed  = "Automatic resolution failed"
	LogMsgGameOver           = "Game over"
	LogMsgCatalogReplaced    = "Catalog replaced"
	LogMsgSessionReset       = "Session reset"
	LogMsgUnknownReaction    = "Unknown death reaction"
)

// Game log lines
const (
	LogLineJoined        = "%s joined"
	LogLineLeft          = "%s left"
	LogLineGameStarted   = "The game begins with %d players"
	LogLineDayBegins     = "Day %d begins"
	LogLineNightFalls    = "Night %d falls"
	LogLineDied          = "%s died (%s)"
	LogLineRevived       = "%s was revived"
	LogLineRunoff        = "Tie between %s; runoff round %d"
	LogLineRandomPick    = "Still tied after %d runoffs; fate chose %s"
	LogLineSkipped       = "%s was skipped"
	LogLineReset         = "%s was returned to the pool"
	LogLineGameOver      = "%s win"
	LogLineItemGiven     = "%s received %s"
	LogLineFlowDiscarded = "%s was cancelled"
	LogLineAbandoned     = "%s ended with nobody left to act"
)

// Private result text
const (
	PrivateItemReceived = "You received %s"
	PrivatePromoted     = "You are now the %s"
	PrivateItemSpent    = "Your %s has been used"
)

// Terminal text
const (
	DisplayLobby         = "LOBBY"
	DisplayGameOver      = "GAME OVER"
	DisplayDayFmt        = "DAY %d"
	DisplayNightFmt      = "NIGHT %d"
	DisplayWaiting       = "Waiting for host"
	DisplaySeatFmt       = "Seat %d"
	DisplayDead          = "Dead"
	DisplayWinnerFmt     = "%s win"
	DisplayNoTargets     = "No targets"
	DisplayAbstained     = "Abstained"
	DisplayWaitingOthers = "Waiting for others"
	DisplayPrev          = "<"
	DisplayNext          = ">"
	DisplayUseItem       = "Use"
	DisplayPassiveItem   = "Always on"
)
