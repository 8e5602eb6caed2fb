package domain

// Phase is the coarse session phase.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseDay      Phase = "day"
	PhaseNight    Phase = "night"
	PhaseGameOver Phase = "game_over"
)

// Aggregation policies
const (
	AggregationMajority   = "majority"
	AggregationIndividual = "individual"
)

// Item activation modes
const (
	ActivationEvent   = "event"
	ActivationPassive = "passive"
)

// Death causes
const (
	CauseEliminated = "eliminated"
	CauseKilled     = "killed"
	CauseShot       = "shot"
	CauseHeartbreak = "heartbreak"
	CauseLastWords  = "last_words"
	CauseHost       = "host"
)

// Lifecycle hooks consulted by the interrupt flow engine
const (
	HookDeath       = "death"
	HookElimination = "elimination"
)

// Passive reaction keys on role definitions
const (
	PassiveOnDeath      = "on_death"
	PassiveOnOtherDeath = "on_other_death"

	ReactionLastWords  = "last_words"
	ReactionSuccession = "succession"
)

// Capability flags granted by roles or passive items
const (
	CapabilityOverseer = "overseer"
	CapabilityPardon   = "pardon"
	CapabilityArmor    = "armor"
)

// Resolution outcome tags
const (
	OutcomeNone       = "none"
	OutcomeNoWinner   = "no_winner"
	OutcomeEliminated = "eliminated"
	OutcomeKilled     = "killed"
	OutcomeProtected  = "protected"
	OutcomeRevealed   = "revealed"
	OutcomeLinked     = "linked"
	OutcomeBlocked    = "blocked"
	OutcomeShot       = "shot"
	OutcomeSpared     = "spared"
	OutcomeRunoff     = "runoff"
	OutcomeSkipped    = "skipped"
	OutcomeReset      = "reset"
	OutcomeDiscarded  = "discarded"
	OutcomeAbandoned  = "abandoned"
	OutcomeFlow       = "flow"
)

// Presentation frame types
const (
	FramePhase     = "phase"
	FrameDeath     = "death"
	FrameTally     = "tally"
	FrameRunoff    = "runoff"
	FrameReprieve  = "reprieve"
	FrameLastWords = "last_words"
	FrameNarration = "narration"
	FrameGameOver  = "game_over"
	FrameLobby     = "lobby"
)

// Activation actions fired once when the host advances onto a frame
const (
	ActivationRevealDeath = "reveal_death"
	ActivationAnnounce    = "announce"
)

// Flow option ids
const (
	OptionSpare   = "spare"
	OptionConfirm = "confirm"
)

// ViewerHost is the viewer id used for the administrative host projection.
// Participant ids may never take this value.
const ViewerHost = "__host__"

// DefaultRunoffLimit is the number of tied runoff rounds before a random tie-break.
const DefaultRunoffLimit = 3
