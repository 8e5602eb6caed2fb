package catalog

// MinPlayers is the smallest roster a composition can be dealt for.
const MinPlayers = 3

// Schema paths
const (
	CatalogSchemaPath = "configs/schemas/catalog.schema.json"
)

// ==================== Error Messages ====================

const (
	ErrMsgReadCatalogFailed  = "failed to read catalog file: %w"
	ErrMsgParseCatalogFailed = "failed to parse catalog: %w"
	ErrMsgUnsupportedFormat  = "unsupported catalog format %q"
)

// Validation error format strings (used with ErrInvalidCatalog)
const (
	ErrFmtDuplicateID      = "%w: duplicate %s id '%s'"
	ErrFmtEmptyID          = "%w: %s at index %d has empty id"
	ErrFmtUnknownTeam      = "%w: role '%s' has unknown team '%s'"
	ErrFmtUnknownEvent     = "%w: %s '%s' references unknown event '%s'"
	ErrFmtUnknownBehavior  = "%w: event '%s' references unknown behavior '%s'"
	ErrFmtUnknownReaction  = "%w: role '%s' references unknown reaction '%s'"
	ErrFmtUnknownRole      = "%w: %s references unknown role '%s'"
	ErrFmtBadAggregation   = "%w: event '%s' has invalid aggregation '%s'"
	ErrFmtBadActivation    = "%w: item '%s' has invalid activation"
	ErrFmtNoPhases         = "%w: event '%s' has no phases"
	ErrFmtTeamsMissing     = "%w: teams must name a majority and an aggressor"
	ErrFmtNothingDefined   = "%w: no roles or events defined"
	ErrFmtBadMaxUses       = "%w: item '%s' has invalid max_uses %d"
	ErrFmtNegativeTimer    = "%w: event '%s' has negative timer"
	ErrFmtInvalidPhaseName = "%w: event '%s' has invalid phase '%s'"
)

// ==================== Log Messages ====================

const (
	LogMsgCatalogLoaded       = "Catalog loaded"
	LogMsgCatalogChanged      = "Catalog file changed"
	LogMsgCatalogReloadFailed = "Failed to reload catalog"
	LogMsgWatcherError        = "Catalog watcher error"
	LogMsgWatchingCatalog     = "Watching catalog file"
	LogMsgWatcherStopped      = "Catalog watcher stopped"
)

// ==================== Log Lines and Private Messages ====================

// Log lines recorded in the session log by resolutions
const (
	LogLineNoElimination = "No one was eliminated"
	LogLineEliminated    = "%s was eliminated"
	LogLineQuietNight    = "The night passed quietly"
	LogLineProtected     = "%s was attacked but protected"
	LogLineArmored       = "%s was attacked but their armor held"
	LogLineKilled        = "%s was killed in the night"
	LogLineInvestigated  = "Investigations were carried out"
	LogLineProtectCast   = "Protection was granted"
	LogLineLinked        = "Fates were bound"
	LogLineBlocked       = "Someone was blocked"
	LogLineNoShot        = "No shot was fired"
	LogLineShot          = "%s shot %s"
)

// Private result messages
const (
	PrivatePackChoice    = "%s chose %s"
	PrivateArmorSaved    = "Your armor saved you"
	PrivateInvestigation = "%s is on team %s"
	PrivateProtecting    = "You are protecting %s"
	PrivateLinked        = "Your fate is bound to %s"
	PrivateBlocked       = "You have been blocked"
)
