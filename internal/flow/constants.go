package flow

// Flow ids
const (
	IDLastWords = "last_words"
	IDOverride  = "override"
)

// Prompt text
const (
	LastWordsName        = "Last Words"
	LastWordsDescription = "Choose who you take down with you"
	OverrideName         = "Verdict"
	OverrideDescription  = "%s is about to be eliminated. Spare or confirm?"

	OptionSpareName   = "Spare"
	OptionConfirmName = "Confirm"
)

// Log lines
const (
	LogLineLastWords     = "%s took %s down with them"
	LogLineLastWordsLost = "%s's last words went unheard"
	LogLineSpared        = "%s was spared by %s"
	LogLineConfirmed     = "%s confirmed the verdict"
)
