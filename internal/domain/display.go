package domain

// Terminal line 2 styles
const (
	StyleNormal    = "normal"
	StyleLocked    = "locked"
	StyleAbstained = "abstained"
	StyleWaiting   = "waiting"
)

// Terminal LED states
const (
	LEDOff    = "off"
	LEDDim    = "dim"
	LEDBright = "bright"
	LEDPulse  = "pulse"
)

// Terminal status LED values
const (
	StatusLobby     = "lobby"
	StatusDay       = "day"
	StatusNight     = "night"
	StatusVoting    = "voting"
	StatusLocked    = "locked"
	StatusAbstained = "abstained"
	StatusDead      = "dead"
	StatusGameOver  = "gameOver"
)

// Terminal icon slot states
const (
	IconActive   = "active"
	IconInactive = "inactive"
	IconEmpty    = "empty"
)

// IconSlot is one cell of the terminal's icon column. Slot 0 shows the role,
// the others show items.
type IconSlot struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// DisplayLine1 is the header row.
type DisplayLine1 struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// DisplayLine2 is the large center row.
type DisplayLine2 struct {
	Text  string `json:"text"`
	Style string `json:"style"`
}

// DisplayLine3 is the footer row. Text is used when left/center/right are empty.
type DisplayLine3 struct {
	Text   string `json:"text,omitempty"`
	Left   string `json:"left,omitempty"`
	Center string `json:"center,omitempty"`
	Right  string `json:"right,omitempty"`
}

// DisplayLEDs drives the yes/no button lights.
type DisplayLEDs struct {
	Yes string `json:"yes"`
	No  string `json:"no"`
}

// Display is the rendered state of a participant terminal.
type Display struct {
	Line1     DisplayLine1 `json:"line1"`
	Line2     DisplayLine2 `json:"line2"`
	Line3     DisplayLine3 `json:"line3"`
	LEDs      DisplayLEDs  `json:"leds"`
	StatusLED string       `json:"statusLed"`
	Icons     []IconSlot   `json:"icons"`
	// IdleScrollIndex is the icon slot selected while no event is open.
	IdleScrollIndex int `json:"idleScrollIndex"`
}
