package domain

// Kill is a requested death with its cause.
type Kill struct {
	ID    string `json:"id"`
	Cause string `json:"cause"`
}

// Link pairs two participants symmetrically.
type Link struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Promotion changes a participant's role.
type Promotion struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Consume spends one use of an item.
type Consume struct {
	ParticipantID string `json:"participant_id"`
	ItemID        string `json:"item_id"`
}

// PrivateResult is delivered to a single participant after resolution.
type PrivateResult struct {
	To      string         `json:"to"`
	EventID string         `json:"event_id"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
}

// FrameSpec describes a presentation frame to be appended.
type FrameSpec struct {
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	Activation string         `json:"activation,omitempty"`
	Jump       bool           `json:"jump"`
}

// Resolution is the structured outcome of resolving an event.
// Behaviors never mutate the session; the executor applies the effect lists.
type Resolution struct {
	Outcome  string     `json:"outcome"`
	VictimID string     `json:"victim_id,omitempty"`
	WinnerID string     `json:"winner_id,omitempty"`
	Message  string     `json:"message,omitempty"`
	Frame    *FrameSpec `json:"frame,omitempty"`

	Runoff bool     `json:"runoff"`
	Tied   []string `json:"tied,omitempty"`

	Private    []PrivateResult `json:"private,omitempty"`
	Kills      []Kill          `json:"kills,omitempty"`
	Links      []Link          `json:"links,omitempty"`
	Promotions []Promotion     `json:"promotions,omitempty"`
	Protect    []string        `json:"protect,omitempty"`
	Block      []string        `json:"block,omitempty"`
	Consume    []Consume       `json:"consume,omitempty"`
}
