package domain

// ParticipantView is a participant as seen by a specific viewer.
// Fields the viewer may not see are left zero.
type ParticipantView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Alive      bool   `json:"alive"`
	DeathCause string `json:"death_cause,omitempty"`
	Role       string `json:"role,omitempty"`
	Team       string `json:"team,omitempty"`
	Connected  bool   `json:"connected"`

	Cursor        *string        `json:"cursor,omitempty"`
	Confirmed     *string        `json:"confirmed,omitempty"`
	Abstained     bool           `json:"abstained,omitempty"`
	PendingEvents []string       `json:"pending_events,omitempty"`
	Inventory     []ItemInstance `json:"inventory,omitempty"`
	LinkedTo      string         `json:"linked_to,omitempty"`
	Blocked       bool           `json:"blocked,omitempty"`
	Protected     bool           `json:"protected,omitempty"`
}

// EventProgress summarizes a running instance.
type EventProgress struct {
	EventID   string  `json:"event_id"`
	Name      string  `json:"name"`
	Responded int     `json:"responded"`
	Total     int     `json:"total"`
	Runoff    *Runoff `json:"runoff,omitempty"`
	FlowID    string  `json:"flow_id,omitempty"`
	// Results is only filled for the host.
	Results map[string]*string `json:"results,omitempty"`
}

// Snapshot is the viewer-filtered session state.
type Snapshot struct {
	Viewer        string            `json:"viewer"`
	Phase         Phase             `json:"phase"`
	Day           int               `json:"day"`
	Participants  []ParticipantView `json:"participants"`
	ActiveEvents  []EventProgress   `json:"active_events"`
	PendingEvents []string          `json:"pending_events"`
	ActiveFlow    string            `json:"active_flow,omitempty"`
	Winner        string            `json:"winner,omitempty"`
	Log           []string          `json:"log,omitempty"`
}

// TargetOption is a selectable target in a prompt.
type TargetOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Prompt is the private message sent to an actor when an instance starts or re-prompts.
type Prompt struct {
	To           string         `json:"to"`
	EventID      string         `json:"event_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Targets      []TargetOption `json:"targets"`
	Options      []string       `json:"options,omitempty"`
	AllowAbstain bool           `json:"allow_abstain"`
	Runoff       *Runoff        `json:"runoff,omitempty"`
	Timer        int            `json:"timer,omitempty"`
	Locked       *string        `json:"locked,omitempty"`
}
