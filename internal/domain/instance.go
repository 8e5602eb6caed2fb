package domain

// Runoff tracks a tie-break round of a majority event.
type Runoff struct {
	Round      int      `json:"round"`
	Candidates []string `json:"candidates"`
}

// EventInstance is one running occurrence of an event
type EventInstance struct {
	EventID      string   `json:"event_id"`
	Participants []string `json:"participants"`
	// Results only holds actors that responded. A nil target is an abstain.
	Results map[string]*string `json:"results"`
	// Targets is the legal target list per actor, computed at start and on runoff.
	Targets      map[string][]string `json:"targets"`
	Runoff       *Runoff             `json:"runoff,omitempty"`
	FlowID       string              `json:"flow_id,omitempty"`
	Options      []string            `json:"options,omitempty"`
	AllowAbstain bool                `json:"allow_abstain"`
	// ItemGrants maps actors that participate through an item to that item id.
	ItemGrants map[string]string `json:"item_grants,omitempty"`
	// Generation increments on each (re)start so stale timer callbacks are ignored.
	Generation int64 `json:"generation"`
}

// NewEventInstance creates an empty instance for eventID.
func NewEventInstance(eventID string, participants []string) *EventInstance {
	return &EventInstance{
		EventID:      eventID,
		Participants: participants,
		Results:      make(map[string]*string),
		Targets:      make(map[string][]string),
		ItemGrants:   make(map[string]string),
	}
}

// HasParticipant reports whether actorID belongs to the instance.
func (i *EventInstance) HasParticipant(actorID string) bool {
	for _, id := range i.Participants {
		if id == actorID {
			return true
		}
	}
	return false
}

// IsLegalTarget reports whether targetID is in the actor's legal list.
func (i *EventInstance) IsLegalTarget(actorID, targetID string) bool {
	for _, t := range i.Targets[actorID] {
		if t == targetID {
			return true
		}
	}
	return false
}

// Responded reports whether actorID has a stored result.
func (i *EventInstance) Responded(actorID string) bool {
	_, ok := i.Results[actorID]
	return ok
}

// AllResponded reports whether every participant has a stored result.
func (i *EventInstance) AllResponded() bool {
	for _, id := range i.Participants {
		if _, ok := i.Results[id]; !ok {
			return false
		}
	}
	return true
}

// IsFlow reports whether the instance is governed by an interrupt flow.
func (i *EventInstance) IsFlow() bool {
	return i.FlowID != ""
}
