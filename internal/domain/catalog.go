package domain

// TargetOverride widens the default targeting rule of an event for one role.
type TargetOverride struct {
	Self      bool `json:"self,omitempty" yaml:"self,omitempty"`
	Teammates bool `json:"teammates,omitempty" yaml:"teammates,omitempty"`
}

// RoleDef is an immutable role definition
type RoleDef struct {
	ID               string                    `json:"id" yaml:"id"`
	Name             string                    `json:"name" yaml:"name"`
	Team             string                    `json:"team" yaml:"team"`
	Description      string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Events           []string                  `json:"events,omitempty" yaml:"events,omitempty"`
	TargetOverrides  map[string]TargetOverride `json:"target_overrides,omitempty" yaml:"target_overrides,omitempty"`
	PriorityOverride map[string]int            `json:"priority_overrides,omitempty" yaml:"priority_overrides,omitempty"`
	Passives         map[string]string         `json:"passives,omitempty" yaml:"passives,omitempty"`
	Capabilities     []string                  `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	// Succeeds names the role this role is promoted into by a succession reaction.
	Succeeds string `json:"succeeds,omitempty" yaml:"succeeds,omitempty"`
}

// GrantsEvent reports whether the role participates in eventID.
func (r *RoleDef) GrantsEvent(eventID string) bool {
	for _, e := range r.Events {
		if e == eventID {
			return true
		}
	}
	return false
}

// HasCapability reports whether the role carries capability c.
func (r *RoleDef) HasCapability(c string) bool {
	for _, have := range r.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Override returns the targeting override for eventID.
func (r *RoleDef) Override(eventID string) TargetOverride {
	if r.TargetOverrides == nil {
		return TargetOverride{}
	}
	return r.TargetOverrides[eventID]
}

// ItemActivation describes how an item takes effect.
type ItemActivation struct {
	Mode       string `json:"mode" yaml:"mode"` // event | passive
	Event      string `json:"event,omitempty" yaml:"event,omitempty"`
	Capability string `json:"capability,omitempty" yaml:"capability,omitempty"`
}

// ItemDef is an immutable item definition
type ItemDef struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	MaxUses     int            `json:"max_uses" yaml:"max_uses"` // -1 means unlimited
	Activation  ItemActivation `json:"activation" yaml:"activation"`
}

// EventDef is an immutable event definition
type EventDef struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description" yaml:"description"`
	Phases         []Phase `json:"phases" yaml:"phases"`
	Priority       int     `json:"priority" yaml:"priority"`
	Aggregation    string  `json:"aggregation" yaml:"aggregation"`
	AllowAbstain   bool    `json:"allow_abstain" yaml:"allow_abstain"`
	PlayerResolved bool    `json:"player_resolved" yaml:"player_resolved"`
	Timer          int     `json:"timer,omitempty" yaml:"timer,omitempty"` // seconds, 0 = none
	Behavior       string  `json:"behavior" yaml:"behavior"`
}

// InPhase reports whether the event can run during phase.
func (e *EventDef) InPhase(phase Phase) bool {
	for _, p := range e.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// Teams names the two sides used by the win evaluator.
type Teams struct {
	Majority  string `json:"majority" yaml:"majority"`
	Aggressor string `json:"aggressor" yaml:"aggressor"`
}
