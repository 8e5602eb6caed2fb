package domain

// ItemInstance is an item held in a participant's inventory.
type ItemInstance struct {
	ItemID        string `json:"item_id"`
	UsesRemaining int    `json:"uses_remaining"` // -1 means unlimited
	MaxUses       int    `json:"max_uses"`
}

// Usable reports whether the item still has uses left.
func (i ItemInstance) Usable() bool {
	return i.UsesRemaining != 0
}

// Participant is one player in the session
type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seat       int    `json:"seat"`
	Alive      bool   `json:"alive"`
	DeathCause string `json:"death_cause,omitempty"`
	Role       string `json:"role,omitempty"`

	// Selection state for the instance the participant is currently answering
	Cursor    *string `json:"cursor,omitempty"`
	Confirmed *string `json:"confirmed,omitempty"`
	Abstained bool    `json:"abstained"`
	// IdleScrollIndex is the icon slot the terminal selected while idle
	IdleScrollIndex int `json:"idle_scroll_index"`

	// PendingEvents is ordered by the time the participant was added to each instance
	PendingEvents []string       `json:"pending_events"`
	Inventory     []ItemInstance `json:"inventory"`
	LinkedTo      string         `json:"linked_to,omitempty"`

	// Transient per-phase flags
	Blocked   bool `json:"blocked"`
	Protected bool `json:"protected"`

	Connected bool `json:"connected"`
}

// ClearSelection drops the cursor, confirmed choice and abstain flag.
func (p *Participant) ClearSelection() {
	p.Cursor = nil
	p.Confirmed = nil
	p.Abstained = false
}

// HasPending reports whether the participant is awaiting a response for eventID.
func (p *Participant) HasPending(eventID string) bool {
	for _, id := range p.PendingEvents {
		if id == eventID {
			return true
		}
	}
	return false
}

// AddPending appends eventID to the pending list if absent.
func (p *Participant) AddPending(eventID string) {
	if !p.HasPending(eventID) {
		p.PendingEvents = append(p.PendingEvents, eventID)
	}
}

// RemovePending removes eventID from the pending list.
func (p *Participant) RemovePending(eventID string) {
	out := p.PendingEvents[:0]
	for _, id := range p.PendingEvents {
		if id != eventID {
			out = append(out, id)
		}
	}
	p.PendingEvents = out
}

// FindItem returns the index of the first usable instance of itemID, or -1.
func (p *Participant) FindItem(itemID string) int {
	for i, it := range p.Inventory {
		if it.ItemID == itemID && it.Usable() {
			return i
		}
	}
	return -1
}

// ConsumeItem decrements one use of itemID and drops the instance when exhausted.
// Unlimited items are left untouched. Returns false if no usable instance exists.
func (p *Participant) ConsumeItem(itemID string) bool {
	idx := p.FindItem(itemID)
	if idx < 0 {
		return false
	}
	it := &p.Inventory[idx]
	if it.UsesRemaining < 0 {
		return true
	}
	it.UsesRemaining--
	if it.UsesRemaining == 0 {
		p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	}
	return true
}

// Clone returns a deep copy of the participant.
func (p *Participant) Clone() *Participant {
	c := *p
	if p.Cursor != nil {
		v := *p.Cursor
		c.Cursor = &v
	}
	if p.Confirmed != nil {
		v := *p.Confirmed
		c.Confirmed = &v
	}
	c.PendingEvents = append([]string(nil), p.PendingEvents...)
	c.Inventory = append([]ItemInstance(nil), p.Inventory...)
	return &c
}
