package session

import (
	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
)

// Snapshot returns the session as seen by viewer: a participant id,
// domain.ViewerHost, or "" for the public narrator view.
func (s *Session) Snapshot(viewer string) (domain.Snapshot, error) {
	var (
		out domain.Snapshot
		err error
	)
	s.read(func(st *state) { out, err = st.snapshot(viewer) })
	return out, err
}

// Catalog returns the catalog in use.
func (s *Session) Catalog() *catalog.Catalog {
	var c *catalog.Catalog
	s.read(func(st *state) { c = st.catalog })
	return c
}

// ParticipantIDs returns participant ids in seat order.
func (s *Session) ParticipantIDs() []string {
	var ids []string
	s.read(func(st *state) {
		for _, p := range st.roster() {
			ids = append(ids, p.ID)
		}
	})
	return ids
}

func (s *state) snapshot(viewer string) (domain.Snapshot, error) {
	host := viewer == domain.ViewerHost
	var self *domain.Participant
	if viewer != "" && !host {
		p, err := s.mustParticipant(viewer)
		if err != nil {
			return domain.Snapshot{}, err
		}
		self = p
	}

	snap := domain.Snapshot{
		Viewer:       viewer,
		Phase:        s.phase,
		Day:          s.day,
		Winner:       s.winner,
		Participants: []domain.ParticipantView{},
		ActiveEvents: []domain.EventProgress{},
	}
	for _, p := range s.roster() {
		snap.Participants = append(snap.Participants, s.viewOf(p, self, host))
	}
	for _, id := range s.instanceOrder {
		inst := s.instances[id]
		if s.canSeeInstance(inst, self, host) {
			snap.ActiveEvents = append(snap.ActiveEvents, s.progress(inst, host))
		}
	}
	if host {
		snap.PendingEvents = append([]string{}, s.pending...)
		snap.Log = append([]string(nil), s.log...)
		if f := s.flows.Active(); f != nil {
			snap.ActiveFlow = f.ID()
		}
	}
	return snap, nil
}

// roleVisible: self and host always; everyone once the target is dead;
// aggressors see fellow aggressors.
func (s *state) roleVisible(target, self *domain.Participant, host bool) bool {
	switch {
	case host:
		return true
	case !target.Alive:
		return true
	case self == nil:
		return false
	case self.ID == target.ID:
		return true
	default:
		return s.catalog.IsAggressor(self.Role) && s.catalog.IsAggressor(target.Role)
	}
}

func (s *state) viewOf(p, self *domain.Participant, host bool) domain.ParticipantView {
	v := domain.ParticipantView{
		ID:         p.ID,
		Name:       p.Name,
		Seat:       p.Seat,
		Alive:      p.Alive,
		DeathCause: p.DeathCause,
		Connected:  p.Connected,
	}
	if s.roleVisible(p, self, host) {
		v.Role = p.Role
		v.Team = s.catalog.TeamOf(p.Role)
	}
	if host || (self != nil && self.ID == p.ID) {
		c := p.Clone()
		v.Cursor = c.Cursor
		v.Confirmed = c.Confirmed
		v.Abstained = c.Abstained
		v.PendingEvents = c.PendingEvents
		v.Inventory = c.Inventory
		v.LinkedTo = c.LinkedTo
		v.Blocked = c.Blocked
		v.Protected = c.Protected
	}
	return v
}

// canSeeInstance: the host sees everything, actors see their own instances,
// and everyone sees public day votes.
func (s *state) canSeeInstance(inst *domain.EventInstance, self *domain.Participant, host bool) bool {
	if host {
		return true
	}
	if self != nil && inst.HasParticipant(self.ID) {
		return true
	}
	if inst.IsFlow() {
		return false
	}
	ev, ok := s.catalog.Event(inst.EventID)
	return ok && ev.Aggregation == domain.AggregationMajority && ev.InPhase(domain.PhaseDay)
}

func (s *state) progress(inst *domain.EventInstance, host bool) domain.EventProgress {
	pr := domain.EventProgress{
		EventID:   inst.EventID,
		Name:      s.eventName(inst.EventID),
		Responded: len(inst.Results),
		Total:     len(inst.Participants),
		Runoff:    inst.Runoff,
		FlowID:    inst.FlowID,
	}
	if inst.IsFlow() && s.flowRequest != nil {
		pr.Name = s.flowRequest.Name
	}
	if host {
		pr.Results = make(map[string]*string, len(inst.Results))
		for actor, target := range inst.Results {
			if target == nil {
				pr.Results[actor] = nil
				continue
			}
			t := *target
			pr.Results[actor] = &t
		}
	}
	return pr
}
