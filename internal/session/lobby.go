package session

import (
	"context"
	"fmt"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
)

// Join adds a participant to the lobby with the next seat number.
func (s *Session) Join(ctx context.Context, id, name string) error {
	return s.do(ctx, "join", func(st *state) error { return st.join(id, name) })
}

// Rejoin marks a known participant connected again and re-sends the prompts
// it still owes an answer to.
func (s *Session) Rejoin(ctx context.Context, id string) error {
	return s.do(ctx, "rejoin", func(st *state) error { return st.rejoin(id) })
}

// Leave removes a participant. Only allowed in the lobby.
func (s *Session) Leave(ctx context.Context, id string) error {
	return s.do(ctx, "leave", func(st *state) error { return st.leave(id) })
}

// SetConnected records the transport connection state of a participant.
func (s *Session) SetConnected(ctx context.Context, id string, connected bool) error {
	return s.do(ctx, "set_connected", func(st *state) error {
		p, err := st.mustParticipant(id)
		if err != nil {
			return err
		}
		p.Connected = connected
		return nil
	})
}

// StartGame deals roles and opens day 1. With no roles the catalog composition
// is dealt at random; otherwise roles are assigned in seat order.
func (s *Session) StartGame(ctx context.Context, roles []string) error {
	return s.do(ctx, "start_game", func(st *state) error { return st.startGame(roles) })
}

// Reset returns to the lobby keeping the roster and renumbering seats.
func (s *Session) Reset(ctx context.Context) error {
	return s.do(ctx, "reset", func(st *state) error {
		st.reset()
		return nil
	})
}

// ReloadCatalog swaps the catalog. Only allowed in the lobby.
func (s *Session) ReloadCatalog(ctx context.Context, c *catalog.Catalog) error {
	return s.do(ctx, "reload_catalog", func(st *state) error {
		if err := st.requireLobby(); err != nil {
			return err
		}
		st.catalog = c
		st.logger().Info(LogMsgCatalogReplaced, "version", c.Version())
		return nil
	})
}

// GiveItem adds a fresh instance of itemID to a participant's inventory.
func (s *Session) GiveItem(ctx context.Context, id, itemID string) error {
	return s.do(ctx, "give_item", func(st *state) error { return st.giveItem(id, itemID) })
}

func (s *state) join(id, name string) error {
	if err := s.requireLobby(); err != nil {
		return err
	}
	if id == "" || id == domain.ViewerHost {
		return fmt.Errorf("%w: %q", domain.ErrInvalidParticipantID, id)
	}
	if _, exists := s.participants[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrParticipantExists, id)
	}
	if name == "" {
		name = id
	}

	s.seatCounter++
	s.participants[id] = &domain.Participant{
		ID:        id,
		Name:      name,
		Seat:      s.seatCounter,
		Alive:     true,
		Connected: true,
	}
	s.logLine(LogLineJoined, name)
	return nil
}

func (s *state) rejoin(id string) error {
	p, err := s.mustParticipant(id)
	if err != nil {
		return err
	}
	p.Connected = true
	for _, eventID := range s.instanceOrder {
		inst := s.instances[eventID]
		if inst.HasParticipant(id) && !inst.Responded(id) {
			s.emit(event.NewPromptIssuedEvent(s.prompt(inst, p)))
		}
	}
	return nil
}

func (s *state) leave(id string) error {
	if err := s.requireLobby(); err != nil {
		return err
	}
	p, err := s.mustParticipant(id)
	if err != nil {
		return err
	}
	delete(s.participants, id)
	s.logLine(LogLineLeft, p.Name)
	return nil
}

func (s *state) startGame(roles []string) error {
	if err := s.requireLobby(); err != nil {
		return err
	}
	players := s.roster()
	n := len(players)

	if len(roles) == 0 {
		dealt, err := s.catalog.Composition(n)
		if err != nil {
			return err
		}
		s.rng.Shuffle(len(dealt), func(i, j int) { dealt[i], dealt[j] = dealt[j], dealt[i] })
		roles = dealt
	} else if err := s.catalog.ValidateRoles(roles, n); err != nil {
		return err
	}

	aggressors := 0
	for _, r := range roles {
		if s.catalog.IsAggressor(r) {
			aggressors++
		}
	}
	if aggressors == 0 || aggressors >= n-aggressors {
		return fmt.Errorf("%w: %d aggressors among %d participants decides the game at once",
			domain.ErrInvalidComposition, aggressors, n)
	}

	for i, p := range players {
		*p = domain.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Alive:     true,
			Role:      roles[i],
			Connected: p.Connected,
		}
	}

	s.winner = ""
	s.day = 1
	s.phase = domain.PhaseDay
	s.log = nil
	s.logLine(LogLineGameStarted, n)
	s.enterPhase()
	s.logger().Info(LogMsgGameStarted, "participants", n, "catalog", s.catalog.Version())
	return nil
}

func (s *state) reset() {
	s.discardInstances()
	s.deaths.Reset()
	s.deferred = nil

	s.seatCounter = 0
	for _, p := range s.roster() {
		s.seatCounter++
		*p = domain.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      s.seatCounter,
			Alive:     true,
			Connected: p.Connected,
		}
	}

	s.phase = domain.PhaseLobby
	s.day = 0
	s.winner = ""
	s.log = nil
	s.pending = nil
	s.done = make(map[string]bool)
	s.projection.Reset(s.phaseFrame())
	s.emit(event.NewPhaseChangedEvent(s.phase, s.day))
	s.logger().Info(LogMsgSessionReset, "participants", len(s.participants))
}

func (s *state) giveItem(id, itemID string) error {
	p, err := s.mustParticipant(id)
	if err != nil {
		return err
	}
	def, ok := s.catalog.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	p.Inventory = append(p.Inventory, domain.ItemInstance{
		ItemID:        def.ID,
		UsesRemaining: def.MaxUses,
		MaxUses:       def.MaxUses,
	})
	s.logLine(LogLineItemGiven, p.Name, def.Name)
	s.emit(event.NewResultDeliveredEvent(domain.PrivateResult{
		To:      p.ID,
		Message: fmt.Sprintf(PrivateItemReceived, def.Name),
		Payload: map[string]any{"item": def.ID},
	}))
	if s.inGame() {
		s.recomputePending()
	}
	return nil
}
