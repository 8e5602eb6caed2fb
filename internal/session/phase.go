package session

import (
	"context"
	"fmt"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/resolver"
	"github.com/osse101/nightfall/internal/win"
)

// NextPhase moves day to night, or night to the next day. Running instances
// are discarded. Rejected while an interrupt flow holds the session.
func (s *Session) NextPhase(ctx context.Context) error {
	return s.do(ctx, "next_phase", func(st *state) error { return st.nextPhase() })
}

func (s *state) nextPhase() error {
	if err := s.requireInGame(); err != nil {
		return err
	}
	if f := s.flows.Active(); f != nil {
		return fmt.Errorf("%w: %s must finish first", domain.ErrFlowBusy, f.ID())
	}

	if s.phase == domain.PhaseDay {
		s.phase = domain.PhaseNight
	} else {
		s.phase = domain.PhaseDay
		s.day++
	}
	s.enterPhase()
	return nil
}

// enterPhase clears per-phase state and opens the pending pool for s.phase.
func (s *state) enterPhase() {
	s.discardInstances()
	s.deferred = nil
	for _, p := range s.participants {
		p.Blocked = false
		p.Protected = false
		p.ClearSelection()
		p.PendingEvents = nil
	}
	s.done = make(map[string]bool)
	s.recomputePending()

	s.projection.PushSpec(s.phaseFrame())
	if s.phase == domain.PhaseDay {
		s.logLine(LogLineDayBegins, s.day)
	} else {
		s.logLine(LogLineNightFalls, s.day)
	}
	s.emit(event.NewPhaseChangedEvent(s.phase, s.day))
	s.logger().Info(LogMsgPhaseChanged, "phase", s.phase, "day", s.day)
}

// phaseFrame is the seed frame for the current phase.
func (s *state) phaseFrame() domain.FrameSpec {
	switch s.phase {
	case domain.PhaseLobby:
		return domain.FrameSpec{
			Type:    domain.FrameLobby,
			Payload: map[string]any{"participants": len(s.participants)},
			Jump:    true,
		}
	case domain.PhaseGameOver:
		return domain.FrameSpec{
			Type:    domain.FrameGameOver,
			Payload: map[string]any{"winner": s.winner, "day": s.day},
			Jump:    true,
		}
	default:
		return domain.FrameSpec{
			Type:    domain.FramePhase,
			Payload: map[string]any{"phase": string(s.phase), "day": s.day},
			Jump:    true,
		}
	}
}

// recomputePending rebuilds the pool of events that could start now.
func (s *state) recomputePending() {
	accept := func(a resolver.Actor) bool {
		p, ok := s.participants[a.ID]
		return ok && !p.Blocked
	}
	var out []string
	for _, id := range resolver.OfferableEvents(s, s.phase, accept) {
		if _, active := s.instances[id]; active || s.done[id] {
			continue
		}
		out = append(out, id)
	}
	s.pending = out
}

// afterEffects re-checks the win condition, settles instances touched by
// deaths, and refreshes the pending pool.
func (s *state) afterEffects() {
	s.checkWin()
	if !s.inGame() {
		s.unsettled = nil
		return
	}
	s.settleInstances()
	s.recomputePending()
}

// checkWin ends the game when a team has won. Evaluation waits while an
// interrupt flow is open since its outcome can still change the roster.
func (s *state) checkWin() {
	if !s.inGame() || s.winner != "" || s.flows.Active() != nil {
		return
	}
	w := win.Evaluate(s.roster(), s.catalog.Teams(), s.catalog.TeamOf)
	if w == "" {
		return
	}

	s.winner = w
	s.discardInstances()
	s.deferred = nil
	s.pending = nil
	s.phase = domain.PhaseGameOver
	s.projection.PushSpec(s.phaseFrame())
	s.logLine(LogLineGameOver, w)
	s.emit(event.NewGameOverEvent(w, s.day))
	s.emit(event.NewPhaseChangedEvent(s.phase, s.day))
	s.logger().Info(LogMsgGameOver, "winner", w, "day", s.day)
}
