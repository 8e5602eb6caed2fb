package ws

import (
	"context"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/logger"
)

// Subscribe fans session notifications out to bound terminals.
func (g *Gateway) Subscribe(bus event.Bus) {
	bus.Subscribe(event.SessionUpdated, g.handleSessionUpdated)
	bus.Subscribe(event.PromptIssued, g.handlePromptIssued)
	bus.Subscribe(event.ResultDelivered, g.handleResultDelivered)
	bus.Subscribe(event.PhaseChanged, g.handlePhaseChanged)
}

// handleSessionUpdated refreshes every terminal's display, filtered state
// and the shared player list.
func (g *Gateway) handleSessionUpdated(ctx context.Context, _ event.Event) error {
	terminals := g.terminals()
	if len(terminals) == 0 {
		return nil
	}

	var list *playerListPayload
	if public, err := g.game.Snapshot(""); err == nil {
		list = &playerListPayload{Players: public.Participants}
	}

	for _, t := range terminals {
		playerID := g.playerOf(t)
		if playerID == "" {
			continue
		}
		if display, err := g.game.Display(playerID); err == nil {
			if !g.write(ctx, t, MsgPlayerState, playerStatePayload{Display: display}) {
				continue
			}
		} else {
			logger.FromContext(ctx).Debug(LogMsgDisplayFailed, "participant", playerID, "error", err)
		}
		if snap, err := g.game.Snapshot(playerID); err == nil {
			if !g.write(ctx, t, MsgGameState, snap) {
				continue
			}
		}
		if list != nil {
			g.write(ctx, t, MsgPlayerList, list)
		}
	}
	return nil
}

// handlePromptIssued sends a prompt to its actor. Prompts for offline actors
// are dropped; rejoining re-issues every open prompt.
func (g *Gateway) handlePromptIssued(ctx context.Context, evt event.Event) error {
	prompt, err := event.DecodePayload[domain.Prompt](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgPayloadDecodeError, "type", evt.Type, "error", err)
		return nil
	}
	if t := g.terminalOf(prompt.To); t != nil {
		g.write(ctx, t, MsgEventPrompt, prompt)
	}
	return nil
}

// handleResultDelivered sends a private result, or queues it until the
// participant rejoins.
func (g *Gateway) handleResultDelivered(ctx context.Context, evt event.Event) error {
	result, err := event.DecodePayload[domain.PrivateResult](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgPayloadDecodeError, "type", evt.Type, "error", err)
		return nil
	}
	if t := g.terminalOf(result.To); t != nil && g.write(ctx, t, MsgEventResult, result) {
		return nil
	}
	g.replay.Add(result.To, result)
	logger.FromContext(ctx).Debug(LogMsgResultQueued, "participant", result.To, "event", result.EventID)
	return nil
}

// handlePhaseChanged announces the new phase. Returning to the lobby drops
// results queued for the previous game.
func (g *Gateway) handlePhaseChanged(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.PhaseChangedPayload](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgPayloadDecodeError, "type", evt.Type, "error", err)
		return nil
	}
	if p.Phase == domain.PhaseLobby {
		g.replay.Clear()
	}
	for _, t := range g.terminals() {
		g.write(ctx, t, MsgPhaseChange, phaseChangePayload{Phase: p.Phase, Day: p.Day})
	}
	return nil
}
