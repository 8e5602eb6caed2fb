package ws

import (
	"encoding/json"

	"github.com/osse101/nightfall/internal/domain"
)

// inbound is the envelope of every client message.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outbound is the envelope of every server message.
type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type joinPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name,omitempty"`
}

type useItemPayload struct {
	ItemID string `json:"itemId"`
}

type welcomePayload struct {
	PlayerID     string `json:"playerId"`
	ConnectionID string `json:"connectionId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type playerStatePayload struct {
	Display domain.Display `json:"display"`
}

type playerListPayload struct {
	Players []domain.ParticipantView `json:"players"`
}

type phaseChangePayload struct {
	Phase domain.Phase `json:"phase"`
	Day   int          `json:"day"`
}

// decode unmarshals an optional payload. A missing payload leaves v zero.
func (m inbound) decode(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
