package event

import "github.com/osse101/nightfall/internal/domain"

// SessionUpdatedPayload is the payload of SessionUpdated
type SessionUpdatedPayload struct {
	Phase domain.Phase `json:"phase"`
	Day   int          `json:"day"`
}

// PhaseChangedPayload is the payload of PhaseChanged
type PhaseChangedPayload struct {
	Phase domain.Phase `json:"phase"`
	Day   int          `json:"day"`
}

// TimerStartedPayload is the payload of TimerStarted
type TimerStartedPayload struct {
	EventID    string `json:"event_id"`
	Seconds    int    `json:"seconds"`
	Generation int64  `json:"generation"`
}

// EventClosedPayload is the payload of EventClosed
type EventClosedPayload struct {
	EventID string `json:"event_id"`
	Outcome string `json:"outcome"`
}

// RunoffStartedPayload is the payload of RunoffStarted
type RunoffStartedPayload struct {
	EventID    string   `json:"event_id"`
	Round      int      `json:"round"`
	Candidates []string `json:"candidates"`
}

// ParticipantDiedPayload is the payload of ParticipantDied
type ParticipantDiedPayload struct {
	ParticipantID string `json:"participant_id"`
	Cause         string `json:"cause"`
}

// FlowTriggeredPayload is the payload of FlowTriggered
type FlowTriggeredPayload struct {
	FlowID string `json:"flow_id"`
	Hook   string `json:"hook"`
}

// GameOverPayload is the payload of GameOver
type GameOverPayload struct {
	Winner string `json:"winner"`
	Day    int    `json:"day"`
}
