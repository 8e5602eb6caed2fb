package handler

import (
	"context"
	"net/http"

	"github.com/osse101/nightfall/internal/domain"
)

// PushFrameRequest appends a frame to the presentation queue
type PushFrameRequest struct {
	Type       string         `json:"type" validate:"required,ident,max=32"`
	Payload    map[string]any `json:"payload"`
	Activation string         `json:"activation" validate:"omitempty,ident"`
	Jump       bool           `json:"jump"`
}

// MoveResponse reports whether the presentation pointer moved
type MoveResponse struct {
	Moved        bool                     `json:"moved"`
	Presentation domain.PresentationState `json:"presentation"`
}

// HandleGetPresentation returns the frame queue and pointer
func (h *GameHandler) HandleGetPresentation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.game.Presentation())
}

// HandleAdvance moves the presentation pointer forward
// @Summary Advance the narrator screen
// @Tags presentation
// @Produce json
// @Success 200 {object} MoveResponse
// @Router /api/v1/presentation/advance [post]
func (h *GameHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "advance", h.game.Advance)
}

// HandleRetreat moves the presentation pointer back
func (h *GameHandler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "retreat", h.game.Retreat)
}

func (h *GameHandler) move(w http.ResponseWriter, r *http.Request, opName string, op func(context.Context) (bool, error)) {
	moved, err := op(r.Context())
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondJSON(w, http.StatusOK, MoveResponse{Moved: moved, Presentation: h.game.Presentation()})
}

// HandlePushFrame appends a host-authored frame
func (h *GameHandler) HandlePushFrame(w http.ResponseWriter, r *http.Request) {
	var req PushFrameRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Push frame"); err != nil {
		return
	}
	frame, err := h.game.PushFrame(r.Context(), domain.FrameSpec{
		Type:       req.Type,
		Payload:    req.Payload,
		Activation: req.Activation,
		Jump:       req.Jump,
	})
	if err != nil {
		respondServiceError(w, r, "push_frame", err)
		return
	}
	respondJSON(w, http.StatusCreated, frame)
}

// HandleResetPresentation clears the queue back to a single phase frame
func (h *GameHandler) HandleResetPresentation(w http.ResponseWriter, r *http.Request) {
	h.runAndRespond(w, r, "reset_presentation", MsgPresentationReset, h.game.ResetPresentation)
}
