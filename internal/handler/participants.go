package handler

import (
	"context"
	"net/http"
)

// JoinRequest seats a participant in the lobby
type JoinRequest struct {
	ID   string `json:"id" validate:"required,ident,max=64"`
	Name string `json:"name" validate:"max=32,excludesall=\x00\n\r\t"`
}

// KillRequest kills a participant on the host's word
type KillRequest struct {
	Cause string `json:"cause" validate:"omitempty,ident,max=32"`
}

// GiveItemRequest adds an item to a participant's inventory
type GiveItemRequest struct {
	ItemID string `json:"item_id" validate:"required,ident"`
}

// SelectionRequest records a choice on behalf of a participant. An absent
// target abstains.
type SelectionRequest struct {
	EventID string  `json:"event_id" validate:"omitempty,ident"`
	Target  *string `json:"target" validate:"omitempty,ident"`
}

// HandleJoin seats a participant in the lobby
// @Summary Join the lobby
// @Tags participants
// @Accept json
// @Produce json
// @Param request body JoinRequest true "Participant"
// @Success 201 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/participants [post]
func (h *GameHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join"); err != nil {
		return
	}
	if err := h.game.Join(r.Context(), req.ID, req.Name); err != nil {
		respondServiceError(w, r, "join", err)
		return
	}
	respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgParticipantJoined})
}

// HandleLeave removes a participant from the lobby
func (h *GameHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	h.runAndRespond(w, r, "leave", MsgParticipantLeft, func(ctx context.Context) error {
		return h.game.Leave(ctx, id)
	})
}

// HandleKill kills a participant and runs the death cascade
// @Summary Kill a participant
// @Tags participants
// @Accept json
// @Produce json
// @Param id path string true "Participant id"
// @Param request body KillRequest false "Cause of death"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/participants/{id}/kill [post]
func (h *GameHandler) HandleKill(w http.ResponseWriter, r *http.Request) {
	var req KillRequest
	if err := DecodeOptionalRequest(r, w, &req, "Kill"); err != nil {
		return
	}
	id := urlID(r)
	h.runAndRespond(w, r, "kill_player", MsgParticipantKilled, func(ctx context.Context) error {
		return h.game.KillPlayer(ctx, id, req.Cause)
	})
}

// HandleRevive brings a dead participant back
func (h *GameHandler) HandleRevive(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	h.runAndRespond(w, r, "revive_player", MsgParticipantRevived, func(ctx context.Context) error {
		return h.game.RevivePlayer(ctx, id)
	})
}

// HandleGiveItem adds an item to a participant's inventory
func (h *GameHandler) HandleGiveItem(w http.ResponseWriter, r *http.Request) {
	var req GiveItemRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Give item"); err != nil {
		return
	}
	id := urlID(r)
	h.runAndRespond(w, r, "give_item", MsgItemGiven, func(ctx context.Context) error {
		return h.game.GiveItem(ctx, id, req.ItemID)
	})
}

// HandleRecordSelection records a choice for a participant without a terminal
func (h *GameHandler) HandleRecordSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := DecodeOptionalRequest(r, w, &req, "Record selection"); err != nil {
		return
	}
	id := urlID(r)
	h.runAndRespond(w, r, "record_selection", MsgSelectionRecorded, func(ctx context.Context) error {
		return h.game.RecordSelection(ctx, id, req.EventID, req.Target)
	})
}

// HandleGetDisplay renders a participant's terminal display
func (h *GameHandler) HandleGetDisplay(w http.ResponseWriter, r *http.Request) {
	display, err := h.game.Display(urlID(r))
	if err != nil {
		respondServiceError(w, r, "display", err)
		return
	}
	respondJSON(w, http.StatusOK, display)
}
