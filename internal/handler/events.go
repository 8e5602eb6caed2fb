package handler

import (
	"context"
	"net/http"
)

// ResolveRequest finalizes an event. Force resolves without waiting for
// missing answers.
type ResolveRequest struct {
	Force bool `json:"force"`
}

// StartPendingResponse lists the events that actually started
type StartPendingResponse struct {
	Started []string `json:"started"`
}

// HandleStartEvent opens an event for every eligible actor
// @Summary Start an event
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/events/{id}/start [post]
func (h *GameHandler) HandleStartEvent(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	h.runAndRespond(w, r, "start_event", MsgEventStarted, func(ctx context.Context) error {
		return h.game.StartEvent(ctx, id)
	})
}

// HandleStartPending starts every pending event of the phase
func (h *GameHandler) HandleStartPending(w http.ResponseWriter, r *http.Request) {
	started, err := h.game.StartPendingEvents(r.Context())
	if err != nil {
		respondServiceError(w, r, "start_pending_events", err)
		return
	}
	if started == nil {
		started = []string{}
	}
	respondJSON(w, http.StatusOK, StartPendingResponse{Started: started})
}

// HandleResolveEvent finalizes a running event
// @Summary Resolve an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param request body ResolveRequest false "Force resolution"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing responses"
// @Router /api/v1/events/{id}/resolve [post]
func (h *GameHandler) HandleResolveEvent(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := DecodeOptionalRequest(r, w, &req, "Resolve event"); err != nil {
		return
	}
	id := urlID(r)
	h.runAndRespond(w, r, "resolve_event", MsgEventResolved, func(ctx context.Context) error {
		return h.game.ResolveEvent(ctx, id, req.Force)
	})
}

// HandleSkipEvent drops a pending or running event for the phase
func (h *GameHandler) HandleSkipEvent(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	h.runAndRespond(w, r, "skip_event", MsgEventSkipped, func(ctx context.Context) error {
		return h.game.SkipEvent(ctx, id)
	})
}

// HandleResetEvent clears every answer of a running event
func (h *GameHandler) HandleResetEvent(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	h.runAndRespond(w, r, "reset_event", MsgEventReset, func(ctx context.Context) error {
		return h.game.ResetEvent(ctx, id)
	})
}
