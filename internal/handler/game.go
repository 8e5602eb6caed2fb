package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/logger"
)

// HostGame is the session surface the host drives over HTTP.
type HostGame interface {
	Join(ctx context.Context, id, name string) error
	Leave(ctx context.Context, id string) error
	KillPlayer(ctx context.Context, id, cause string) error
	RevivePlayer(ctx context.Context, id string) error
	GiveItem(ctx context.Context, id, itemID string) error
	RecordSelection(ctx context.Context, actorID, eventID string, target *string) error

	StartGame(ctx context.Context, roles []string) error
	NextPhase(ctx context.Context) error
	Reset(ctx context.Context) error

	StartEvent(ctx context.Context, eventID string) error
	StartPendingEvents(ctx context.Context) ([]string, error)
	ResolveEvent(ctx context.Context, eventID string, force bool) error
	SkipEvent(ctx context.Context, eventID string) error
	ResetEvent(ctx context.Context, eventID string) error

	Advance(ctx context.Context) (bool, error)
	Retreat(ctx context.Context) (bool, error)
	PushFrame(ctx context.Context, spec domain.FrameSpec) (domain.Frame, error)
	ResetPresentation(ctx context.Context) error
	Presentation() domain.PresentationState

	Snapshot(viewer string) (domain.Snapshot, error)
	Display(participantID string) (domain.Display, error)
	Catalog() *catalog.Catalog
}

// CatalogReloader rebuilds the catalog from its source file
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// Query parameters and URL params
const (
	QueryParamViewer = "viewer"
	URLParamID       = "id"
)

// GameHandler serves the host API
type GameHandler struct {
	game     HostGame
	reloader CatalogReloader
}

// NewGameHandler creates a host API handler. reloader may be nil when the
// catalog is not backed by a file.
func NewGameHandler(game HostGame, reloader CatalogReloader) *GameHandler {
	return &GameHandler{game: game, reloader: reloader}
}

// StartGameRequest deals roles. An empty list deals the catalog composition.
type StartGameRequest struct {
	Roles []string `json:"roles" validate:"omitempty,dive,required,ident"`
}

// HandleGetSession returns the session as seen by a viewer
// @Summary Session snapshot
// @Description viewer is a participant id, "public", or omitted for the host view
// @Tags session
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Router /api/v1/session [get]
func (h *GameHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	viewer := GetOptionalQueryParam(r, QueryParamViewer, domain.ViewerHost)
	if viewer == "public" {
		viewer = ""
	}
	snap, err := h.game.Snapshot(viewer)
	if err != nil {
		respondServiceError(w, r, "snapshot", err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// HandleStartGame deals roles and opens day 1
// @Summary Start the game
// @Tags game
// @Accept json
// @Produce json
// @Param request body StartGameRequest false "Explicit roles in seat order"
// @Success 200 {object} domain.Snapshot
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/game/start [post]
func (h *GameHandler) HandleStartGame(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if err := DecodeOptionalRequest(r, w, &req, "Start game"); err != nil {
		return
	}
	h.runAndSnapshot(w, r, "start_game", func(ctx context.Context) error {
		return h.game.StartGame(ctx, req.Roles)
	})
}

// HandleNextPhase flips day and night
// @Summary Advance to the next phase
// @Tags game
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Router /api/v1/game/next-phase [post]
func (h *GameHandler) HandleNextPhase(w http.ResponseWriter, r *http.Request) {
	h.runAndSnapshot(w, r, "next_phase", h.game.NextPhase)
}

// HandleReset returns to the lobby keeping the roster
// @Summary Reset to the lobby
// @Tags game
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Router /api/v1/game/reset [post]
func (h *GameHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.runAndSnapshot(w, r, "reset", h.game.Reset)
}

// HandleGetCatalog lists the roles, events and items in use
func (h *GameHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.game.Catalog()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version": c.Version(),
		"roles":   c.Roles(),
		"events":  c.Events(),
		"items":   c.Items(),
	})
}

// HandleReloadCatalog rebuilds the catalog from its file. Only allowed in the lobby.
func (h *GameHandler) HandleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		respondError(w, http.StatusConflict, ErrMsgNoCatalogFile)
		return
	}
	if err := h.reloader.Reload(r.Context()); err != nil {
		respondServiceError(w, r, "reload_catalog", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgCatalogReloaded, Data: h.game.Catalog().Version()})
}

// runAndSnapshot runs a host operation and answers with the host snapshot.
func (h *GameHandler) runAndSnapshot(w http.ResponseWriter, r *http.Request, opName string, op func(ctx context.Context) error) {
	if err := op(r.Context()); err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgOperationDone, "op", opName)

	snap, err := h.game.Snapshot(domain.ViewerHost)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// runAndRespond runs a host operation and answers with a success message.
func (h *GameHandler) runAndRespond(w http.ResponseWriter, r *http.Request, opName, message string, op func(ctx context.Context) error) {
	if err := op(r.Context()); err != nil {
		respondServiceError(w, r, opName, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgOperationDone, "op", opName)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: message})
}

func urlID(r *http.Request) string {
	return chi.URLParam(r, URLParamID)
}
