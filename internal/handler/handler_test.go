package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/session"
)

type stubReloader struct {
	calls int
	err   error
}

func (s *stubReloader) Reload(context.Context) error {
	s.calls++
	return s.err
}

func newTestAPI(t *testing.T, reloader CatalogReloader) (*session.Session, http.Handler) {
	t.Helper()
	sess := session.New(catalog.Default(), event.NewMemoryBus(), session.Options{Seed: 1})
	r := chi.NewRouter()
	r.Route("/api/v1", NewGameHandler(sess, reloader).RegisterRoutes)
	return sess, r
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func seatThree(t *testing.T, h http.Handler) {
	t.Helper()
	for _, id := range []string{"a", "b", "c"} {
		rec := do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: id})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("%w: x", domain.ErrEventNotFound), http.StatusNotFound, "x"},
		{"invalid state", domain.ErrFlowBusy, http.StatusConflict, domain.ErrMsgFlowBusy},
		{"incomplete", fmt.Errorf("%w: 1 of 3", domain.ErrMissingResponses), http.StatusUnprocessableEntity, domain.ErrMsgMissingResponses},
		{"forbidden", domain.ErrIllegalTarget, http.StatusForbidden, domain.ErrMsgIllegalTarget},
		{"internal hides details", fmt.Errorf("%w: op: boom", domain.ErrInternal), http.StatusInternalServerError, ErrMsgGenericServerError},
		{"unknown hides details", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrMsgGenericServerError},
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestHandleJoin(t *testing.T) {
	_, h := newTestAPI(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: "a", Name: "Ann"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: "a"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, errorOf(t, rec), domain.ErrMsgParticipantExists)

	rec = do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: "bad id!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var verr ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Contains(t, verr.Fields, "id")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMsgInvalidRequest, errorOf(t, rec))
}

func TestHandleLeave(t *testing.T) {
	sess, h := newTestAPI(t, nil)
	seatThree(t, h)

	rec := do(t, h, http.MethodDelete, "/api/v1/participants/b", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, sess.ParticipantIDs(), 2)

	rec = do(t, h, http.MethodDelete, "/api/v1/participants/zed", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStartGame(t *testing.T) {
	_, h := newTestAPI(t, nil)
	seatThree(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/game/start", StartGameRequest{Roles: []string{"werewolf", "werewolf", "villager"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, errorOf(t, rec), domain.ErrMsgInvalidComposition)

	rec = do(t, h, http.MethodPost, "/api/v1/game/start", StartGameRequest{Roles: []string{"werewolf", "villager", "villager"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	assert.Equal(t, 1, snap.Day)
	assert.Equal(t, "werewolf", snap.Participants[0].Role)

	rec = do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleEvents(t *testing.T) {
	sess, h := newTestAPI(t, nil)
	seatThree(t, h)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/game/start",
		StartGameRequest{Roles: []string{"werewolf", "villager", "villager"}}).Code)

	rec := do(t, h, http.MethodPost, "/api/v1/events/nope/start", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/participants/a/selection", SelectionRequest{Target: strPtr("b")})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, errorOf(t, rec), domain.ErrMsgNoActiveEvent)

	rec = do(t, h, http.MethodPost, "/api/v1/events/vote/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/events/vote/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for _, voter := range []string{"a", "b", "c"} {
		target := "a"
		if voter == "a" {
			target = "b"
		}
		rec = do(t, h, http.MethodPost, "/api/v1/participants/"+voter+"/selection", SelectionRequest{EventID: "vote", Target: &target})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/v1/events/vote/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap, err := sess.Snapshot(domain.ViewerHost)
	require.NoError(t, err)
	assert.False(t, snap.Participants[0].Alive)
	assert.Equal(t, "village", snap.Winner)
}

func TestHandleKillAndRevive(t *testing.T) {
	sess, h := newTestAPI(t, nil)
	seatThree(t, h)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/participants", JoinRequest{ID: "d"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/game/start",
		StartGameRequest{Roles: []string{"villager", "werewolf", "villager", "villager"}}).Code)

	rec := do(t, h, http.MethodPost, "/api/v1/participants/a/kill", KillRequest{Cause: "lightning"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap, err := sess.Snapshot(domain.ViewerHost)
	require.NoError(t, err)
	assert.False(t, snap.Participants[0].Alive)
	assert.Equal(t, "lightning", snap.Participants[0].DeathCause)

	rec = do(t, h, http.MethodPost, "/api/v1/participants/a/revive", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/participants/a/display", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var display domain.Display
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &display))
	assert.NotEqual(t, domain.StatusDead, display.StatusLED)

	rec = do(t, h, http.MethodPost, "/api/v1/participants/zed/kill", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGiveItem(t *testing.T) {
	sess, h := newTestAPI(t, nil)
	seatThree(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/participants/a/items", GiveItemRequest{ItemID: "lens"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap, err := sess.Snapshot("a")
	require.NoError(t, err)
	require.Len(t, snap.Participants[0].Inventory, 1)

	rec = do(t, h, http.MethodPost, "/api/v1/participants/a/items", GiveItemRequest{ItemID: "crown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/participants/a/items", GiveItemRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetSession_Viewers(t *testing.T) {
	_, h := newTestAPI(t, nil)
	seatThree(t, h)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/game/start",
		StartGameRequest{Roles: []string{"werewolf", "villager", "villager"}}).Code)

	var host, public domain.Snapshot
	rec := do(t, h, http.MethodGet, "/api/v1/session", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &host))
	assert.Equal(t, domain.ViewerHost, host.Viewer)
	assert.Equal(t, "werewolf", host.Participants[0].Role)

	rec = do(t, h, http.MethodGet, "/api/v1/session?viewer=public", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &public))
	assert.Empty(t, public.Participants[0].Role)
}

func TestHandlePresentation(t *testing.T) {
	_, h := newTestAPI(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/presentation/frames", PushFrameRequest{
		Type:    "narration",
		Payload: map[string]any{"text": "The village sleeps"},
		Jump:    true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var frame domain.Frame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frame))
	assert.Equal(t, "The village sleeps", frame.Payload["text"])

	current := func() int64 {
		rec := do(t, h, http.MethodGet, "/api/v1/presentation", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var state domain.PresentationState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		f, ok := state.CurrentFrame()
		require.True(t, ok)
		return f.ID
	}
	assert.Equal(t, frame.ID, current())

	rec = do(t, h, http.MethodPost, "/api/v1/presentation/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var moved MoveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moved))
	assert.False(t, moved.Moved)

	rec = do(t, h, http.MethodPost, "/api/v1/presentation/retreat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moved))
	if moved.Moved {
		assert.NotEqual(t, frame.ID, current())
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/presentation/advance", nil).Code)
		assert.Equal(t, frame.ID, current())
	}

	rec = do(t, h, http.MethodPost, "/api/v1/presentation/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCatalog(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		_, h := newTestAPI(t, nil)
		rec := do(t, h, http.MethodPost, "/api/v1/catalog/reload", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = do(t, h, http.MethodGet, "/api/v1/catalog", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"werewolf"`)
	})

	t.Run("reload", func(t *testing.T) {
		reloader := &stubReloader{}
		_, h := newTestAPI(t, reloader)
		rec := do(t, h, http.MethodPost, "/api/v1/catalog/reload", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, reloader.calls)
	})

	t.Run("reload outside lobby", func(t *testing.T) {
		reloader := &stubReloader{err: fmt.Errorf("%w: in game", domain.ErrWrongPhase)}
		_, h := newTestAPI(t, reloader)
		rec := do(t, h, http.MethodPost, "/api/v1/catalog/reload", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestHandleReadyz(t *testing.T) {
	ok := HealthCheckFunc(func(context.Context) error { return nil })
	failing := HealthCheckFunc(func(context.Context) error { return errors.New("catalog missing") })

	rec := httptest.NewRecorder()
	HandleReadyz(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HandleReadyz(ok, failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog missing")
}

func TestHandleHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealthz().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", rec.Body.String())
}

func strPtr(s string) *string { return &s }
