package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/logger"
	"github.com/osse101/nightfall/internal/metrics"
)

// Game is the part of the session a terminal drives.
type Game interface {
	Join(ctx context.Context, id, name string) error
	Rejoin(ctx context.Context, id string) error
	SetConnected(ctx context.Context, id string, connected bool) error
	MoveSelection(ctx context.Context, actorID string, delta int) error
	ConfirmCursor(ctx context.Context, actorID string) error
	Abstain(ctx context.Context, actorID string) error
	UseItem(ctx context.Context, actorID, itemID string) error
	IdleScroll(ctx context.Context, actorID string, delta int) error
	Snapshot(viewer string) (domain.Snapshot, error)
	Display(participantID string) (domain.Display, error)
}

// terminal is one upgraded connection. Writes are serialized by writeMu
// because bus handlers and the read loop both send.
type terminal struct {
	id       string
	conn     *websocket.Conn
	writeMu  sync.Mutex
	playerID string
}

func (t *terminal) send(msgType string, payload any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return t.conn.WriteJSON(outbound{Type: msgType, Payload: payload})
}

func (t *terminal) close(code int, reason string) {
	t.writeMu.Lock()
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), time.Now().Add(WriteTimeout))
	t.writeMu.Unlock()
	t.conn.Close()
}

// Gateway serves participant terminals over WebSocket.
type Gateway struct {
	game     Game
	upgrader websocket.Upgrader
	replay   *replayCache

	mu    sync.RWMutex
	bound map[string]*terminal
}

// NewGateway creates a gateway over game. Undelivered private results are
// kept for replayTTL; zero uses DefaultReplayTTL.
func NewGateway(game Game, replayTTL time.Duration) *Gateway {
	if replayTTL <= 0 {
		replayTTL = DefaultReplayTTL
	}
	return &Gateway{
		game: game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  ReadBufferSize,
			WriteBufferSize: WriteBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		replay: newReplayCache(ReplayCacheSize, replayTTL),
		bound:  make(map[string]*terminal),
	}
}

// Handle upgrades the request and runs the read loop until the terminal
// goes away. A non-empty id query parameter joins immediately.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(LogMsgUpgradeFailed, "error", err)
		return
	}

	t := &terminal{id: uuid.New().String(), conn: conn}
	ctx := logger.WithRequestID(context.Background(), t.id)
	log = logger.FromContext(ctx)
	log.Info(LogMsgConnected, "remote", r.RemoteAddr)
	metrics.TerminalsConnected.Inc()
	defer g.disconnect(ctx, t)

	if id := r.URL.Query().Get(QueryParamPlayerID); id != "" {
		g.attach(ctx, t, joinPayload{PlayerID: id})
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn(LogMsgMalformedMessage, "error", err)
			g.sendError(ctx, t, ErrTextMalformed)
			continue
		}
		g.dispatch(ctx, t, msg)
	}
}

func (g *Gateway) dispatch(ctx context.Context, t *terminal, msg inbound) {
	log := logger.FromContext(ctx)

	switch msg.Type {
	case MsgJoin, MsgRejoin:
		var p joinPayload
		if err := msg.decode(&p); err != nil {
			g.sendError(ctx, t, ErrTextMalformed)
			return
		}
		g.attach(ctx, t, p)
		return
	case MsgHeartbeat:
		g.write(ctx, t, MsgHeartbeat, nil)
		return
	case MsgSelectUp, MsgSelectDown, MsgConfirm, MsgAbstain, MsgUseItem, MsgIdleScrollUp, MsgIdleScrollDown:
	default:
		g.sendError(ctx, t, fmt.Sprintf(ErrTextUnknownType, msg.Type))
		return
	}

	playerID := g.playerOf(t)
	if playerID == "" {
		g.sendError(ctx, t, ErrTextNotJoined)
		return
	}

	var err error
	switch msg.Type {
	case MsgSelectUp:
		err = g.game.MoveSelection(ctx, playerID, -1)
	case MsgSelectDown:
		err = g.game.MoveSelection(ctx, playerID, 1)
	case MsgConfirm:
		err = g.game.ConfirmCursor(ctx, playerID)
	case MsgAbstain:
		err = g.game.Abstain(ctx, playerID)
	case MsgIdleScrollUp:
		err = g.game.IdleScroll(ctx, playerID, -1)
	case MsgIdleScrollDown:
		err = g.game.IdleScroll(ctx, playerID, 1)
	case MsgUseItem:
		// an empty item id uses the item under the idle scroll
		var p useItemPayload
		if err = msg.decode(&p); err != nil {
			g.sendError(ctx, t, ErrTextMalformed)
			return
		}
		err = g.game.UseItem(ctx, playerID, p.ItemID)
	}

	if err != nil {
		log.Info(LogMsgCommandRejected, "participant", playerID, "type", msg.Type, "error", err)
		g.sendError(ctx, t, err.Error())
	}
}

// attach binds t to a participant. A participant that already exists, or a
// game already under way, turns the join into a rejoin.
func (g *Gateway) attach(ctx context.Context, t *terminal, p joinPayload) {
	if p.PlayerID == "" {
		g.sendError(ctx, t, ErrTextMissingID)
		return
	}

	previous := g.bind(t, p.PlayerID)

	err := g.game.Join(ctx, p.PlayerID, p.Name)
	if errors.Is(err, domain.ErrParticipantExists) || errors.Is(err, domain.ErrWrongPhase) {
		err = g.game.Rejoin(ctx, p.PlayerID)
	}
	if err != nil {
		g.unbind(t)
		if previous != "" && previous != p.PlayerID {
			g.bind(t, previous)
		}
		g.sendError(ctx, t, err.Error())
		return
	}

	logger.FromContext(ctx).Info(LogMsgBound, "participant", p.PlayerID)
	if !g.write(ctx, t, MsgWelcome, welcomePayload{PlayerID: p.PlayerID, ConnectionID: t.id}) {
		return
	}
	g.pushState(ctx, t, p.PlayerID)

	queued := g.replay.Take(p.PlayerID)
	for _, r := range queued {
		if !g.write(ctx, t, MsgEventResult, r) {
			return
		}
	}
	if len(queued) > 0 {
		logger.FromContext(ctx).Info(LogMsgResultsReplayed, "participant", p.PlayerID, "count", len(queued))
	}
}

// bind attaches t to playerID and returns the participant t was bound to
// before. A terminal already bound to playerID is closed.
func (g *Gateway) bind(t *terminal, playerID string) string {
	g.mu.Lock()
	previous := t.playerID
	if previous != "" && g.bound[previous] == t {
		delete(g.bound, previous)
	}
	old := g.bound[playerID]
	g.bound[playerID] = t
	t.playerID = playerID
	g.mu.Unlock()

	if old != nil && old != t {
		old.close(websocket.ClosePolicyViolation, ErrTextReplaced)
	}
	return previous
}

func (g *Gateway) unbind(t *terminal) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	playerID := t.playerID
	if playerID != "" && g.bound[playerID] == t {
		delete(g.bound, playerID)
	}
	t.playerID = ""
	return playerID
}

func (g *Gateway) playerOf(t *terminal) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return t.playerID
}

func (g *Gateway) terminalOf(playerID string) *terminal {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.bound[playerID]
}

func (g *Gateway) terminals() []*terminal {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*terminal, 0, len(g.bound))
	for _, t := range g.bound {
		out = append(out, t)
	}
	return out
}

// Connected returns the number of terminals bound to a participant.
func (g *Gateway) Connected() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.bound)
}

// Shutdown closes every bound terminal with a going-away frame. Upgraded
// connections are not tracked by http.Server.Shutdown.
func (g *Gateway) Shutdown(ctx context.Context) error {
	terms := g.terminals()
	for _, t := range terms {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.close(websocket.CloseGoingAway, CloseReasonShutdown)
	}
	logger.FromContext(ctx).Info(LogMsgGatewayStopped, "terminals", len(terms))
	return nil
}

func (g *Gateway) disconnect(ctx context.Context, t *terminal) {
	metrics.TerminalsConnected.Dec()
	t.conn.Close()

	g.mu.Lock()
	playerID := t.playerID
	current := playerID != "" && g.bound[playerID] == t
	if current {
		delete(g.bound, playerID)
	}
	g.mu.Unlock()

	logger.FromContext(ctx).Info(LogMsgDisconnected, "participant", playerID)
	if !current {
		return
	}
	if err := g.game.SetConnected(ctx, playerID, false); err != nil && !errors.Is(err, domain.ErrParticipantNotFound) {
		logger.FromContext(ctx).Warn(LogMsgMarkOfflineFailed, "participant", playerID, "error", err)
	}
}

// pushState sends the full picture a terminal needs after binding.
func (g *Gateway) pushState(ctx context.Context, t *terminal, playerID string) {
	if snap, err := g.game.Snapshot(playerID); err == nil {
		if !g.write(ctx, t, MsgGameState, snap) {
			return
		}
	} else {
		logger.FromContext(ctx).Debug(LogMsgSnapshotFailed, "participant", playerID, "error", err)
	}
	if public, err := g.game.Snapshot(""); err == nil {
		if !g.write(ctx, t, MsgPlayerList, playerListPayload{Players: public.Participants}) {
			return
		}
	}
	if display, err := g.game.Display(playerID); err == nil {
		g.write(ctx, t, MsgPlayerState, playerStatePayload{Display: display})
	} else {
		logger.FromContext(ctx).Debug(LogMsgDisplayFailed, "participant", playerID, "error", err)
	}
}

func (g *Gateway) sendError(ctx context.Context, t *terminal, message string) {
	g.write(ctx, t, MsgError, errorPayload{Message: message})
}

// write sends one message and closes the connection on failure so the read
// loop unwinds. It reports whether the write succeeded.
func (g *Gateway) write(ctx context.Context, t *terminal, msgType string, payload any) bool {
	if err := t.send(msgType, payload); err != nil {
		logger.FromContext(ctx).Debug(LogMsgWriteFailed, "type", msgType, "error", err)
		t.conn.Close()
		return false
	}
	return true
}
