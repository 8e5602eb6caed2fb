// Package session is the authoritative game state and the only writer of it.
// Every exported operation takes the session lock, runs to completion, and
// publishes the notifications it produced after the lock is released.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/death"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/flow"
	"github.com/osse101/nightfall/internal/logger"
	"github.com/osse101/nightfall/internal/presentation"
)

// Options tunes a session.
type Options struct {
	// RunoffLimit is the number of tied runoff rounds before a random pick.
	RunoffLimit int
	// Seed seeds the tie-break and role-deal randomness. 0 seeds from the clock.
	Seed int64
	// FlowTimer is the countdown in seconds for interrupt flow prompts. 0 uses
	// the default, a negative value disables it.
	FlowTimer int
}

func (o Options) withDefaults() Options {
	if o.RunoffLimit <= 0 {
		o.RunoffLimit = domain.DefaultRunoffLimit
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.FlowTimer == 0 {
		o.FlowTimer = DefaultFlowTimerSeconds
	}
	return o
}

// Session is the mutex-guarded facade over the game state
type Session struct {
	mu  sync.Mutex
	st  *state
	bus event.Bus
}

// New creates a session in the lobby.
func New(c *catalog.Catalog, bus event.Bus, opts Options) *Session {
	return &Session{st: newState(c, opts.withDefaults()), bus: bus}
}

// state holds everything the session owns. It is only touched under Session.mu.
type state struct {
	catalog *catalog.Catalog
	opts    Options
	rng     *rand.Rand

	phase        domain.Phase
	day          int
	participants map[string]*domain.Participant
	seatCounter  int
	winner       string
	log          []string

	instances     map[string]*domain.EventInstance
	instanceOrder []string
	pending       []string
	done          map[string]bool
	generation    int64

	flows      *flow.Engine
	deaths     *death.Processor
	projection *presentation.Projection
	// deferred holds death hooks that arrived while another flow was active.
	deferred    []flow.Context
	flowRequest *flow.PromptRequest
	// unsettled lists instances a death changed, settled after the cascade.
	unsettled []string

	// ctx is the context of the operation in progress, for logging.
	ctx context.Context

	outbox          []event.Event
	presentationRev int
}

func newState(c *catalog.Catalog, opts Options) *state {
	s := &state{
		catalog:      c,
		opts:         opts,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		phase:        domain.PhaseLobby,
		participants: make(map[string]*domain.Participant),
		instances:    make(map[string]*domain.EventInstance),
		done:         make(map[string]bool),
	}
	s.flows = flow.NewEngine(flow.NewLastWords(s), flow.NewOverride(s))
	s.deaths = death.NewProcessor(s, s)
	s.projection = presentation.New(s.onActivate)
	s.projection.Reset(s.phaseFrame())
	return s
}

// presentationMark captures enough of the projection to detect a change.
type presentationMark struct {
	length  int
	current int
	lastID  int64
	rev     int
}

func (s *state) markPresentation() presentationMark {
	m := presentationMark{length: s.projection.Len(), current: s.projection.CurrentIndex(), rev: s.presentationRev}
	if q := s.projection.Queue(); len(q) > 0 {
		m.lastID = q[len(q)-1].ID
	}
	return m
}

// do runs fn under the lock, converts panics to ErrInternal, and publishes
// the collected notifications once the lock is released.
func (s *Session) do(ctx context.Context, op string, fn func(st *state) error) (err error) {
	s.mu.Lock()
	st := s.st
	st.ctx = ctx
	before := st.markPresentation()

	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(ctx).Error(LogMsgOperationPanicked,
					"op", op, "panic", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("%w: %s: %v", domain.ErrInternal, op, r)
			}
		}()
		err = fn(st)
	}()

	if err == nil {
		st.emit(event.NewSessionUpdatedEvent(st.phase, st.day))
	}
	if st.markPresentation() != before {
		st.emit(event.NewPresentationUpdatedEvent(st.projection.State()))
	}
	out := st.outbox
	st.outbox = nil
	st.ctx = nil
	s.mu.Unlock()

	s.publish(ctx, out)
	return err
}

// read runs fn under the lock without producing notifications.
func (s *Session) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}

func (s *Session) publish(ctx context.Context, events []event.Event) {
	if s.bus == nil {
		return
	}
	for _, e := range events {
		if err := s.bus.Publish(ctx, e); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", e.Type, "error", err)
		}
	}
}

func (s *state) logger() *slog.Logger {
	if s.ctx == nil {
		return slog.Default()
	}
	return logger.FromContext(s.ctx)
}

func (s *state) emit(e event.Event) {
	s.outbox = append(s.outbox, e)
}

func (s *state) logLine(format string, args ...any) {
	if len(args) == 0 {
		s.log = append(s.log, format)
		return
	}
	s.log = append(s.log, fmt.Sprintf(format, args...))
}

// Phase implements catalog.View.
func (s *state) Phase() domain.Phase { return s.phase }

// Day implements catalog.View.
func (s *state) Day() int { return s.day }

// Catalog implements catalog.View.
func (s *state) Catalog() *catalog.Catalog { return s.catalog }

// Participant implements catalog.View, flow.Host and death.Roster.
func (s *state) Participant(id string) (*domain.Participant, bool) {
	p, ok := s.participants[id]
	return p, ok
}

// Living implements catalog.View and flow.Host.
func (s *state) Living() []*domain.Participant {
	var out []*domain.Participant
	for _, p := range s.roster() {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// roster returns every participant in seat order.
func (s *state) roster() []*domain.Participant {
	out := make([]*domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seat < out[j].Seat })
	return out
}

func (s *state) name(id string) string {
	if p, ok := s.participants[id]; ok {
		return p.Name
	}
	return id
}

func (s *state) inGame() bool {
	return s.phase == domain.PhaseDay || s.phase == domain.PhaseNight
}

func (s *state) requireInGame() error {
	if !s.inGame() {
		return fmt.Errorf("%w: session is in %s", domain.ErrWrongPhase, s.phase)
	}
	return nil
}

func (s *state) requireLobby() error {
	if s.phase != domain.PhaseLobby {
		return fmt.Errorf("%w: only allowed in the lobby, session is in %s", domain.ErrWrongPhase, s.phase)
	}
	return nil
}

func (s *state) mustParticipant(id string) (*domain.Participant, error) {
	p, ok := s.participants[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrParticipantNotFound, id)
	}
	return p, nil
}
