package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
	"github.com/osse101/nightfall/internal/flow"
)

// recordingBus keeps every published event for inspection.
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, e event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) ofType(t event.Type) []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []event.Event
	for _, e := range b.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (b *recordingBus) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

var playerNames = []string{"Ann", "Bob", "Cid", "Dee", "Eve", "Fay", "Gus"}

func target(id string) *string { return &id }

// newGame seats one participant per role (ids a, b, c...) and starts day 1.
func newGame(t *testing.T, roles ...string) (*Session, *recordingBus) {
	t.Helper()
	bus := &recordingBus{}
	s := New(catalog.Default(), bus, Options{Seed: 1})
	ctx := context.Background()
	for i := range roles {
		id := string(rune('a' + i))
		require.NoError(t, s.Join(ctx, id, playerNames[i]))
	}
	require.NoError(t, s.StartGame(ctx, roles))
	return s, bus
}

func vote(t *testing.T, s *Session, actor, choice string) {
	t.Helper()
	var tgt *string
	if choice != "" {
		tgt = target(choice)
	}
	require.NoError(t, s.RecordSelection(context.Background(), actor, catalog.EventVote, tgt))
}

func participant(t *testing.T, snap domain.Snapshot, id string) domain.ParticipantView {
	t.Helper()
	for _, p := range snap.Participants {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("participant %s not in snapshot", id)
	return domain.ParticipantView{}
}

func hostView(t *testing.T, s *Session) domain.Snapshot {
	t.Helper()
	snap, err := s.Snapshot(domain.ViewerHost)
	require.NoError(t, err)
	return snap
}

func closedOutcome(t *testing.T, bus *recordingBus, eventID string) string {
	t.Helper()
	var outcome string
	for _, e := range bus.ofType(event.EventClosed) {
		p, err := event.DecodePayload[event.EventClosedPayload](e.Payload)
		require.NoError(t, err)
		if p.EventID == eventID {
			outcome = p.Outcome
		}
	}
	return outcome
}

func TestLobby_JoinAssignsSeats(t *testing.T) {
	s := New(catalog.Default(), nil, Options{Seed: 1})
	ctx := context.Background()

	require.NoError(t, s.Join(ctx, "a", "Ann"))
	require.NoError(t, s.Join(ctx, "b", ""))

	err := s.Join(ctx, "a", "Again")
	assert.ErrorIs(t, err, domain.ErrParticipantExists)
	assert.ErrorIs(t, s.Join(ctx, domain.ViewerHost, "x"), domain.ErrInvalidParticipantID)

	snap := hostView(t, s)
	require.Len(t, snap.Participants, 2)
	assert.Equal(t, 1, snap.Participants[0].Seat)
	assert.Equal(t, "b", snap.Participants[1].Name)
	assert.Equal(t, domain.PhaseLobby, snap.Phase)
}

func TestStartGame_RejectsDecidedComposition(t *testing.T) {
	s := New(catalog.Default(), nil, Options{Seed: 1})
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Join(ctx, id, id))
	}

	err := s.StartGame(ctx, []string{catalog.RoleWerewolf, catalog.RoleWerewolf, catalog.RoleVillager, catalog.RoleVillager})
	assert.ErrorIs(t, err, domain.ErrInvalidComposition)

	err = s.StartGame(ctx, []string{catalog.RoleVillager, catalog.RoleVillager})
	assert.ErrorIs(t, err, domain.ErrInvalidComposition)

	assert.Equal(t, domain.PhaseLobby, hostView(t, s).Phase)
}

func TestStartGame_DealsComposition(t *testing.T) {
	s := New(catalog.Default(), nil, Options{Seed: 7})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Join(ctx, string(rune('a'+i)), playerNames[i]))
	}
	require.NoError(t, s.StartGame(ctx, nil))

	snap := hostView(t, s)
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	assert.Equal(t, 1, snap.Day)
	counts := map[string]int{}
	for _, p := range snap.Participants {
		counts[p.Role]++
	}
	assert.Equal(t, 1, counts[catalog.RoleWerewolf])
	assert.Equal(t, 1, counts[catalog.RoleSeer])
	assert.Equal(t, 3, counts[catalog.RoleVillager])
	assert.Equal(t, []string{catalog.EventVote}, snap.PendingEvents)
}

func TestVote_EliminatesAggressorAndVillageWins(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "a")
	vote(t, s, "d", "a")
	vote(t, s, "e", "a")
	vote(t, s, "a", "")
	vote(t, s, "b", "")

	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	wolf := participant(t, snap, "a")
	assert.False(t, wolf.Alive)
	assert.Equal(t, domain.CauseEliminated, wolf.DeathCause)
	assert.Equal(t, catalog.TeamVillage, snap.Winner)
	assert.Equal(t, domain.PhaseGameOver, snap.Phase)
	assert.Empty(t, snap.ActiveEvents)
	assert.Equal(t, domain.OutcomeEliminated, closedOutcome(t, bus, catalog.EventVote))
	assert.Len(t, bus.ofType(event.GameOver), 1)

	pres := s.Presentation()
	last := pres.Frames[len(pres.Frames)-1]
	assert.Equal(t, domain.FrameGameOver, last.Type)
	assert.Equal(t, len(pres.Frames)-1, pres.Current)
}

func TestVote_DeathFrameComesBeforeTally(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "d")
	vote(t, s, "a", "d")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	frames := s.Presentation().Frames
	require.GreaterOrEqual(t, len(frames), 3)
	n := len(frames)
	assert.Equal(t, domain.FrameDeath, frames[n-2].Type)
	assert.Equal(t, "d", frames[n-2].Payload["participant"])
	assert.Equal(t, domain.FrameTally, frames[n-1].Type)
}

func TestStartEvent_Rejections(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	err := s.ResolveEvent(ctx, catalog.EventKill, false)
	assert.ErrorIs(t, err, domain.ErrEventNotActive)

	err = s.StartEvent(ctx, catalog.EventVote)
	assert.ErrorIs(t, err, domain.ErrEventAlreadyActive)

	err = s.StartEvent(ctx, catalog.EventKill)
	assert.ErrorIs(t, err, domain.ErrWrongPhase)
}

func TestVote_IllegalTargetRejected(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))

	err := s.RecordSelection(ctx, "c", catalog.EventVote, target("c"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)

	err = s.RecordSelection(ctx, "c", catalog.EventVote, target("zz"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)

	err = s.RecordSelection(ctx, "nobody", catalog.EventVote, target("a"))
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestVote_TieStartsRunoffWithTiedTargets(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "a", "c")
	vote(t, s, "b", "c")
	vote(t, s, "c", "a")
	vote(t, s, "d", "a")
	bus.reset()

	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	require.Len(t, snap.ActiveEvents, 1)
	runoff := snap.ActiveEvents[0].Runoff
	require.NotNil(t, runoff)
	assert.Equal(t, 1, runoff.Round)
	assert.Equal(t, []string{"a", "c"}, runoff.Candidates)
	for _, p := range snap.Participants {
		assert.True(t, p.Alive)
	}

	var bTargets []string
	for _, e := range bus.ofType(event.PromptIssued) {
		pr, err := event.DecodePayload[domain.Prompt](e.Payload)
		require.NoError(t, err)
		if pr.To != "b" {
			continue
		}
		require.NotNil(t, pr.Runoff)
		for _, opt := range pr.Targets {
			bTargets = append(bTargets, opt.ID)
		}
	}
	assert.Equal(t, []string{"a", "c"}, bTargets)
	assert.Len(t, bus.ofType(event.RunoffStarted), 1)

	// a tied candidate has a single legal target left and is locked in
	assert.Equal(t, "c", *participant(t, snap, "a").Confirmed)
}

func TestVote_RandomPickAfterRunoffLimit(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "a", "c")
	vote(t, s, "b", "c")
	vote(t, s, "c", "a")
	vote(t, s, "d", "a")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	for round := 1; round <= domain.DefaultRunoffLimit; round++ {
		snap := hostView(t, s)
		require.Len(t, snap.ActiveEvents, 1)
		require.NotNil(t, snap.ActiveEvents[0].Runoff)
		assert.Equal(t, round, snap.ActiveEvents[0].Runoff.Round)

		vote(t, s, "b", "a")
		vote(t, s, "d", "c")
		require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))
	}

	snap := hostView(t, s)
	dead := 0
	for _, p := range snap.Participants {
		if !p.Alive {
			dead++
			assert.Contains(t, []string{"a", "c"}, p.ID)
		}
	}
	assert.Equal(t, 1, dead)
	assert.Contains(t, strings.Join(snap.Log, "\n"), "fate chose")
}

func TestVote_NoVotesNoElimination(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Abstain(ctx, id))
	}
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	for _, p := range snap.Participants {
		assert.True(t, p.Alive)
	}
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	assert.Empty(t, snap.PendingEvents)
	assert.Equal(t, domain.OutcomeNoWinner, closedOutcome(t, bus, catalog.EventVote))
}

func TestKillPlayer_LinkedPartnerDiesOfHeartbreak(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	s.read(func(st *state) {
		st.participants["c"].LinkedTo = "d"
		st.participants["d"].LinkedTo = "c"
	})
	before := len(s.Presentation().Frames)

	require.NoError(t, s.KillPlayer(ctx, "c", ""))

	frames := s.Presentation().Frames
	require.Len(t, frames, before+2)
	assert.Equal(t, domain.FrameDeath, frames[before].Type)
	assert.Equal(t, "c", frames[before].Payload["participant"])
	assert.Equal(t, domain.CauseHost, frames[before].Payload["cause"])
	assert.Equal(t, "d", frames[before+1].Payload["participant"])
	assert.Equal(t, domain.CauseHeartbreak, frames[before+1].Payload["cause"])
	assert.Equal(t, domain.ActivationRevealDeath, frames[before+1].Activation)

	died := bus.ofType(event.ParticipantDied)
	require.Len(t, died, 2)
	second, err := event.DecodePayload[event.ParticipantDiedPayload](died[1].Payload)
	require.NoError(t, err)
	assert.Equal(t, "d", second.ParticipantID)

	// killing the dead changes nothing
	require.NoError(t, s.KillPlayer(ctx, "c", ""))
	assert.Len(t, s.Presentation().Frames, before+2)
}

func TestKillPlayer_SuccessionPromotesApprentice(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleApprentice, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.KillPlayer(ctx, "b", domain.CauseKilled))

	snap := hostView(t, s)
	assert.Equal(t, catalog.RoleSeer, participant(t, snap, "c").Role)
	var promoted bool
	for _, e := range bus.ofType(event.ResultDelivered) {
		r, err := event.DecodePayload[domain.PrivateResult](e.Payload)
		require.NoError(t, err)
		if r.To == "c" && r.Payload["role"] == catalog.RoleSeer {
			promoted = true
		}
	}
	assert.True(t, promoted)
}

func TestLastWords_EliminatedHunterTakesSomeoneDown(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleHunter,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "b")
	vote(t, s, "d", "b")
	vote(t, s, "e", "b")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	assert.False(t, participant(t, snap, "b").Alive)
	assert.Equal(t, flow.IDLastWords, snap.ActiveFlow)
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	require.Len(t, snap.ActiveEvents, 1)
	assert.Equal(t, FlowInstancePrefix+flow.IDLastWords, snap.ActiveEvents[0].EventID)
	assert.Len(t, bus.ofType(event.FlowTriggered), 1)

	// the flow blocks phase changes until it finishes
	assert.ErrorIs(t, s.NextPhase(ctx), domain.ErrFlowBusy)

	require.NoError(t, s.RecordSelection(ctx, "b", "", target("a")))

	snap = hostView(t, s)
	wolf := participant(t, snap, "a")
	assert.False(t, wolf.Alive)
	assert.Equal(t, domain.CauseLastWords, wolf.DeathCause)
	assert.Empty(t, snap.ActiveFlow)
	assert.Equal(t, catalog.TeamVillage, snap.Winner)
}

func TestLastWords_TimeoutLosesTheShot(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleHunter,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.KillPlayer(ctx, "b", domain.CauseKilled))
	flowID := FlowInstancePrefix + flow.IDLastWords

	assert.ErrorIs(t, s.ResolveEvent(ctx, flowID, false), domain.ErrMissingResponses)

	var gen int64
	for _, e := range bus.ofType(event.TimerStarted) {
		p, err := event.DecodePayload[event.TimerStartedPayload](e.Payload)
		require.NoError(t, err)
		if p.EventID == flowID {
			gen = p.Generation
		}
	}
	require.NotZero(t, gen)
	require.NoError(t, s.ExpireEvent(ctx, flowID, gen))

	snap := hostView(t, s)
	assert.Empty(t, snap.ActiveFlow)
	assert.Empty(t, snap.ActiveEvents)
	alive := 0
	for _, p := range snap.Participants {
		if p.Alive {
			alive++
		}
	}
	assert.Equal(t, 4, alive)
}

func TestOverride_JudgeSparesTheCondemned(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleJudge,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "d")
	vote(t, s, "a", "d")
	vote(t, s, "e", "d")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	assert.Equal(t, flow.IDOverride, snap.ActiveFlow)
	assert.True(t, participant(t, snap, "d").Alive)
	assert.Equal(t, domain.OutcomeFlow, closedOutcome(t, bus, catalog.EventVote))

	err := s.RecordSelection(ctx, "b", "", nil)
	assert.ErrorIs(t, err, domain.ErrAbstainNotAllowed)

	require.NoError(t, s.RecordSelection(ctx, "b", "", target(domain.OptionSpare)))

	snap = hostView(t, s)
	assert.True(t, participant(t, snap, "d").Alive)
	assert.Empty(t, snap.ActiveFlow)
	assert.Empty(t, snap.PendingEvents)
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	frames := s.Presentation().Frames
	assert.Equal(t, domain.FrameReprieve, frames[len(frames)-1].Type)
}

func TestOverride_ConfirmEliminates(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleJudge,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "a")
	vote(t, s, "d", "a")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))
	require.NoError(t, s.RecordSelection(ctx, "b", "", target(domain.OptionConfirm)))

	snap := hostView(t, s)
	assert.False(t, participant(t, snap, "a").Alive)
	assert.Equal(t, catalog.TeamVillage, snap.Winner)
}

func TestOverride_SkipDiscardsTheVerdict(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleJudge,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "d")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	flowID := FlowInstancePrefix + flow.IDOverride
	assert.ErrorIs(t, s.ResetEvent(ctx, flowID), domain.ErrInvalidState)
	require.NoError(t, s.SkipEvent(ctx, flowID))

	snap := hostView(t, s)
	assert.True(t, participant(t, snap, "d").Alive)
	assert.Empty(t, snap.ActiveFlow)
	require.NoError(t, s.NextPhase(ctx))
}

func TestExpireEvent_IgnoresStaleGeneration(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	timers := bus.ofType(event.TimerStarted)
	require.Len(t, timers, 1)
	timer, err := event.DecodePayload[event.TimerStartedPayload](timers[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, 120, timer.Seconds)

	require.NoError(t, s.ExpireEvent(ctx, catalog.EventVote, timer.Generation-1))
	assert.Len(t, hostView(t, s).ActiveEvents, 1)

	require.NoError(t, s.ExpireEvent(ctx, catalog.EventVote, timer.Generation))
	assert.Empty(t, hostView(t, s).ActiveEvents)

	// a second expiry for a closed instance is ignored
	require.NoError(t, s.ExpireEvent(ctx, catalog.EventVote, timer.Generation))
}

func TestNightKill_AutoResolvesWhenAllAnswered(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleDoctor, catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.NextPhase(ctx))

	snap := hostView(t, s)
	assert.Equal(t, domain.PhaseNight, snap.Phase)
	assert.Equal(t, 1, snap.Day)

	started, err := s.StartPendingEvents(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{catalog.EventProtect, catalog.EventInvestigate, catalog.EventKill}, started)

	require.NoError(t, s.RecordSelection(ctx, "c", catalog.EventProtect, target("d")))
	require.NoError(t, s.RecordSelection(ctx, "b", catalog.EventInvestigate, target("a")))
	require.NoError(t, s.RecordSelection(ctx, "a", catalog.EventKill, target("d")))
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventKill, false))

	snap = hostView(t, s)
	assert.True(t, participant(t, snap, "d").Alive)
	assert.Equal(t, domain.OutcomeProtected, closedOutcome(t, bus, catalog.EventKill))
	assert.Equal(t, domain.OutcomeRevealed, closedOutcome(t, bus, catalog.EventInvestigate))

	require.NoError(t, s.NextPhase(ctx))
	snap = hostView(t, s)
	assert.Equal(t, domain.PhaseDay, snap.Phase)
	assert.Equal(t, 2, snap.Day)
	assert.False(t, participant(t, snap, "d").Protected)
}

func TestMoveSelection_WrapsAndConfirms(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))

	me, err := s.Snapshot("c")
	require.NoError(t, err)
	require.NotNil(t, participant(t, me, "c").Cursor)
	assert.Equal(t, "a", *participant(t, me, "c").Cursor)

	require.NoError(t, s.MoveSelection(ctx, "c", -1))
	me, err = s.Snapshot("c")
	require.NoError(t, err)
	assert.Equal(t, "e", *participant(t, me, "c").Cursor)

	require.NoError(t, s.MoveSelection(ctx, "c", 1))
	require.NoError(t, s.MoveSelection(ctx, "c", 1))
	require.NoError(t, s.ConfirmCursor(ctx, "c"))

	me, err = s.Snapshot("c")
	require.NoError(t, err)
	require.NotNil(t, participant(t, me, "c").Confirmed)
	assert.Equal(t, "b", *participant(t, me, "c").Confirmed)

	// confirming again is a no-op
	require.NoError(t, s.ConfirmCursor(ctx, "c"))
}

func TestUseItem_StartsItsEventAndSpendsAUse(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	assert.ErrorIs(t, s.UseItem(ctx, "c", catalog.ItemPistol), domain.ErrItemNotFound)
	require.NoError(t, s.GiveItem(ctx, "c", catalog.ItemPistol))
	require.NoError(t, s.GiveItem(ctx, "d", catalog.ItemVest))
	assert.ErrorIs(t, s.UseItem(ctx, "d", catalog.ItemVest), domain.ErrItemNotUsable)

	require.NoError(t, s.UseItem(ctx, "c", catalog.ItemPistol))
	require.NoError(t, s.UseItem(ctx, "c", catalog.ItemPistol))
	require.NoError(t, s.RecordSelection(ctx, "c", catalog.EventShoot, target("a")))

	snap := hostView(t, s)
	wolf := participant(t, snap, "a")
	assert.False(t, wolf.Alive)
	assert.Equal(t, domain.CauseShot, wolf.DeathCause)
	assert.Empty(t, participant(t, snap, "c").Inventory)
	assert.Equal(t, domain.OutcomeShot, closedOutcome(t, bus, catalog.EventShoot))
}

func TestSkipAndResetEvent(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	require.NoError(t, s.ResetEvent(ctx, catalog.EventVote))
	assert.Equal(t, domain.OutcomeReset, closedOutcome(t, bus, catalog.EventVote))
	assert.Equal(t, []string{catalog.EventVote}, hostView(t, s).PendingEvents)

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	require.NoError(t, s.SkipEvent(ctx, catalog.EventVote))
	assert.Equal(t, domain.OutcomeSkipped, closedOutcome(t, bus, catalog.EventVote))
	assert.Empty(t, hostView(t, s).PendingEvents)

	assert.ErrorIs(t, s.SkipEvent(ctx, catalog.EventVote), domain.ErrEventNotActive)
}

func TestSnapshot_Visibility(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "a")

	public, err := s.Snapshot("")
	require.NoError(t, err)
	assert.Empty(t, participant(t, public, "a").Role)
	assert.Nil(t, participant(t, public, "c").Confirmed)
	require.Len(t, public.ActiveEvents, 1)
	assert.Nil(t, public.ActiveEvents[0].Results)
	assert.Equal(t, 1, public.ActiveEvents[0].Responded)
	assert.Empty(t, public.Log)

	wolf, err := s.Snapshot("a")
	require.NoError(t, err)
	assert.Equal(t, catalog.RoleWerewolf, participant(t, wolf, "b").Role)
	assert.Empty(t, participant(t, wolf, "c").Role)

	seer, err := s.Snapshot("c")
	require.NoError(t, err)
	assert.Equal(t, catalog.RoleSeer, participant(t, seer, "c").Role)
	assert.Empty(t, participant(t, seer, "a").Role)
	assert.NotNil(t, participant(t, seer, "c").Confirmed)

	host := hostView(t, s)
	assert.Equal(t, catalog.RoleVillager, participant(t, host, "f").Role)
	require.Len(t, host.ActiveEvents, 1)
	assert.Equal(t, "a", *host.ActiveEvents[0].Results["c"])
	assert.NotEmpty(t, host.Log)

	require.NoError(t, s.KillPlayer(ctx, "d", domain.CauseHost))
	public, err = s.Snapshot("")
	require.NoError(t, err)
	assert.Equal(t, catalog.RoleVillager, participant(t, public, "d").Role)

	_, err = s.Snapshot("ghost")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestSnapshot_NightEventsStayPrivate(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.NextPhase(ctx))
	require.NoError(t, s.StartEvent(ctx, catalog.EventKill))

	public, err := s.Snapshot("")
	require.NoError(t, err)
	assert.Empty(t, public.ActiveEvents)

	wolf, err := s.Snapshot("a")
	require.NoError(t, err)
	assert.Len(t, wolf.ActiveEvents, 1)
}

func TestDisplay(t *testing.T) {
	bus := &recordingBus{}
	s := New(catalog.Default(), bus, Options{Seed: 1})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Join(ctx, string(rune('a'+i)), playerNames[i]))
	}

	d, err := s.Display("b")
	require.NoError(t, err)
	assert.Equal(t, "BOB", d.Line1.Left)
	assert.Equal(t, "LOBBY", d.Line1.Right)
	assert.Equal(t, domain.StatusLobby, d.StatusLED)
	assert.Equal(t, "SEAT 2", d.Line3.Text)

	require.NoError(t, s.StartGame(ctx, []string{catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager}))
	d, err = s.Display("b")
	require.NoError(t, err)
	assert.Equal(t, "DAY 1", d.Line1.Right)
	assert.Equal(t, domain.StatusDay, d.StatusLED)
	assert.Equal(t, "SEER", d.Line2.Text)

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	d, err = s.Display("b")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoting, d.StatusLED)
	assert.Equal(t, "ANN", d.Line2.Text)
	assert.Equal(t, "VOTE", d.Line3.Center)
	assert.Equal(t, domain.LEDBright, d.LEDs.Yes)
	assert.Equal(t, domain.LEDDim, d.LEDs.No)

	require.NoError(t, s.Abstain(ctx, "b"))
	d, err = s.Display("b")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbstained, d.StatusLED)
	assert.Equal(t, domain.StyleAbstained, d.Line2.Style)

	require.NoError(t, s.GiveItem(ctx, "c", catalog.ItemLens))
	require.NoError(t, s.KillPlayer(ctx, "c", domain.CauseHost))
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDead, d.StatusLED)
	assert.Equal(t, "HOST", d.Line3.Text)
	assert.Equal(t, []domain.IconSlot{
		{ID: catalog.RoleVillager, State: domain.IconInactive},
		{ID: catalog.ItemLens, State: domain.IconInactive},
		{ID: domain.IconEmpty, State: domain.IconEmpty},
	}, d.Icons)

	_, err = s.Display("ghost")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestRejoin_ResendsOpenPrompts(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "a")
	require.NoError(t, s.SetConnected(ctx, "d", false))
	bus.reset()

	require.NoError(t, s.Rejoin(ctx, "d"))
	require.NoError(t, s.Rejoin(ctx, "c"))

	prompts := bus.ofType(event.PromptIssued)
	require.Len(t, prompts, 1)
	pr, err := event.DecodePayload[domain.Prompt](prompts[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "d", pr.To)
	assert.True(t, participant(t, hostView(t, s), "d").Connected)
}

func TestReset_ReturnsToLobbyKeepingRoster(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	require.NoError(t, s.KillPlayer(ctx, "c", ""))
	require.NoError(t, s.Reset(ctx))

	snap := hostView(t, s)
	assert.Equal(t, domain.PhaseLobby, snap.Phase)
	assert.Len(t, snap.Participants, 5)
	for i, p := range snap.Participants {
		assert.True(t, p.Alive)
		assert.Empty(t, p.Role)
		assert.Equal(t, i+1, p.Seat)
	}
	pres := s.Presentation()
	require.Len(t, pres.Frames, 1)
	assert.Equal(t, domain.FrameLobby, pres.Frames[0].Type)

	assert.ErrorIs(t, s.NextPhase(ctx), domain.ErrWrongPhase)
	require.NoError(t, s.Leave(ctx, "e"))
	assert.Len(t, s.ParticipantIDs(), 4)
}

func TestPresentation_PushAdvanceRetreat(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	start := s.Presentation()

	f, err := s.PushFrame(ctx, domain.FrameSpec{Payload: map[string]any{"text": "hello"}, Activation: domain.ActivationAnnounce})
	require.NoError(t, err)
	assert.Equal(t, domain.FrameNarration, f.Type)

	moved, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, start.Current+1, s.Presentation().Current)
	assert.Len(t, bus.ofType(event.PresentationActivated), 1)

	moved, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = s.Retreat(ctx)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.NotEmpty(t, bus.ofType(event.PresentationUpdated))
}

func TestDo_RecoversPanicAsInternalError(t *testing.T) {
	s := New(catalog.Default(), nil, Options{Seed: 1})
	err := s.do(context.Background(), "explode", func(*state) error { panic("boom") })
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInternal))

	// the lock is released
	require.NoError(t, s.Join(context.Background(), "a", "Ann"))
}

func TestTallyAndFrontrunners(t *testing.T) {
	results := map[string]*string{
		"a": target("c"),
		"b": target("c"),
		"c": target("a"),
		"d": nil,
	}
	tally := Tally(results, nil)
	assert.Equal(t, map[string]int{"c": 2, "a": 1}, tally)
	assert.Equal(t, []string{"c"}, Frontrunners(tally))

	results["d"] = target("a")
	assert.Equal(t, []string{"a", "c"}, Frontrunners(Tally(results, nil)))
	assert.Empty(t, Frontrunners(Tally(map[string]*string{"a": nil}, nil)))

	// votes for an ineligible target are not counted
	living := func(id string) bool { return id != "c" }
	assert.Equal(t, map[string]int{"a": 2}, Tally(results, living))
	assert.Equal(t, []string{"a"}, Frontrunners(Tally(results, living)))
}

func TestKillPlayer_DeadCannotBeVotedOrPardoned(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleVillager, catalog.RoleVillager,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleJudge)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "b")
	bus.reset()

	require.NoError(t, s.KillPlayer(ctx, "b", ""))

	// the vote for the dead is withdrawn and its voter asked again
	me, err := s.Snapshot("c")
	require.NoError(t, err)
	assert.Nil(t, participant(t, me, "c").Confirmed)
	var reprompted bool
	for _, e := range bus.ofType(event.PromptIssued) {
		pr, err := event.DecodePayload[domain.Prompt](e.Payload)
		require.NoError(t, err)
		for _, opt := range pr.Targets {
			assert.NotEqual(t, "b", opt.ID, "prompt for %s still offers the dead", pr.To)
		}
		if pr.To == "c" {
			reprompted = true
		}
	}
	assert.True(t, reprompted)

	err = s.RecordSelection(ctx, "d", catalog.EventVote, target("b"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)

	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, true))

	snap := hostView(t, s)
	assert.Empty(t, snap.ActiveFlow)
	assert.Empty(t, snap.ActiveEvents)
	assert.Equal(t, domain.OutcomeNoWinner, closedOutcome(t, bus, catalog.EventVote))
	assert.Empty(t, bus.ofType(event.FlowTriggered))
}

func TestKillPlayer_RunoffDropsDeadCandidate(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleVillager, catalog.RoleVillager,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "a", "b")
	vote(t, s, "c", "b")
	vote(t, s, "d", "e")
	vote(t, s, "f", "e")
	vote(t, s, "b", "")
	vote(t, s, "e", "")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, false))

	snap := hostView(t, s)
	require.Len(t, snap.ActiveEvents, 1)
	require.NotNil(t, snap.ActiveEvents[0].Runoff)
	assert.Equal(t, []string{"b", "e"}, snap.ActiveEvents[0].Runoff.Candidates)

	require.NoError(t, s.KillPlayer(ctx, "b", ""))

	snap = hostView(t, s)
	require.Len(t, snap.ActiveEvents, 1)
	assert.Equal(t, []string{"e"}, snap.ActiveEvents[0].Runoff.Candidates)
	err := s.RecordSelection(ctx, "c", catalog.EventVote, target("b"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)
}

func TestKillPlayer_SettlesInstanceOfTheDead(t *testing.T) {
	t.Run("remaining actors answered", func(t *testing.T) {
		s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer, catalog.RoleVillager,
			catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
		ctx := context.Background()
		require.NoError(t, s.GiveItem(ctx, "c", catalog.ItemLens))
		require.NoError(t, s.NextPhase(ctx))
		require.NoError(t, s.StartEvent(ctx, catalog.EventInvestigate))

		require.NoError(t, s.RecordSelection(ctx, "b", catalog.EventInvestigate, target("a")))
		snap := hostView(t, s)
		require.Len(t, snap.ActiveEvents, 1)
		assert.Equal(t, 1, snap.ActiveEvents[0].Responded)
		assert.Equal(t, 2, snap.ActiveEvents[0].Total)

		require.NoError(t, s.KillPlayer(ctx, "c", domain.CauseKilled))

		assert.Empty(t, hostView(t, s).ActiveEvents)
		assert.Equal(t, domain.OutcomeRevealed, closedOutcome(t, bus, catalog.EventInvestigate))
	})

	t.Run("nobody left", func(t *testing.T) {
		s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer, catalog.RoleVillager,
			catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
		ctx := context.Background()
		require.NoError(t, s.NextPhase(ctx))
		require.NoError(t, s.StartEvent(ctx, catalog.EventInvestigate))

		require.NoError(t, s.KillPlayer(ctx, "b", domain.CauseKilled))

		snap := hostView(t, s)
		assert.Empty(t, snap.ActiveEvents)
		assert.NotContains(t, snap.PendingEvents, catalog.EventInvestigate)
		assert.Equal(t, domain.OutcomeAbandoned, closedOutcome(t, bus, catalog.EventInvestigate))
	})
}

func TestLastWords_LinkedHuntersShootInTurn(t *testing.T) {
	s, bus := newGame(t, catalog.RoleWerewolf, catalog.RoleHunter, catalog.RoleHunter,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()
	s.read(func(st *state) {
		st.participants["b"].LinkedTo = "c"
		st.participants["c"].LinkedTo = "b"
	})

	require.NoError(t, s.KillPlayer(ctx, "b", domain.CauseKilled))

	// both die; only the first hunter's flow opens, the second waits its turn
	snap := hostView(t, s)
	assert.False(t, participant(t, snap, "b").Alive)
	assert.False(t, participant(t, snap, "c").Alive)
	assert.Equal(t, flow.IDLastWords, snap.ActiveFlow)
	require.Len(t, bus.ofType(event.FlowTriggered), 1)
	assert.ErrorIs(t, s.RecordSelection(ctx, "c", "", target("d")), domain.ErrNoActiveEvent)
	assert.ErrorIs(t, s.RecordSelection(ctx, "b", "", target("c")), domain.ErrIllegalTarget)

	require.NoError(t, s.RecordSelection(ctx, "b", "", target("d")))

	snap = hostView(t, s)
	assert.False(t, participant(t, snap, "d").Alive)
	assert.Equal(t, flow.IDLastWords, snap.ActiveFlow, "deferred hook replayed after the first shot")
	assert.Len(t, bus.ofType(event.FlowTriggered), 2)

	require.NoError(t, s.RecordSelection(ctx, "c", "", target("e")))

	snap = hostView(t, s)
	assert.Empty(t, snap.ActiveFlow)
	assert.Equal(t, domain.CauseLastWords, participant(t, snap, "d").DeathCause)
	assert.Equal(t, domain.CauseLastWords, participant(t, snap, "e").DeathCause)
}

func TestOverride_SeizedVoteSpendsItemGrants(t *testing.T) {
	const roleMute, itemBallot = "mute", "ballot"
	cfg := catalog.DefaultConfig()
	cfg.Roles = append(cfg.Roles, domain.RoleDef{ID: roleMute, Name: "Mute", Team: catalog.TeamVillage})
	cfg.Items = append(cfg.Items, domain.ItemDef{ID: itemBallot, Name: "Ballot", MaxUses: 1,
		Activation: domain.ItemActivation{Mode: domain.ActivationEvent, Event: catalog.EventVote}})
	c, err := catalog.Build(cfg, catalog.NewDefaultRegistry())
	require.NoError(t, err)

	bus := &recordingBus{}
	s := New(c, bus, Options{Seed: 1})
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Join(ctx, id, playerNames[i]))
	}
	require.NoError(t, s.StartGame(ctx, []string{catalog.RoleWerewolf, catalog.RoleJudge, roleMute,
		catalog.RoleVillager, catalog.RoleVillager}))
	require.NoError(t, s.GiveItem(ctx, "c", itemBallot))

	require.NoError(t, s.StartEvent(ctx, catalog.EventVote))
	vote(t, s, "c", "a")
	vote(t, s, "d", "a")
	require.NoError(t, s.ResolveEvent(ctx, catalog.EventVote, true))

	snap := hostView(t, s)
	require.Equal(t, flow.IDOverride, snap.ActiveFlow)
	assert.Empty(t, participant(t, snap, "c").Inventory)

	require.NoError(t, s.RecordSelection(ctx, "b", "", target(domain.OptionConfirm)))
	assert.False(t, participant(t, hostView(t, s), "a").Alive)
}

func TestIdleScroll_SelectsAndUsesItem(t *testing.T) {
	s, _ := newGame(t, catalog.RoleWerewolf, catalog.RoleSeer,
		catalog.RoleVillager, catalog.RoleVillager, catalog.RoleVillager)
	ctx := context.Background()

	assert.ErrorIs(t, s.UseItem(ctx, "c", ""), domain.ErrItemNotFound)
	require.NoError(t, s.IdleScroll(ctx, "c", 1))
	d, err := s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, 0, d.IdleScrollIndex, "only the role slot is occupied")

	require.NoError(t, s.GiveItem(ctx, "c", catalog.ItemPistol))
	require.NoError(t, s.GiveItem(ctx, "c", catalog.ItemVest))
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, []domain.IconSlot{
		{ID: catalog.RoleVillager, State: domain.IconActive},
		{ID: catalog.ItemPistol, State: domain.IconActive},
		{ID: catalog.ItemVest, State: domain.IconInactive},
	}, d.Icons)
	assert.Equal(t, domain.LEDOff, d.LEDs.Yes)

	require.NoError(t, s.IdleScroll(ctx, "c", -1))
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, 2, d.IdleScrollIndex, "scrolling up wraps to the last slot")
	assert.Equal(t, "VEST", d.Line2.Text)
	assert.Equal(t, domain.LEDOff, d.LEDs.Yes)
	assert.ErrorIs(t, s.UseItem(ctx, "c", ""), domain.ErrItemNotFound, "a passive item cannot be used")

	require.NoError(t, s.IdleScroll(ctx, "c", -1))
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, 1, d.IdleScrollIndex)
	assert.Equal(t, "PISTOL", d.Line2.Text)
	assert.Equal(t, domain.LEDDim, d.LEDs.Yes)

	require.NoError(t, s.UseItem(ctx, "c", ""))

	snap := hostView(t, s)
	require.Len(t, snap.ActiveEvents, 1)
	assert.Equal(t, catalog.EventShoot, snap.ActiveEvents[0].EventID)
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVoting, d.StatusLED)

	// once the pistol is spent the vest moves up under the scroll
	require.NoError(t, s.RecordSelection(ctx, "c", catalog.EventShoot, target("d")))
	d, err = s.Display("c")
	require.NoError(t, err)
	assert.Equal(t, catalog.ItemVest, d.Icons[1].ID)
	assert.Equal(t, domain.IconEmpty, d.Icons[2].State)
	assert.Equal(t, 1, d.IdleScrollIndex)
	assert.Equal(t, "VEST", d.Line2.Text)
}
