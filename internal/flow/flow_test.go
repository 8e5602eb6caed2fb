package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/nightfall/internal/domain"
)

// MockHost is a testify mock for Host with a fixed roster.
type MockHost struct {
	mock.Mock
	players  []*domain.Participant
	passives map[string]string
	caps     map[string]map[string]string // participant -> capability -> item id
}

func newMockHost(ids ...string) *MockHost {
	h := &MockHost{passives: map[string]string{}, caps: map[string]map[string]string{}}
	for i, id := range ids {
		h.players = append(h.players, &domain.Participant{ID: id, Name: "P" + id, Seat: i + 1, Alive: true})
	}
	return h
}

func (h *MockHost) Participant(id string) (*domain.Participant, bool) {
	for _, p := range h.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (h *MockHost) Living() []*domain.Participant {
	var out []*domain.Participant
	for _, p := range h.players {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

func (h *MockHost) Passive(p *domain.Participant, key string) string {
	if key != domain.PassiveOnDeath {
		return ""
	}
	return h.passives[p.ID]
}

func (h *MockHost) Capability(p *domain.Participant, capability string) (string, bool) {
	item, ok := h.caps[p.ID][capability]
	return item, ok
}

func (h *MockHost) OpenPrompt(req PromptRequest) error {
	args := h.Called(req)
	return args.Error(0)
}

func (h *MockHost) kill(id string) {
	p, _ := h.Participant(id)
	p.Alive = false
}

func str(s string) *string { return &s }

func TestEngine_DispatchSingleActiveFlow(t *testing.T) {
	host := newMockHost("a", "b", "c", "d")
	host.passives["a"] = domain.ReactionLastWords
	host.passives["b"] = domain.ReactionLastWords
	host.On("OpenPrompt", mock.Anything).Return(nil)

	engine := NewEngine(NewLastWords(host), NewOverride(host))

	host.kill("a")
	f, err := engine.Dispatch(domain.HookDeath, Context{ParticipantID: "a"})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, IDLastWords, f.ID())
	assert.Equal(t, StateActive, f.State())

	host.kill("b")
	f2, err := engine.Dispatch(domain.HookDeath, Context{ParticipantID: "b"})
	assert.Nil(t, f2)
	assert.ErrorIs(t, err, domain.ErrFlowBusy)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	// the active flow is untouched by the rejected attempt
	assert.Equal(t, f, engine.Active())

	// a hook nobody matches is not an error even while busy
	f3, err := engine.Dispatch(domain.HookDeath, Context{ParticipantID: "c"})
	assert.NoError(t, err)
	assert.Nil(t, f3)

	engine.Finish()
	assert.Nil(t, engine.Active())
	assert.Equal(t, StateIdle, f.State())

	f4, err := engine.Dispatch(domain.HookDeath, Context{ParticipantID: "b"})
	require.NoError(t, err)
	assert.Equal(t, IDLastWords, f4.ID())
	host.AssertNumberOfCalls(t, "OpenPrompt", 2)
}

func TestEngine_TriggerErrorLeavesSlotFree(t *testing.T) {
	host := newMockHost("a", "b")
	host.passives["a"] = domain.ReactionLastWords
	host.On("OpenPrompt", mock.Anything).Return(errors.New("no room"))

	engine := NewEngine(NewLastWords(host))
	host.kill("a")
	_, err := engine.Dispatch(domain.HookDeath, Context{ParticipantID: "a"})
	assert.Error(t, err)
	assert.Nil(t, engine.Active())
	f, _ := engine.Get(IDLastWords)
	assert.Equal(t, StateIdle, f.State())
}

func TestLastWords_CanTrigger(t *testing.T) {
	host := newMockHost("a", "b")
	lw := NewLastWords(host)

	assert.False(t, lw.CanTrigger(Context{ParticipantID: "a"}), "no passive")

	host.passives["a"] = domain.ReactionLastWords
	host.kill("a")
	assert.True(t, lw.CanTrigger(Context{ParticipantID: "a"}))

	host.kill("b")
	assert.False(t, lw.CanTrigger(Context{ParticipantID: "a"}), "nobody left to take")
}

func TestLastWords_Selection(t *testing.T) {
	host := newMockHost("a", "b", "c")
	host.passives["a"] = domain.ReactionLastWords
	host.On("OpenPrompt", mock.MatchedBy(func(req PromptRequest) bool {
		return req.FlowID == IDLastWords && !req.AllowAbstain &&
			len(req.Actors) == 1 && req.Actors[0] == "a" && len(req.Options) == 2
	})).Return(nil)

	lw := NewLastWords(host)
	host.kill("a")
	require.NoError(t, lw.Trigger(Context{ParticipantID: "a"}))

	_, err := lw.OnSelection("b", str("c"))
	assert.ErrorIs(t, err, domain.ErrNoActiveEvent)
	_, err = lw.OnSelection("a", nil)
	assert.ErrorIs(t, err, domain.ErrAbstainNotAllowed)
	_, err = lw.OnSelection("a", str("a"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)

	res, err := lw.OnSelection("a", str("c"))
	require.NoError(t, err)
	assert.Equal(t, []domain.Kill{{ID: "c", Cause: domain.CauseLastWords}}, res.Kills)
	require.Len(t, res.Frames, 1)
	assert.Equal(t, domain.FrameLastWords, res.Frames[0].Spec.Type)
	assert.Equal(t, "Pa took Pc down with them", res.Message)
	assert.Equal(t, StateResolving, lw.State())
	host.AssertExpectations(t)
}

func TestLastWords_TimeoutLosesShot(t *testing.T) {
	host := newMockHost("a", "b")
	host.passives["a"] = domain.ReactionLastWords
	host.On("OpenPrompt", mock.Anything).Return(nil)

	lw := NewLastWords(host)
	host.kill("a")
	require.NoError(t, lw.Trigger(Context{ParticipantID: "a"}))

	res := lw.OnTimeout()
	assert.Empty(t, res.Kills)
	assert.Empty(t, res.Frames)
	assert.Contains(t, res.Message, "unheard")
}

func TestOverride_CanTrigger(t *testing.T) {
	host := newMockHost("judge", "wolf", "v")
	ov := NewOverride(host)

	assert.False(t, ov.CanTrigger(Context{VictimID: "wolf"}), "no overseer")

	host.caps["judge"] = map[string]string{domain.CapabilityOverseer: ""}
	assert.True(t, ov.CanTrigger(Context{VictimID: "wolf"}))
	assert.False(t, ov.CanTrigger(Context{VictimID: "judge"}), "condemned overseer cannot pardon themself")
	assert.False(t, ov.CanTrigger(Context{}), "no victim")

	host.kill("v")
	assert.False(t, ov.CanTrigger(Context{VictimID: "v"}), "the dead cannot be condemned")

	host.kill("judge")
	assert.False(t, ov.CanTrigger(Context{VictimID: "wolf"}), "dead overseer")
}

func TestOverride_RoleOverseerSpares(t *testing.T) {
	host := newMockHost("judge", "wolf", "v")
	host.caps["judge"] = map[string]string{domain.CapabilityOverseer: ""}
	host.On("OpenPrompt", mock.MatchedBy(func(req PromptRequest) bool {
		return req.FlowID == IDOverride && len(req.Options) == 2
	})).Return(nil)

	ov := NewOverride(host)
	pending := &domain.Resolution{Outcome: domain.OutcomeEliminated, VictimID: "wolf"}
	require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf", Pending: pending}))

	_, err := ov.OnSelection("judge", str("maybe"))
	assert.ErrorIs(t, err, domain.ErrIllegalTarget)

	res, err := ov.OnSelection("judge", str(domain.OptionSpare))
	require.NoError(t, err)
	assert.Empty(t, res.Kills)
	assert.Empty(t, res.Consume)
	require.Len(t, res.Frames, 1)
	assert.Equal(t, domain.FrameReprieve, res.Frames[0].Spec.Type)
	assert.True(t, res.Frames[0].Spec.Jump)
}

func TestOverride_ItemConsumedOnBothOutcomes(t *testing.T) {
	for _, choice := range []string{domain.OptionSpare, domain.OptionConfirm} {
		t.Run(choice, func(t *testing.T) {
			host := newMockHost("holder", "wolf", "v")
			host.caps["holder"] = map[string]string{domain.CapabilityPardon: "gavel"}
			host.On("OpenPrompt", mock.Anything).Return(nil)

			ov := NewOverride(host)
			require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf"}))

			res, err := ov.OnSelection("holder", str(choice))
			require.NoError(t, err)
			assert.Equal(t, []domain.Consume{{ParticipantID: "holder", ItemID: "gavel"}}, res.Consume)
		})
	}
}

func TestOverride_ConfirmAndTimeout(t *testing.T) {
	host := newMockHost("judge", "wolf", "v")
	host.caps["judge"] = map[string]string{domain.CapabilityOverseer: ""}
	host.On("OpenPrompt", mock.Anything).Return(nil)

	pending := &domain.Resolution{
		Outcome:  domain.OutcomeEliminated,
		VictimID: "wolf",
		Message:  "Pwolf was eliminated",
		Frame:    &domain.FrameSpec{Type: domain.FrameTally},
	}

	ov := NewOverride(host)
	require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf", Pending: pending}))
	res, err := ov.OnSelection("judge", str(domain.OptionConfirm))
	require.NoError(t, err)
	assert.Equal(t, []domain.Kill{{ID: "wolf", Cause: domain.CauseEliminated}}, res.Kills)
	assert.Equal(t, "Pwolf was eliminated", res.Message)
	require.Len(t, res.Frames, 1)
	assert.Equal(t, domain.FrameTally, res.Frames[0].Spec.Type)
	assert.Equal(t, domain.FrameDeath, res.JumpTo)

	ov.Cleanup()
	require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf", Pending: pending}))
	res = ov.OnTimeout()
	assert.Equal(t, []domain.Kill{{ID: "wolf", Cause: domain.CauseEliminated}}, res.Kills)
}

func TestOverride_ConfirmCarriesPendingEffects(t *testing.T) {
	host := newMockHost("holder", "wolf", "v")
	host.caps["holder"] = map[string]string{domain.CapabilityPardon: "gavel"}
	host.On("OpenPrompt", mock.Anything).Return(nil)

	pending := &domain.Resolution{
		Outcome:  domain.OutcomeEliminated,
		VictimID: "wolf",
		Kills: []domain.Kill{
			{ID: "wolf", Cause: domain.CauseEliminated},
			{ID: "v", Cause: domain.CauseKilled},
		},
		Consume: []domain.Consume{{ParticipantID: "v", ItemID: "ballot"}},
		Private: []domain.PrivateResult{{To: "v", EventID: "vote", Message: "your ballot was counted"}},
	}

	ov := NewOverride(host)
	require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf", Pending: pending}))
	res, err := ov.OnSelection("holder", str(domain.OptionConfirm))
	require.NoError(t, err)

	assert.Equal(t, []domain.Consume{
		{ParticipantID: "holder", ItemID: "gavel"},
		{ParticipantID: "v", ItemID: "ballot"},
	}, res.Consume)
	assert.Equal(t, pending.Kills, res.Kills)
	assert.Equal(t, pending.Private, res.Private)

	// sparing drops the verdict and everything it carried
	ov.Cleanup()
	require.NoError(t, ov.Trigger(Context{EventID: "vote", VictimID: "wolf", Pending: pending}))
	res, err = ov.OnSelection("holder", str(domain.OptionSpare))
	require.NoError(t, err)
	assert.Empty(t, res.Kills)
	assert.Empty(t, res.Private)
	assert.Equal(t, []domain.Consume{{ParticipantID: "holder", ItemID: "gavel"}}, res.Consume)
}
