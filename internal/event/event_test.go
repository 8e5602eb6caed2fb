package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/nightfall/internal/domain"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(PhaseChanged, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewPhaseChangedEvent(domain.PhaseNight, 1)))
	require.NoError(t, bus.Publish(context.Background(), NewGameOverEvent("village", 2)))

	require.Len(t, got, 1)
	assert.Equal(t, EventSchemaVersion, got[0].Version)
	assert.Equal(t, PhaseChangedPayload{Phase: domain.PhaseNight, Day: 1}, got[0].Payload)
	assert.NotNil(t, got[0].GetMetadataValue("emitted_at"))
}

func TestMemoryBus_HandlersRunInOrder(t *testing.T) {
	bus := NewMemoryBus()
	var order []int

	bus.Subscribe(SessionUpdated, func(ctx context.Context, e Event) error { order = append(order, 1); return nil })
	bus.Subscribe(SessionUpdated, func(ctx context.Context, e Event) error { order = append(order, 2); return nil })

	require.NoError(t, bus.Publish(context.Background(), NewSessionUpdatedEvent(domain.PhaseDay, 1)))
	assert.Equal(t, []int{1, 2}, order)
}

func TestMemoryBus_PublishCollectsErrors(t *testing.T) {
	bus := NewMemoryBus()
	called := 0
	bus.Subscribe(EventClosed, func(ctx context.Context, e Event) error { called++; return errors.New("boom") })
	bus.Subscribe(EventClosed, func(ctx context.Context, e Event) error { called++; return nil })

	err := bus.Publish(context.Background(), NewEventClosedEvent("vote", domain.OutcomeSkipped))
	assert.Error(t, err)
	assert.Equal(t, 2, called, "a failing handler must not stop later handlers")
}

func TestMemoryBus_SubscribeAll(t *testing.T) {
	bus := NewMemoryBus()
	seen := map[Type]int{}
	bus.SubscribeAll(func(ctx context.Context, e Event) error { seen[e.Type]++; return nil }, TimerStarted, EventClosed)

	_ = bus.Publish(context.Background(), NewTimerStartedEvent("vote", 30, 1))
	_ = bus.Publish(context.Background(), NewEventClosedEvent("vote", domain.OutcomeEliminated))
	_ = bus.Publish(context.Background(), NewSessionUpdatedEvent(domain.PhaseDay, 1))

	assert.Equal(t, map[Type]int{TimerStarted: 1, EventClosed: 1}, seen)
}

func TestDecodePayload(t *testing.T) {
	e := NewTimerStartedEvent("kill", 90, 7)

	direct, err := DecodePayload[TimerStartedPayload](e.Payload)
	require.NoError(t, err)
	assert.Equal(t, int64(7), direct.Generation)

	// payloads that went through a serializer arrive as maps
	generic := map[string]interface{}{"event_id": "kill", "seconds": 90, "generation": 7}
	decoded, err := DecodePayload[TimerStartedPayload](generic)
	require.NoError(t, err)
	assert.Equal(t, direct, decoded)
}
