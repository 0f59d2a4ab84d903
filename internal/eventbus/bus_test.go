package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SendToCore_Delivers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	err := bus.SendToCore(GenerateRequestEvent{Prompt: "a landing page"})
	require.NoError(t, err)

	event := <-bus.UIToCore()
	request, ok := event.(GenerateRequestEvent)
	require.True(t, ok)
	assert.Equal(t, "a landing page", request.Prompt)
}

func TestEventBus_SendToUI_Delivers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	err := bus.SendToUI(StreamChunkEvent{Section: "hero", Chunk: "<div>"})
	require.NoError(t, err)

	event := <-bus.CoreToUI()
	chunk, ok := event.(StreamChunkEvent)
	require.True(t, ok)
	assert.Equal(t, "hero", chunk.Section)
}

func TestEventBus_SendToCore_FullChannelErrors(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, bus.SendToCore(GenerateRequestEvent{Prompt: "x"}))
	}
	err := bus.SendToCore(GenerateRequestEvent{Prompt: "overflow"})
	assert.Error(t, err)
}

func TestEventBus_CircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	for i := 0; i < 100; i++ {
		_ = bus.SendToCore(GenerateRequestEvent{Prompt: "x"})
	}
	// Five overflows in a row trip the breaker.
	for i := 0; i < 5; i++ {
		assert.Error(t, bus.SendToCore(GenerateRequestEvent{Prompt: "x"}))
	}
	assert.Equal(t, CircuitOpen, bus.GetCircuitBreakerState())
}

func TestEventBus_ErrorCallbackFires(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	var captured []EventBusError
	bus.SetErrorCallback(func(e EventBusError) { captured = append(captured, e) })

	for i := 0; i < 101; i++ {
		_ = bus.SendToCore(GenerateRequestEvent{Prompt: "x"})
	}
	require.NotEmpty(t, captured)
	assert.Equal(t, "SendToCore", captured[0].Operation)
}

func TestCircuitBreaker_RecoversAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker(2, 10*time.Millisecond)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen()) // half-open lets the next call through

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}
