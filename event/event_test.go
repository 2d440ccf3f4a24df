package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueFIFO(t *testing.T) {
	eq := NewEventQueue()
	eq.Push(GameEvent{Type: EventNotePlayed, Payload: "first", Tick: 1})
	eq.Push(GameEvent{Type: EventActivatorEnableRequested, Payload: "second", Tick: 1})
	eq.Push(GameEvent{Type: EventRoundComplete, Payload: "third", Tick: 2})

	require.Equal(t, 3, eq.Len())
	events := eq.Consume()
	require.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Payload)
	assert.Equal(t, "second", events[1].Payload)
	assert.Equal(t, "third", events[2].Payload)

	assert.Nil(t, eq.Consume(), "second consume must be empty")
	assert.Equal(t, 0, eq.Len())
}

func TestEventQueueNeverOverwrites(t *testing.T) {
	eq := NewEventQueue()
	const n = 10_000
	for i := 0; i < n; i++ {
		eq.Push(GameEvent{Type: EventNotePlayed, Payload: i})
	}
	events := eq.Consume()
	require.Len(t, events, n)
	for i, ev := range events {
		assert.Equal(t, i, ev.Payload)
	}
}

func TestEventQueueConcurrentPush(t *testing.T) {
	eq := NewEventQueue()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				eq.Push(GameEvent{Type: EventNotePlayed})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, eq.Consume(), 800)
}

func TestEventQueueDrain(t *testing.T) {
	eq := NewEventQueue()
	eq.Push(GameEvent{Type: EventNotePlayed})
	eq.Push(GameEvent{Type: EventNotePlayed})
	assert.Equal(t, 2, eq.Drain())
	assert.Equal(t, 0, eq.Drain())
	assert.Nil(t, eq.Consume())
}

type recordingHandler struct {
	name  string
	types []EventType
	log   *[]string
}

func (h *recordingHandler) HandleEvent(ctx string, ev GameEvent) {
	*h.log = append(*h.log, h.name+":"+ctx+":"+ev.Type.String())
}

func (h *recordingHandler) EventTypes() []EventType {
	return h.types
}

func TestRouterDispatchOrder(t *testing.T) {
	eq := NewEventQueue()
	r := NewRouter[string](eq)

	var log []string
	r.Register(&recordingHandler{name: "audio", types: []EventType{EventNotePlayed}, log: &log})
	r.Register(&recordingHandler{name: "hud", types: []EventType{EventNotePlayed, EventRoundComplete}, log: &log})

	assert.Equal(t, 2, r.HandlerCount(EventNotePlayed))
	assert.True(t, r.HasHandlers(EventRoundComplete))
	assert.False(t, r.HasHandlers(EventActivatorEnabled))

	eq.Push(GameEvent{Type: EventNotePlayed})
	eq.Push(GameEvent{Type: EventActivatorEnabled})
	eq.Push(GameEvent{Type: EventRoundComplete})

	n := r.DispatchAll("ctx")
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		"audio:ctx:note_played",
		"hud:ctx:note_played",
		"hud:ctx:round_complete",
	}, log)
}

func TestRouterDeliversEventsPushedDuringDispatch(t *testing.T) {
	eq := NewEventQueue()
	r := NewRouter[int](eq)

	var seen []EventType
	r.Register(HandlerFunc[int]{
		Types: []EventType{EventRoundComplete, EventRoundExited},
		Fn: func(_ int, ev GameEvent) {
			seen = append(seen, ev.Type)
			if ev.Type == EventRoundComplete {
				eq.Push(GameEvent{Type: EventRoundExited})
			}
		},
	})

	eq.Push(GameEvent{Type: EventRoundComplete})
	assert.Equal(t, 2, r.DispatchAll(0))
	assert.Equal(t, []EventType{EventRoundComplete, EventRoundExited}, seen)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "note_played", EventNotePlayed.String())
	assert.Equal(t, "unknown", EventType(999).String())
}
