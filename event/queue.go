package event

import (
	"sync"

	"github.com/lixenwraith/ripple/parameter"
)

// EventQueue is an unbounded FIFO buffer for events
// Thread-Safety:
//   - Push: any goroutine
//   - Consume/Drain: single consumer (tick owner)
//
// Unlike a ring buffer it never overwrites; a lost activation would leave a pending set
// that can never empty
type EventQueue struct {
	mu     sync.Mutex
	events []GameEvent
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: make([]GameEvent, 0, parameter.EventQueueCapacity),
	}
}

// Push appends an event
func (eq *EventQueue) Push(ev GameEvent) {
	eq.mu.Lock()
	eq.events = append(eq.events, ev)
	eq.mu.Unlock()
}

// Consume returns all pending events in FIFO order and empties the queue
// Returns nil when empty
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if len(eq.events) == 0 {
		return nil
	}
	out := eq.events
	eq.events = make([]GameEvent, 0, max(cap(out), parameter.EventQueueCapacity))
	return out
}

// Drain discards all pending events and returns how many were dropped
func (eq *EventQueue) Drain() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	n := len(eq.events)
	eq.events = eq.events[:0]
	return n
}

// Len returns the pending event count
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.events)
}
