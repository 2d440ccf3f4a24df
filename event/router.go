package event

// Handler processes specific event types within a context T
// Collaborators implement this interface to receive routed events
type Handler[T any] interface {
	// HandleEvent processes a single event
	// Called synchronously on the tick goroutine
	HandleEvent(ctx T, event GameEvent)

	// EventTypes returns the event types this handler processes
	// The router uses this for registration
	EventTypes() []EventType
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc[T any] struct {
	Types []EventType
	Fn    func(ctx T, event GameEvent)
}

// HandleEvent calls Fn
func (h HandlerFunc[T]) HandleEvent(ctx T, event GameEvent) {
	h.Fn(ctx, event)
}

// EventTypes returns Types
func (h HandlerFunc[T]) EventTypes() []EventType {
	return h.Types
}

// Router dispatches events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
//   - Context T is passed to handlers (the engine's read-only view)
type Router[T any] struct {
	handlers map[EventType][]Handler[T]
	queue    *EventQueue
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *EventQueue) *Router[T] {
	return &Router[T]{
		handlers: make(map[EventType][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes pending events and routes them to handlers until the queue is empty
// Events pushed by handlers during dispatch are delivered in the same call
// Returns the number of events dispatched
func (r *Router[T]) DispatchAll(ctx T) int {
	n := 0
	for {
		events := r.queue.Consume()
		if len(events) == 0 {
			return n
		}
		for _, ev := range events {
			r.Dispatch(ctx, ev)
		}
		n += len(events)
	}
}

// Dispatch routes a single event without touching the queue
func (r *Router[T]) Dispatch(ctx T, ev GameEvent) {
	for _, h := range r.handlers[ev.Type] {
		h.HandleEvent(ctx, ev)
	}
}

// HasHandlers returns true if any handlers are registered for the given type
func (r *Router[T]) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
