package event

// EventType represents the type of propagation event
type EventType int

const (
	// === Activation (inbound to the cascade dispatcher) ===

	// EventNotePlayed signals an activator boundary crossed a note
	// Trigger: propagation scan | Consumer: cascade dispatcher, then outbound audio
	// Payload: *NotePlayedPayload
	EventNotePlayed EventType = iota + 1

	// EventActivatorEnableRequested signals an activator boundary crossed another activator
	// Also emitted with no source for the main activator at round start
	// Trigger: propagation scan, EnterExecution | Consumer: cascade dispatcher
	// Payload: *EnableRequestPayload
	EventActivatorEnableRequested

	// EventObjectActivated is the uniform form of both events above
	// Trigger: classification stage | Consumer: pending-set removal stage
	// Payload: *ObjectActivatedPayload
	EventObjectActivated

	// === Outbound notifications ===

	// EventActivatorEnabled signals an activator was enabled and seeded
	// Consumer: presentation | Payload: *ActivatorPayload
	EventActivatorEnabled

	// EventActivatorDisabled signals an activator exhausted its pending set or the round was exited
	// Consumer: presentation | Payload: *ActivatorPayload
	EventActivatorDisabled

	// EventRoundComplete signals every activator is disabled or has an empty pending set
	// Consumer: phase collaborator | Payload: *RoundPayload
	EventRoundComplete

	// EventRoundStarted signals the main activator was seeded for a new round
	// Consumer: presentation, audio | Payload: *RoundPayload
	EventRoundStarted

	// EventRoundExited signals the execution phase was left, completed or not
	// Consumer: presentation | Payload: *RoundPayload
	EventRoundExited
)

var typeNames = map[EventType]string{
	EventNotePlayed:               "note_played",
	EventActivatorEnableRequested: "activator_enable_requested",
	EventObjectActivated:          "object_activated",
	EventActivatorEnabled:         "activator_enabled",
	EventActivatorDisabled:        "activator_disabled",
	EventRoundComplete:            "round_complete",
	EventRoundStarted:             "round_started",
	EventRoundExited:              "round_exited",
}

// String returns the snake_case name used in logs and simulation output
func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent represents a single event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    int64 // Round tick the event was emitted in
}
