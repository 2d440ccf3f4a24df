package event

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/vmath"
)

// NotePlayedPayload carries both identities and positions so audio can pick a pitch
// without querying the engine
type NotePlayedPayload struct {
	Source    core.Entity
	Note      core.Entity
	SourcePos vmath.Vec2
	NotePos   vmath.Vec2
}

// EnableRequestPayload asks for Target to be enabled
// Source is core.NoEntity only for the round-initiating main activator
type EnableRequestPayload struct {
	Source core.Entity
	Target core.Entity
}

// ObjectActivatedPayload is the classified form of any activation
type ObjectActivatedPayload struct {
	Source core.Entity
	Object core.Entity
}

// ActivatorPayload identifies an activator in enable/disable notifications
type ActivatorPayload struct {
	Activator core.Entity
	Source    core.Entity // Enabler for EventActivatorEnabled, NoEntity otherwise
	Pending   int         // Pending-set size after the transition
}

// RoundPayload identifies a round in lifecycle notifications
type RoundPayload struct {
	RoundID string
	Ticks   int64
}
