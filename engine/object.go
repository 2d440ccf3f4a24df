package engine

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/vmath"
)

// Kind tags the closed set of placeable objects
type Kind uint8

const (
	// KindNote is a passive terminal target, it never grows
	KindNote Kind = iota
	// KindActivator is a growing circle that fires activation events once enabled
	KindActivator
)

func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindActivator:
		return "activator"
	default:
		return "unknown"
	}
}

// ActivatorState is the binary activation state of an activator
type ActivatorState uint8

const (
	StateDisabled ActivatorState = iota
	StateEnabled
)

func (s ActivatorState) String() string {
	if s == StateEnabled {
		return "enabled"
	}
	return "disabled"
}

// Object is a placed note or activator
type Object struct {
	ID   core.Entity
	Kind Kind
	Pos  vmath.Vec2
	Main bool // Only set for the main activator
}

// activator is the per-round mutable state of an activator object
type activator struct {
	state   ActivatorState
	radius  float64
	pending *PendingSet // nil while disabled
	fired   bool        // Enabled at least once in the current round
	source  core.Entity // Enabler for the current round
}

// ActivatorView is the read-only per-activator state polled by renderers
type ActivatorView struct {
	ID      core.Entity
	Pos     vmath.Vec2
	Radius  float64
	Enabled bool
	Main    bool
	Pending int
}

// Snapshot is a copy of the registry state safe to hold across ticks
type Snapshot struct {
	Phase      Phase
	GrowRate   float64
	RoundID    string
	Tick       int64
	Activators []ActivatorView
	Notes      []Object
}
