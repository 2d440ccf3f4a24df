package parameter

import "time"

// Simulation & Engine Timing
const (
	// TickInterval is the propagation engine update interval (clock tick, ~60 Hz)
	TickInterval = 16 * time.Millisecond

	// FrameUpdateInterval is the terminal redraw interval
	FrameUpdateInterval = 33 * time.Millisecond

	// MaxTickDelta caps the elapsed time fed into a single tick after a stall
	// Prevents a long pause from crossing half the level in one step
	MaxTickDelta = 250 * time.Millisecond

	// SimulateStep is the default fixed step for headless simulation
	SimulateStep = 10 * time.Millisecond

	// SimulateLimit is the default simulated time budget for one headless round
	SimulateLimit = 5 * time.Minute
)

// Propagation
const (
	// DefaultGrowRate is the activator radius growth in world units per second
	DefaultGrowRate = 100.0

	// MinGrowRate and MaxGrowRate bound interactive grow rate adjustment
	MinGrowRate = 5.0
	MaxGrowRate = 1000.0

	// GrowRateStep is the interactive adjustment increment
	GrowRateStep = 5.0
)

// Event Queue
const (
	// EventQueueCapacity is the initial capacity of the event buffers
	// Queues grow past this; activation events are never dropped for space
	EventQueueCapacity = 256
)
