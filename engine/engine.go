// Package engine implements the activation propagation engine: the object registry,
// per-activator pending sets, radius growth and crossing detection, the cascade
// dispatcher and round completion
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/status"
	"github.com/lixenwraith/ripple/vmath"
)

// Phase is the coarse game phase the engine reacts to
type Phase uint8

const (
	// PhaseBuild allows editing; activators are inert
	PhaseBuild Phase = iota
	// PhaseExecute runs the round; editing is rejected
	PhaseExecute
)

func (p Phase) String() string {
	if p == PhaseExecute {
		return "execute"
	}
	return "build"
}

var (
	// ErrExecutionActive is returned by editing operations during PhaseExecute
	ErrExecutionActive = errors.New("execution phase active")
	// ErrInvalidGrowRate is returned for a non-positive or non-finite grow rate
	ErrInvalidGrowRate = errors.New("grow rate must be a positive finite number")
	// ErrNoMainActivator is returned when a round is started without a main activator
	ErrNoMainActivator = errors.New("no main activator placed")
	// ErrUnknownObject is returned when an edit targets a missing object
	ErrUnknownObject = errors.New("unknown object")
	// ErrInvalidPosition is returned for non-finite coordinates
	ErrInvalidPosition = errors.New("position must be finite")
)

// Reader is the read-only view handed to outbound event handlers
type Reader interface {
	Phase() Phase
	RoundID() string
	GrowRate() float64
	Object(id core.Entity) (Object, bool)
	Snapshot() Snapshot
}

// round is the lifecycle state of the current execution
type round struct {
	id       string
	tick     int64
	elapsed  time.Duration
	complete bool
}

// Engine owns the registry and all pending sets and advances them one tick at a time
// Not safe for concurrent use; ClockScheduler serializes access in interactive mode
type Engine struct {
	reg      *Registry
	growRate float64
	phase    Phase
	round    round

	queue    *event.EventQueue // Inbound activation events, consumed once per tick
	outbound *event.EventQueue // Notifications for collaborators
	router   *event.Router[Reader]
	flushing bool
	stale    []staleRef // Collected during growth, removed with the other pending entries

	exitOnComplete bool

	baseLog *slog.Logger
	log     *slog.Logger // baseLog scoped to the current round
	stats   *status.Registry

	statTicks      *atomic.Int64
	statNotes      *atomic.Int64
	statEnabled    *atomic.Int64
	statRounds     *atomic.Int64
	statStale      *atomic.Int64
	statDropped    *atomic.Int64
	statRadiusMax  *status.AtomicFloat
	statActiveNow  *atomic.Int64
	statCompletion *atomic.Int64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the structured logger, the default discards
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.baseLog = l
		}
	}
}

// WithStatus sets the metrics registry, the default is private to the engine
func WithStatus(reg *status.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.stats = reg
		}
	}
}

// WithExitOnComplete makes the engine return to PhaseBuild on its own after RoundComplete
func WithExitOnComplete(enabled bool) Option {
	return func(e *Engine) {
		e.exitOnComplete = enabled
	}
}

// WithGrowRate sets the initial grow rate; invalid values keep the default
func WithGrowRate(rate float64) Option {
	return func(e *Engine) {
		if validGrowRate(rate) {
			e.growRate = rate
		}
	}
}

// New creates an engine in PhaseBuild with an empty registry
func New(opts ...Option) *Engine {
	e := &Engine{
		reg:      NewRegistry(),
		growRate: parameter.DefaultGrowRate,
		phase:    PhaseBuild,
		queue:    event.NewEventQueue(),
		outbound: event.NewEventQueue(),
		baseLog:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		stats:    status.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.baseLog
	e.router = event.NewRouter[Reader](e.outbound)

	e.statTicks = e.stats.Ints.Get("engine.ticks")
	e.statNotes = e.stats.Ints.Get("engine.notes_played")
	e.statEnabled = e.stats.Ints.Get("engine.activations")
	e.statRounds = e.stats.Ints.Get("engine.rounds")
	e.statStale = e.stats.Ints.Get("engine.stale_events")
	e.statDropped = e.stats.Ints.Get("engine.dropped_events")
	e.statActiveNow = e.stats.Ints.Get("engine.active_activators")
	e.statCompletion = e.stats.Ints.Get("engine.rounds_completed")
	e.statRadiusMax = e.stats.Floats.Get("engine.radius_max")
	return e
}

func validGrowRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// RegisterHandler subscribes a collaborator to outbound events
// Must be called before the first tick
func (e *Engine) RegisterHandler(h event.Handler[Reader]) {
	e.router.Register(h)
}

// Status returns the metrics registry
func (e *Engine) Status() *status.Registry {
	return e.stats
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.phase
}

// GrowRate returns the radius growth in world units per second
func (e *Engine) GrowRate() float64 {
	return e.growRate
}

// RoundID returns the identifier of the current or last round, empty before the first
func (e *Engine) RoundID() string {
	return e.round.id
}

// Elapsed returns the simulated time of the current round
func (e *Engine) Elapsed() time.Duration {
	return e.round.elapsed
}

// RoundComplete reports whether the current round raised RoundComplete
func (e *Engine) RoundComplete() bool {
	return e.round.complete
}

// SetGrowRate sets the per-round grow rate; only allowed in PhaseBuild
func (e *Engine) SetGrowRate(rate float64) error {
	if e.phase == PhaseExecute {
		return fmt.Errorf("set grow rate: %w", ErrExecutionActive)
	}
	if !validGrowRate(rate) {
		return fmt.Errorf("set grow rate %v: %w", rate, ErrInvalidGrowRate)
	}
	e.growRate = rate
	return nil
}

// === Editor surface (PhaseBuild only) ===

func (e *Engine) checkEditable(pos vmath.Vec2) error {
	if e.phase == PhaseExecute {
		return ErrExecutionActive
	}
	if !pos.IsFinite() {
		return ErrInvalidPosition
	}
	return nil
}

// Place adds a note or passive activator
func (e *Engine) Place(kind Kind, pos vmath.Vec2) (core.Entity, error) {
	if err := e.checkEditable(pos); err != nil {
		return core.NoEntity, fmt.Errorf("place %s: %w", kind, err)
	}
	switch kind {
	case KindNote:
		return e.reg.PlaceNote(pos), nil
	case KindActivator:
		return e.reg.PlaceActivator(pos), nil
	default:
		return core.NoEntity, fmt.Errorf("place: unknown kind %d", kind)
	}
}

// PlaceMain places the main activator, moving it if one exists
func (e *Engine) PlaceMain(pos vmath.Vec2) (core.Entity, error) {
	if err := e.checkEditable(pos); err != nil {
		return core.NoEntity, fmt.Errorf("place main: %w", err)
	}
	return e.reg.PlaceMain(pos), nil
}

// MoveMain relocates the main activator
func (e *Engine) MoveMain(pos vmath.Vec2) error {
	main, ok := e.reg.Main()
	if !ok {
		return fmt.Errorf("move main: %w", ErrNoMainActivator)
	}
	return e.Move(main, pos)
}

// Move relocates an object
func (e *Engine) Move(id core.Entity, pos vmath.Vec2) error {
	if err := e.checkEditable(pos); err != nil {
		return fmt.Errorf("move %d: %w", id, err)
	}
	if !e.reg.Move(id, pos) {
		return fmt.Errorf("move %d: %w", id, ErrUnknownObject)
	}
	return nil
}

// Remove deletes an object
func (e *Engine) Remove(id core.Entity) error {
	if e.phase == PhaseExecute {
		return fmt.Errorf("remove %d: %w", id, ErrExecutionActive)
	}
	if !e.reg.Remove(id) {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownObject)
	}
	return nil
}

// Clear removes every object
func (e *Engine) Clear() error {
	if e.phase == PhaseExecute {
		return fmt.Errorf("clear: %w", ErrExecutionActive)
	}
	e.reg.Clear()
	return nil
}

// ObjectAt returns the object nearest to pos within radius
func (e *Engine) ObjectAt(pos vmath.Vec2, radius float64) (Object, bool) {
	return e.reg.At(pos, radius)
}

// === Queries ===

// Object returns the object with id
func (e *Engine) Object(id core.Entity) (Object, bool) {
	return e.reg.Object(id)
}

// Objects returns every object in placement order
func (e *Engine) Objects() []Object {
	return e.reg.Objects()
}

// ActivatorState returns state and radius of an activator
func (e *Engine) ActivatorState(id core.Entity) (ActivatorState, float64, bool) {
	return e.reg.State(id)
}

// PendingSet returns a copy of the pending entries of an activator
// ok is false when the activator is unknown or has no pending set
func (e *Engine) PendingSet(id core.Entity) ([]PendingEntry, bool) {
	p := e.reg.pendingOf(id)
	if p == nil {
		return nil, false
	}
	return p.Entries(), true
}

// Snapshot copies the state polled by renderers
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:      e.phase,
		GrowRate:   e.growRate,
		RoundID:    e.round.id,
		Tick:       e.round.tick,
		Activators: e.reg.Activators(),
		Notes:      e.reg.Notes(),
	}
}

// === Round lifecycle ===

// Push queues an inbound activation event for the next tick
// Events queued outside PhaseExecute are dropped by that tick
func (e *Engine) Push(ev event.GameEvent) {
	e.queue.Push(ev)
}

// EnterExecution starts a round: every activator is reset, the main activator is enabled
// and seeded before any growth happens. No-op if already executing
func (e *Engine) EnterExecution() error {
	if e.phase == PhaseExecute {
		return nil
	}
	main, ok := e.reg.Main()
	if !ok {
		return fmt.Errorf("enter execution: %w", ErrNoMainActivator)
	}
	if !validGrowRate(e.growRate) {
		return fmt.Errorf("enter execution: %w", ErrInvalidGrowRate)
	}

	e.reg.ResetRound()
	e.stale = e.stale[:0]
	if n := e.queue.Drain(); n > 0 {
		e.statDropped.Add(int64(n))
		e.log.Debug("dropped stale events on round start", "count", n)
	}

	e.phase = PhaseExecute
	e.round = round{id: uuid.NewString()}
	e.statRounds.Add(1)
	e.statRadiusMax.Set(0)
	e.log = e.baseLog.With("round", e.round.id)
	e.log.Info("round started", "main", main, "objects", e.reg.Len(), "grow_rate", e.growRate)

	e.emit(event.EventRoundStarted, &event.RoundPayload{RoundID: e.round.id})

	// Round-start synthetic enable takes the same classification and enable path as a crossing
	e.queue.Push(event.GameEvent{
		Type:    event.EventActivatorEnableRequested,
		Payload: &event.EnableRequestPayload{Source: core.NoEntity, Target: main},
	})
	e.dispatch()
	e.flushOutbound()
	return nil
}

// ExitExecution disables every activator, discards all pending sets and drops queued events
// No-op outside PhaseExecute
func (e *Engine) ExitExecution() {
	if e.phase != PhaseExecute {
		return
	}

	for _, a := range e.reg.Activators() {
		if a.Enabled {
			e.emit(event.EventActivatorDisabled, &event.ActivatorPayload{Activator: a.ID})
		}
	}
	e.reg.ResetRound()
	e.stale = e.stale[:0]
	if n := e.queue.Drain(); n > 0 {
		e.statDropped.Add(int64(n))
		e.log.Debug("dropped in-flight events on exit", "count", n)
	}
	e.phase = PhaseBuild
	e.statActiveNow.Store(0)

	e.log.Info("round exited", "ticks", e.round.tick, "complete", e.round.complete, "elapsed", e.round.elapsed)
	e.emit(event.EventRoundExited, &event.RoundPayload{RoundID: e.round.id, Ticks: e.round.tick})
	e.log = e.baseLog
	e.flushOutbound()
}

// Tick advances the simulation by dt
//
// Stage order per tick:
//  1. growth and crossing detection for every enabled activator
//  2. classification of queued events into object activations
//  3. pending-set removal
//  4. enable requests applied (enable + seed)
//  5. completion detection and disable pass
func (e *Engine) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	if e.phase != PhaseExecute {
		if n := e.queue.Drain(); n > 0 {
			e.statDropped.Add(int64(n))
			e.log.Debug("phase mismatch, dropped events", "count", n, "phase", e.phase)
		}
		e.flushOutbound()
		return
	}

	e.round.tick++
	e.round.elapsed += dt
	e.statTicks.Add(1)

	e.propagate(dt)
	e.dispatch()
	e.detectCompletion()

	e.flushOutbound()

	if e.round.complete && e.exitOnComplete {
		e.ExitExecution()
	}
}

// emit queues an outbound notification stamped with the current tick
func (e *Engine) emit(t event.EventType, payload any) {
	e.outbound.Push(event.GameEvent{Type: t, Payload: payload, Tick: e.round.tick})
}

// flushOutbound delivers notifications; re-entrant calls from handlers defer to the outer loop
func (e *Engine) flushOutbound() {
	if e.flushing {
		return
	}
	e.flushing = true
	defer func() { e.flushing = false }()
	e.router.DispatchAll(e)
}
