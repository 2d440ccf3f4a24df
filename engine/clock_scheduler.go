package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/parameter"
)

// ClockScheduler owns an engine and advances it on a fixed tick
// Every other goroutine reaches the engine through RunSafe
type ClockScheduler struct {
	engine *Engine
	clock  *PausableClock

	tickInterval     time.Duration
	lastGameTickTime time.Time // Last tick in simulation time
	nextTickDeadline time.Time // Next tick deadline for drift correction

	tickCount atomic.Uint64
	mu        sync.Mutex // Serializes every engine access
	timingMu  sync.RWMutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	updateDone chan struct{} // Signals a completed tick to the renderer
}

// NewClockScheduler creates a scheduler for engine, returns the tick-complete channel
func NewClockScheduler(engine *Engine, clock *PausableClock, tickInterval time.Duration) (*ClockScheduler, <-chan struct{}) {
	if tickInterval <= 0 {
		tickInterval = parameter.TickInterval
	}
	updateDone := make(chan struct{}, 1)

	cs := &ClockScheduler{
		engine:           engine,
		clock:            clock,
		tickInterval:     tickInterval,
		lastGameTickTime: clock.Now(),
		stopChan:         make(chan struct{}),
		updateDone:       updateDone,
	}
	return cs, updateDone
}

// RunSafe executes fn with exclusive access to the engine
func (cs *ClockScheduler) RunSafe(fn func(e *Engine)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	fn(cs.engine)
}

// TickCount returns the number of ticks processed since Start
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the scheduler loop and waits for it to exit
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.timingMu.Lock()
	cs.lastGameTickTime = cs.clock.Now()
	cs.nextTickDeadline = cs.lastGameTickTime.Add(cs.tickInterval)
	cs.timingMu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.clock.Now()

			cs.timingMu.RLock()
			deadline := cs.nextTickDeadline
			cs.timingMu.RUnlock()

			if !gameNow.Before(deadline) {
				cs.processTick(gameNow)
				deadline = cs.advanceDeadline(gameNow)

				select {
				case cs.updateDone <- struct{}{}:
				default:
				}

				sleepDuration = deadline.Sub(cs.clock.Now())
				if sleepDuration < 0 {
					sleepDuration = 0
				}
			} else {
				sleepDuration = deadline.Sub(gameNow)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}

// advanceDeadline schedules the next tick, resynchronizing when far behind
func (cs *ClockScheduler) advanceDeadline(gameNow time.Time) time.Time {
	cs.timingMu.Lock()
	defer cs.timingMu.Unlock()

	cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
	maxBehind := cs.tickInterval * 2
	if gameNow.Sub(cs.nextTickDeadline) > maxBehind {
		cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
	}
	return cs.nextTickDeadline
}

// processTick advances the engine by the simulation time since the previous tick
// The delta is clamped so a stalled process does not leap a whole cascade in one step
func (cs *ClockScheduler) processTick(gameNow time.Time) {
	cs.timingMu.Lock()
	dt := gameNow.Sub(cs.lastGameTickTime)
	cs.lastGameTickTime = gameNow
	cs.timingMu.Unlock()

	if dt > parameter.MaxTickDelta {
		dt = parameter.MaxTickDelta
	}

	cs.RunSafe(func(e *Engine) {
		e.Tick(dt)
	})
	cs.tickCount.Add(1)
}
