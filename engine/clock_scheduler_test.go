package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/vmath"
)

// steppedTime only moves when a test steps it
type steppedTime struct {
	mu  sync.Mutex
	now time.Time
}

func (s *steppedTime) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *steppedTime) step(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}

var _ TimeProvider = (*steppedTime)(nil)

func newSteppedClock() (*steppedTime, *PausableClock) {
	src := &steppedTime{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return src, NewPausableClock(src)
}

func TestPausableClock_FreezesWhilePaused(t *testing.T) {
	src, clock := newSteppedClock()
	start := clock.Now()

	src.step(100 * time.Millisecond)
	require.Equal(t, 100*time.Millisecond, clock.Now().Sub(start))

	clock.Pause()
	src.step(time.Second)
	assert.Equal(t, 100*time.Millisecond, clock.Now().Sub(start), "frozen while paused")
	assert.Equal(t, time.Second, clock.TotalPauseDuration())

	clock.Resume()
	src.step(50 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, clock.Now().Sub(start))
	assert.True(t, clock.RealTime().Equal(src.Now()), "real time follows the source")
}

func TestClockScheduler_ProcessTickAdvancesEngine(t *testing.T) {
	src, clock := newSteppedClock()
	e := New(WithGrowRate(10))
	_, err := e.PlaceMain(vmath.V(0, 0))
	require.NoError(t, err)
	require.NoError(t, e.EnterExecution())

	cs, _ := NewClockScheduler(e, clock, parameter.TickInterval)

	src.step(parameter.TickInterval)
	cs.processTick(clock.Now())

	var elapsed time.Duration
	cs.RunSafe(func(e *Engine) { elapsed = e.Elapsed() })
	assert.Equal(t, parameter.TickInterval, elapsed)
	assert.Equal(t, uint64(1), cs.TickCount())
}

func TestClockScheduler_ClampsLongStall(t *testing.T) {
	src, clock := newSteppedClock()
	e := New()
	_, err := e.PlaceMain(vmath.V(0, 0))
	require.NoError(t, err)
	_, err = e.Place(KindNote, vmath.V(100, 0))
	require.NoError(t, err)
	require.NoError(t, e.EnterExecution())

	cs, _ := NewClockScheduler(e, clock, parameter.TickInterval)

	src.step(5 * time.Second)
	cs.processTick(clock.Now())

	var elapsed time.Duration
	cs.RunSafe(func(e *Engine) { elapsed = e.Elapsed() })
	assert.Equal(t, parameter.MaxTickDelta, elapsed, "delta clamped")
}

func TestClockScheduler_StartStop(t *testing.T) {
	e := New()
	cs, updateDone := NewClockScheduler(e, NewPausableClock(nil), 2*time.Millisecond)
	cs.Start()
	defer cs.Stop()

	select {
	case <-updateDone:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "scheduler did not tick")
	}

	cs.Stop()
	n := cs.TickCount()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, cs.TickCount(), "no ticks after Stop")
}
