package play

import (
	"sync"
	"time"

	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/event"
)

// flashes remembers recently played notes so the renderer can highlight them
// Written from the scheduler goroutine, read from the render loop
type flashes struct {
	mu       sync.Mutex
	until    map[core.Entity]time.Time
	duration time.Duration
	now      func() time.Time
}

var _ event.Handler[engine.Reader] = (*flashes)(nil)

func newFlashes(d time.Duration) *flashes {
	return &flashes{
		until:    make(map[core.Entity]time.Time),
		duration: d,
		now:      time.Now,
	}
}

func (f *flashes) EventTypes() []event.EventType {
	return []event.EventType{event.EventNotePlayed, event.EventRoundStarted}
}

func (f *flashes) HandleEvent(_ engine.Reader, ev event.GameEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch ev.Type {
	case event.EventNotePlayed:
		if p, ok := ev.Payload.(*event.NotePlayedPayload); ok {
			f.until[p.Note] = f.now().Add(f.duration)
		}
	case event.EventRoundStarted:
		clear(f.until)
	}
}

// active reports whether id is still highlighted, expiring old entries
func (f *flashes) active(id core.Entity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.until[id]
	if !ok {
		return false
	}
	if f.now().After(t) {
		delete(f.until, id)
		return false
	}
	return true
}
