package engine

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/event"
)

// recorder captures every outbound notification with the phase seen at delivery
type recorder struct {
	events []event.GameEvent
}

func (r *recorder) HandleEvent(_ Reader, ev event.GameEvent) {
	r.events = append(r.events, ev)
}

func (r *recorder) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventNotePlayed,
		event.EventActivatorEnabled,
		event.EventActivatorDisabled,
		event.EventRoundComplete,
		event.EventRoundStarted,
		event.EventRoundExited,
	}
}

func (r *recorder) ofType(t event.EventType) []event.GameEvent {
	var out []event.GameEvent
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// notes returns (source, note) pairs of every NotePlayed in delivery order
func (r *recorder) notes() [][2]core.Entity {
	var out [][2]core.Entity
	for _, ev := range r.ofType(event.EventNotePlayed) {
		p := ev.Payload.(*event.NotePlayedPayload)
		out = append(out, [2]core.Entity{p.Source, p.Note})
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

func newRecordedEngine(opts ...Option) (*Engine, *recorder) {
	e := New(opts...)
	rec := &recorder{}
	e.RegisterHandler(rec)
	return e, rec
}
