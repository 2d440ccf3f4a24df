package engine

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/event"
)

// activation is a classified crossing: target reached by source
// Source is NoEntity only for the round-start enable of the main activator
type activation struct {
	source core.Entity
	object core.Entity
	kind   event.EventType // Original event type, decides the follow-up
	note   *event.NotePlayedPayload
	tick   int64
}

// dispatch drains the inbound queue and runs classification, removal and enable stages
// Enables seeded here only start growing on the next tick
func (e *Engine) dispatch() {
	events := e.queue.Consume()
	if len(events) == 0 && len(e.stale) == 0 {
		return
	}

	activations := e.classify(events)
	e.prune(activations)
	e.applyEnables(activations)
}

// classify folds inbound events into activations, dropping malformed payloads
func (e *Engine) classify(events []event.GameEvent) []activation {
	out := make([]activation, 0, len(events))
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case *event.NotePlayedPayload:
			out = append(out, activation{source: p.Source, object: p.Note, kind: ev.Type, note: p, tick: ev.Tick})
		case *event.EnableRequestPayload:
			out = append(out, activation{source: p.Source, object: p.Target, kind: ev.Type, tick: ev.Tick})
		case *event.ObjectActivatedPayload:
			out = append(out, activation{source: p.Source, object: p.Object, kind: ev.Type, tick: ev.Tick})
		default:
			e.statDropped.Add(1)
			e.log.Debug("unclassifiable event dropped", "type", ev.Type)
		}
	}
	return out
}

// prune removes every activated object from its source's pending set, then the stale entries
func (e *Engine) prune(activations []activation) {
	for _, act := range activations {
		if act.source == core.NoEntity {
			continue
		}
		e.reg.pendingOf(act.source).Remove(act.object)
	}

	for _, ref := range e.stale {
		if e.reg.pendingOf(ref.activator).Remove(ref.object) {
			e.statStale.Add(1)
			e.log.Debug("stale pending entry removed", "activator", ref.activator, "object", ref.object)
		}
	}
	e.stale = e.stale[:0]
}

// applyEnables forwards note activations and applies enable requests as one enable+seed step
func (e *Engine) applyEnables(activations []activation) {
	for _, act := range activations {
		if e.phase != PhaseExecute {
			e.statDropped.Add(1)
			e.log.Debug("phase mismatch, activation discarded", "object", act.object)
			continue
		}

		obj, ok := e.reg.Object(act.object)
		if !ok {
			e.statStale.Add(1)
			e.log.Debug("activation of missing object skipped", "object", act.object, "source", act.source)
			continue
		}

		switch obj.Kind {
		case KindNote:
			note := act.note
			if note == nil {
				srcPos, _ := e.reg.Position(act.source)
				note = &event.NotePlayedPayload{Source: act.source, Note: obj.ID, SourcePos: srcPos, NotePos: obj.Pos}
			}
			e.statNotes.Add(1)
			e.outbound.Push(event.GameEvent{Type: event.EventNotePlayed, Payload: note, Tick: e.round.tick})

		case KindActivator:
			if !e.reg.Enable(obj.ID) {
				// Already enabled or fired this round
				continue
			}
			pending := e.reg.seed(obj.ID, act.source)
			e.statEnabled.Add(1)
			e.log.Debug("activator enabled", "activator", obj.ID, "source", act.source, "pending", pending.Len())
			e.emit(event.EventActivatorEnabled, &event.ActivatorPayload{
				Activator: obj.ID,
				Source:    act.source,
				Pending:   pending.Len(),
			})
		}
	}
}
