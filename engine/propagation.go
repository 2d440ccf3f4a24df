package engine

import (
	"time"

	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/event"
	"github.com/lixenwraith/ripple/vmath"
)

// staleRef is a pending entry whose object vanished from the registry
type staleRef struct {
	activator core.Entity
	object    core.Entity
}

// crossing is a pending entry strictly inside an activator's radius
type crossing struct {
	id  core.Entity
	pos vmath.Vec2 // Live position at detection time
}

// scanPending walks p in ascending distance order and returns the entries strictly inside radius
// Positions are re-queried through lookup; missing objects are reported as stale and skipped
// The scan stops at the first entry at or beyond the radius
func scanPending(p *PendingSet, center vmath.Vec2, radius float64, lookup func(core.Entity) (vmath.Vec2, bool)) (hits []crossing, stale []core.Entity) {
	if p == nil {
		return nil, nil
	}
	for _, entry := range p.entries {
		pos, ok := lookup(entry.ID)
		if !ok {
			stale = append(stale, entry.ID)
			continue
		}
		if pos.Distance(center) >= radius {
			break
		}
		hits = append(hits, crossing{id: entry.ID, pos: pos})
	}
	return hits, stale
}

// propagate grows every enabled activator and queues one event per crossed pending entry
// Entries stay in their pending sets until the removal stage of the same tick
func (e *Engine) propagate(dt time.Duration) {
	delta := dt.Seconds() * e.growRate
	active := int64(0)

	for _, id := range e.reg.activators.GetAllEntities() {
		a, _ := e.reg.activator(id)
		if a.state != StateEnabled {
			continue
		}
		active++

		e.reg.Grow(id, delta)
		e.statRadiusMax.Max(a.radius)

		center, ok := e.reg.Position(id)
		if !ok {
			continue
		}

		hits, stale := scanPending(a.pending, center, a.radius, e.reg.Position)
		for _, obj := range stale {
			e.stale = append(e.stale, staleRef{activator: id, object: obj})
		}

		for _, hit := range hits {
			obj, _ := e.reg.Object(hit.id)
			switch obj.Kind {
			case KindNote:
				e.queue.Push(event.GameEvent{
					Type: event.EventNotePlayed,
					Payload: &event.NotePlayedPayload{
						Source:    id,
						Note:      hit.id,
						SourcePos: center,
						NotePos:   hit.pos,
					},
					Tick: e.round.tick,
				})
			case KindActivator:
				e.queue.Push(event.GameEvent{
					Type:    event.EventActivatorEnableRequested,
					Payload: &event.EnableRequestPayload{Source: id, Target: hit.id},
					Tick:    e.round.tick,
				})
			}
		}
	}

	e.statActiveNow.Store(active)
}
