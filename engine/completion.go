package engine

import (
	"github.com/lixenwraith/ripple/event"
)

// detectCompletion disables exhausted activators and raises RoundComplete once no activator
// has pending work left
func (e *Engine) detectCompletion() {
	if e.round.complete {
		return
	}

	for _, id := range e.reg.activators.GetAllEntities() {
		state, _, _ := e.reg.State(id)
		if state != StateEnabled || e.reg.pendingOf(id).Len() > 0 {
			continue
		}
		e.reg.Disable(id)
		e.emit(event.EventActivatorDisabled, &event.ActivatorPayload{Activator: id})
	}

	// An inbound event still queued means a cascade is mid-flight
	if e.queue.Len() > 0 {
		return
	}
	for _, a := range e.reg.Activators() {
		if a.Enabled && a.Pending > 0 {
			return
		}
	}

	e.round.complete = true
	e.statCompletion.Add(1)
	e.statActiveNow.Store(0)
	e.log.Info("round complete", "ticks", e.round.tick, "elapsed", e.round.elapsed)
	e.emit(event.EventRoundComplete, &event.RoundPayload{RoundID: e.round.id, Ticks: e.round.tick})
}
