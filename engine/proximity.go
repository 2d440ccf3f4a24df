package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lixenwraith/ripple/core"
)

// buildPendingSet collects every object except the activator itself and its enabler,
// sorted by distance to the activator with ties broken by placement order
//
// An activator without a position is a setup bug, not a runtime condition: panics
func (r *Registry) buildPendingSet(id, source core.Entity) *PendingSet {
	center, ok := r.Position(id)
	if !ok || !center.IsFinite() {
		panic(fmt.Sprintf("build pending set: activator %d must have a position", id))
	}

	entries := make([]PendingEntry, 0, r.objects.CountEntities())
	r.objects.Each(func(other core.Entity, obj Object) {
		if other == id || other == source {
			return
		}
		entries = append(entries, PendingEntry{
			ID:       other,
			Pos:      obj.Pos,
			Distance: obj.Pos.Distance(center),
		})
	})

	slices.SortStableFunc(entries, func(a, b PendingEntry) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return &PendingSet{entries: entries}
}

// seed attaches a freshly built pending set to an enabled activator
// Seeding twice in one enablement is a programming error: panics
func (r *Registry) seed(id, source core.Entity) *PendingSet {
	a, ok := r.activator(id)
	if !ok {
		panic(fmt.Sprintf("seed: %d is not an activator", id))
	}
	if a.pending != nil {
		panic(fmt.Sprintf("seed: activator %d already seeded", id))
	}
	a.pending = r.buildPendingSet(id, source)
	a.source = source
	return a.pending
}
