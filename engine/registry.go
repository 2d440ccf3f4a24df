package engine

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/vmath"
)

// Registry is the authoritative store of notes and activators and their round state
//
// Objects and activator state live in separate stores sharing one entity space:
// every activator has an entry in both, notes only in objects
type Registry struct {
	nextID     core.Entity
	objects    *Store[Object]
	activators *Store[*activator]
	main       core.Entity
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		nextID:     1,
		objects:    NewStore[Object](),
		activators: NewStore[*activator](),
	}
}

// place allocates an entity and stores the object
func (r *Registry) place(kind Kind, pos vmath.Vec2, main bool) core.Entity {
	id := r.nextID
	r.nextID++

	r.objects.SetComponent(id, Object{ID: id, Kind: kind, Pos: pos, Main: main})
	if kind == KindActivator {
		r.activators.SetComponent(id, &activator{})
	}
	return id
}

// PlaceNote adds a note at pos
func (r *Registry) PlaceNote(pos vmath.Vec2) core.Entity {
	return r.place(KindNote, pos, false)
}

// PlaceActivator adds a passive activator at pos
func (r *Registry) PlaceActivator(pos vmath.Vec2) core.Entity {
	return r.place(KindActivator, pos, false)
}

// PlaceMain adds the main activator, or moves it to pos if one exists
func (r *Registry) PlaceMain(pos vmath.Vec2) core.Entity {
	if r.main != core.NoEntity {
		r.Move(r.main, pos)
		return r.main
	}
	r.main = r.place(KindActivator, pos, true)
	return r.main
}

// Move relocates an object, returns false if it does not exist
func (r *Registry) Move(id core.Entity, pos vmath.Vec2) bool {
	obj, ok := r.objects.GetComponent(id)
	if !ok {
		return false
	}
	obj.Pos = pos
	r.objects.SetComponent(id, obj)
	return true
}

// Remove deletes an object, returns false if it does not exist
// Removing the main activator clears the main designation
func (r *Registry) Remove(id core.Entity) bool {
	if !r.objects.RemoveEntity(id) {
		return false
	}
	r.activators.RemoveEntity(id)
	if id == r.main {
		r.main = core.NoEntity
	}
	return true
}

// Clear removes every object; entity IDs keep increasing
func (r *Registry) Clear() {
	r.objects.ClearAllComponents()
	r.activators.ClearAllComponents()
	r.main = core.NoEntity
}

// Main returns the main activator
func (r *Registry) Main() (core.Entity, bool) {
	return r.main, r.main != core.NoEntity
}

// Object returns the object with id
func (r *Registry) Object(id core.Entity) (Object, bool) {
	return r.objects.GetComponent(id)
}

// Position returns the live position of id
func (r *Registry) Position(id core.Entity) (vmath.Vec2, bool) {
	obj, ok := r.objects.GetComponent(id)
	return obj.Pos, ok
}

// Len returns the number of placed objects
func (r *Registry) Len() int {
	return r.objects.CountEntities()
}

// Enable transitions a Disabled activator to Enabled with radius zero
// Returns false without mutation if id is not an activator, is already Enabled,
// or already fired this round; the caller seeds the pending set only on true
func (r *Registry) Enable(id core.Entity) bool {
	a, ok := r.activators.GetComponent(id)
	if !ok || a.state == StateEnabled || a.fired {
		return false
	}
	a.state = StateEnabled
	a.radius = 0
	a.fired = true
	return true
}

// Disable transitions an activator to Disabled, zeroes its radius and discards its pending set
// Returns false if id is not an activator or was already disabled
func (r *Registry) Disable(id core.Entity) bool {
	a, ok := r.activators.GetComponent(id)
	if !ok {
		return false
	}
	wasEnabled := a.state == StateEnabled
	a.state = StateDisabled
	a.radius = 0
	a.pending = nil
	return wasEnabled
}

// Grow adds delta to the radius of an Enabled activator, no-op when Disabled
// Negative deltas are ignored so the radius never shrinks while Enabled
func (r *Registry) Grow(id core.Entity, delta float64) {
	a, ok := r.activators.GetComponent(id)
	if !ok || a.state != StateEnabled || !(delta > 0) {
		return
	}
	a.radius += delta
}

// ResetRound disables every activator and forgets which fired
func (r *Registry) ResetRound() {
	r.activators.Each(func(_ core.Entity, a *activator) {
		*a = activator{}
	})
}

// State returns the activator state and radius of id
func (r *Registry) State(id core.Entity) (ActivatorState, float64, bool) {
	a, ok := r.activators.GetComponent(id)
	if !ok {
		return StateDisabled, 0, false
	}
	return a.state, a.radius, true
}

// pendingOf returns the pending set of an activator, nil if disabled or unknown
func (r *Registry) pendingOf(id core.Entity) *PendingSet {
	a, ok := r.activators.GetComponent(id)
	if !ok {
		return nil
	}
	return a.pending
}

// activator returns the mutable state of id
func (r *Registry) activator(id core.Entity) (*activator, bool) {
	return r.activators.GetComponent(id)
}

// Activators returns the state of every activator in placement order
func (r *Registry) Activators() []ActivatorView {
	out := make([]ActivatorView, 0, r.activators.CountEntities())
	r.activators.Each(func(id core.Entity, a *activator) {
		obj, _ := r.objects.GetComponent(id)
		view := ActivatorView{
			ID:      id,
			Pos:     obj.Pos,
			Radius:  a.radius,
			Enabled: a.state == StateEnabled,
			Main:    obj.Main,
		}
		if a.pending != nil {
			view.Pending = a.pending.Len()
		}
		out = append(out, view)
	})
	return out
}

// Notes returns every note in placement order
func (r *Registry) Notes() []Object {
	out := make([]Object, 0, r.objects.CountEntities()-r.activators.CountEntities())
	r.objects.Each(func(_ core.Entity, obj Object) {
		if obj.Kind == KindNote {
			out = append(out, obj)
		}
	})
	return out
}

// Objects returns every object in placement order
func (r *Registry) Objects() []Object {
	out := make([]Object, 0, r.objects.CountEntities())
	r.objects.Each(func(_ core.Entity, obj Object) {
		out = append(out, obj)
	})
	return out
}

// At returns the object nearest to pos within radius, preferring earlier placement on ties
func (r *Registry) At(pos vmath.Vec2, radius float64) (Object, bool) {
	var (
		best  Object
		bestD = radius
		found bool
	)
	r.objects.Each(func(_ core.Entity, obj Object) {
		if d := obj.Pos.Distance(pos); d <= bestD && (!found || d < bestD) {
			best, bestD, found = obj, d, true
		}
	})
	return best, found
}
