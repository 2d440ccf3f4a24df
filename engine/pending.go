package engine

import (
	"github.com/lixenwraith/ripple/core"
	"github.com/lixenwraith/ripple/vmath"
)

// PendingEntry is one not-yet-triggered object of an activator
// Distance is measured at seed time and only orders the set
type PendingEntry struct {
	ID       core.Entity
	Pos      vmath.Vec2
	Distance float64
}

// PendingSet is the ascending-distance list of objects an activator has not reached yet
// Owned by exactly one activator; entries only ever leave
type PendingSet struct {
	entries []PendingEntry
}

// Len returns the number of untriggered objects
func (p *PendingSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns a copy of the entries in traversal order
func (p *PendingSet) Entries() []PendingEntry {
	if p == nil {
		return nil
	}
	out := make([]PendingEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Contains reports whether id is still pending
func (p *PendingSet) Contains(id core.Entity) bool {
	if p == nil {
		return false
	}
	for _, e := range p.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Remove drops id keeping the order of the remaining entries
// Removing an absent id is a no-op and returns false
func (p *PendingSet) Remove(id core.Entity) bool {
	if p == nil {
		return false
	}
	for i, e := range p.entries {
		if e.ID == id {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			return true
		}
	}
	return false
}
