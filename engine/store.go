package engine

import (
	"github.com/lixenwraith/ripple/core"
)

// Store is a generic container for a specific component type T
// Entities are kept in insertion order so iteration is deterministic
// Not safe for concurrent use; the engine owner serializes access
type Store[T any] struct {
	components map[core.Entity]T
	entities   []core.Entity // Insertion-ordered entities that have this component
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]T),
		entities:   make([]core.Entity, 0, 64),
	}
}

// SetComponent inserts or updates a component for an entity
// Updating keeps the entity's original position in iteration order
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

// GetComponent retrieves a component for an entity
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	val, ok := s.components[e]
	return val, ok
}

// RemoveEntity deletes a component from an entity, preserving order of the rest
func (s *Store[T]) RemoveEntity(e core.Entity) bool {
	if _, exists := s.components[e]; !exists {
		return false
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
	return true
}

// GetAllEntities returns a copy of all entities with this component type, in insertion order
func (s *Store[T]) GetAllEntities() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// Each calls fn for every entity in insertion order
// fn must not add or remove entities
func (s *Store[T]) Each(fn func(e core.Entity, val T)) {
	for _, e := range s.entities {
		fn(e, s.components[e])
	}
}

// CountEntities returns number of entities with this component
func (s *Store[T]) CountEntities() int {
	return len(s.entities)
}

// ClearAllComponents removes all components from this store
func (s *Store[T]) ClearAllComponents() {
	s.components = make(map[core.Entity]T)
	s.entities = s.entities[:0]
}
