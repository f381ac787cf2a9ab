package ecs

import (
	"github.com/pkg/errors"
)

// ComponentID identifies a component store or a resource in access declarations
type ComponentID int

// AnyStore is the type-erased view of a component store
type AnyStore interface {
	ID() ComponentID
	Name() string
	Has(e Entity) bool
	Len() int
	remove(e Entity) bool
}

// Store keeps components of type T.
//
// A dense store is indexed by entity index and suits components most entities have.
// A sparse store packs only present components and suits rare ones (Action, Pickup).
// Pointers returned by Get and Each stay valid until the next structural change.
type Store[T any] struct {
	id     ComponentID
	name   string
	world  *World
	sparse bool

	// dense
	owners []Entity
	values []T
	count  int

	// sparse
	index    map[Entity]int
	entities []Entity
	packed   []T

	onInsert []func(e Entity, v *T)
	onRemove []func(e Entity, v *T)
}

// ID returns the component id of the store
func (s *Store[T]) ID() ComponentID {
	return s.id
}

// Name returns the component name
func (s *Store[T]) Name() string {
	return s.name
}

// Sparse returns if the store is sparse
func (s *Store[T]) Sparse() bool {
	return s.sparse
}

// OnInsert registers a hook called when a component is added to an entity (not when replaced)
func (s *Store[T]) OnInsert(hook func(e Entity, v *T)) {
	s.onInsert = append(s.onInsert, hook)
}

// OnRemove registers a hook called right before a component is removed
func (s *Store[T]) OnRemove(hook func(e Entity, v *T)) {
	s.onRemove = append(s.onRemove, hook)
}

// Get returns the component of the entity; stale handles are not found
func (s *Store[T]) Get(e Entity) (*T, bool) {
	if s.sparse {
		i, ok := s.index[e]
		if !ok {
			return nil, false
		}
		return &s.packed[i], true
	}

	idx := int(e.Index())
	if e.IsNil() || idx >= len(s.owners) || s.owners[idx] != e {
		return nil, false
	}
	return &s.values[idx], true
}

// Has checks if the entity has the component
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.Get(e)
	return ok
}

// Len returns the number of components in store
func (s *Store[T]) Len() int {
	if s.sparse {
		return len(s.entities)
	}
	return s.count
}

// Each calls f for every component. f must not change the structure of the store.
func (s *Store[T]) Each(f func(e Entity, v *T)) {
	if s.sparse {
		for i, e := range s.entities {
			f(e, &s.packed[i])
		}
		return
	}

	for idx, e := range s.owners {
		if e != 0 {
			f(e, &s.values[idx])
		}
	}
}

// Entities returns the entities having the component
func (s *Store[T]) Entities() []Entity {
	if s.sparse {
		return append([]Entity(nil), s.entities...)
	}

	res := make([]Entity, 0, s.count)
	for _, e := range s.owners {
		if e != 0 {
			res = append(res, e)
		}
	}
	return res
}

// Insert adds or replaces the component of a live entity, returns false if the entity is dead.
//
// Insert must not be called while a phase is running; systems use Commands instead.
func (s *Store[T]) Insert(e Entity, v T) bool {
	s.world.checkStructuralChange(s.name)
	if !s.world.Alive(e) {
		return false
	}

	if s.sparse {
		if i, ok := s.index[e]; ok {
			s.packed[i] = v
			return true
		}
		s.index[e] = len(s.entities)
		s.entities = append(s.entities, e)
		s.packed = append(s.packed, v)
		s.fireInsert(e, &s.packed[len(s.packed)-1])
		return true
	}

	idx := int(e.Index())
	if idx >= len(s.owners) {
		n := idx + 1
		if n < 2*len(s.owners) {
			n = 2 * len(s.owners)
		}
		owners := make([]Entity, n)
		copy(owners, s.owners)
		values := make([]T, n)
		copy(values, s.values)
		s.owners, s.values = owners, values
	}

	switch s.owners[idx] {
	case e:
		s.values[idx] = v
		return true
	case 0:
		s.owners[idx] = e
		s.values[idx] = v
		s.count++
		s.fireInsert(e, &s.values[idx])
		return true
	default:
		panic(errors.Errorf("ecs: %s of %s outlived its entity", s.name, s.owners[idx]))
	}
}

// Remove removes the component of the entity, returns false if it was absent
func (s *Store[T]) Remove(e Entity) bool {
	s.world.checkStructuralChange(s.name)
	return s.remove(e)
}

func (s *Store[T]) remove(e Entity) bool {
	if s.sparse {
		i, ok := s.index[e]
		if !ok {
			return false
		}
		for _, hook := range s.onRemove {
			hook(e, &s.packed[i])
		}
		last := len(s.entities) - 1
		if i != last {
			moved := s.entities[last]
			s.entities[i] = moved
			s.packed[i] = s.packed[last]
			s.index[moved] = i
		}
		var zero T
		s.packed[last] = zero
		s.entities = s.entities[:last]
		s.packed = s.packed[:last]
		delete(s.index, e)
		return true
	}

	idx := int(e.Index())
	if e.IsNil() || idx >= len(s.owners) || s.owners[idx] != e {
		return false
	}
	for _, hook := range s.onRemove {
		hook(e, &s.values[idx])
	}
	var zero T
	s.owners[idx] = 0
	s.values[idx] = zero
	s.count--
	return true
}

func (s *Store[T]) fireInsert(e Entity, v *T) {
	for _, hook := range s.onInsert {
		hook(e, v)
	}
}
