package ecs

import (
	"github.com/pkg/errors"
)

// World owns the entity pool and every component store
type World struct {
	pool   EntityPool
	stores []AnyStore
	names  []string // by ComponentID, stores and resources
	locked bool
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{}
}

// Dense registers a dense component store
func Dense[T any](w *World, name string) *Store[T] {
	return register[T](w, name, false)
}

// Sparse registers a sparse component store
func Sparse[T any](w *World, name string) *Store[T] {
	s := register[T](w, name, true)
	s.index = map[Entity]int{}
	return s
}

func register[T any](w *World, name string, sparse bool) *Store[T] {
	s := &Store[T]{
		id:     w.allocID(name),
		name:   name,
		world:  w,
		sparse: sparse,
	}
	w.stores = append(w.stores, s)
	return s
}

// Resource registers a shared resource (event queue, index) so that systems can declare access to it
func (w *World) Resource(name string) ComponentID {
	return w.allocID(name)
}

func (w *World) allocID(name string) ComponentID {
	if w.locked {
		panic(errors.Errorf("ecs: register %s while a phase is running", name))
	}
	for _, n := range w.names {
		if n == name {
			panic(errors.Errorf("ecs: %s registered twice", name))
		}
	}
	w.names = append(w.names, name)
	return ComponentID(len(w.names) - 1)
}

// ComponentName returns the name of a store or resource
func (w *World) ComponentName(id ComponentID) string {
	if int(id) < 0 || int(id) >= len(w.names) {
		return "<unknown>"
	}
	return w.names[id]
}

// NumComponents returns the number of registered stores and resources
func (w *World) NumComponents() int {
	return len(w.names)
}

// Spawn creates an entity without components
func (w *World) Spawn() Entity {
	w.checkStructuralChange("entity")
	return w.pool.Create()
}

// Despawn removes every component of the entity and frees the handle.
// Despawning a dead handle is a no-op and returns false.
func (w *World) Despawn(e Entity) bool {
	w.checkStructuralChange("entity")
	if !w.pool.Alive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.pool.Destroy(e)
}

// Alive checks if the handle refers to a live entity
func (w *World) Alive(e Entity) bool {
	return w.pool.Alive(e)
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.pool.Len()
}

// Lock forbids structural changes until Unlock; the scheduler locks the world while a phase runs
func (w *World) Lock() {
	w.locked = true
}

// Unlock allows structural changes again
func (w *World) Unlock() {
	w.locked = false
}

// Locked returns if a phase is running
func (w *World) Locked() bool {
	return w.locked
}

func (w *World) checkStructuralChange(what string) {
	if w.locked {
		panic(errors.Errorf("ecs: structural change of %s while a phase is running", what))
	}
}

// Apply runs the deferred commands in order and resets them
func (w *World) Apply(c *Commands) int {
	ops := c.ops
	c.ops = nil
	for _, op := range ops {
		op(w)
	}
	return len(ops)
}
