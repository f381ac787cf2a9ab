package ecs

// Commands buffers structural changes of one system until the end of its phase
type Commands struct {
	ops []func(w *World)
}

// Part adds one component to a freshly spawned entity
type Part func(e Entity)

// With creates a Part inserting v into s
func With[T any](s *Store[T], v T) Part {
	return func(e Entity) {
		s.Insert(e, v)
	}
}

// Push defers an arbitrary structural operation
func (c *Commands) Push(op func(w *World)) {
	c.ops = append(c.ops, op)
}

// Spawn defers the creation of an entity with the given components
func (c *Commands) Spawn(parts ...Part) {
	c.Push(func(w *World) {
		e := w.Spawn()
		for _, part := range parts {
			part(e)
		}
	})
}

// Despawn defers the removal of the entity and all its components
func (c *Commands) Despawn(e Entity) {
	c.Push(func(w *World) {
		w.Despawn(e)
	})
}

// Len returns the number of pending operations
func (c *Commands) Len() int {
	return len(c.ops)
}

// Insert defers adding or replacing a component; skipped if the entity is gone by then
func Insert[T any](c *Commands, s *Store[T], e Entity, v T) {
	c.Push(func(*World) {
		s.Insert(e, v)
	})
}

// Remove defers removing a component
func Remove[T any](c *Commands, s *Store[T], e Entity) {
	c.Push(func(*World) {
		s.Remove(e)
	})
}
