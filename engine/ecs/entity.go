package ecs

import "fmt"

// Entity is a generation-stamped handle of a world object: index in the low 32 bits, generation in the high 32 bits.
//
// Generations start at 1, so the zero Entity is never alive.
type Entity uint64

func newEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index of the entity
func (e Entity) Index() uint32 {
	return uint32(e)
}

// Generation returns the generation of the entity
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// IsNil returns if the Entity is the zero handle
func (e Entity) IsNil() bool {
	return e == 0
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity<%d:%d>", e.Index(), e.Generation())
}

// EntityPool allocates entity handles and recycles freed indexes with a bumped generation
type EntityPool struct {
	generations []uint32
	alive       []bool
	free        []uint32
	count       int
}

// Create allocates a new entity
func (p *EntityPool) Create() Entity {
	p.count++
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		p.alive[idx] = true
		return newEntity(idx, p.generations[idx])
	}

	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	p.alive = append(p.alive, true)
	return newEntity(idx, 1)
}

// Alive checks if the entity handle still refers to a live entity
func (p *EntityPool) Alive(e Entity) bool {
	idx := e.Index()
	return int(idx) < len(p.generations) && p.alive[idx] && p.generations[idx] == e.Generation()
}

// Destroy frees the entity, returns false if it is not alive
func (p *EntityPool) Destroy(e Entity) bool {
	if !p.Alive(e) {
		return false
	}

	idx := e.Index()
	p.alive[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 { // wrapped
		p.generations[idx] = 1
	}
	p.free = append(p.free, idx)
	p.count--
	return true
}

// Len returns the number of live entities
func (p *EntityPool) Len() int {
	return p.count
}
