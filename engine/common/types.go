package common

import "sync/atomic"

// UniqueID is the server assigned runtime id of a spawned entity, as seen by clients
type UniqueID uint32

// AttackInstance tags one resolved attack
type AttackInstance uint32

// IDAllocator allocates monotonically increasing ids, safe for concurrent use
type IDAllocator struct {
	last uint32
}

// NewIDAllocator creates an allocator whose first id is start
func NewIDAllocator(start uint32) *IDAllocator {
	return &IDAllocator{last: start - 1}
}

// Next returns the next id
func (a *IDAllocator) Next() uint32 {
	return atomic.AddUint32(&a.last, 1)
}

// Last returns the latest allocated id
func (a *IDAllocator) Last() uint32 {
	return atomic.LoadUint32(&a.last)
}

var (
	uniqueIDs       = NewIDAllocator(1)
	attackInstances = NewIDAllocator(1)
)

// NextUniqueID allocates a unique id for a new entity
func NextUniqueID() UniqueID {
	return UniqueID(uniqueIDs.Next())
}

// NextAttackInstance allocates the id of a resolved attack
func NextAttackInstance() AttackInstance {
	return AttackInstance(attackInstances.Next())
}
