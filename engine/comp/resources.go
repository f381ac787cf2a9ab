package comp

import (
	"sync"
	"time"

	"github.com/petar/GoLLRB/llrb"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/refdata"
)

// UniqueIndex maps the unique ids clients use to entities.
//
// It is maintained by the GameEntity store hooks at phase barriers, so systems only read it.
type UniqueIndex struct {
	ID       ecs.ComponentID
	entities map[common.UniqueID]ecs.Entity
}

func newUniqueIndex(w *ecs.World, gameEntities *ecs.Store[GameEntity]) *UniqueIndex {
	idx := &UniqueIndex{
		ID:       w.Resource("UniqueIndex"),
		entities: map[common.UniqueID]ecs.Entity{},
	}
	gameEntities.OnInsert(func(e ecs.Entity, ge *GameEntity) {
		idx.entities[ge.UniqueID] = e
	})
	gameEntities.OnRemove(func(e ecs.Entity, ge *GameEntity) {
		if idx.entities[ge.UniqueID] == e {
			delete(idx.entities, ge.UniqueID)
		}
	})
	return idx
}

// Lookup returns the entity with the unique id
func (idx *UniqueIndex) Lookup(id common.UniqueID) (ecs.Entity, bool) {
	e, ok := idx.entities[id]
	return e, ok
}

// Len returns the number of indexed entities
func (idx *UniqueIndex) Len() int {
	return len(idx.entities)
}

// DisconnectReason tells why an entity leaves the world
type DisconnectReason uint8

const (
	DisconnectClosed DisconnectReason = iota + 1
	DisconnectTimeout
	DisconnectLogout
	DisconnectShutdown
)

var disconnectReasonNames = map[DisconnectReason]string{
	DisconnectClosed:   "closed",
	DisconnectTimeout:  "timeout",
	DisconnectLogout:   "logout",
	DisconnectShutdown: "shutdown",
}

func (r DisconnectReason) String() string {
	return disconnectReasonNames[r]
}

// Disconnect is a client that must be removed at the end of the tick
type Disconnect struct {
	Entity ecs.Entity
	Reason DisconnectReason
}

// DisconnectQueue collects disconnect events of a tick; it is consumed in the Cleanup phase
type DisconnectQueue struct {
	ID     ecs.ComponentID
	lock   sync.Mutex
	events []Disconnect
}

// Push adds a disconnect event. It is safe for concurrent use.
func (q *DisconnectQueue) Push(e ecs.Entity, reason DisconnectReason) {
	q.lock.Lock()
	q.events = append(q.events, Disconnect{e, reason})
	q.lock.Unlock()
}

// Drain takes all events; an entity pushed twice is returned once, with its first reason
func (q *DisconnectQueue) Drain() []Disconnect {
	q.lock.Lock()
	events := q.events
	q.events = nil
	q.lock.Unlock()

	seen := make(map[ecs.Entity]bool, len(events))
	res := events[:0]
	for _, ev := range events {
		if !seen[ev.Entity] {
			seen[ev.Entity] = true
			res = append(res, ev)
		}
	}
	return res
}

// Len returns the number of pending events
func (q *DisconnectQueue) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.events)
}

// DamageEvent is one resolved attack hitting a target
type DamageEvent struct {
	Source   ecs.Entity
	Target   ecs.Entity
	Skill    *refdata.SkillData
	Instance common.AttackInstance
	Amount   uint32
}

// DamageQueue carries resolved attacks from the action system to the damage system within a tick
type DamageQueue struct {
	ID     ecs.ComponentID
	lock   sync.Mutex
	events []DamageEvent
}

// Push adds a damage event. It is safe for concurrent use.
func (q *DamageQueue) Push(ev DamageEvent) {
	q.lock.Lock()
	q.events = append(q.events, ev)
	q.lock.Unlock()
}

// Drain takes all events in push order
func (q *DamageQueue) Drain() []DamageEvent {
	q.lock.Lock()
	events := q.events
	q.events = nil
	q.lock.Unlock()
	return events
}

type deadline struct {
	at     time.Duration
	entity ecs.Entity
}

func (d deadline) Less(than llrb.Item) bool {
	o := than.(deadline)
	if d.at != o.at {
		return d.at < o.at
	}
	return d.entity < o.entity
}

// ExpiryIndex orders ground drops by expiry time; it follows the Drop store through its hooks
type ExpiryIndex struct {
	ID   ecs.ComponentID
	tree *llrb.LLRB
}

func newExpiryIndex(w *ecs.World, drops *ecs.Store[Drop]) *ExpiryIndex {
	idx := &ExpiryIndex{
		ID:   w.Resource("ExpiryIndex"),
		tree: llrb.New(),
	}
	drops.OnInsert(func(e ecs.Entity, d *Drop) {
		idx.tree.ReplaceOrInsert(deadline{d.Expires, e})
	})
	drops.OnRemove(func(e ecs.Entity, d *Drop) {
		idx.tree.Delete(deadline{d.Expires, e})
	})
	return idx
}

// Expired returns the entities whose deadline is not after now, earliest first
func (idx *ExpiryIndex) Expired(now time.Duration) []ecs.Entity {
	var res []ecs.Entity
	idx.tree.AscendGreaterOrEqual(deadline{}, func(i llrb.Item) bool {
		d := i.(deadline)
		if d.at > now {
			return false
		}
		res = append(res, d.entity)
		return true
	})
	return res
}

// Len returns the number of tracked drops
func (idx *ExpiryIndex) Len() int {
	return idx.tree.Len()
}
