package comp

import (
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/inventory"
)

// Stores holds every component store and shared resource of a world
type Stores struct {
	World *ecs.World

	// dense: most live entities carry these
	GameEntity      *ecs.Store[GameEntity]
	Position        *ecs.Store[Position]
	Agent           *ecs.Store[Agent]
	Health          *ecs.Store[Health]
	Leveled         *ecs.Store[Leveled]
	Synchronize     *ecs.Store[Synchronize]
	Client          *ecs.Store[Client]
	LastAction      *ecs.Store[LastAction]
	PlayerInput     *ecs.Store[PlayerInput]
	Player          *ecs.Store[Player]
	GoldPouch       *ecs.Store[inventory.GoldPouch]
	PlayerInventory *ecs.Store[PlayerInventory]
	Visibility      *ecs.Store[Visibility]

	// sparse
	MovementTarget *ecs.Store[MovementTarget]
	Turning        *ecs.Store[Turning]
	Action         *ecs.Store[Action]
	Pickup         *ecs.Store[Pickup]
	Target         *ecs.Store[Target]
	Logout         *ecs.Store[Logout]
	Dead           *ecs.Store[Dead]
	Monster        *ecs.Store[Monster]
	Spawner        *ecs.Store[Spawner]
	RandomStroll   *ecs.Store[RandomStroll]
	Drop           *ecs.Store[Drop]
	PendingJoin    *ecs.Store[PendingJoin]

	// resources
	UniqueIndex *UniqueIndex
	Disconnects *DisconnectQueue
	Damages     *DamageQueue
	Expiry      *ExpiryIndex
}

// NewStores registers all stores and resources in w
func NewStores(w *ecs.World) *Stores {
	s := &Stores{
		World: w,

		GameEntity:      ecs.Dense[GameEntity](w, "GameEntity"),
		Position:        ecs.Dense[Position](w, "Position"),
		Agent:           ecs.Dense[Agent](w, "Agent"),
		Health:          ecs.Dense[Health](w, "Health"),
		Leveled:         ecs.Dense[Leveled](w, "Leveled"),
		Synchronize:     ecs.Dense[Synchronize](w, "Synchronize"),
		Client:          ecs.Dense[Client](w, "Client"),
		LastAction:      ecs.Dense[LastAction](w, "LastAction"),
		PlayerInput:     ecs.Dense[PlayerInput](w, "PlayerInput"),
		Player:          ecs.Dense[Player](w, "Player"),
		GoldPouch:       ecs.Dense[inventory.GoldPouch](w, "GoldPouch"),
		PlayerInventory: ecs.Dense[PlayerInventory](w, "PlayerInventory"),
		Visibility:      ecs.Dense[Visibility](w, "Visibility"),

		MovementTarget: ecs.Sparse[MovementTarget](w, "MovementTarget"),
		Turning:        ecs.Sparse[Turning](w, "Turning"),
		Action:         ecs.Sparse[Action](w, "Action"),
		Pickup:         ecs.Sparse[Pickup](w, "Pickup"),
		Target:         ecs.Sparse[Target](w, "Target"),
		Logout:         ecs.Sparse[Logout](w, "Logout"),
		Dead:           ecs.Sparse[Dead](w, "Dead"),
		Monster:        ecs.Sparse[Monster](w, "Monster"),
		Spawner:        ecs.Sparse[Spawner](w, "Spawner"),
		RandomStroll:   ecs.Sparse[RandomStroll](w, "RandomStroll"),
		Drop:           ecs.Sparse[Drop](w, "Drop"),
		PendingJoin:    ecs.Sparse[PendingJoin](w, "PendingJoin"),
	}
	s.UniqueIndex = newUniqueIndex(w, s.GameEntity)
	s.Disconnects = &DisconnectQueue{ID: w.Resource("Disconnects")}
	s.Damages = &DamageQueue{ID: w.Resource("Damages")}
	s.Expiry = newExpiryIndex(w, s.Drop)
	return s
}

// Resolve looks up an entity by unique id; the entity must be alive and still carry that id
func (s *Stores) Resolve(id uint32) (ecs.Entity, *GameEntity, bool) {
	e, ok := s.UniqueIndex.Lookup(common.UniqueID(id))
	if !ok {
		return 0, nil, false
	}
	ge, ok := s.GameEntity.Get(e)
	return e, ge, ok
}

// UniqueIDOf returns the unique id of e, 0 if it is not a game entity
func (s *Stores) UniqueIDOf(e ecs.Entity) uint32 {
	if ge, ok := s.GameEntity.Get(e); ok {
		return uint32(ge.UniqueID)
	}
	return 0
}

// IsAlive checks that e exists and is not dead
func (s *Stores) IsAlive(e ecs.Entity) bool {
	return s.World.Alive(e) && !s.Dead.Has(e)
}
