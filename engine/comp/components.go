package comp

import (
	"time"

	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/storage"
)

// GameEntity is carried by every entity clients can see
type GameEntity struct {
	RefID    uint32
	UniqueID common.UniqueID
}

// Agent is an entity able to move
type Agent struct {
	Speed       float32
	Moving      bool
	Destination Position
}

// MovementTarget makes an agent walk to Destination; Stop halts it where it is
type MovementTarget struct {
	Destination Position
	Stop        bool
}

// Turning turns an agent without moving
type Turning struct {
	Heading float32
}

// Player is a character controlled by a client
type Player struct {
	Character    *storage.CharacterData // record loaded at join; live fields are in the other components
	Name         string
	UserID       uint32
	Race         refdata.Race
	Strength     uint16
	Intelligence uint16
	StatPoints   uint16
	GM           bool
}

// Client is the connection of a player
type Client struct {
	Conn *proto.ClientConnection
}

// PlayerInput is what a client asked for during one tick
type PlayerInput struct {
	Movement  *proto.MovementRequest
	Rotation  *proto.RotationRequest
	Action    *proto.PerformActionRequest
	Target    *proto.TargetEntityRequest
	Untarget  bool
	Logout    *proto.LogoutRequest
	Inventory []*proto.InventoryOperationRequest
	Chat      []*proto.ChatRequest
	Gm        []*proto.GmCommandRequest
	Stats     []proto.ClientMessage

	FinishedLoading bool
}

// Reset clears the input of the tick
func (in *PlayerInput) Reset() {
	*in = PlayerInput{Inventory: in.Inventory[:0], Chat: in.Chat[:0], Gm: in.Gm[:0], Stats: in.Stats[:0]}
}

// Empty checks if there is no pending input
func (in *PlayerInput) Empty() bool {
	return in.Movement == nil && in.Rotation == nil && in.Action == nil && in.Target == nil && !in.Untarget &&
		in.Logout == nil && len(in.Inventory) == 0 && len(in.Chat) == 0 && len(in.Gm) == 0 && len(in.Stats) == 0 &&
		!in.FinishedLoading
}

// LastAction is the simulated time of the latest inbound message of a client
type LastAction struct {
	At time.Duration
}

// Health is the hit points of a living entity
type Health struct {
	HP    uint32
	MaxHP uint32
}

// Leveled is the level of a player or monster
type Leveled struct {
	Level uint8
}

// PlayerInventory is the inventory of a player
type PlayerInventory struct {
	Inventory *inventory.Inventory
}

// Visibility is the set of entities a player currently sees
type Visibility struct {
	Radius   float32 // bounded by the radius of the visibility system
	InRadius map[ecs.Entity]struct{}
	Entered  map[ecs.Entity]struct{} // spawned to the client in this tick, already in their current state
}

// Contains checks if e is visible
func (v *Visibility) Contains(e ecs.Entity) bool {
	_, ok := v.InRadius[e]
	return ok
}

// Synchronize accumulates the changes of one entity during a tick until they are broadcast
type Synchronize struct {
	Movement  *proto.EntityMovement
	Damage    []proto.EntityDamage
	Despawned []common.UniqueID // entities that left the visibility of this player
}

// Empty checks if nothing is pending
func (s *Synchronize) Empty() bool {
	return s.Movement == nil && len(s.Damage) == 0 && len(s.Despawned) == 0
}

// Clear drops everything pending
func (s *Synchronize) Clear() {
	s.Movement = nil
	s.Damage = s.Damage[:0]
	s.Despawned = s.Despawned[:0]
}

// ActionState is a stage of a skill execution
type ActionState uint8

const (
	Preparation ActionState = iota
	Casting
	Execution
	Teardown
)

var actionStateNames = [...]string{"Preparation", "Casting", "Execution", "Teardown"}

func (s ActionState) String() string {
	if int(s) < len(actionStateNames) {
		return actionStateNames[s]
	}
	return "ActionState?"
}

// ActionTarget is what an action is aimed at
type ActionTarget struct {
	Kind     proto.ActionTargetKind
	Entity   ecs.Entity // TargetEntity, or the actor itself for TargetSelf
	Location Position   // TargetLocation
}

// Action is present while an entity executes a skill
type Action struct {
	Skill     *refdata.SkillData
	Target    ActionTarget
	State     ActionState
	Remaining time.Duration
	Instance  common.AttackInstance // set when the attack resolved
}

// Pickup is present while an entity picks up a ground item
type Pickup struct {
	Target   ecs.Entity
	Claimed  bool
	Item     inventory.Item // claimed item, granted when the cooldown ends
	Cooldown time.Duration
}

// Target is the selected entity of a player
type Target struct {
	Entity ecs.Entity
}

// Logout counts down to the disconnect of a leaving player
type Logout struct {
	Mode      proto.LogoutMode
	Remaining time.Duration
}

// Dead marks a killed entity
type Dead struct {
	Since time.Duration
}

// Monster is a non player character; SpawnedBy may be stale
type Monster struct {
	SpawnedBy ecs.Entity
}

// Spawner keeps a population of monsters around a position
type Spawner struct {
	RefID     uint32
	Position  Position
	Radius    float32
	Target    int
	Current   int
	NextCheck time.Duration
}

// RandomStroll makes an idle monster walk around its origin
type RandomStroll struct {
	Origin Position
	Radius float32
	NextAt time.Duration
}

// Drop is an item lying on the ground
type Drop struct {
	Item    inventory.Item
	Expires time.Duration
	Claimed bool
}

// PendingJoin is present while the character of a joining client is loaded
type PendingJoin struct {
	Task    *async.Task
	Request proto.JoinRequest
}
