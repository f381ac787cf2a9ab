// Package agent contains the simulation systems deciding and executing what players and monsters do
package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// System names, referenced by ordering declarations
const (
	JoinSystemName             = "join"
	ReceiveInputSystemName     = "receive_input"
	PlayerTransitionSystemName = "player_transition"
	MonsterStrollSystemName    = "monster_stroll"
	MovementSystemName         = "movement"
	ActionSystemName           = "action"
	DamageSystemName           = "damage"
	PickupSystemName           = "pickup"
	InventorySystemName        = "inventory"
	StatSystemName             = "stat"
	GmSystemName               = "gm"
	LogoutSystemName           = "logout"
	SpawnerSystemName          = "spawner"
	DropExpirySystemName       = "drop_expiry"
	CorpseSystemName           = "corpse"
	DisconnectSystemName       = "disconnect"
	ResetInputSystemName       = "reset_input"
)

// base is embedded by every system of this package
type base struct {
	*comp.Stores
	data     *refdata.Data
	settings *Settings
}

func (b *base) send(e ecs.Entity, msg proto.ServerMessage) {
	if c, ok := b.Client.Get(e); ok {
		c.Conn.Send(msg)
	}
}

func (b *base) sendActionResponse(e ecs.Entity, stop bool, result proto.ActionResult) {
	b.send(e, &proto.PerformActionResponse{Stop: stop, Result: result})
}

// Systems creates the systems of this package in registration order
func Systems(stores *comp.Stores, data *refdata.Data, settings *Settings) []sched.System {
	b := base{Stores: stores, data: data, settings: settings}
	return []sched.System{
		&JoinSystem{b},
		&ReceiveInputSystem{b},
		&PlayerTransitionSystem{b},
		&MonsterStrollSystem{b},
		&MovementSystem{b},
		&ActionSystem{b},
		&DamageSystem{b},
		&PickupSystem{b},
		&InventorySystem{b},
		&StatSystem{b},
		&GmSystem{b},
		&LogoutSystem{b},
		&SpawnerSystem{b},
		&DropExpirySystem{b},
		&CorpseSystem{b},
		&DisconnectSystem{base: b},
		&ResetInputSystem{b},
	}
}

func ids(list ...ecs.ComponentID) []ecs.ComponentID {
	return list
}
