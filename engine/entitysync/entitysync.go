// Package entitysync keeps the visibility set of every player and turns the changes of a tick into client messages
package entitysync

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// System names, referenced by ordering declarations
const (
	VisibilitySystemName   = "visibility"
	SyncOthersSystemName   = "sync_others"
	UpdateClientSystemName = "update_client"
	ChatSystemName         = "chat"
	FlushSystemName        = "flush"
	CleanSyncSystemName    = "clean_sync"
)

type base struct {
	*comp.Stores
}

func (b *base) send(e ecs.Entity, msg proto.ServerMessage) {
	if c, ok := b.Client.Get(e); ok {
		c.Conn.Send(msg)
	}
}

// Systems creates the systems of this package in registration order.
// radius is the largest visibility radius of any player, larger Visibility radii are cut to it.
func Systems(stores *comp.Stores, radius float32) []sched.System {
	b := base{stores}
	return []sched.System{
		newVisibilitySystem(b, radius),
		&SyncOthersSystem{b},
		&ChatSystem{b},
		&UpdateClientSystem{b},
		&FlushSystem{b},
		&CleanSyncSystem{b},
	}
}

func ids(list ...ecs.ComponentID) []ecs.ComponentID {
	return list
}
