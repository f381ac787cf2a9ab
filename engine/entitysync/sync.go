package entitysync

import (
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// SyncOthersSystem sends every player the movement and damage of the entities it sees
type SyncOthersSystem struct {
	base
}

func (sys *SyncOthersSystem) Name() string       { return SyncOthersSystemName }
func (sys *SyncOthersSystem) Phase() sched.Phase { return sched.Broadcast }

func (sys *SyncOthersSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Visibility.ID(), sys.Synchronize.ID(), sys.Client.ID()),
		After: []string{VisibilitySystemName},
	}
}

func (sys *SyncOthersSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.Visibility, sys.Client, func(e ecs.Entity, vis *comp.Visibility, client *comp.Client) {
		for other := range vis.InRadius {
			// the spawn already carried the current state
			if _, ok := vis.Entered[other]; ok {
				continue
			}
			sync, ok := sys.Synchronize.Get(other)
			if !ok || sync.Empty() {
				continue
			}
			sendChanges(client.Conn, sync)
		}
	})
}

// sendChanges sends copies: the accumulator is reused in the next tick while the messages may still be queued
func sendChanges(conn *proto.ClientConnection, sync *comp.Synchronize) {
	if sync.Movement != nil {
		m := *sync.Movement
		conn.Send(&m)
	}
	for _, d := range sync.Damage {
		d := d
		conn.Send(&d)
	}
}

// UpdateClientSystem sends every player the changes of its own entity and the despawns of the tick
type UpdateClientSystem struct {
	base
}

func (sys *UpdateClientSystem) Name() string       { return UpdateClientSystemName }
func (sys *UpdateClientSystem) Phase() sched.Phase { return sched.Broadcast }

func (sys *UpdateClientSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Synchronize.ID(), sys.Client.ID()),
		After: []string{SyncOthersSystemName},
	}
}

func (sys *UpdateClientSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.Synchronize, sys.Client, func(e ecs.Entity, sync *comp.Synchronize, client *comp.Client) {
		if sync.Empty() {
			return
		}
		sendChanges(client.Conn, sync)
		sendDespawns(client.Conn, sync.Despawned)
	})
}

// sendDespawns sends a single despawn as is and more of them in a group
func sendDespawns(conn *proto.ClientConnection, despawned []common.UniqueID) {
	switch len(despawned) {
	case 0:
		return
	case 1:
		conn.Send(&proto.EntityDespawn{UniqueID: uint32(despawned[0])})
		return
	}

	list := make([]uint32, len(despawned))
	for i, uid := range despawned {
		list[i] = uint32(uid)
	}
	conn.Send(&proto.GroupSpawnStart{Kind: proto.GroupDespawn, Count: uint16(len(list))})
	conn.Send(&proto.GroupSpawnData{Despawned: list})
	conn.Send(&proto.GroupSpawnEnd{})
}

// FlushSystem hands the messages buffered during the tick to the connections
type FlushSystem struct {
	base
}

func (sys *FlushSystem) Name() string       { return FlushSystemName }
func (sys *FlushSystem) Phase() sched.Phase { return sched.Broadcast }

func (sys *FlushSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Client.ID()),
		After: []string{UpdateClientSystemName, ChatSystemName},
	}
}

func (sys *FlushSystem) Run(ctx *sched.Context) {
	sys.Client.Each(func(e ecs.Entity, client *comp.Client) {
		client.Conn.Flush()
	})
}

// CleanSyncSystem empties every accumulator once the tick is broadcast
type CleanSyncSystem struct {
	base
}

func (sys *CleanSyncSystem) Name() string       { return CleanSyncSystemName }
func (sys *CleanSyncSystem) Phase() sched.Phase { return sched.Cleanup }

func (sys *CleanSyncSystem) Access() sched.Access {
	return sched.Access{
		Writes: ids(sys.Synchronize.ID()),
	}
}

func (sys *CleanSyncSystem) Run(ctx *sched.Context) {
	sys.Synchronize.Each(func(e ecs.Entity, sync *comp.Synchronize) {
		sync.Clear()
	})
}
