package agent

import (
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
	"github.com/xiaonanln/gwagent/engine/storage"
)

// JoinSystem polls the character loads of joining clients and spawns the players
type JoinSystem struct {
	base
}

func (sys *JoinSystem) Name() string       { return JoinSystemName }
func (sys *JoinSystem) Phase() sched.Phase { return sched.Input }

func (sys *JoinSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.Client.ID()),
		Writes: ids(sys.PendingJoin.ID()),
	}
}

func (sys *JoinSystem) Run(ctx *sched.Context) {
	sys.PendingJoin.Each(func(e ecs.Entity, pj *comp.PendingJoin) {
		ctx.Each(e, func() {
			sys.poll(ctx, e, pj)
		})
	})
}

func (sys *JoinSystem) poll(ctx *sched.Context, e ecs.Entity, pj *comp.PendingJoin) {
	res, err, ready := pj.Task.TryResult()
	if !ready {
		return
	}
	ecs.Remove(ctx.Commands, sys.PendingJoin, e)

	var char *storage.CharacterData
	if err == nil {
		char, _ = res.(*storage.CharacterData)
		if char == nil {
			err = errors.Errorf("%s returned %T", pj.Task, res)
		} else if char.UserID != pj.Request.UserID {
			err = errors.Errorf("character %s does not belong to user %d", char.Name, pj.Request.UserID)
		}
	}
	var parts []ecs.Part
	var spawn *proto.CharacterSpawn
	if err == nil {
		parts, spawn, err = sys.newPlayer(char)
	}
	if err != nil {
		gwlog.Errorf("%s: join %s failed: %s", e, pj.Request.CharacterName, err)
		msg := "join failed"
		if errors.Cause(err) == storage.ErrCharacterNotFound {
			msg = "character not found"
		}
		sys.send(e, &proto.JoinResponse{Success: false, Error: msg})
		return
	}

	for _, part := range parts {
		part := part
		ctx.Commands.Push(func(w *ecs.World) {
			part(e)
		})
	}
	sys.send(e, &proto.JoinResponse{Success: true})
	sys.send(e, &proto.CharacterSpawnStart{})
	sys.send(e, spawn)
	sys.send(e, &proto.CharacterSpawnEnd{})
	gwlog.Infof("%s: character %s (user %d) joined as unique id %d", e, char.Name, char.UserID, spawn.UniqueID)
}

// ReceiveInputSystem drains every client connection into the input buffers
type ReceiveInputSystem struct {
	base
}

func (sys *ReceiveInputSystem) Name() string       { return ReceiveInputSystemName }
func (sys *ReceiveInputSystem) Phase() sched.Phase { return sched.Input }

func (sys *ReceiveInputSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.Client.ID(), sys.Player.ID(), sys.PendingJoin.ID()),
		Writes: ids(sys.PlayerInput.ID(), sys.LastAction.ID(), sys.Disconnects.ID),
		After:  []string{JoinSystemName},
	}
}

func (sys *ReceiveInputSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.Client, sys.LastAction, func(e ecs.Entity, client *comp.Client, last *comp.LastAction) {
		ctx.Each(e, func() {
			sys.receive(ctx, e, client.Conn, last)
		})
	})
}

func (sys *ReceiveInputSystem) receive(ctx *sched.Context, e ecs.Entity, conn *proto.ClientConnection, last *comp.LastAction) {
	input, _ := sys.PlayerInput.Get(e)
	received := false
	for {
		msg, err := conn.Recv()
		if err == proto.ErrStreamClosed {
			sys.Disconnects.Push(e, comp.DisconnectClosed)
			return
		} else if err != nil {
			received = true
			gwlog.Warnf("%s: dropping message from %s: %s", e, conn, err)
			continue
		} else if msg == nil {
			break
		}

		received = true
		if consts.DEBUG_CLIENTS {
			gwlog.Debugf("%s: received %T", e, msg)
		}
		if join, ok := msg.(*proto.JoinRequest); ok {
			sys.requestJoin(ctx, e, join)
		} else if input == nil {
			gwlog.Warnf("%s: dropping %T before join", e, msg)
		} else {
			buffer(input, msg)
		}
	}

	if received {
		last.At = ctx.Now
	} else if ctx.Now-last.At > sys.settings.ClientTimeout {
		gwlog.Infof("%s: %s timed out", e, conn)
		sys.Disconnects.Push(e, comp.DisconnectTimeout)
	}
}

func (sys *ReceiveInputSystem) requestJoin(ctx *sched.Context, e ecs.Entity, req *proto.JoinRequest) {
	if sys.Player.Has(e) || sys.PendingJoin.Has(e) {
		gwlog.Warnf("%s: duplicate join request for %s", e, req.CharacterName)
		return
	}
	shard := req.Shard
	if shard == 0 {
		shard = sys.settings.Shard
	}
	task := sys.settings.LoadCharacter(shard, req.CharacterName)
	ecs.Insert(ctx.Commands, sys.PendingJoin, e, comp.PendingJoin{Task: task, Request: *req})
}

// buffer keeps the latest movement, rotation, action, target and logout, and every queued operation
func buffer(input *comp.PlayerInput, msg proto.ClientMessage) {
	switch m := msg.(type) {
	case *proto.MovementRequest:
		input.Movement = m
	case *proto.RotationRequest:
		input.Rotation = m
	case *proto.PerformActionRequest:
		input.Action = m
	case *proto.TargetEntityRequest:
		input.Target = m
		input.Untarget = false
	case *proto.UntargetEntityRequest:
		input.Target = nil
		input.Untarget = true
	case *proto.LogoutRequest:
		input.Logout = m
	case *proto.InventoryOperationRequest:
		input.Inventory = append(input.Inventory, m)
	case *proto.ChatRequest:
		input.Chat = append(input.Chat, m)
	case *proto.GmCommandRequest:
		input.Gm = append(input.Gm, m)
	case *proto.IncreaseStrRequest, *proto.IncreaseIntRequest:
		input.Stats = append(input.Stats, m)
	case *proto.FinishLoading:
		input.FinishedLoading = true
	}
}

// ResetInputSystem clears the input buffers once the tick consumed them
type ResetInputSystem struct {
	base
}

func (sys *ResetInputSystem) Name() string       { return ResetInputSystemName }
func (sys *ResetInputSystem) Phase() sched.Phase { return sched.Cleanup }

func (sys *ResetInputSystem) Access() sched.Access {
	return sched.Access{
		Writes: ids(sys.PlayerInput.ID()),
	}
}

func (sys *ResetInputSystem) Run(ctx *sched.Context) {
	sys.PlayerInput.Each(func(e ecs.Entity, input *comp.PlayerInput) {
		input.Reset()
	})
}
