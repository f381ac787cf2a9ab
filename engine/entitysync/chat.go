package entitysync

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// ChatSystem delivers the chat messages of players to everyone who sees them
type ChatSystem struct {
	base
}

func (sys *ChatSystem) Name() string       { return ChatSystemName }
func (sys *ChatSystem) Phase() sched.Phase { return sched.Broadcast }

func (sys *ChatSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.PlayerInput.ID(), sys.Player.ID(), sys.Visibility.ID(), sys.Client.ID(), sys.GameEntity.ID()),
		After: []string{VisibilitySystemName},
	}
}

func (sys *ChatSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.PlayerInput, sys.Player, func(e ecs.Entity, input *comp.PlayerInput, player *comp.Player) {
		if len(input.Chat) == 0 {
			return
		}
		ctx.Each(e, func() {
			for _, req := range input.Chat {
				sys.chat(e, player, req)
			}
		})
	})
}

func (sys *ChatSystem) chat(e ecs.Entity, player *comp.Player, req *proto.ChatRequest) {
	if len(req.Message) == 0 || len(req.Message) > consts.CHAT_MAX_LENGTH {
		sys.send(e, &proto.ChatResponse{Success: false, Index: req.Index})
		return
	}
	sys.send(e, &proto.ChatResponse{Success: true, Index: req.Index})

	vis, ok := sys.Visibility.Get(e)
	if !ok {
		return
	}
	update := &proto.ChatUpdate{Source: sys.UniqueIDOf(e), Sender: player.Name, Message: req.Message}
	for other := range vis.InRadius {
		if sys.Player.Has(other) {
			sys.send(other, update)
		}
	}
}
