package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// StatSystem spends stat points on strength or intelligence
type StatSystem struct {
	base
}

func (sys *StatSystem) Name() string       { return StatSystemName }
func (sys *StatSystem) Phase() sched.Phase { return sched.Execute }

func (sys *StatSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.PlayerInput.ID(), sys.Client.ID(), sys.Dead.ID()),
		Writes: ids(sys.Player.ID()),
		After:  []string{InventorySystemName},
	}
}

func (sys *StatSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.PlayerInput, sys.Player, func(e ecs.Entity, input *comp.PlayerInput, player *comp.Player) {
		if len(input.Stats) == 0 || sys.Dead.Has(e) {
			return
		}
		for _, req := range input.Stats {
			ok := player.StatPoints > 0
			if ok {
				player.StatPoints--
				if _, str := req.(*proto.IncreaseStrRequest); str {
					player.Strength++
				} else {
					player.Intelligence++
				}
			}
			sys.send(e, &proto.StatResponse{
				Success:      ok,
				Strength:     player.Strength,
				Intelligence: player.Intelligence,
				StatPoints:   player.StatPoints,
			})
		}
	})
}
