package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// LogoutSystem counts down logouts; the player is saved and removed by the disconnect system
type LogoutSystem struct {
	base
}

func (sys *LogoutSystem) Name() string       { return LogoutSystemName }
func (sys *LogoutSystem) Phase() sched.Phase { return sched.Execute }

func (sys *LogoutSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.Client.ID()),
		Writes: ids(sys.Logout.ID(), sys.Disconnects.ID),
	}
}

func (sys *LogoutSystem) Run(ctx *sched.Context) {
	sys.Logout.Each(func(e ecs.Entity, logout *comp.Logout) {
		if logout.Remaining > ctx.Delta {
			logout.Remaining -= ctx.Delta
			return
		}
		logout.Remaining = 0
		ecs.Remove(ctx.Commands, sys.Logout, e)
		sys.send(e, &proto.LogoutFinished{})
		gwlog.Infof("%s: logged out (mode %d)", e, logout.Mode)
		sys.Disconnects.Push(e, comp.DisconnectLogout)
	})
}
