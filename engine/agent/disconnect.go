package agent

import (
	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// DisconnectSystem removes the entities of the disconnect events of the tick and saves the players among them
type DisconnectSystem struct {
	base
	saving []*async.Task
}

func (sys *DisconnectSystem) Name() string       { return DisconnectSystemName }
func (sys *DisconnectSystem) Phase() sched.Phase { return sched.Cleanup }

func (sys *DisconnectSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Player.ID(), sys.Client.ID(), sys.Position.ID(), sys.Health.ID(), sys.Leveled.ID(),
			sys.GoldPouch.ID(), sys.PlayerInventory.ID()),
		Writes: ids(sys.Disconnects.ID),
	}
}

func (sys *DisconnectSystem) Run(ctx *sched.Context) {
	sys.pollSaves()

	for _, ev := range sys.Disconnects.Drain() {
		e := ev.Entity
		if !sys.World.Alive(e) {
			continue
		}
		if data, ok := Snapshot(sys.Stores, e); ok {
			if consts.DEBUG_SAVE_LOAD {
				gwlog.Debugf("%s: saving character %s", e, data.Name)
			}
			sys.saving = append(sys.saving, sys.settings.SaveCharacter(data))
		}
		if client, ok := sys.Client.Get(e); ok {
			client.Conn.Flush()
			client.Conn.Close()
		}
		gwlog.Infof("%s: disconnected (%s)", e, ev.Reason)
		ctx.Commands.Despawn(e)
	}
}

// pollSaves logs failed saves and forgets finished ones
func (sys *DisconnectSystem) pollSaves() {
	pending := sys.saving[:0]
	for _, task := range sys.saving {
		_, err, ready := task.TryResult()
		if !ready {
			pending = append(pending, task)
		} else if err != nil {
			gwlog.Errorf("%s failed: %s", task, err)
		}
	}
	sys.saving = pending
}

// PendingSaves returns the number of saves started by disconnects that are not finished yet
func (sys *DisconnectSystem) PendingSaves() int {
	return len(sys.saving)
}
