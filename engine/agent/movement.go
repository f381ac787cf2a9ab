package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// MovementSystem walks agents towards their movement target and records movement changes
type MovementSystem struct {
	base
}

func (sys *MovementSystem) Name() string       { return MovementSystemName }
func (sys *MovementSystem) Phase() sched.Phase { return sched.Execute }

func (sys *MovementSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.MovementTarget.ID(), sys.Turning.ID(), sys.GameEntity.ID(), sys.Dead.ID()),
		Writes: ids(sys.Position.ID(), sys.Agent.ID(), sys.Synchronize.ID()),
	}
}

func (sys *MovementSystem) Run(ctx *sched.Context) {
	sys.MovementTarget.Each(func(e ecs.Entity, target *comp.MovementTarget) {
		ctx.Each(e, func() {
			sys.move(ctx, e, target)
		})
	})

	sys.Turning.Each(func(e ecs.Entity, turning *comp.Turning) {
		ecs.Remove(ctx.Commands, sys.Turning, e)
		pos, ok := sys.Position.Get(e)
		if !ok || sys.Dead.Has(e) {
			return
		}
		pos.Heading = turning.Heading
		if sync, ok := sys.Synchronize.Get(e); ok && sync.Movement == nil {
			sync.Movement = &proto.EntityMovement{
				UniqueID: sys.UniqueIDOf(e),
				Kind:     proto.Turn,
				Position: pos.EntityPosition(),
				Heading:  turning.Heading,
			}
		}
	})
}

func (sys *MovementSystem) move(ctx *sched.Context, e ecs.Entity, target *comp.MovementTarget) {
	pos, ok := sys.Position.Get(e)
	agent, ok2 := sys.Agent.Get(e)
	if !ok || !ok2 || sys.Dead.Has(e) {
		ecs.Remove(ctx.Commands, sys.MovementTarget, e)
		return
	}
	sync, _ := sys.Synchronize.Get(e)

	if target.Stop {
		ecs.Remove(ctx.Commands, sys.MovementTarget, e)
		if agent.Moving {
			agent.Moving = false
			sys.record(e, sync, proto.StopMove, *pos)
		}
		return
	}

	if !agent.Moving || agent.Destination != target.Destination {
		agent.Moving = true
		agent.Destination = target.Destination
		sys.record(e, sync, proto.StartMove, *pos)
		if sync != nil {
			sync.Movement.Destination = target.Destination.Location()
		}
	}

	next, arrived := pos.MoveTowards(target.Destination, agent.Speed*float32(ctx.Delta.Seconds()))
	*pos = next
	if arrived {
		agent.Moving = false
		ecs.Remove(ctx.Commands, sys.MovementTarget, e)
		sys.record(e, sync, proto.StopMove, next)
	}
}

// record keeps the latest movement change of the tick
func (sys *MovementSystem) record(e ecs.Entity, sync *comp.Synchronize, kind proto.MovementKind, pos comp.Position) {
	if sync == nil {
		return
	}
	sync.Movement = &proto.EntityMovement{
		UniqueID: sys.UniqueIDOf(e),
		Kind:     kind,
		Position: pos.EntityPosition(),
	}
}
