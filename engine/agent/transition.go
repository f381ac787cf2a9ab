package agent

import (
	"math"
	"math/rand"
	"time"

	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// PlayerTransitionSystem turns player input into behavior components; the Execute systems carry them out
type PlayerTransitionSystem struct {
	base
}

func (sys *PlayerTransitionSystem) Name() string       { return PlayerTransitionSystemName }
func (sys *PlayerTransitionSystem) Phase() sched.Phase { return sched.Transition }

func (sys *PlayerTransitionSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.PlayerInput.ID(), sys.Player.ID(), sys.Client.ID(), sys.GameEntity.ID(), sys.Health.ID(),
			sys.Action.ID(), sys.Pickup.ID(), sys.Logout.ID(), sys.Dead.ID(), sys.PlayerInventory.ID(), sys.Drop.ID(),
			sys.UniqueIndex.ID),
	}
}

func (sys *PlayerTransitionSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.Player, sys.PlayerInput, func(e ecs.Entity, _ *comp.Player, input *comp.PlayerInput) {
		if sys.Dead.Has(e) {
			return
		}
		ctx.Each(e, func() {
			sys.transition(ctx, e, input)
		})
	})
}

func (sys *PlayerTransitionSystem) transition(ctx *sched.Context, e ecs.Entity, input *comp.PlayerInput) {
	if input.Movement != nil {
		if sys.Action.Has(e) {
			ecs.Remove(ctx.Commands, sys.Action, e)
			sys.sendActionResponse(e, true, proto.ActionCompleted)
		}
		ecs.Insert(ctx.Commands, sys.MovementTarget, e, comp.MovementTarget{Destination: comp.PositionOf(input.Movement.Destination)})
	}
	if input.Rotation != nil {
		ecs.Insert(ctx.Commands, sys.Turning, e, comp.Turning{Heading: input.Rotation.Heading})
	}
	if input.Action != nil {
		sys.performAction(ctx, e, input.Action)
	}

	if input.Target != nil {
		sys.target(ctx, e, input.Target)
	} else if input.Untarget {
		ecs.Remove(ctx.Commands, sys.Target, e)
		sys.send(e, &proto.UntargetEntityResponse{Success: true})
	}

	if input.Logout != nil && !sys.Logout.Has(e) {
		mode := input.Logout.Mode
		if mode != proto.LogoutRestart {
			mode = proto.LogoutExit
		}
		ecs.Insert(ctx.Commands, sys.Logout, e, comp.Logout{Mode: mode, Remaining: sys.settings.LogoutDelay})
		sys.send(e, &proto.LogoutResponse{Success: true, Seconds: uint8(sys.settings.LogoutDelay / time.Second), Mode: mode})
	}
}

func (sys *PlayerTransitionSystem) target(ctx *sched.Context, e ecs.Entity, req *proto.TargetEntityRequest) {
	target, _, ok := sys.Resolve(req.UniqueID)
	if !ok || target == e {
		sys.send(e, &proto.TargetEntityResponse{Success: false, UniqueID: req.UniqueID})
		return
	}
	ecs.Insert(ctx.Commands, sys.Target, e, comp.Target{Entity: target})
	resp := &proto.TargetEntityResponse{Success: true, UniqueID: req.UniqueID}
	if hp, ok := sys.Health.Get(target); ok {
		resp.HP, resp.MaxHP = hp.HP, hp.MaxHP
	}
	sys.send(e, resp)
}

func (sys *PlayerTransitionSystem) performAction(ctx *sched.Context, e ecs.Entity, req *proto.PerformActionRequest) {
	if req.Kind == proto.ActionStop {
		if sys.Action.Has(e) {
			ecs.Remove(ctx.Commands, sys.Action, e)
			sys.sendActionResponse(e, true, proto.ActionCompleted)
		}
		return
	}
	if sys.Action.Has(e) || sys.Pickup.Has(e) {
		sys.sendActionResponse(e, true, proto.ActionBusy)
		return
	}

	switch req.Kind {
	case proto.ActionAttack:
		target, ok := sys.resolveTarget(e, req.TargetKind, req.TargetID)
		if !ok || req.TargetKind != proto.TargetEntity || target == e {
			sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
			return
		}
		sys.startAction(ctx, e, sys.data.AttackSkillOf(sys.weaponOf(e)), comp.ActionTarget{Kind: proto.TargetEntity, Entity: target})

	case proto.ActionUseSkill:
		skill, ok := sys.data.Skill(req.SkillID)
		if !ok {
			gwlog.Warnf("%s: dropping action with unknown skill %d", e, req.SkillID)
			return
		}
		target := comp.ActionTarget{Kind: req.TargetKind}
		switch req.TargetKind {
		case proto.TargetSelf:
			target.Entity = e
		case proto.TargetEntity:
			if target.Entity, ok = sys.resolveTarget(e, req.TargetKind, req.TargetID); !ok {
				sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
				return
			}
		case proto.TargetLocation:
			target.Location = comp.PositionOf(req.Location)
		}
		if skill.Attack && target.Kind != proto.TargetEntity {
			sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
			return
		}
		sys.startAction(ctx, e, skill, target)

	case proto.ActionPickup:
		target, ok := sys.resolveTarget(e, req.TargetKind, req.TargetID)
		if !ok || !sys.Drop.Has(target) {
			sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
			return
		}
		ecs.Insert(ctx.Commands, sys.Pickup, e, comp.Pickup{Target: target})

	default:
		gwlog.Warnf("%s: dropping action of unknown kind %d", e, req.Kind)
	}
}

func (sys *PlayerTransitionSystem) resolveTarget(e ecs.Entity, kind proto.ActionTargetKind, id uint32) (ecs.Entity, bool) {
	if kind != proto.TargetEntity {
		return 0, kind == proto.TargetNone
	}
	target, _, ok := sys.Resolve(id)
	if !ok || sys.Dead.Has(target) {
		return 0, false
	}
	return target, true
}

func (sys *PlayerTransitionSystem) weaponOf(e ecs.Entity) *refdata.ItemData {
	inv, ok := sys.PlayerInventory.Get(e)
	if !ok {
		return nil
	}
	if weapon, ok := inv.Inventory.Equipped(inventory.SlotWeapon); ok {
		return weapon.Reference
	}
	return nil
}

func (sys *PlayerTransitionSystem) startAction(ctx *sched.Context, e ecs.Entity, skill *refdata.SkillData, target comp.ActionTarget) {
	ecs.Insert(ctx.Commands, sys.Action, e, comp.Action{
		Skill:     skill,
		Target:    target,
		State:     comp.Preparation,
		Remaining: stateDuration(skill, comp.Preparation),
	})
	sys.sendActionResponse(e, false, proto.ActionSuccess)
	if consts.DEBUG_ACTIONS {
		gwlog.Debugf("%s: starting skill %s", e, skill.Code)
	}
}

// MonsterStrollSystem sends idle monsters walking around their origin from time to time
type MonsterStrollSystem struct {
	base
}

func (sys *MonsterStrollSystem) Name() string       { return MonsterStrollSystemName }
func (sys *MonsterStrollSystem) Phase() sched.Phase { return sched.Transition }

func (sys *MonsterStrollSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.Agent.ID(), sys.Action.ID(), sys.Dead.ID()),
		Writes: ids(sys.RandomStroll.ID()),
	}
}

func (sys *MonsterStrollSystem) Run(ctx *sched.Context) {
	sys.RandomStroll.Each(func(e ecs.Entity, stroll *comp.RandomStroll) {
		if ctx.Now < stroll.NextAt || sys.Dead.Has(e) || sys.Action.Has(e) {
			return
		}
		agent, ok := sys.Agent.Get(e)
		if !ok || agent.Moving {
			return
		}
		stroll.NextAt = ctx.Now + nextStrollDelay(sys.settings.StrollInterval)
		ecs.Insert(ctx.Commands, sys.MovementTarget, e, comp.MovementTarget{Destination: RandomPointAround(stroll.Origin, stroll.Radius)})
	})
}

func nextStrollDelay(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	return interval/2 + time.Duration(rand.Int63n(int64(interval)))
}

// RandomPointAround returns a uniformly distributed point within radius of center, in the same space
func RandomPointAround(center comp.Position, radius float32) comp.Position {
	angle := rand.Float64() * 2 * math.Pi
	dist := float64(radius) * math.Sqrt(rand.Float64())
	x, y, z := center.Global()
	return comp.PositionFromGlobal(center.Region, x+float32(dist*math.Cos(angle)), y, z+float32(dist*math.Sin(angle)), center.Heading)
}
