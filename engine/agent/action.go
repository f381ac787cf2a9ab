package agent

import (
	"math/rand"
	"time"

	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// ActionSystem advances skill executions: Preparation, Casting, Execution, Teardown, then removal.
//
// Time left over when a state ends is carried into the next state, and states without duration
// are passed in the same tick. The attack of a skill is resolved exactly once, when it enters Execution.
type ActionSystem struct {
	base
}

func (sys *ActionSystem) Name() string       { return ActionSystemName }
func (sys *ActionSystem) Phase() sched.Phase { return sched.Execute }

func (sys *ActionSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.GameEntity.ID(), sys.Player.ID(), sys.PlayerInventory.ID(), sys.Client.ID(), sys.Dead.ID(),
			sys.Position.ID()),
		Writes: ids(sys.Action.ID(), sys.Damages.ID),
		After:  []string{MovementSystemName},
	}
}

func (sys *ActionSystem) Run(ctx *sched.Context) {
	sys.Action.Each(func(e ecs.Entity, action *comp.Action) {
		ctx.Each(e, func() {
			sys.advance(ctx, e, action)
		})
	})
}

// OnEntityFault drops the action of a faulted entity, making it idle
func (sys *ActionSystem) OnEntityFault(ctx *sched.Context, e ecs.Entity, err interface{}) {
	ecs.Remove(ctx.Commands, sys.Action, e)
	sys.sendActionResponse(e, true, proto.ActionCompleted)
}

// stateDuration is the time spent in state; zero or negative timings pass instantly
func stateDuration(skill *refdata.SkillData, state comp.ActionState) time.Duration {
	d := skillTiming(skill, state)
	if d < 0 {
		return 0
	}
	return d
}

func skillTiming(skill *refdata.SkillData, state comp.ActionState) time.Duration {
	switch state {
	case comp.Preparation:
		return skill.Preparation
	case comp.Casting:
		return skill.Cast
	case comp.Execution:
		return skill.Duration
	default:
		return skill.NextDelay
	}
}

func (sys *ActionSystem) advance(ctx *sched.Context, e ecs.Entity, action *comp.Action) {
	if sys.Dead.Has(e) {
		ecs.Remove(ctx.Commands, sys.Action, e)
		return
	}

	elapsed := ctx.Delta
	for {
		if action.Remaining > elapsed {
			action.Remaining -= elapsed
			return
		}
		elapsed -= action.Remaining

		if action.State == comp.Teardown {
			ecs.Remove(ctx.Commands, sys.Action, e)
			sys.sendActionResponse(e, true, proto.ActionCompleted)
			return
		}

		action.State++
		action.Remaining = stateDuration(action.Skill, action.State)
		if consts.DEBUG_ACTIONS {
			gwlog.Debugf("%s: skill %s enters %s at %s", e, action.Skill.Code, action.State, ctx.Now)
		}
		if action.State == comp.Execution && !sys.resolve(e, action) {
			ecs.Remove(ctx.Commands, sys.Action, e)
			sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
			return
		}
	}
}

// resolve applies the effect of the skill, returns false if the action must be aborted
func (sys *ActionSystem) resolve(e ecs.Entity, action *comp.Action) bool {
	if !action.Skill.Attack {
		return true
	}

	target := action.Target.Entity
	if action.Target.Kind != proto.TargetEntity || !sys.IsAlive(target) || !sys.GameEntity.Has(target) {
		if consts.DEBUG_ACTIONS {
			gwlog.Debugf("%s: target %s of skill %s is gone", e, target, action.Skill.Code)
		}
		return false
	}

	action.Instance = common.NextAttackInstance()
	sys.Damages.Push(comp.DamageEvent{
		Source:   e,
		Target:   target,
		Skill:    action.Skill,
		Instance: action.Instance,
		Amount:   sys.damageOf(e),
	})
	return true
}

// damageOf rolls the damage of an attack of e
func (sys *ActionSystem) damageOf(e ecs.Entity) uint32 {
	player, ok := sys.Player.Get(e)
	if !ok {
		return consts.MONSTER_BASE_DAMAGE
	}
	inv, ok := sys.PlayerInventory.Get(e)
	if !ok {
		return consts.UNARMED_DAMAGE
	}
	weapon, ok := inv.Inventory.Equipped(inventory.SlotWeapon)
	if !ok {
		return consts.UNARMED_DAMAGE
	}
	lower, upper := WeaponDamageRange(player.Strength, weapon.Reference)
	return lower + uint32(rand.Int63n(int64(upper-lower)+1))
}

// WeaponDamageRange returns the bounds of an attack with weapon; reinforce is per strength point in 1/100
func WeaponDamageRange(strength uint16, weapon *refdata.ItemData) (lower, upper uint32) {
	lower = uint32(strength)*weapon.Reinforce[0]/100 + weapon.AttackPower[0]
	upper = uint32(strength)*weapon.Reinforce[1]/100 + weapon.AttackPower[1]
	if upper < lower {
		upper = lower
	}
	return
}
