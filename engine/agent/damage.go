package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// DamageSystem applies the attacks resolved this tick in the order they were resolved
type DamageSystem struct {
	base
}

func (sys *DamageSystem) Name() string       { return DamageSystemName }
func (sys *DamageSystem) Phase() sched.Phase { return sched.Execute }

func (sys *DamageSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.GameEntity.ID(), sys.Monster.ID(), sys.Client.ID(), sys.Position.ID(), sys.Dead.ID()),
		Writes: ids(sys.Health.ID(), sys.Synchronize.ID(), sys.Damages.ID, sys.Spawner.ID(), sys.Agent.ID()),
		After:  []string{ActionSystemName},
	}
}

func (sys *DamageSystem) Run(ctx *sched.Context) {
	// Dead is inserted at the phase barrier, so kills of this tick are tracked here
	killed := map[ecs.Entity]bool{}
	for _, ev := range sys.Damages.Drain() {
		ev := ev
		if killed[ev.Target] || !sys.IsAlive(ev.Target) {
			continue
		}
		ctx.Each(ev.Target, func() {
			if sys.apply(ctx, ev) {
				killed[ev.Target] = true
			}
		})
	}
}

// apply deals one attack, returns true if it killed the target
func (sys *DamageSystem) apply(ctx *sched.Context, ev comp.DamageEvent) bool {
	hp, ok := sys.Health.Get(ev.Target)
	if !ok {
		return false
	}
	if ev.Amount >= hp.HP {
		hp.HP = 0
	} else {
		hp.HP -= ev.Amount
	}
	kill := hp.HP == 0

	dmg := proto.EntityDamage{
		UniqueID:    sys.UniqueIDOf(ev.Target),
		Source:      sys.UniqueIDOf(ev.Source),
		Instance:    uint32(ev.Instance),
		Amount:      ev.Amount,
		RemainingHP: hp.HP,
		Killed:      kill,
	}
	if ev.Skill != nil {
		dmg.SkillID = ev.Skill.ID
	}
	if sync, ok := sys.Synchronize.Get(ev.Target); ok {
		sync.Damage = append(sync.Damage, dmg)
	}
	if consts.DEBUG_ACTIONS {
		gwlog.Debugf("%s hits %s for %d, %d/%d left", ev.Source, ev.Target, ev.Amount, hp.HP, hp.MaxHP)
	}

	if kill {
		sys.kill(ctx, ev.Target)
	}
	return kill
}

func (sys *DamageSystem) kill(ctx *sched.Context, e ecs.Entity) {
	ecs.Insert(ctx.Commands, sys.Dead, e, comp.Dead{Since: ctx.Now})
	ecs.Remove(ctx.Commands, sys.Action, e)
	ecs.Remove(ctx.Commands, sys.MovementTarget, e)
	if agent, ok := sys.Agent.Get(e); ok {
		agent.Moving = false
	}

	monster, ok := sys.Monster.Get(e)
	if !ok {
		gwlog.Infof("%s was killed", e)
		return
	}
	// the spawner may be gone, or the id reused by an entity that is no spawner
	if spawner, ok := sys.Spawner.Get(monster.SpawnedBy); ok && spawner.Current > 0 {
		spawner.Current--
	}

	ge, _ := sys.GameEntity.Get(e)
	pos, ok := sys.Position.Get(e)
	if ge == nil || !ok {
		return
	}
	ref, ok := sys.data.Character(ge.RefID)
	if !ok {
		return
	}
	if gold := goldDropOf(ref); gold > 0 {
		ctx.Commands.Spawn(sys.dropParts(inventory.GoldItem(sys.data, gold), *pos, ctx.Now)...)
	}
}
