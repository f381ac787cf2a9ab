package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// SpawnerSystem refills the population of every spawner up to its target
type SpawnerSystem struct {
	base
}

func (sys *SpawnerSystem) Name() string       { return SpawnerSystemName }
func (sys *SpawnerSystem) Phase() sched.Phase { return sched.Execute }

func (sys *SpawnerSystem) Access() sched.Access {
	return sched.Access{
		Writes: ids(sys.Spawner.ID()),
		After:  []string{DamageSystemName},
	}
}

func (sys *SpawnerSystem) Run(ctx *sched.Context) {
	sys.Spawner.Each(func(e ecs.Entity, spawner *comp.Spawner) {
		if ctx.Now < spawner.NextCheck {
			return
		}
		spawner.NextCheck = ctx.Now + sys.settings.SpawnCheckInterval

		ref, ok := sys.data.Character(spawner.RefID)
		if !ok || ref.Player {
			gwlog.Errorf("%s: spawner of unknown monster %d", e, spawner.RefID)
			return
		}
		for spawner.Current < spawner.Target {
			pos := RandomPointAround(spawner.Position, spawner.Radius)
			ctx.Commands.Spawn(MonsterParts(sys.Stores, ref, e, pos, spawner.Radius, ctx.Now)...)
			spawner.Current++
		}
	})
}

// DropExpirySystem removes ground items nobody picked up in time
type DropExpirySystem struct {
	base
}

func (sys *DropExpirySystem) Name() string       { return DropExpirySystemName }
func (sys *DropExpirySystem) Phase() sched.Phase { return sched.Execute }

func (sys *DropExpirySystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Drop.ID(), sys.Expiry.ID),
		After: []string{PickupSystemName},
	}
}

func (sys *DropExpirySystem) Run(ctx *sched.Context) {
	for _, e := range sys.Expiry.Expired(ctx.Now) {
		// claimed drops leave with their pickup
		if drop, ok := sys.Drop.Get(e); ok && !drop.Claimed {
			ctx.Commands.Despawn(e)
		}
	}
}

// CorpseSystem removes killed monsters once their corpse lifetime is over
type CorpseSystem struct {
	base
}

func (sys *CorpseSystem) Name() string       { return CorpseSystemName }
func (sys *CorpseSystem) Phase() sched.Phase { return sched.Execute }

func (sys *CorpseSystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.Dead.ID(), sys.Monster.ID()),
	}
}

func (sys *CorpseSystem) Run(ctx *sched.Context) {
	sys.Dead.Each(func(e ecs.Entity, dead *comp.Dead) {
		if sys.Monster.Has(e) && ctx.Now-dead.Since >= sys.settings.CorpseLifetime {
			ctx.Commands.Despawn(e)
		}
	})
}
