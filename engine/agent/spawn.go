package agent

import (
	"math/rand"
	"time"

	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/refdata"
)

// dropParts builds a ground item lying at pos
func (b *base) dropParts(item inventory.Item, pos comp.Position, now time.Duration) []ecs.Part {
	return []ecs.Part{
		ecs.With(b.GameEntity, comp.GameEntity{RefID: item.RefID(), UniqueID: common.NextUniqueID()}),
		ecs.With(b.Position, pos),
		ecs.With(b.Drop, comp.Drop{Item: item, Expires: now + b.settings.DropLifetime}),
		ecs.With(b.Synchronize, comp.Synchronize{}),
	}
}

// MonsterParts builds a monster of ref standing at pos; it strolls within radius of pos, if any
func MonsterParts(s *comp.Stores, ref *refdata.CharacterData, spawner ecs.Entity, pos comp.Position, radius float32, now time.Duration) []ecs.Part {
	parts := []ecs.Part{
		ecs.With(s.GameEntity, comp.GameEntity{RefID: ref.ID, UniqueID: common.NextUniqueID()}),
		ecs.With(s.Position, pos),
		ecs.With(s.Agent, comp.Agent{Speed: ref.Speed}),
		ecs.With(s.Health, comp.Health{HP: ref.MaxHP, MaxHP: ref.MaxHP}),
		ecs.With(s.Leveled, comp.Leveled{Level: ref.Level}),
		ecs.With(s.Synchronize, comp.Synchronize{}),
		ecs.With(s.Monster, comp.Monster{SpawnedBy: spawner}),
	}
	if radius > 0 {
		parts = append(parts, ecs.With(s.RandomStroll, comp.RandomStroll{Origin: pos, Radius: radius, NextAt: now}))
	}
	return parts
}

// goldDropOf rolls the gold left by a killed monster, 0 for none
func goldDropOf(ref *refdata.CharacterData) uint64 {
	lower, upper := ref.GoldDrop[0], ref.GoldDrop[1]
	if upper == 0 {
		return 0
	}
	if upper < lower {
		upper = lower
	}
	return uint64(lower) + uint64(rand.Int63n(int64(upper-lower)+1))
}
