package agent

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
)

func TestSpawnerRefillsPopulation(t *testing.T) {
	h := newHarness(t, func(s *Settings) {
		s.SpawnCheckInterval = 500 * time.Millisecond
	})
	origin := at(500, 500)
	spawner := h.world.Spawn()
	h.stores.Spawner.Insert(spawner, comp.Spawner{RefID: 1955, Position: origin, Radius: 50, Target: 3})

	h.tick(1)
	assert.Equal(t, 3, h.stores.Monster.Len())
	sp, _ := h.stores.Spawner.Get(spawner)
	assert.Equal(t, 3, sp.Current)
	assert.Equal(t, 600*time.Millisecond, sp.NextCheck)

	h.stores.Monster.Each(func(e ecs.Entity, m *comp.Monster) {
		assert.Equal(t, spawner, m.SpawnedBy)
		pos, _ := h.stores.Position.Get(e)
		assert.T(t, pos.DistanceTo(origin) <= 50.01, pos)
		assert.Equal(t, uint32(50), h.hp(e))
		assert.T(t, h.stores.RandomStroll.Has(e))
	})

	// killed monsters are replaced at the next check
	victim := h.stores.Monster.Entities()[0]
	h.world.Despawn(victim)
	sp.Current--
	h.tick(4)
	assert.Equal(t, 2, h.stores.Monster.Len())
	h.tick(1)
	assert.Equal(t, 3, h.stores.Monster.Len())
}

func TestMonstersStroll(t *testing.T) {
	h := newHarness(t, func(s *Settings) {
		s.StrollInterval = time.Second
	})
	monster := h.world.Spawn()
	for _, part := range MonsterParts(h.stores, h.data.MustCharacter(1954), 0, at(500, 500), 40, 0) {
		part(monster)
	}

	h.tick(1)
	stroll, _ := h.stores.RandomStroll.Get(monster)
	assert.T(t, stroll.NextAt >= 600*time.Millisecond && stroll.NextAt < 1600*time.Millisecond, stroll.NextAt)
	target, ok := h.stores.MovementTarget.Get(monster)
	if ok {
		assert.T(t, target.Destination.DistanceTo(at(500, 500)) <= 40.01)
	}
	agent, _ := h.stores.Agent.Get(monster)
	assert.T(t, ok || !agent.Moving)
}

func TestRandomPointAroundStaysInRadius(t *testing.T) {
	center := at(1900, 10)
	for i := 0; i < 100; i++ {
		p := RandomPointAround(center, 30)
		assert.T(t, p.DistanceTo(center) <= 30.01, p)
	}
}
