package agent

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/storage"
)

func TestWeaponDamageRange(t *testing.T) {
	h := newHarness(t)
	sword, _ := h.data.Item(10)
	lower, upper := WeaponDamageRange(20, sword)
	assert.Equal(t, uint32(30), lower)
	assert.Equal(t, uint32(39), upper)
}

func TestSkillStatesFollowTimings(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Items = []storage.CharacterItem{{Slot: inventory.SlotWeapon, RefID: 10}}
	player, conn := h.spawnPlayer(c)
	monster := h.spawnMonster(1954, 0, at(110, 100))

	// 500ms preparation, 300ms casting, 100ms execution, 200ms teardown
	conn.Deliver(&proto.PerformActionRequest{
		Kind:       proto.ActionUseSkill,
		SkillID:    100,
		TargetKind: proto.TargetEntity,
		TargetID:   h.uid(monster),
	})
	for tick := 1; tick <= 7; tick++ {
		h.tick(1)
		assert.Equal(t, uint32(100), h.hp(monster), tick)
		assert.T(t, h.stores.Action.Has(player), tick)
	}

	h.tick(1)
	damage := 100 - h.hp(monster)
	assert.T(t, damage >= 30 && damage <= 39, damage)
	action, _ := h.stores.Action.Get(player)
	assert.Equal(t, comp.Execution, action.State)
	assert.NotEqual(t, uint32(0), uint32(action.Instance))

	sync, _ := h.stores.Synchronize.Get(monster)
	assert.Equal(t, 1, len(sync.Damage))
	assert.Equal(t, h.uid(player), sync.Damage[0].Source)
	assert.Equal(t, uint32(100), sync.Damage[0].SkillID)
	assert.Equal(t, uint32(action.Instance), sync.Damage[0].Instance)

	h.tick(2)
	assert.T(t, h.stores.Action.Has(player))
	h.tick(1)
	assert.T(t, !h.stores.Action.Has(player))
	assert.Equal(t, 100-damage, h.hp(monster))

	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, 2, len(responses))
	assert.Equal(t, proto.PerformActionResponse{Stop: false, Result: proto.ActionSuccess}, *responses[0])
	assert.Equal(t, proto.PerformActionResponse{Stop: true, Result: proto.ActionCompleted}, *responses[1])
}

func TestInstantStatesPassInOneTick(t *testing.T) {
	h := newHarness(t)
	player, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(105, 100))

	// the punch has no preparation nor casting
	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)
	assert.Equal(t, uint32(99), h.hp(monster))
	action, _ := h.stores.Action.Get(player)
	assert.Equal(t, comp.Teardown, action.State)
	assert.Equal(t, h.data.BasicAttack(), action.Skill)
}

func TestNegativeTimingPassesInstantly(t *testing.T) {
	h := newHarness(t)
	player, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(110, 100))
	skill, _ := h.data.Skill(100)
	skill.Preparation = -time.Second

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionUseSkill, SkillID: 100, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)
	action, ok := h.stores.Action.Get(player)
	assert.T(t, ok)
	assert.Equal(t, comp.Casting, action.State)
	assert.Equal(t, 200*time.Millisecond, action.Remaining)
	assert.Equal(t, uint32(100), h.hp(monster))
}

func TestBusyWhileActing(t *testing.T) {
	h := newHarness(t)
	_, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(105, 100))
	attack := &proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)}

	conn.Deliver(attack)
	h.tick(1)
	conn.Deliver(attack)
	h.tick(1)

	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, 2, len(responses))
	assert.Equal(t, proto.PerformActionResponse{Stop: true, Result: proto.ActionBusy}, *responses[1])
}

func TestAttackRejectsInvalidTargets(t *testing.T) {
	h := newHarness(t)
	player, conn := h.spawnPlayer(character("alice", 100, 100))

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: 123456})
	h.tick(1)
	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(player)})
	h.tick(1)

	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, 2, len(responses))
	for _, resp := range responses {
		assert.Equal(t, proto.PerformActionResponse{Stop: true, Result: proto.ActionInvalidTarget}, *resp)
	}
	assert.T(t, !h.stores.Action.Has(player))
}

func TestVanishedTargetAbortsAction(t *testing.T) {
	h := newHarness(t)
	player, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(110, 100))

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionUseSkill, SkillID: 100, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)
	h.world.Despawn(monster)
	h.tick(7)

	assert.T(t, !h.stores.Action.Has(player))
	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, proto.PerformActionResponse{Stop: true, Result: proto.ActionInvalidTarget}, *responses[len(responses)-1])
}

func TestMovementCancelsAction(t *testing.T) {
	h := newHarness(t)
	player, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(110, 100))

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionUseSkill, SkillID: 100, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)
	conn.Deliver(&proto.MovementRequest{Destination: proto.Location{Region: testRegion, X: 200, Z: 100}})
	h.tick(1)

	assert.T(t, !h.stores.Action.Has(player))
	agent, _ := h.stores.Agent.Get(player)
	assert.T(t, agent.Moving)
	pos, _ := h.stores.Position.Get(player)
	assert.Equal(t, float32(105), pos.X)

	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, proto.PerformActionResponse{Stop: true, Result: proto.ActionCompleted}, *responses[len(responses)-1])
}

func TestFaultedActionIsDropped(t *testing.T) {
	h := newHarness(t)
	broken, _ := h.spawnPlayer(character("alice", 100, 100))
	healthy, conn := h.spawnPlayer(character("bob", 100, 100))
	monster := h.spawnMonster(1954, 0, at(110, 100))

	h.stores.Action.Insert(broken, comp.Action{State: comp.Preparation})
	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)

	assert.T(t, !h.stores.Action.Has(broken))
	assert.T(t, h.stores.Action.Has(healthy))
	assert.Equal(t, uint32(99), h.hp(monster))
}

func TestKillMarksDeadAndDropsGold(t *testing.T) {
	h := newHarness(t, func(s *Settings) {
		s.CorpseLifetime = 300 * time.Millisecond
	})
	player, conn := h.spawnPlayer(character("alice", 100, 100))
	spawner := h.world.Spawn()
	h.stores.Spawner.Insert(spawner, comp.Spawner{RefID: 1954, Target: 1, Current: 1, NextCheck: time.Hour})
	monster := h.spawnMonster(1954, spawner, at(105, 100))
	hp, _ := h.stores.Health.Get(monster)
	hp.HP = 1

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)

	assert.T(t, h.stores.Dead.Has(monster))
	assert.Equal(t, uint32(0), h.hp(monster))
	sync, _ := h.stores.Synchronize.Get(monster)
	assert.T(t, sync.Damage[0].Killed)
	assert.Equal(t, h.uid(player), sync.Damage[0].Source)

	sp, _ := h.stores.Spawner.Get(spawner)
	assert.Equal(t, 0, sp.Current)

	drops := h.stores.Drop.Entities()
	assert.Equal(t, 1, len(drops))
	drop, _ := h.stores.Drop.Get(drops[0])
	assert.T(t, drop.Item.IsGold())
	assert.T(t, drop.Item.TypeData.Amount >= 5 && drop.Item.TypeData.Amount <= 20, drop.Item.TypeData.Amount)

	h.tick(2)
	assert.T(t, h.world.Alive(monster))
	h.tick(1)
	assert.T(t, !h.world.Alive(monster))
	_, _, ok := h.stores.Resolve(h.uid(monster))
	assert.T(t, !ok)
}

func TestDeadTargetIsInvalid(t *testing.T) {
	h := newHarness(t)
	_, conn := h.spawnPlayer(character("alice", 100, 100))
	monster := h.spawnMonster(1954, 0, at(105, 100))
	h.stores.Dead.Insert(monster, comp.Dead{})

	conn.Deliver(&proto.PerformActionRequest{Kind: proto.ActionAttack, TargetKind: proto.TargetEntity, TargetID: h.uid(monster)})
	h.tick(1)

	responses := messagesOf[proto.PerformActionResponse](received(conn))
	assert.Equal(t, []*proto.PerformActionResponse{{Stop: true, Result: proto.ActionInvalidTarget}}, responses)
}
