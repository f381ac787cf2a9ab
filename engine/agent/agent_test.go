package agent

import (
	"testing"
	"time"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/sched"
	"github.com/xiaonanln/gwagent/engine/storage"
)

const testTick = 100 * time.Millisecond

var testRegion = comp.RegionID(168, 96)

type harness struct {
	t        *testing.T
	world    *ecs.World
	stores   *comp.Stores
	data     *refdata.Data
	settings *Settings
	schedule *sched.Schedule
	b        base

	chars map[string]*storage.CharacterData
	saved []*storage.CharacterData
}

func newHarness(t *testing.T, configure ...func(s *Settings)) *harness {
	d, err := refdata.Load("../../data/skills.yaml", "../../data/items.yaml", "../../data/characters.yaml")
	if err != nil {
		t.Fatalf("load reference data: %v", err)
	}
	h := &harness{t: t, data: d, chars: map[string]*storage.CharacterData{}}
	h.world = ecs.NewWorld()
	h.stores = comp.NewStores(h.world)
	h.settings = DefaultSettings()
	h.settings.LoadCharacter = h.loadCharacter
	h.settings.SaveCharacter = h.saveCharacter
	for _, f := range configure {
		f(h.settings)
	}
	h.b = base{Stores: h.stores, data: d, settings: h.settings}
	h.schedule, err = sched.NewBuilder(h.world).Add(Systems(h.stores, d, h.settings)...).Build()
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	return h
}

func (h *harness) loadCharacter(shard uint16, name string) *async.Task {
	task := async.NewTask("load " + name)
	if c, ok := h.chars[name]; ok {
		task.Complete(c.Clone(), nil)
	} else {
		task.Complete(nil, storage.ErrCharacterNotFound)
	}
	return task
}

func (h *harness) saveCharacter(c *storage.CharacterData) *async.Task {
	h.saved = append(h.saved, c)
	task := async.NewTask("save " + c.Name)
	task.Complete(nil, nil)
	return task
}

func character(name string, x, z float32) *storage.CharacterData {
	return &storage.CharacterData{
		ID:       1,
		UserID:   1,
		Name:     name,
		RefID:    1907,
		Level:    10,
		Strength: 20,
		Region:   testRegion,
		X:        x,
		Z:        z,
	}
}

func at(x, z float32) comp.Position {
	return comp.Position{Region: testRegion, X: x, Z: z}
}

// connect adds the entity of a fresh client connection
func (h *harness) connect() (ecs.Entity, *proto.ClientConnection) {
	conn := proto.NewClientConnection()
	e := h.world.Spawn()
	h.stores.Client.Insert(e, comp.Client{Conn: conn})
	h.stores.LastAction.Insert(e, comp.LastAction{At: h.schedule.Now()})
	return e, conn
}

// spawnPlayer puts a player in the world, skipping the join flow
func (h *harness) spawnPlayer(c *storage.CharacterData) (ecs.Entity, *proto.ClientConnection) {
	e, conn := h.connect()
	parts, _, err := h.b.newPlayer(c)
	if err != nil {
		h.t.Fatalf("new player: %v", err)
	}
	for _, part := range parts {
		part(e)
	}
	return e, conn
}

func (h *harness) spawnMonster(refID uint32, spawner ecs.Entity, pos comp.Position) ecs.Entity {
	e := h.world.Spawn()
	for _, part := range MonsterParts(h.stores, h.data.MustCharacter(refID), spawner, pos, 0, h.schedule.Now()) {
		part(e)
	}
	return e
}

func (h *harness) spawnDrop(item inventory.Item, pos comp.Position) ecs.Entity {
	e := h.world.Spawn()
	for _, part := range h.b.dropParts(item, pos, h.schedule.Now()) {
		part(e)
	}
	return e
}

func (h *harness) item(refID uint32, amount uint64) inventory.Item {
	ref, ok := h.data.Item(refID)
	if !ok {
		h.t.Fatalf("item %d not defined", refID)
	}
	return inventory.NewItem(ref, amount)
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.schedule.Tick(testTick)
	}
}

func (h *harness) uid(e ecs.Entity) uint32 {
	return h.stores.UniqueIDOf(e)
}

func (h *harness) hp(e ecs.Entity) uint32 {
	hp, ok := h.stores.Health.Get(e)
	if !ok {
		h.t.Fatalf("%s has no health", e)
	}
	return hp.HP
}

func (h *harness) gold(e ecs.Entity) uint64 {
	pouch, _ := h.stores.GoldPouch.Get(e)
	return pouch.Amount
}

// received flushes conn and returns everything sent to it so far
func received(conn *proto.ClientConnection) []proto.ServerMessage {
	conn.Flush()
	return conn.TakeOutbound()
}

func messagesOf[T any](msgs []proto.ServerMessage) []*T {
	var res []*T
	for _, msg := range msgs {
		if m, ok := any(msg).(*T); ok {
			res = append(res, m)
		}
	}
	return res
}

func TestSystemsBuildIntoSchedule(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, [][]string{{JoinSystemName}, {ReceiveInputSystemName}}, h.schedule.Levels(sched.Input))
	assert.Equal(t, [][]string{{PlayerTransitionSystemName, MonsterStrollSystemName}}, h.schedule.Levels(sched.Transition))

	execute := h.schedule.Levels(sched.Execute)
	assert.Equal(t, []string{MovementSystemName, LogoutSystemName, CorpseSystemName}, execute[0])
	assert.Equal(t, []string{ActionSystemName}, execute[1])
	assert.Equal(t, []string{DamageSystemName, PickupSystemName}, execute[2])
}

func TestNewPlayerRestoresCharacter(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 200)
	c.Gold = 70
	c.HP = 0
	c.Items = []storage.CharacterItem{
		{Slot: inventory.SlotWeapon, RefID: 10, UpgradeLevel: 3},
		{Slot: 20, RefID: 16, Amount: 12},
		{Slot: 21, RefID: 9999},
	}
	e, _ := h.spawnPlayer(c)

	assert.Equal(t, uint64(70), h.gold(e))
	assert.Equal(t, uint32(200), h.hp(e))
	inv, _ := h.stores.PlayerInventory.Get(e)
	assert.Equal(t, 2, inv.Inventory.Len())
	weapon, ok := inv.Inventory.Equipped(inventory.SlotWeapon)
	assert.T(t, ok)
	assert.Equal(t, uint8(3), weapon.TypeData.UpgradeLevel)
	potions, _ := inv.Inventory.Get(20)
	assert.Equal(t, uint16(12), potions.Count())

	target, _, ok := h.stores.Resolve(h.uid(e))
	assert.T(t, ok)
	assert.Equal(t, e, target)
}

func TestSnapshotCapturesLiveState(t *testing.T) {
	h := newHarness(t)
	e, _ := h.spawnPlayer(character("alice", 100, 200))
	pos, _ := h.stores.Position.Get(e)
	pos.X = 150
	pouch, _ := h.stores.GoldPouch.Get(e)
	pouch.Gain(33)
	inv, _ := h.stores.PlayerInventory.Get(e)
	inv.Inventory.Set(13, h.item(16, 5))

	c, ok := Snapshot(h.stores, e)
	assert.T(t, ok)
	assert.Equal(t, float32(150), c.X)
	assert.Equal(t, uint64(33), c.Gold)
	assert.Equal(t, []storage.CharacterItem{{Slot: 13, RefID: 16, Amount: 5}}, c.Items)
	assert.NotEqual(t, int64(0), c.LastLogout)

	player, _ := h.stores.Player.Get(e)
	assert.Equal(t, float32(100), player.Character.X)
}
