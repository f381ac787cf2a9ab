package agent

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/storage"
)

func TestDropGoldNeedsEnoughGold(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Gold = 50
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryDropGold, Gold: 100})
	h.tick(1)

	assert.Equal(t, uint64(50), h.gold(player))
	assert.Equal(t, 0, h.stores.Drop.Len())
	responses := messagesOf[proto.InventoryOperationResponse](received(conn))
	assert.Equal(t, 1, len(responses))
	assert.T(t, !responses[0].Success)
	assert.Equal(t, uint8(inventory.ErrNotEnoughGold), responses[0].Error)
}

func TestDropGoldSpawnsGroundGold(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Gold = 50
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryDropGold, Gold: 20})
	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryDropGold, Gold: 0})
	h.tick(1)

	assert.Equal(t, uint64(30), h.gold(player))
	drops := h.stores.Drop.Entities()
	assert.Equal(t, 1, len(drops))
	drop, _ := h.stores.Drop.Get(drops[0])
	assert.Equal(t, uint64(20), drop.Item.TypeData.Amount)
	pos, _ := h.stores.Position.Get(drops[0])
	assert.Equal(t, at(100, 100), *pos)

	msgs := received(conn)
	responses := messagesOf[proto.InventoryOperationResponse](msgs)
	assert.Equal(t, 2, len(responses))
	assert.T(t, responses[0].Success)
	assert.Equal(t, uint8(inventory.ErrImpossible), responses[1].Error)
	assert.Equal(t, []*proto.GoldUpdate{{Amount: 30, Change: -20}}, messagesOf[proto.GoldUpdate](msgs))
}

func TestEquipOtherRaceWeaponIsIndisposable(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Items = []storage.CharacterItem{{Slot: 13, RefID: 12}}
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryMove, Source: 13, Target: inventory.SlotWeapon})
	h.tick(1)

	inv, _ := h.stores.PlayerInventory.Get(player)
	_, worn := inv.Inventory.Equipped(inventory.SlotWeapon)
	assert.T(t, !worn)
	item, ok := inv.Inventory.Get(13)
	assert.T(t, ok)
	assert.Equal(t, uint32(12), item.RefID())

	msgs := received(conn)
	responses := messagesOf[proto.InventoryOperationResponse](msgs)
	assert.Equal(t, 1, len(responses))
	assert.Equal(t, uint8(inventory.ErrIndisposable), responses[0].Error)
	assert.Equal(t, 0, len(messagesOf[proto.CharacterEquipItem](msgs)))
}

func TestEquipAndUnequipNotifyWearer(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Items = []storage.CharacterItem{{Slot: 13, RefID: 10, UpgradeLevel: 2}}
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryMove, Source: 13, Target: inventory.SlotWeapon})
	h.tick(1)
	msgs := received(conn)
	assert.Equal(t, []*proto.CharacterEquipItem{{
		UniqueID:     h.uid(player),
		Slot:         inventory.SlotWeapon,
		RefID:        10,
		UpgradeLevel: 2,
		OneHanded:    true,
	}}, messagesOf[proto.CharacterEquipItem](msgs))

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryMove, Source: inventory.SlotWeapon, Target: 20})
	h.tick(1)
	msgs = received(conn)
	assert.Equal(t, []*proto.CharacterUnequipItem{{UniqueID: h.uid(player), Slot: inventory.SlotWeapon, RefID: 10}},
		messagesOf[proto.CharacterUnequipItem](msgs))
	responses := messagesOf[proto.InventoryOperationResponse](msgs)
	assert.Equal(t, proto.InventoryOperationResponse{Kind: proto.InventoryMove, Success: true, Source: inventory.SlotWeapon, Target: 20, Amount: 1}, *responses[0])
}

func TestDropItemFromEquipment(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.Items = []storage.CharacterItem{{Slot: inventory.SlotWeapon, RefID: 10}}
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryDropItem, Source: inventory.SlotWeapon})
	conn.Deliver(&proto.InventoryOperationRequest{Kind: proto.InventoryDropItem, Source: 30})
	h.tick(1)

	inv, _ := h.stores.PlayerInventory.Get(player)
	assert.Equal(t, 0, inv.Inventory.Len())
	drops := h.stores.Drop.Entities()
	assert.Equal(t, 1, len(drops))
	drop, _ := h.stores.Drop.Get(drops[0])
	assert.Equal(t, uint32(10), drop.Item.RefID())

	msgs := received(conn)
	assert.Equal(t, 1, len(messagesOf[proto.CharacterUnequipItem](msgs)))
	responses := messagesOf[proto.InventoryOperationResponse](msgs)
	assert.T(t, responses[0].Success)
	assert.Equal(t, uint8(inventory.ErrInvalidTarget), responses[1].Error)
}

func TestStatPointsAreSpent(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.StatPoints = 2
	player, conn := h.spawnPlayer(c)

	conn.Deliver(&proto.IncreaseStrRequest{})
	conn.Deliver(&proto.IncreaseIntRequest{})
	conn.Deliver(&proto.IncreaseStrRequest{})
	h.tick(1)

	p, _ := h.stores.Player.Get(player)
	assert.Equal(t, uint16(21), p.Strength)
	assert.Equal(t, uint16(1), p.Intelligence)
	assert.Equal(t, uint16(0), p.StatPoints)
	responses := messagesOf[proto.StatResponse](received(conn))
	assert.Equal(t, 3, len(responses))
	assert.T(t, responses[1].Success)
	assert.T(t, !responses[2].Success)
}

func TestGmCommands(t *testing.T) {
	h := newHarness(t)
	c := character("alice", 100, 100)
	c.GM = true
	gm, conn := h.spawnPlayer(c)
	_, other := h.spawnPlayer(character("bob", 100, 100))

	conn.Deliver(&proto.GmCommandRequest{Kind: proto.GmMakeItem, RefID: 16, Amount: 10})
	conn.Deliver(&proto.GmCommandRequest{Kind: proto.GmSpawnMonster, RefID: 1955, Amount: 2})
	conn.Deliver(&proto.GmCommandRequest{Kind: proto.GmSpawnMonster, RefID: 1907})
	other.Deliver(&proto.GmCommandRequest{Kind: proto.GmSpawnMonster, RefID: 1955})
	h.tick(1)

	inv, _ := h.stores.PlayerInventory.Get(gm)
	potions, ok := inv.Inventory.Get(13)
	assert.T(t, ok)
	assert.Equal(t, uint16(10), potions.Count())
	assert.Equal(t, 2, h.stores.Monster.Len())

	responses := messagesOf[proto.GmResponse](received(conn))
	assert.Equal(t, 3, len(responses))
	assert.T(t, responses[0].Success)
	assert.T(t, responses[1].Success)
	assert.Equal(t, proto.GmResponse{Success: false, Error: errNotAMonster.Error()}, *responses[2])
	assert.Equal(t, []*proto.GmResponse{{Success: false, Error: errNotGM.Error()}}, messagesOf[proto.GmResponse](received(other)))
}
