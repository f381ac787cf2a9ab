package inventory

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/refdata"
)

var (
	chineseLv10 = Wearer{Level: 10, Race: refdata.RaceChinese}
	chineseLv1  = Wearer{Level: 1, Race: refdata.RaceChinese}
)

func loadData(t *testing.T) *refdata.Data {
	d, err := refdata.Load("../../data/skills.yaml", "../../data/items.yaml", "../../data/characters.yaml")
	if err != nil {
		t.Fatalf("load reference data: %v", err)
	}
	return d
}

func item(t *testing.T, d *refdata.Data, id uint32, amount uint64) Item {
	ref, ok := d.Item(id)
	if !ok {
		t.Fatalf("item %d not defined", id)
	}
	return NewItem(ref, amount)
}

const bag = uint8(consts.EQUIPMENT_SLOTS)

func TestEquipIntoEmptySlot(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(bag, item(t, d, 10, 1)) // chinese sword

	res, err := inv.Move(bag, SlotWeapon, 1, chineseLv10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(res.Changes))
	assert.Equal(t, SlotWeapon, res.Changes[0].Slot)
	assert.T(t, res.Changes[0].Equipped)
	assert.T(t, res.Changes[0].Item.IsOneHanded())
	_, ok := inv.Get(bag)
	assert.T(t, !ok)
}

func TestEquipIntoOccupiedSlotSwaps(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(SlotWeapon, item(t, d, 10, 1))
	inv.Set(bag+4, item(t, d, 11, 1)) // spear, level 5

	res, err := inv.Move(bag+4, SlotWeapon, 1, chineseLv10)
	assert.Equal(t, nil, err)
	assert.T(t, res.Swapped)
	assert.Equal(t, 2, len(res.Changes))
	assert.Equal(t, EquipChange{Slot: SlotWeapon, Item: item(t, d, 10, 1)}, res.Changes[0])
	assert.Equal(t, EquipChange{Slot: SlotWeapon, Item: item(t, d, 11, 1), Equipped: true}, res.Changes[1])
	old, _ := inv.Get(bag + 4)
	assert.Equal(t, uint32(10), old.RefID())
	assert.T(t, !res.Changes[1].Item.IsOneHanded())
}

func TestEquipRejections(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(bag, item(t, d, 12, 1))   // european two handed sword
	inv.Set(bag+1, item(t, d, 19, 1)) // chinese body armor, level 10
	inv.Set(bag+2, item(t, d, 13, 1)) // chinese head armor
	inv.Set(bag+3, item(t, d, 16, 5)) // potions

	check := func(source, target uint8, wearer Wearer) {
		_, err := inv.Move(source, target, 1, wearer)
		assert.Equal(t, ErrIndisposable, err)
		assert.Equal(t, 4, inv.Len())
		_, ok := inv.Get(source)
		assert.T(t, ok)
	}
	check(bag, SlotWeapon, chineseLv10) // opposing race
	check(bag+1, SlotBody, chineseLv1)  // level too low
	check(bag+2, SlotBody, chineseLv10) // wrong slot
	check(bag+3, SlotShield, chineseLv10)

	_, err := inv.Move(bag+1, SlotBody, 1, chineseLv10)
	assert.Equal(t, nil, err)
}

func TestUnequipSwapValidatesIncomingItem(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(SlotHead, item(t, d, 13, 1))
	inv.Set(bag, item(t, d, 16, 1))

	_, err := inv.Move(SlotHead, bag, 1, chineseLv10)
	assert.Equal(t, ErrIndisposable, err)

	res, err := inv.Move(SlotHead, bag+1, 1, chineseLv10)
	assert.Equal(t, nil, err)
	assert.Equal(t, []EquipChange{{Slot: SlotHead, Item: item(t, d, 13, 1)}}, res.Changes)
}

func TestStackSplitAndMerge(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(bag, item(t, d, 16, 30))

	res, err := inv.Move(bag, bag+1, 10, chineseLv10)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint16(10), res.Moved)
	assert.Equal(t, 0, len(res.Changes))
	a, _ := inv.Get(bag)
	b, _ := inv.Get(bag + 1)
	assert.Equal(t, uint16(20), a.Count())
	assert.Equal(t, uint16(10), b.Count())

	inv.Set(bag+2, item(t, d, 16, 45))
	res, err = inv.Move(bag, bag+2, 20, chineseLv10)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint16(5), res.Moved) // capacity 50
	a, _ = inv.Get(bag)
	c, _ := inv.Get(bag + 2)
	assert.Equal(t, uint16(15), a.Count())
	assert.Equal(t, uint16(50), c.Count())

	res, err = inv.Move(bag+1, bag, 0, chineseLv10)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint16(10), res.Moved)
	_, ok := inv.Get(bag + 1)
	assert.T(t, !ok)
	a, _ = inv.Get(bag)
	assert.Equal(t, uint16(25), a.Count())
}

func TestMoveErrors(t *testing.T) {
	d := loadData(t)
	inv := New(consts.INVENTORY_SIZE)
	inv.Set(bag, item(t, d, 16, 1))
	_, err := inv.Move(bag+1, bag, 1, chineseLv10)
	assert.Equal(t, ErrInvalidTarget, err)
	_, err = inv.Move(bag, consts.INVENTORY_SIZE, 1, chineseLv10)
	assert.Equal(t, ErrInvalidSlot, err)
	_, err = inv.Move(bag, bag, 1, chineseLv10)
	assert.Equal(t, ErrImpossible, err)
}

func TestAddItem(t *testing.T) {
	d := loadData(t)
	inv := New(bag + 2)
	slot, err := inv.AddItem(item(t, d, 16, 40))
	assert.Equal(t, nil, err)
	assert.Equal(t, bag, slot)
	slot, err = inv.AddItem(item(t, d, 16, 20)) // 10 merged, 10 in a new slot
	assert.Equal(t, nil, err)
	assert.Equal(t, bag+1, slot)
	second, _ := inv.Get(bag + 1)
	assert.Equal(t, uint16(10), second.Count())

	_, err = inv.AddItem(item(t, d, 10, 1))
	assert.Equal(t, ErrInventoryFull, err)
	slot, err = inv.AddItem(item(t, d, 16, 40)) // fits into the second stack
	assert.Equal(t, nil, err)
	assert.Equal(t, bag+1, slot)
	_, err = inv.AddItem(item(t, d, 16, 1))
	assert.Equal(t, ErrInventoryFull, err)
	assert.Equal(t, 2, inv.Len())
}

func TestGoldPouch(t *testing.T) {
	pouch := GoldPouch{Amount: 50}
	assert.Equal(t, ErrNotEnoughGold, pouch.Spend(100))
	assert.Equal(t, uint64(50), pouch.Amount)
	assert.Equal(t, nil, pouch.Spend(50))
	assert.Equal(t, uint64(0), pouch.Amount)
	pouch.Gain(7)
	assert.Equal(t, uint64(7), pouch.Amount)
}

func TestSlotAccepts(t *testing.T) {
	d := loadData(t)
	ring := item(t, d, 15, 1)
	assert.Equal(t, nil, CanEquip(ring, SlotRing1, chineseLv10))
	assert.Equal(t, nil, CanEquip(ring, SlotRing2, chineseLv10))
	assert.Equal(t, ErrIndisposable, CanEquip(ring, SlotEarring, chineseLv10))
	arrows := item(t, d, 17, 100)
	assert.Equal(t, nil, CanEquip(arrows, SlotShield, chineseLv10))
	assert.Equal(t, ErrIndisposable, CanEquip(arrows, SlotShield, Wearer{Level: 10, Race: refdata.RaceEuropean}))
	assert.Equal(t, ErrIndisposable, CanEquip(item(t, d, 10, 1), SlotJob, chineseLv10))
}
