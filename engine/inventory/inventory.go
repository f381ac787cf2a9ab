package inventory

import (
	"sort"

	"github.com/xiaonanln/gwagent/engine/consts"
)

// Inventory is a fixed size slot map; slots below EQUIPMENT_SLOTS hold worn equipment
type Inventory struct {
	size  uint8
	items map[uint8]Item
}

// New creates an empty inventory of size slots
func New(size uint8) *Inventory {
	return &Inventory{size: size, items: map[uint8]Item{}}
}

// Size returns the number of slots
func (inv *Inventory) Size() uint8 {
	return inv.size
}

// Len returns the number of occupied slots
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Get returns the item in slot
func (inv *Inventory) Get(slot uint8) (Item, bool) {
	item, ok := inv.items[slot]
	return item, ok
}

// Set puts item in slot, replacing the previous one
func (inv *Inventory) Set(slot uint8, item Item) error {
	if slot >= inv.size {
		return ErrInvalidSlot
	}
	inv.items[slot] = item
	return nil
}

// Remove takes the item out of slot
func (inv *Inventory) Remove(slot uint8) (Item, bool) {
	item, ok := inv.items[slot]
	if ok {
		delete(inv.items, slot)
	}
	return item, ok
}

// Slots returns the occupied slots in ascending order
func (inv *Inventory) Slots() []uint8 {
	slots := make([]uint8, 0, len(inv.items))
	for slot := range inv.items {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// Equipped returns the item worn in an equipment slot
func (inv *Inventory) Equipped(slot uint8) (Item, bool) {
	if !IsEquipmentSlot(slot) {
		return Item{}, false
	}
	return inv.Get(slot)
}

// FirstFree returns the first free non equipment slot
func (inv *Inventory) FirstFree() (uint8, bool) {
	for slot := uint8(consts.EQUIPMENT_SLOTS); slot < inv.size; slot++ {
		if _, ok := inv.items[slot]; !ok {
			return slot, true
		}
	}
	return 0, false
}

// CanAdd checks if AddItem would succeed
func (inv *Inventory) CanAdd(item Item) bool {
	if _, ok := inv.FirstFree(); ok {
		return true
	}
	if !item.Stackable() {
		return false
	}
	return inv.stackSpace(item) >= uint64(item.Count())
}

func (inv *Inventory) stackSpace(item Item) (space uint64) {
	for slot := uint8(consts.EQUIPMENT_SLOTS); slot < inv.size; slot++ {
		if other, ok := inv.items[slot]; ok && other.Reference == item.Reference {
			space += uint64(item.Reference.MaxStack - other.Count())
		}
	}
	return
}

// AddItem merges item into partial stacks of the same kind, then puts the rest in the first free slot.
// It returns the slot that received the item or its remainder, and changes nothing on ErrInventoryFull.
func (inv *Inventory) AddItem(item Item) (uint8, error) {
	if !inv.CanAdd(item) {
		return 0, ErrInventoryFull
	}

	if item.Stackable() {
		remaining := item.Count()
		var lastSlot uint8
		for slot := uint8(consts.EQUIPMENT_SLOTS); slot < inv.size && remaining > 0; slot++ {
			other, ok := inv.items[slot]
			if !ok || other.Reference != item.Reference || other.Count() >= item.Reference.MaxStack {
				continue
			}
			n := item.Reference.MaxStack - other.Count()
			if n > remaining {
				n = remaining
			}
			other.TypeData.StackSize += n
			inv.items[slot] = other
			remaining -= n
			lastSlot = slot
		}
		if remaining == 0 {
			return lastSlot, nil
		}
		item.TypeData.StackSize = remaining
	}

	slot, _ := inv.FirstFree()
	inv.items[slot] = item
	return slot, nil
}

// MoveResult describes a successful move
type MoveResult struct {
	Source  uint8
	Target  uint8
	Moved   uint16
	Swapped bool
	Changes []EquipChange // unequips first, then equips
}

// Move moves amount items from source to target: a whole move, a stack split into an empty slot,
// a merge onto a stack of the same kind, or a swap. Moves touching equipment slots are validated
// against wearer for every item that ends up worn. Nothing changes on error.
func (inv *Inventory) Move(source, target uint8, amount uint16, wearer Wearer) (MoveResult, error) {
	if source >= inv.size || target >= inv.size {
		return MoveResult{}, ErrInvalidSlot
	}
	if source == target {
		return MoveResult{}, ErrImpossible
	}
	src, ok := inv.items[source]
	if !ok {
		return MoveResult{}, ErrInvalidTarget
	}
	if amount == 0 || amount > src.Count() {
		amount = src.Count()
	}

	before := inv.equipmentSnapshot(source, target)
	dst, occupied := inv.items[target]
	res := MoveResult{Source: source, Target: target}

	switch {
	case !occupied:
		if IsEquipmentSlot(target) {
			if err := CanEquip(src, target, wearer); err != nil {
				return MoveResult{}, err
			}
		}
		if src.Stackable() && amount < src.Count() {
			split := src
			split.TypeData.StackSize = amount
			src.TypeData.StackSize -= amount
			inv.items[source] = src
			inv.items[target] = split
		} else {
			delete(inv.items, source)
			inv.items[target] = src
		}
		res.Moved = amount

	case src.Stackable() && dst.Reference == src.Reference && dst.Count() < src.Reference.MaxStack:
		n := src.Reference.MaxStack - dst.Count()
		if n > amount {
			n = amount
		}
		dst.TypeData.StackSize += n
		inv.items[target] = dst
		if n == src.Count() {
			delete(inv.items, source)
		} else {
			src.TypeData.StackSize -= n
			inv.items[source] = src
		}
		res.Moved = n

	default:
		if IsEquipmentSlot(target) {
			if err := CanEquip(src, target, wearer); err != nil {
				return MoveResult{}, err
			}
		}
		if IsEquipmentSlot(source) {
			if err := CanEquip(dst, source, wearer); err != nil {
				return MoveResult{}, err
			}
		}
		inv.items[source] = dst
		inv.items[target] = src
		res.Moved = src.Count()
		res.Swapped = true
	}

	res.Changes = inv.equipmentChanges(before, source, target)
	return res, nil
}

type slotSnapshot struct {
	slot     uint8
	item     Item
	occupied bool
}

func (inv *Inventory) equipmentSnapshot(slots ...uint8) []slotSnapshot {
	var snap []slotSnapshot
	for _, slot := range slots {
		if IsEquipmentSlot(slot) {
			item, ok := inv.items[slot]
			snap = append(snap, slotSnapshot{slot, item, ok})
		}
	}
	return snap
}

func (inv *Inventory) equipmentChanges(before []slotSnapshot, source, target uint8) []EquipChange {
	after := inv.equipmentSnapshot(source, target)
	var unequips, equips []EquipChange
	for i, b := range before {
		a := after[i]
		if b.occupied == a.occupied && (!b.occupied || sameItem(b.item, a.item)) {
			continue
		}
		if b.occupied {
			unequips = append(unequips, EquipChange{Slot: b.slot, Item: b.item})
		}
		if a.occupied {
			equips = append(equips, EquipChange{Slot: a.slot, Item: a.item, Equipped: true})
		}
	}
	return append(unequips, equips...)
}

// stack size changes do not change occupancy
func sameItem(a, b Item) bool {
	return a.Reference == b.Reference && a.TypeData.UpgradeLevel == b.TypeData.UpgradeLevel && a.Variance == b.Variance
}
