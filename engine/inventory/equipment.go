package inventory

import (
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/refdata"
)

// Equipment slots, the leading slots of every inventory
const (
	SlotHead uint8 = iota
	SlotShoulder
	SlotBody
	SlotArm
	SlotLeg
	SlotFoot
	SlotWeapon
	SlotShield // shield or ammunition
	SlotEarring
	SlotNecklace
	SlotRing1
	SlotRing2
	SlotJob
)

var armorSlots = map[refdata.ArmorPart]uint8{
	refdata.PartHead:     SlotHead,
	refdata.PartShoulder: SlotShoulder,
	refdata.PartBody:     SlotBody,
	refdata.PartArm:      SlotArm,
	refdata.PartLeg:      SlotLeg,
	refdata.PartFoot:     SlotFoot,
}

// IsEquipmentSlot checks if slot is reserved for equipment
func IsEquipmentSlot(slot uint8) bool {
	return slot < consts.EQUIPMENT_SLOTS
}

// SlotAccepts checks the type to slot table
func SlotAccepts(slot uint8, t refdata.ObjectType) bool {
	switch t.Category {
	case refdata.CategoryArmor:
		s, ok := armorSlots[t.Part]
		return ok && s == slot
	case refdata.CategoryWeapon:
		return slot == SlotWeapon
	case refdata.CategoryShield, refdata.CategoryAmmo:
		return slot == SlotShield
	case refdata.CategoryAccessory:
		switch t.Accessory {
		case refdata.Earring:
			return slot == SlotEarring
		case refdata.Necklace:
			return slot == SlotNecklace
		case refdata.Ring:
			return slot == SlotRing1 || slot == SlotRing2
		}
	}
	return false
}

// Wearer is what equip validation needs to know about the actor
type Wearer struct {
	Level uint8
	Race  refdata.Race
}

// CanEquip validates wearing item in an equipment slot
func CanEquip(item Item, slot uint8, wearer Wearer) error {
	ref := item.Reference
	if !IsEquipmentSlot(slot) || !SlotAccepts(slot, ref.Type) {
		return ErrIndisposable
	}
	if ref.RequiredLevel > wearer.Level {
		return ErrIndisposable
	}
	if ref.Race != refdata.RaceAny && ref.Race != wearer.Race {
		return ErrIndisposable
	}
	return nil
}

// EquipChange is a change of occupancy of an equipment slot
type EquipChange struct {
	Slot     uint8
	Item     Item
	Equipped bool // false: Item was taken off
}
