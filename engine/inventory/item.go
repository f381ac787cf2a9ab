package inventory

import (
	"github.com/xiaonanln/gwagent/engine/refdata"
)

// ItemKind selects which field of ItemTypeData is meaningful
type ItemKind uint8

const (
	KindOther ItemKind = iota
	KindGold
	KindEquipment
	KindExpendable
)

// ItemTypeData holds the per instance data of an item
type ItemTypeData struct {
	Kind         ItemKind
	Amount       uint64 // gold
	UpgradeLevel uint8  // equipment
	StackSize    uint16 // expendable
}

// Item is a value type; copying an Item copies the item
type Item struct {
	Reference   *refdata.ItemData
	Variance    uint64
	HasVariance bool
	TypeData    ItemTypeData
}

// NewItem creates an item of ref; amount is the gold amount or the stack size, capped to the max stack
func NewItem(ref *refdata.ItemData, amount uint64) Item {
	item := Item{Reference: ref}
	switch {
	case ref.Type.Category == refdata.CategoryGold:
		item.TypeData = ItemTypeData{Kind: KindGold, Amount: amount}
	case ref.Type.IsEquipment():
		item.TypeData = ItemTypeData{Kind: KindEquipment}
	default:
		stack := amount
		if stack == 0 {
			stack = 1
		}
		if stack > uint64(ref.MaxStack) {
			stack = uint64(ref.MaxStack)
		}
		item.TypeData = ItemTypeData{Kind: KindExpendable, StackSize: uint16(stack)}
	}
	return item
}

// NewEquipment creates an equipment item with upgrade level
func NewEquipment(ref *refdata.ItemData, upgradeLevel uint8) Item {
	item := NewItem(ref, 1)
	item.TypeData.UpgradeLevel = upgradeLevel
	return item
}

// GoldItem creates the ground pile representing amount gold
func GoldItem(data *refdata.Data, amount uint64) Item {
	return NewItem(data.GoldRefFor(amount), amount)
}

// RefID returns the reference id of the item
func (i Item) RefID() uint32 {
	return i.Reference.ID
}

// Stackable checks if several items of this kind share a slot
func (i Item) Stackable() bool {
	return i.TypeData.Kind == KindExpendable && i.Reference.MaxStack > 1
}

// Count returns the stack size, 1 for non stackable items
func (i Item) Count() uint16 {
	if i.TypeData.Kind == KindExpendable {
		return i.TypeData.StackSize
	}
	return 1
}

// IsGold checks if the item is a gold pile
func (i Item) IsGold() bool {
	return i.TypeData.Kind == KindGold
}

// IsOneHanded checks if the item is a weapon leaving the other hand free
func (i Item) IsOneHanded() bool {
	return i.Reference.Type.Category == refdata.CategoryWeapon && !i.Reference.Type.IsTwoHanded()
}

// GoldPouch is the gold owned by a player
type GoldPouch struct {
	Amount uint64
}

// Gain adds gold
func (g *GoldPouch) Gain(amount uint64) {
	g.Amount += amount
}

// Spend removes gold if there is enough
func (g *GoldPouch) Spend(amount uint64) error {
	if amount > g.Amount {
		return ErrNotEnoughGold
	}
	g.Amount -= amount
	return nil
}
