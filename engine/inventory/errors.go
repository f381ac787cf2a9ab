package inventory

// OperationError is the typed rejection of an inventory operation, reported to the client as its code
type OperationError uint8

const (
	// ErrIndisposable rejects equipping an item the wearer may not wear in that slot
	ErrIndisposable OperationError = iota + 1
	// ErrInvalidTarget rejects operations on missing items or entities
	ErrInvalidTarget
	// ErrNotEnoughGold rejects spending more gold than owned
	ErrNotEnoughGold
	// ErrInventoryFull rejects adding items without room
	ErrInventoryFull
	// ErrInvalidSlot rejects slots outside the inventory
	ErrInvalidSlot
	// ErrImpossible rejects moves that cannot be done, like moving onto the same slot
	ErrImpossible
)

var operationErrorNames = map[OperationError]string{
	ErrIndisposable:  "indisposable",
	ErrInvalidTarget: "invalid target",
	ErrNotEnoughGold: "not enough gold",
	ErrInventoryFull: "inventory full",
	ErrInvalidSlot:   "invalid slot",
	ErrImpossible:    "impossible",
}

func (e OperationError) Error() string {
	if name, ok := operationErrorNames[e]; ok {
		return name
	}
	return "unknown inventory error"
}
