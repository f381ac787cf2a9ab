package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// InventorySystem runs the queued inventory operations of every player, in arrival order
type InventorySystem struct {
	base
}

func (sys *InventorySystem) Name() string       { return InventorySystemName }
func (sys *InventorySystem) Phase() sched.Phase { return sched.Execute }

func (sys *InventorySystem) Access() sched.Access {
	return sched.Access{
		Reads: ids(sys.PlayerInput.ID(), sys.Player.ID(), sys.Leveled.ID(), sys.Position.ID(), sys.GameEntity.ID(),
			sys.Client.ID(), sys.Drop.ID(), sys.Dead.ID(), sys.Action.ID(), sys.Pickup.ID(), sys.UniqueIndex.ID),
		Writes: ids(sys.PlayerInventory.ID(), sys.GoldPouch.ID()),
		After:  []string{PickupSystemName},
	}
}

func (sys *InventorySystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.PlayerInput, sys.PlayerInventory, func(e ecs.Entity, input *comp.PlayerInput, inv *comp.PlayerInventory) {
		if len(input.Inventory) == 0 || sys.Dead.Has(e) {
			return
		}
		ctx.Each(e, func() {
			pickupQueued := false
			for _, req := range input.Inventory {
				switch req.Kind {
				case proto.InventoryMove:
					sys.move(e, inv.Inventory, req)
				case proto.InventoryDropGold:
					sys.dropGold(ctx, e, req)
				case proto.InventoryDropItem:
					sys.dropItem(ctx, e, inv.Inventory, req)
				case proto.InventoryPickup:
					if !pickupQueued {
						pickupQueued = sys.queuePickup(ctx, e, req)
					} else {
						sys.reject(e, req, inventory.ErrImpossible)
					}
				default:
					gwlog.Warnf("%s: dropping inventory operation of unknown kind %d", e, req.Kind)
				}
			}
		})
	})
}

func (sys *InventorySystem) reject(e ecs.Entity, req *proto.InventoryOperationRequest, err error) {
	code := inventory.ErrImpossible
	if oe, ok := err.(inventory.OperationError); ok {
		code = oe
	}
	sys.send(e, &proto.InventoryOperationResponse{
		Kind:    req.Kind,
		Success: false,
		Error:   uint8(code),
		Source:  req.Source,
		Target:  req.Target,
	})
}

func (sys *InventorySystem) wearer(e ecs.Entity) inventory.Wearer {
	var w inventory.Wearer
	if lv, ok := sys.Leveled.Get(e); ok {
		w.Level = lv.Level
	}
	if player, ok := sys.Player.Get(e); ok {
		w.Race = player.Race
	}
	return w
}

func (sys *InventorySystem) move(e ecs.Entity, inv *inventory.Inventory, req *proto.InventoryOperationRequest) {
	res, err := inv.Move(req.Source, req.Target, req.Amount, sys.wearer(e))
	if err != nil {
		sys.reject(e, req, err)
		return
	}
	sys.send(e, &proto.InventoryOperationResponse{
		Kind:    proto.InventoryMove,
		Success: true,
		Source:  res.Source,
		Target:  res.Target,
		Amount:  res.Moved,
	})
	for _, change := range res.Changes {
		sys.sendEquipChange(e, change)
	}
}

func (sys *InventorySystem) sendEquipChange(e ecs.Entity, change inventory.EquipChange) {
	uid := sys.UniqueIDOf(e)
	if change.Equipped {
		sys.send(e, &proto.CharacterEquipItem{
			UniqueID:     uid,
			Slot:         change.Slot,
			RefID:        change.Item.RefID(),
			UpgradeLevel: change.Item.TypeData.UpgradeLevel,
			OneHanded:    change.Item.IsOneHanded(),
		})
	} else {
		sys.send(e, &proto.CharacterUnequipItem{UniqueID: uid, Slot: change.Slot, RefID: change.Item.RefID()})
	}
}

func (sys *InventorySystem) dropGold(ctx *sched.Context, e ecs.Entity, req *proto.InventoryOperationRequest) {
	pouch, ok := sys.GoldPouch.Get(e)
	pos, ok2 := sys.Position.Get(e)
	if !ok || !ok2 || req.Gold == 0 {
		sys.reject(e, req, inventory.ErrImpossible)
		return
	}
	if err := pouch.Spend(req.Gold); err != nil {
		sys.reject(e, req, err)
		return
	}

	ctx.Commands.Spawn(sys.dropParts(inventory.GoldItem(sys.data, req.Gold), *pos, ctx.Now)...)
	sys.send(e, &proto.InventoryOperationResponse{Kind: proto.InventoryDropGold, Success: true, Gold: req.Gold})
	sys.send(e, &proto.GoldUpdate{Amount: pouch.Amount, Change: -int64(req.Gold)})
}

func (sys *InventorySystem) dropItem(ctx *sched.Context, e ecs.Entity, inv *inventory.Inventory, req *proto.InventoryOperationRequest) {
	pos, ok := sys.Position.Get(e)
	if !ok {
		sys.reject(e, req, inventory.ErrImpossible)
		return
	}
	if req.Source >= inv.Size() {
		sys.reject(e, req, inventory.ErrInvalidSlot)
		return
	}
	item, ok := inv.Remove(req.Source)
	if !ok {
		sys.reject(e, req, inventory.ErrInvalidTarget)
		return
	}

	ctx.Commands.Spawn(sys.dropParts(item, *pos, ctx.Now)...)
	sys.send(e, &proto.InventoryOperationResponse{Kind: proto.InventoryDropItem, Success: true, Source: req.Source, Amount: item.Count()})
	if inventory.IsEquipmentSlot(req.Source) {
		sys.sendEquipChange(e, inventory.EquipChange{Slot: req.Source, Item: item})
	}
}

// queuePickup starts picking up a drop through the inventory interface
func (sys *InventorySystem) queuePickup(ctx *sched.Context, e ecs.Entity, req *proto.InventoryOperationRequest) bool {
	if sys.Action.Has(e) || sys.Pickup.Has(e) {
		sys.reject(e, req, inventory.ErrImpossible)
		return false
	}
	target, _, ok := sys.Resolve(req.UniqueID)
	if !ok || !sys.Drop.Has(target) {
		sys.reject(e, req, inventory.ErrInvalidTarget)
		return false
	}
	ecs.Insert(ctx.Commands, sys.Pickup, e, comp.Pickup{Target: target})
	return true
}
