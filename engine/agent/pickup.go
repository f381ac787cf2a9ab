package agent

import (
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

// PickupSystem claims ground items and grants them when the pickup cooldown ends.
//
// A drop is claimed by at most one picker: the claim is taken in this system, which runs
// pickups one after the other, and the drop leaves the world at the end of the phase.
type PickupSystem struct {
	base
}

func (sys *PickupSystem) Name() string       { return PickupSystemName }
func (sys *PickupSystem) Phase() sched.Phase { return sched.Execute }

func (sys *PickupSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.GameEntity.ID(), sys.Client.ID(), sys.Position.ID(), sys.Dead.ID()),
		Writes: ids(sys.Pickup.ID(), sys.Drop.ID(), sys.PlayerInventory.ID(), sys.GoldPouch.ID()),
		After:  []string{ActionSystemName},
	}
}

func (sys *PickupSystem) Run(ctx *sched.Context) {
	sys.Pickup.Each(func(e ecs.Entity, p *comp.Pickup) {
		ctx.Each(e, func() {
			sys.pickup(ctx, e, p)
		})
	})
}

// OnEntityFault cancels the pickup; a claimed item is lost
func (sys *PickupSystem) OnEntityFault(ctx *sched.Context, e ecs.Entity, err interface{}) {
	ecs.Remove(ctx.Commands, sys.Pickup, e)
	sys.sendActionResponse(e, true, proto.ActionCompleted)
}

func (sys *PickupSystem) pickup(ctx *sched.Context, e ecs.Entity, p *comp.Pickup) {
	if sys.Dead.Has(e) {
		ecs.Remove(ctx.Commands, sys.Pickup, e)
		return
	}
	if !p.Claimed {
		sys.claim(ctx, e, p)
		return
	}

	if p.Cooldown > ctx.Delta {
		p.Cooldown -= ctx.Delta
		return
	}
	sys.grant(ctx, e, p.Item)
	ecs.Remove(ctx.Commands, sys.Pickup, e)
	sys.sendActionResponse(e, true, proto.ActionCompleted)
}

func (sys *PickupSystem) claim(ctx *sched.Context, e ecs.Entity, p *comp.Pickup) {
	drop, ok := sys.Drop.Get(p.Target)
	if !ok || drop.Claimed || !sys.World.Alive(p.Target) {
		ecs.Remove(ctx.Commands, sys.Pickup, e)
		sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
		return
	}

	if sys.settings.PickupFullPolicy == config.PickupFullReject && !drop.Item.IsGold() {
		if inv, ok := sys.PlayerInventory.Get(e); !ok || !inv.Inventory.CanAdd(drop.Item) {
			ecs.Remove(ctx.Commands, sys.Pickup, e)
			sys.sendPickupError(e, inventory.ErrInventoryFull)
			sys.sendActionResponse(e, true, proto.ActionInvalidTarget)
			return
		}
	}

	drop.Claimed = true
	p.Claimed = true
	p.Item = drop.Item
	p.Cooldown = sys.settings.PickupCooldown
	ctx.Commands.Despawn(p.Target)
	sys.sendActionResponse(e, false, proto.ActionSuccess)
}

func (sys *PickupSystem) grant(ctx *sched.Context, e ecs.Entity, item inventory.Item) {
	if item.IsGold() {
		pouch, ok := sys.GoldPouch.Get(e)
		if !ok {
			gwlog.Warnf("%s: no gold pouch, %d gold lost", e, item.TypeData.Amount)
			return
		}
		pouch.Gain(item.TypeData.Amount)
		sys.send(e, &proto.GoldUpdate{Amount: pouch.Amount, Change: int64(item.TypeData.Amount)})
		return
	}

	inv, ok := sys.PlayerInventory.Get(e)
	if !ok {
		gwlog.Warnf("%s: no inventory, item %d lost", e, item.RefID())
		return
	}
	slot, err := inv.Inventory.AddItem(item)
	if err == nil {
		stored, _ := inv.Inventory.Get(slot)
		sys.send(e, &proto.InventoryItemGained{Item: ProtoItem(slot, stored)})
		return
	}

	sys.sendPickupError(e, err)
	if sys.settings.PickupFullPolicy == config.PickupFullDestroy {
		gwlog.Infof("%s: inventory full, item %d destroyed", e, item.RefID())
		return
	}
	if pos, ok := sys.Position.Get(e); ok {
		ctx.Commands.Spawn(sys.dropParts(item, *pos, ctx.Now)...)
	}
}

func (sys *PickupSystem) sendPickupError(e ecs.Entity, err error) {
	code := inventory.ErrImpossible
	if oe, ok := err.(inventory.OperationError); ok {
		code = oe
	}
	sys.send(e, &proto.InventoryOperationResponse{Kind: proto.InventoryPickup, Success: false, Error: uint8(code)})
}
