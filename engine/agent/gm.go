package agent

import (
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/sched"
)

var (
	errNotGM         = errors.New("not a game master")
	errUnknownRefID  = errors.New("unknown reference id")
	errNotAMonster   = errors.New("not a monster")
	errInventoryFull = errors.New("inventory full")
)

// GmSystem runs game master commands
type GmSystem struct {
	base
}

func (sys *GmSystem) Name() string       { return GmSystemName }
func (sys *GmSystem) Phase() sched.Phase { return sched.Execute }

func (sys *GmSystem) Access() sched.Access {
	return sched.Access{
		Reads:  ids(sys.PlayerInput.ID(), sys.Player.ID(), sys.Position.ID(), sys.Client.ID()),
		Writes: ids(sys.PlayerInventory.ID()),
		After:  []string{StatSystemName},
	}
}

func (sys *GmSystem) Run(ctx *sched.Context) {
	ecs.Join2(sys.PlayerInput, sys.Player, func(e ecs.Entity, input *comp.PlayerInput, player *comp.Player) {
		for _, req := range input.Gm {
			req := req
			ctx.Each(e, func() {
				err := errNotGM
				if player.GM {
					err = sys.run(ctx, e, req)
				}
				if err != nil {
					gwlog.Warnf("%s: gm command %d %d failed: %s", e, req.Kind, req.RefID, err)
					sys.send(e, &proto.GmResponse{Success: false, Error: err.Error()})
					return
				}
				gwlog.Infof("%s: %s ran gm command %d %d x%d", e, player.Name, req.Kind, req.RefID, req.Amount)
				sys.send(e, &proto.GmResponse{Success: true})
			})
		}
	})
}

func (sys *GmSystem) run(ctx *sched.Context, e ecs.Entity, req *proto.GmCommandRequest) error {
	switch req.Kind {
	case proto.GmMakeItem:
		return sys.makeItem(e, req)
	case proto.GmSpawnMonster:
		return sys.spawnMonster(ctx, e, req)
	default:
		return errors.Errorf("unknown gm command %d", req.Kind)
	}
}

// makeItem creates an item in the inventory; Amount is the upgrade level of equipment, the stack size otherwise
func (sys *GmSystem) makeItem(e ecs.Entity, req *proto.GmCommandRequest) error {
	ref, ok := sys.data.Item(req.RefID)
	if !ok {
		return errUnknownRefID
	}
	inv, ok := sys.PlayerInventory.Get(e)
	if !ok {
		return errors.New("no inventory")
	}

	var item inventory.Item
	if ref.Type.IsEquipment() {
		item = inventory.NewEquipment(ref, req.Amount)
	} else {
		item = inventory.NewItem(ref, uint64(req.Amount))
	}
	if item.IsGold() {
		return errors.New("gold cannot be made")
	}
	slot, err := inv.Inventory.AddItem(item)
	if err != nil {
		return errInventoryFull
	}
	stored, _ := inv.Inventory.Get(slot)
	sys.send(e, &proto.InventoryItemGained{Item: ProtoItem(slot, stored)})
	return nil
}

// spawnMonster puts Amount monsters, at least one, at the position of the game master
func (sys *GmSystem) spawnMonster(ctx *sched.Context, e ecs.Entity, req *proto.GmCommandRequest) error {
	ref, ok := sys.data.Character(req.RefID)
	if !ok {
		return errUnknownRefID
	}
	if ref.Player {
		return errNotAMonster
	}
	pos, ok := sys.Position.Get(e)
	if !ok {
		return errors.New("no position")
	}

	n := int(req.Amount)
	if n == 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		ctx.Commands.Spawn(MonsterParts(sys.Stores, ref, 0, *pos, 0, ctx.Now)...)
	}
	return nil
}
