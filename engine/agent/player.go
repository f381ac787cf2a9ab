package agent

import (
	"time"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/common"
	"github.com/xiaonanln/gwagent/engine/comp"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/ecs"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/inventory"
	"github.com/xiaonanln/gwagent/engine/proto"
	"github.com/xiaonanln/gwagent/engine/refdata"
	"github.com/xiaonanln/gwagent/engine/storage"
)

// ProtoItem converts an inventory item to its wire form
func ProtoItem(slot uint8, item inventory.Item) proto.InventoryItem {
	pi := proto.InventoryItem{
		Slot:         slot,
		RefID:        item.RefID(),
		UpgradeLevel: item.TypeData.UpgradeLevel,
		Count:        item.Count(),
	}
	if item.HasVariance {
		pi.Variance = item.Variance
	}
	return pi
}

// Equipment lists the worn items of an inventory
func Equipment(inv *inventory.Inventory) []proto.InventoryItem {
	var res []proto.InventoryItem
	for _, slot := range inv.Slots() {
		if !inventory.IsEquipmentSlot(slot) {
			break
		}
		item, _ := inv.Get(slot)
		res = append(res, ProtoItem(slot, item))
	}
	return res
}

func itemOf(data *refdata.Data, ci storage.CharacterItem) (inventory.Item, error) {
	ref, ok := data.Item(ci.RefID)
	if !ok {
		return inventory.Item{}, errors.Errorf("item %d is not defined", ci.RefID)
	}
	var item inventory.Item
	if ref.Type.IsEquipment() {
		item = inventory.NewEquipment(ref, ci.UpgradeLevel)
	} else {
		item = inventory.NewItem(ref, uint64(ci.Amount))
	}
	item.Variance, item.HasVariance = ci.Variance, ci.HasVariance
	return item, nil
}

func characterItemOf(slot uint8, item inventory.Item) storage.CharacterItem {
	ci := storage.CharacterItem{
		Slot:         slot,
		RefID:        item.RefID(),
		UpgradeLevel: item.TypeData.UpgradeLevel,
		Variance:     item.Variance,
		HasVariance:  item.HasVariance,
	}
	switch item.TypeData.Kind {
	case inventory.KindGold:
		ci.Amount = uint16(item.TypeData.Amount)
	case inventory.KindExpendable:
		ci.Amount = item.TypeData.StackSize
	}
	return ci
}

// newPlayer builds the components of a loaded character entering the world
func (b *base) newPlayer(char *storage.CharacterData) ([]ecs.Part, *proto.CharacterSpawn, error) {
	model, ok := b.data.Character(char.RefID)
	if !ok || !model.Player {
		return nil, nil, errors.Errorf("character %s has unknown model %d", char.Name, char.RefID)
	}

	inv := inventory.New(b.settings.InventorySize)
	for _, ci := range char.Items {
		item, err := itemOf(b.data, ci)
		if err != nil {
			gwlog.Warnf("character %s: dropping item in slot %d: %s", char.Name, ci.Slot, err)
			continue
		}
		if err = inv.Set(ci.Slot, item); err != nil {
			gwlog.Warnf("character %s: dropping item in slot %d: %s", char.Name, ci.Slot, err)
		}
	}

	maxHP := model.MaxHP
	if maxHP == 0 {
		maxHP = consts.PLAYER_BASE_HP
	}
	hp := char.HP
	if hp == 0 || hp > maxHP {
		hp = maxHP
	}

	uid := common.NextUniqueID()
	pos := comp.Position{Region: char.Region, X: char.X, Y: char.Y, Z: char.Z, Heading: char.Heading}
	player := comp.Player{
		Character:    char,
		Name:         char.Name,
		UserID:       char.UserID,
		Race:         model.Race,
		Strength:     char.Strength,
		Intelligence: char.Intelligence,
		StatPoints:   char.StatPoints,
		GM:           char.GM,
	}
	parts := []ecs.Part{
		ecs.With(b.GameEntity, comp.GameEntity{RefID: char.RefID, UniqueID: uid}),
		ecs.With(b.Position, pos),
		ecs.With(b.Agent, comp.Agent{Speed: b.settings.MovementSpeed}),
		ecs.With(b.Health, comp.Health{HP: hp, MaxHP: maxHP}),
		ecs.With(b.Leveled, comp.Leveled{Level: char.Level}),
		ecs.With(b.Synchronize, comp.Synchronize{}),
		ecs.With(b.PlayerInput, comp.PlayerInput{}),
		ecs.With(b.Player, player),
		ecs.With(b.GoldPouch, inventory.GoldPouch{Amount: char.Gold}),
		ecs.With(b.PlayerInventory, comp.PlayerInventory{Inventory: inv}),
		ecs.With(b.Visibility, comp.Visibility{Radius: b.settings.VisibilityRadius, InRadius: map[ecs.Entity]struct{}{}}),
	}

	spawn := &proto.CharacterSpawn{
		UniqueID:     uint32(uid),
		RefID:        char.RefID,
		Name:         char.Name,
		Level:        char.Level,
		Exp:          char.Exp,
		SP:           char.SP,
		Strength:     char.Strength,
		Intelligence: char.Intelligence,
		StatPoints:   char.StatPoints,
		HP:           hp,
		MaxHP:        maxHP,
		MP:           char.MP,
		Gold:         char.Gold,
		GM:           char.GM,
		Position:     pos.EntityPosition(),
	}
	for _, slot := range inv.Slots() {
		item, _ := inv.Get(slot)
		spawn.Inventory = append(spawn.Inventory, ProtoItem(slot, item))
	}
	return parts, spawn, nil
}

// Snapshot captures the persistent state of a player entity
func Snapshot(s *comp.Stores, e ecs.Entity) (*storage.CharacterData, bool) {
	player, ok := s.Player.Get(e)
	if !ok || player.Character == nil {
		return nil, false
	}

	c := player.Character.Clone()
	c.Strength, c.Intelligence, c.StatPoints = player.Strength, player.Intelligence, player.StatPoints
	c.GM = player.GM
	if pos, ok := s.Position.Get(e); ok {
		c.Region, c.X, c.Y, c.Z, c.Heading = pos.Region, pos.X, pos.Y, pos.Z, pos.Heading
	}
	if hp, ok := s.Health.Get(e); ok {
		c.HP = hp.HP
	}
	if lv, ok := s.Leveled.Get(e); ok {
		c.Level = lv.Level
	}
	if gold, ok := s.GoldPouch.Get(e); ok {
		c.Gold = gold.Amount
	}
	if inv, ok := s.PlayerInventory.Get(e); ok {
		c.Items = c.Items[:0]
		for _, slot := range inv.Inventory.Slots() {
			item, _ := inv.Inventory.Get(slot)
			c.Items = append(c.Items, characterItemOf(slot, item))
		}
	}
	c.LastLogout = time.Now().Unix()
	return c, true
}
