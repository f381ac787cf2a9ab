package refdata

import (
	"strings"

	"github.com/pkg/errors"
)

// Category is the coarse kind of an item
type Category int

const (
	CategoryOther Category = iota
	CategoryGold
	CategoryExpendable
	CategoryArmor
	CategoryWeapon
	CategoryShield
	CategoryAccessory
	CategoryAmmo
)

// ArmorFamily is the material family of a clothing piece
type ArmorFamily int

const (
	Garment ArmorFamily = iota + 1
	Protector
	Armor
	Robe
	LightArmor
	HeavyArmor
)

// ArmorPart is the body part a clothing piece is worn on
type ArmorPart int

const (
	PartHead ArmorPart = iota + 1
	PartShoulder
	PartBody
	PartArm
	PartLeg
	PartFoot
)

// WeaponKind is the kind of a weapon
type WeaponKind int

const (
	Sword WeaponKind = iota + 1
	Blade
	Spear
	Glaive
	Bow
	OneHandSword
	TwoHandSword
	Axe
	WarlockStaff
	Staff
	Crossbow
	Dagger
	Harp
	ClericRod
)

// AccessoryKind is the kind of jewelry
type AccessoryKind int

const (
	Earring AccessoryKind = iota + 1
	Necklace
	Ring
)

// AmmoKind is the kind of ammunition
type AmmoKind int

const (
	Arrows AmmoKind = iota + 1
	Bolts
)

// Race restricts who may equip an item
type Race int

const (
	RaceAny Race = iota
	RaceChinese
	RaceEuropean
)

func (r Race) String() string {
	switch r {
	case RaceChinese:
		return "chinese"
	case RaceEuropean:
		return "european"
	}
	return "any"
}

// ParseRace parses chinese, european or an empty string for any
func ParseRace(s string) (Race, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return RaceAny, nil
	case "chinese", "ch":
		return RaceChinese, nil
	case "european", "eu":
		return RaceEuropean, nil
	}
	return RaceAny, errors.Errorf("unknown race %q", s)
}

// ObjectType classifies an item
type ObjectType struct {
	Category  Category
	Armor     ArmorFamily
	Part      ArmorPart
	Weapon    WeaponKind
	Accessory AccessoryKind
	Ammo      AmmoKind
}

var (
	armorFamilies = map[string]ArmorFamily{
		"garment":     Garment,
		"protector":   Protector,
		"armor":       Armor,
		"robe":        Robe,
		"light_armor": LightArmor,
		"heavy_armor": HeavyArmor,
	}
	armorParts = map[string]ArmorPart{
		"head":     PartHead,
		"shoulder": PartShoulder,
		"body":     PartBody,
		"arm":      PartArm,
		"leg":      PartLeg,
		"foot":     PartFoot,
	}
	weaponKinds = map[string]WeaponKind{
		"sword":          Sword,
		"blade":          Blade,
		"spear":          Spear,
		"glaive":         Glaive,
		"bow":            Bow,
		"one_hand_sword": OneHandSword,
		"two_hand_sword": TwoHandSword,
		"axe":            Axe,
		"warlock_staff":  WarlockStaff,
		"staff":          Staff,
		"crossbow":       Crossbow,
		"dagger":         Dagger,
		"harp":           Harp,
		"cleric_rod":     ClericRod,
	}
	accessoryKinds = map[string]AccessoryKind{
		"earring":  Earring,
		"necklace": Necklace,
		"ring":     Ring,
	}
	ammoKinds = map[string]AmmoKind{
		"arrows": Arrows,
		"bolts":  Bolts,
	}
)

// ParseObjectType parses type names like "gold", "sword", "light_armor_head", "ring" or "bolts"
func ParseObjectType(s string) (ObjectType, error) {
	s = strings.ToLower(s)
	switch s {
	case "gold":
		return ObjectType{Category: CategoryGold}, nil
	case "expendable":
		return ObjectType{Category: CategoryExpendable}, nil
	case "other":
		return ObjectType{Category: CategoryOther}, nil
	case "shield":
		return ObjectType{Category: CategoryShield}, nil
	}
	if w, ok := weaponKinds[s]; ok {
		return ObjectType{Category: CategoryWeapon, Weapon: w}, nil
	}
	if a, ok := accessoryKinds[s]; ok {
		return ObjectType{Category: CategoryAccessory, Accessory: a}, nil
	}
	if a, ok := ammoKinds[s]; ok {
		return ObjectType{Category: CategoryAmmo, Ammo: a}, nil
	}
	if i := strings.LastIndexByte(s, '_'); i > 0 {
		family, okFamily := armorFamilies[s[:i]]
		part, okPart := armorParts[s[i+1:]]
		if okFamily && okPart {
			return ObjectType{Category: CategoryArmor, Armor: family, Part: part}, nil
		}
	}
	return ObjectType{}, errors.Errorf("unknown object type %q", s)
}

// Race returns the race implied by the type family, RaceAny for shields, jewelry and non equipment
func (t ObjectType) Race() Race {
	switch t.Category {
	case CategoryArmor:
		switch t.Armor {
		case Garment, Protector, Armor:
			return RaceChinese
		default:
			return RaceEuropean
		}
	case CategoryWeapon:
		switch t.Weapon {
		case Sword, Blade, Spear, Glaive, Bow:
			return RaceChinese
		default:
			return RaceEuropean
		}
	case CategoryAmmo:
		if t.Ammo == Arrows {
			return RaceChinese
		}
		return RaceEuropean
	}
	return RaceAny
}

// IsEquipment checks if the type can be worn
func (t ObjectType) IsEquipment() bool {
	switch t.Category {
	case CategoryArmor, CategoryWeapon, CategoryShield, CategoryAccessory:
		return true
	}
	return false
}

// IsTwoHanded checks if the weapon occupies both hands
func (t ObjectType) IsTwoHanded() bool {
	if t.Category != CategoryWeapon {
		return false
	}
	switch t.Weapon {
	case Glaive, Spear, Axe, Dagger, TwoHandSword, Harp, Staff:
		return true
	}
	return false
}
