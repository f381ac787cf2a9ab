package refdata

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SkillData is the static definition of a skill
type SkillData struct {
	ID          uint32
	Code        string
	Preparation time.Duration
	Cast        time.Duration
	Duration    time.Duration
	NextDelay   time.Duration
	Range       float32
	Attack      bool
}

// ItemData is the static definition of an item
type ItemData struct {
	ID            uint32
	Code          string
	Type          ObjectType
	Race          Race
	RequiredLevel uint8
	MaxStack      uint16
	AttackPower   [2]uint32 // lower, upper
	Reinforce     [2]uint32 // lower, upper, per strength point in 1/100
	AttackSkill   uint32
}

// CharacterData is the static definition of a player model or monster
type CharacterData struct {
	ID       uint32
	Code     string
	Race     Race
	Player   bool
	Level    uint8
	MaxHP    uint32
	Speed    float32
	GoldDrop [2]uint32 // min, max
}

type skillsFile struct {
	BasicAttack uint32 `yaml:"basic_attack"`
	Skills      []struct {
		ID            uint32  `yaml:"id"`
		Code          string  `yaml:"code"`
		PreparationMS int     `yaml:"preparation_ms"`
		CastMS        int     `yaml:"cast_ms"`
		DurationMS    int     `yaml:"duration_ms"`
		NextDelayMS   int     `yaml:"next_delay_ms"`
		Range         float32 `yaml:"range"`
		Attack        bool    `yaml:"attack"`
	} `yaml:"skills"`
}

type itemsFile struct {
	Gold  []uint32 `yaml:"gold"` // small, medium, large piles
	Items []struct {
		ID            uint32    `yaml:"id"`
		Code          string    `yaml:"code"`
		Type          string    `yaml:"type"`
		Race          string    `yaml:"race"`
		RequiredLevel uint8     `yaml:"required_level"`
		Stack         uint16    `yaml:"stack"`
		AttackPower   [2]uint32 `yaml:"attack_power"`
		Reinforce     [2]uint32 `yaml:"reinforce"`
		AttackSkill   uint32    `yaml:"attack_skill"`
	} `yaml:"items"`
}

type charactersFile struct {
	Characters []struct {
		ID       uint32    `yaml:"id"`
		Code     string    `yaml:"code"`
		Race     string    `yaml:"race"`
		Player   bool      `yaml:"player"`
		Level    uint8     `yaml:"level"`
		HP       uint32    `yaml:"hp"`
		Speed    float32   `yaml:"speed"`
		GoldDrop [2]uint32 `yaml:"gold_drop"`
	} `yaml:"characters"`
}

// Data is the immutable reference data shared by all systems
type Data struct {
	skills      map[uint32]*SkillData
	items       map[uint32]*ItemData
	characters  map[uint32]*CharacterData
	basicAttack *SkillData
	gold        [3]*ItemData
}

// Load reads the skill, item and character files
func Load(skillFile, itemFile, characterFile string) (*Data, error) {
	var contents [3][]byte
	for i, path := range []string{skillFile, itemFile, characterFile} {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read reference data")
		}
		contents[i] = data
	}
	d, err := Parse(contents[0], contents[1], contents[2])
	return d, errors.Wrapf(err, "load %s, %s, %s", skillFile, itemFile, characterFile)
}

// Parse decodes and validates reference data. Every cross reference must resolve.
func Parse(skillsYAML, itemsYAML, charactersYAML []byte) (*Data, error) {
	d := &Data{
		skills:     map[uint32]*SkillData{},
		items:      map[uint32]*ItemData{},
		characters: map[uint32]*CharacterData{},
	}
	if err := d.parseSkills(skillsYAML); err != nil {
		return nil, err
	}
	if err := d.parseItems(itemsYAML); err != nil {
		return nil, err
	}
	if err := d.parseCharacters(charactersYAML); err != nil {
		return nil, err
	}
	return d, nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func (d *Data) parseSkills(content []byte) error {
	var f skillsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return errors.Wrap(err, "parse skills")
	}
	for _, s := range f.Skills {
		if _, ok := d.skills[s.ID]; ok {
			return errors.Errorf("skill %d defined twice", s.ID)
		}
		d.skills[s.ID] = &SkillData{
			ID:          s.ID,
			Code:        s.Code,
			Preparation: ms(s.PreparationMS),
			Cast:        ms(s.CastMS),
			Duration:    ms(s.DurationMS),
			NextDelay:   ms(s.NextDelayMS),
			Range:       s.Range,
			Attack:      s.Attack,
		}
	}
	basic, ok := d.skills[f.BasicAttack]
	if !ok {
		return errors.Errorf("basic attack skill %d is not defined", f.BasicAttack)
	}
	d.basicAttack = basic
	return nil
}

func (d *Data) parseItems(content []byte) error {
	var f itemsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return errors.Wrap(err, "parse items")
	}
	for _, it := range f.Items {
		if _, ok := d.items[it.ID]; ok {
			return errors.Errorf("item %d defined twice", it.ID)
		}
		typ, err := ParseObjectType(it.Type)
		if err != nil {
			return errors.Wrapf(err, "item %d", it.ID)
		}
		race := typ.Race()
		if race == RaceAny {
			if race, err = ParseRace(it.Race); err != nil {
				return errors.Wrapf(err, "item %d", it.ID)
			}
		}
		if it.AttackSkill != 0 {
			if _, ok := d.skills[it.AttackSkill]; !ok {
				return errors.Errorf("item %d: attack skill %d is not defined", it.ID, it.AttackSkill)
			}
		}
		if it.AttackPower[0] > it.AttackPower[1] || it.Reinforce[0] > it.Reinforce[1] {
			return errors.Errorf("item %d: lower bound above upper bound", it.ID)
		}
		maxStack := it.Stack
		if maxStack == 0 {
			maxStack = 1
		}
		d.items[it.ID] = &ItemData{
			ID:            it.ID,
			Code:          it.Code,
			Type:          typ,
			Race:          race,
			RequiredLevel: it.RequiredLevel,
			MaxStack:      maxStack,
			AttackPower:   it.AttackPower,
			Reinforce:     it.Reinforce,
			AttackSkill:   it.AttackSkill,
		}
	}

	if len(f.Gold) != len(d.gold) {
		return errors.Errorf("expected %d gold items, got %d", len(d.gold), len(f.Gold))
	}
	for i, id := range f.Gold {
		item, ok := d.items[id]
		if !ok || item.Type.Category != CategoryGold {
			return errors.Errorf("gold item %d is not defined as gold", id)
		}
		d.gold[i] = item
	}
	return nil
}

func (d *Data) parseCharacters(content []byte) error {
	var f charactersFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return errors.Wrap(err, "parse characters")
	}
	for _, c := range f.Characters {
		if _, ok := d.characters[c.ID]; ok {
			return errors.Errorf("character %d defined twice", c.ID)
		}
		race, err := ParseRace(c.Race)
		if err != nil {
			return errors.Wrapf(err, "character %d", c.ID)
		}
		if c.Player && race == RaceAny {
			return errors.Errorf("player character %d has no race", c.ID)
		}
		if !c.Player && c.HP == 0 {
			return errors.Errorf("monster %d has no hp", c.ID)
		}
		if c.GoldDrop[0] > c.GoldDrop[1] {
			return errors.Errorf("character %d: gold drop min above max", c.ID)
		}
		d.characters[c.ID] = &CharacterData{
			ID:       c.ID,
			Code:     c.Code,
			Race:     race,
			Player:   c.Player,
			Level:    c.Level,
			MaxHP:    c.HP,
			Speed:    c.Speed,
			GoldDrop: c.GoldDrop,
		}
	}
	return nil
}

// Skill looks up a skill by id
func (d *Data) Skill(id uint32) (*SkillData, bool) {
	s, ok := d.skills[id]
	return s, ok
}

// Item looks up an item by id
func (d *Data) Item(id uint32) (*ItemData, bool) {
	it, ok := d.items[id]
	return it, ok
}

// Character looks up a player model or monster by id
func (d *Data) Character(id uint32) (*CharacterData, bool) {
	c, ok := d.characters[id]
	return c, ok
}

// MustCharacter looks up a character that configuration refers to; a missing id is a configuration error
func (d *Data) MustCharacter(id uint32) *CharacterData {
	c, ok := d.characters[id]
	if !ok {
		panic(errors.Errorf("character %d is not defined", id))
	}
	return c
}

// BasicAttack returns the skill used by attacks without weapon skill
func (d *Data) BasicAttack() *SkillData {
	return d.basicAttack
}

// AttackSkillOf returns the skill used by a plain attack with the weapon, which may be nil
func (d *Data) AttackSkillOf(weapon *ItemData) *SkillData {
	if weapon != nil && weapon.AttackSkill != 0 {
		return d.skills[weapon.AttackSkill]
	}
	return d.basicAttack
}

// GoldRefFor returns the gold pile item representing amount
func (d *Data) GoldRefFor(amount uint64) *ItemData {
	switch {
	case amount < 1000:
		return d.gold[0]
	case amount < 10000:
		return d.gold[1]
	default:
		return d.gold[2]
	}
}
