package storage

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/xiaonanln/typeconv"
)

// CharacterItem is an item owned by a character
type CharacterItem struct {
	Slot         uint8
	RefID        uint32
	UpgradeLevel uint8
	Amount       uint16 // stack size, or gold amount of gold piles
	Variance     uint64
	HasVariance  bool
}

// CharacterData is the persistent record of a character
type CharacterData struct {
	ID            uint32
	UserID        uint32
	Shard         uint16
	Name          string
	RefID         uint32 // character model
	Scale         uint8
	Level         uint8
	MaxLevel      uint8
	Exp           uint64
	SP            uint32
	SPExp         uint32
	Strength      uint16
	Intelligence  uint16
	StatPoints    uint16
	HP            uint32
	MP            uint32
	Region        uint16
	X             float32
	Y             float32
	Z             float32
	Heading       float32
	BerserkPoints uint8
	Gold          uint64
	BeginnerMark  bool
	GM            bool
	LastLogout    int64 // unix seconds, 0 if never
	Items         []CharacterItem
}

// Clone returns a deep copy; the simulation hands clones to storage so that it can keep mutating its own
func (c *CharacterData) Clone() *CharacterData {
	clone := *c
	clone.Items = append([]CharacterItem(nil), c.Items...)
	return &clone
}

func characterKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func characterNameKey(shard uint16, name string) string {
	return strconv.FormatUint(uint64(shard), 10) + "$" + name
}

func userCharactersKey(user uint32, shard uint16) string {
	return strconv.FormatUint(uint64(user), 10) + "$" + strconv.FormatUint(uint64(shard), 10)
}

// every integer is stored as int64 so that all backends (json, msgpack, bson) keep it
func (c *CharacterData) toDoc() map[string]interface{} {
	items := make([]interface{}, 0, len(c.Items))
	for _, item := range c.Items {
		doc := map[string]interface{}{
			"slot":          int64(item.Slot),
			"item_obj_id":   int64(item.RefID),
			"upgrade_level": int64(item.UpgradeLevel),
			"amount":        int64(item.Amount),
		}
		if item.HasVariance {
			doc["variance"] = int64(item.Variance)
		}
		items = append(items, doc)
	}

	return map[string]interface{}{
		"id":             int64(c.ID),
		"user_id":        int64(c.UserID),
		"server_id":      int64(c.Shard),
		"charname":       c.Name,
		"character_type": int64(c.RefID),
		"scale":          int64(c.Scale),
		"level":          int64(c.Level),
		"max_level":      int64(c.MaxLevel),
		"exp":            int64(c.Exp),
		"sp":             int64(c.SP),
		"sp_exp":         int64(c.SPExp),
		"strength":       int64(c.Strength),
		"intelligence":   int64(c.Intelligence),
		"stat_points":    int64(c.StatPoints),
		"current_hp":     int64(c.HP),
		"current_mp":     int64(c.MP),
		"region":         int64(c.Region),
		"x":              float64(c.X),
		"y":              float64(c.Y),
		"z":              float64(c.Z),
		"rotation":       float64(c.Heading),
		"berserk_points": int64(c.BerserkPoints),
		"gold":           int64(c.Gold),
		"beginner_mark":  c.BeginnerMark,
		"gm":             c.GM,
		"last_logout":    c.LastLogout,
		"items":          items,
	}
}

func characterFromDoc(doc map[string]interface{}) (c *CharacterData, err error) {
	defer func() {
		// typeconv panics on values of unexpected types
		if perr := recover(); perr != nil {
			c, err = nil, errors.Errorf("malformed character record: %v", perr)
		}
	}()

	c = &CharacterData{
		ID:            uint32(docInt(doc, "id")),
		UserID:        uint32(docInt(doc, "user_id")),
		Shard:         uint16(docInt(doc, "server_id")),
		Name:          docString(doc, "charname"),
		RefID:         uint32(docInt(doc, "character_type")),
		Scale:         uint8(docInt(doc, "scale")),
		Level:         uint8(docInt(doc, "level")),
		MaxLevel:      uint8(docInt(doc, "max_level")),
		Exp:           uint64(docInt(doc, "exp")),
		SP:            uint32(docInt(doc, "sp")),
		SPExp:         uint32(docInt(doc, "sp_exp")),
		Strength:      uint16(docInt(doc, "strength")),
		Intelligence:  uint16(docInt(doc, "intelligence")),
		StatPoints:    uint16(docInt(doc, "stat_points")),
		HP:            uint32(docInt(doc, "current_hp")),
		MP:            uint32(docInt(doc, "current_mp")),
		Region:        uint16(docInt(doc, "region")),
		X:             docFloat(doc, "x"),
		Y:             docFloat(doc, "y"),
		Z:             docFloat(doc, "z"),
		Heading:       docFloat(doc, "rotation"),
		BerserkPoints: uint8(docInt(doc, "berserk_points")),
		Gold:          uint64(docInt(doc, "gold")),
		BeginnerMark:  docBool(doc, "beginner_mark"),
		GM:            docBool(doc, "gm"),
		LastLogout:    docInt(doc, "last_logout"),
	}
	if c.ID == 0 {
		return nil, errors.New("malformed character record: no id")
	}

	items, _ := doc["items"].([]interface{})
	for _, v := range items {
		itemDoc, ok := v.(map[string]interface{})
		if !ok {
			if _, isMap := v.(map[interface{}]interface{}); !isMap {
				return nil, errors.Errorf("malformed item of character %d: %v", c.ID, v)
			}
			itemDoc, _ = interface{}(typeconv.MapStringAnything(v)).(map[string]interface{})
		}
		_, hasVariance := itemDoc["variance"]
		c.Items = append(c.Items, CharacterItem{
			Slot:         uint8(docInt(itemDoc, "slot")),
			RefID:        uint32(docInt(itemDoc, "item_obj_id")),
			UpgradeLevel: uint8(docInt(itemDoc, "upgrade_level")),
			Amount:       uint16(docInt(itemDoc, "amount")),
			Variance:     uint64(docInt(itemDoc, "variance")),
			HasVariance:  hasVariance,
		})
	}
	return c, nil
}

func docInt(doc map[string]interface{}, key string) int64 {
	v, ok := doc[key]
	if !ok || v == nil {
		return 0
	}
	return typeconv.Int(v)
}

func docFloat(doc map[string]interface{}, key string) float32 {
	switch v := doc[key].(type) {
	case nil:
		return 0
	case float32:
		return v
	case float64:
		return float32(v)
	default:
		return float32(typeconv.Int(v))
	}
}

func docString(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docBool(doc map[string]interface{}, key string) bool {
	b, _ := doc[key].(bool)
	return b
}
