package agent

import (
	"time"

	"github.com/xiaonanln/gwagent/engine/async"
	"github.com/xiaonanln/gwagent/engine/config"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/storage"
)

// CharacterLoader starts loading a character by name; the task result is a *storage.CharacterData
type CharacterLoader func(shard uint16, name string) *async.Task

// CharacterSaver starts saving a character
type CharacterSaver func(data *storage.CharacterData) *async.Task

// Settings are the tunables of the simulation systems
type Settings struct {
	Shard              uint16
	ClientTimeout      time.Duration
	VisibilityRadius   float32
	MovementSpeed      float32
	InventorySize      uint8
	LogoutDelay        time.Duration
	PickupCooldown     time.Duration
	PickupFullPolicy   string
	DropLifetime       time.Duration
	CorpseLifetime     time.Duration
	SpawnCheckInterval time.Duration
	StrollInterval     time.Duration

	LoadCharacter CharacterLoader
	SaveCharacter CharacterSaver
}

// DefaultSettings returns the settings used without configuration, backed by the storage service
func DefaultSettings() *Settings {
	return &Settings{
		ClientTimeout:      consts.CLIENT_TIMEOUT,
		VisibilityRadius:   consts.PLAYER_VISIBILITY_RADIUS,
		MovementSpeed:      consts.PLAYER_MOVEMENT_SPEED,
		InventorySize:      consts.INVENTORY_SIZE,
		LogoutDelay:        consts.LOGOUT_DELAY,
		PickupCooldown:     consts.PICKUP_COOLDOWN,
		PickupFullPolicy:   config.PickupFullReject,
		DropLifetime:       consts.DROP_LIFETIME,
		CorpseLifetime:     consts.CORPSE_LIFETIME,
		SpawnCheckInterval: consts.SPAWN_CHECK_INTERVAL,
		StrollInterval:     consts.MONSTER_STROLL_INTERVAL,
		LoadCharacter:      storage.LoadCharacterByName,
		SaveCharacter:      storage.SaveCharacter,
	}
}

// SettingsFromConfig reads the settings of the [agent] section
func SettingsFromConfig(ac *config.AgentConfig) *Settings {
	s := DefaultSettings()
	s.Shard = ac.ShardID
	s.ClientTimeout = ac.ClientTimeout
	s.VisibilityRadius = ac.VisibilityRadius
	s.MovementSpeed = ac.MovementSpeed
	s.InventorySize = uint8(ac.InventorySize)
	s.LogoutDelay = ac.LogoutDelay
	s.PickupCooldown = ac.PickupCooldown
	s.PickupFullPolicy = ac.PickupFullPolicy
	s.DropLifetime = ac.DropLifetime
	s.SpawnCheckInterval = ac.SpawnCheckInterval
	return s
}
