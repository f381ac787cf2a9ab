package consts

import "time"

// Tunable Options
const (
	// For Simulation
	// TICK_INTERVAL is the default fixed simulation step
	TICK_INTERVAL = time.Millisecond * 100
	// CLIENT_TIMEOUT disconnects clients without any inbound message for this long
	CLIENT_TIMEOUT = time.Minute
	// SPAWN_CHECK_INTERVAL is how often spawners refill their population
	SPAWN_CHECK_INTERVAL = time.Second * 5
	// SAVE_INTERVAL is the default autosave interval of online players
	SAVE_INTERVAL = time.Minute * 5

	// For Players
	// PLAYER_VISIBILITY_RADIUS is the radius of a player's visibility set
	PLAYER_VISIBILITY_RADIUS = 200.0
	// PLAYER_MOVEMENT_SPEED is the walking speed of players in units per second
	PLAYER_MOVEMENT_SPEED = 50.0
	// INVENTORY_SIZE is the number of inventory slots including equipment
	INVENTORY_SIZE = 45
	// EQUIPMENT_SLOTS is the number of leading inventory slots reserved for equipment
	EQUIPMENT_SLOTS = 13
	// PLAYER_BASE_HP is the max hp of characters whose model defines none
	PLAYER_BASE_HP = 200
	// LOGOUT_DELAY is the time between a logout request and the disconnect
	LOGOUT_DELAY = time.Second * 5
	// CHAT_MAX_LENGTH is the max length in bytes of a chat message
	CHAT_MAX_LENGTH = 100

	// For Combat
	// UNARMED_DAMAGE is the damage of a player without weapon
	UNARMED_DAMAGE = 1
	// MONSTER_BASE_DAMAGE is the damage of every non-player attacker
	MONSTER_BASE_DAMAGE = 10
	// PICKUP_COOLDOWN is the claim animation of picking up an item
	PICKUP_COOLDOWN = time.Second
	// DROP_LIFETIME is how long items stay on the ground
	DROP_LIFETIME = time.Minute * 2
	// CORPSE_LIFETIME is how long dead monsters stay in the world
	CORPSE_LIFETIME = time.Second * 3
	// MONSTER_STROLL_INTERVAL is the average idle time of monsters between strolls
	MONSTER_STROLL_INTERVAL = time.Second * 8

	// For World
	// REGION_SIZE is the edge length of a region
	REGION_SIZE = 1920.0
	// DUNGEON_REGION_FLAG marks a region id as dungeon
	DUNGEON_REGION_FLAG = 0x8000

	// For Async Jobs
	// ASYNC_JOB_QUEUE_MAXLEN is the max length of each async job group
	ASYNC_JOB_QUEUE_MAXLEN = 10000

	// For Storage
	// STORAGE_MAX_RETRY is the number of attempts of a storage operation before failing the request
	STORAGE_MAX_RETRY = 3
	// STORAGE_RETRY_DELAY is the delay between storage attempts
	STORAGE_RETRY_DELAY = time.Millisecond * 500

	// For Operation Monitor
	// OPMON_DUMP_INTERVAL is the interval to print opmon infos to output
	OPMON_DUMP_INTERVAL = time.Minute
	// SYSTEM_WARN_THRESHOLD warns about systems taking longer than this in one tick
	SYSTEM_WARN_THRESHOLD = time.Millisecond * 20
	// TICK_WARN_THRESHOLD warns about ticks taking longer than this
	TICK_WARN_THRESHOLD = time.Millisecond * 80
)

// Debug Options
const (
	// DEBUG_CLIENTS prints clients operation debug logs
	DEBUG_CLIENTS = false
	// DEBUG_SAVE_LOAD prints save & load debug logs
	DEBUG_SAVE_LOAD = false
	// DEBUG_SYNC prints visibility and sync debug logs
	DEBUG_SYNC = false
	// DEBUG_ACTIONS prints action state machine debug logs
	DEBUG_ACTIONS = false
)
