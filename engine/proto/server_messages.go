package proto

// Location is a position inside a region
type Location struct {
	Region uint16
	X      float32
	Y      float32
	Z      float32
}

// EntityPosition is a location with a heading in degrees
type EntityPosition struct {
	Location
	Heading float32
}

// JoinResponse answers a JoinRequest
type JoinResponse struct {
	Success bool
	Error   string
}

// CharacterSpawnStart starts the own character data of a joining player
type CharacterSpawnStart struct{}

// InventoryItem is an item in a slot
type InventoryItem struct {
	Slot         uint8
	RefID        uint32
	UpgradeLevel uint8
	Count        uint16
	Variance     uint64
}

// CharacterSpawn is the full data of the own character
type CharacterSpawn struct {
	UniqueID     uint32
	RefID        uint32
	Name         string
	Level        uint8
	Exp          uint64
	SP           uint32
	Strength     uint16
	Intelligence uint16
	StatPoints   uint16
	HP           uint32
	MaxHP        uint32
	MP           uint32
	Gold         uint64
	GM           bool
	Position     EntityPosition
	Inventory    []InventoryItem
}

// CharacterSpawnEnd ends the own character data
type CharacterSpawnEnd struct{}

// SpawnKind tells what kind of entity is spawned
type SpawnKind uint8

const (
	SpawnPlayer SpawnKind = iota + 1
	SpawnMonster
	SpawnItem
)

// EntitySpawn creates an entity on the client
type EntitySpawn struct {
	Kind        SpawnKind
	UniqueID    uint32
	RefID       uint32
	Position    EntityPosition
	Moving      bool
	Destination Location
	Name        string // players
	HP          uint32 // players and monsters
	MaxHP       uint32
	Dead        bool
	Amount      uint64 // gold and stacks on the ground
	Equipment   []InventoryItem
}

// EntityDespawn removes an entity from the client
type EntityDespawn struct {
	UniqueID uint32
}

// GroupSpawnKind is what a group spawn envelope contains
type GroupSpawnKind uint8

const (
	GroupSpawn GroupSpawnKind = iota + 1
	GroupDespawn
)

// GroupSpawnStart opens a batch of spawns or despawns
type GroupSpawnStart struct {
	Kind  GroupSpawnKind
	Count uint16
}

// GroupSpawnData carries a batch
type GroupSpawnData struct {
	Spawns    []EntitySpawn
	Despawned []uint32
}

// GroupSpawnEnd closes a batch
type GroupSpawnEnd struct{}

// MovementKind is the kind of a movement update
type MovementKind uint8

const (
	StartMove MovementKind = iota + 1
	StopMove
	Turn
)

// EntityMovement is a movement update of an entity
type EntityMovement struct {
	UniqueID    uint32
	Kind        MovementKind
	Position    EntityPosition // current position, final position for StopMove
	Destination Location       // StartMove
	Heading     float32        // Turn
}

// EntityDamage reports damage dealt to an entity
type EntityDamage struct {
	UniqueID    uint32 // target
	Source      uint32
	SkillID     uint32
	Instance    uint32
	Amount      uint32
	RemainingHP uint32
	Killed      bool
}

// ActionResult is the outcome of a PerformActionRequest
type ActionResult uint8

const (
	ActionSuccess ActionResult = iota + 1
	ActionInvalidTarget
	ActionCompleted
	ActionBusy
)

// PerformActionResponse answers a PerformActionRequest or reports the end of the action
type PerformActionResponse struct {
	Stop   bool // false: the action started
	Result ActionResult
}

// InventoryOperationResponse reports the result of an inventory operation
type InventoryOperationResponse struct {
	Kind    InventoryOperationKind
	Success bool
	Error   uint8 // rejection code when not successful
	Source  uint8
	Target  uint8
	Amount  uint16
	Gold    uint64
}

// CharacterEquipItem tells that an item is now worn
type CharacterEquipItem struct {
	UniqueID     uint32
	Slot         uint8
	RefID        uint32
	UpgradeLevel uint8
	OneHanded    bool
}

// CharacterUnequipItem tells that an item was taken off
type CharacterUnequipItem struct {
	UniqueID uint32
	Slot     uint8
	RefID    uint32
}

// InventoryItemGained tells that an item was added to the inventory
type InventoryItemGained struct {
	Item InventoryItem
}

// GoldUpdate tells the new gold balance
type GoldUpdate struct {
	Amount uint64
	Change int64
}

// TargetEntityResponse answers a TargetEntityRequest
type TargetEntityResponse struct {
	Success  bool
	UniqueID uint32
	HP       uint32
	MaxHP    uint32
}

// UntargetEntityResponse answers an UntargetEntityRequest
type UntargetEntityResponse struct {
	Success bool
}

// LogoutResponse answers a LogoutRequest
type LogoutResponse struct {
	Success bool
	Seconds uint8
	Mode    LogoutMode
}

// LogoutFinished is the last message before the server closes the connection
type LogoutFinished struct{}

// ChatResponse answers a ChatRequest
type ChatResponse struct {
	Success bool
	Index   uint8
}

// ChatUpdate delivers a chat message of someone around
type ChatUpdate struct {
	Source  uint32
	Sender  string
	Message string
}

// StatResponse answers stat increase requests
type StatResponse struct {
	Success      bool
	Strength     uint16
	Intelligence uint16
	StatPoints   uint16
}

// GmResponse answers a GmCommandRequest
type GmResponse struct {
	Success bool
	Error   string
}

func (*JoinResponse) MsgType() MsgType               { return MT_JOIN_RESPONSE }
func (*CharacterSpawnStart) MsgType() MsgType        { return MT_CHARACTER_SPAWN_START }
func (*CharacterSpawn) MsgType() MsgType             { return MT_CHARACTER_SPAWN }
func (*CharacterSpawnEnd) MsgType() MsgType          { return MT_CHARACTER_SPAWN_END }
func (*EntitySpawn) MsgType() MsgType                { return MT_ENTITY_SPAWN }
func (*EntityDespawn) MsgType() MsgType              { return MT_ENTITY_DESPAWN }
func (*GroupSpawnStart) MsgType() MsgType            { return MT_GROUP_SPAWN_START }
func (*GroupSpawnData) MsgType() MsgType             { return MT_GROUP_SPAWN_DATA }
func (*GroupSpawnEnd) MsgType() MsgType              { return MT_GROUP_SPAWN_END }
func (*EntityMovement) MsgType() MsgType             { return MT_ENTITY_MOVEMENT }
func (*EntityDamage) MsgType() MsgType               { return MT_ENTITY_DAMAGE }
func (*PerformActionResponse) MsgType() MsgType      { return MT_PERFORM_ACTION_RESPONSE }
func (*InventoryOperationResponse) MsgType() MsgType { return MT_INVENTORY_OPERATION_RESPONSE }
func (*CharacterEquipItem) MsgType() MsgType         { return MT_CHARACTER_EQUIP_ITEM }
func (*CharacterUnequipItem) MsgType() MsgType       { return MT_CHARACTER_UNEQUIP_ITEM }
func (*InventoryItemGained) MsgType() MsgType        { return MT_INVENTORY_ITEM_GAINED }
func (*GoldUpdate) MsgType() MsgType                 { return MT_GOLD_UPDATE }
func (*TargetEntityResponse) MsgType() MsgType       { return MT_TARGET_ENTITY_RESPONSE }
func (*UntargetEntityResponse) MsgType() MsgType     { return MT_UNTARGET_ENTITY_RESPONSE }
func (*LogoutResponse) MsgType() MsgType             { return MT_LOGOUT_RESPONSE }
func (*LogoutFinished) MsgType() MsgType             { return MT_LOGOUT_FINISHED }
func (*ChatResponse) MsgType() MsgType               { return MT_CHAT_RESPONSE }
func (*ChatUpdate) MsgType() MsgType                 { return MT_CHAT_UPDATE }
func (*StatResponse) MsgType() MsgType               { return MT_STAT_RESPONSE }
func (*GmResponse) MsgType() MsgType                 { return MT_GM_RESPONSE }

func (*JoinResponse) serverMessage()               {}
func (*CharacterSpawnStart) serverMessage()        {}
func (*CharacterSpawn) serverMessage()             {}
func (*CharacterSpawnEnd) serverMessage()          {}
func (*EntitySpawn) serverMessage()                {}
func (*EntityDespawn) serverMessage()              {}
func (*GroupSpawnStart) serverMessage()            {}
func (*GroupSpawnData) serverMessage()             {}
func (*GroupSpawnEnd) serverMessage()              {}
func (*EntityMovement) serverMessage()             {}
func (*EntityDamage) serverMessage()               {}
func (*PerformActionResponse) serverMessage()      {}
func (*InventoryOperationResponse) serverMessage() {}
func (*CharacterEquipItem) serverMessage()         {}
func (*CharacterUnequipItem) serverMessage()       {}
func (*InventoryItemGained) serverMessage()        {}
func (*GoldUpdate) serverMessage()                 {}
func (*TargetEntityResponse) serverMessage()       {}
func (*UntargetEntityResponse) serverMessage()     {}
func (*LogoutResponse) serverMessage()             {}
func (*LogoutFinished) serverMessage()             {}
func (*ChatResponse) serverMessage()               {}
func (*ChatUpdate) serverMessage()                 {}
func (*StatResponse) serverMessage()               {}
func (*GmResponse) serverMessage()                 {}
