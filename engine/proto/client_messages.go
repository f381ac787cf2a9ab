package proto

// JoinRequest enters the world with a character of the user. Authentication happens before.
type JoinRequest struct {
	UserID        uint32
	Shard         uint16
	CharacterName string
}

// FinishLoading is sent once the client loaded the world around the character
type FinishLoading struct{}

// ChatRequest sends a message to everyone around
type ChatRequest struct {
	Index   uint8 // echoed in the response
	Message string
}

// RotationRequest turns the character to Heading degrees
type RotationRequest struct {
	Heading float32
}

// MovementRequest walks the character to a location
type MovementRequest struct {
	Destination Location
}

// LogoutMode is exit or restart
type LogoutMode uint8

const (
	LogoutExit LogoutMode = iota + 1
	LogoutRestart
)

// LogoutRequest starts the logout countdown
type LogoutRequest struct {
	Mode LogoutMode
}

// TargetEntityRequest selects an entity by its unique id
type TargetEntityRequest struct {
	UniqueID uint32
}

// UntargetEntityRequest clears the selection
type UntargetEntityRequest struct {
	UniqueID uint32
}

// ActionKind is what a PerformActionRequest asks for
type ActionKind uint8

const (
	ActionAttack ActionKind = iota + 1
	ActionUseSkill
	ActionPickup
	ActionStop
)

// ActionTargetKind tells how the target of an action is given
type ActionTargetKind uint8

const (
	TargetNone ActionTargetKind = iota
	TargetSelf
	TargetEntity
	TargetLocation
)

// PerformActionRequest starts or stops an action
type PerformActionRequest struct {
	Kind       ActionKind
	SkillID    uint32 // ActionUseSkill
	TargetKind ActionTargetKind
	TargetID   uint32   // TargetEntity
	Location   Location // TargetLocation
}

// InventoryOperationKind is the kind of an inventory operation
type InventoryOperationKind uint8

const (
	InventoryMove InventoryOperationKind = iota + 1
	InventoryDropGold
	InventoryDropItem
	InventoryPickup
)

// InventoryOperationRequest mutates the inventory
type InventoryOperationRequest struct {
	Kind     InventoryOperationKind
	Source   uint8
	Target   uint8
	Amount   uint16
	Gold     uint64
	UniqueID uint32 // InventoryPickup
}

// GmCommandKind is the kind of a game master command
type GmCommandKind uint8

const (
	GmMakeItem GmCommandKind = iota + 1
	GmSpawnMonster
)

// GmCommandRequest runs a game master command
type GmCommandRequest struct {
	Kind   GmCommandKind
	RefID  uint32
	Amount uint8 // upgrade level of items, number of monsters
}

// IncreaseStrRequest spends a stat point on strength
type IncreaseStrRequest struct{}

// IncreaseIntRequest spends a stat point on intelligence
type IncreaseIntRequest struct{}

func (*JoinRequest) MsgType() MsgType               { return MT_JOIN_REQUEST }
func (*FinishLoading) MsgType() MsgType             { return MT_FINISH_LOADING }
func (*ChatRequest) MsgType() MsgType               { return MT_CHAT_REQUEST }
func (*RotationRequest) MsgType() MsgType           { return MT_ROTATION_REQUEST }
func (*MovementRequest) MsgType() MsgType           { return MT_MOVEMENT_REQUEST }
func (*LogoutRequest) MsgType() MsgType             { return MT_LOGOUT_REQUEST }
func (*TargetEntityRequest) MsgType() MsgType       { return MT_TARGET_ENTITY_REQUEST }
func (*UntargetEntityRequest) MsgType() MsgType     { return MT_UNTARGET_ENTITY_REQUEST }
func (*PerformActionRequest) MsgType() MsgType      { return MT_PERFORM_ACTION_REQUEST }
func (*InventoryOperationRequest) MsgType() MsgType { return MT_INVENTORY_OPERATION_REQUEST }
func (*GmCommandRequest) MsgType() MsgType          { return MT_GM_COMMAND_REQUEST }
func (*IncreaseStrRequest) MsgType() MsgType        { return MT_INCREASE_STR_REQUEST }
func (*IncreaseIntRequest) MsgType() MsgType        { return MT_INCREASE_INT_REQUEST }

func (*JoinRequest) clientMessage()               {}
func (*FinishLoading) clientMessage()             {}
func (*ChatRequest) clientMessage()               {}
func (*RotationRequest) clientMessage()           {}
func (*MovementRequest) clientMessage()           {}
func (*LogoutRequest) clientMessage()             {}
func (*TargetEntityRequest) clientMessage()       {}
func (*UntargetEntityRequest) clientMessage()     {}
func (*PerformActionRequest) clientMessage()      {}
func (*InventoryOperationRequest) clientMessage() {}
func (*GmCommandRequest) clientMessage()          {}
func (*IncreaseStrRequest) clientMessage()        {}
func (*IncreaseIntRequest) clientMessage()        {}

var clientMessageFactories = map[MsgType]func() ClientMessage{
	MT_JOIN_REQUEST:                func() ClientMessage { return &JoinRequest{} },
	MT_FINISH_LOADING:              func() ClientMessage { return &FinishLoading{} },
	MT_CHAT_REQUEST:                func() ClientMessage { return &ChatRequest{} },
	MT_ROTATION_REQUEST:            func() ClientMessage { return &RotationRequest{} },
	MT_MOVEMENT_REQUEST:            func() ClientMessage { return &MovementRequest{} },
	MT_LOGOUT_REQUEST:              func() ClientMessage { return &LogoutRequest{} },
	MT_TARGET_ENTITY_REQUEST:       func() ClientMessage { return &TargetEntityRequest{} },
	MT_UNTARGET_ENTITY_REQUEST:     func() ClientMessage { return &UntargetEntityRequest{} },
	MT_PERFORM_ACTION_REQUEST:      func() ClientMessage { return &PerformActionRequest{} },
	MT_INVENTORY_OPERATION_REQUEST: func() ClientMessage { return &InventoryOperationRequest{} },
	MT_GM_COMMAND_REQUEST:          func() ClientMessage { return &GmCommandRequest{} },
	MT_INCREASE_STR_REQUEST:        func() ClientMessage { return &IncreaseStrRequest{} },
	MT_INCREASE_INT_REQUEST:        func() ClientMessage { return &IncreaseIntRequest{} },
}
