package proto

// MsgType is the type of message types
type MsgType uint16

// Client to server message types
const (
	// MT_INVALID is the invalid message type
	MT_INVALID MsgType = iota
	// MT_JOIN_REQUEST asks to enter the world with a character
	MT_JOIN_REQUEST
	// MT_FINISH_LOADING tells the client finished loading the world
	MT_FINISH_LOADING
	// MT_CHAT_REQUEST sends a chat message
	MT_CHAT_REQUEST
	// MT_ROTATION_REQUEST turns the character
	MT_ROTATION_REQUEST
	// MT_MOVEMENT_REQUEST moves the character to a location
	MT_MOVEMENT_REQUEST
	// MT_LOGOUT_REQUEST starts the logout countdown
	MT_LOGOUT_REQUEST
	// MT_TARGET_ENTITY_REQUEST selects an entity
	MT_TARGET_ENTITY_REQUEST
	// MT_UNTARGET_ENTITY_REQUEST clears the selection
	MT_UNTARGET_ENTITY_REQUEST
	// MT_PERFORM_ACTION_REQUEST attacks, uses a skill, picks up an item or stops the current action
	MT_PERFORM_ACTION_REQUEST
	// MT_INVENTORY_OPERATION_REQUEST moves or drops items and gold
	MT_INVENTORY_OPERATION_REQUEST
	// MT_GM_COMMAND_REQUEST runs a game master command
	MT_GM_COMMAND_REQUEST
	// MT_INCREASE_STR_REQUEST spends a stat point on strength
	MT_INCREASE_STR_REQUEST
	// MT_INCREASE_INT_REQUEST spends a stat point on intelligence
	MT_INCREASE_INT_REQUEST
)

// Server to client message types
const (
	// MT_SERVER_MSG_TYPE_START is the first server message type
	MT_SERVER_MSG_TYPE_START MsgType = 1000 + iota
	MT_JOIN_RESPONSE
	MT_CHARACTER_SPAWN_START
	MT_CHARACTER_SPAWN
	MT_CHARACTER_SPAWN_END
	MT_ENTITY_SPAWN
	MT_ENTITY_DESPAWN
	MT_GROUP_SPAWN_START
	MT_GROUP_SPAWN_DATA
	MT_GROUP_SPAWN_END
	MT_ENTITY_MOVEMENT
	MT_ENTITY_DAMAGE
	MT_PERFORM_ACTION_RESPONSE
	MT_INVENTORY_OPERATION_RESPONSE
	MT_CHARACTER_EQUIP_ITEM
	MT_CHARACTER_UNEQUIP_ITEM
	MT_INVENTORY_ITEM_GAINED
	MT_GOLD_UPDATE
	MT_TARGET_ENTITY_RESPONSE
	MT_UNTARGET_ENTITY_RESPONSE
	MT_LOGOUT_RESPONSE
	MT_LOGOUT_FINISHED
	MT_CHAT_RESPONSE
	MT_CHAT_UPDATE
	MT_STAT_RESPONSE
	MT_GM_RESPONSE
)

// Message is implemented by every message
type Message interface {
	MsgType() MsgType
}

// ClientMessage is a message received from a client
type ClientMessage interface {
	Message
	clientMessage()
}

// ServerMessage is a message sent to a client
type ServerMessage interface {
	Message
	serverMessage()
}
