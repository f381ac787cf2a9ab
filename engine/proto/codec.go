package proto

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/netutil"
)

const msgTypeSize = 2

// ProtocolError is a malformed or unexpected inbound message; the message is dropped, the connection kept
type ProtocolError struct {
	MsgType MsgType
	Cause   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error on message type %d: %v", e.MsgType, e.Cause)
}

// EncodeMessage packs a message as its little endian type followed by the packed payload
func EncodeMessage(msg Message) ([]byte, error) {
	buf := make([]byte, msgTypeSize, 64)
	binary.LittleEndian.PutUint16(buf, uint16(msg.MsgType()))
	data, err := netutil.MSG_PACKER.PackMsg(msg, buf)
	return data, errors.Wrapf(err, "encode message type %d", msg.MsgType())
}

// DecodeClientMessage unpacks an inbound message. Failures are *ProtocolError.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	if len(data) < msgTypeSize {
		return nil, &ProtocolError{Cause: errors.Errorf("message too short: %d bytes", len(data))}
	}
	msgtype := MsgType(binary.LittleEndian.Uint16(data))
	factory, ok := clientMessageFactories[msgtype]
	if !ok {
		return nil, &ProtocolError{MsgType: msgtype, Cause: errors.New("unknown message type")}
	}
	msg := factory()
	if err := netutil.MSG_PACKER.UnpackMsg(data[msgTypeSize:], msg); err != nil {
		return nil, &ProtocolError{MsgType: msgtype, Cause: err}
	}
	return msg, nil
}
