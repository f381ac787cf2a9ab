package netutil

import "github.com/pkg/errors"

var (
	// MSG_PACKER is used for packing and unpacking client messages and stored records
	MSG_PACKER MsgPacker = MessagePackMsgPacker{}
)

// MsgPacker is used to packs and unpacks messages
type MsgPacker interface {
	PackMsg(msg interface{}, buf []byte) ([]byte, error)
	UnpackMsg(data []byte, msg interface{}) error
}

// Pack packs msg into a new buffer with MSG_PACKER
func Pack(msg interface{}) ([]byte, error) {
	data, err := MSG_PACKER.PackMsg(msg, nil)
	return data, errors.Wrapf(err, "pack %T", msg)
}

// Unpack unpacks data into msg with MSG_PACKER
func Unpack(data []byte, msg interface{}) error {
	return errors.Wrapf(MSG_PACKER.UnpackMsg(data, msg), "unpack %T", msg)
}
