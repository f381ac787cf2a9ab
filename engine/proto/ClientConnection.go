package proto

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/xiaonanln/go-xnsyncutil/xnsyncutil"
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
)

// ErrStreamClosed is returned by Recv after the transport closed the connection
var ErrStreamClosed = errors.New("stream closed")

var lastConnectionID uint64

// ClientConnection connects the simulation to the transport of one client.
//
// The transport goroutines Deliver inbound messages and PopOutbound outgoing ones.
// The simulation drains inbound messages with Recv and buffers outgoing ones with Send;
// buffered messages reach the transport when Flush is called in the Broadcast phase.
type ClientConnection struct {
	id       uint64
	inbound  *xnsyncutil.SyncQueue
	outbound *xnsyncutil.SyncQueue
	closed   xnsyncutil.AtomicBool

	pendingLock sync.Mutex
	pending     []ServerMessage
}

// NewClientConnection creates a connection
func NewClientConnection() *ClientConnection {
	return &ClientConnection{
		id:       atomic.AddUint64(&lastConnectionID, 1),
		inbound:  xnsyncutil.NewSyncQueue(),
		outbound: xnsyncutil.NewSyncQueue(),
	}
}

func (c *ClientConnection) String() string {
	return "ClientConnection<" + strconv.FormatUint(c.id, 10) + ">"
}

// ID returns the id of the connection
func (c *ClientConnection) ID() uint64 {
	return c.id
}

// Deliver queues an inbound message
func (c *ClientConnection) Deliver(msg ClientMessage) {
	c.inbound.Push(msg)
}

// DeliverError queues an inbound decoding failure, surfaced by Recv in order
func (c *ClientConnection) DeliverError(err error) {
	c.inbound.Push(err)
}

// Close marks the stream closed; Recv returns ErrStreamClosed once queued messages are drained
func (c *ClientConnection) Close() {
	if c.closed.Load() {
		return
	}
	c.closed.Store(true)
	c.outbound.Close()
	if consts.DEBUG_CLIENTS {
		gwlog.Debugf("%s closed", c)
	}
}

// IsClosed returns if the stream is closed
func (c *ClientConnection) IsClosed() bool {
	return c.closed.Load()
}

// Recv returns the next inbound message without blocking: (nil, nil) when there is none,
// ErrStreamClosed when the stream is closed, or the decoding error of a dropped message.
// Only the simulation routine may call Recv.
func (c *ClientConnection) Recv() (ClientMessage, error) {
	if c.inbound.Len() > 0 {
		switch v := c.inbound.Pop().(type) {
		case ClientMessage:
			return v, nil
		case error:
			return nil, v
		}
	}
	if c.closed.Load() {
		return nil, ErrStreamClosed
	}
	return nil, nil
}

// Send buffers a message until the next Flush. It is safe for concurrent use.
func (c *ClientConnection) Send(msg ServerMessage) {
	c.pendingLock.Lock()
	c.pending = append(c.pending, msg)
	c.pendingLock.Unlock()
}

// Flush hands the buffered messages to the transport, returns how many were flushed
func (c *ClientConnection) Flush() int {
	c.pendingLock.Lock()
	pending := c.pending
	c.pending = nil
	c.pendingLock.Unlock()

	if c.closed.Load() {
		return 0
	}
	for _, msg := range pending {
		c.outbound.Push(msg)
	}
	return len(pending)
}

// PopOutbound blocks until a message is ready for the transport; nil after Close
func (c *ClientConnection) PopOutbound() ServerMessage {
	msg, _ := c.outbound.Pop().(ServerMessage)
	return msg
}

// TakeOutbound returns the flushed messages without blocking
func (c *ClientConnection) TakeOutbound() []ServerMessage {
	var msgs []ServerMessage
	for c.outbound.Len() > 0 {
		if msg, ok := c.outbound.Pop().(ServerMessage); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
