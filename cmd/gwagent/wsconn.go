package main

import (
	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/gwlog"
	"github.com/xiaonanln/gwagent/engine/netutil"
	"github.com/xiaonanln/gwagent/engine/proto"
	"golang.org/x/net/websocket"
)

// handleWebSocketConn bridges a websocket to a client connection of the world until either side closes
func handleWebSocketConn(wsConn *websocket.Conn) {
	wsConn.PayloadType = websocket.BinaryFrame
	conn := proto.NewClientConnection()
	if consts.DEBUG_CLIENTS {
		gwlog.Debugf("%s: websocket connection from %s", conn, wsConn.Request().RemoteAddr)
	}
	gameWorld.Connect(conn)

	go sendRoutine(wsConn, conn)
	recvRoutine(wsConn, conn)
	wsConn.Close()
}

func recvRoutine(wsConn *websocket.Conn, conn *proto.ClientConnection) {
	defer conn.Close()
	for !conn.IsClosed() {
		var data []byte
		if err := websocket.Message.Receive(wsConn, &data); err != nil {
			if !netutil.IsConnectionError(err) {
				gwlog.Warnf("%s: receive failed: %v", conn, err)
			}
			return
		}
		msg, err := proto.DecodeClientMessage(data)
		if err != nil {
			conn.DeliverError(err)
			continue
		}
		conn.Deliver(msg)
	}
}

// sendRoutine writes the flushed messages until the connection is closed by the world
func sendRoutine(wsConn *websocket.Conn, conn *proto.ClientConnection) {
	defer wsConn.Close()
	for {
		msg := conn.PopOutbound()
		if msg == nil {
			return
		}
		data, err := proto.EncodeMessage(msg)
		if err != nil {
			gwlog.TraceError("%s: %v", conn, err)
			continue
		}
		if err := websocket.Message.Send(wsConn, data); err != nil {
			gwlog.Warnf("%s: send failed: %v", conn, err)
			conn.Close()
			return
		}
	}
}
