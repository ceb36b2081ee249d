package ws

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Close codes for the connect/join policy.
const (
	CloseUnauthenticated = 4001 // rejected before ever entering the receive loop
	CloseInternalFault   = 4002 // unexpected fault during connect
	CloseProtocolFault   = 4003 // fault after join, e.g. credential expired mid-session
)

type Conn struct {
	*websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func NewConn(parent context.Context, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(parent)
	return &Conn{Conn: conn, ctx: ctx, cancel: cancel}
}

func (c *Conn) WriteFrame(data []byte) error {
	c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// CloseWithCode sends a close control frame carrying one of the policy
// codes, then tears the connection down.
func (c *Conn) CloseWithCode(code int, reason string) {
	deadline := time.Now().Add(time.Second)
	_ = c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	c.Close()
}

// ReadLoop blocks reading frames until the client disconnects or the
// connection errors. Every exit path closes the connection, which is what
// drives the guaranteed cleanup in the handler.
func (c *Conn) ReadLoop(onFrame func([]byte)) {
	defer c.Close()

	c.Conn.SetReadLimit(512 * 1024)

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("unexpected close error: %v", err)
			}
			break
		}
		if len(data) > 0 {
			onFrame(data)
		}
	}
}

func (c *Conn) Close() {
	c.cancel()
	_ = c.Conn.Close()
}
