package ws

import (
	"context"
	"errors"
	"sync"
)

// Client is one joined connection as the broadcaster sees it. Frames are
// queued on a buffered channel and written by a single goroutine, so Send
// never blocks a broadcast on a slow socket.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *Conn
	id     string
	userID string
	room   string
	out    chan []byte
	once   sync.Once
}

func NewClient(parent context.Context, conn *Conn, id, userID, room string) *Client {
	ctx, cancel := context.WithCancel(parent)
	c := &Client{
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		id:     id,
		userID: userID,
		room:   room,
		out:    make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }
func (c *Client) Room() string   { return c.room }

func (c *Client) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return errors.New("client closed")
	default:
	}
	select {
	case c.out <- data:
		return nil
	default:
		return errors.New("client send buffer full")
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
	})
}

func (c *Client) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.conn.WriteFrame(data); err != nil {
				return
			}
		}
	}
}
