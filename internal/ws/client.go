package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

var errPeerUnavailable = errors.New("peer unavailable")

// Client owns one websocket connection for its lifetime. Reads happen on
// the connection's session goroutine; writes are serialized through the
// send channel and a single write pump, as gorilla permits only one
// concurrent writer.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// Send queues a payload for delivery. Returns an error when the client is
// closed or its buffer is full; callers treat both as a skipped delivery.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return errPeerUnavailable
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errPeerUnavailable
	default:
		return errPeerUnavailable
	}
}

// ReadLoop blocks reading frames in arrival order, invoking handle once per
// frame. Returns when the transport fails or the peer disconnects; that is
// the connection's only fatal path.
func (c *Client) ReadLoop(handle func(raw []byte)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(raw)
	}
}

// Close terminates the connection. Safe to call multiple times and from
// any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
