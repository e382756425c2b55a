package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second

	sendBuffer = 256
)

// Client owns one live websocket session. The read pump feeds decoded events
// to the gateway; the write pump drains the send channel. A client tracks the
// rooms it joined so disconnect cleanup does not scan the whole registry.
type Client struct {
	ID      string
	conn    *websocket.Conn
	gateway *Gateway

	mu     sync.Mutex
	send   chan []byte
	closed bool
	rooms  map[string]bool
}

func NewClient(conn *websocket.Conn, gateway *Gateway) *Client {
	return &Client{
		ID:      uuid.New().String(),
		conn:    conn,
		gateway: gateway,
		send:    make(chan []byte, sendBuffer),
		rooms:   make(map[string]bool),
	}
}

// enqueue hands a payload to the write pump without blocking. It reports
// false when the client is gone or its buffer is full; callers log and move
// on, they never retry.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) trackJoin(room string) {
	c.mu.Lock()
	c.rooms[room] = true
	c.mu.Unlock()
}

func (c *Client) trackLeave(room string) {
	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

// drainRooms empties and returns the joined-room set.
func (c *Client) drainRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	c.rooms = make(map[string]bool)
	return rooms
}

func (c *Client) ReadPump() {
	defer func() {
		c.gateway.Disconnect(c)
		c.conn.Close()
	}()

	// Set read deadline and pong handler for connection health
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}

		var event models.ClientEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Error("Malformed event from %s: %v", c.ID, err)
			continue
		}

		c.gateway.HandleEvent(context.Background(), c, event)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
