package chatclient

import (
	"context"
	"errors"
	"sync"

	"chat-relay/internal/models"

	"github.com/gorilla/websocket"
)

// Client is the Go client for the chat relay. Inbound events are merged into
// the Reconciler first and then handed to the registered callbacks, so a
// callback always observes the already-reconciled view. Callbacks must be
// registered before Start; after Close returns, no callback fires again.
type Client struct {
	username string
	conn     *websocket.Conn
	rec      *Reconciler

	onHistory func(room string, messages []*models.Message)
	onMessage func(msg *models.Message)
	onTyping  func(room, username string, isTyping bool)
	onError   func(err error)

	writeMu  sync.Mutex
	started  bool
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// Dial connects to the relay's websocket endpoint. The username is declared,
// not authenticated; the server trusts it as-is.
func Dial(ctx context.Context, url, username string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		username: username,
		conn:     conn,
		rec:      NewReconciler(),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

func (c *Client) SetOnHistory(fn func(room string, messages []*models.Message)) { c.onHistory = fn }
func (c *Client) SetOnMessage(fn func(msg *models.Message))                     { c.onMessage = fn }
func (c *Client) SetOnTyping(fn func(room, username string, isTyping bool))     { c.onTyping = fn }
func (c *Client) SetOnError(fn func(err error))                                 { c.onError = fn }

// Reconciler exposes the per-room views maintained by the read loop.
func (c *Client) Reconciler() *Reconciler { return c.rec }

// Start launches the read loop. Registering callbacks after Start races with
// it and is not supported.
func (c *Client) Start() error {
	if c.started {
		return errors.New("chatclient: already started")
	}
	c.started = true
	go c.readLoop()
	return nil
}

// Close tears the connection down and waits for the read loop to exit, so no
// callback fires against torn-down state.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
		if c.started {
			<-c.finished
		}
	})
	return err
}

// Join subscribes to a room. The server answers with a history snapshot;
// rejoining after a reconnect resends it and the Reconciler rebuilds.
func (c *Client) Join(room string) error {
	return c.write(models.ClientEvent{Type: models.EventJoin, Room: room, Username: c.username})
}

func (c *Client) Leave(room string) error {
	return c.write(models.ClientEvent{Type: models.EventLeave, Room: room})
}

func (c *Client) SendMessage(room, text string) error {
	return c.write(models.ClientEvent{Type: models.EventMessage, Room: room, Username: c.username, Text: text})
}

func (c *Client) SetTyping(room string, isTyping bool) error {
	return c.write(models.ClientEvent{Type: models.EventTyping, Room: room, Username: c.username, IsTyping: isTyping})
}

// TypingNotifier builds a debounced notifier bound to one room. Wire its
// Keystroke to input events and Flush to message send.
func (c *Client) TypingNotifier(room string) *TypingNotifier {
	return NewTypingNotifier(DefaultQuietPeriod, func(isTyping bool) {
		if err := c.SetTyping(room, isTyping); err != nil {
			c.fireError(err)
		}
	})
}

func (c *Client) write(event models.ClientEvent) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(event)
}

func (c *Client) readLoop() {
	defer close(c.finished)

	for {
		var event models.ServerEvent
		if err := c.conn.ReadJSON(&event); err != nil {
			select {
			case <-c.done:
			default:
				c.fireError(err)
			}
			return
		}

		select {
		case <-c.done:
			return
		default:
		}

		c.dispatch(event)
	}
}

func (c *Client) dispatch(event models.ServerEvent) {
	switch event.Type {
	case models.EventHistory:
		c.rec.ApplySnapshot(event.Room, event.Messages)
		if c.onHistory != nil {
			c.onHistory(event.Room, event.Messages)
		}
	case models.EventNewMessage:
		if event.Message == nil {
			return
		}
		// Duplicates stop here; callbacks only see messages that landed.
		if c.rec.ApplyMessage(event.Message) && c.onMessage != nil {
			c.onMessage(event.Message)
		}
	case models.EventTyping:
		c.rec.ApplyTyping(event.Room, event.Username, event.IsTyping)
		if c.onTyping != nil {
			c.onTyping(event.Room, event.Username, event.IsTyping)
		}
	case models.EventError:
		c.fireError(errors.New(event.Error))
	}
}

func (c *Client) fireError(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}
