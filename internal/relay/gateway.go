package relay

import (
	"context"
	"strings"

	"chat-relay/internal/database"
	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// Gateway processes inbound connection events and drives the registry,
// history store, typing aggregator and relay. Events for one connection are
// handled on that connection's read goroutine, so per-connection arrival
// order is preserved; history store calls happen outside any registry lock,
// so a slow store call for one room never stalls another.
type Gateway struct {
	registry     *Registry
	relay        *Relay
	history      database.MessageStore
	typing       *TypingAggregator
	historyLimit int
}

func NewGateway(registry *Registry, relay *Relay, history database.MessageStore, typing *TypingAggregator, historyLimit int) *Gateway {
	return &Gateway{
		registry:     registry,
		relay:        relay,
		history:      history,
		typing:       typing,
		historyLimit: historyLimit,
	}
}

func (g *Gateway) HandleEvent(ctx context.Context, c *Client, event models.ClientEvent) {
	switch event.Type {
	case models.EventJoin:
		g.Join(ctx, c, event.Room, event.Username)
	case models.EventLeave:
		g.Leave(c, event.Room)
	case models.EventMessage:
		g.Send(ctx, c, event.Room, event.Username, event.Text)
	case models.EventTyping:
		g.SetTyping(c, event.Room, event.Username, event.IsTyping)
	default:
		logger.Debug("Ignoring unknown event type %q from %s", event.Type, c.ID)
	}
}

// Join registers membership and pushes the recent-history snapshot to the
// joining connection only. Rejoining an already-joined room resends the
// snapshot, which is how clients resynchronize after a reconnect. A room with
// no history yields an empty snapshot, never an error.
func (g *Gateway) Join(ctx context.Context, c *Client, room, username string) {
	if room == "" || username == "" {
		return
	}

	g.registry.Join(room, c)
	c.trackJoin(room)
	logger.Info("User %s joined room %s", username, room)

	messages, err := g.history.RecentMessages(ctx, room, g.historyLimit)
	if err != nil {
		logger.Error("Error loading history for room %s: %v", room, err)
		g.relay.Unicast(c, &models.ServerEvent{Type: models.EventError, Room: room, Error: "failed to load history"})
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}

	g.relay.Unicast(c, &models.ServerEvent{Type: models.EventHistory, Room: room, Messages: messages})
}

// Leave drops a single room membership without tearing down the connection.
func (g *Gateway) Leave(c *Client, room string) {
	if room == "" {
		return
	}
	g.registry.Leave(room, c)
	c.trackLeave(room)
}

// Send persists the message, then broadcasts the stored copy to every room
// member, sender included. Broadcast strictly follows the durable append: a
// failed append reaches only the sender, never the room.
func (g *Gateway) Send(ctx context.Context, c *Client, room, username, text string) {
	if room == "" || username == "" {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	stored, err := g.history.SaveMessage(ctx, &models.Message{Room: room, Username: username, Text: text})
	if err != nil {
		logger.Error("Error saving message in room %s: %v", room, err)
		g.relay.Unicast(c, &models.ServerEvent{Type: models.EventError, Room: room, Error: "failed to send message"})
		return
	}

	g.relay.Broadcast(room, &models.ServerEvent{Type: models.EventNewMessage, Room: room, Message: stored}, "")
}

// SetTyping updates the aggregator and broadcasts the delta to everyone in
// the room except the sender. Deltas that change nothing are suppressed.
func (g *Gateway) SetTyping(c *Client, room, username string, isTyping bool) {
	if room == "" || username == "" {
		return
	}

	if !g.typing.SetTyping(room, username, isTyping) {
		return
	}

	g.relay.Broadcast(room, &models.ServerEvent{
		Type:     models.EventTyping,
		Room:     room,
		Username: username,
		IsTyping: isTyping,
	}, c.ID)
}

// Disconnect synchronously removes every membership held by the connection
// and closes its send channel. Typing entries are left as-is; only an
// explicit typing=false clears them.
func (g *Gateway) Disconnect(c *Client) {
	for _, room := range c.drainRooms() {
		g.registry.Leave(room, c)
	}
	c.shutdown()
	logger.Debug("Connection %s disconnected", c.ID)
}
