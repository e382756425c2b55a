package relay

import (
	"encoding/json"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// Relay delivers server events to room members. Delivery is fire-and-forget:
// a connection that cannot take the payload is logged and skipped, and the
// rest of the room still gets it.
type Relay struct {
	registry *Registry
}

func NewRelay(registry *Registry) *Relay {
	return &Relay{registry: registry}
}

// Broadcast sends event to every member of room, skipping excludeID when
// non-empty.
func (r *Relay) Broadcast(room string, event *models.ServerEvent, excludeID string) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Error marshaling %s event for room %s: %v", event.Type, room, err)
		return
	}

	for _, member := range r.registry.Members(room) {
		if member.ID == excludeID {
			continue
		}
		if !member.enqueue(payload) {
			logger.Warn("Dropping %s event for connection %s in room %s", event.Type, member.ID, room)
		}
	}
}

// Unicast sends event to a single connection, with broadcast delivery
// semantics (failure logged, never surfaced).
func (r *Relay) Unicast(c *Client, event *models.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Error marshaling %s event: %v", event.Type, err)
		return
	}

	if !c.enqueue(payload) {
		logger.Warn("Dropping %s event for connection %s", event.Type, c.ID)
	}
}
