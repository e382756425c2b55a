package handlers

import (
	"net/http"

	"chat-relay/internal/relay"
	"chat-relay/pkg/logger"

	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	gateway  *relay.Gateway
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(gateway *relay.Gateway, allowedOrigins []string) *WebSocketHandlers {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandlers{
		gateway: gateway,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				return origin == "" || allowed[origin]
			},
		},
	}
}

// HandleWebSocket upgrades the connection and starts the client pumps. Room
// membership and the username arrive later as join events on the socket, so
// the upgrade itself takes no parameters.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := relay.NewClient(conn, h.gateway)
	logger.Debug("Connection %s established", client.ID)

	go client.WritePump()
	go client.ReadPump()
}
