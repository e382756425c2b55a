package models

type EventType string

const (
	// Client -> server
	EventJoin    EventType = "join"
	EventLeave   EventType = "leave"
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"

	// Server -> client
	EventHistory    EventType = "history"
	EventNewMessage EventType = "new_message"
	EventError      EventType = "error"
)

// ClientEvent is the envelope for everything a connection sends upstream.
type ClientEvent struct {
	Type     EventType `json:"type"`
	Room     string    `json:"room,omitempty"`
	Username string    `json:"username,omitempty"`
	Text     string    `json:"text,omitempty"`
	IsTyping bool      `json:"is_typing,omitempty"`
}

// ServerEvent is the envelope for everything pushed back down. IsTyping has
// no omitempty so a typing=false delta still carries the field.
type ServerEvent struct {
	Type     EventType  `json:"type"`
	Room     string     `json:"room,omitempty"`
	Username string     `json:"username,omitempty"`
	IsTyping bool       `json:"is_typing"`
	Message  *Message   `json:"message,omitempty"`
	Messages []*Message `json:"messages,omitempty"`
	Error    string     `json:"error,omitempty"`
}
