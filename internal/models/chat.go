package models

import "time"

type Room struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is immutable once stored. Timestamp is assigned by the store at
// append time; client-declared timestamps are never trusted.
type Message struct {
	ID        int64     `json:"id"`
	Room      string    `json:"room"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}
