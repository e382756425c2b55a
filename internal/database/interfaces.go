package database

import (
	"context"
	"errors"

	"chat-relay/internal/models"
)

// MessageStore is the durable, append-only per-room message log.
type MessageStore interface {
	// SaveMessage persists msg, assigning the server timestamp (when zero)
	// and the message ID, and returns the stored message.
	SaveMessage(ctx context.Context, msg *models.Message) (*models.Message, error)

	// RecentMessages returns up to limit most recent messages for room,
	// ordered oldest-first. An unknown room yields an empty slice.
	RecentMessages(ctx context.Context, room string, limit int) ([]*models.Message, error)

	// DeleteRoomMessages purges a room's log. Only the room management
	// service calls this, as a side effect of room deletion.
	DeleteRoomMessages(ctx context.Context, room string) error
}

type RoomStore interface {
	CreateRoom(ctx context.Context, name string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	DeleteRoom(ctx context.Context, name string) error
	RoomExists(ctx context.Context, name string) (bool, error)
}

type Store interface {
	MessageStore
	RoomStore
	Close() error
}

// ErrDuplicateRoom is returned by CreateRoom when the name is taken, and
// ErrRoomNotFound by DeleteRoom when it is not.
var (
	ErrDuplicateRoom = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room not found")
)
