package services

import (
	"context"
	"fmt"
	"strings"

	"chat-relay/internal/database"
	"chat-relay/internal/models"
)

// RoomService is the room management collaborator: it owns room identities
// and is the only caller of the history store's room purge. The relay itself
// never creates or deletes rooms.
type RoomService struct {
	store database.Store
}

func NewRoomService(store database.Store) *RoomService {
	return &RoomService{store: store}
}

func (s *RoomService) CreateRoom(ctx context.Context, req *models.CreateRoomRequest) (*models.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("room name is required")
	}

	return s.store.CreateRoom(ctx, name)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.store.ListRooms(ctx)
}

// DeleteRoom removes the room identity, then purges its message log.
func (s *RoomService) DeleteRoom(ctx context.Context, name string) error {
	if err := s.store.DeleteRoom(ctx, name); err != nil {
		return err
	}
	return s.store.DeleteRoomMessages(ctx, name)
}

func (s *RoomService) RoomExists(ctx context.Context, name string) (bool, error) {
	return s.store.RoomExists(ctx, name)
}
