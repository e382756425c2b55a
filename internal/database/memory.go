package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"chat-relay/internal/models"
)

// MemoryStore keeps rooms and messages in process memory. It backs tests and
// the DATABASE_URL=memory development mode; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	rooms    map[string]*models.Room
	messages map[string][]*models.Message // room name -> messages, append order
	nextID   int64
	roomID   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:    make(map[string]*models.Room),
		messages: make(map[string][]*models.Message),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := &models.Message{
		ID:        s.nextID,
		Room:      msg.Room,
		Username:  msg.Username,
		Text:      msg.Text,
		Timestamp: msg.Timestamp,
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	s.messages[msg.Room] = append(s.messages[msg.Room], stored)
	return stored, nil
}

func (s *MemoryStore) RecentMessages(_ context.Context, room string, limit int) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[room]
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	result := make([]*models.Message, len(messages))
	copy(result, messages)
	return result, nil
}

func (s *MemoryStore) DeleteRoomMessages(_ context.Context, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, room)
	return nil
}

func (s *MemoryStore) CreateRoom(_ context.Context, name string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[name]; ok {
		return nil, ErrDuplicateRoom
	}

	s.roomID++
	room := &models.Room{ID: s.roomID, Name: name, CreatedAt: time.Now().UTC()}
	s.rooms[name] = room
	return room, nil
}

func (s *MemoryStore) ListRooms(_ context.Context) ([]*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[name]; !ok {
		return ErrRoomNotFound
	}
	delete(s.rooms, name)
	return nil
}

func (s *MemoryStore) RoomExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[name]
	return ok, nil
}
