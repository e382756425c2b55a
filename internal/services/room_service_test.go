package services

import (
	"context"
	"testing"

	"chat-relay/internal/database"
	"chat-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomValidation(t *testing.T) {
	svc := NewRoomService(database.NewMemoryStore())
	ctx := context.Background()

	tests := []struct {
		name        string
		roomName    string
		expectError bool
	}{
		{name: "valid name", roomName: "lobby", expectError: false},
		{name: "trimmed name", roomName: "  random  ", expectError: false},
		{name: "empty name", roomName: "", expectError: true},
		{name: "whitespace only", roomName: "   ", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := svc.CreateRoom(ctx, &models.CreateRoomRequest{Name: tt.roomName})
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, room.Name)
			assert.NotContains(t, room.Name, " ")
		})
	}
}

func TestCreateRoomDuplicate(t *testing.T) {
	svc := NewRoomService(database.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, &models.CreateRoomRequest{Name: "lobby"})
	require.NoError(t, err)

	_, err = svc.CreateRoom(ctx, &models.CreateRoomRequest{Name: "lobby"})
	assert.ErrorIs(t, err, database.ErrDuplicateRoom)
}

func TestDeleteRoomPurgesHistory(t *testing.T) {
	store := database.NewMemoryStore()
	svc := NewRoomService(store)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, &models.CreateRoomRequest{Name: "lobby"})
	require.NoError(t, err)
	_, err = store.SaveMessage(ctx, &models.Message{Room: "lobby", Username: "A", Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRoom(ctx, "lobby"))

	exists, err := svc.RoomExists(ctx, "lobby")
	require.NoError(t, err)
	assert.False(t, exists)

	messages, err := store.RecentMessages(ctx, "lobby", 50)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteRoomUnknown(t *testing.T) {
	svc := NewRoomService(database.NewMemoryStore())
	assert.ErrorIs(t, svc.DeleteRoom(context.Background(), "nope"), database.ErrRoomNotFound)
}
