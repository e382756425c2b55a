package database

import (
	"context"
	"fmt"
	"testing"

	"chat-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAssignsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stored, err := store.SaveMessage(ctx, &models.Message{Room: "lobby", Username: "A", Text: "hi"})
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, "hi", stored.Text)
}

func TestMemoryStoreRecentMessagesBound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name      string
		appended  int
		limit     int
		wantCount int
		wantFirst string
	}{
		{name: "fewer than limit", appended: 3, limit: 50, wantCount: 3, wantFirst: "msg-0"},
		{name: "exactly limit", appended: 50, limit: 50, wantCount: 50, wantFirst: "msg-0"},
		{name: "more than limit", appended: 80, limit: 50, wantCount: 50, wantFirst: "msg-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := "room-" + tt.name
			for i := 0; i < tt.appended; i++ {
				_, err := store.SaveMessage(ctx, &models.Message{
					Room: room, Username: "A", Text: fmt.Sprintf("msg-%d", i),
				})
				require.NoError(t, err)
			}

			messages, err := store.RecentMessages(ctx, room, tt.limit)
			require.NoError(t, err)
			require.Len(t, messages, tt.wantCount)

			// Oldest first, non-decreasing timestamps, the most recent window.
			assert.Equal(t, tt.wantFirst, messages[0].Text)
			assert.Equal(t, fmt.Sprintf("msg-%d", tt.appended-1), messages[len(messages)-1].Text)
			for i := 1; i < len(messages); i++ {
				assert.False(t, messages[i].Timestamp.Before(messages[i-1].Timestamp),
					"timestamps must be non-decreasing")
			}
		})
	}
}

func TestMemoryStoreRecentMessagesUnknownRoom(t *testing.T) {
	store := NewMemoryStore()

	messages, err := store.RecentMessages(context.Background(), "nope", 50)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMemoryStoreDeleteRoomMessages(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.SaveMessage(ctx, &models.Message{Room: "lobby", Username: "A", Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteRoomMessages(ctx, "lobby"))
	messages, err := store.RecentMessages(ctx, "lobby", 50)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMemoryStoreRooms(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	room, err := store.CreateRoom(ctx, "lobby")
	require.NoError(t, err)
	assert.Equal(t, "lobby", room.Name)
	assert.NotZero(t, room.ID)

	_, err = store.CreateRoom(ctx, "lobby")
	assert.ErrorIs(t, err, ErrDuplicateRoom)

	_, err = store.CreateRoom(ctx, "random")
	require.NoError(t, err)

	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "lobby", rooms[0].Name)
	assert.Equal(t, "random", rooms[1].Name)

	exists, err := store.RoomExists(ctx, "lobby")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteRoom(ctx, "lobby"))
	assert.ErrorIs(t, store.DeleteRoom(ctx, "lobby"), ErrRoomNotFound)

	exists, err = store.RoomExists(ctx, "lobby")
	require.NoError(t, err)
	assert.False(t, exists)
}
