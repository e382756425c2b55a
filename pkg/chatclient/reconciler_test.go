package chatclient

import (
	"testing"
	"time"

	"chat-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(room, username, text string, ts time.Time) *models.Message {
	return &models.Message{Room: room, Username: username, Text: text, Timestamp: ts}
}

func TestReconcilerDedupIdempotence(t *testing.T) {
	rec := NewReconciler()
	ts := time.Now()

	m := msg("lobby", "A", "hi", ts)
	assert.True(t, rec.ApplyMessage(m))
	// The same payload delivered again must change nothing.
	assert.False(t, rec.ApplyMessage(msg("lobby", "A", "hi", ts)))

	messages := rec.Messages("lobby")
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].Text)
}

func TestReconcilerDedupKeyIsCoarse(t *testing.T) {
	rec := NewReconciler()
	ts := time.UnixMilli(1700000000000)

	// Same sender, text and millisecond: collides and the second is dropped.
	assert.True(t, rec.ApplyMessage(msg("lobby", "A", "hi", ts)))
	assert.False(t, rec.ApplyMessage(msg("lobby", "A", "hi", ts.Add(100*time.Microsecond))))

	// A different millisecond is a different message.
	assert.True(t, rec.ApplyMessage(msg("lobby", "A", "hi", ts.Add(time.Millisecond))))
	assert.Len(t, rec.Messages("lobby"), 2)
}

func TestReconcilerPreservesArrivalOrder(t *testing.T) {
	rec := NewReconciler()
	ts := time.Now()

	rec.ApplyMessage(msg("lobby", "B", "second", ts.Add(time.Second)))
	rec.ApplyMessage(msg("lobby", "A", "first", ts))

	messages := rec.Messages("lobby")
	require.Len(t, messages, 2)
	// Arrival order wins over client-declared timestamps.
	assert.Equal(t, "second", messages[0].Text)
	assert.Equal(t, "first", messages[1].Text)
}

func TestReconcilerSnapshotRebuildsState(t *testing.T) {
	rec := NewReconciler()
	ts := time.Now()

	rec.ApplyMessage(msg("lobby", "A", "stale", ts))

	snapshot := []*models.Message{
		msg("lobby", "A", "one", ts.Add(time.Second)),
		msg("lobby", "B", "two", ts.Add(2*time.Second)),
	}
	rec.ApplySnapshot("lobby", snapshot)

	messages := rec.Messages("lobby")
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)

	// The index was rebuilt from the snapshot: snapshot contents are
	// duplicates, pre-snapshot messages are not.
	assert.False(t, rec.ApplyMessage(msg("lobby", "B", "two", ts.Add(2*time.Second))))
	assert.True(t, rec.ApplyMessage(msg("lobby", "A", "stale", ts)))
}

func TestReconcilerTypingDeltas(t *testing.T) {
	rec := NewReconciler()

	rec.ApplyTyping("lobby", "A", true)
	rec.ApplyTyping("lobby", "B", true)
	assert.Equal(t, []string{"A", "B"}, rec.TypingUsers("lobby"))

	// Adding an already-typing user is a no-op.
	rec.ApplyTyping("lobby", "A", true)
	assert.Equal(t, []string{"A", "B"}, rec.TypingUsers("lobby"))

	rec.ApplyTyping("lobby", "A", false)
	assert.Equal(t, []string{"B"}, rec.TypingUsers("lobby"))

	// Removing an absent user is a no-op.
	rec.ApplyTyping("lobby", "Z", false)
	assert.Equal(t, []string{"B"}, rec.TypingUsers("lobby"))
}

func TestReconcilerSnapshotKeepsTypingSet(t *testing.T) {
	rec := NewReconciler()

	rec.ApplyTyping("lobby", "A", true)
	rec.ApplySnapshot("lobby", nil)

	assert.Equal(t, []string{"A"}, rec.TypingUsers("lobby"))
}

func TestReconcilerRoomsAreIndependent(t *testing.T) {
	rec := NewReconciler()
	ts := time.Now()

	rec.ApplyMessage(msg("lobby", "A", "hi", ts))
	rec.ApplyMessage(msg("random", "A", "hi", ts))

	assert.Len(t, rec.Messages("lobby"), 1)
	assert.Len(t, rec.Messages("random"), 1)
	assert.Nil(t, rec.Messages("elsewhere"))
}
