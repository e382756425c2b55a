package chatclient

import (
	"fmt"
	"sort"
	"sync"

	"chat-relay/internal/models"
)

// Reconciler merges server-pushed events into a consistent per-room view: an
// ordered, deduplicated message list plus the set of users currently typing.
// It is safe for concurrent use; the read loop writes while the UI reads.
type Reconciler struct {
	mu    sync.RWMutex
	rooms map[string]*roomView
}

type roomView struct {
	messages []*models.Message
	seen     map[string]struct{}
	typing   map[string]struct{}
}

func NewReconciler() *Reconciler {
	return &Reconciler{rooms: make(map[string]*roomView)}
}

// dedupKey builds the duplicate-detection key from user-visible fields. Two
// distinct messages with the same sender, text and millisecond timestamp
// collide and the later one is dropped; the server assigns unique IDs, so a
// stricter key is available once the wire contract promises them.
func dedupKey(msg *models.Message) string {
	return fmt.Sprintf("%d_%s_%s", msg.Timestamp.UnixMilli(), msg.Username, msg.Text)
}

// ApplySnapshot replaces the room's message list and rebuilds the dedup index
// from it. The typing set is unrelated state and survives.
func (r *Reconciler) ApplySnapshot(room string, messages []*models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.view(room)
	view.messages = make([]*models.Message, len(messages))
	copy(view.messages, messages)
	view.seen = make(map[string]struct{}, len(messages))
	for _, msg := range messages {
		view.seen[dedupKey(msg)] = struct{}{}
	}
}

// ApplyMessage appends a pushed message in arrival order and reports whether
// it was new. Re-delivered payloads are discarded.
func (r *Reconciler) ApplyMessage(msg *models.Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.view(msg.Room)
	key := dedupKey(msg)
	if _, ok := view.seen[key]; ok {
		return false
	}
	view.seen[key] = struct{}{}
	view.messages = append(view.messages, msg)
	return true
}

// ApplyTyping merges a typing delta into the room's typing set.
func (r *Reconciler) ApplyTyping(room, username string, isTyping bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.view(room)
	if isTyping {
		view.typing[username] = struct{}{}
	} else {
		delete(view.typing, username)
	}
}

// Messages returns a copy of the room's ordered message list.
func (r *Reconciler) Messages(room string) []*models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view, ok := r.rooms[room]
	if !ok {
		return nil
	}
	result := make([]*models.Message, len(view.messages))
	copy(result, view.messages)
	return result
}

// TypingUsers returns the usernames currently typing in room, sorted.
func (r *Reconciler) TypingUsers(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view, ok := r.rooms[room]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(view.typing))
	for username := range view.typing {
		users = append(users, username)
	}
	sort.Strings(users)
	return users
}

func (r *Reconciler) view(room string) *roomView {
	view, ok := r.rooms[room]
	if !ok {
		view = &roomView{
			seen:   make(map[string]struct{}),
			typing: make(map[string]struct{}),
		}
		r.rooms[room] = view
	}
	return view
}
