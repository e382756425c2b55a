package relay

import (
	"sort"
	"sync"
)

// TypingAggregator tracks, per room, which usernames currently report
// themselves as typing. It owns no timers: an entry lives until a
// typing=false event clears it, so a connection that drops mid-typing leaves
// its username behind. Disconnect cleanup deliberately does not touch this
// state, matching the reference behavior.
type TypingAggregator struct {
	mu    sync.RWMutex
	rooms map[string]map[string]bool
}

func NewTypingAggregator() *TypingAggregator {
	return &TypingAggregator{rooms: make(map[string]map[string]bool)}
}

// SetTyping records or clears a username for a room and reports whether the
// aggregate state actually changed. Callers use the return to suppress
// redundant delta broadcasts.
func (t *TypingAggregator) SetTyping(room, username string, isTyping bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.rooms[room]
	if isTyping {
		if users[username] {
			return false
		}
		if users == nil {
			users = make(map[string]bool)
			t.rooms[room] = users
		}
		users[username] = true
		return true
	}

	if !users[username] {
		return false
	}
	delete(users, username)
	if len(users) == 0 {
		delete(t.rooms, room)
	}
	return true
}

// Typing returns the usernames currently typing in room, sorted.
func (t *TypingAggregator) Typing(room string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	users := make([]string, 0, len(t.rooms[room]))
	for username := range t.rooms[room] {
		users = append(users, username)
	}
	sort.Strings(users)
	return users
}
