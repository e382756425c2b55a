package relay

import "sync"

// Registry maps room names to the set of currently connected members. Each
// room has its own lock so activity in one room never stalls another; the
// outer lock only guards the shard map itself.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomMembers
}

type roomMembers struct {
	mu      sync.RWMutex
	clients map[string]*Client // connection ID -> client
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*roomMembers)}
}

// Join registers c as a member of room. Joining a room twice is a no-op.
func (r *Registry) Join(room string, c *Client) {
	for {
		shard := r.shard(room)
		shard.mu.Lock()
		if shard.clients == nil {
			// Shard was retired by a concurrent Leave; fetch a fresh one.
			shard.mu.Unlock()
			continue
		}
		shard.clients[c.ID] = c
		shard.mu.Unlock()
		return
	}
}

// Leave removes c's membership. Unknown room or non-member is a no-op.
func (r *Registry) Leave(room string, c *Client) {
	r.mu.RLock()
	shard, ok := r.rooms[room]
	r.mu.RUnlock()
	if !ok {
		return
	}

	shard.mu.Lock()
	delete(shard.clients, c.ID)
	empty := len(shard.clients) == 0
	shard.mu.Unlock()

	if empty {
		r.mu.Lock()
		// Re-check under the write lock; a concurrent join may have landed.
		if cur, ok := r.rooms[room]; ok && cur == shard {
			shard.mu.Lock()
			if len(shard.clients) == 0 {
				// Retire the shard so a racing Join re-creates the room
				// instead of landing on an unregistered member set.
				shard.clients = nil
				delete(r.rooms, room)
			}
			shard.mu.Unlock()
		}
		r.mu.Unlock()
	}
}

// Members returns a snapshot of the room's current members.
func (r *Registry) Members(room string) []*Client {
	r.mu.RLock()
	shard, ok := r.rooms[room]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	shard.mu.RLock()
	defer shard.mu.RUnlock()
	members := make([]*Client, 0, len(shard.clients))
	for _, c := range shard.clients {
		members = append(members, c)
	}
	return members
}

// MemberCount reports the number of connections in a room.
func (r *Registry) MemberCount(room string) int {
	r.mu.RLock()
	shard, ok := r.rooms[room]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	shard.mu.RLock()
	defer shard.mu.RUnlock()
	return len(shard.clients)
}

func (r *Registry) shard(room string) *roomMembers {
	r.mu.RLock()
	shard, ok := r.rooms[room]
	r.mu.RUnlock()
	if ok {
		return shard
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if shard, ok = r.rooms[room]; !ok {
		shard = &roomMembers{clients: make(map[string]*Client)}
		r.rooms[room] = shard
	}
	return shard
}
