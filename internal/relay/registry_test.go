package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry()
	a, b := newTestClient(), newTestClient()

	r.Join("lobby", a)
	r.Join("lobby", b)
	assert.Equal(t, 2, r.MemberCount("lobby"))

	// Duplicate join is a no-op.
	r.Join("lobby", a)
	assert.Equal(t, 2, r.MemberCount("lobby"))

	r.Leave("lobby", a)
	assert.Equal(t, 1, r.MemberCount("lobby"))
	members := r.Members("lobby")
	assert.Len(t, members, 1)
	assert.Equal(t, b.ID, members[0].ID)

	// Leaving an unknown room or twice is harmless.
	r.Leave("lobby", a)
	r.Leave("nowhere", a)
	assert.Equal(t, 1, r.MemberCount("lobby"))
}

func TestRegistryEmptyRoomIsDropped(t *testing.T) {
	r := NewRegistry()
	a := newTestClient()

	r.Join("lobby", a)
	r.Leave("lobby", a)

	assert.Equal(t, 0, r.MemberCount("lobby"))
	assert.Nil(t, r.Members("lobby"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room := fmt.Sprintf("room-%d", i%5)
			c := newTestClient()
			r.Join(room, c)
			r.Members(room)
			r.Leave(room, c)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		assert.Equal(t, 0, r.MemberCount(fmt.Sprintf("room-%d", i)))
	}
}
