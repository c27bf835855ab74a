package hub

import (
	"sort"
	"sync"

	"github.com/corvino/roomcast/internal/protocol"
)

// Room is a named set of connections that receive each other's broadcasts.
// All membership changes and fan-outs on a room go through its mutex, so
// every member observes the same event order; rooms never coordinate with
// each other.
type Room struct {
	name string

	mu      sync.Mutex
	members map[*Conn]struct{}
}

func newRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[*Conn]struct{}),
	}
}

// Name returns the room's registry key.
func (r *Room) Name() string { return r.name }

// broadcast enqueues ev to every member except skip. Holding the lock
// across the fan-out is what gives each observer the hub's acceptance
// order; deliver never blocks, so the lock is never held across I/O.
func (r *Room) broadcast(ev protocol.Event, skip *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(ev, skip)
}

func (r *Room) broadcastLocked(ev protocol.Event, skip *Conn) {
	for m := range r.members {
		if m == skip {
			continue
		}
		m.deliver(ev)
	}
}

func (r *Room) memberNamesLocked() []string {
	names := make([]string, 0, len(r.members))
	for m := range r.members {
		names = append(names, m.name)
	}
	sort.Strings(names)
	return names
}
