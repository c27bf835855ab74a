package hub

import (
	"fmt"
	"sync"

	"github.com/corvino/roomcast/internal/identity"
	"github.com/corvino/roomcast/internal/protocol"
)

// Registry owns the room-name → Room table. At most one live Room instance
// exists per name; a room disappears from the table as soon as its last
// member leaves.
//
// Lock order is always registry → room. leave takes the room lock alone
// and defers table cleanup to removeIfEmpty, which re-checks emptiness
// under both locks.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// RoomSnapshot is a point-in-time view of a room for listing.
type RoomSnapshot struct {
	Name    string
	Members int
}

// Rooms returns a snapshot of every active room.
func (reg *Registry) Rooms() []RoomSnapshot {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]RoomSnapshot, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		r.mu.Lock()
		out = append(out, RoomSnapshot{Name: r.name, Members: len(r.members)})
		r.mu.Unlock()
	}
	return out
}

// MemberNames returns the display names active in the named room, sorted,
// or nil if the room does not exist.
func (reg *Registry) MemberNames(name string) []string {
	reg.mu.RLock()
	r, ok := reg.rooms[name]
	reg.mu.RUnlock()
	if !ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memberNamesLocked()
}

// join resolves (or creates) the named room and, in one critical section:
// generates a display name excluding those active in the room, assigns it,
// adds the connection to the member set, queues identity-assigned to the
// new member, and announces member-joined to everyone else. Doing all of
// it under the room lock guarantees name uniqueness within the room and
// puts the join at a single point in the room's event order.
//
// It returns the names of the other members at join time.
func (reg *Registry) join(roomName string, c *Conn, gen *identity.Generator) ([]string, error) {
	reg.mu.Lock()
	r, ok := reg.rooms[roomName]
	if !ok {
		r = newRoom(roomName)
		reg.rooms[roomName] = r
	}
	r.mu.Lock()
	reg.mu.Unlock()

	exclude := make(map[string]struct{}, len(r.members))
	for m := range r.members {
		exclude[m.name] = struct{}{}
	}
	name, err := gen.Generate(exclude)
	if err != nil {
		r.mu.Unlock()
		// A room created just for this failed join must not linger.
		reg.removeIfEmpty(r)
		return nil, fmt.Errorf("room %q: %w", roomName, err)
	}

	others := r.memberNamesLocked()
	c.name = name
	c.room.Store(r)
	r.members[c] = struct{}{}
	c.deliver(protocol.IdentityAssigned(name))
	r.broadcastLocked(protocol.MemberJoined(name), c)
	r.mu.Unlock()

	return others, nil
}

// leave removes the connection from its room, announces member-left to the
// remaining members, and drops the room from the table if it is now empty.
// A connection with no room is a no-op.
func (reg *Registry) leave(c *Conn) {
	r := c.room.Load()
	if r == nil {
		return
	}

	r.mu.Lock()
	if _, ok := r.members[c]; !ok {
		r.mu.Unlock()
		// The member set and the connection's room reference are only ever
		// updated together under the room lock; disagreement is a defect.
		panic(fmt.Sprintf("hub: connection %s not in member set of room %q", c.id, r.name))
	}
	delete(r.members, c)
	c.room.Store(nil)
	empty := len(r.members) == 0
	r.broadcastLocked(protocol.MemberLeft(c.name), nil)
	r.mu.Unlock()

	if empty {
		reg.removeIfEmpty(r)
	}
}

// removeIfEmpty deletes the room from the table if it is still the live
// instance for its name and still has no members. A join racing ahead of
// us keeps the room alive.
func (reg *Registry) removeIfEmpty(r *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.rooms[r.name] != r {
		return
	}
	r.mu.Lock()
	empty := len(r.members) == 0
	r.mu.Unlock()
	if empty {
		delete(reg.rooms, r.name)
	}
}
