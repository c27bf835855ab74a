// Package hub implements the room-broadcast core: connections with
// generated display identities, grouped into named rooms, with join/leave
// announcements and message fan-out to every other member. The hub owns
// connection lifecycles and the concurrency discipline around shared room
// state; transports own the sockets and surface open/data/close to it.
package hub

import (
	"log"

	"github.com/corvino/roomcast/internal/identity"
	"github.com/corvino/roomcast/internal/protocol"
)

// Hub coordinates connections, rooms, and event fan-out. Multiple
// independent hubs can coexist; nothing here is process-global.
type Hub struct {
	registry *Registry
	names    *identity.Generator
}

// New creates a Hub. A nil generator gets the default name space.
func New(gen *identity.Generator) *Hub {
	if gen == nil {
		gen = identity.New(identity.Config{})
	}
	return &Hub{
		registry: NewRegistry(),
		names:    gen,
	}
}

// Registry exposes the room table for read-only listing.
func (h *Hub) Registry() *Registry { return h.registry }

// Connect creates a session in the named room. The new connection has its
// identity-assigned event queued before any other member learns of it, so
// the transport always hands the client its name first. Existing members
// receive member-joined. The only failure is identity-namespace
// exhaustion, which leaves the hub unchanged.
func (h *Hub) Connect(roomName string) (*Conn, error) {
	c := newConn()
	others, err := h.registry.join(roomName, c, h.names)
	if err != nil {
		c.setState(StateClosed)
		close(c.events)
		return nil, err
	}
	c.setState(StateActive)
	log.Printf("hub: %s connected to room %q (%d peers)", c.name, roomName, len(others))
	return c, nil
}

// Send fans a message out to every other current member of the sender's
// room. The sender never receives its own message; clients echo locally.
// A message from a connection that is not Active is dropped silently.
func (h *Hub) Send(c *Conn, body string) {
	if c.State() != StateActive {
		return
	}
	r := c.room.Load()
	if r == nil {
		return
	}
	r.broadcast(protocol.Message(c.name, body), c)
}

// Disconnect drives the connection to Closed, removes it from its room,
// and announces member-left to the remaining members. It is idempotent; a
// second notification for the same connection does nothing.
func (h *Hub) Disconnect(c *Conn) {
	if !c.beginClose() {
		return
	}
	name := c.name
	h.registry.leave(c)
	c.setState(StateClosed)
	close(c.events)
	log.Printf("hub: %s disconnected", name)
}
