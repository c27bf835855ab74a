package hub

import (
	"sync/atomic"

	"github.com/corvino/roomcast/internal/protocol"
	"github.com/google/uuid"
)

// eventBuffer is the per-connection outbound queue depth. A member whose
// transport falls further behind than this starts losing events instead of
// stalling the room.
const eventBuffer = 256

// State tracks a connection through its one-way lifecycle. Transitions
// never go backwards and Closed is terminal.
type State int32

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Conn is one client's session with the hub: an opaque ID, a display name
// assigned at connect time, membership in exactly one room, and a buffered
// outbound event queue the transport drains.
type Conn struct {
	id    string
	name  string // immutable once assigned under the room lock in join
	state atomic.Int32
	room  atomic.Pointer[Room]

	events chan protocol.Event
}

func newConn() *Conn {
	c := &Conn{
		id:     uuid.New().String(),
		events: make(chan protocol.Event, eventBuffer),
	}
	c.state.Store(int32(StateConnecting))
	return c
}

// ID returns the process-lifetime-unique connection handle.
func (c *Conn) ID() string { return c.id }

// Name returns the display name assigned at connect time.
func (c *Conn) Name() string { return c.name }

// State returns the current lifecycle state.
func (c *Conn) State() State { return State(c.state.Load()) }

// Events is the outbound event stream. The channel is closed once the
// connection reaches Closed; transports should drain until then.
func (c *Conn) Events() <-chan protocol.Event { return c.events }

// deliver enqueues an event without blocking. Deliveries to a member only
// happen while its room's lock is held (or, for identity-assigned, before
// the connection is visible to anyone), which is what makes closing the
// channel in Disconnect safe.
func (c *Conn) deliver(ev protocol.Event) {
	select {
	case c.events <- ev:
	default:
		// Consumer too slow; best-effort drop.
	}
}

// beginClose moves Connecting or Active to Closing. It reports false when
// the connection is already Closing or Closed, which makes a repeated
// disconnect notification a no-op.
func (c *Conn) beginClose() bool {
	return c.state.CompareAndSwap(int32(StateConnecting), int32(StateClosing)) ||
		c.state.CompareAndSwap(int32(StateActive), int32(StateClosing))
}

func (c *Conn) setState(s State) { c.state.Store(int32(s)) }
