// Package protocol defines the event vocabulary relayed between the hub
// and its transports. Every frame on the wire is one of these tagged
// variants; transports validate the tag before anything reaches the hub.
package protocol

// EventType discriminates the variants of Event and ClientFrame.
type EventType string

const (
	// Hub → client.
	EventIdentityAssigned EventType = "identity-assigned"
	EventMemberJoined     EventType = "member-joined"
	EventMemberLeft       EventType = "member-left"
	EventMessage          EventType = "message"

	// Client → hub.
	EventSendMessage EventType = "send-message"
)

// Event is a hub-to-client frame. Name carries the display name the event
// is about; Body is only set for message events.
type Event struct {
	Type EventType `json:"event"`
	Name string    `json:"name,omitempty"`
	Body string    `json:"body,omitempty"`
}

// IdentityAssigned is sent once to a connection, right after connect.
func IdentityAssigned(name string) Event {
	return Event{Type: EventIdentityAssigned, Name: name}
}

// MemberJoined announces a new room member to the existing ones.
func MemberJoined(name string) Event {
	return Event{Type: EventMemberJoined, Name: name}
}

// MemberLeft announces a departure to the remaining members.
func MemberLeft(name string) Event {
	return Event{Type: EventMemberLeft, Name: name}
}

// Message relays a chat payload from the named sender.
func Message(name, body string) Event {
	return Event{Type: EventMessage, Name: name, Body: body}
}

// ClientFrame is the inbound frame a client sends over the WebSocket.
// Only send-message is accepted; anything else is dropped at the adapter.
type ClientFrame struct {
	Type EventType `json:"event"`
	Body string    `json:"body"`
}
