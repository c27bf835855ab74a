package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvino/roomcast/internal/hub"
	"github.com/corvino/roomcast/internal/identity"
	"github.com/corvino/roomcast/internal/protocol"
	"github.com/corvino/roomcast/internal/server"
)

func newTestServer(t *testing.T, h *hub.Hub, cfg server.Config) *httptest.Server {
	t.Helper()
	srv := server.New(h, cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server, room string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + room
}

func dial(t *testing.T, ts *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, room), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) protocol.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev protocol.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func sendFrame(t *testing.T, conn *websocket.Conn, body string) {
	t.Helper()
	frame := protocol.ClientFrame{Type: protocol.EventSendMessage, Body: body}
	require.NoError(t, conn.WriteJSON(frame))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, hub.New(nil), server.Config{})

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health protocol.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Rooms)
}

func TestWebSocketChat(t *testing.T) {
	ts := newTestServer(t, hub.New(nil), server.Config{})

	a := dial(t, ts, "main")
	identA := readEvent(t, a)
	require.Equal(t, protocol.EventIdentityAssigned, identA.Type)
	require.NotEmpty(t, identA.Name)

	b := dial(t, ts, "main")
	identB := readEvent(t, b)
	require.Equal(t, protocol.EventIdentityAssigned, identB.Type)
	assert.NotEqual(t, identA.Name, identB.Name)

	joined := readEvent(t, a)
	assert.Equal(t, protocol.MemberJoined(identB.Name), joined)

	sendFrame(t, a, "hi")
	msg := readEvent(t, b)
	assert.Equal(t, protocol.Message(identA.Name, "hi"), msg)

	// Disconnect A; B is told.
	require.NoError(t, a.Close())
	left := readEvent(t, b)
	assert.Equal(t, protocol.MemberLeft(identA.Name), left)
}

func TestRoomsAndMembersEndpoints(t *testing.T) {
	h := hub.New(nil)
	ts := newTestServer(t, h, server.Config{})

	conn := dial(t, ts, "lobby")
	ident := readEvent(t, conn)
	require.Equal(t, protocol.EventIdentityAssigned, ident.Type)

	resp, err := http.Get(ts.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	var rooms protocol.RoomList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	require.Len(t, rooms.Rooms, 1)
	assert.Equal(t, "lobby", rooms.Rooms[0].Name)
	assert.Equal(t, 1, rooms.Rooms[0].Members)

	resp2, err := http.Get(ts.URL + "/api/rooms/lobby/members")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var members protocol.MemberList
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&members))
	assert.Equal(t, []string{ident.Name}, members.Members)

	resp3, err := http.Get(ts.URL + "/api/rooms/nosuch/members")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var empty protocol.MemberList
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&empty))
	assert.Empty(t, empty.Members)
}

func TestMalformedFramesDropped(t *testing.T) {
	ts := newTestServer(t, hub.New(nil), server.Config{})

	a := dial(t, ts, "main")
	readEvent(t, a) // identity
	b := dial(t, ts, "main")
	readEvent(t, b) // identity
	readEvent(t, a) // b joined

	// Garbage, then a frame with an unknown tag, then a real message. Only
	// the real one comes through and the connection survives.
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, b.WriteJSON(map[string]string{"event": "member-left", "name": "spoof"}))
	sendFrame(t, b, "still here")

	msg := readEvent(t, a)
	assert.Equal(t, protocol.EventMessage, msg.Type)
	assert.Equal(t, "still here", msg.Body)
}

func TestConnectRejectedOnExhaustedNamespace(t *testing.T) {
	gen := identity.New(identity.Config{
		Adjectives: []string{"solo"},
		Nouns:      []string{"fox"},
		MaxNumber:  1,
	})
	ts := newTestServer(t, hub.New(gen), server.Config{})

	a := dial(t, ts, "main")
	readEvent(t, a) // identity

	b := dial(t, ts, "main")
	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := b.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseTryAgainLater), "expected try-again-later close, got %v", err)
}

func TestOriginAllowlist(t *testing.T) {
	ts := newTestServer(t, hub.New(nil), server.Config{
		AllowedOrigins: []string{"http://allowed.example"},
	})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "main"), http.Header{
		"Origin": []string{"http://evil.example"},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "main"), http.Header{
		"Origin": []string{"http://allowed.example"},
	})
	require.NoError(t, err)
	conn.Close()
}

func TestIndexServed(t *testing.T) {
	ts := newTestServer(t, hub.New(nil), server.Config{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
