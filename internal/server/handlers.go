package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/corvino/roomcast/internal/hub"
	"github.com/corvino/roomcast/internal/protocol"
)

// Handlers holds references needed by HTTP handlers.
type Handlers struct {
	Hub       *hub.Hub
	StartTime time.Time

	upgrader websocket.Upgrader
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.StartTime)
	resp := protocol.HealthResponse{
		Status:    "ok",
		Uptime:    uptime.Round(time.Second).String(),
		UptimeSec: uptime.Seconds(),
		Rooms:     len(h.Hub.Registry().Rooms()),
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRooms handles GET /api/rooms.
func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	snapshots := h.Hub.Registry().Rooms()
	rooms := make([]protocol.RoomInfo, len(snapshots))
	for i, s := range snapshots {
		rooms[i] = protocol.RoomInfo{Name: s.Name, Members: s.Members}
	}
	writeJSON(w, http.StatusOK, protocol.RoomList{Rooms: rooms})
}

// ListMembers handles GET /api/rooms/{room}/members.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	roomName := r.PathValue("room")
	if roomName == "" {
		writeError(w, http.StatusBadRequest, "room name required")
		return
	}
	members := h.Hub.Registry().MemberNames(roomName)
	if members == nil {
		members = []string{}
	}
	writeJSON(w, http.StatusOK, protocol.MemberList{Room: roomName, Members: members})
}

// HandleWS handles WS /ws/{room}.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomName := r.PathValue("room")
	if roomName == "" {
		writeError(w, http.StatusBadRequest, "room name required")
		return
	}
	serveWS(h.Hub, &h.upgrader, w, r, roomName)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
