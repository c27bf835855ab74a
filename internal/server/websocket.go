package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/corvino/roomcast/internal/hub"
	"github.com/corvino/roomcast/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// client couples a hub session with the WebSocket carrying it. The read
// pump turns frames into hub calls; the write pump drains the session's
// event queue onto the wire.
type client struct {
	hub  *hub.Hub
	sess *hub.Conn
	conn *websocket.Conn
	room string
}

// serveWS upgrades the request and attaches a new hub session. A connect
// rejection (identity exhaustion) closes the socket with a try-again-later
// status and leaves the hub untouched.
func serveWS(h *hub.Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, roomName string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	sess, err := h.Connect(roomName)
	if err != nil {
		log.Printf("ws connect rejected room=%s: %v", roomName, err)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "no identity available"),
			time.Now().Add(writeWait),
		)
		conn.Close()
		return
	}

	c := &client{hub: h, sess: sess, conn: conn, room: roomName}
	go c.writePump()
	go c.readPump()
}

// readPump reads frames from the socket and forwards send-message bodies
// to the hub. Malformed or unexpected frames are logged and dropped here;
// the hub never sees them. Any read error, including the peer closing,
// surfaces to the hub as a disconnect.
func (c *client) readPump() {
	defer func() {
		c.hub.Disconnect(c.sess)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error room=%s name=%s: %v", c.room, c.sess.Name(), err)
			}
			return
		}
		var frame protocol.ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("ws malformed frame room=%s name=%s: %v", c.room, c.sess.Name(), err)
			continue
		}
		if frame.Type != protocol.EventSendMessage {
			log.Printf("ws dropped frame type %q room=%s name=%s", frame.Type, c.room, c.sess.Name())
			continue
		}
		c.hub.Send(c.sess, frame.Body)
	}
}

// writePump sends queued events to the socket and keeps the connection
// alive with pings. It exits when the session's event channel closes
// (hub-side disconnect) or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.sess.Events():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
